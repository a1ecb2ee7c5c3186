package summary

import (
	"regexp"
	"strings"
	"unicode"
)

var protocolStripper = regexp.MustCompile(`^https?://`)

// SiteName derives a display name from a competitor URL: the first host label
// after dropping the scheme and a leading www. prefix, capitalized. Anything
// unusable falls back to "Site".
func SiteName(rawURL string) string {
	lower := strings.ToLower(strings.TrimSpace(rawURL))
	lower = protocolStripper.ReplaceAllString(lower, "")

	// Trim path, query, fragment
	for _, sep := range []string{"/", "?", "#"} {
		if idx := strings.Index(lower, sep); idx >= 0 {
			lower = lower[:idx]
		}
	}

	// Drop credentials if present (user:pass@)
	if idx := strings.LastIndex(lower, "@"); idx >= 0 {
		lower = lower[idx+1:]
	}

	host := lower
	if idx := strings.IndexRune(host, ':'); idx >= 0 {
		host = host[:idx]
	}

	host = strings.Trim(host, ".")
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return "Site"
	}

	label := host
	if idx := strings.IndexRune(label, '.'); idx >= 0 {
		label = label[:idx]
	}
	if label == "" {
		return "Site"
	}

	runes := []rune(label)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
