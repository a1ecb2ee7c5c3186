package analysis

import "strings"

// Section identifies which bucket of the narrative comparison a line belongs to.
type Section int

const (
	// SectionNone is the state before any header keyword has been seen.
	SectionNone Section = iota
	SectionSimilarities
	SectionDifferences
	SectionSuggestions
)

// Sections holds the partitioned narrative comparison. A bucket stays empty
// when its header keyword never appeared in the response.
type Sections struct {
	Similarities string `json:"similarities"`
	Differences  string `json:"differences"`
	Suggestions  string `json:"suggestions"`
}

// Transition computes the section that applies after seeing the given line and
// whether the line should be emitted into the current bucket. Header lines
// switch the section and are consumed; lines seen before any header are dropped.
// A content line that merely mentions a keyword switches the section too - this
// is an accepted approximation of how the generation service formats output,
// not a parsing guarantee.
func Transition(current Section, line string) (Section, bool) {
	lower := strings.ToLower(strings.TrimSpace(line))
	switch {
	case strings.Contains(lower, "similarities"):
		return SectionSimilarities, false
	case strings.Contains(lower, "differences"):
		return SectionDifferences, false
	case strings.Contains(lower, "suggestions"), strings.Contains(lower, "recommendations"):
		return SectionSuggestions, false
	}
	return current, current != SectionNone
}

// Partition splits a narrative comparison response into the three fixed
// buckets. It is total over any input: an empty response or one without any
// header keyword yields three empty buckets.
func Partition(text string) Sections {
	var out Sections
	lines := strings.Split(text, "\n")
	// A trailing newline terminates the final line rather than opening an
	// empty one; interior blank lines still pass through as separators.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	current := SectionNone
	for _, line := range lines {
		next, emit := Transition(current, line)
		current = next
		if !emit {
			continue
		}
		switch current {
		case SectionSimilarities:
			out.Similarities += strings.TrimSpace(line) + "\n"
		case SectionDifferences:
			out.Differences += strings.TrimSpace(line) + "\n"
		case SectionSuggestions:
			out.Suggestions += strings.TrimSpace(line) + "\n"
		}
	}
	return out
}
