package summary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Config drives layout fetcher behaviour.
type Config struct {
	Timeout   time.Duration
	UserAgent string
	CacheTTL  time.Duration
}

// ElementOrder fixes the display and prompt ordering for the six counted
// element categories.
var ElementOrder = []string{
	"Navbars",
	"Forms",
	"Buttons/Links",
	"Inputs",
	"Headers (H1–H6)",
	"Sections",
}

// ElementDefinitions explains each counted category for the dashboard.
var ElementDefinitions = map[string]string{
	"Navbars":           "Navigation bars containing site links and menus",
	"Forms":             "Input forms for user data submission",
	"Buttons/Links":     "Interactive elements for user actions and navigation",
	"Inputs":            "Form fields, search boxes, and other input elements",
	"Headers (H1–H6)": "Heading elements used for content hierarchy",
	"Sections":          "Distinct content blocks or page segments",
}

// Fetcher downloads competitor pages and tallies layout elements, caching
// summaries per URL for the session so repeated runs against the same site do
// not refetch.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	cacheTTL   time.Duration
	cache      sync.Map // map[string]cacheEntry
}

type cacheEntry struct {
	at     time.Time
	counts map[string]int
}

// NewFetcher constructs a layout fetcher with sane defaults.
func NewFetcher(cfg Config) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	agent := strings.TrimSpace(cfg.UserAgent)
	if agent == "" {
		agent = "Mozilla/5.0"
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  agent,
		cacheTTL:   ttl,
	}
}

// Summarize fetches the page at rawURL and returns its element counts.
func (f *Fetcher) Summarize(ctx context.Context, rawURL string) (map[string]int, error) {
	if f == nil {
		return nil, errors.New("fetcher is nil")
	}
	key := strings.TrimSpace(rawURL)
	if key == "" {
		return nil, errors.New("url is required")
	}

	if entry, ok := f.cache.Load(key); ok {
		cached := entry.(cacheEntry)
		if time.Since(cached.at) < f.cacheTTL {
			return cached.counts, nil
		}
		f.cache.Delete(key)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", key, resp.StatusCode)
	}

	counts, err := CountElements(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", key, err)
	}

	f.cache.Store(key, cacheEntry{at: time.Now(), counts: counts})
	return counts, nil
}

// CountElements tallies the six fixed layout element categories in an HTML
// document. Counts are literal tag-name tallies with no semantic weighting.
func CountElements(r io.Reader) (map[string]int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return map[string]int{
		"Navbars":           doc.Find("nav").Length(),
		"Forms":             doc.Find("form").Length(),
		"Buttons/Links":     doc.Find("button").Length() + doc.Find("a[href]").Length(),
		"Inputs":            doc.Find("input").Length(),
		"Headers (H1–H6)": doc.Find("h1,h2,h3,h4,h5,h6").Length(),
		"Sections":          doc.Find("section").Length(),
	}, nil
}
