package api

import (
	"strings"
	"time"

	"github.com/mukhiyajipramod/Competitor-UI-Analyzer/internal/analysis"
	"github.com/mukhiyajipramod/Competitor-UI-Analyzer/internal/store"
)

// AnalyzeRequest carries the two competitor URLs for one analysis run.
type AnalyzeRequest struct {
	URLA string `json:"url_a"`
	URLB string `json:"url_b"`
}

// SiteDTO describes one analyzed site: display name, source URL, and the
// layout element tallies.
type SiteDTO struct {
	Name   string         `json:"name"`
	URL    string         `json:"url"`
	Layout map[string]int `json:"layout"`
}

// ComparisonDTO is the partitioned narrative plus the untouched raw response.
type ComparisonDTO struct {
	Similarities string `json:"similarities"`
	Differences  string `json:"differences"`
	Suggestions  string `json:"suggestions"`
	Raw          string `json:"raw_response"`
}

// ScorecardDTO carries either the parsed score table or the extraction error,
// always alongside the raw scoring response for diagnosis.
type ScorecardDTO struct {
	Scores analysis.ScoreTable `json:"scores,omitempty"`
	Error  string              `json:"error,omitempty"`
	Raw    string              `json:"raw_response"`
}

// AnalysisDTO is the API representation of the session's analysis result.
type AnalysisDTO struct {
	SiteA            SiteDTO       `json:"site_a"`
	SiteB            SiteDTO       `json:"site_b"`
	Comparison       ComparisonDTO `json:"comparison"`
	Scorecard        ScorecardDTO  `json:"scorecard"`
	ProcessingTimeMs int64         `json:"processing_time_ms"`
	CreatedAt        time.Time     `json:"created_at"`
}

// RatingBandDTO describes one band of the scorecard color legend.
type RatingBandDTO struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Color string `json:"color"`
}

// RatingLegend mirrors the dashboard color bands for 1-10 ratings.
var RatingLegend = []RatingBandDTO{
	{Label: "Bad", Min: 1, Max: 4, Color: "#CB3438"},
	{Label: "Good", Min: 5, Max: 7, Color: "#D98F05"},
	{Label: "Excellent", Min: 8, Max: 10, Color: "#5FA95A"},
}

// CategoryDefinitions explains each UX scoring dimension for the dashboard.
var CategoryDefinitions = map[string]string{
	"Visual Design":             "Evaluates aesthetics, color scheme, typography, and overall visual appeal of the UI.",
	"Navigation Clarity":        "Measures how easily users can find their way around the site and locate key information.",
	"Content Hierarchy":         "Assesses how well content is organized and prioritized to guide the user's attention.",
	"Call-To-Action Visibility": "Evaluates how clearly action buttons stand out and prompt user engagement.",
	"Accessibility":             "Measures how well the site serves users with disabilities or limitations.",
	"Overall UX":                "Comprehensive rating of the entire user experience combining all factors.",
}

// RatingBand maps a 1-10 rating onto its legend label.
func RatingBand(value int) string {
	switch {
	case value <= 4:
		return "Bad"
	case value <= 7:
		return "Good"
	default:
		return "Excellent"
	}
}

// FromModel converts a stored run into the DTO representation.
func FromModel(run store.AnalysisRun) AnalysisDTO {
	return AnalysisDTO{
		SiteA: SiteDTO{
			Name:   run.SiteAName,
			URL:    run.SiteAURL,
			Layout: run.LayoutA(),
		},
		SiteB: SiteDTO{
			Name:   run.SiteBName,
			URL:    run.SiteBURL,
			Layout: run.LayoutB(),
		},
		Comparison: ComparisonDTO{
			Similarities: run.SimilaritiesText,
			Differences:  run.DifferencesText,
			Suggestions:  run.SuggestionsText,
			Raw:          run.ComparisonText,
		},
		Scorecard: ScorecardDTO{
			Scores: run.Scores(),
			Error:  strings.TrimSpace(run.ScoreError),
			Raw:    run.RawScoreText,
		},
		ProcessingTimeMs: run.ProcessingTimeMs,
		CreatedAt:        run.CreatedAt,
	}
}
