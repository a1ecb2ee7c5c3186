package store

import (
	"encoding/json"
	"strings"
	"time"
)

// AnalysisRun is the full result of one analysis: both site summaries, the
// partitioned narrative, and the scorecard (or the extraction error raised in
// its place). Exactly one row exists at a time; each run replaces it wholesale.
type AnalysisRun struct {
	ID               uint   `gorm:"primaryKey"`
	SiteAName        string `gorm:"size:128"`
	SiteAURL         string `gorm:"size:512"`
	SiteALayoutJSON  string `gorm:"type:text"`
	SiteBName        string `gorm:"size:128"`
	SiteBURL         string `gorm:"size:512"`
	SiteBLayoutJSON  string `gorm:"type:text"`
	ComparisonText   string `gorm:"type:text"`
	SimilaritiesText string `gorm:"type:text"`
	DifferencesText  string `gorm:"type:text"`
	SuggestionsText  string `gorm:"type:text"`
	ScoresJSON       string `gorm:"type:text"`
	ScoreError       string `gorm:"size:512"`
	RawScoreText     string `gorm:"type:text"`
	ProcessingTimeMs int64
	CreatedAt        time.Time `gorm:"autoCreateTime"`
}

// SetLayoutA stores site A's element counts as JSON.
func (r *AnalysisRun) SetLayoutA(layout map[string]int) {
	r.SiteALayoutJSON = marshalCounts(layout)
}

// SetLayoutB stores site B's element counts as JSON.
func (r *AnalysisRun) SetLayoutB(layout map[string]int) {
	r.SiteBLayoutJSON = marshalCounts(layout)
}

// LayoutA returns the decoded element counts for site A.
func (r *AnalysisRun) LayoutA() map[string]int {
	return unmarshalCounts(r.SiteALayoutJSON)
}

// LayoutB returns the decoded element counts for site B.
func (r *AnalysisRun) LayoutB() map[string]int {
	return unmarshalCounts(r.SiteBLayoutJSON)
}

// SetScores persists the scorecard as JSON.
func (r *AnalysisRun) SetScores(scores map[string]map[string]int) {
	if scores == nil {
		r.ScoresJSON = ""
		return
	}
	payload, _ := json.Marshal(scores)
	r.ScoresJSON = string(payload)
}

// Scores returns the decoded scorecard, or nil when extraction failed.
func (r *AnalysisRun) Scores() map[string]map[string]int {
	if strings.TrimSpace(r.ScoresJSON) == "" {
		return nil
	}
	var out map[string]map[string]int
	if err := json.Unmarshal([]byte(r.ScoresJSON), &out); err != nil {
		return nil
	}
	return out
}

func marshalCounts(counts map[string]int) string {
	if counts == nil {
		return "{}"
	}
	payload, _ := json.Marshal(counts)
	return string(payload)
}

func unmarshalCounts(raw string) map[string]int {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out map[string]int
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}
