package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// ScoreTable maps a site display name to its per-category 1-10 ratings. The
// extractor trusts the generation service for both key sets; the presentation
// layer decides how to render categories outside ScoreCategories.
type ScoreTable map[string]map[string]int

// ScoreCategories are the six UX dimensions the scoring prompt asks for. The
// model may omit or add categories, so nothing here enforces the set.
var ScoreCategories = []string{
	"Visual Design",
	"Navigation Clarity",
	"Content Hierarchy",
	"Call-To-Action Visibility",
	"Accessibility",
	"Overall UX",
}

// ExtractionError is the tagged failure produced when no parseable JSON object
// can be recovered from a scoring response.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Greedy span from the first '{' through the last '}' in the response. Correct
// only while the scorecard is the sole brace pair in the text; nested braces
// inside the object are fine, a second unrelated pair after it is not.
var jsonBlockPattern = regexp.MustCompile(`\{[\s\S]+\}`)

// ExtractScores locates the JSON scorecard embedded in a free-form scoring
// response and parses it. The original response text is always returned
// unchanged alongside the result so callers can surface it for diagnosis.
// The table is all-or-nothing: a malformed object yields an *ExtractionError,
// never a partially coerced mapping.
func ExtractScores(text string) (ScoreTable, string, error) {
	span := jsonBlockPattern.FindString(text)
	if span == "" {
		return nil, text, &ExtractionError{Reason: "JSON block not found"}
	}

	var table ScoreTable
	if err := json.Unmarshal([]byte(span), &table); err != nil {
		return nil, text, &ExtractionError{Reason: "could not parse scores", Err: err}
	}
	return table, text, nil
}
