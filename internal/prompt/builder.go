package prompt

import (
	"fmt"
	"strings"

	"github.com/mukhiyajipramod/Competitor-UI-Analyzer/internal/analysis"
	"github.com/mukhiyajipramod/Competitor-UI-Analyzer/internal/summary"
)

// Comparison builds the narrative comparison prompt for two layout summaries.
// The three numbered section headers drive the downstream partitioner, so
// their keywords must stay stable.
func Comparison(nameA, nameB string, layoutA, layoutB map[string]int) string {
	builder := &strings.Builder{}
	builder.WriteString("Compare these two website UIs and their design approaches in detail:\n\n")
	fmt.Fprintf(builder, "%s: %s\n\n", nameA, FormatLayout(layoutA))
	fmt.Fprintf(builder, "%s: %s\n\n", nameB, FormatLayout(layoutB))
	builder.WriteString("Provide a comprehensive analysis with the following sections:\n")
	builder.WriteString("1. KEY SIMILARITIES: Identify all shared UI patterns, design elements, and approaches.\n")
	builder.WriteString("2. KEY DIFFERENCES: Compare layout structure, visual hierarchy, navigation approaches, and content presentation styles.\n")
	builder.WriteString("3. UX IMPROVEMENT SUGGESTIONS: Provide specific recommendations for each site to enhance usability, focusing on:\n")
	builder.WriteString("   - Navigation improvements\n")
	builder.WriteString("   - Visual design enhancements\n")
	builder.WriteString("   - Content organization\n")
	builder.WriteString("   - Accessibility considerations\n")
	builder.WriteString("   - Interactive elements\n\n")
	builder.WriteString("For each category, include specific examples from each website to illustrate your points.\n")
	return builder.String()
}

// Scoring builds the scorecard prompt asking for a 1-10 rating per UX category
// per site, formatted as a single JSON object.
func Scoring(nameA, nameB string, layoutA, layoutB map[string]int) string {
	builder := &strings.Builder{}
	builder.WriteString("Based on the following UI summaries, assign a score from 1 to 10 (10 being best) for each of these UX categories:\n")
	for _, category := range analysis.ScoreCategories {
		fmt.Fprintf(builder, "- %s\n", category)
	}
	builder.WriteString("\n")
	fmt.Fprintf(builder, "%s: %s\n\n", nameA, FormatLayout(layoutA))
	fmt.Fprintf(builder, "%s: %s\n\n", nameB, FormatLayout(layoutB))
	builder.WriteString("Format the output as JSON:\n")
	fmt.Fprintf(builder, "{\n  %q: {\"Visual Design\": X, ...},\n  %q: {\"Visual Design\": Y, ...}\n}\n", nameA, nameB)
	return builder.String()
}

// FormatLayout renders element counts deterministically in display order so
// identical summaries always produce identical prompts.
func FormatLayout(layout map[string]int) string {
	parts := make([]string, 0, len(summary.ElementOrder))
	for _, category := range summary.ElementOrder {
		parts = append(parts, fmt.Sprintf("%s: %d", category, layout[category]))
	}
	return strings.Join(parts, ", ")
}
