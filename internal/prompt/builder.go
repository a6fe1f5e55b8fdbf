package prompt

import (
	"fmt"
	"strings"

	"team-insights-go/internal/types"
)

// SystemRole is the fixed system instruction sent with every completion.
const SystemRole = "You are an expert organizational psychologist and performance " +
	"analyst. You turn numeric peer ratings into specific, actionable " +
	"performance insights. When organizational documents are provided, you " +
	"cite them by name as the source of each recommendation."

// insightsSchema mirrors the Insights JSON field set exactly; the response
// parser and this block must never drift apart.
const insightsSchema = `{
  "enhanced_summary": "",
  "behavioral_recommendations": "",
  "trend_analysis": "",
  "feedback_analysis": "",
  "development_priorities": [],
  "strengths_analysis": "",
  "risk_factors": [],
  "success_predictors": []
}`

// teamSchema mirrors the TeamInsights JSON field set.
const teamSchema = `{
  "overall_trends": "",
  "risk_areas": [],
  "strength_areas": [],
  "recommendations": []
}`

const citationContract = `DOCUMENT GROUNDING REQUIREMENTS:
1. Every recommendation MUST cite its source document literally, e.g. (Source: handbook.pdf).
2. Use the organization's own terminology from the documents above, never generic HR language.
3. For each behavioral recommendation, give a before/after substitution example, e.g. instead of "communicate better" write "replace status emails with the weekly sync format described in the documents".`

// BuildEmployeePrompt renders the per-employee completion prompt. Output is
// deterministic for identical inputs; dimensions are emitted in canonical
// order.
func BuildEmployeePrompt(rec types.RatingRecord, agg *types.TeamAggregate, contextBlob string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze the performance profile of %s.\n\n", rec.Name)
	b.WriteString("PEER RATINGS (scale 1-5):\n")
	for _, dim := range types.Dimensions {
		fmt.Fprintf(&b, "- %s: %.1f\n", dim, rec.Ratings[dim])
	}
	fmt.Fprintf(&b, "- overall average: %.2f\n", rec.OverallAverage())

	if agg != nil {
		fmt.Fprintf(&b, "\nTEAM COMPARISON (team size %d):\n", agg.TeamSize)
		for _, dim := range types.Dimensions {
			fmt.Fprintf(&b, "- team average %s: %.2f\n", dim, agg.AverageRatings[dim])
		}
		if len(agg.IndustryBenchmarks) > 0 {
			b.WriteString("INDUSTRY BENCHMARKS:\n")
			for _, dim := range types.Dimensions {
				if v, ok := agg.IndustryBenchmarks[dim]; ok {
					fmt.Fprintf(&b, "- %s: %.2f\n", dim, v)
				}
			}
		}
	}

	writeContext(&b, contextBlob)
	writeOutputFormat(&b, insightsSchema)
	return b.String()
}

// BuildTeamPrompt renders the team-level completion prompt over all records.
func BuildTeamPrompt(records []types.RatingRecord, contextBlob string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze the collective performance of a team of %d employees.\n\n", len(records))
	b.WriteString("PER-EMPLOYEE RATINGS (scale 1-5):\n")
	for _, rec := range records {
		fmt.Fprintf(&b, "- %s:", rec.Name)
		for _, dim := range types.Dimensions {
			fmt.Fprintf(&b, " %s=%.1f", dim, rec.Ratings[dim])
		}
		fmt.Fprintf(&b, " (avg %.2f)\n", rec.OverallAverage())
	}

	writeContext(&b, contextBlob)
	writeOutputFormat(&b, teamSchema)
	return b.String()
}

func writeContext(b *strings.Builder, contextBlob string) {
	if contextBlob == "" {
		b.WriteString("\nNo organizational documents were provided; base the analysis on the ratings alone and keep recommendations broadly applicable.\n")
		return
	}
	b.WriteString("\n")
	b.WriteString(contextBlob)
	b.WriteString("\n\n")
	b.WriteString(citationContract)
	b.WriteString("\n")
}

func writeOutputFormat(b *strings.Builder, schema string) {
	b.WriteString("\nReturn ONLY a single JSON object with exactly these keys:\n")
	b.WriteString(schema)
	b.WriteString("\nDo not emit any text outside the JSON object. Do not wrap it in markdown fences.\n")
}
