package rulebased

import (
	"fmt"
	"strings"

	"team-insights-go/internal/types"
)

// Performance tiers derived from the mean of a record's ratings.
const (
	tierHigh       = "high"
	tierModerate   = "moderate"
	tierDeveloping = "developing"
)

func tierFor(mean float64) string {
	switch {
	case mean >= 4.0:
		return tierHigh
	case mean >= 3.0:
		return tierModerate
	default:
		return tierDeveloping
	}
}

var developmentPriorities = map[string][]string{
	tierHigh:       {"Mentor teammates in strongest areas", "Take on cross-team initiatives", "Prepare for expanded scope"},
	tierModerate:   {"Build consistency across all rating areas", "Seek targeted feedback monthly", "Shadow a high performer"},
	tierDeveloping: {"Establish a structured improvement plan", "Schedule weekly check-ins with manager", "Focus on one dimension at a time"},
}

var riskFactors = map[string][]string{
	tierHigh:       {"Burnout from over-commitment", "Under-challenged in current role"},
	tierModerate:   {"Plateau without targeted development", "Inconsistent peer perception"},
	tierDeveloping: {"Disengagement if progress stalls", "Team friction from low-rated areas", "Missed expectations on collaborative work"},
}

var successPredictors = map[string][]string{
	tierHigh:       {"Sustained top ratings across dimensions", "Peer recognition as a go-to resource"},
	tierModerate:   {"Upward movement in lowest-rated dimension", "Steady engagement with feedback"},
	tierDeveloping: {"Early responsiveness to coaching", "Visible effort in the weakest dimension"},
}

// Analyze computes deterministic insights from ratings alone. It never
// fails, never calls out, and ignores context documents by design, so
// HasDocumentContext is always false.
func Analyze(rec types.RatingRecord, agg *types.TeamAggregate) types.Insights {
	mean := rec.OverallAverage()
	tier := tierFor(mean)
	first := firstName(rec.Name)
	top, low := extremes(rec.Ratings)

	var summary, recs, trend string
	switch tier {
	case tierHigh:
		summary = fmt.Sprintf("%s is a consistently strong performer (%.1f average), standing out in %s.", first, mean, top)
		recs = fmt.Sprintf("Give %s opportunities to lead and mentor; stretch assignments will keep %s engaged while %s continues to model %s for the team.", first, first, first, top)
		trend = fmt.Sprintf("%s's ratings point to sustained high performance, with %s as the clearest strength and %s still above expectations.", first, top, low)
	case tierModerate:
		summary = fmt.Sprintf("%s is a solid contributor (%.1f average), strongest in %s with room to grow in %s.", first, mean, top, low)
		recs = fmt.Sprintf("Pair %s with a strong peer on %s-heavy work and agree on one concrete improvement goal for %s this quarter.", first, low, low)
		trend = fmt.Sprintf("%s's profile is stable; lifting %s toward the level of %s would move %s into the top band.", first, low, top, first)
	default:
		summary = fmt.Sprintf("%s is in a development phase (%.1f average) and needs structured support, particularly on %s.", first, mean, low)
		recs = fmt.Sprintf("Set up a focused improvement plan for %s starting with %s, with weekly checkpoints and clearly defined expectations.", first, low)
		trend = fmt.Sprintf("%s's ratings are below the expected band; %s is the priority area while %s remains the relative bright spot.", first, low, top)
	}

	feedback := fmt.Sprintf("Peer ratings place %s in the %s performance band across %d dimensions.", first, tier, len(rec.Ratings))
	strengths := fmt.Sprintf("%s's top-rated dimension is %s (%.1f).", first, top, rec.Ratings[top])
	if agg != nil && agg.TeamSize > 0 {
		if teamAvg, ok := agg.AverageRatings[top]; ok && rec.Ratings[top] >= teamAvg {
			strengths += fmt.Sprintf(" That is at or above the team average of %.2f.", teamAvg)
		}
	}

	return types.Insights{
		EnhancedSummary:           summary,
		BehavioralRecommendations: recs,
		TrendAnalysis:             trend,
		FeedbackAnalysis:          feedback,
		DevelopmentPriorities:     developmentPriorities[tier],
		StrengthsAnalysis:         strengths,
		RiskFactors:               riskFactors[tier],
		SuccessPredictors:         successPredictors[tier],
		HasDocumentContext:        false,
	}
}

// InsufficientDataTeam is the fixed response for an empty employee set.
func InsufficientDataTeam() types.TeamInsights {
	return types.TeamInsights{
		OverallTrends:   "Insufficient data to analyze team performance.",
		RiskAreas:       []string{"No employee ratings available"},
		StrengthAreas:   []string{},
		Recommendations: []string{"Upload a spreadsheet with at least one employee row"},
	}
}

// AnalyzeTeam frames the team against a 3.5 bar on the mean of per-employee
// means.
func AnalyzeTeam(records []types.RatingRecord) types.TeamInsights {
	if len(records) == 0 {
		return InsufficientDataTeam()
	}

	sum := 0.0
	for _, rec := range records {
		sum += rec.OverallAverage()
	}
	mean := sum / float64(len(records))

	if mean >= 3.5 {
		return types.TeamInsights{
			OverallTrends:   fmt.Sprintf("The team shows strong overall performance (%.2f average across %d employees).", mean, len(records)),
			RiskAreas:       []string{"Complacency in consistently high-rated areas", "Uneven load on top performers"},
			StrengthAreas:   []string{"Broad competence across rating dimensions", "Healthy peer perception"},
			Recommendations: []string{"Protect time for mentoring and knowledge sharing", "Rotate stretch assignments to spread growth"},
		}
	}
	return types.TeamInsights{
		OverallTrends:   fmt.Sprintf("The team is in a developing phase (%.2f average across %d employees).", mean, len(records)),
		RiskAreas:       []string{"Low-rated dimensions dragging team outcomes", "Attrition risk among frustrated contributors"},
		StrengthAreas:   []string{"Clear, measurable improvement targets", "Room for quick wins through coaching"},
		Recommendations: []string{"Run focused coaching on the weakest dimensions", "Set explicit per-dimension team goals and review monthly"},
	}
}

func firstName(full string) string {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return full
	}
	return parts[0]
}

// extremes picks the top- and lowest-rated dimensions in canonical order so
// ties resolve deterministically.
func extremes(ratings map[string]float64) (top, low string) {
	for _, dim := range types.Dimensions {
		v, ok := ratings[dim]
		if !ok {
			continue
		}
		if top == "" || v > ratings[top] {
			top = dim
		}
		if low == "" || v < ratings[low] {
			low = dim
		}
	}
	return top, low
}
