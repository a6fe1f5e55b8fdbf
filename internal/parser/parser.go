package parser

import (
	"encoding/json"
	"strings"

	"team-insights-go/internal/types"
)

// Strategy records which step of the parse chain produced the result.
// Heuristic and default parses are degraded but never errors.
type Strategy string

const (
	StrategyJSON      Strategy = "json"
	StrategyHeuristic Strategy = "heuristic"
	StrategyDefaults  Strategy = "defaults"
)

// Parse turns raw completion text into a fully populated Insights. It is
// total: arbitrary input (empty, prose, broken JSON) yields a schema-valid
// result. HasDocumentContext comes from the caller, never from content.
func Parse(raw string, hasContext bool) (types.Insights, Strategy) {
	out := defaults(hasContext)

	if obj, ok := extractObject(raw); ok {
		mergeFields(&out, obj)
		return out, StrategyJSON
	}
	if fillFromLines(&out, raw) {
		return out, StrategyHeuristic
	}
	return out, StrategyDefaults
}

// ParseTeam is the team-level counterpart, same totality guarantee.
func ParseTeam(raw string) (types.TeamInsights, Strategy) {
	out := teamDefaults()

	if obj, ok := extractObject(raw); ok {
		if s, ok := stringField(obj, "overall_trends"); ok {
			out.OverallTrends = s
		}
		if l, ok := listField(obj, "risk_areas"); ok {
			out.RiskAreas = l
		}
		if l, ok := listField(obj, "strength_areas"); ok {
			out.StrengthAreas = l
		}
		if l, ok := listField(obj, "recommendations"); ok {
			out.Recommendations = l
		}
		return out, StrategyJSON
	}
	if lines := nonEmptyLines(raw); len(lines) > 0 {
		out.OverallTrends = lines[0]
		return out, StrategyHeuristic
	}
	return out, StrategyDefaults
}

func defaults(hasContext bool) types.Insights {
	return types.Insights{
		EnhancedSummary:           "Performance analysis completed from the available ratings.",
		BehavioralRecommendations: "Continue current practices and gather more peer feedback.",
		TrendAnalysis:             "Not enough signal to identify a trend.",
		FeedbackAnalysis:          "No written feedback was available for this period.",
		DevelopmentPriorities:     []string{"Maintain consistent performance"},
		StrengthsAnalysis:         "Strengths are in line with the recorded ratings.",
		RiskFactors:               []string{"None identified"},
		SuccessPredictors:         []string{"Consistent engagement"},
		HasDocumentContext:        hasContext,
	}
}

func teamDefaults() types.TeamInsights {
	return types.TeamInsights{
		OverallTrends:   "Team analysis completed from the available ratings.",
		RiskAreas:       []string{"None identified"},
		StrengthAreas:   []string{"Team consistency"},
		Recommendations: []string{"Continue regular feedback cycles"},
	}
}

// extractObject slices the first '{' through the last '}' and decodes it,
// stripping markdown fences first since models wrap output in them.
func extractObject(raw string) (map[string]any, bool) {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	for _, fence := range []string{"```json", "```"} {
		s = strings.ReplaceAll(s, fence, "")
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(s[start:end+1]), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// mergeFields overlays recognized fields onto the defaults. Individually
// malformed fields keep their default instead of failing the parse.
func mergeFields(out *types.Insights, obj map[string]any) {
	if s, ok := stringField(obj, "enhanced_summary"); ok {
		out.EnhancedSummary = s
	}
	if s, ok := stringField(obj, "behavioral_recommendations"); ok {
		out.BehavioralRecommendations = s
	}
	if s, ok := stringField(obj, "trend_analysis"); ok {
		out.TrendAnalysis = s
	}
	if s, ok := stringField(obj, "feedback_analysis"); ok {
		out.FeedbackAnalysis = s
	}
	if l, ok := listField(obj, "development_priorities"); ok {
		out.DevelopmentPriorities = l
	}
	if s, ok := stringField(obj, "strengths_analysis"); ok {
		out.StrengthsAnalysis = s
	}
	if l, ok := listField(obj, "risk_factors"); ok {
		out.RiskFactors = l
	}
	if l, ok := listField(obj, "success_predictors"); ok {
		out.SuccessPredictors = l
	}
}

// fillFromLines assigns leading line groups positionally when no JSON was
// found: first line to the summary, second to recommendations, third to the
// trend field. Returns false when the text has no usable lines.
func fillFromLines(out *types.Insights, raw string) bool {
	lines := nonEmptyLines(raw)
	if len(lines) == 0 {
		return false
	}
	out.EnhancedSummary = lines[0]
	if len(lines) > 1 {
		out.BehavioralRecommendations = lines[1]
	}
	if len(lines) > 2 {
		out.TrendAnalysis = lines[2]
	}
	out.DevelopmentPriorities = []string{"Review analysis output formatting", "Maintain consistent performance"}
	out.RiskFactors = []string{"Analysis returned in a non-standard format"}
	out.SuccessPredictors = []string{"Consistent engagement"}
	return true
}

func nonEmptyLines(raw string) []string {
	var lines []string
	for _, l := range strings.Split(raw, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}
	return lines
}

func stringField(obj map[string]any, key string) (string, bool) {
	v, ok := obj[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// listField tolerates a bare string where an array was expected; any other
// shape falls back to the default list.
func listField(obj map[string]any, key string) ([]string, bool) {
	v, ok := obj[key]
	if !ok {
		return nil, false
	}
	switch t := v.(type) {
	case []any:
		var out []string
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil, false
		}
		return out, true
	case string:
		if strings.TrimSpace(t) == "" {
			return nil, false
		}
		return []string{t}, true
	default:
		return nil, false
	}
}
