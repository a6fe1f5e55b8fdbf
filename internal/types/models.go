package types

// Dimension names every employee is rated on. Fixed per deployment.
const (
	DimCollaboration = "collaboration"
	DimCommunication = "communication"
	DimRespect       = "respect"
	DimTransparency  = "transparency"
)

// Dimensions is the canonical ordering used in prompts and reports.
var Dimensions = []string{DimCollaboration, DimCommunication, DimRespect, DimTransparency}

// Row is one raw spreadsheet row keyed by header text. Sparse and
// heterogeneous input is expected; nothing downstream assumes a schema.
type Row map[string]string

// RatingRecord is a normalized employee rating row. Every dimension from
// Dimensions is present and every value is clamped to [1,5].
type RatingRecord struct {
	Name    string             `json:"name"`
	Ratings map[string]float64 `json:"ratings"`
}

// OverallAverage is the mean across this record's rating dimensions.
func (r RatingRecord) OverallAverage() float64 {
	if len(r.Ratings) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range r.Ratings {
		sum += v
	}
	return sum / float64(len(r.Ratings))
}

// ContextDocument is one extracted organizational document, already
// truncated to the ingestion cap by whoever produced it.
type ContextDocument struct {
	FileName      string `json:"file_name"`
	ExtractedText string `json:"extracted_text"`
	SizeBytes     int    `json:"size_bytes"`
}

// TeamAggregate is derived once per batch from the full record set.
type TeamAggregate struct {
	AverageRatings     map[string]float64 `json:"average_ratings"`
	TeamSize           int                `json:"team_size"`
	IndustryBenchmarks map[string]float64 `json:"industry_benchmarks,omitempty"`
}

// Insights is the fixed per-employee result schema. Every field always has
// a value regardless of which analyzer produced it.
type Insights struct {
	EnhancedSummary           string   `json:"enhanced_summary"`
	BehavioralRecommendations string   `json:"behavioral_recommendations"`
	TrendAnalysis             string   `json:"trend_analysis"`
	FeedbackAnalysis          string   `json:"feedback_analysis"`
	DevelopmentPriorities     []string `json:"development_priorities"`
	StrengthsAnalysis         string   `json:"strengths_analysis"`
	RiskFactors               []string `json:"risk_factors"`
	SuccessPredictors         []string `json:"success_predictors"`
	HasDocumentContext        bool     `json:"has_document_context"`
}

// TeamInsights is the team-level result schema, produced once per batch.
type TeamInsights struct {
	OverallTrends   string   `json:"overall_trends"`
	RiskAreas       []string `json:"risk_areas"`
	StrengthAreas   []string `json:"strength_areas"`
	Recommendations []string `json:"recommendations"`
}

// EmployeeReport pairs a rating record with its insights in the final report.
type EmployeeReport struct {
	RatingRecord
	Insights     Insights `json:"insights"`
	IsAIEnhanced bool     `json:"is_ai_enhanced"`
}

// ProcessingInfo summarizes batch-level outcomes for the caller.
type ProcessingInfo struct {
	AIEnabled        bool    `json:"ai_enabled"`
	AISuccessRate    float64 `json:"ai_success_rate"`
	FallbackUsed     bool    `json:"fallback_used"`
	ProcessingTimeMs int64   `json:"processing_time_ms"`
}

// Report is the outbound shape consumed by the presentation layer.
type Report struct {
	BatchID        string             `json:"batch_id"`
	Employees      []EmployeeReport   `json:"employees"`
	TotalEmployees int                `json:"total_employees"`
	AverageRatings map[string]float64 `json:"average_ratings"`
	TeamInsights   *TeamInsights      `json:"team_insights,omitempty"`
	ProcessingInfo ProcessingInfo     `json:"processing_info"`
}
