package aggregator

import (
	"team-insights-go/internal/types"
)

// industryBenchmarks are fixed per-dimension anchors used in prompt
// comparisons.
var industryBenchmarks = map[string]float64{
	types.DimCollaboration: 3.8,
	types.DimCommunication: 3.6,
	types.DimRespect:       4.1,
	types.DimTransparency:  3.4,
}

// Aggregate computes per-dimension arithmetic means over all records. An
// empty record set yields TeamSize 0; downstream routing treats that as
// insufficient data and never sends it to the AI path.
func Aggregate(records []types.RatingRecord) types.TeamAggregate {
	agg := types.TeamAggregate{
		AverageRatings:     map[string]float64{},
		TeamSize:           len(records),
		IndustryBenchmarks: industryBenchmarks,
	}
	if len(records) == 0 {
		return agg
	}

	for _, dim := range types.Dimensions {
		sum := 0.0
		for _, rec := range records {
			sum += rec.Ratings[dim]
		}
		agg.AverageRatings[dim] = sum / float64(len(records))
	}
	return agg
}
