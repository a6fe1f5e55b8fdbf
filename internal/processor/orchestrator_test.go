package processor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"team-insights-go/internal/config"
	"team-insights-go/internal/llm"
	"team-insights-go/internal/rulebased"
	"team-insights-go/internal/types"
)

// fakeCompleter is the test seam for the completion API.
type fakeCompleter struct {
	response string
	err      error
	calls    int32
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func cfg(ai, fallback bool) config.Config {
	return config.Config{AIEnabled: ai, FallbackEnabled: fallback}
}

func sampleRecord() types.RatingRecord {
	return types.RatingRecord{
		Name: "Jordan Smith",
		Ratings: map[string]float64{
			types.DimCollaboration: 4, types.DimCommunication: 4,
			types.DimRespect: 4, types.DimTransparency: 4,
		},
	}
}

const goodResponse = `{"enhanced_summary":"AI summary","behavioral_recommendations":"r","trend_analysis":"t","feedback_analysis":"f","development_priorities":["d"],"strengths_analysis":"s","risk_factors":["x"],"success_predictors":["y"]}`

func TestDecidePolicy(t *testing.T) {
	someErr := errors.New("boom")
	cases := []struct {
		ai, fallback bool
		err          error
		want         route
	}{
		{true, true, nil, routeAI},
		{true, false, nil, routeAI},
		{true, true, someErr, routeFallback},
		{true, false, someErr, routeFatal},
		{false, true, nil, routeFallback},
		{false, false, nil, routeFatal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, decide(tc.ai, tc.fallback, tc.err),
			"ai=%v fallback=%v err=%v", tc.ai, tc.fallback, tc.err)
	}
}

func TestAIDisabledFallbackEnabledNeverCallsNetwork(t *testing.T) {
	fc := &fakeCompleter{response: goodResponse}
	o := NewOrchestrator(cfg(false, true), fc)

	out, err := o.AnalyzeEmployee(context.Background(), sampleRecord(), nil, "")
	require.NoError(t, err)
	assert.False(t, out.ViaAI)
	assert.Equal(t, rulebased.Analyze(sampleRecord(), nil), out.Insights)
	assert.Equal(t, int32(0), fc.calls, "no network call when AI is disabled")
}

func TestAIDisabledFallbackDisabledIsConfigurationError(t *testing.T) {
	o := NewOrchestrator(cfg(false, false), &fakeCompleter{})
	_, err := o.AnalyzeEmployee(context.Background(), sampleRecord(), nil, "")

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestAISuccess(t *testing.T) {
	o := NewOrchestrator(cfg(true, true), &fakeCompleter{response: goodResponse})
	out, err := o.AnalyzeEmployee(context.Background(), sampleRecord(), nil, "")
	require.NoError(t, err)
	assert.True(t, out.ViaAI)
	assert.Equal(t, "AI summary", out.Insights.EnhancedSummary)
}

func TestAIOnlyTimeoutIsFatal(t *testing.T) {
	o := NewOrchestrator(cfg(true, false), &fakeCompleter{err: llm.ErrTimeout})
	_, err := o.AnalyzeEmployee(context.Background(), sampleRecord(), nil, "")

	var failed *AnalysisFailed
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, "Jordan Smith", failed.Subject)
	assert.ErrorIs(t, err, llm.ErrTimeout, "cause is preserved")
}

func TestHybridServiceUnavailableFallsBack(t *testing.T) {
	o := NewOrchestrator(cfg(true, true), &fakeCompleter{err: llm.ErrServiceUnavailable})
	out, err := o.AnalyzeEmployee(context.Background(), sampleRecord(), nil, "")
	require.NoError(t, err, "fallback substitution is transparent")
	assert.False(t, out.ViaAI)
	assert.Equal(t, rulebased.Analyze(sampleRecord(), nil), out.Insights)
}

func TestContextFlagFollowsBlobExactly(t *testing.T) {
	o := NewOrchestrator(cfg(true, true), &fakeCompleter{response: goodResponse})

	out, err := o.AnalyzeEmployee(context.Background(), sampleRecord(), nil, "=== doc ===\ntext")
	require.NoError(t, err)
	assert.True(t, out.Insights.HasDocumentContext)

	out, err = o.AnalyzeEmployee(context.Background(), sampleRecord(), nil, "")
	require.NoError(t, err)
	assert.False(t, out.Insights.HasDocumentContext)
}

func TestAnalyzeTeamEmptySetSkipsAI(t *testing.T) {
	fc := &fakeCompleter{response: goodResponse}
	o := NewOrchestrator(cfg(true, true), fc)

	out, err := o.AnalyzeTeam(context.Background(), nil, "")
	require.NoError(t, err)
	assert.Equal(t, rulebased.InsufficientDataTeam(), out.Insights)
	assert.Equal(t, int32(0), fc.calls)
}

func TestAnalyzeTeamHybridFallback(t *testing.T) {
	records := []types.RatingRecord{sampleRecord()}
	o := NewOrchestrator(cfg(true, true), &fakeCompleter{err: llm.ErrRateLimited})

	out, err := o.AnalyzeTeam(context.Background(), records, "")
	require.NoError(t, err)
	assert.False(t, out.ViaAI)
	assert.Equal(t, rulebased.AnalyzeTeam(records), out.Insights)
}
