package processor

import (
	"context"

	"team-insights-go/internal/config"
	"team-insights-go/internal/logger"
	"team-insights-go/internal/parser"
	"team-insights-go/internal/prompt"
	"team-insights-go/internal/rulebased"
	"team-insights-go/internal/types"
)

// Completer is the seam to the completion API; the production implementation
// is llm.Client.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Outcome tags every successful analysis with how it was produced so the
// batch layer can report AI success rates and fallback usage.
type Outcome struct {
	Insights types.Insights
	ViaAI    bool
}

// TeamOutcome is the team-level counterpart of Outcome.
type TeamOutcome struct {
	Insights types.TeamInsights
	ViaAI    bool
}

// route is the fallback decision made once per call. It is pure so the
// AI-only policy is testable without any network behavior.
type route int

const (
	routeAI route = iota
	routeFallback
	routeFatal
)

// decide encodes the hard invariant: fallback happens only when explicitly
// enabled; AI-only means AI-or-explicit-failure, never silent substitution.
func decide(aiEnabled, fallbackEnabled bool, lastErr error) route {
	if aiEnabled && lastErr == nil {
		return routeAI
	}
	if fallbackEnabled {
		return routeFallback
	}
	return routeFatal
}

// Orchestrator sequences prompt building, the completion call, and response
// parsing under the configured AI/fallback policy.
type Orchestrator struct {
	cfg    config.Config
	client Completer
}

func NewOrchestrator(cfg config.Config, client Completer) *Orchestrator {
	return &Orchestrator{cfg: cfg, client: client}
}

// AnalyzeEmployee produces insights for one record. contextBlob empty means
// generic mode; non-empty switches the prompt to context-enhanced mode and
// marks the result accordingly.
func (o *Orchestrator) AnalyzeEmployee(ctx context.Context, rec types.RatingRecord, agg *types.TeamAggregate, contextBlob string) (Outcome, error) {
	log := logger.Component("orchestrator").WithField("employee", rec.Name)

	if !o.cfg.AIEnabled {
		if decide(false, o.cfg.FallbackEnabled, nil) == routeFallback {
			return Outcome{Insights: rulebased.Analyze(rec, agg)}, nil
		}
		return Outcome{}, &ConfigurationError{Reason: "AI analysis required but not configured, and fallback is disabled"}
	}

	hasContext := contextBlob != ""
	p := prompt.BuildEmployeePrompt(rec, agg, contextBlob)
	raw, err := o.client.Complete(ctx, p)
	if err != nil {
		log.WithError(err).Warn("completion call failed")
		switch decide(o.cfg.AIEnabled, o.cfg.FallbackEnabled, err) {
		case routeFallback:
			return Outcome{Insights: rulebased.Analyze(rec, agg)}, nil
		default:
			return Outcome{}, &AnalysisFailed{Subject: rec.Name, Cause: err}
		}
	}

	insights, strategy := parser.Parse(raw, hasContext)
	if strategy != parser.StrategyJSON {
		log.WithField("parse_strategy", string(strategy)).Debug("degraded parse of completion output")
	}
	return Outcome{Insights: insights, ViaAI: true}, nil
}

// AnalyzeTeam produces team-level insights. An empty record set routes
// straight to the fixed insufficient-data response without touching the AI
// path, regardless of configuration.
func (o *Orchestrator) AnalyzeTeam(ctx context.Context, records []types.RatingRecord, contextBlob string) (TeamOutcome, error) {
	log := logger.Component("orchestrator").WithField("team_size", len(records))

	if len(records) == 0 {
		return TeamOutcome{Insights: rulebased.InsufficientDataTeam()}, nil
	}

	if !o.cfg.AIEnabled {
		if decide(false, o.cfg.FallbackEnabled, nil) == routeFallback {
			return TeamOutcome{Insights: rulebased.AnalyzeTeam(records)}, nil
		}
		return TeamOutcome{}, &ConfigurationError{Reason: "AI analysis required but not configured, and fallback is disabled"}
	}

	p := prompt.BuildTeamPrompt(records, contextBlob)
	raw, err := o.client.Complete(ctx, p)
	if err != nil {
		log.WithError(err).Warn("team completion call failed")
		switch decide(o.cfg.AIEnabled, o.cfg.FallbackEnabled, err) {
		case routeFallback:
			return TeamOutcome{Insights: rulebased.AnalyzeTeam(records)}, nil
		default:
			return TeamOutcome{}, &AnalysisFailed{Subject: "team", Cause: err}
		}
	}

	insights, strategy := parser.ParseTeam(raw)
	if strategy != parser.StrategyJSON {
		log.WithField("parse_strategy", string(strategy)).Debug("degraded parse of team completion output")
	}
	return TeamOutcome{Insights: insights, ViaAI: true}, nil
}
