package processor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"team-insights-go/internal/aggregator"
	"team-insights-go/internal/config"
	"team-insights-go/internal/contextdocs"
	"team-insights-go/internal/extractor"
	"team-insights-go/internal/logger"
	"team-insights-go/internal/types"
)

const defaultWorkers = 4

// Processor drives one synchronous batch: rows in, report out.
type Processor struct {
	cfg     config.Config
	orch    *Orchestrator
	ext     *extractor.Extractor
	workers int
}

func New(cfg config.Config, client Completer) *Processor {
	return &Processor{
		cfg:     cfg,
		orch:    NewOrchestrator(cfg, client),
		ext:     extractor.New(),
		workers: defaultWorkers,
	}
}

// NewWithExtractor pins the extractor's random source, for tests.
func NewWithExtractor(cfg config.Config, client Completer, ext *extractor.Extractor) *Processor {
	p := New(cfg, client)
	p.ext = ext
	return p
}

// ProcessBatch runs the full control flow: extract all records, compute the
// team aggregate, fan out per-employee analysis, run team analysis
// concurrently with it, and merge everything into the report. Employee
// analyses are isolated; one failure never aborts another's call.
func (p *Processor) ProcessBatch(ctx context.Context, rows []types.Row, columns []string, docs []types.ContextDocument) (types.Report, error) {
	log := logger.Component("processor").WithField("rows", len(rows)).WithField("documents", len(docs))
	log.Info("batch started")
	start := time.Now()

	records := make([]types.RatingRecord, len(rows))
	for i, row := range rows {
		records[i] = p.ext.Extract(row, columns, i)
	}
	agg := aggregator.Aggregate(records)
	blob := contextdocs.Assemble(docs)

	type empResult struct {
		index   int
		outcome Outcome
		err     error
	}
	resultChan := make(chan empResult, len(records))
	semaphore := make(chan struct{}, p.workers)

	var wg sync.WaitGroup
	for i, rec := range records {
		wg.Add(1)
		go func(idx int, rec types.RatingRecord) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			outcome, err := p.orch.AnalyzeEmployee(ctx, rec, &agg, blob)
			resultChan <- empResult{index: idx, outcome: outcome, err: err}
		}(i, rec)
	}

	// Team analysis only needs the rating records, so it runs alongside the
	// per-employee fan-out.
	teamChan := make(chan struct {
		outcome TeamOutcome
		err     error
	}, 1)
	go func() {
		outcome, err := p.orch.AnalyzeTeam(ctx, records, blob)
		teamChan <- struct {
			outcome TeamOutcome
			err     error
		}{outcome, err}
	}()

	wg.Wait()
	close(resultChan)

	employees := make([]types.EmployeeReport, len(records))
	aiCount := 0
	fallbackUsed := false
	var fatal error
	for res := range resultChan {
		if res.err != nil {
			log.WithField("employee", records[res.index].Name).
				WithField("error", res.err.Error()).Error("employee analysis failed")
			if fatal == nil {
				fatal = res.err
			}
			continue
		}
		if res.outcome.ViaAI {
			aiCount++
		} else {
			fallbackUsed = true
		}
		employees[res.index] = types.EmployeeReport{
			RatingRecord: records[res.index],
			Insights:     res.outcome.Insights,
			IsAIEnhanced: res.outcome.ViaAI,
		}
	}

	team := <-teamChan
	if fatal == nil && team.err != nil {
		fatal = team.err
	}
	if fatal != nil {
		return types.Report{}, fatal
	}
	if !team.outcome.ViaAI && len(records) > 0 {
		fallbackUsed = true
	}

	successRate := 0.0
	if len(records) > 0 {
		successRate = float64(aiCount) / float64(len(records)) * 100
	}

	report := types.Report{
		BatchID:        uuid.New().String(),
		Employees:      employees,
		TotalEmployees: len(records),
		AverageRatings: agg.AverageRatings,
		TeamInsights:   &team.outcome.Insights,
		ProcessingInfo: types.ProcessingInfo{
			AIEnabled:        p.cfg.AIEnabled,
			AISuccessRate:    successRate,
			FallbackUsed:     fallbackUsed,
			ProcessingTimeMs: time.Since(start).Milliseconds(),
		},
	}

	log.WithField("batch_id", report.BatchID).
		WithField("employees", len(employees)).
		WithField("ai_success_rate", successRate).
		WithField("fallback_used", fallbackUsed).
		WithField("duration_ms", report.ProcessingInfo.ProcessingTimeMs).
		Info("batch complete")
	return report, nil
}
