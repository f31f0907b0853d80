// Package orchestrator runs the phased verification pipeline: identity
// checks, regulatory checks, per-qualification validation, then the
// aggregate risk assessment. Checks within a phase run in parallel and all
// settle; a slow or broken source never hides the others' results.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"eduvet/internal/verification"
	"eduvet/internal/verification/checks"
	"eduvet/internal/verification/metrics"
	"eduvet/internal/verification/risk"
)

const tracerName = "eduvet/verification"

// Engine coordinates one verification run. The check set is bound at
// construction time, so every run is internally consistent about which data
// sources it used.
type Engine struct {
	set        checks.Set
	aggregator *risk.Aggregator
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

// Option customises an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Nil is tolerated.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics sets the metrics instance. Nil is tolerated.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New creates an engine from a bound check set and aggregator.
func New(set checks.Set, aggregator *risk.Aggregator, opts ...Option) (*Engine, error) {
	if aggregator == nil {
		return nil, fmt.Errorf("aggregator is required")
	}
	e := &Engine{
		set:        set,
		aggregator: aggregator,
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run executes all phases for one application and returns every produced
// result, the aggregate last. The error return covers caller misuse only;
// check failures come back as results with status error.
func (e *Engine) Run(ctx context.Context, app verification.ProviderApplication) ([]verification.CheckResult, error) {
	if app.OrganisationName == "" {
		return nil, fmt.Errorf("organisation name is required")
	}

	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "verification.run",
		trace.WithAttributes(attribute.String("provider", app.OrganisationName)))
	defer span.End()

	if e.logger != nil {
		e.logger.InfoContext(ctx, "starting verification run",
			"provider", app.OrganisationName,
			"provider_type", string(app.ProviderType),
		)
	}

	var results []verification.CheckResult
	results = append(results, e.runPhase(ctx, "identity", e.set.Identity, app)...)
	results = append(results, e.runPhase(ctx, "regulatory", e.set.Regulatory, app)...)
	results = append(results, e.runQualifications(ctx, app)...)

	aggregate := e.aggregator.Assess(results, app)
	e.metrics.IncrementDecision(string(aggregate.Decision))
	results = append(results, aggregate)

	e.metrics.ObserveRunLatency(time.Since(start))
	if e.logger != nil {
		e.logger.InfoContext(ctx, "verification run completed",
			"provider", app.OrganisationName,
			"checks_completed", len(results),
			"decision", string(aggregate.Decision),
			"risk_score", aggregate.RiskScore,
		)
	}
	return results, nil
}

// runPhase fans a phase's checkers out in parallel and collects whatever
// they produce. Goroutines always return nil so one source's outcome never
// cancels the others.
func (e *Engine) runPhase(ctx context.Context, phase string, checkers []checks.Checker, app verification.ProviderApplication) []verification.CheckResult {
	if len(checkers) == 0 {
		return nil
	}

	ctx, span := e.tracer.Start(ctx, "verification.phase."+phase)
	defer span.End()

	var mu sync.Mutex
	var results []verification.CheckResult

	g, ctx := errgroup.WithContext(ctx)
	for _, checker := range checkers {
		g.Go(func() error {
			result, ok := e.runCheck(ctx, checker, app)
			if !ok {
				return nil
			}
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	return results
}

// runCheck executes one checker with panic containment. A panicking adapter
// is excluded from the run rather than poisoning it.
func (e *Engine) runCheck(ctx context.Context, checker checks.Checker, app verification.ProviderApplication) (result verification.CheckResult, ok bool) {
	checkType := checker.Type()
	ctx, span := e.tracer.Start(ctx, "verification.check",
		trace.WithAttributes(attribute.String("check_type", string(checkType))))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			ok = false
			e.metrics.IncrementCheckPanic()
			if e.logger != nil {
				e.logger.ErrorContext(ctx, "check panicked",
					"check_type", string(checkType),
					"panic", fmt.Sprint(r),
				)
			}
		}
	}()

	start := time.Now()
	result = checker.Check(ctx, app)
	e.metrics.ObserveCheckLatency(result.DataSource, time.Since(start))
	e.metrics.IncrementCheckOutcome(string(result.CheckType), string(result.Status))
	return result, true
}

// runQualifications fans out one validation per offered qualification.
func (e *Engine) runQualifications(ctx context.Context, app verification.ProviderApplication) []verification.CheckResult {
	if e.set.Qualifications == nil || len(app.Qualifications) == 0 {
		return nil
	}

	ctx, span := e.tracer.Start(ctx, "verification.phase.qualifications",
		trace.WithAttributes(attribute.Int("count", len(app.Qualifications))))
	defer span.End()

	var mu sync.Mutex
	var results []verification.CheckResult

	g, ctx := errgroup.WithContext(ctx)
	for _, title := range app.Qualifications {
		g.Go(func() error {
			result, ok := e.runQualificationCheck(ctx, title)
			if !ok {
				return nil
			}
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	return results
}

func (e *Engine) runQualificationCheck(ctx context.Context, title string) (result verification.CheckResult, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			e.metrics.IncrementCheckPanic()
			if e.logger != nil {
				e.logger.ErrorContext(ctx, "qualification check panicked",
					"qualification", title,
					"panic", fmt.Sprint(r),
				)
			}
		}
	}()

	start := time.Now()
	result = e.set.Qualifications.CheckQualification(ctx, title)
	e.metrics.ObserveCheckLatency(result.DataSource, time.Since(start))
	e.metrics.IncrementCheckOutcome(string(result.CheckType), string(result.Status))
	return result, true
}
