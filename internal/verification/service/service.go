// Package service composes the verification engine with persistence and
// auditing. Handlers talk to this layer only.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"eduvet/internal/audit"
	"eduvet/internal/verification"
	"eduvet/internal/verification/orchestrator"
	"eduvet/internal/verification/store"
	dErrors "eduvet/pkg/domain-errors"
	"eduvet/pkg/platform/sentinel"
)

// Service runs verifications and owns the run records they produce.
type Service struct {
	engine *orchestrator.Engine
	store  store.Store
	inbox  chan<- audit.Event
	logger *slog.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithAuditInbox wires the channel the audit worker consumes. Events are
// dropped with a log line when the channel is full; auditing must not block
// a verification run.
func WithAuditInbox(inbox chan<- audit.Event) Option {
	return func(s *Service) { s.inbox = inbox }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New creates the verification service.
func New(engine *orchestrator.Engine, st store.Store, opts ...Option) *Service {
	s := &Service{
		engine: engine,
		store:  st,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify executes a full verification run, persists it, and emits an audit
// event. The returned run includes every check result with the aggregate
// risk assessment last.
func (s *Service) Verify(ctx context.Context, app verification.ProviderApplication) (store.Run, error) {
	results, err := s.engine.Run(ctx, app)
	if err != nil {
		return store.Run{}, dErrors.New(dErrors.CodeBadRequest, err.Error())
	}

	aggregate := results[len(results)-1]
	run := store.Run{
		ID:          uuid.NewString(),
		Application: app,
		Results:     results,
		Decision:    aggregate.Decision,
		RiskScore:   aggregate.RiskScore,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.store.Save(ctx, run); err != nil {
		return store.Run{}, dErrors.Wrap(dErrors.CodeInternal, "persist verification run", err)
	}

	s.emit(ctx, run)
	return run, nil
}

// GetRun retrieves a persisted run by ID.
func (s *Service) GetRun(ctx context.Context, id string) (store.Run, error) {
	run, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return store.Run{}, dErrors.New(dErrors.CodeNotFound, "verification run not found")
		}
		return store.Run{}, dErrors.Wrap(dErrors.CodeInternal, "load verification run", err)
	}
	return run, nil
}

// ListRuns returns recent runs, newest first.
func (s *Service) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	runs, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list verification runs", err)
	}
	return runs, nil
}

func (s *Service) emit(ctx context.Context, run store.Run) {
	if s.inbox == nil {
		return
	}

	failed := 0
	for _, r := range run.Results {
		if r.Status == verification.StatusFailed || r.Status == verification.StatusError {
			failed++
		}
	}

	event := audit.Event{
		Timestamp:        run.CreatedAt,
		RunID:            run.ID,
		Action:           audit.ActionRunCompleted,
		OrganisationName: run.Application.OrganisationName,
		ProviderType:     string(run.Application.ProviderType),
		Decision:         string(run.Decision),
		RiskScore:        run.RiskScore,
		ChecksCompleted:  len(run.Results),
		ChecksFailed:     failed,
	}

	select {
	case s.inbox <- event:
	default:
		s.logger.WarnContext(ctx, "audit inbox full, event dropped",
			"run_id", run.ID,
		)
	}
}
