// Package store persists completed verification runs. The engine itself is
// persistence-free; the HTTP service composes a store with the engine.
package store

import (
	"context"
	"time"

	"eduvet/internal/verification"
)

// Run is one persisted verification run: the application as submitted, every
// check result, and the aggregate decision.
type Run struct {
	ID          string                           `json:"id"`
	Application verification.ProviderApplication `json:"application"`
	Results     []verification.CheckResult       `json:"results"`
	Decision    verification.DecisionStatus      `json:"decision"`
	RiskScore   float64                          `json:"risk_score"`
	CreatedAt   time.Time                        `json:"created_at"`
}

// Store persists verification runs. Get returns sentinel.ErrNotFound
// (possibly wrapped) when no run exists for the ID.
type Store interface {
	Save(ctx context.Context, run Run) error
	Get(ctx context.Context, id string) (Run, error)
	List(ctx context.Context, limit int) ([]Run, error)
}
