package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eduvet/internal/verification"
	"eduvet/pkg/platform/sentinel"
)

// Postgres persists runs in PostgreSQL. Application and results are stored
// as JSONB so the schema survives check-type additions without migrations.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps a connected pool as a run store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate creates the runs table if it does not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS verification_runs (
			id          TEXT PRIMARY KEY,
			application JSONB NOT NULL,
			results     JSONB NOT NULL,
			decision    TEXT NOT NULL,
			risk_score  DOUBLE PRECISION NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("migrate verification_runs: %w", err)
	}
	return nil
}

func (p *Postgres) Save(ctx context.Context, run Run) error {
	application, err := json.Marshal(run.Application)
	if err != nil {
		return fmt.Errorf("encode application: %w", err)
	}
	results, err := json.Marshal(run.Results)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO verification_runs (id, application, results, decision, risk_score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			application = EXCLUDED.application,
			results     = EXCLUDED.results,
			decision    = EXCLUDED.decision,
			risk_score  = EXCLUDED.risk_score`,
		run.ID, application, results, string(run.Decision), run.RiskScore, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, id string) (Run, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, application, results, decision, risk_score, created_at
		FROM verification_runs WHERE id = $1`, id)

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Run{}, fmt.Errorf("run %s: %w", id, sentinel.ErrNotFound)
		}
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

func (p *Postgres) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.pool.Query(ctx, `
		SELECT id, application, results, decision, risk_score, created_at
		FROM verification_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

func scanRun(row pgx.Row) (Run, error) {
	var run Run
	var application, results []byte
	var decision string

	if err := row.Scan(&run.ID, &application, &results, &decision, &run.RiskScore, &run.CreatedAt); err != nil {
		return Run{}, err
	}
	if err := json.Unmarshal(application, &run.Application); err != nil {
		return Run{}, fmt.Errorf("decode application: %w", err)
	}
	if err := json.Unmarshal(results, &run.Results); err != nil {
		return Run{}, fmt.Errorf("decode results: %w", err)
	}
	run.Decision = verification.DecisionStatus(decision)
	return run, nil
}
