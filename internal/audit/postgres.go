// Package audit keeps an anonymous log of recommendation outcomes. Only the
// outcome kind and the top label are stored, never patient answers.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is one stored outcome.
type Entry struct {
	Outcome  string
	TopLabel string
	At       time.Time
}

// Recorder stores outcome entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// HealthChecker is satisfied by anything that can be pinged.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

const schema = `
CREATE TABLE IF NOT EXISTS recommendation_outcomes (
    id BIGSERIAL PRIMARY KEY,
    outcome TEXT NOT NULL,
    top_label TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_recommendation_outcomes_created_at
    ON recommendation_outcomes(created_at);
`

// PostgresRecorder writes entries to recommendation_outcomes.
type PostgresRecorder struct {
	pool *pgxpool.Pool
}

// Connect opens a pool, pings it and makes sure the table exists.
func Connect(ctx context.Context, url string) (*PostgresRecorder, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &PostgresRecorder{pool: pool}, nil
}

func (r *PostgresRecorder) Record(ctx context.Context, e Entry) error {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO recommendation_outcomes (outcome, top_label, created_at) VALUES ($1, $2, $3)`,
		e.Outcome, e.TopLabel, e.At,
	)
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

// Counts returns the number of stored outcomes per kind since the given time.
func (r *PostgresRecorder) Counts(ctx context.Context, since time.Time) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT outcome, COUNT(*) FROM recommendation_outcomes WHERE created_at >= $1 GROUP BY outcome`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var kind string
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		out[kind] = n
	}
	return out, rows.Err()
}

func (r *PostgresRecorder) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *PostgresRecorder) Close() {
	r.pool.Close()
}
