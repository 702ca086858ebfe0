package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugaemi/epidemic-sim/internal/epidemic"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    session_code TEXT NOT NULL DEFAULT '',
    config JSONB NOT NULL,
    started_at TIMESTAMPTZ NOT NULL,
    ended_at TIMESTAMPTZ NOT NULL,
    ticks BIGINT NOT NULL DEFAULT 0,
    final JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_ended_at ON runs(ended_at DESC);

CREATE TABLE IF NOT EXISTS run_stats (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    tick BIGINT NOT NULL,
    healthy INTEGER NOT NULL,
    infected INTEGER NOT NULL,
    symptomatic INTEGER NOT NULL,
    recovered INTEGER NOT NULL,
    dead INTEGER NOT NULL,
    total INTEGER NOT NULL,
    new_infections INTEGER NOT NULL,
    PRIMARY KEY (run_id, tick)
);
`

var statsColumns = []string{
	"run_id", "tick", "healthy", "infected", "symptomatic", "recovered", "dead", "total", "new_infections",
}

// PostgresStore implements RunStore using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to PostgreSQL and initializes the schema.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// SaveRun inserts the run row and bulk-copies its history in one transaction.
func (s *PostgresStore) SaveRun(ctx context.Context, run *Run, history []epidemic.Stats) error {
	cfgJSON, err := json.Marshal(run.Config)
	if err != nil {
		return fmt.Errorf("encoding run config: %w", err)
	}
	finalJSON, err := json.Marshal(run.Final)
	if err != nil {
		return fmt.Errorf("encoding final stats: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO runs (id, session_code, config, started_at, ended_at, ticks, final)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		run.ID, run.SessionCode, cfgJSON, run.StartedAt, run.EndedAt, run.Ticks, finalJSON)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	_, err = tx.CopyFrom(ctx, pgx.Identifier{"run_stats"}, statsColumns,
		pgx.CopyFromSlice(len(history), func(i int) ([]any, error) {
			st := history[i]
			return []any{run.ID, st.Tick, st.Healthy, st.Infected, st.Symptomatic,
				st.Recovered, st.Dead, st.Total, st.NewInfections}, nil
		}))
	if err != nil {
		return fmt.Errorf("copying run stats: %w", err)
	}

	return tx.Commit(ctx)
}

// FindRun looks up a run by ID.
func (s *PostgresStore) FindRun(ctx context.Context, id string) (*Run, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, session_code, config, started_at, ended_at, ticks, final
		 FROM runs WHERE id = $1`, id)

	run, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

// RunHistory returns the per-tick statistics of a run.
func (s *PostgresStore) RunHistory(ctx context.Context, id string) ([]epidemic.Stats, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT tick, healthy, infected, symptomatic, recovered, dead, total, new_infections
		 FROM run_stats WHERE run_id = $1 ORDER BY tick`, id)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (epidemic.Stats, error) {
		var st epidemic.Stats
		err := row.Scan(&st.Tick, &st.Healthy, &st.Infected, &st.Symptomatic,
			&st.Recovered, &st.Dead, &st.Total, &st.NewInfections)
		return st, err
	})
}

// RecentRuns returns up to limit runs ordered by end time, newest first.
func (s *PostgresStore) RecentRuns(ctx context.Context, limit int) ([]*Run, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, session_code, config, started_at, ended_at, ticks, final
		 FROM runs ORDER BY ended_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Run, error) {
		return scanRun(row)
	})
}

// Close releases database resources.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanRun(row pgx.Row) (*Run, error) {
	var run Run
	var cfgJSON, finalJSON []byte
	err := row.Scan(&run.ID, &run.SessionCode, &cfgJSON, &run.StartedAt, &run.EndedAt, &run.Ticks, &finalJSON)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(cfgJSON, &run.Config); err != nil {
		return nil, fmt.Errorf("decoding run config: %w", err)
	}
	if err := json.Unmarshal(finalJSON, &run.Final); err != nil {
		return nil, fmt.Errorf("decoding final stats: %w", err)
	}
	return &run, nil
}
