package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ugaemi/epidemic-sim/internal/epidemic"
)

// Run is one finished (stopped, reset or exhausted) simulation run.
type Run struct {
	ID          string          `json:"id"`
	SessionCode string          `json:"session_code"`
	Config      epidemic.Config `json:"config"`
	StartedAt   time.Time       `json:"started_at"`
	EndedAt     time.Time       `json:"ended_at"`
	Ticks       int64           `json:"ticks"`
	Final       epidemic.Stats  `json:"final"`
}

// NewRun creates a run record for a session starting now.
func NewRun(sessionCode string, cfg epidemic.Config) *Run {
	return &Run{
		ID:          uuid.New().String(),
		SessionCode: sessionCode,
		Config:      cfg,
		StartedAt:   time.Now(),
	}
}

// RunStore defines the interface for persistent run history storage.
type RunStore interface {
	// SaveRun inserts a run together with its per-tick statistics.
	SaveRun(ctx context.Context, run *Run, history []epidemic.Stats) error
	// FindRun looks up a run by ID. It returns nil, nil when absent.
	FindRun(ctx context.Context, id string) (*Run, error)
	// RunHistory returns the statistics recorded for a run, ordered by tick.
	RunHistory(ctx context.Context, id string) ([]epidemic.Stats, error)
	// RecentRuns returns the most recently ended runs, newest first.
	RecentRuns(ctx context.Context, limit int) ([]*Run, error)
	// Close releases database resources.
	Close() error
}
