// Package storage persists runs and their per-generation statistics.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/antcolony/telemetry"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("not found")

// Run identifies one simulation run.
type Run struct {
	ID         string    `json:"id"`
	Seed       int64     `json:"seed"`
	StartedAt  time.Time `json:"started_at"`
	ConfigYAML string    `json:"config_yaml,omitempty"`
}

// NewRun creates a run record with a fresh random ID.
func NewRun(seed int64, configYAML string) Run {
	return Run{
		ID:         uuid.NewString(),
		Seed:       seed,
		StartedAt:  time.Now().UTC(),
		ConfigYAML: configYAML,
	}
}

// Store defines the persistence operations for runs.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	// SaveGeneration upserts one generation of a run. Returns ErrNotFound if
	// the run was never saved.
	SaveGeneration(ctx context.Context, runID string, stats telemetry.GenerationStats) error
	// ListGenerations returns a run's generations in ascending order.
	// Returns ErrNotFound if the run was never saved.
	ListGenerations(ctx context.Context, runID string) ([]telemetry.GenerationStats, error)
}
