// Package server exposes a read-only HTTP view of a running simulation.
package server

import (
	"sync/atomic"
	"time"

	"github.com/pthm-cable/antcolony/colony"
	"github.com/pthm-cable/antcolony/telemetry"
)

// Status is the summary served at /api/status.
type Status struct {
	RunID               string                     `json:"run_id"`
	Seed                int64                      `json:"seed"`
	Tick                int64                      `json:"tick"`
	Generation          int                        `json:"generation"`
	TotalFood           int                        `json:"total_food"`
	DeliveriesRemaining int                        `json:"deliveries_remaining"`
	Agents              int                        `json:"agents"`
	Carrying            int                        `json:"carrying"`
	Sources             int                        `json:"sources"`
	Pheromones          int                        `json:"pheromones"`
	TraitMeans          colony.Traits              `json:"trait_means"`
	LastGeneration      *telemetry.GenerationStats `json:"last_generation,omitempty"`
	PublishedAt         time.Time                  `json:"published_at"`
}

type frame struct {
	status Status
	snap   *telemetry.Snapshot
}

// State holds the most recently published frame. The simulation goroutine
// publishes; request handlers only load. Published values must not be
// modified afterwards.
type State struct {
	cur atomic.Pointer[frame]
}

func NewState() *State {
	return &State{}
}

// Publish replaces the current frame. snap may be nil.
func (s *State) Publish(status Status, snap *telemetry.Snapshot) {
	if s == nil {
		return
	}
	if status.PublishedAt.IsZero() {
		status.PublishedAt = time.Now().UTC()
	}
	s.cur.Store(&frame{status: status, snap: snap})
}

// Status returns the last published status, or false before the first publish.
func (s *State) Status() (Status, bool) {
	f := s.cur.Load()
	if f == nil {
		return Status{}, false
	}
	return f.status, true
}

// Snapshot returns the last published snapshot, or nil.
func (s *State) Snapshot() *telemetry.Snapshot {
	f := s.cur.Load()
	if f == nil {
		return nil
	}
	return f.snap
}
