package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/pthm-cable/antcolony/telemetry"
)

// MemoryStore keeps everything in process memory. It is the default backend.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]Run
	generations map[string]map[int]telemetry.GenerationStats
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	s.initialized = true
	s.runs = make(map[string]Run)
	s.generations = make(map[string]map[int]telemetry.GenerationStats)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.runs[run.ID] = run
	if _, ok := s.generations[run.ID]; !ok {
		s.generations[run.ID] = make(map[int]telemetry.GenerationStats)
	}
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return Run{}, false, errNotInitialized
	}
	run, ok := s.runs[id]
	return run, ok, nil
}

func (s *MemoryStore) SaveGeneration(_ context.Context, runID string, stats telemetry.GenerationStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	gens, ok := s.generations[runID]
	if !ok {
		return ErrNotFound
	}
	gens[stats.Generation] = stats
	return nil
}

func (s *MemoryStore) ListGenerations(_ context.Context, runID string) ([]telemetry.GenerationStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, errNotInitialized
	}
	gens, ok := s.generations[runID]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]telemetry.GenerationStats, 0, len(gens))
	for _, g := range gens {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Generation < out[j].Generation })
	return out, nil
}

var errNotInitialized = errors.New("store is not initialized")
