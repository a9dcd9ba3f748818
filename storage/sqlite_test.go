//go:build sqlite

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/antcolony/telemetry"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")

	s := NewSQLiteStore(path)
	if err := s.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	run := NewRun(11, "seed: 11\n")
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}
	got, ok, err := s.GetRun(ctx, run.ID)
	if err != nil || !ok {
		t.Fatalf("get run: ok=%v err=%v", ok, err)
	}
	if got.Seed != 11 || got.ConfigYAML != run.ConfigYAML || !got.StartedAt.Equal(run.StartedAt) {
		t.Errorf("run = %+v, want %+v", got, run)
	}

	if err := s.SaveGeneration(ctx, "missing", telemetry.GenerationStats{Generation: 1}); !errors.Is(err, ErrNotFound) {
		t.Errorf("save to unknown run: %v", err)
	}

	for _, g := range []int{2, 1} {
		if err := s.SaveGeneration(ctx, run.ID, telemetry.GenerationStats{Generation: g, Tick: int64(g * 100)}); err != nil {
			t.Fatalf("save generation: %v", err)
		}
	}
	if err := s.SaveGeneration(ctx, run.ID, telemetry.GenerationStats{Generation: 1, Tick: 150}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	gens, err := s.ListGenerations(ctx, run.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(gens) != 2 || gens[0].Generation != 1 || gens[0].Tick != 150 || gens[1].Tick != 200 {
		t.Errorf("generations = %+v", gens)
	}
}

func TestSQLiteStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")

	first := NewSQLiteStore(path)
	if err := first.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	run := NewRun(3, "")
	if err := first.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, _, err := first.GetRun(ctx, run.ID); err == nil {
		t.Error("expected error after Close")
	}

	second := NewSQLiteStore(path)
	if err := second.Init(ctx); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = second.Close() })
	if _, ok, err := second.GetRun(ctx, run.ID); !ok || err != nil {
		t.Errorf("run lost after reopen: ok=%v err=%v", ok, err)
	}
}
