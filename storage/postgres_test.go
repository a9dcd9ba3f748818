package storage

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/pthm-cable/antcolony/telemetry"
)

func TestPostgresStoreRequiresInit(t *testing.T) {
	s := NewPostgresStore("postgres://unused")
	if err := s.SaveRun(context.Background(), NewRun(1, "")); err == nil {
		t.Fatal("expected error before Init")
	}
}

func TestPostgresStoreIntegration(t *testing.T) {
	dsn := os.Getenv("ANTCOLONY_TEST_DSN")
	if dsn == "" {
		t.Skip("ANTCOLONY_TEST_DSN is empty")
	}
	ctx := context.Background()

	s := NewPostgresStore(dsn)
	if err := s.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	run := NewRun(21, "")
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}
	if _, ok, err := s.GetRun(ctx, run.ID); !ok || err != nil {
		t.Fatalf("get run: ok=%v err=%v", ok, err)
	}
	if _, ok, err := s.GetRun(ctx, "missing-run"); ok || err != nil {
		t.Errorf("missing run: ok=%v err=%v", ok, err)
	}

	if err := s.SaveGeneration(ctx, "missing-run", telemetry.GenerationStats{Generation: 1}); !errors.Is(err, ErrNotFound) {
		t.Errorf("save to unknown run: %v", err)
	}
	for _, g := range []int{2, 1} {
		if err := s.SaveGeneration(ctx, run.ID, telemetry.GenerationStats{Generation: g}); err != nil {
			t.Fatalf("save generation: %v", err)
		}
	}
	gens, err := s.ListGenerations(ctx, run.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(gens) != 2 || gens[0].Generation != 1 {
		t.Errorf("generations = %+v", gens)
	}
}
