package game

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/antcolony/config"
	"github.com/pthm-cable/antcolony/server"
	"github.com/pthm-cable/antcolony/storage"
)

func runnerConfig(t *testing.T) *config.Config {
	return testConfig(t, func(c *config.Config) {
		c.Colony.Foragers = 4
		c.Colony.Scouts = 1
		c.Food.Sources = 0
		c.Agent.ExplorationJitter = 0
		c.Genetics.DeliveryThreshold = 1
		c.Telemetry.PerfFlushTicks = 1
		c.Telemetry.SnapshotEvery = 1
		c.Server.PublishEvery = 1
	})
}

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func TestGameGenerationFansOut(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := storage.NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init store: %v", err)
	}
	state := server.NewState()

	g := newTestGame(t, Options{
		Config:         runnerConfig(t),
		Seed:           3,
		OutputDir:      dir,
		StepsPerUpdate: 1,
		Store:          store,
		Publisher:      state,
	})
	if g.RunID() == "" {
		t.Fatal("run was not registered")
	}
	if st, ok := state.Status(); !ok || st.Tick != 0 || st.RunID != g.RunID() {
		t.Fatalf("initial publish = %+v, %v", st, ok)
	}

	carryHome(g.env, g.env.colony.Foragers[0])
	g.Update()

	if g.Tick() != 1 || g.env.Generation() != 2 {
		t.Fatalf("tick %d generation %d", g.Tick(), g.env.Generation())
	}

	gens, err := store.ListGenerations(ctx, g.RunID())
	if err != nil {
		t.Fatalf("list generations: %v", err)
	}
	if len(gens) != 1 || gens[0].Generation != 1 || gens[0].Deliveries != 1 {
		t.Errorf("stored generations = %+v", gens)
	}

	st, _ := state.Status()
	if st.Generation != 2 || st.Tick != 1 || st.LastGeneration == nil || st.LastGeneration.Generation != 1 {
		t.Errorf("published status = %+v", st)
	}
	if snap := state.Snapshot(); snap == nil || snap.Tick != 1 {
		t.Errorf("published snapshot = %+v", snap)
	}

	if g.HallOfFame().Len() != 1 {
		t.Errorf("hall of fame has %d entries, want 1", g.HallOfFame().Len())
	}

	data, err := os.ReadFile(filepath.Join(dir, "generations.csv"))
	if err != nil {
		t.Fatalf("read generations.csv: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 2 {
		t.Errorf("generations.csv has %d lines, want header + 1", len(lines))
	}
	if _, err := os.Stat(filepath.Join(dir, "perf.csv")); err != nil {
		t.Errorf("perf.csv: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml: %v", err)
	}
	snaps, err := filepath.Glob(filepath.Join(dir, "snapshots", "snapshot_*.json"))
	if err != nil || len(snaps) == 0 {
		t.Errorf("no generation snapshot written: %v", err)
	}

	g.Unload()
	if _, err := os.Stat(filepath.Join(dir, "hall_of_fame.json")); err != nil {
		t.Errorf("hall_of_fame.json: %v", err)
	}
}

func TestGamePauseAndSpeed(t *testing.T) {
	g := newTestGame(t, Options{Config: runnerConfig(t), Seed: 1, StepsPerUpdate: 3})

	g.Update()
	if g.Tick() != 3 {
		t.Fatalf("tick = %d, want 3", g.Tick())
	}

	g.SetPaused(true)
	g.Update()
	if g.Tick() != 3 {
		t.Errorf("paused game advanced to %d", g.Tick())
	}

	g.SetPaused(false)
	g.SetStepsPerUpdate(0)
	if g.StepsPerUpdate() != 1 {
		t.Errorf("StepsPerUpdate = %d, want clamp to 1", g.StepsPerUpdate())
	}
	g.SetStepsPerUpdate(1000)
	if g.StepsPerUpdate() != MaxStepsPerUpdate {
		t.Errorf("StepsPerUpdate = %d, want clamp to %d", g.StepsPerUpdate(), MaxStepsPerUpdate)
	}
}

func TestGameResume(t *testing.T) {
	cfg := runnerConfig(t)
	first := newTestGame(t, Options{Config: cfg, Seed: 5, StepsPerUpdate: 4})
	first.Update()

	path := filepath.Join(t.TempDir(), "state.json")
	if err := first.SaveSnapshot(path); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	snap := first.env.Snapshot(nil)
	resumed := newTestGame(t, Options{Config: cfg, Resume: snap, StepsPerUpdate: 1})
	if resumed.Tick() != 4 || resumed.env.Seed() != 5 {
		t.Errorf("resumed at tick %d seed %d", resumed.Tick(), resumed.env.Seed())
	}
	if len(resumed.env.Agents()) != len(first.env.Agents()) {
		t.Errorf("agent count %d != %d", len(resumed.env.Agents()), len(first.env.Agents()))
	}
}

func TestGameRejectsInvalidConfig(t *testing.T) {
	cfg := runnerConfig(t)
	cfg.Genetics.DeliveryThreshold = 0
	if _, err := NewGameWithOptions(Options{Config: cfg}); err == nil {
		t.Fatal("expected config error")
	}
}
