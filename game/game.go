package game

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/antcolony/config"
	"github.com/pthm-cable/antcolony/server"
	"github.com/pthm-cable/antcolony/storage"
	"github.com/pthm-cable/antcolony/telemetry"
)

// MaxStepsPerUpdate bounds the ticks run per Update call.
const MaxStepsPerUpdate = 20

// Options configures a Game.
type Options struct {
	Config         *config.Config      // nil uses config.Cfg()
	Seed           int64
	LogStats       bool                // log generation and perf stats via slog
	OutputDir      string              // CSV, hall of fame and snapshot output, "" = off
	StepsPerUpdate int                 // ticks per Update call
	Resume         *telemetry.Snapshot // start from a saved state instead of Seed
	Store          storage.Store       // initialized store, nil = no persistence
	Publisher      *server.State       // status server state, nil = not served
}

// Game drives an Environment and the observers fed from it: output files,
// persistence and the status server. It has no window; ui.Window wraps it.
type Game struct {
	cfg *config.Config
	env *Environment

	// Telemetry
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	bookmarks *telemetry.BookmarkDetector
	hall      *telemetry.HallOfFame
	logStats  bool

	// Persistence
	store storage.Store
	runID string

	publisher *server.State

	// State
	paused         bool
	stepsPerUpdate int
	lastPerfFlush  int64
}

// NewGameWithOptions builds a game from a fresh seed or a snapshot.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	var (
		env *Environment
		err error
	)
	if opts.Resume != nil {
		env, err = NewFromSnapshot(cfg, opts.Resume)
	} else {
		env, err = New(cfg, opts.Seed)
	}
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:            cfg,
		env:            env,
		perf:           telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		bookmarks:      telemetry.NewBookmarkDetector(10, cfg.Telemetry.ConvergenceStdDev),
		hall:           telemetry.NewHallOfFame(cfg.Telemetry.HallOfFameSize),
		logStats:       opts.LogStats,
		store:          opts.Store,
		publisher:      opts.Publisher,
		stepsPerUpdate: min(max(opts.StepsPerUpdate, 1), MaxStepsPerUpdate),
		lastPerfFlush:  env.TickCount(),
	}
	env.SetPerfCollector(g.perf)
	env.OnGeneration(g.onGeneration)

	if g.output, err = telemetry.NewOutputManager(opts.OutputDir); err != nil {
		env.Close()
		return nil, err
	}
	if err := g.output.WriteConfig(cfg); err != nil {
		g.Unload()
		return nil, err
	}

	if g.store != nil {
		if err := g.registerRun(); err != nil {
			g.Unload()
			return nil, err
		}
	}

	g.publish()
	return g, nil
}

// registerRun saves the run record the generation rows hang off.
func (g *Game) registerRun() error {
	data, err := yaml.Marshal(g.cfg)
	if err != nil {
		return fmt.Errorf("marshaling config for run: %w", err)
	}
	run := storage.NewRun(g.env.Seed(), string(data))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := g.store.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	g.runID = run.ID
	slog.Info("run registered", "run_id", run.ID, "seed", run.Seed)
	return nil
}

// Update runs the configured number of ticks unless paused.
func (g *Game) Update() {
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// RecordFrame marks a rendered frame for FPS tracking.
func (g *Game) RecordFrame() {
	g.perf.RecordFrame()
}

// Paused reports whether Update is a no-op.
func (g *Game) Paused() bool {
	return g.paused
}

// SetPaused pauses or resumes the simulation.
func (g *Game) SetPaused(paused bool) {
	g.paused = paused
}

// StepsPerUpdate returns the ticks run per Update.
func (g *Game) StepsPerUpdate() int {
	return g.stepsPerUpdate
}

// SetStepsPerUpdate sets the ticks per Update, clamped to [1, MaxStepsPerUpdate].
func (g *Game) SetStepsPerUpdate(n int) {
	g.stepsPerUpdate = min(max(n, 1), MaxStepsPerUpdate)
}

// step runs one tick and the periodic observers.
func (g *Game) step() {
	g.env.Tick()
	tick := g.env.TickCount()

	if g.cfg.Telemetry.PerfFlushTicks > 0 && tick-g.lastPerfFlush >= int64(g.cfg.Telemetry.PerfFlushTicks) {
		g.flushPerf(tick)
	}
	if g.publisher != nil && tick%int64(g.cfg.Server.PublishEvery) == 0 {
		g.publish()
	}
}

// Environment returns the simulation being driven.
func (g *Game) Environment() *Environment {
	return g.env
}

// Config returns the configuration the game was built with.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// PerfStats returns the rolling tick timings.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perf.Stats()
}

// HallOfFame returns the best forager genomes seen so far.
func (g *Game) HallOfFame() *telemetry.HallOfFame {
	return g.hall
}

// RunID returns the stored run ID, or "" without a store.
func (g *Game) RunID() string {
	return g.runID
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int64 {
	return g.env.TickCount()
}

// SaveSnapshot writes the current state to path.
func (g *Game) SaveSnapshot(path string) error {
	return telemetry.WriteSnapshotFile(g.env.Snapshot(nil), path)
}

// Unload stops workers and closes output. Safe to call more than once.
func (g *Game) Unload() {
	if g.env != nil {
		g.env.Close()
	}
	if err := g.output.WriteHallOfFame(g.hall); err != nil {
		slog.Error("failed to write hall of fame", "error", err)
	}
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	g.output = nil
}
