package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/antcolony/config"
	"github.com/pthm-cable/antcolony/game"
	"github.com/pthm-cable/antcolony/server"
	"github.com/pthm-cable/antcolony/storage"
	"github.com/pthm-cable/antcolony/telemetry"
	"github.com/pthm-cable/antcolony/ui"
)

func main() {
	if err := run(); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

// run owns every deferred closer so they all complete before main exits.
func run() error {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output generation and perf stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, hall of fame and snapshots")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	storeKind := flag.String("store", "", "Run store backend: memory, sqlite, postgres (empty = use config)")
	storeDSN := flag.String("store-dsn", "", "sqlite path or postgres DSN (empty = use config)")
	serveAddr := flag.String("serve", "", "Status server address, e.g. :8080 (empty = use config)")
	snapshotPath := flag.String("snapshot", "", "Write a final snapshot to this path on exit")
	resumePath := flag.String("resume", "", "Resume from a snapshot file")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg := config.Cfg()

	if *storeKind != "" {
		cfg.Storage.Kind = *storeKind
	}
	if *storeDSN != "" {
		cfg.Storage.DSN = *storeDSN
	}
	if *serveAddr != "" {
		cfg.Server.Addr = *serveAddr
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	var resume *telemetry.Snapshot
	if *resumePath != "" {
		snap, err := telemetry.LoadSnapshot(*resumePath)
		if err != nil {
			return fmt.Errorf("load snapshot %s: %w", *resumePath, err)
		}
		resume = snap
		rngSeed = snap.Seed
		slog.Info("resuming from snapshot", "path", *resumePath, "tick", snap.Tick, "seed", snap.Seed)
	}

	var store storage.Store
	if cfg.Storage.Kind != "" {
		s, err := storage.NewStore(cfg.Storage.Kind, cfg.Storage.DSN)
		if err != nil {
			return fmt.Errorf("create %s store: %w", cfg.Storage.Kind, err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = s.Init(ctx)
		cancel()
		if err != nil {
			_ = storage.CloseIfSupported(s)
			return fmt.Errorf("initialize %s store: %w", cfg.Storage.Kind, err)
		}
		defer func() {
			if err := storage.CloseIfSupported(s); err != nil {
				slog.Error("failed to close store", "error", err)
			}
		}()
		store = s
	}

	var state *server.State
	if cfg.Server.Addr != "" {
		state = server.NewState()
	}

	opts := game.Options{
		Config:         cfg,
		Seed:           rngSeed,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		StepsPerUpdate: *stepsPerUpdate,
		Resume:         resume,
		Store:          store,
		Publisher:      state,
	}

	if *headless {
		return runHeadless(opts, *maxTicks, *snapshotPath)
	}
	return runWindowed(opts, *maxTicks, *snapshotPath)
}

// startServer serves g's published state until the returned stop is called.
func startServer(g *game.Game, opts game.Options) (stop func()) {
	if opts.Publisher == nil {
		return func() {}
	}
	srv := server.New(g.Config().Server.Addr, server.Handler{
		State: opts.Publisher,
		Store: opts.Store,
		RunID: g.RunID(),
	})
	srv.Start()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("failed to shut down status server", "error", err)
		}
	}
}

func finish(g *game.Game, snapshotPath string) {
	if snapshotPath != "" {
		if err := g.SaveSnapshot(snapshotPath); err != nil {
			slog.Error("failed to save final snapshot", "path", snapshotPath, "error", err)
		} else {
			slog.Info("final snapshot saved", "path", snapshotPath, "tick", g.Tick())
		}
	}
	g.Unload()
}

func runHeadless(opts game.Options, maxTicks int, snapshotPath string) error {
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return fmt.Errorf("start simulation: %w", err)
	}
	defer finish(g, snapshotPath)

	stop := startServer(g, opts)
	defer stop()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	slog.Info("starting headless simulation",
		"seed", g.Environment().Seed(),
		"run_id", g.RunID(),
		"max_ticks", maxTicks,
		"steps_per_update", g.StepsPerUpdate(),
	)

	for {
		g.Update()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick(), "generation", g.Environment().Generation())
			return nil
		}
		select {
		case <-ctx.Done():
			slog.Info("interrupted", "tick", g.Tick())
			return nil
		default:
		}
	}
}

func runWindowed(opts game.Options, maxTicks int, snapshotPath string) error {
	cfg := opts.Config
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Ant Colony")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return fmt.Errorf("start simulation: %w", err)
	}
	defer finish(g, snapshotPath)

	stop := startServer(g, opts)
	defer stop()

	w := ui.NewWindow(g)
	for !rl.WindowShouldClose() {
		w.Update()
		w.Draw()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			break
		}
	}
	return nil
}
