package game

import (
	"context"
	"log/slog"
	"time"

	"github.com/pthm-cable/antcolony/colony"
	"github.com/pthm-cable/antcolony/server"
	"github.com/pthm-cable/antcolony/telemetry"
)

// storeTimeout bounds each write to the run store.
const storeTimeout = 5 * time.Second

// onGeneration fans a finished generation out to logging, CSV, bookmarks,
// the hall of fame, the store and the status server.
func (g *Game) onGeneration(stats telemetry.GenerationStats, res colony.GenerationResult) {
	if g.logStats {
		stats.LogStats()
	}

	if err := g.output.WriteGeneration(stats); err != nil {
		slog.Error("failed to write generation", "error", err)
	}

	if added := g.hall.ConsiderGeneration(res); added > 0 && g.logStats {
		slog.Info("hall of fame updated", "added", added, "top_fitness", g.hall.TopFitness())
	}

	for _, bm := range g.bookmarks.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		g.saveSnapshot(&bm)
	}

	if every := g.cfg.Telemetry.SnapshotEvery; every > 0 && stats.Generation%every == 0 {
		g.saveSnapshot(nil)
	}

	if g.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		if err := g.store.SaveGeneration(ctx, g.runID, stats); err != nil {
			slog.Error("failed to store generation", "generation", stats.Generation, "error", err)
		}
		cancel()
	}

	g.publish()
}

// flushPerf writes the rolling perf window.
func (g *Game) flushPerf(tick int64) {
	g.lastPerfFlush = tick
	stats := g.perf.Stats()
	if g.logStats {
		stats.LogStats()
	}
	if err := g.output.WritePerf(stats, tick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// saveSnapshot writes the current state into the output snapshot directory.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	dir := g.output.SnapshotDir()
	if dir == "" {
		return
	}
	path, err := telemetry.SaveSnapshot(g.env.Snapshot(bookmark), dir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", g.env.TickCount())
}

// publish hands the status server a fresh, unshared view of the state.
func (g *Game) publish() {
	if g.publisher == nil {
		return
	}
	g.publisher.Publish(g.status(), g.env.Snapshot(nil))
}

func (g *Game) status() server.Status {
	carrying := 0
	for _, a := range g.env.Agents() {
		if a.CarryingFood {
			carrying++
		}
	}
	st := server.Status{
		RunID:               g.runID,
		Seed:                g.env.Seed(),
		Tick:                g.env.TickCount(),
		Generation:          g.env.Generation(),
		TotalFood:           g.env.TotalFood(),
		DeliveriesRemaining: g.env.DeliveriesRemaining(),
		Agents:              g.env.Colony().Len(),
		Carrying:            carrying,
		Sources:             len(g.env.FoodSources()),
		Pheromones:          len(g.env.Pheromones()),
		TraitMeans:          g.env.TraitMeans(),
	}
	if last := g.env.LastGeneration(); last != nil {
		cp := *last
		st.LastGeneration = &cp
	}
	return st
}
