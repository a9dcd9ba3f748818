package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkNewBestFitness   BookmarkType = "new_best_fitness"
	BookmarkFastGeneration   BookmarkType = "fast_generation"
	BookmarkTraitConvergence BookmarkType = "trait_convergence"
	BookmarkFoodExhausted    BookmarkType = "food_exhausted"
)

// Bookmark marks a generation worth a closer look.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Generation  int          `csv:"generation" json:"generation"`
	Tick        int64        `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"generation", b.Generation,
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector watches generation stats for notable moments.
type BookmarkDetector struct {
	history     []GenerationStats
	historySize int
	historyIdx  int
	historyFull bool

	convergenceStd float64

	bestFitness float64
	converged   bool
	exhausted   bool
}

// NewBookmarkDetector creates a detector keeping historySize generations.
// convergenceStd is the relative speed spread below which the population
// counts as converged.
func NewBookmarkDetector(historySize int, convergenceStd float64) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:        make([]GenerationStats, historySize),
		historySize:    historySize,
		convergenceStd: convergenceStd,
	}
}

// Check analyzes the latest generation and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats GenerationStats) []Bookmark {
	var bookmarks []Bookmark
	add := func(b *Bookmark) {
		if b != nil {
			b.Generation = stats.Generation
			b.Tick = stats.Tick
			bookmarks = append(bookmarks, *b)
		}
	}

	add(bd.checkBestFitness(stats))
	add(bd.checkFastGeneration(stats))
	add(bd.checkConvergence(stats))
	add(bd.checkExhausted(stats))

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats GenerationStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []GenerationStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkBestFitness fires when a forager beats every earlier generation's best.
// The first generation only sets the baseline.
func (bd *BookmarkDetector) checkBestFitness(stats GenerationStats) *Bookmark {
	prev := bd.bestFitness
	if stats.BestFitness <= prev {
		return nil
	}
	bd.bestFitness = stats.BestFitness
	if len(bd.getHistory()) == 0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkNewBestFitness,
		Description: fmt.Sprintf("Best fitness %.4f beats previous %.4f", stats.BestFitness, prev),
	}
}

// checkFastGeneration fires when a generation reached its delivery quota in
// under half the rolling average time.
func (bd *BookmarkDetector) checkFastGeneration(stats GenerationStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 || stats.Ticks <= 0 {
		return nil
	}
	var total int64
	for _, h := range history {
		total += h.Ticks
	}
	avg := float64(total) / float64(len(history))
	if float64(stats.Ticks) >= avg/2 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkFastGeneration,
		Description: fmt.Sprintf("Generation took %d ticks against an average of %.0f", stats.Ticks, avg),
	}
}

// checkConvergence fires once when the forager speed spread falls below the
// configured fraction of the mean, and re-arms when the spread recovers.
func (bd *BookmarkDetector) checkConvergence(stats GenerationStats) *Bookmark {
	if stats.SpeedMean <= 0 || bd.convergenceStd <= 0 {
		return nil
	}
	rel := stats.SpeedStd / stats.SpeedMean
	if rel >= bd.convergenceStd {
		bd.converged = false
		return nil
	}
	if bd.converged {
		return nil
	}
	bd.converged = true
	return &Bookmark{
		Type:        BookmarkTraitConvergence,
		Description: fmt.Sprintf("Forager speed converged to %.3f (std %.4f)", stats.SpeedMean, stats.SpeedStd),
	}
}

// checkExhausted fires once when the last food source is gone.
func (bd *BookmarkDetector) checkExhausted(stats GenerationStats) *Bookmark {
	if bd.exhausted || stats.Sources > 0 {
		return nil
	}
	bd.exhausted = true
	return &Bookmark{
		Type:        BookmarkFoodExhausted,
		Description: fmt.Sprintf("All food collected after %d deliveries", stats.TotalFood),
	}
}
