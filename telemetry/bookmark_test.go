package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, b := range bookmarks {
		if b.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetectorBestFitness(t *testing.T) {
	bd := NewBookmarkDetector(10, 0)

	if got := bd.Check(GenerationStats{Generation: 1, BestFitness: 0.5, Sources: 5}); hasBookmark(got, BookmarkNewBestFitness) {
		t.Error("first generation should only set the baseline")
	}
	if got := bd.Check(GenerationStats{Generation: 2, BestFitness: 0.4, Sources: 5}); hasBookmark(got, BookmarkNewBestFitness) {
		t.Error("lower fitness should not trigger")
	}
	got := bd.Check(GenerationStats{Generation: 3, Tick: 900, BestFitness: 0.8, Sources: 5})
	if !hasBookmark(got, BookmarkNewBestFitness) {
		t.Fatal("expected new_best_fitness bookmark")
	}
	if got[0].Generation != 3 || got[0].Tick != 900 {
		t.Errorf("bookmark not stamped: %+v", got[0])
	}
}

func TestBookmarkDetectorFastGeneration(t *testing.T) {
	bd := NewBookmarkDetector(10, 0)
	for i := 1; i <= 4; i++ {
		if got := bd.Check(GenerationStats{Generation: i, Ticks: 400, Sources: 5}); hasBookmark(got, BookmarkFastGeneration) {
			t.Fatalf("generation %d: unexpected fast_generation", i)
		}
	}
	if got := bd.Check(GenerationStats{Generation: 5, Ticks: 150, Sources: 5}); !hasBookmark(got, BookmarkFastGeneration) {
		t.Error("expected fast_generation bookmark")
	}
}

func TestBookmarkDetectorConvergence(t *testing.T) {
	bd := NewBookmarkDetector(10, 0.05)
	tests := []struct {
		std  float64
		want bool
	}{
		{0.5, false},
		{0.1, true}, // 0.1/3 < 0.05
		{0.05, false},
		{0.9, false},
		{0.01, true},
	}
	for i, tt := range tests {
		got := bd.Check(GenerationStats{Generation: i + 1, SpeedMean: 3, SpeedStd: tt.std, Sources: 5})
		if hasBookmark(got, BookmarkTraitConvergence) != tt.want {
			t.Errorf("step %d (std %v): convergence = %v, want %v", i, tt.std, !tt.want, tt.want)
		}
	}
}

func TestBookmarkDetectorFoodExhausted(t *testing.T) {
	bd := NewBookmarkDetector(10, 0)
	if got := bd.Check(GenerationStats{Generation: 1, Sources: 2}); hasBookmark(got, BookmarkFoodExhausted) {
		t.Error("unexpected food_exhausted with sources left")
	}
	if got := bd.Check(GenerationStats{Generation: 2, Sources: 0, TotalFood: 600}); !hasBookmark(got, BookmarkFoodExhausted) {
		t.Error("expected food_exhausted")
	}
	if got := bd.Check(GenerationStats{Generation: 3, Sources: 0}); hasBookmark(got, BookmarkFoodExhausted) {
		t.Error("food_exhausted should fire once")
	}
}
