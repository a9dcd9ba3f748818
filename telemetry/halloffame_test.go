package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/antcolony/colony"
)

func scored(id uint32, fitness float64, food int) colony.Scored {
	return colony.Scored{ID: id, Fitness: fitness, FoodCollected: food, Traits: colony.Traits{Speed: fitness}}
}

func TestHallOfFameKeepsBest(t *testing.T) {
	hof := NewHallOfFame(3)

	got := hof.ConsiderGeneration(colony.GenerationResult{
		Generation: 1,
		Ranked:     []colony.Scored{scored(1, 0.9, 3), scored(2, 0.5, 1), scored(3, 0.1, 0)},
	})
	if got != 2 {
		t.Errorf("admitted = %d, want 2 (zero-food forager skipped)", got)
	}

	hof.ConsiderGeneration(colony.GenerationResult{
		Generation: 2,
		Ranked:     []colony.Scored{scored(4, 0.7, 2), scored(5, 0.3, 1)},
	})

	entries := hof.Entries()
	wantIDs := []uint32{1, 4, 2}
	if len(entries) != len(wantIDs) {
		t.Fatalf("len = %d, want %d", len(entries), len(wantIDs))
	}
	for i, id := range wantIDs {
		if entries[i].AgentID != id {
			t.Errorf("entry %d = agent %d, want %d", i, entries[i].AgentID, id)
		}
	}
	if entries[1].Generation != 2 {
		t.Errorf("generation = %d, want 2", entries[1].Generation)
	}
	if hof.TopFitness() != 0.9 {
		t.Errorf("TopFitness = %v, want 0.9", hof.TopFitness())
	}
}

func TestHallOfFameTieKeepsOlder(t *testing.T) {
	hof := NewHallOfFame(1)
	hof.insert(HallEntry{AgentID: 1, Fitness: 0.5})
	if hof.insert(HallEntry{AgentID: 2, Fitness: 0.5}) {
		t.Error("equal fitness should not displace the older entry")
	}
	if hof.Entries()[0].AgentID != 1 {
		t.Error("older entry lost")
	}
}

func TestHallOfFameFileRoundTrip(t *testing.T) {
	hof := NewHallOfFame(5)
	hof.ConsiderGeneration(colony.GenerationResult{
		Generation: 3,
		Ranked:     []colony.Scored{scored(7, 0.8, 4), scored(8, 0.6, 2)},
	})

	data, err := hof.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	path := filepath.Join(t.TempDir(), "hall_of_fame.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadHallOfFame(path, 1)
	if err != nil {
		t.Fatalf("LoadHallOfFame: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("Len = %d, want 2", loaded.Len())
	}
	if e := loaded.Entries()[0]; e.AgentID != 7 || e.Traits.Speed != 0.8 || e.Generation != 3 {
		t.Errorf("first entry = %+v", e)
	}
}
