package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/pthm-cable/antcolony/colony"
)

// HallEntry is one forager genome that ranked among the best of the run.
type HallEntry struct {
	Generation    int           `json:"generation"`
	AgentID       uint32        `json:"agent_id"`
	Fitness       float64       `json:"fitness"`
	FoodCollected int           `json:"food_collected"`
	StepsTaken    int           `json:"steps_taken"`
	Traits        colony.Traits `json:"traits"`
}

// HallOfFame keeps the fittest forager genomes seen across all generations,
// sorted by fitness descending.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
}

// NewHallOfFame creates a hall holding at most maxSize entries.
func NewHallOfFame(maxSize int) *HallOfFame {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{
		entries: make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// ConsiderGeneration offers every forager that collected food in a finished
// generation. Returns the number admitted.
func (hof *HallOfFame) ConsiderGeneration(res colony.GenerationResult) int {
	admitted := 0
	for _, s := range res.Ranked {
		if s.FoodCollected == 0 {
			continue
		}
		if hof.insert(HallEntry{
			Generation:    res.Generation,
			AgentID:       s.ID,
			Fitness:       s.Fitness,
			FoodCollected: s.FoodCollected,
			StepsTaken:    s.StepsTaken,
			Traits:        s.Traits,
		}) {
			admitted++
		}
	}
	return admitted
}

// insert adds an entry keeping the hall sorted. Equal fitness keeps the older
// entry first. Returns false if the hall is full and entry ranks last.
func (hof *HallOfFame) insert(entry HallEntry) bool {
	idx := sort.Search(len(hof.entries), func(i int) bool {
		return hof.entries[i].Fitness < entry.Fitness
	})
	if idx >= hof.maxSize {
		return false
	}

	hof.entries = append(hof.entries, HallEntry{})
	copy(hof.entries[idx+1:], hof.entries[idx:])
	hof.entries[idx] = entry
	if len(hof.entries) > hof.maxSize {
		hof.entries = hof.entries[:hof.maxSize]
	}
	return true
}

// Entries returns a copy of the hall, best first.
func (hof *HallOfFame) Entries() []HallEntry {
	out := make([]HallEntry, len(hof.entries))
	copy(out, hof.entries)
	return out
}

// Len returns the number of entries.
func (hof *HallOfFame) Len() int {
	return len(hof.entries)
}

// TopFitness returns the best fitness in the hall, or 0 if empty.
func (hof *HallOfFame) TopFitness() float64 {
	if len(hof.entries) == 0 {
		return 0
	}
	return hof.entries[0].Fitness
}

// MarshalJSON serializes the hall as a JSON array, best first.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(hof.entries, "", "  ")
}

// LoadHallOfFame reads a hall written by OutputManager.WriteHallOfFame.
// The hall grows to hold every entry in the file if it exceeds maxSize.
func LoadHallOfFame(path string, maxSize int) (*HallOfFame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hall of fame: %w", err)
	}
	var entries []HallEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing hall of fame JSON: %w", err)
	}

	hof := NewHallOfFame(max(maxSize, len(entries)))
	for _, e := range entries {
		hof.insert(e)
	}
	return hof, nil
}
