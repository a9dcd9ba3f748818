package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/antcolony/colony"
	"github.com/pthm-cable/antcolony/components"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the full simulation state needed to resume a run.
type Snapshot struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`

	ArenaWidth  float64 `json:"arena_width"`
	ArenaHeight float64 `json:"arena_height"`

	Tick           int64 `json:"tick"`
	TotalFood      int   `json:"total_food"`
	SinceEvolution int   `json:"since_evolution"` // deliveries toward the next generation

	Colony     colony.State     `json:"colony"`
	Food       []FoodState      `json:"food"`
	Pheromones []PheromoneState `json:"pheromones"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// FoodState is one food source in a snapshot.
type FoodState struct {
	Pos      components.Position `json:"pos"`
	Stock    int                 `json:"stock"`
	Capacity int                 `json:"capacity"`
}

// PheromoneState is one pheromone deposit in a snapshot.
type PheromoneState struct {
	Pos       components.Position `json:"pos"`
	Intensity float64             `json:"intensity"`
}

// Validate checks the parts of a snapshot the simulation cannot repair itself.
func (s *Snapshot) Validate() error {
	if s.Version != SnapshotVersion {
		return fmt.Errorf("snapshot version %d, want %d", s.Version, SnapshotVersion)
	}
	if s.Tick < 0 || s.TotalFood < 0 || s.SinceEvolution < 0 {
		return fmt.Errorf("snapshot counters must not be negative")
	}
	return nil
}

// SnapshotName returns the file name a snapshot is saved under.
func SnapshotName(s *Snapshot) string {
	name := fmt.Sprintf("snapshot_%d", s.Tick)
	if s.Bookmark != nil {
		name += "_" + strings.ReplaceAll(string(s.Bookmark.Type), " ", "_")
	}
	return name + ".json"
}

// SaveSnapshot writes a snapshot into dir and returns its path.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}
	path := filepath.Join(dir, SnapshotName(snapshot))
	if err := WriteSnapshotFile(snapshot, path); err != nil {
		return "", err
	}
	return path, nil
}

// WriteSnapshotFile writes a snapshot to an explicit path.
func WriteSnapshotFile(snapshot *Snapshot, path string) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads and validates a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if err := snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", path, err)
	}
	return &snapshot, nil
}
