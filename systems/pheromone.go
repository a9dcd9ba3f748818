package systems

import (
	"math"
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/config"
)

// Deposit is a read-only copy of one pheromone deposit.
type Deposit struct {
	Entity    ecs.Entity
	Pos       components.Position
	Intensity float64
	Seq       uint64
}

// PheromoneField owns the pheromone deposits laid by returning agents.
// Deposits live as ECS entities; queries run against a value view and a spatial
// grid that are rebuilt after every mutation.
type PheromoneField struct {
	world  *ecs.World
	mapper *ecs.Map2[components.Position, components.Pheromone]
	filter *ecs.Filter2[components.Position, components.Pheromone]

	capacity  float64
	threshold float64
	nextSeq   uint64

	view []Deposit
	grid *SpatialGrid
	dead []ecs.Entity
}

// NewPheromoneField creates an empty field covering a width x height arena.
func NewPheromoneField(width, height float64, cfg config.PheromoneConfig) *PheromoneField {
	world := ecs.NewWorld()
	return &PheromoneField{
		world:     world,
		mapper:    ecs.NewMap2[components.Position, components.Pheromone](world),
		filter:    ecs.NewFilter2[components.Position, components.Pheromone](world),
		capacity:  cfg.BaseCapacity,
		threshold: cfg.ActivityThreshold,
		view:      make([]Deposit, 0, 256),
		grid:      NewSpatialGrid(width, height, cfg.GridCellSize),
	}
}

// Add lays a deposit at pos with intensity equal to the base capacity times strength.
func (f *PheromoneField) Add(pos components.Position, strength float64) {
	f.AddWithIntensity(pos, f.capacity*strength)
}

// AddWithIntensity lays a deposit with an explicit intensity. Used when restoring snapshots.
func (f *PheromoneField) AddWithIntensity(pos components.Position, intensity float64) {
	ph := components.Pheromone{Intensity: intensity, Seq: f.nextSeq}
	f.nextSeq++

	e := f.mapper.NewEntity(&pos, &ph)
	f.view = append(f.view, Deposit{Entity: e, Pos: pos, Intensity: ph.Intensity, Seq: ph.Seq})
	f.grid.Insert(int32(len(f.view)-1), pos.X, pos.Y)
}

// Decay multiplies every intensity by rate and removes deposits at or below the
// activity threshold. Returns the number of deposits removed.
func (f *PheromoneField) Decay(rate float64) int {
	f.dead = f.dead[:0]

	query := f.filter.Query()
	for query.Next() {
		_, ph := query.Get()
		ph.Intensity *= rate
		if ph.Intensity <= f.threshold {
			f.dead = append(f.dead, query.Entity())
		}
	}

	// Query iteration complete, safe to remove
	for _, e := range f.dead {
		f.world.RemoveEntity(e)
	}

	f.rebuild()
	return len(f.dead)
}

// NearestWithin returns the most attractive deposit within maxDistance of pos.
// Attractiveness is intensity / max(1, distance); ties go to the earliest deposit.
func (f *PheromoneField) NearestWithin(pos components.Position, maxDistance float64) (Deposit, bool) {
	maxSq := maxDistance * maxDistance
	best := -1
	bestScore := 0.0

	f.grid.Visit(pos.X, pos.Y, maxDistance, func(idx int32) {
		d := &f.view[idx]
		distSq := DistanceSq(pos, d.Pos)
		if distSq > maxSq {
			return
		}
		score := d.Intensity / math.Max(1, math.Sqrt(distSq))
		if best < 0 || score > bestScore || (score == bestScore && d.Seq < f.view[best].Seq) {
			best = int(idx)
			bestScore = score
		}
	})

	if best < 0 {
		return Deposit{}, false
	}
	return f.view[best], true
}

// Len returns the number of active deposits.
func (f *PheromoneField) Len() int {
	return len(f.view)
}

// Deposits returns a copy of all active deposits in insertion order.
func (f *PheromoneField) Deposits() []Deposit {
	out := make([]Deposit, len(f.view))
	copy(out, f.view)
	return out
}

// Reset removes every deposit.
func (f *PheromoneField) Reset() {
	f.dead = f.dead[:0]
	query := f.filter.Query()
	for query.Next() {
		f.dead = append(f.dead, query.Entity())
	}
	for _, e := range f.dead {
		f.world.RemoveEntity(e)
	}
	f.rebuild()
}

// rebuild refreshes the value view and grid from the ECS world.
func (f *PheromoneField) rebuild() {
	f.view = f.view[:0]

	query := f.filter.Query()
	for query.Next() {
		pos, ph := query.Get()
		f.view = append(f.view, Deposit{Entity: query.Entity(), Pos: *pos, Intensity: ph.Intensity, Seq: ph.Seq})
	}

	// Storage order shifts on removal; keep the view in insertion order
	sort.Slice(f.view, func(i, j int) bool { return f.view[i].Seq < f.view[j].Seq })

	f.grid.Clear()
	for i := range f.view {
		f.grid.Insert(int32(i), f.view[i].Pos.X, f.view[i].Pos.Y)
	}
}
