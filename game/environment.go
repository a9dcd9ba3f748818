package game

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/antcolony/colony"
	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/config"
	"github.com/pthm-cable/antcolony/systems"
	"github.com/pthm-cable/antcolony/telemetry"
)

// GenerationHook receives every finished generation. It runs inside Tick,
// after evolution and before the pheromone decay.
type GenerationHook func(stats telemetry.GenerationStats, res colony.GenerationResult)

// Environment owns the colony and both fields and advances them one tick at a time.
type Environment struct {
	cfg   *config.Config
	rng   *rand.Rand
	seed  int64
	rules *colony.Rules

	colony     *colony.Colony
	food       *systems.FoodField
	pheromones *systems.PheromoneField
	view       colony.View

	tick           int64
	totalFood      int
	sinceEvolution int

	jitter   []components.Position
	results  []colony.StepResult
	parallel *parallelState

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	onGen     GenerationHook
	lastGen   *telemetry.GenerationStats
}

// New builds an environment from a validated configuration. The colony is
// created first, then the food is scattered, both from the same seed.
func New(cfg *config.Config, seed int64) (*Environment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new environment: %w", err)
	}
	e := newEnvironment(cfg, seed, rand.New(rand.NewSource(seed)))
	e.colony = colony.New(e.rules, cfg.Colony.Foragers, cfg.Derived.Scouts, e.rng)
	e.food.Scatter(e.rng, cfg.Derived.ArenaW, cfg.Derived.ArenaH, cfg.Food)
	e.collector = telemetry.NewCollector(0)
	return e, nil
}

// NewFromSnapshot rebuilds an environment from a saved snapshot. The random
// source is reseeded from the snapshot seed and tick, so a resumed run is
// reproducible but does not continue the original random sequence.
func NewFromSnapshot(cfg *config.Config, snap *telemetry.Snapshot) (*Environment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("restore environment: %w", err)
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("restore environment: %w", err)
	}
	if snap.ArenaWidth != cfg.Derived.ArenaW || snap.ArenaHeight != cfg.Derived.ArenaH {
		return nil, fmt.Errorf("restore environment: snapshot arena %gx%g does not match config %gx%g",
			snap.ArenaWidth, snap.ArenaHeight, cfg.Derived.ArenaW, cfg.Derived.ArenaH)
	}

	e := newEnvironment(cfg, snap.Seed, rand.New(rand.NewSource(snap.Seed+snap.Tick)))
	c, err := colony.Restore(e.rules, snap.Colony)
	if err != nil {
		return nil, fmt.Errorf("restore environment: %w", err)
	}
	e.colony = c
	for _, f := range snap.Food {
		e.food.Add(f.Pos, f.Stock, f.Capacity)
	}
	for _, p := range snap.Pheromones {
		e.pheromones.AddWithIntensity(p.Pos, p.Intensity)
	}
	e.tick = snap.Tick
	e.totalFood = snap.TotalFood
	e.sinceEvolution = snap.SinceEvolution
	e.collector = telemetry.NewCollector(snap.Tick)
	return e, nil
}

func newEnvironment(cfg *config.Config, seed int64, rng *rand.Rand) *Environment {
	e := &Environment{
		cfg:        cfg,
		rng:        rng,
		seed:       seed,
		rules:      colony.NewRules(cfg),
		food:       systems.NewFoodField(),
		pheromones: systems.NewPheromoneField(cfg.Derived.ArenaW, cfg.Derived.ArenaH, cfg.Pheromone),
		parallel:   newParallelState(cfg.Simulation.Workers),
	}
	e.view = colony.View{Pheromones: e.pheromones, Food: e.food}
	return e
}

// SetPerfCollector attaches a collector timing each tick phase. nil disables timing.
func (e *Environment) SetPerfCollector(p *telemetry.PerfCollector) {
	e.perf = p
}

// OnGeneration registers a hook called for every finished generation.
func (e *Environment) OnGeneration(hook GenerationHook) {
	e.onGen = hook
}

// AgentView is the read-only state of one agent.
type AgentView struct {
	ID           uint32
	Variant      colony.Variant
	Pos          components.Position
	CarryingFood bool
	Exploring    bool
	Traits       colony.Traits

	FoodCollected int
	StepsTaken    int
	PathLen       int // positions recorded since the last pickup
}

func viewOf(a *colony.Agent) AgentView {
	return AgentView{
		ID:            a.ID,
		Variant:       a.Variant,
		Pos:           a.Pos,
		CarryingFood:  a.CarryingFood,
		Exploring:     a.Exploring,
		Traits:        a.Traits,
		FoodCollected: a.FoodCollected,
		StepsTaken:    a.StepsTaken,
		PathLen:       len(a.ReturnPath),
	}
}

// Nest returns the colony position and its delivery radius.
func (e *Environment) Nest() (components.Position, float64) {
	return e.rules.Nest, e.rules.NestRadius
}

// PickupRadius returns the distance below which an agent picks up food.
func (e *Environment) PickupRadius() float64 {
	return e.rules.PickupRadius
}

// Agents returns every agent in population order: foragers, then scouts.
func (e *Environment) Agents() []AgentView {
	out := make([]AgentView, e.colony.Len())
	for i := range out {
		out[i] = viewOf(e.colony.At(i))
	}
	return out
}

// AgentAt returns the agent closest to p within radius.
func (e *Environment) AgentAt(p components.Position, radius float64) (AgentView, bool) {
	best := -1
	bestD2 := radius * radius
	for i := 0; i < e.colony.Len(); i++ {
		a := e.colony.At(i)
		dx, dy := a.Pos.X-p.X, a.Pos.Y-p.Y
		if d2 := dx*dx + dy*dy; d2 <= bestD2 {
			best, bestD2 = i, d2
		}
	}
	if best < 0 {
		return AgentView{}, false
	}
	return viewOf(e.colony.At(best)), true
}

// AgentByID looks an agent up by ID.
func (e *Environment) AgentByID(id uint32) (AgentView, bool) {
	for i := 0; i < e.colony.Len(); i++ {
		if a := e.colony.At(i); a.ID == id {
			return viewOf(a), true
		}
	}
	return AgentView{}, false
}

// FoodSources returns the sources that still have stock.
func (e *Environment) FoodSources() []systems.Source {
	return e.food.Sources()
}

// Pheromones returns the active pheromone deposits.
func (e *Environment) Pheromones() []systems.Deposit {
	return e.pheromones.Deposits()
}

// Generation returns the current generation number, starting at 1.
func (e *Environment) Generation() int {
	return e.colony.Generation
}

// TotalFood returns the food delivered since the run started.
func (e *Environment) TotalFood() int {
	return e.totalFood
}

// DeliveriesRemaining returns the deliveries left before the next evolution.
func (e *Environment) DeliveriesRemaining() int {
	return max(0, e.cfg.Genetics.DeliveryThreshold-e.sinceEvolution)
}

// TickCount returns the number of ticks run.
func (e *Environment) TickCount() int64 {
	return e.tick
}

// Seed returns the seed the environment was built from.
func (e *Environment) Seed() int64 {
	return e.seed
}

// LastGeneration returns the stats of the most recent generation, or nil
// before the first evolution.
func (e *Environment) LastGeneration() *telemetry.GenerationStats {
	return e.lastGen
}

// Colony exposes the colony for read-only inspection in tests and tools.
func (e *Environment) Colony() *colony.Colony {
	return e.colony
}

// TraitMeans returns the average traits over all agents.
func (e *Environment) TraitMeans() colony.Traits {
	n := e.colony.Len()
	if n == 0 {
		return colony.Traits{}
	}
	var sum colony.Traits
	for i := 0; i < n; i++ {
		t := e.colony.At(i).Traits
		sum.Speed += t.Speed
		sum.SenseRange += t.SenseRange
		sum.PheromoneStrength += t.PheromoneStrength
	}
	return colony.Traits{
		Speed:             sum.Speed / float64(n),
		SenseRange:        sum.SenseRange / float64(n),
		PheromoneStrength: sum.PheromoneStrength / float64(n),
	}
}

// Snapshot captures the full state needed to resume the run.
func (e *Environment) Snapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snap := &telemetry.Snapshot{
		Version:        telemetry.SnapshotVersion,
		Seed:           e.seed,
		ArenaWidth:     e.cfg.Derived.ArenaW,
		ArenaHeight:    e.cfg.Derived.ArenaH,
		Tick:           e.tick,
		TotalFood:      e.totalFood,
		SinceEvolution: e.sinceEvolution,
		Colony:         e.colony.State(),
		Bookmark:       bookmark,
	}
	for _, s := range e.food.Sources() {
		snap.Food = append(snap.Food, telemetry.FoodState{Pos: s.Pos, Stock: s.Stock, Capacity: s.Capacity})
	}
	for _, d := range e.pheromones.Deposits() {
		snap.Pheromones = append(snap.Pheromones, telemetry.PheromoneState{Pos: d.Pos, Intensity: d.Intensity})
	}
	return snap
}

// Close stops the worker pool.
func (e *Environment) Close() {
	e.parallel.stopWorkers()
}
