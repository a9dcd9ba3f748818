package colony

import (
	"math/rand"

	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/systems"
)

// PheromoneView is the read-only pheromone query an agent may make.
type PheromoneView interface {
	NearestWithin(pos components.Position, maxDistance float64) (systems.Deposit, bool)
}

// FoodView is the read-only food query an agent may make.
type FoodView interface {
	NearestTo(pos components.Position) (systems.Source, bool)
}

// View bundles the field queries an agent consults during a step.
type View struct {
	Pheromones PheromoneView
	Food       FoodView
}

// StepResult carries the field writes a step asks for. The orchestrator applies
// them after every agent has moved.
type StepResult struct {
	Delivered bool

	PickedUp bool
	Source   systems.Source

	Deposits []components.Position
	Strength float64
}

// Agent is one ant. Foragers and scouts share this type.
type Agent struct {
	ID      uint32
	Variant Variant

	Pos          components.Position
	CarryingFood bool
	Exploring    bool
	ReturnPath   []components.Position

	Traits Traits

	// Fitness inputs, reset each generation
	FoodCollected int
	StepsTaken    int
	Fitness       float64

	rules *Rules
}

// NewAgent creates an agent at the nest with traits drawn from the variant's
// init ± jitter range.
func NewAgent(id uint32, v Variant, rules *Rules, rng *rand.Rand) *Agent {
	vc := rules.Variants[v]
	t := Traits{
		Speed:             vc.Speed.Init + uniform(rng, vc.Speed.Jitter),
		SenseRange:        vc.Sense.Init + uniform(rng, vc.Sense.Jitter),
		PheromoneStrength: vc.Strength.Init + uniform(rng, vc.Strength.Jitter),
	}
	return newAgentWithTraits(id, v, rules, rules.clampTraits(v, t))
}

func newAgentWithTraits(id uint32, v Variant, rules *Rules, t Traits) *Agent {
	return &Agent{
		ID:        id,
		Variant:   v,
		Pos:       rules.Nest,
		Exploring: true,
		Traits:    t,
		Fitness:   rules.Fitness.Floor,
		rules:     rules,
	}
}

// Step advances the agent by one tick. jitter is the exploratory vector used
// when no pheromone is in range.
func (a *Agent) Step(view View, jitter components.Position) StepResult {
	a.StepsTaken++

	var dir components.Position
	if a.CarryingFood {
		dir = components.Position{X: a.rules.Nest.X - a.Pos.X, Y: a.rules.Nest.Y - a.Pos.Y}
		a.ReturnPath = append(a.ReturnPath, a.Pos)
	} else {
		dir = a.ChooseDirection(view.Pheromones, jitter)
	}

	norm := systems.ChebyshevNorm(dir.X, dir.Y)
	a.Pos = systems.ClampToArena(components.Position{
		X: a.Pos.X + a.Traits.Speed*dir.X/norm,
		Y: a.Pos.Y + a.Traits.Speed*dir.Y/norm,
	}, a.rules.ArenaW, a.rules.ArenaH)

	// A pickup inside the nest radius is delivered in the same step
	var res StepResult
	if !a.CarryingFood {
		if src, ok := a.CheckForFood(view.Food); ok {
			res.PickedUp = true
			res.Source = src
		}
	}
	if a.CarryingFood && systems.Distance(a.Pos, a.rules.Nest) < a.rules.NestRadius {
		res.Delivered = true
		res.Strength = a.Traits.PheromoneStrength
		res.Deposits = a.DeliverFood()
	}
	return res
}

// ChooseDirection returns the vector toward the most attractive pheromone within
// sensing range, or jitter when none is in range.
func (a *Agent) ChooseDirection(pheromones PheromoneView, jitter components.Position) components.Position {
	if d, ok := pheromones.NearestWithin(a.Pos, a.Traits.SenseRange); ok {
		return components.Position{X: d.Pos.X - a.Pos.X, Y: d.Pos.Y - a.Pos.Y}
	}
	return jitter
}

// CheckForFood picks up one unit from the nearest source if it lies within the
// pickup radius. The caller withdraws the unit from the field.
func (a *Agent) CheckForFood(food FoodView) (systems.Source, bool) {
	src, ok := food.NearestTo(a.Pos)
	if !ok || systems.Distance(a.Pos, src.Pos) >= a.rules.PickupRadius {
		return systems.Source{}, false
	}
	a.CarryingFood = true
	a.Exploring = false
	a.FoodCollected++
	return src, true
}

// CancelPickup undoes CheckForFood when the source ran out before the
// withdrawal could be applied.
func (a *Agent) CancelPickup() {
	a.CarryingFood = false
	a.Exploring = true
	if a.FoodCollected > 0 {
		a.FoodCollected--
	}
}

// DeliverFood drops the food at the nest and returns the recorded path points far
// enough from the nest to be worth marking.
func (a *Agent) DeliverFood() []components.Position {
	a.CarryingFood = false
	a.Exploring = true

	minDist := 2 * a.rules.NestRadius
	var marks []components.Position
	for _, p := range a.ReturnPath {
		if systems.Distance(p, a.rules.Nest) > minDist {
			marks = append(marks, p)
		}
	}
	a.ReturnPath = a.ReturnPath[:0]
	return marks
}

// Mutate perturbs at most one trait. Returns true if a trait changed.
func (a *Agent) Mutate(rng *rand.Rand) bool {
	g := a.rules.Genetics
	if rng.Float64() >= g.MutationRate {
		return false
	}

	t := a.Traits
	switch rng.Intn(3) {
	case 0:
		t.Speed += uniform(rng, g.SpeedOffset) * g.MutationForce
	case 1:
		t.SenseRange += uniform(rng, g.SenseOffset) * g.MutationForce
	case 2:
		t.PheromoneStrength += uniform(rng, g.StrengthOffset) * g.MutationForce
	}
	a.Traits = a.rules.clampTraits(a.Variant, t)
	return true
}

// ComputeFitness scores the agent for the generation that just ended and stores
// the result in Fitness.
func (a *Agent) ComputeFitness() float64 {
	f := a.rules.Fitness
	if a.FoodCollected == 0 {
		a.Fitness = f.Floor
		return a.Fitness
	}

	base := a.rules.Baseline
	efficiency := float64(a.FoodCollected) / float64(max(1, a.StepsTaken))
	a.Fitness = efficiency*f.EfficiencyWeight +
		a.Traits.Speed/base.Speed*f.SpeedWeight +
		a.Traits.SenseRange/base.SenseRange*f.SenseWeight +
		a.Traits.PheromoneStrength/base.PheromoneStrength*f.StrengthWeight
	return a.Fitness
}

// resetGeneration clears the per-generation state. Position and traits are kept.
func (a *Agent) resetGeneration() {
	a.FoodCollected = 0
	a.StepsTaken = 0
	a.ReturnPath = a.ReturnPath[:0]
	a.CarryingFood = false
	a.Exploring = true
}

// uniform returns a value drawn from U(-spread, spread).
func uniform(rng *rand.Rand, spread float64) float64 {
	return (rng.Float64()*2 - 1) * spread
}
