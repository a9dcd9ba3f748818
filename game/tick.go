package game

import (
	"github.com/pthm-cable/antcolony/colony"
	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/telemetry"
)

// Tick advances the simulation by one step: agents act, evolution is checked,
// then pheromones decay.
func (e *Environment) Tick() {
	e.perf.StartTick()

	e.perf.StartPhase(telemetry.PhaseJitter)
	n := e.colony.Len()
	e.drawJitter(n)

	e.perf.StartPhase(telemetry.PhaseStep)
	if cap(e.results) < n {
		e.results = make([]colony.StepResult, n)
	}
	e.results = e.results[:n]
	if n < e.cfg.Simulation.ParallelThreshold || e.parallel.numWorkers < 2 {
		e.computeChunk(0, n)
	} else {
		e.computeParallel(n)
	}

	e.perf.StartPhase(telemetry.PhaseApply)
	e.applyResults()

	e.perf.StartPhase(telemetry.PhaseEvolve)
	if e.sinceEvolution >= e.cfg.Genetics.DeliveryThreshold {
		e.evolve()
	}

	e.perf.StartPhase(telemetry.PhaseDecay)
	e.collector.RecordPruned(e.pheromones.Decay(e.cfg.Pheromone.DecayRate))

	e.tick++
	e.perf.EndTick()
}

// drawJitter draws every agent's exploration vector up front, in population
// order, so the random sequence does not depend on how the step phase is split.
func (e *Environment) drawJitter(n int) {
	if cap(e.jitter) < n {
		e.jitter = make([]components.Position, n)
	}
	e.jitter = e.jitter[:n]

	spread := e.cfg.Agent.ExplorationJitter
	for i := range e.jitter {
		e.jitter[i] = components.Position{
			X: (e.rng.Float64()*2 - 1) * spread,
			Y: (e.rng.Float64()*2 - 1) * spread,
		}
	}
}

// computeChunk steps agents [i0, i1). Fields are only read here.
func (e *Environment) computeChunk(i0, i1 int) {
	for i := i0; i < i1; i++ {
		e.results[i] = e.colony.At(i).Step(e.view, e.jitter[i])
	}
}

// applyResults writes the buffered field effects in population order.
func (e *Environment) applyResults() {
	for i := range e.results {
		res := &e.results[i]

		cancelled := false
		if res.PickedUp {
			if !e.food.Contains(res.Source) {
				// Emptied by an agent earlier in this pass; a same-step delivery goes with it
				e.colony.At(i).CancelPickup()
				e.collector.RecordStalePickup()
				cancelled = true
			} else {
				left := e.food.WithdrawOne(res.Source)
				e.collector.RecordPickup(!left)
			}
		}

		if res.Delivered && !cancelled {
			for _, p := range res.Deposits {
				e.pheromones.Add(p, res.Strength)
			}
			e.colony.RecordDelivery()
			e.totalFood++
			e.sinceEvolution++
			e.collector.RecordDelivery(len(res.Deposits))
		}

		*res = colony.StepResult{}
	}
}

// evolve replaces the forager generation and reports it.
func (e *Environment) evolve() {
	res := e.colony.Evolve(e.rng)
	e.sinceEvolution = 0

	stats := e.collector.Flush(e.tick, res, telemetry.FieldTotals{
		TotalFood:     e.totalFood,
		FoodRemaining: e.food.TotalStock(),
		Sources:       e.food.Len(),
		Pheromones:    e.pheromones.Len(),
	})
	e.lastGen = &stats

	if e.onGen != nil {
		e.perf.StartPhase(telemetry.PhaseTelemetry)
		e.onGen(stats, res)
	}
}
