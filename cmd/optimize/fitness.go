package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/antcolony/colony"
	"github.com/pthm-cable/antcolony/config"
	"github.com/pthm-cable/antcolony/game"
	"github.com/pthm-cable/antcolony/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int64
	seeds      []int64
	baseConfig *config.Config

	// Best run tracking
	mu             sync.Mutex
	bestFitness    float64
	bestHallOfFame *telemetry.HallOfFame
	lastQuality    float64 // quality from most recent Evaluate call
	lastFood       float64 // mean food delivered in the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHallOfFame
}

// LastQuality returns the quality score and mean food from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() (quality, food float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality, fe.lastFood
}

// runResult holds the results from a single simulation run.
type runResult struct {
	totalFood   int
	generations []telemetry.GenerationStats
	hallOfFame  *telemetry.HallOfFame
	err         error
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness    float64
	quality    float64
	food       float64
	hallOfFame *telemetry.HallOfFame
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative food delivered, scaled up by run quality.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.configFor(x)

	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(cfg, s)
			if result.err != nil {
				// Invalid parameter sets score as badly as a run that delivered nothing
				results[idx] = seedResult{}
				return
			}
			quality := computeQuality(result.generations, cfg.Colony.Foragers)
			results[idx] = seedResult{
				fitness:    computeFitness(result.totalFood, quality),
				quality:    quality,
				food:       float64(result.totalFood),
				hallOfFame: result.hallOfFame,
			}
		}(i, seed)
	}
	wg.Wait()

	// Aggregate results
	var totalFitness, totalQuality, totalFood float64
	bestSeedFitness := math.Inf(1)
	var bestSeedHallOfFame *telemetry.HallOfFame

	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		totalFood += r.food
		if r.fitness < bestSeedFitness {
			bestSeedFitness = r.fitness
			bestSeedHallOfFame = r.hallOfFame
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestHallOfFame = bestSeedHallOfFame
	}
	fe.lastQuality = totalQuality / n
	fe.lastFood = totalFood / n
	fe.mu.Unlock()

	return avgFitness
}

// configFor copies the base config and applies x.
func (fe *FitnessEvaluator) configFor(x []float64) *config.Config {
	cfg := *fe.baseConfig
	fe.params.ApplyToConfig(&cfg, x)
	// Seeds already run in parallel
	cfg.Simulation.Workers = 1
	cfg.Recompute()
	return &cfg
}

// runSimulation executes a single headless run for maxTicks.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) *runResult {
	result := &runResult{hallOfFame: telemetry.NewHallOfFame(cfg.Telemetry.HallOfFameSize)}

	env, err := game.New(cfg, seed)
	if err != nil {
		result.err = err
		return result
	}
	defer env.Close()

	env.OnGeneration(func(stats telemetry.GenerationStats, res colony.GenerationResult) {
		result.generations = append(result.generations, stats)
		result.hallOfFame.ConsiderGeneration(res)
	})

	for env.TickCount() < fe.maxTicks {
		env.Tick()
	}

	result.totalFood = env.TotalFood()
	return result
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(food × (1.0 + 0.2 × quality))
func computeFitness(food int, quality float64) float64 {
	return -(float64(food) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightImprovement = 0.5
	qualityWeightCollectors  = 0.3
	qualityWeightPace        = 0.2

	qualityWarmupGenerations = 1 // skip the random founding generation
)

// computeQuality scores a run's evolution in [0, 1]: how much mean fitness
// improved, how many foragers contributed, and whether generations sped up.
func computeQuality(gens []telemetry.GenerationStats, foragers int) float64 {
	if len(gens) <= qualityWarmupGenerations || foragers == 0 {
		return 0
	}
	valid := gens[qualityWarmupGenerations:]
	first, last := valid[0], valid[len(valid)-1]

	// 1. Relative improvement of mean fitness
	improvement := 0.0
	if first.MeanFitness > 0 {
		improvement = clamp01((last.MeanFitness - first.MeanFitness) / first.MeanFitness)
	}

	// 2. Share of foragers that delivered anything
	var collectorSum float64
	for _, g := range valid {
		collectorSum += float64(g.Collectors) / float64(foragers)
	}
	collectors := clamp01(collectorSum / float64(len(valid)))

	// 3. Generations getting shorter
	pace := 0.0
	if first.Ticks > 0 && last.Ticks > 0 {
		pace = clamp01(1 - float64(last.Ticks)/float64(first.Ticks))
	}

	return clamp01(qualityWeightImprovement*improvement +
		qualityWeightCollectors*collectors +
		qualityWeightPace*pace)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
