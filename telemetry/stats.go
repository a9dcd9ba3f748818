package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/antcolony/colony"
)

// GenerationStats summarises one finished generation. It is one row of
// generations.csv and the record persisted by the storage backends.
type GenerationStats struct {
	Generation int   `csv:"generation" json:"generation"`
	Tick       int64 `csv:"tick" json:"tick"`
	Ticks      int64 `csv:"ticks" json:"ticks"` // ticks the generation lasted

	// Events during the generation
	Deliveries      int `csv:"deliveries" json:"deliveries"`
	Pickups         int `csv:"pickups" json:"pickups"`
	StalePickups    int `csv:"stale_pickups" json:"stale_pickups"`
	SourcesDepleted int `csv:"sources_depleted" json:"sources_depleted"`
	DepositsLaid    int `csv:"deposits_laid" json:"deposits_laid"`
	DepositsPruned  int `csv:"deposits_pruned" json:"deposits_pruned"`

	// World state when the generation ended
	TotalFood     int `csv:"total_food" json:"total_food"`
	FoodRemaining int `csv:"food_remaining" json:"food_remaining"`
	Sources       int `csv:"sources" json:"sources"`
	Pheromones    int `csv:"pheromones" json:"pheromones"`

	// Selection
	EliteCount int `csv:"elite" json:"elite"`
	Children   int `csv:"children" json:"children"`
	Mutations  int `csv:"mutations" json:"mutations"`
	Collectors int `csv:"collectors" json:"collectors"` // foragers that collected anything

	// Fitness distribution
	BestFitness float64 `csv:"best_fitness" json:"best_fitness"`
	MeanFitness float64 `csv:"mean_fitness" json:"mean_fitness"`
	FitnessP50  float64 `csv:"fitness_p50" json:"fitness_p50"`

	// Forager genome distribution before selection
	SpeedMean    float64 `csv:"speed_mean" json:"speed_mean"`
	SpeedStd     float64 `csv:"speed_std" json:"speed_std"`
	SenseMean    float64 `csv:"sense_mean" json:"sense_mean"`
	SenseStd     float64 `csv:"sense_std" json:"sense_std"`
	StrengthMean float64 `csv:"strength_mean" json:"strength_mean"`
	StrengthStd  float64 `csv:"strength_std" json:"strength_std"`

	Best colony.Traits `csv:"-" json:"best_traits"`
}

// Percentile calculates the p-th percentile of a sorted slice with linear
// interpolation. p is in [0, 1]. Returns 0 for an empty slice.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// MeanStd returns the population mean and standard deviation of values.
func MeanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return stat.PopMeanStdDev(values, nil)
}

// fillRanked computes the fitness and trait distributions of a ranked generation.
func (s *GenerationStats) fillRanked(ranked []colony.Scored) {
	n := len(ranked)
	if n == 0 {
		return
	}

	fitness := make([]float64, n)
	speed := make([]float64, n)
	sense := make([]float64, n)
	strength := make([]float64, n)
	for i, r := range ranked {
		fitness[i] = r.Fitness
		speed[i] = r.Traits.Speed
		sense[i] = r.Traits.SenseRange
		strength[i] = r.Traits.PheromoneStrength
		if r.FoodCollected > 0 {
			s.Collectors++
		}
	}

	s.Best = ranked[0].Traits
	s.BestFitness = ranked[0].Fitness
	s.MeanFitness = stat.Mean(fitness, nil)
	sort.Float64s(fitness)
	s.FitnessP50 = Percentile(fitness, 0.5)

	s.SpeedMean, s.SpeedStd = MeanStd(speed)
	s.SenseMean, s.SenseStd = MeanStd(sense)
	s.StrengthMean, s.StrengthStd = MeanStd(strength)
}

// LogValue implements slog.LogValuer.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int64("tick", s.Tick),
		slog.Int64("ticks", s.Ticks),
		slog.Int("deliveries", s.Deliveries),
		slog.Int("pickups", s.Pickups),
		slog.Int("stale_pickups", s.StalePickups),
		slog.Int("sources_depleted", s.SourcesDepleted),
		slog.Int("deposits_laid", s.DepositsLaid),
		slog.Int("deposits_pruned", s.DepositsPruned),
		slog.Int("total_food", s.TotalFood),
		slog.Int("food_remaining", s.FoodRemaining),
		slog.Int("sources", s.Sources),
		slog.Int("pheromones", s.Pheromones),
		slog.Int("elite", s.EliteCount),
		slog.Int("children", s.Children),
		slog.Int("mutations", s.Mutations),
		slog.Int("collectors", s.Collectors),
		slog.Float64("best_fitness", s.BestFitness),
		slog.Float64("mean_fitness", s.MeanFitness),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("sense_mean", s.SenseMean),
		slog.Float64("strength_mean", s.StrengthMean),
	)
}

// LogStats logs the generation summary at info level.
func (s GenerationStats) LogStats() {
	slog.Info("generation",
		"generation", s.Generation,
		"tick", s.Tick,
		"ticks", s.Ticks,
		"deliveries", s.Deliveries,
		"total_food", s.TotalFood,
		"food_remaining", s.FoodRemaining,
		"sources", s.Sources,
		"pheromones", s.Pheromones,
		"collectors", s.Collectors,
		"mutations", s.Mutations,
		"best_fitness", s.BestFitness,
		"mean_fitness", s.MeanFitness,
		"speed_mean", s.SpeedMean,
		"speed_std", s.SpeedStd,
		"sense_mean", s.SenseMean,
		"strength_mean", s.StrengthMean,
	)
}
