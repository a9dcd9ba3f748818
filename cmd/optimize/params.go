package main

import (
	"math"

	"github.com/pthm-cable/antcolony/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Integer bool    // rounded before it is applied
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the genetic algorithm and pheromone parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Genetics
			{Name: "mutation_rate", Path: "genetics.mutation_rate", Min: 0.01, Max: 0.8, Default: 0.3},
			{Name: "mutation_force", Path: "genetics.mutation_force", Min: 0.2, Max: 5.0, Default: 2.5},
			{Name: "elite_fraction", Path: "genetics.elite_fraction", Min: 0.02, Max: 0.5, Default: 0.2},
			{Name: "tournament_size", Path: "genetics.tournament_size", Min: 2, Max: 12, Default: 5, Integer: true},
			{Name: "crossover_bias", Path: "genetics.crossover_bias", Min: 0.5, Max: 0.95, Default: 0.7},
			// Pheromone
			{Name: "decay_rate", Path: "pheromone.decay_rate", Min: 0.02, Max: 0.6, Default: 0.2},
			{Name: "base_capacity", Path: "pheromone.base_capacity", Min: 2, Max: 40, Default: 15},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp bounds every value and rounds integer parameters.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := min(max(v[i], spec.Min), spec.Max)
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)

	cfg.Genetics.MutationRate = c[0]
	cfg.Genetics.MutationForce = c[1]
	cfg.Genetics.EliteFraction = c[2]
	cfg.Genetics.TournamentSize = int(c[3])
	cfg.Genetics.CrossoverBias = c[4]
	cfg.Pheromone.DecayRate = c[5]
	cfg.Pheromone.BaseCapacity = c[6]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Genetics.MutationRate,
		cfg.Genetics.MutationForce,
		cfg.Genetics.EliteFraction,
		float64(cfg.Genetics.TournamentSize),
		cfg.Genetics.CrossoverBias,
		cfg.Pheromone.DecayRate,
		cfg.Pheromone.BaseCapacity,
	}
}
