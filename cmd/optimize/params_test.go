package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/antcolony/config"
	"github.com/pthm-cable/antcolony/telemetry"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-9 {
			t.Errorf("%s: %v != %v", pv.Specs[i].Name, back[i], def[i])
		}
	}
}

func TestDefaultsMatchConfig(t *testing.T) {
	pv := NewParamVector()
	got := pv.ExtractFromConfig(config.Defaults())
	for i, spec := range pv.Specs {
		if math.Abs(got[i]-spec.Default) > 1e-9 {
			t.Errorf("%s default %v, config has %v", spec.Name, spec.Default, got[i])
		}
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Defaults()
	pv.ApplyToConfig(cfg, []float64{-1, 100, 0.1, 4.6, 2, 0.3, 10})
	cfg.Recompute()

	if cfg.Genetics.MutationRate != 0.01 || cfg.Genetics.MutationForce != 5.0 {
		t.Errorf("mutation not clamped: %v %v", cfg.Genetics.MutationRate, cfg.Genetics.MutationForce)
	}
	if cfg.Genetics.TournamentSize != 5 {
		t.Errorf("TournamentSize = %d, want rounded 5", cfg.Genetics.TournamentSize)
	}
	if cfg.Genetics.CrossoverBias != 0.95 {
		t.Errorf("CrossoverBias = %v, want 0.95", cfg.Genetics.CrossoverBias)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("clamped config invalid: %v", err)
	}
}

func TestComputeQuality(t *testing.T) {
	gens := []telemetry.GenerationStats{
		{Generation: 1, Ticks: 400, MeanFitness: 0.1, Collectors: 1},
		{Generation: 2, Ticks: 200, MeanFitness: 0.2, Collectors: 5},
		{Generation: 3, Ticks: 100, MeanFitness: 0.4, Collectors: 5},
	}
	// improvement 1, collectors 0.5, pace 0.5
	want := 0.5*1 + 0.3*0.5 + 0.2*0.5
	if got := computeQuality(gens, 10); math.Abs(got-want) > 1e-9 {
		t.Errorf("computeQuality = %v, want %v", got, want)
	}
	if got := computeQuality(gens[:1], 10); got != 0 {
		t.Errorf("warmup-only quality = %v, want 0", got)
	}
	if math.Abs(computeFitness(10, 1)+12) > 1e-9 {
		t.Errorf("computeFitness(10, 1) = %v", computeFitness(10, 1))
	}
}
