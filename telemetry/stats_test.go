package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/antcolony/colony"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestMeanStd(t *testing.T) {
	mean, std := MeanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if math.Abs(mean-5) > 1e-9 || math.Abs(std-2) > 1e-9 {
		t.Errorf("MeanStd = %v, %v; want 5, 2", mean, std)
	}
	if mean, std := MeanStd(nil); mean != 0 || std != 0 {
		t.Errorf("MeanStd(nil) = %v, %v", mean, std)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(100)
	c.RecordPickup(false)
	c.RecordPickup(true)
	c.RecordStalePickup()
	c.RecordDelivery(4)
	c.RecordDelivery(0)
	c.RecordPruned(3)

	if c.Deliveries() != 2 {
		t.Errorf("Deliveries = %d, want 2", c.Deliveries())
	}

	res := colony.GenerationResult{
		Generation: 2,
		EliteCount: 1,
		Children:   2,
		Mutations:  1,
		Ranked: []colony.Scored{
			{ID: 1, Fitness: 0.9, FoodCollected: 2, Traits: colony.Traits{Speed: 4, SenseRange: 60, PheromoneStrength: 1}},
			{ID: 2, Fitness: 0.3, FoodCollected: 1, Traits: colony.Traits{Speed: 2, SenseRange: 40, PheromoneStrength: 1}},
			{ID: 3, Fitness: 0.1, Traits: colony.Traits{Speed: 3, SenseRange: 50, PheromoneStrength: 1}},
		},
	}
	s := c.Flush(250, res, FieldTotals{TotalFood: 20, FoodRemaining: 580, Sources: 39, Pheromones: 12})

	if s.Generation != 2 || s.Tick != 250 || s.Ticks != 150 {
		t.Errorf("timing = gen %d tick %d ticks %d", s.Generation, s.Tick, s.Ticks)
	}
	if s.Deliveries != 2 || s.Pickups != 2 || s.StalePickups != 1 || s.SourcesDepleted != 1 || s.DepositsLaid != 4 || s.DepositsPruned != 3 {
		t.Errorf("event counts wrong: %+v", s)
	}
	if s.Collectors != 2 {
		t.Errorf("Collectors = %d, want 2", s.Collectors)
	}
	if s.BestFitness != 0.9 || s.Best.Speed != 4 {
		t.Errorf("best = %v %+v", s.BestFitness, s.Best)
	}
	if math.Abs(s.MeanFitness-1.3/3) > 1e-9 || math.Abs(s.FitnessP50-0.3) > 1e-9 {
		t.Errorf("fitness mean/p50 = %v/%v", s.MeanFitness, s.FitnessP50)
	}
	if math.Abs(s.SpeedMean-3) > 1e-9 || math.Abs(s.SenseMean-50) > 1e-9 || s.StrengthStd != 0 {
		t.Errorf("trait stats = %v %v %v", s.SpeedMean, s.SenseMean, s.StrengthStd)
	}

	next := c.Flush(400, colony.GenerationResult{Generation: 3}, FieldTotals{})
	if next.Deliveries != 0 || next.Pickups != 0 || next.Ticks != 150 {
		t.Errorf("collector not reset: %+v", next)
	}
}
