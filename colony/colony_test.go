package colony

import (
	"math"
	"math/rand"
	"testing"
)

func TestCrossover(t *testing.T) {
	rules := testRules(t)
	strong := newAgentWithTraits(1, Forager, rules, Traits{Speed: 5, SenseRange: 100, PheromoneStrength: 2})
	strong.Fitness = 10
	weak := newAgentWithTraits(2, Forager, rules, Traits{Speed: 1, SenseRange: 20, PheromoneStrength: 1})
	weak.Fitness = 2

	for _, tt := range []struct {
		name string
		a, b *Agent
	}{
		{"fitter first", strong, weak},
		{"fitter second", weak, strong},
	} {
		t.Run(tt.name, func(t *testing.T) {
			child := Crossover(99, tt.a, tt.b)
			if math.Abs(child.Traits.Speed-3.6) > 1e-9 {
				t.Errorf("speed = %v, want 3.6", child.Traits.Speed)
			}
			if math.Abs(child.Traits.SenseRange-76) > 1e-9 {
				t.Errorf("sense = %v, want 76", child.Traits.SenseRange)
			}
			if math.Abs(child.Traits.PheromoneStrength-1.7) > 1e-9 {
				t.Errorf("strength = %v, want 1.7", child.Traits.PheromoneStrength)
			}
			if child.ID != 99 || child.Pos != rules.Nest || child.FoodCollected != 0 || child.StepsTaken != 0 {
				t.Errorf("child state not fresh: %+v", child)
			}
		})
	}

	t.Run("tie favours first argument", func(t *testing.T) {
		a := newAgentWithTraits(1, Forager, rules, Traits{Speed: 10, SenseRange: 50, PheromoneStrength: 1})
		b := newAgentWithTraits(2, Forager, rules, Traits{Speed: 2, SenseRange: 50, PheromoneStrength: 1})
		a.Fitness, b.Fitness = 1, 1
		child := Crossover(3, a, b)
		if math.Abs(child.Traits.Speed-7.6) > 1e-9 {
			t.Errorf("speed = %v, want 7.6", child.Traits.Speed)
		}
	})

	t.Run("clamped", func(t *testing.T) {
		a := newAgentWithTraits(1, Forager, rules, Traits{Speed: 50, SenseRange: 500, PheromoneStrength: 50})
		b := newAgentWithTraits(2, Forager, rules, Traits{Speed: 50, SenseRange: 500, PheromoneStrength: 50})
		child := Crossover(3, a, b)
		checkTraits(t, rules, child)
	})
}

func TestTournamentSelect(t *testing.T) {
	rules := testRules(t)
	rng := rand.New(rand.NewSource(4))

	pop := make([]*Agent, 8)
	for i := range pop {
		pop[i] = newAgentWithTraits(uint32(i), Forager, rules, rules.Baseline)
		pop[i].Fitness = float64(i)
	}

	t.Run("whole population returns best", func(t *testing.T) {
		for _, size := range []int{8, 20} {
			sel := TournamentSelector{Size: size}
			for i := 0; i < 50; i++ {
				if got := sel.Select(rng, pop); got != pop[7] {
					t.Fatalf("size %d: got fitness %v, want 7", size, got.Fitness)
				}
			}
		}
	})

	t.Run("distinct sampling never picks the worst with size 2", func(t *testing.T) {
		sel := TournamentSelector{Size: 2}
		seen := map[uint32]bool{}
		for i := 0; i < 500; i++ {
			got := sel.Select(rng, pop)
			if got == pop[0] {
				t.Fatal("two distinct candidates cannot both be the worst")
			}
			seen[got.ID] = true
		}
		if len(seen) < 4 {
			t.Errorf("selection too narrow: %v", seen)
		}
	})

	t.Run("empty", func(t *testing.T) {
		sel := TournamentSelector{Size: 5}
		if got := sel.Select(rng, nil); got != nil {
			t.Errorf("got %v, want nil", got)
		}
	})
}

func TestEliteCount(t *testing.T) {
	tests := []struct {
		n    int
		frac float64
		want int
	}{
		{200, 0.2, 40},
		{10, 0.2, 2},
		{5, 0.2, 2},
		{1, 0.2, 1},
		{0, 0.2, 0},
		{9, 0.25, 2},
	}
	for _, tt := range tests {
		if got := eliteCount(tt.n, tt.frac, 2); got != tt.want {
			t.Errorf("eliteCount(%d, %v) = %d, want %d", tt.n, tt.frac, got, tt.want)
		}
	}
}

func seedPerformance(c *Colony, rng *rand.Rand) {
	for _, a := range c.Foragers {
		a.StepsTaken = 100 + rng.Intn(400)
		if rng.Float64() < 0.7 {
			a.FoodCollected = 1 + rng.Intn(10)
		}
		a.ReturnPath = append(a.ReturnPath, a.Pos)
		a.CarryingFood = rng.Intn(2) == 0
		a.Exploring = !a.CarryingFood
	}
}

func TestEvolve(t *testing.T) {
	rules := testRules(t)
	rng := rand.New(rand.NewSource(5))
	c := New(rules, 20, 5, rng)

	scoutTraits := make([]Traits, len(c.Scouts))
	for i, s := range c.Scouts {
		scoutTraits[i] = s.Traits
		s.FoodCollected = 4
	}

	for gen := 1; gen <= 5; gen++ {
		seedPerformance(c, rng)
		res := c.Evolve(rng)

		if res.Generation != gen {
			t.Errorf("result generation = %d, want %d", res.Generation, gen)
		}
		if c.Generation != gen+1 {
			t.Errorf("colony generation = %d, want %d", c.Generation, gen+1)
		}
		if len(c.Foragers) != 20 {
			t.Fatalf("population = %d, want 20", len(c.Foragers))
		}
		if res.EliteCount != 4 || res.Children != 16 {
			t.Errorf("elite = %d children = %d, want 4 and 16", res.EliteCount, res.Children)
		}

		for i := 1; i < len(res.Ranked); i++ {
			if res.Ranked[i].Fitness > res.Ranked[i-1].Fitness {
				t.Fatalf("ranking not descending at %d", i)
			}
		}
		for i := 0; i < res.EliteCount; i++ {
			elite := res.Ranked[i]
			if c.Foragers[i].ID != elite.ID || c.Foragers[i].Traits != elite.Traits {
				t.Errorf("elite %d changed: got id %d %v, want id %d %v",
					i, c.Foragers[i].ID, c.Foragers[i].Traits, elite.ID, elite.Traits)
			}
		}

		for _, a := range c.Foragers {
			checkTraits(t, rules, a)
			if a.FoodCollected != 0 || a.StepsTaken != 0 || len(a.ReturnPath) != 0 || a.CarryingFood || !a.Exploring {
				t.Fatalf("agent %d not reset: %+v", a.ID, a)
			}
		}
	}

	for i, s := range c.Scouts {
		if s.Traits != scoutTraits[i] {
			t.Errorf("scout %d traits changed", i)
		}
		if s.FoodCollected != 4 {
			t.Errorf("scout %d stats touched by evolution", i)
		}
	}
}

func TestEvolveSmallPopulations(t *testing.T) {
	rules := testRules(t)
	for _, n := range []int{0, 1, 2, 3} {
		rng := rand.New(rand.NewSource(int64(n)))
		c := New(rules, n, 0, rng)
		seedPerformance(c, rng)
		res := c.Evolve(rng)
		if len(c.Foragers) != n {
			t.Errorf("n=%d: population became %d", n, len(c.Foragers))
		}
		if res.EliteCount > n {
			t.Errorf("n=%d: elite count %d", n, res.EliteCount)
		}
		if c.Generation != 2 {
			t.Errorf("n=%d: generation = %d, want 2", n, c.Generation)
		}
	}
}

func TestEvolveDeterministic(t *testing.T) {
	rules := testRules(t)
	run := func() []Traits {
		rng := rand.New(rand.NewSource(42))
		c := New(rules, 30, 0, rng)
		for i := 0; i < 3; i++ {
			seedPerformance(c, rng)
			c.Evolve(rng)
		}
		out := make([]Traits, len(c.Foragers))
		for i, a := range c.Foragers {
			out[i] = a.Traits
		}
		return out
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("forager %d differs between runs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestStateRoundTrip(t *testing.T) {
	rules := testRules(t)
	rng := rand.New(rand.NewSource(6))
	c := New(rules, 6, 2, rng)
	seedPerformance(c, rng)
	c.FoodCollected = 17
	c.Evolve(rng)
	c.Foragers[0].ReturnPath = append(c.Foragers[0].ReturnPath, c.Foragers[0].Pos)

	restored, err := Restore(rules, c.State())
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.Generation != c.Generation || restored.FoodCollected != 17 {
		t.Errorf("counters = %d/%d, want %d/17", restored.Generation, restored.FoodCollected, c.Generation)
	}
	if restored.Len() != c.Len() {
		t.Fatalf("Len = %d, want %d", restored.Len(), c.Len())
	}
	for i := 0; i < c.Len(); i++ {
		want, got := c.At(i).State(), restored.At(i).State()
		if want.ID != got.ID || want.Traits != got.Traits || want.Pos != got.Pos || len(want.ReturnPath) != len(got.ReturnPath) {
			t.Errorf("agent %d: got %+v, want %+v", i, got, want)
		}
	}
	// New ids continue after the restored ones
	if id := restored.newID(); id <= c.nextID {
		t.Error("restored colony reuses agent ids")
	}

	bad := c.State()
	bad.Scouts[0].Variant = Forager
	if _, err := Restore(rules, bad); err == nil {
		t.Error("expected error for misfiled variant")
	}
}
