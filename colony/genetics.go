package colony

import "math/rand"

// Crossover builds a child at the nest from two parents. The fitter parent
// contributes the crossover bias share of every trait; on equal fitness a is
// treated as the fitter one.
func Crossover(id uint32, a, b *Agent) *Agent {
	better, weaker := a, b
	if b.Fitness > a.Fitness {
		better, weaker = b, a
	}

	rules := a.rules
	w := rules.Genetics.CrossoverBias
	t := Traits{
		Speed:             better.Traits.Speed*w + weaker.Traits.Speed*(1-w),
		SenseRange:        better.Traits.SenseRange*w + weaker.Traits.SenseRange*(1-w),
		PheromoneStrength: better.Traits.PheromoneStrength*w + weaker.Traits.PheromoneStrength*(1-w),
	}
	return newAgentWithTraits(id, a.Variant, rules, rules.clampTraits(a.Variant, t))
}

// TournamentSelector picks parents by sampling distinct individuals and keeping
// the fittest.
type TournamentSelector struct {
	Size    int
	scratch []int
}

// Select samples min(Size, len(pop)) distinct agents uniformly and returns the
// one with the highest fitness. The earliest sampled wins ties.
func (s *TournamentSelector) Select(rng *rand.Rand, pop []*Agent) *Agent {
	n := len(pop)
	if n == 0 {
		return nil
	}
	k := min(max(s.Size, 1), n)

	if cap(s.scratch) < n {
		s.scratch = make([]int, n)
	}
	s.scratch = s.scratch[:n]
	for i := range s.scratch {
		s.scratch[i] = i
	}

	// Partial Fisher-Yates: the first k slots are a uniform sample without replacement
	var best *Agent
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		s.scratch[i], s.scratch[j] = s.scratch[j], s.scratch[i]

		cand := pop[s.scratch[i]]
		if best == nil || cand.Fitness > best.Fitness {
			best = cand
		}
	}
	return best
}

// eliteCount returns how many top-ranked individuals survive unchanged.
func eliteCount(n int, fraction float64, minElite int) int {
	return min(max(minElite, int(float64(n)*fraction)), n)
}
