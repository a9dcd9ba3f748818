package colony

import (
	"math/rand"
	"sort"
)

// Colony owns both agent populations and evolves the foragers between generations.
// Scouts keep their initial traits for the whole run.
type Colony struct {
	Foragers []*Agent
	Scouts   []*Agent

	FoodCollected int
	Generation    int

	rules    *Rules
	nextID   uint32
	selector TournamentSelector
}

// Scored is one forager's record at the end of a generation.
type Scored struct {
	ID            uint32
	Traits        Traits
	Fitness       float64
	FoodCollected int
	StepsTaken    int
}

// GenerationResult describes a finished generation, ranked by fitness before the reset.
type GenerationResult struct {
	Generation int // the generation that was scored
	Ranked     []Scored
	EliteCount int
	Children   int
	Mutations  int
}

// New creates a colony with the given population sizes, all agents at the nest.
// Foragers are drawn before scouts.
func New(rules *Rules, foragers, scouts int, rng *rand.Rand) *Colony {
	c := &Colony{
		Foragers:   make([]*Agent, 0, foragers),
		Scouts:     make([]*Agent, 0, scouts),
		Generation: 1,
		rules:      rules,
		selector:   TournamentSelector{Size: rules.Genetics.TournamentSize},
	}
	for i := 0; i < foragers; i++ {
		c.Foragers = append(c.Foragers, NewAgent(c.newID(), Forager, rules, rng))
	}
	for i := 0; i < scouts; i++ {
		c.Scouts = append(c.Scouts, NewAgent(c.newID(), Scout, rules, rng))
	}
	return c
}

// Rules returns the colony's rule table.
func (c *Colony) Rules() *Rules {
	return c.rules
}

// Len returns the total number of agents.
func (c *Colony) Len() int {
	return len(c.Foragers) + len(c.Scouts)
}

// At returns the i-th agent in population order: foragers first, then scouts.
func (c *Colony) At(i int) *Agent {
	if i < len(c.Foragers) {
		return c.Foragers[i]
	}
	return c.Scouts[i-len(c.Foragers)]
}

// RecordDelivery counts one unit of food brought home.
func (c *Colony) RecordDelivery() {
	c.FoodCollected++
}

// Evolve replaces the forager population with the next generation.
func (c *Colony) Evolve(rng *rand.Rand) GenerationResult {
	n := len(c.Foragers)

	for _, a := range c.Foragers {
		a.ComputeFitness()
	}
	sort.SliceStable(c.Foragers, func(i, j int) bool {
		return c.Foragers[i].Fitness > c.Foragers[j].Fitness
	})

	res := GenerationResult{
		Generation: c.Generation,
		Ranked:     make([]Scored, n),
	}
	for i, a := range c.Foragers {
		res.Ranked[i] = Scored{
			ID:            a.ID,
			Traits:        a.Traits,
			Fitness:       a.Fitness,
			FoodCollected: a.FoodCollected,
			StepsTaken:    a.StepsTaken,
		}
	}

	if n > 0 {
		g := c.rules.Genetics
		elite := eliteCount(n, g.EliteFraction, g.MinElite)
		res.EliteCount = elite

		next := make([]*Agent, 0, n)
		next = append(next, c.Foragers[:elite]...)
		for len(next) < n {
			p1 := c.selector.Select(rng, c.Foragers)
			p2 := c.selector.Select(rng, c.Foragers)
			child := Crossover(c.newID(), p1, p2)
			if child.Mutate(rng) {
				res.Mutations++
			}
			next = append(next, child)
			res.Children++
		}
		c.Foragers = next
	}

	// Elites reset too; their genome survives but their record starts over
	for _, a := range c.Foragers {
		a.resetGeneration()
	}
	c.Generation++
	return res
}

func (c *Colony) newID() uint32 {
	c.nextID++
	return c.nextID
}
