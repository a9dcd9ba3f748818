package colony

import (
	"fmt"

	"github.com/pthm-cable/antcolony/components"
)

// AgentState is the serializable form of an agent.
type AgentState struct {
	ID            uint32                `json:"id"`
	Variant       Variant               `json:"variant"`
	Pos           components.Position   `json:"pos"`
	CarryingFood  bool                  `json:"carrying_food"`
	Exploring     bool                  `json:"exploring"`
	ReturnPath    []components.Position `json:"return_path,omitempty"`
	Traits        Traits                `json:"traits"`
	FoodCollected int                   `json:"food_collected"`
	StepsTaken    int                   `json:"steps_taken"`
	Fitness       float64               `json:"fitness"`
}

// State is the serializable form of a colony.
type State struct {
	Generation    int          `json:"generation"`
	FoodCollected int          `json:"food_collected"`
	NextID        uint32       `json:"next_id"`
	Foragers      []AgentState `json:"foragers"`
	Scouts        []AgentState `json:"scouts"`
}

// State returns a copy of the agent's state.
func (a *Agent) State() AgentState {
	s := AgentState{
		ID:            a.ID,
		Variant:       a.Variant,
		Pos:           a.Pos,
		CarryingFood:  a.CarryingFood,
		Exploring:     a.Exploring,
		Traits:        a.Traits,
		FoodCollected: a.FoodCollected,
		StepsTaken:    a.StepsTaken,
		Fitness:       a.Fitness,
	}
	if len(a.ReturnPath) > 0 {
		s.ReturnPath = append([]components.Position(nil), a.ReturnPath...)
	}
	return s
}

// State returns a copy of the colony's state.
func (c *Colony) State() State {
	s := State{
		Generation:    c.Generation,
		FoodCollected: c.FoodCollected,
		NextID:        c.nextID,
		Foragers:      make([]AgentState, len(c.Foragers)),
		Scouts:        make([]AgentState, len(c.Scouts)),
	}
	for i, a := range c.Foragers {
		s.Foragers[i] = a.State()
	}
	for i, a := range c.Scouts {
		s.Scouts[i] = a.State()
	}
	return s
}

// Restore rebuilds a colony from saved state. Positions and traits are clamped
// so a hand-edited snapshot still yields a valid colony.
func Restore(rules *Rules, s State) (*Colony, error) {
	if s.Generation < 1 {
		return nil, fmt.Errorf("restore colony: generation %d < 1", s.Generation)
	}
	c := &Colony{
		Foragers:      make([]*Agent, 0, len(s.Foragers)),
		Scouts:        make([]*Agent, 0, len(s.Scouts)),
		FoodCollected: s.FoodCollected,
		Generation:    s.Generation,
		rules:         rules,
		nextID:        s.NextID,
		selector:      TournamentSelector{Size: rules.Genetics.TournamentSize},
	}

	restore := func(as AgentState, want Variant) (*Agent, error) {
		if as.Variant != want {
			return nil, fmt.Errorf("restore colony: agent %d is a %s, expected %s", as.ID, as.Variant, want)
		}
		a := newAgentWithTraits(as.ID, as.Variant, rules, rules.clampTraits(as.Variant, as.Traits))
		a.Pos = components.Position{
			X: min(max(as.Pos.X, 0), rules.ArenaW),
			Y: min(max(as.Pos.Y, 0), rules.ArenaH),
		}
		a.CarryingFood = as.CarryingFood
		a.Exploring = as.Exploring
		a.ReturnPath = append(a.ReturnPath, as.ReturnPath...)
		a.FoodCollected = as.FoodCollected
		a.StepsTaken = as.StepsTaken
		a.Fitness = as.Fitness
		if as.ID > c.nextID {
			c.nextID = as.ID
		}
		return a, nil
	}

	for _, as := range s.Foragers {
		a, err := restore(as, Forager)
		if err != nil {
			return nil, err
		}
		c.Foragers = append(c.Foragers, a)
	}
	for _, as := range s.Scouts {
		a, err := restore(as, Scout)
		if err != nil {
			return nil, err
		}
		c.Scouts = append(c.Scouts, a)
	}
	return c, nil
}
