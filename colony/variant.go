// Package colony holds the ant agents and the generational genetic algorithm that
// reshapes the forager population.
package colony

import (
	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/config"
)

// Variant tags an agent as a forager or a scout. Both share all behaviour;
// they differ only in their trait table and in how they are displayed.
type Variant uint8

const (
	Forager Variant = iota
	Scout
	numVariants
)

// String returns the display tag for the variant.
func (v Variant) String() string {
	switch v {
	case Forager:
		return "forager"
	case Scout:
		return "scout"
	default:
		return "unknown"
	}
}

// Traits are the heritable values of an agent.
type Traits struct {
	Speed             float64 `json:"speed" csv:"speed"`
	SenseRange        float64 `json:"sense_range" csv:"sense_range"`
	PheromoneStrength float64 `json:"pheromone_strength" csv:"pheromone_strength"`
}

// Rules holds the constants every agent and the colony read.
// Built once at construction and never mutated.
type Rules struct {
	ArenaW, ArenaH float64
	Nest           components.Position
	NestRadius     float64
	PickupRadius   float64

	Variants [numVariants]config.VariantConfig
	Genetics config.GeneticsConfig
	Fitness  config.FitnessConfig

	// Fitness bonuses are relative to the forager defaults, not runtime averages
	Baseline Traits
}

// NewRules builds the shared rule table from a loaded configuration.
func NewRules(cfg *config.Config) *Rules {
	r := &Rules{
		ArenaW:       cfg.Derived.ArenaW,
		ArenaH:       cfg.Derived.ArenaH,
		Nest:         components.Position{X: cfg.Derived.NestX, Y: cfg.Derived.NestY},
		NestRadius:   cfg.Colony.Radius,
		PickupRadius: cfg.Food.PickupRadius,
		Genetics:     cfg.Genetics,
		Fitness:      cfg.Fitness,
	}
	r.Variants[Forager] = cfg.Variants.Forager
	r.Variants[Scout] = cfg.Variants.Scout
	r.Baseline = Traits{
		Speed:             cfg.Variants.Forager.Speed.Init,
		SenseRange:        cfg.Variants.Forager.Sense.Init,
		PheromoneStrength: cfg.Variants.Forager.Strength.Init,
	}
	return r
}

// clampTraits restricts every trait to the variant's bounds.
func (r *Rules) clampTraits(v Variant, t Traits) Traits {
	vc := r.Variants[v]
	return Traits{
		Speed:             vc.Speed.Clamp(t.Speed),
		SenseRange:        vc.Sense.Clamp(t.SenseRange),
		PheromoneStrength: vc.Strength.Clamp(t.PheromoneStrength),
	}
}
