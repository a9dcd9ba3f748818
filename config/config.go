// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Arena      ArenaConfig      `yaml:"arena"`
	Colony     ColonyConfig     `yaml:"colony"`
	Variants   VariantsConfig   `yaml:"variants"`
	Genetics   GeneticsConfig   `yaml:"genetics"`
	Fitness    FitnessConfig    `yaml:"fitness"`
	Pheromone  PheromoneConfig  `yaml:"pheromone"`
	Food       FoodConfig       `yaml:"food"`
	Agent      AgentConfig      `yaml:"agent"`
	Simulation SimulationConfig `yaml:"simulation"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Storage    StorageConfig    `yaml:"storage"`
	Server     ServerConfig     `yaml:"server"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	TargetFPS  int `yaml:"target_fps"`
	PanelWidth int `yaml:"panel_width"` // HUD side panel, drawn right of the arena
}

// ArenaConfig holds the simulated arena dimensions.
// Zero values fall back to the screen size.
type ArenaConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ColonyConfig holds nest and population parameters.
type ColonyConfig struct {
	Radius   float64 `yaml:"radius"`   // pickup radius for deliveries
	Foragers int     `yaml:"foragers"` // evolved population
	Scouts   int     `yaml:"scouts"`   // -1 = foragers/4
}

// TraitRange describes one heritable trait for one variant.
type TraitRange struct {
	Init   float64 `yaml:"init"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	Jitter float64 `yaml:"jitter"` // initial value drawn from init ± jitter
}

// Clamp restricts v to [Min, Max].
func (r TraitRange) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// VariantConfig holds the trait table for one agent variant.
type VariantConfig struct {
	Speed    TraitRange `yaml:"speed"`
	Sense    TraitRange `yaml:"sense"`
	Strength TraitRange `yaml:"strength"`
}

// VariantsConfig holds per-variant trait tables.
type VariantsConfig struct {
	Forager VariantConfig `yaml:"forager"`
	Scout   VariantConfig `yaml:"scout"`
}

// GeneticsConfig holds genetic algorithm parameters.
type GeneticsConfig struct {
	MutationRate      float64 `yaml:"mutation_rate"`      // probability a child mutates
	MutationForce     float64 `yaml:"mutation_force"`     // scale on the per-trait offsets
	SpeedOffset       float64 `yaml:"speed_offset"`       // speed += U(-x, x) * force
	SenseOffset       float64 `yaml:"sense_offset"`       // sense += U(-x, x) * force
	StrengthOffset    float64 `yaml:"strength_offset"`    // strength += U(-x, x) * force
	EliteFraction     float64 `yaml:"elite_fraction"`     // top share copied unchanged
	MinElite          int     `yaml:"min_elite"`          // floor on elite count
	TournamentSize    int     `yaml:"tournament_size"`    // distinct foragers per tournament
	CrossoverBias     float64 `yaml:"crossover_bias"`     // share inherited from the fitter parent
	DeliveryThreshold int     `yaml:"delivery_threshold"` // deliveries that trigger evolution
}

// FitnessConfig holds fitness weights. Weights must sum to 1.
type FitnessConfig struct {
	Floor            float64 `yaml:"floor"` // fitness of agents that collected nothing
	EfficiencyWeight float64 `yaml:"efficiency_weight"`
	SpeedWeight      float64 `yaml:"speed_weight"`
	SenseWeight      float64 `yaml:"sense_weight"`
	StrengthWeight   float64 `yaml:"strength_weight"`
}

// PheromoneConfig holds pheromone field parameters.
type PheromoneConfig struct {
	DecayRate         float64 `yaml:"decay_rate"`         // intensity multiplier per tick
	ActivityThreshold float64 `yaml:"activity_threshold"` // pruned at or below this
	BaseCapacity      float64 `yaml:"base_capacity"`      // intensity for strength 1
	GridCellSize      float64 `yaml:"grid_cell_size"`
}

// FoodConfig holds food field parameters.
type FoodConfig struct {
	Sources      int     `yaml:"sources"`
	Capacity     int     `yaml:"capacity"`      // initial stock per source
	Margin       float64 `yaml:"margin"`        // spawn distance from arena edges
	PickupRadius float64 `yaml:"pickup_radius"` // distance < radius picks up food
}

// AgentConfig holds shared agent behaviour constants.
type AgentConfig struct {
	ExplorationJitter float64 `yaml:"exploration_jitter"` // components drawn from U(-x, x)
}

// SimulationConfig holds orchestrator parameters.
type SimulationConfig struct {
	ParallelThreshold int `yaml:"parallel_threshold"` // agents needed before the worker pool is used
	Workers           int `yaml:"workers"`            // 0 = GOMAXPROCS
}

// TelemetryConfig holds telemetry and output parameters.
type TelemetryConfig struct {
	PerfWindow        int     `yaml:"perf_window"`        // ticks in the rolling perf window
	PerfFlushTicks    int     `yaml:"perf_flush_ticks"`   // ticks between perf CSV rows
	HallOfFameSize    int     `yaml:"hall_of_fame_size"`  // best forager genomes kept
	ConvergenceStdDev float64 `yaml:"convergence_stddev"` // speed std below this flags convergence
	SnapshotEvery     int     `yaml:"snapshot_every"`     // generations between snapshots, 0 = off
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Kind string `yaml:"kind"` // "", "memory", "sqlite", "postgres"
	DSN  string `yaml:"dsn"`  // sqlite path or postgres DSN
}

// ServerConfig holds the status server parameters.
type ServerConfig struct {
	Addr         string `yaml:"addr"`          // empty disables the server
	PublishEvery int    `yaml:"publish_every"` // ticks between published snapshots
}

// DerivedConfig holds values computed from other config values.
type DerivedConfig struct {
	ArenaW    float64
	ArenaH    float64
	ScreenW32 float32
	ScreenH32 float32
	NestX     float64
	NestY     float64
	Scouts    int
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	c.Derived.ArenaW = c.Arena.Width
	if c.Derived.ArenaW == 0 {
		c.Derived.ArenaW = float64(c.Screen.Width)
	}
	c.Derived.ArenaH = c.Arena.Height
	if c.Derived.ArenaH == 0 {
		c.Derived.ArenaH = float64(c.Screen.Height)
	}

	// Nest sits at the integer centre of the arena
	c.Derived.NestX = math.Floor(c.Derived.ArenaW / 2)
	c.Derived.NestY = math.Floor(c.Derived.ArenaH / 2)

	c.Derived.Scouts = c.Colony.Scouts
	if c.Derived.Scouts < 0 {
		c.Derived.Scouts = c.Colony.Foragers / 4
	}
}

// Recompute refreshes derived values after fields were changed in code.
func (c *Config) Recompute() {
	c.computeDerived()
}

// Validate checks that the configuration can build a valid simulation.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Derived.ArenaW > 0 && c.Derived.ArenaH > 0, "arena must have positive size, got %gx%g", c.Derived.ArenaW, c.Derived.ArenaH)
	check(c.Colony.Radius > 0, "colony.radius must be positive")
	check(c.Colony.Foragers >= 0, "colony.foragers must not be negative")

	for _, v := range []struct {
		name string
		vc   VariantConfig
	}{{"forager", c.Variants.Forager}, {"scout", c.Variants.Scout}} {
		for _, t := range []struct {
			name string
			r    TraitRange
		}{{"speed", v.vc.Speed}, {"sense", v.vc.Sense}, {"strength", v.vc.Strength}} {
			check(t.r.Min <= t.r.Max, "variants.%s.%s: min %g > max %g", v.name, t.name, t.r.Min, t.r.Max)
			check(t.r.Init >= t.r.Min && t.r.Init <= t.r.Max, "variants.%s.%s: init %g outside [%g, %g]", v.name, t.name, t.r.Init, t.r.Min, t.r.Max)
			check(t.r.Jitter >= 0, "variants.%s.%s: jitter must not be negative", v.name, t.name)
		}
	}
	// Fitness bonuses divide by forager defaults
	check(c.Variants.Forager.Speed.Init > 0 && c.Variants.Forager.Sense.Init > 0 && c.Variants.Forager.Strength.Init > 0,
		"forager trait defaults must be positive")

	g := c.Genetics
	check(g.MutationRate >= 0 && g.MutationRate <= 1, "genetics.mutation_rate must be in [0, 1]")
	check(g.EliteFraction >= 0 && g.EliteFraction <= 1, "genetics.elite_fraction must be in [0, 1]")
	check(g.MinElite >= 2, "genetics.min_elite must be at least 2")
	check(g.TournamentSize >= 1, "genetics.tournament_size must be at least 1")
	check(g.CrossoverBias >= 0.5 && g.CrossoverBias <= 1, "genetics.crossover_bias must be in [0.5, 1]")
	check(g.DeliveryThreshold >= 1, "genetics.delivery_threshold must be at least 1")

	f := c.Fitness
	sum := f.EfficiencyWeight + f.SpeedWeight + f.SenseWeight + f.StrengthWeight
	check(math.Abs(sum-1) < 1e-9, "fitness weights must sum to 1, got %g", sum)
	check(f.Floor >= 0, "fitness.floor must not be negative")

	p := c.Pheromone
	check(p.DecayRate >= 0 && p.DecayRate < 1, "pheromone.decay_rate must be in [0, 1)")
	check(p.ActivityThreshold >= 0, "pheromone.activity_threshold must not be negative")
	check(p.BaseCapacity > 0, "pheromone.base_capacity must be positive")
	check(p.GridCellSize > 0, "pheromone.grid_cell_size must be positive")

	fd := c.Food
	check(fd.Sources >= 0, "food.sources must not be negative")
	check(fd.Capacity >= 1, "food.capacity must be at least 1")
	check(fd.PickupRadius > 0, "food.pickup_radius must be positive")
	check(2*fd.Margin <= c.Derived.ArenaW && 2*fd.Margin <= c.Derived.ArenaH, "food.margin %g does not fit the arena", fd.Margin)

	check(c.Agent.ExplorationJitter >= 0, "agent.exploration_jitter must not be negative")
	check(c.Simulation.ParallelThreshold >= 0, "simulation.parallel_threshold must not be negative")
	check(c.Simulation.Workers >= 0, "simulation.workers must not be negative")
	check(c.Server.PublishEvery >= 1, "server.publish_every must be at least 1")

	return errors.Join(errs...)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
