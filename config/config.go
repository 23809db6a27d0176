// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Colony    ColonyConfig    `yaml:"colony"`
	Pheromone PheromoneConfig `yaml:"pheromone"`
	Water     WaterConfig     `yaml:"water"`
	Movement  MovementConfig  `yaml:"movement"`
	Dig       DigConfig       `yaml:"dig"`
	Combat    CombatConfig    `yaml:"combat"`
	Lifecycle LifecycleConfig `yaml:"lifecycle"`
	Food      FoodConfig      `yaml:"food"`
	Aphid     AphidConfig     `yaml:"aphid"`
	Hazard    HazardConfig    `yaml:"hazard"`
	Drowning  DrowningConfig  `yaml:"drowning"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// WorldConfig holds grid dimensions and the spatial index cell size.
type WorldConfig struct {
	Width           int `yaml:"width"`
	Height          int `yaml:"height"`
	SpatialCellSize int `yaml:"spatial_cell_size"`
	WaterSources    int `yaml:"water_sources"`
}

// ColonyConfig holds colony seeding parameters.
type ColonyConfig struct {
	Count          int    `yaml:"count"`
	MinSeparation  int    `yaml:"min_separation"` // Manhattan distance between nests
	InitialWorkers int    `yaml:"initial_workers"`
	InitialFood    uint32 `yaml:"initial_food"`
}

// PheromoneConfig holds the diffusion field constants.
type PheromoneConfig struct {
	MaxStrength   float32 `yaml:"max_strength"`
	DecayFood     float32 `yaml:"decay_food"`
	DecayHome     float32 `yaml:"decay_home"`
	DecayDanger   float32 `yaml:"decay_danger"`
	SnapToZero    float32 `yaml:"snap_to_zero"`
	DiffusionRate float32 `yaml:"diffusion_rate"`

	DepositFood   float32 `yaml:"deposit_food"`
	DepositHome   float32 `yaml:"deposit_home"`
	DepositDanger float32 `yaml:"deposit_danger"`

	// Deposit shaping around the nest.
	HomeRadius    int `yaml:"home_radius"`     // home trail fades linearly to zero here
	DigHomeRadius int `yaml:"dig_home_radius"` // diggers lay half-strength home inside this
}

// WaterConfig holds the fluid grid constants.
type WaterConfig struct {
	MaxDepth           uint8   `yaml:"max_depth"`
	PassableThreshold  uint8   `yaml:"passable_threshold"`
	DangerousThreshold uint8   `yaml:"dangerous_threshold"`
	EvaporationDepth   uint8   `yaml:"evaporation_depth"`
	StagnantTicks      uint16  `yaml:"stagnant_ticks"`
	RainChance         uint32  `yaml:"rain_chance"` // 1-in-N per tick
	RainIntensityMin   uint8   `yaml:"rain_intensity_min"`
	RainIntensityMax   uint8   `yaml:"rain_intensity_max"`
	RainDurationMin    uint32  `yaml:"rain_duration_min"`
	RainDurationMax    uint32  `yaml:"rain_duration_max"`
	RainCoverageMin    float32 `yaml:"rain_coverage_min"`
	RainCoverageMax    float32 `yaml:"rain_coverage_max"`
}

// MovementConfig holds the per-tick movement byte-rolls (out of 256).
type MovementConfig struct {
	QueenMoveChance uint8   `yaml:"queen_move_chance"`
	IdleMoveChance  uint8   `yaml:"idle_move_chance"`
	FollowThreshold float32 `yaml:"follow_threshold"` // min food pheromone to start following
}

// DigConfig holds excavation rolls and the worker state machine rolls.
type DigConfig struct {
	DigChance         uint8 `yaml:"dig_chance"`         // excavate per tick while Digging
	ReinforceChance   uint8 `yaml:"reinforce_chance"`   // neighbor hardens to dense soil
	StartChance       uint8 `yaml:"start_chance"`       // Wandering -> Digging next to diggable
	StopUnderground   uint8 `yaml:"stop_underground"`   // Digging -> Returning below surface
	StopSurface       uint8 `yaml:"stop_surface"`       // Digging -> Returning at surface
	DistractionChance uint8 `yaml:"distraction_chance"` // Returning -> Digging
	IdleWanderChance  uint8 `yaml:"idle_wander_chance"` // Idle -> Wandering
}

// CombatConfig holds the fight cadence and damage model.
type CombatConfig struct {
	Interval        uint64  `yaml:"interval"`
	DamageRoll      uint8   `yaml:"damage_roll"`   // random damage range added per hit
	DamageOffset    uint8   `yaml:"damage_offset"` // subtracted from every damage roll
	SoldierDamage   uint8   `yaml:"soldier_damage"`
	WorkerDamage    uint8   `yaml:"worker_damage"`
	OtherDamage     uint8   `yaml:"other_damage"`
	WorkerStrength  uint8   `yaml:"worker_strength"`
	SoldierStrength uint8   `yaml:"soldier_strength"`
	DefaultStrength uint8   `yaml:"default_strength"`
	DefaultHealth   uint8   `yaml:"default_health"`
	DangerDeposit   float32 `yaml:"danger_deposit"`

	SoldierEngage    float32 `yaml:"soldier_engage"`    // danger level that triggers Fighting
	SoldierDisengage float32 `yaml:"soldier_disengage"` // danger level that ends Fighting
	WorkerFlee       float32 `yaml:"worker_flee"`
	WorkerCalm       float32 `yaml:"worker_calm"`
}

// LifecycleConfig holds reproduction, maturation and upkeep timing.
type LifecycleConfig struct {
	LayInterval     uint64 `yaml:"lay_interval"`
	LayCost         uint32 `yaml:"lay_cost"`
	HatchAge        uint32 `yaml:"hatch_age"`
	MatureAge       uint32 `yaml:"mature_age"`
	WorkerChance    uint8  `yaml:"worker_chance"` // byte-roll below this matures to Worker
	WorkerLifespan  uint32 `yaml:"worker_lifespan"`
	SoldierLifespan uint32 `yaml:"soldier_lifespan"`
	QueenLifespan   uint32 `yaml:"queen_lifespan"`
	ConsumeInterval uint64 `yaml:"consume_interval"`
	LarvaeAppetite  uint32 `yaml:"larvae_appetite"`
	AdultAppetite   uint32 `yaml:"adult_appetite"`
}

// FoodConfig holds surface food node parameters.
type FoodConfig struct {
	Sources         int    `yaml:"sources"`
	Amount          uint16 `yaml:"amount"`
	RegrowInterval  uint64 `yaml:"regrow_interval"`
	RegrowRate      uint8  `yaml:"regrow_rate"`
	PerPickup       uint8  `yaml:"per_pickup"`        // node stock removed per pickup
	CarryAmount     uint8  `yaml:"carry_amount"`      // food banked per deposit
	DepositDistance int    `yaml:"deposit_distance"`  // Manhattan distance to home
}

// AphidConfig holds the herding minigame parameters.
type AphidConfig struct {
	Count       int     `yaml:"count"`
	ClaimRange  int     `yaml:"claim_range"` // Manhattan
	FoodPerTick float64 `yaml:"food_per_tick"`
	MinDepth    int     `yaml:"min_depth"` // tiles below the surface
	MaxDepth    int     `yaml:"max_depth"`
}

// HazardConfig holds the cave-in model.
type HazardConfig struct {
	Interval   uint64 `yaml:"interval"`
	DenseBonus int    `yaml:"dense_bonus"` // support credit for dense soil
}

// DrowningConfig maps water depth to the submerged ticks an ant survives.
type DrowningConfig struct {
	Depth7    uint32 `yaml:"depth_7"`
	Depth6    uint32 `yaml:"depth_6"`
	Depth5    uint32 `yaml:"depth_5"`
	Depth4    uint32 `yaml:"depth_4"`
	FleeDepth uint8  `yaml:"flee_depth"` // depth at which mobile ants head home
}

// TelemetryConfig holds CSV output settings.
type TelemetryConfig struct {
	Enabled        bool   `yaml:"enabled"`
	OutputDir      string `yaml:"output_dir"`
	WindowTicks    uint64 `yaml:"window_ticks"`
	FlushEveryRows int    `yaml:"flush_every_rows"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
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
		// Unmarshal into the same struct: only fields present in the
		// file overwrite the defaults.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// maxColonies is the widest pheromone field the packed layout supports; the
// colony id doubles as a channel index.
const maxColonies = 8

// Validate rejects configurations no simulation can run on.
func (c *Config) Validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("config: world dimensions must be positive, got %dx%d", c.World.Width, c.World.Height)
	}
	if c.World.SpatialCellSize <= 0 {
		return fmt.Errorf("config: spatial_cell_size must be positive, got %d", c.World.SpatialCellSize)
	}
	if c.Colony.Count < 1 || c.Colony.Count > maxColonies {
		return fmt.Errorf("config: colony count must be 1..%d, got %d", maxColonies, c.Colony.Count)
	}
	if c.Water.RainIntensityMin > c.Water.RainIntensityMax {
		return fmt.Errorf("config: rain intensity range inverted: %d > %d", c.Water.RainIntensityMin, c.Water.RainIntensityMax)
	}
	if c.Water.RainDurationMin >= c.Water.RainDurationMax {
		return fmt.Errorf("config: rain duration range inverted: %d >= %d", c.Water.RainDurationMin, c.Water.RainDurationMax)
	}
	if c.Water.RainCoverageMin > c.Water.RainCoverageMax {
		return fmt.Errorf("config: rain coverage range inverted: %v > %v", c.Water.RainCoverageMin, c.Water.RainCoverageMax)
	}
	if c.Water.RainChance == 0 {
		return fmt.Errorf("config: rain_chance must be positive")
	}
	if c.Water.MaxDepth == 0 {
		return fmt.Errorf("config: water max_depth must be positive")
	}
	if c.Pheromone.MaxStrength <= 0 {
		return fmt.Errorf("config: pheromone max_strength must be positive")
	}
	if c.Combat.Interval == 0 || c.Lifecycle.ConsumeInterval == 0 || c.Hazard.Interval == 0 {
		return fmt.Errorf("config: tick intervals must be positive")
	}
	return nil
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
