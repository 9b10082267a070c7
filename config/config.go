// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// PheromoneCeiling is the largest pheromone.max a grid cell can hold.
const PheromoneCeiling = 255

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Grid      GridConfig      `yaml:"grid"`
	Colony    ColonyConfig    `yaml:"colony"`
	Forage    ForageConfig    `yaml:"forage"`
	Pheromone PheromoneConfig `yaml:"pheromone"`
	Food      FoodConfig      `yaml:"food"`
	Terrain   TerrainConfig   `yaml:"terrain"`
	Parallel  ParallelConfig  `yaml:"parallel"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	CellSize   int `yaml:"cell_size"`   // Pixels per grid cell
	PanelWidth int `yaml:"panel_width"` // Control panel width in pixels
	TargetFPS  int `yaml:"target_fps"`
}

// GridConfig holds the torus dimensions.
type GridConfig struct {
	Cols int `yaml:"cols"`
	Rows int `yaml:"rows"`
}

// ColonyConfig holds the agent population and home cell.
type ColonyConfig struct {
	Agents int    `yaml:"agents"`
	Home   [2]int `yaml:"home"` // [-1, -1] = grid center
}

// ForageConfig holds agent decision parameters.
type ForageConfig struct {
	SearchBudget    int     `yaml:"search_budget"`    // Trail length that triggers a forced return
	InfluenceChance float64 `yaml:"influence_chance"` // Chance per search step to follow the strongest neighbour
	DepositCarrying float64 `yaml:"deposit_carrying"` // Deposit chance per retrace step with food
	DepositForced   float64 `yaml:"deposit_forced"`   // Deposit chance per retrace step without food
}

// PheromoneConfig holds trail intensity parameters.
type PheromoneConfig struct {
	Max         int     `yaml:"max"`          // Per-cell cap
	DecayChance float64 `yaml:"decay_chance"` // Per-cell chance per tick to lose one unit
}

// FoodConfig holds initial food placement.
type FoodConfig struct {
	Random  int      `yaml:"random"`  // Cells placed uniformly at random
	Cells   [][2]int `yaml:"cells"`   // Explicit cells
	Consume bool     `yaml:"consume"` // Clear a food cell when an agent picks it up
}

// TerrainConfig holds noise-generated obstacle parameters.
type TerrainConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Seed      int64   `yaml:"seed"`      // Noise seed; 0 follows the run seed
	Scale     float64 `yaml:"scale"`     // Noise frequency in cells
	Threshold float64 `yaml:"threshold"` // Normalized noise above this becomes obstacle
	Clearance int     `yaml:"clearance"` // Chebyshev radius kept open around home
}

// ParallelConfig holds agent pass parallelism.
type ParallelConfig struct {
	Workers int `yaml:"workers"` // 1 = sequential, 0 = GOMAXPROCS
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"`          // Ticks per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"` // Ticks averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	HomeX, HomeY int // Effective home cell
	Cells        int // Cols * Rows
	ScreenW      int // Grid width in pixels plus panel
	ScreenH      int // Grid height in pixels
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

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Parse(nil)
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return Parse(data)
}

// Parse overlays data on the embedded defaults, validates the result
// and computes derived values. Nil data yields the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if len(data) > 0 {
		// Unmarshal into same struct - only overwrites fields present in data
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

// Validate reports the first out-of-range parameter.
func (c *Config) Validate() error {
	if c.Grid.Cols < 1 || c.Grid.Rows < 1 {
		return fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", ErrInvalid, c.Grid.Cols, c.Grid.Rows)
	}
	if c.Colony.Agents < 0 {
		return fmt.Errorf("%w: colony.agents = %d", ErrInvalid, c.Colony.Agents)
	}
	hx, hy := c.Colony.Home[0], c.Colony.Home[1]
	if !(hx == -1 && hy == -1) && (hx < 0 || hy < 0 || hx >= c.Grid.Cols || hy >= c.Grid.Rows) {
		return fmt.Errorf("%w: colony.home (%d,%d) outside %dx%d grid", ErrInvalid, hx, hy, c.Grid.Cols, c.Grid.Rows)
	}
	if c.Forage.SearchBudget < 0 {
		return fmt.Errorf("%w: forage.search_budget = %d", ErrInvalid, c.Forage.SearchBudget)
	}
	if c.Pheromone.Max < 1 || c.Pheromone.Max > PheromoneCeiling {
		return fmt.Errorf("%w: pheromone.max = %d not in [1,%d]", ErrInvalid, c.Pheromone.Max, PheromoneCeiling)
	}
	if c.Food.Random < 0 {
		return fmt.Errorf("%w: food.random = %d", ErrInvalid, c.Food.Random)
	}
	probs := []struct {
		name string
		v    float64
	}{
		{"forage.influence_chance", c.Forage.InfluenceChance},
		{"forage.deposit_carrying", c.Forage.DepositCarrying},
		{"forage.deposit_forced", c.Forage.DepositForced},
		{"pheromone.decay_chance", c.Pheromone.DecayChance},
	}
	for _, p := range probs {
		if p.v < 0 || p.v > 1 {
			return fmt.Errorf("%w: %s = %v not in [0,1]", ErrInvalid, p.name, p.v)
		}
	}
	if c.Parallel.Workers < 0 {
		return fmt.Errorf("%w: parallel.workers = %d", ErrInvalid, c.Parallel.Workers)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.HomeX, c.Derived.HomeY = c.Colony.Home[0], c.Colony.Home[1]
	if c.Derived.HomeX == -1 && c.Derived.HomeY == -1 {
		c.Derived.HomeX = c.Grid.Cols / 2
		c.Derived.HomeY = c.Grid.Rows / 2
	}
	c.Derived.Cells = c.Grid.Cols * c.Grid.Rows
	c.Derived.ScreenW = c.Grid.Cols*c.Screen.CellSize + c.Screen.PanelWidth
	c.Derived.ScreenH = c.Grid.Rows * c.Screen.CellSize
}

// Refresh recomputes derived values after fields were changed in code.
func (c *Config) Refresh() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
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
