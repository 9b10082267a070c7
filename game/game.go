package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"runtime"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/formica/components"
	"github.com/pthm-cable/formica/config"
	"github.com/pthm-cable/formica/systems"
	"github.com/pthm-cable/formica/telemetry"
)

// Options configures game behavior beyond the YAML config.
type Options struct {
	Seed           int64
	LogStats       bool
	OutputDir      string
	Headless       bool
	StepsPerUpdate int // Simulation ticks per Update call (default 1)
	Workers        int // Agent pass workers; 0 = use config

	// StatsCallback, if set, receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	cfg *config.Config
	rng *rand.Rand

	world *ecs.World

	agentMapper *ecs.Map3[
		components.Position,
		components.Heading,
		components.Forager,
	]
	agentFilter *ecs.Filter3[
		components.Position,
		components.Heading,
		components.Forager,
	]

	grid      *systems.Grid
	syncGrid  *systems.SyncGrid
	pheromone *systems.PheromoneField
	forage    systems.ForageParams

	homeX, homeY int
	numAgents    int

	// Parallel agent pass (nil when sequential)
	parallel *parallelState

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	statsCallback func(telemetry.WindowStats)
	logStats      bool

	// State
	tick           int64
	paused         bool
	stepsPerUpdate int
	rngSeed        int64
	headless       bool
}

// New creates a simulation from cfg: it places terrain and food, then
// spawns every agent on the home cell.
func New(cfg *config.Config, opts Options) (*Game, error) {
	if err := cfg.Refresh(); err != nil {
		return nil, err
	}

	world := ecs.NewWorld()

	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}

	g := &Game{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(opts.Seed)),
		world: world,
		agentMapper: ecs.NewMap3[
			components.Position,
			components.Heading,
			components.Forager,
		](world),
		agentFilter: ecs.NewFilter3[
			components.Position,
			components.Heading,
			components.Forager,
		](world),
		homeX:          cfg.Derived.HomeX,
		homeY:          cfg.Derived.HomeY,
		forage:         forageParams(cfg),
		collector:      telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		statsCallback:  opts.StatsCallback,
		logStats:       opts.LogStats,
		stepsPerUpdate: stepsPerUpdate,
		rngSeed:        opts.Seed,
		headless:       opts.Headless,
	}

	g.grid = systems.NewGrid(cfg.Grid.Cols, cfg.Grid.Rows, cfg.Pheromone.Max)
	g.pheromone = systems.NewPheromoneField(g.grid, cfg.Pheromone.DecayChance)

	workers := opts.Workers
	if workers == 0 {
		workers = cfg.Parallel.Workers
	}
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > 1 {
		g.syncGrid = systems.NewSyncGrid(g.grid)
		g.parallel = newParallelState(workers)
	}

	g.setupWorld()
	g.spawnColony()

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	slog.Info("colony ready",
		"seed", opts.Seed,
		"grid", fmt.Sprintf("%dx%d", cfg.Grid.Cols, cfg.Grid.Rows),
		"agents", g.numAgents,
		"home_x", g.homeX,
		"home_y", g.homeY,
		"food_cells", g.grid.CountFood(),
		"workers", workers,
	)

	return g, nil
}

// forageParams maps config onto the agent decision constants.
func forageParams(cfg *config.Config) systems.ForageParams {
	return systems.ForageParams{
		SearchBudget:    cfg.Forage.SearchBudget,
		InfluenceChance: cfg.Forage.InfluenceChance,
		DepositCarrying: cfg.Forage.DepositCarrying,
		DepositForced:   cfg.Forage.DepositForced,
		ConsumeFood:     cfg.Food.Consume,
	}
}

// Close stops the worker pool and flushes output files.
func (g *Game) Close() error {
	if g.parallel != nil {
		g.parallel.stopWorkers()
	}
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			return fmt.Errorf("closing output: %w", err)
		}
		slog.Info("output closed", "dir", g.outputManager.Dir())
	}
	return nil
}

// Tick returns the number of completed steps.
func (g *Game) Tick() int64 {
	return g.tick
}

// Grid returns the grid for read access. Callers must not mutate
// layers directly; use the placement methods.
func (g *Game) Grid() *systems.Grid {
	return g.grid
}

// Home returns the home cell.
func (g *Game) Home() (int, int) {
	return g.homeX, g.homeY
}

// Config returns the configuration the game was built from.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Seed returns the RNG seed.
func (g *Game) Seed() int64 {
	return g.rngSeed
}

// Workers returns the number of agent pass workers (1 = sequential).
func (g *Game) Workers() int {
	if g.parallel == nil {
		return 1
	}
	return g.parallel.numWorkers
}

// TotalDeliveries returns food deliveries since start.
func (g *Game) TotalDeliveries() int {
	return g.collector.TotalDeliveries()
}

// Paused reports whether Update is holding the simulation.
func (g *Game) Paused() bool {
	return g.paused
}

// SetPaused pauses or resumes Update.
func (g *Game) SetPaused(p bool) {
	g.paused = p
}

// StepsPerUpdate returns how many ticks each Update advances.
func (g *Game) StepsPerUpdate() int {
	return g.stepsPerUpdate
}

// SetStepsPerUpdate sets the speed multiplier, clamped to [1, MaxStepsPerUpdate].
func (g *Game) SetStepsPerUpdate(n int) {
	g.stepsPerUpdate = max(1, min(n, MaxStepsPerUpdate))
}

// MaxStepsPerUpdate bounds the interactive speed multiplier.
const MaxStepsPerUpdate = 50

// AgentView is a copy of one agent's state for drawing and inspection.
type AgentView struct {
	X, Y     int
	Dir      int
	Mode     components.Mode
	TrailLen int
}

// Agents appends a snapshot of every agent to dst.
func (g *Game) Agents(dst []AgentView) []AgentView {
	query := g.agentFilter.Query()
	for query.Next() {
		pos, heading, forager := query.Get()
		dst = append(dst, AgentView{
			X:        pos.X,
			Y:        pos.Y,
			Dir:      heading.Dir,
			Mode:     forager.Mode,
			TrailLen: len(forager.Trail),
		})
	}
	return dst
}

// ModeCounts returns how many agents are in each state.
func (g *Game) ModeCounts() (searching, carrying, forced int) {
	query := g.agentFilter.Query()
	for query.Next() {
		_, _, forager := query.Get()
		switch forager.Mode {
		case components.ModeCarrying:
			carrying++
		case components.ModeForcedReturn:
			forced++
		default:
			searching++
		}
	}
	return searching, carrying, forced
}
