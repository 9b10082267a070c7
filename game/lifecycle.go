package game

import (
	"log/slog"

	"github.com/pthm-cable/formica/components"
	"github.com/pthm-cable/formica/systems"
)

// terrainSeed returns the configured terrain seed, falling back to the
// run seed so unseeded terrain still varies between runs.
func (g *Game) terrainSeed() int64 {
	if g.cfg.Terrain.Seed != 0 {
		return g.cfg.Terrain.Seed
	}
	return g.rngSeed
}

// setupWorld lays out terrain and the initial food sources.
func (g *Game) setupWorld() {
	cfg := g.cfg

	if cfg.Terrain.Enabled {
		blocked := systems.GenerateTerrain(g.grid, systems.TerrainParams{
			Seed:      g.terrainSeed(),
			Scale:     cfg.Terrain.Scale,
			Threshold: cfg.Terrain.Threshold,
			Clearance: cfg.Terrain.Clearance,
		}, g.homeX, g.homeY)
		slog.Debug("terrain generated", "blocked", blocked)
	}

	systems.ScatterFood(g.grid, g.rng, cfg.Food.Random, g.homeX, g.homeY)
	systems.PlaceFoodCells(g.grid, cfg.Food.Cells)

	// Food placed under terrain would be unreachable
	for y := 0; y < g.grid.Rows; y++ {
		for x := 0; x < g.grid.Cols; x++ {
			if g.grid.HasObstacle(x, y) && g.grid.HasFood(x, y) {
				g.grid.ClearObstacle(x, y)
			}
		}
	}
}

// spawnColony creates every agent on the home cell, facing up.
func (g *Game) spawnColony() {
	for i := 0; i < g.cfg.Colony.Agents; i++ {
		g.spawnAgent(g.homeX, g.homeY)
	}
}

// spawnAgent creates one searching agent at (x, y).
func (g *Game) spawnAgent(x, y int) {
	pos := components.Position{X: x, Y: y}
	heading := components.Heading{Dir: components.DirUp}
	forager := components.Forager{
		Mode:  components.ModeSearching,
		Trail: make([]components.Position, 0, 64),
	}
	g.agentMapper.NewEntity(&pos, &heading, &forager)
	g.grid.Occupy(x, y)
	g.numAgents++
}
