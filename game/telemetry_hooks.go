package game

import (
	"log/slog"

	"github.com/pthm-cable/formica/components"
	"github.com/pthm-cable/formica/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and writes it out.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.sampleColony())
	perfStats := g.perfCollector.Stats()

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// sampleColony collects the end-of-window colony state.
func (g *Game) sampleColony() telemetry.Colony {
	var c telemetry.Colony

	query := g.agentFilter.Query()
	for query.Next() {
		_, _, forager := query.Get()
		switch forager.Mode {
		case components.ModeCarrying:
			c.Carrying++
		case components.ModeForcedReturn:
			c.ForcedReturn++
		default:
			c.Searching++
			c.TrailLengths = append(c.TrailLengths, float64(len(forager.Trail)))
		}
	}

	c.Pheromone = g.grid.PheromoneValues(nil)
	c.FoodCells = g.grid.CountFood()
	return c
}
