package game

import "log/slog"

// LogColony logs a one-line summary of the current colony state.
func (g *Game) LogColony() {
	searching, carrying, forced := g.ModeCounts()
	slog.Info("colony",
		"tick", g.tick,
		"searching", searching,
		"carrying", carrying,
		"forced_return", forced,
		"deliveries", g.collector.TotalDeliveries(),
		"pheromone_total", g.grid.TotalPheromone(),
		"food_cells", g.grid.CountFood(),
	)
}
