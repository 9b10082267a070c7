package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int64 `csv:"-"`
	WindowEndTick   int64 `csv:"window_end"`

	// Colony state at window end
	Searching    int `csv:"searching"`
	Carrying     int `csv:"carrying"`
	ForcedReturn int `csv:"forced_return"`

	// Events during window
	Moves         int     `csv:"moves"`
	Blocked       int     `csv:"blocked"`
	Pickups       int     `csv:"pickups"`
	GaveUp        int     `csv:"gave_up"`
	Retraces      int     `csv:"retraces"`
	Deliveries    int     `csv:"deliveries"`
	ReturnedEmpty int     `csv:"returned_empty"`
	Evaporated    int     `csv:"evaporated"`
	DeliveryRate  float64 `csv:"delivery_rate"` // Deliveries per tick
	SuccessRate   float64 `csv:"success_rate"`  // Deliveries / (deliveries + empty returns)

	// Pheromone field at window end (non-zero cells only)
	PheromoneTotal int     `csv:"pheromone_total"`
	PheromoneCells int     `csv:"pheromone_cells"`
	PheromoneMean  float64 `csv:"pheromone_mean"`
	PheromoneStd   float64 `csv:"pheromone_std"`
	PheromoneP50   float64 `csv:"pheromone_p50"`
	PheromoneP90   float64 `csv:"pheromone_p90"`
	PheromoneMax   float64 `csv:"pheromone_max"`

	// Trail lengths of searching agents at window end
	TrailMean float64 `csv:"trail_mean"`
	TrailMax  float64 `csv:"trail_max"`

	FoodCells int `csv:"food_cells"`
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std, P50, P90, Max float64
}

// ComputeDistribution returns mean, sample standard deviation, empirical
// median and 90th percentile, and maximum of values. values is not modified.
// An empty sample yields zeros; a single value has zero spread.
func ComputeDistribution(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var d Distribution
	if n == 1 {
		d.Mean = sorted[0]
	} else {
		d.Mean, d.Std = stat.MeanStdDev(sorted, nil)
	}
	d.P50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	d.P90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	d.Max = sorted[n-1]
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Int("searching", s.Searching),
		slog.Int("carrying", s.Carrying),
		slog.Int("forced_return", s.ForcedReturn),
		slog.Int("pickups", s.Pickups),
		slog.Int("deliveries", s.Deliveries),
		slog.Int("returned_empty", s.ReturnedEmpty),
		slog.Int("blocked", s.Blocked),
		slog.Float64("delivery_rate", s.DeliveryRate),
		slog.Float64("success_rate", s.SuccessRate),
		slog.Int("pheromone_total", s.PheromoneTotal),
		slog.Int("pheromone_cells", s.PheromoneCells),
		slog.Float64("pheromone_p90", s.PheromoneP90),
		slog.Float64("trail_mean", s.TrailMean),
		slog.Int("food_cells", s.FoodCells),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
