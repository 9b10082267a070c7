// Package telemetry tracks colony activity over windows of ticks and
// writes it out as structured logs and CSV.
package telemetry

import "github.com/pthm-cable/formica/systems"

// Counts tallies agent events by type. Workers fill their own and the
// game merges them, so Counts needs no locking.
type Counts [systems.NumEvents]int

// Add records one event.
func (c *Counts) Add(ev systems.Event) {
	c[ev]++
}

// Merge adds other into c and zeroes other.
func (c *Counts) Merge(other *Counts) {
	for i, n := range other {
		c[i] += n
		other[i] = 0
	}
}

// Colony is the end-of-window state the caller samples for Flush.
type Colony struct {
	Searching    int
	Carrying     int
	ForcedReturn int
	TrailLengths []float64 // Searching agents only
	Pheromone    []float64 // Non-zero cells
	FoodCells    int
}

// Collector accumulates events within windows of ticks and produces WindowStats.
type Collector struct {
	windowTicks     int64
	windowStartTick int64

	counts     Counts
	evaporated int

	// Cumulative over the whole run
	totalDeliveries int
}

// NewCollector creates a collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: int64(windowTicks)}
}

// Record records a single agent event.
func (c *Collector) Record(ev systems.Event) {
	if ev == systems.EventDelivered {
		c.totalDeliveries++
	}
	c.counts.Add(ev)
}

// RecordCounts merges a batch of events and zeroes the batch.
func (c *Collector) RecordCounts(batch *Counts) {
	c.totalDeliveries += batch[systems.EventDelivered]
	c.counts.Merge(batch)
}

// RecordEvaporation records pheromone units removed by decay.
func (c *Collector) RecordEvaporation(units int) {
	c.evaporated += units
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// TotalDeliveries returns food deliveries since the collector was created.
func (c *Collector) TotalDeliveries() int {
	return c.totalDeliveries
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int64 {
	return c.windowTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int64, colony Colony) WindowStats {
	ticks := currentTick - c.windowStartTick
	ev := &c.counts

	pher := ComputeDistribution(colony.Pheromone)
	trail := ComputeDistribution(colony.TrailLengths)

	var total int
	for _, v := range colony.Pheromone {
		total += int(v)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Searching:    colony.Searching,
		Carrying:     colony.Carrying,
		ForcedReturn: colony.ForcedReturn,

		Moves:         ev[systems.EventMoved],
		Blocked:       ev[systems.EventBlocked],
		Pickups:       ev[systems.EventPickup],
		GaveUp:        ev[systems.EventGaveUp],
		Retraces:      ev[systems.EventRetrace],
		Deliveries:    ev[systems.EventDelivered],
		ReturnedEmpty: ev[systems.EventReturnedEmpty],
		Evaporated:    c.evaporated,

		PheromoneTotal: total,
		PheromoneCells: len(colony.Pheromone),
		PheromoneMean:  pher.Mean,
		PheromoneStd:   pher.Std,
		PheromoneP50:   pher.P50,
		PheromoneP90:   pher.P90,
		PheromoneMax:   pher.Max,

		TrailMean: trail.Mean,
		TrailMax:  trail.Max,

		FoodCells: colony.FoodCells,
	}
	if ticks > 0 {
		stats.DeliveryRate = float64(stats.Deliveries) / float64(ticks)
	}
	if trips := stats.Deliveries + stats.ReturnedEmpty; trips > 0 {
		stats.SuccessRate = float64(stats.Deliveries) / float64(trips)
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.counts = Counts{}
	c.evaporated = 0

	return stats
}
