package telemetry

import (
	"math"
	"testing"
	"time"
)

// manualClock advances only when told to.
type manualClock struct {
	t time.Time
}

func (c *manualClock) now() time.Time          { return c.t }
func (c *manualClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTimedCollector(window int) (*PerfCollector, *manualClock) {
	clock := &manualClock{t: time.Unix(0, 0)}
	pc := NewPerfCollector(window)
	pc.now = clock.now
	return pc, clock
}

// runTick times one tick with the given per-phase durations and work.
func runTick(pc *PerfCollector, clock *manualClock, agents int, agentTime time.Duration, cells int, decayTime, telemetryTime time.Duration) {
	pc.StartTick()
	pc.StartPhase(PhaseAgents, agents)
	clock.advance(agentTime)
	pc.StartPhase(PhaseDecay, cells)
	clock.advance(decayTime)
	pc.StartPhase(PhaseTelemetry, 0)
	clock.advance(telemetryTime)
	pc.EndTick()
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPerfStatsEmpty(t *testing.T) {
	s := NewPerfCollector(10).Stats()
	if s.Ticks != 0 || s.AvgTick != 0 || s.TicksPerSecond != 0 {
		t.Errorf("empty stats = %+v, want zero", s)
	}
	row := s.ToCSV(5)
	if row.WindowEnd != 5 || row.AgentsPerMs != 0 {
		t.Errorf("empty row = %+v", row)
	}
}

func TestPerfShareAndThroughput(t *testing.T) {
	pc, clock := newTimedCollector(10)
	for i := 0; i < 3; i++ {
		runTick(pc, clock, 1000, 2*time.Millisecond, 10000, time.Millisecond, time.Millisecond)
	}

	s := pc.Stats()
	if s.Ticks != 3 {
		t.Fatalf("ticks = %d, want 3", s.Ticks)
	}
	if s.AvgTick != 4*time.Millisecond || s.MaxTick != 4*time.Millisecond {
		t.Errorf("avg/max tick = %v/%v, want 4ms/4ms", s.AvgTick, s.MaxTick)
	}
	if !almostEqual(s.TicksPerSecond, 250) {
		t.Errorf("ticks/sec = %v, want 250", s.TicksPerSecond)
	}

	tests := []struct {
		phase      Phase
		share      float64
		throughput float64
	}{
		{PhaseAgents, 0.5, 500},
		{PhaseDecay, 0.25, 10000},
		{PhaseTelemetry, 0.25, 0},
	}
	for _, tt := range tests {
		t.Run(tt.phase.String(), func(t *testing.T) {
			if !almostEqual(s.Share[tt.phase], tt.share) {
				t.Errorf("share = %v, want %v", s.Share[tt.phase], tt.share)
			}
			if !almostEqual(s.Throughput[tt.phase], tt.throughput) {
				t.Errorf("throughput = %v, want %v", s.Throughput[tt.phase], tt.throughput)
			}
		})
	}

	row := s.ToCSV(300)
	if !almostEqual(row.AgentsPct, 50) || !almostEqual(row.DecayCellsPerMs, 10000) {
		t.Errorf("csv row = %+v", row)
	}
}

func TestPerfWindowDropsOldTicks(t *testing.T) {
	pc, clock := newTimedCollector(2)
	for _, d := range []time.Duration{10 * time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond} {
		runTick(pc, clock, 100, d, 0, 0, 0)
	}

	s := pc.Stats()
	if s.Ticks != 2 {
		t.Fatalf("ticks = %d, want window of 2", s.Ticks)
	}
	if s.AvgTick != 3*time.Millisecond {
		t.Errorf("avg tick = %v, want 3ms (oldest tick dropped)", s.AvgTick)
	}
	if s.MaxTick != 4*time.Millisecond {
		t.Errorf("max tick = %v, want 4ms", s.MaxTick)
	}
	if !almostEqual(s.Throughput[PhaseAgents], 200.0/6) {
		t.Errorf("agents/ms = %v, want %v", s.Throughput[PhaseAgents], 200.0/6)
	}
}

func TestPerfUntimedGapNotCharged(t *testing.T) {
	pc, clock := newTimedCollector(4)

	pc.StartTick()
	clock.advance(time.Millisecond) // before any phase
	pc.StartPhase(PhaseAgents, 10)
	clock.advance(time.Millisecond)
	pc.EndTick()

	s := pc.Stats()
	if s.AvgTick != 2*time.Millisecond {
		t.Errorf("tick = %v, want 2ms", s.AvgTick)
	}
	if !almostEqual(s.Share[PhaseAgents], 0.5) {
		t.Errorf("agents share = %v, want 0.5", s.Share[PhaseAgents])
	}
}
