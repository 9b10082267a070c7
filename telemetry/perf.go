package telemetry

import (
	"log/slog"
	"time"
)

// Phase identifies one timed section of a simulation tick.
type Phase uint8

const (
	PhaseAgents    Phase = iota // ant updates, work counted in agents
	PhaseDecay                  // evaporation pass, work counted in cells scanned
	PhaseTelemetry              // window flush and CSV output
	numPhases
)

var phaseNames = [numPhases]string{"agents", "decay", "telemetry"}

func (p Phase) String() string {
	if p < numPhases {
		return phaseNames[p]
	}
	return "unknown"
}

type tickTiming struct {
	total  time.Duration
	phases [numPhases]time.Duration
	items  [numPhases]int
}

// PerfCollector times the phases of the most recent ticks. It keeps a
// fixed ring of per-tick timings, so Stats always covers at most the
// configured window.
type PerfCollector struct {
	now  func() time.Time
	ring []tickTiming
	next int
	n    int

	cur        tickTiming
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool
}

// NewPerfCollector returns a collector averaging over window ticks.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 120
	}
	return &PerfCollector{
		now:  time.Now,
		ring: make([]tickTiming, window),
	}
}

// StartTick begins timing a tick.
func (p *PerfCollector) StartTick() {
	p.cur = tickTiming{}
	p.inPhase = false
	p.tickStart = p.now()
}

// StartPhase closes the running phase, if any, and opens phase, which
// will process items units of work.
func (p *PerfCollector) StartPhase(phase Phase, items int) {
	now := p.now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
	p.inPhase = true
	p.cur.items[phase] += items
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
		p.inPhase = false
	}
}

// EndTick closes the running phase and stores the tick.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.n < len(p.ring) {
		p.n++
	}
}

// PerfStats summarizes the collector window.
type PerfStats struct {
	Ticks          int
	AvgTick        time.Duration
	MaxTick        time.Duration
	TicksPerSecond float64

	// Share is each phase's fraction of total tick time, in [0, 1].
	Share [numPhases]float64
	// Throughput is work units per millisecond of phase time.
	Throughput [numPhases]float64
}

// Stats aggregates the ticks currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{Ticks: p.n}
	if p.n == 0 {
		return s
	}

	var total time.Duration
	var phases [numPhases]time.Duration
	var items [numPhases]int
	for _, t := range p.ring[:p.n] {
		total += t.total
		s.MaxTick = max(s.MaxTick, t.total)
		for i := range phases {
			phases[i] += t.phases[i]
			items[i] += t.items[i]
		}
	}

	s.AvgTick = total / time.Duration(p.n)
	if total > 0 {
		s.TicksPerSecond = float64(p.n) / total.Seconds()
	}
	for i := range phases {
		if total > 0 {
			s.Share[i] = float64(phases[i]) / float64(total)
		}
		if ms := float64(phases[i]) / float64(time.Millisecond); ms > 0 {
			s.Throughput[i] = float64(items[i]) / ms
		}
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("ticks", s.Ticks),
		slog.Int64("avg_tick_us", s.AvgTick.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTick.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
		slog.Float64("agents_per_ms", s.Throughput[PhaseAgents]),
	}
	for i := Phase(0); i < numPhases; i++ {
		attrs = append(attrs, slog.Float64(i.String()+"_pct", s.Share[i]*100))
	}
	return slog.GroupValue(attrs...)
}

// LogStats logs the window using slog.
func (s PerfStats) LogStats() {
	slog.Info("perf", "window", s)
}

// PerfStatsCSV is the perf.csv row.
type PerfStatsCSV struct {
	WindowEnd       int64   `csv:"window_end"`
	Ticks           int     `csv:"ticks"`
	AvgTickUS       int64   `csv:"avg_tick_us"`
	MaxTickUS       int64   `csv:"max_tick_us"`
	TicksPerSec     float64 `csv:"ticks_per_sec"`
	AgentsPerMs     float64 `csv:"agents_per_ms"`
	DecayCellsPerMs float64 `csv:"decay_cells_per_ms"`
	AgentsPct       float64 `csv:"agents_pct"`
	DecayPct        float64 `csv:"decay_pct"`
	TelemetryPct    float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats into a perf.csv row.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:       windowEnd,
		Ticks:           s.Ticks,
		AvgTickUS:       s.AvgTick.Microseconds(),
		MaxTickUS:       s.MaxTick.Microseconds(),
		TicksPerSec:     s.TicksPerSecond,
		AgentsPerMs:     s.Throughput[PhaseAgents],
		DecayCellsPerMs: s.Throughput[PhaseDecay],
		AgentsPct:       s.Share[PhaseAgents] * 100,
		DecayPct:        s.Share[PhaseDecay] * 100,
		TelemetryPct:    s.Share[PhaseTelemetry] * 100,
	}
}
