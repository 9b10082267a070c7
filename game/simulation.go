package game

import (
	"github.com/pthm-cable/formica/systems"
	"github.com/pthm-cable/formica/telemetry"
)

// Update advances the simulation by StepsPerUpdate ticks unless paused.
// Call once per frame in windowed mode.
func (g *Game) Update() {
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step()
	}
}

// UpdateHeadless advances StepsPerUpdate ticks, ignoring pause.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step()
	}
}

// Step runs one tick: every agent moves exactly once, then the
// pheromone layer decays once, then telemetry is updated.
func (g *Game) Step() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseAgents, g.numAgents)
	if g.parallel != nil {
		g.updateAgentsParallel()
	} else {
		g.updateAgents()
	}

	g.perfCollector.StartPhase(telemetry.PhaseDecay, g.grid.Cols*g.grid.Rows)
	g.collector.RecordEvaporation(g.pheromone.Decay(g.rng))

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry, 0)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// updateAgents advances every agent in query order against the plain grid
// using the game RNG. Runs with the same seed produce the same trajectories.
func (g *Game) updateAgents() {
	query := g.agentFilter.Query()
	for query.Next() {
		pos, heading, forager := query.Get()
		ant := systems.Ant{Pos: pos, Heading: heading, State: forager}
		g.collector.Record(ant.Update(g.grid, g.rng, g.forage))
	}
}
