package systems

import (
	"math/rand"

	"github.com/pthm-cable/formica/components"
)

// ForageParams holds the agent decision constants.
type ForageParams struct {
	SearchBudget    int     // Trail length beyond which the agent gives up
	InfluenceChance float64 // Chance to steer toward the strongest neighbour
	DepositCarrying float64 // Deposit chance per retrace step with food
	DepositForced   float64 // Deposit chance per retrace step without food
	ConsumeFood     bool    // Clear food cells on pickup
}

// DefaultForageParams returns the reference constants.
func DefaultForageParams() ForageParams {
	return ForageParams{
		SearchBudget:    400,
		InfluenceChance: 0.1,
		DepositCarrying: 1,
		DepositForced:   0,
	}
}

// Event reports what an update did, for telemetry.
type Event uint8

const (
	EventNone         Event = iota
	EventMoved              // Search step onto a free cell
	EventBlocked            // Search step stopped by an obstacle
	EventPickup             // Search step landed on food
	EventGaveUp             // Trail exceeded the search budget
	EventRetrace            // Stepped back along the trail
	EventDelivered          // Reached home carrying food
	EventReturnedEmpty      // Reached home after a forced return

	// NumEvents sizes per-event counters.
	NumEvents
)

// Ant bundles the components of one forager for its tick update.
// The pointers come straight from the ECS query.
type Ant struct {
	Pos     *components.Position
	Heading *components.Heading
	State   *components.Forager
}

// Update advances the ant by one tick.
func (a Ant) Update(f Field, rng *rand.Rand, p ForageParams) Event {
	switch a.State.Mode {
	case components.ModeCarrying:
		return a.retrace(f, rng, p.DepositCarrying)
	case components.ModeForcedReturn:
		return a.retrace(f, rng, p.DepositForced)
	default:
		return a.search(f, rng, p)
	}
}

// retrace steps back to the most recent trail cell, or finishes the
// trip when the trail is empty, then maybe deposits on the cell it ends on.
func (a Ant) retrace(f Field, rng *rand.Rand, depositChance float64) Event {
	ev := EventRetrace
	f.Vacate(a.Pos.X, a.Pos.Y)

	trail := a.State.Trail
	if n := len(trail); n > 0 {
		*a.Pos = trail[n-1]
		a.State.Trail = trail[:n-1]
	} else {
		if a.State.Mode == components.ModeCarrying {
			ev = EventDelivered
		} else {
			ev = EventReturnedEmpty
		}
		a.State.Mode = components.ModeSearching
	}
	f.Occupy(a.Pos.X, a.Pos.Y)

	if rng.Float64() < depositChance {
		f.Deposit(a.Pos.X, a.Pos.Y)
	}
	return ev
}

// search records the current cell, picks a heading and tries to step.
func (a Ant) search(f Field, rng *rand.Rand, p ForageParams) Event {
	a.State.Trail = append(a.State.Trail, *a.Pos)

	if rng.Float64() < p.InfluenceChance {
		if dir, ok := strongestNeighbour(f, a.Pos.X, a.Pos.Y); ok {
			a.Heading.Dir = dir
		}
	} else {
		turn := 1
		if rng.Intn(2) == 0 {
			turn = -1
		}
		a.Heading.Dir = modInt(a.Heading.Dir+turn, components.NumCardinals)
	}

	step := components.Directions[a.Heading.Dir]
	nx, ny := f.Wrap(a.Pos.X+step[0], a.Pos.Y+step[1])

	ev := EventBlocked
	if !f.HasObstacle(nx, ny) {
		f.Vacate(a.Pos.X, a.Pos.Y)
		a.Pos.X, a.Pos.Y = nx, ny
		f.Occupy(nx, ny)
		ev = EventMoved

		if f.HasFood(nx, ny) {
			a.State.Mode = components.ModeCarrying
			if p.ConsumeFood {
				f.ClearFood(nx, ny)
			}
			return EventPickup
		}
	}

	if len(a.State.Trail) > p.SearchBudget {
		a.State.Mode = components.ModeForcedReturn
		return EventGaveUp
	}
	return ev
}

// strongestNeighbour returns the first direction index holding the
// maximum pheromone among the eight neighbours. ok is false when every
// neighbour is 0.
func strongestNeighbour(f Field, x, y int) (dir int, ok bool) {
	best := 0
	for i, d := range components.Directions {
		if v := f.Pheromone(x+d[0], y+d[1]); v > best {
			best = v
			dir = i
		}
	}
	return dir, best > 0
}
