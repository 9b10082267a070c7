package systems

import "math/rand"

// PheromoneField evaporates the pheromone layer of a grid.
type PheromoneField struct {
	grid   *Grid
	Chance float64 // Per-cell chance per tick to lose one unit
}

// NewPheromoneField creates a decay process over g's pheromone layer.
func NewPheromoneField(g *Grid, chance float64) *PheromoneField {
	return &PheromoneField{grid: g, Chance: chance}
}

// Decay decrements each positive cell by one with probability Chance,
// independently per cell. Empty cells draw no random number.
// Returns the number of units removed.
func (pf *PheromoneField) Decay(rng *rand.Rand) int {
	if pf.Chance <= 0 {
		return 0
	}
	removed := 0
	cells := pf.grid.pheromone
	for i, v := range cells {
		if v > 0 && rng.Float64() < pf.Chance {
			cells[i] = v - 1
			removed++
		}
	}
	return removed
}
