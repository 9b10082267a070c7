// Package components defines ECS components for the simulation.
package components

// Position is a grid cell. Always holds wrapped coordinates.
type Position struct {
	X, Y int
}

// Heading indexes Directions. Plain turns keep it in 0..3; pheromone
// influence may leave a diagonal index 4..7 until the next turn.
type Heading struct {
	Dir int
}

// Direction indices in the fixed order used for pheromone tie breaking.
const (
	DirUp = iota
	DirRight
	DirDown
	DirLeft
	DirUpRight
	DirDownLeft
	DirDownRight
	DirUpLeft

	// NumCardinals is the modulus applied by plain turns.
	NumCardinals = 4
	// NumDirections is the size of the pheromone neighbourhood.
	NumDirections = 8
)

// Directions holds the step vector for each heading index.
// Screen coordinates: y grows downward.
var Directions = [NumDirections][2]int{
	DirUp:        {0, -1},
	DirRight:     {1, 0},
	DirDown:      {0, 1},
	DirLeft:      {-1, 0},
	DirUpRight:   {1, -1},
	DirDownLeft:  {-1, 1},
	DirDownRight: {1, 1},
	DirUpLeft:    {-1, -1},
}
