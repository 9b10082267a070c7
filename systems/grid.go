// Package systems provides the grid state and the per-tick processes
// that read and mutate it.
package systems

import "sync"

// Layer selects one of the grid's per-cell arrays.
type Layer uint8

const (
	LayerOccupancy Layer = iota // Agents standing on the cell
	LayerPheromone              // Trail strength in [0, max]
	LayerFood                   // 1 where food exists
	LayerObstacle               // 1 where movement is forbidden
)

// Field is the grid surface agents act on during a tick.
// Implementations must keep every single-cell operation atomic.
type Field interface {
	Wrap(x, y int) (int, int)
	Occupy(x, y int)
	Vacate(x, y int)
	Pheromone(x, y int) int
	Deposit(x, y int)
	HasFood(x, y int) bool
	ClearFood(x, y int)
	HasObstacle(x, y int) bool
}

// Grid is a toroidal arena of four same-shaped layers stored as flat
// slices indexed y*Cols+x. All coordinates wrap, so no access can fail.
type Grid struct {
	Cols, Rows   int
	MaxPheromone int

	occupancy []uint16
	pheromone []uint8
	food      []bool
	obstacle  []bool
}

// NewGrid allocates an empty grid. maxPheromone is clamped to [1, 255].
func NewGrid(cols, rows, maxPheromone int) *Grid {
	if maxPheromone < 1 {
		maxPheromone = 1
	}
	if maxPheromone > 255 {
		maxPheromone = 255
	}
	n := cols * rows
	return &Grid{
		Cols:         cols,
		Rows:         rows,
		MaxPheromone: maxPheromone,
		occupancy:    make([]uint16, n),
		pheromone:    make([]uint8, n),
		food:         make([]bool, n),
		obstacle:     make([]bool, n),
	}
}

// Size returns the grid dimensions.
func (g *Grid) Size() (int, int) {
	return g.Cols, g.Rows
}

// Wrap maps any integer coordinates onto the torus.
func (g *Grid) Wrap(x, y int) (int, int) {
	return modInt(x, g.Cols), modInt(y, g.Rows)
}

func (g *Grid) index(x, y int) int {
	x, y = g.Wrap(x, y)
	return y*g.Cols + x
}

// Read returns the value of a layer at (x, y).
// Food and obstacle read as 0 or 1.
func (g *Grid) Read(layer Layer, x, y int) int {
	i := g.index(x, y)
	switch layer {
	case LayerOccupancy:
		return int(g.occupancy[i])
	case LayerPheromone:
		return int(g.pheromone[i])
	case LayerFood:
		return boolInt(g.food[i])
	case LayerObstacle:
		return boolInt(g.obstacle[i])
	}
	return 0
}

// Write sets a layer at (x, y). Pheromone is clamped to [0, MaxPheromone];
// food and obstacle treat any non-zero value as true.
func (g *Grid) Write(layer Layer, x, y, v int) {
	i := g.index(x, y)
	switch layer {
	case LayerOccupancy:
		if v < 0 {
			v = 0
		}
		g.occupancy[i] = uint16(min(v, 0xFFFF))
	case LayerPheromone:
		g.pheromone[i] = uint8(clampInt(v, 0, g.MaxPheromone))
	case LayerFood:
		g.food[i] = v != 0
	case LayerObstacle:
		g.obstacle[i] = v != 0
	}
}

// Occupied reports whether any agent stands on (x, y).
func (g *Grid) Occupied(x, y int) bool {
	return g.occupancy[g.index(x, y)] > 0
}

// Occupants returns the number of agents on (x, y).
func (g *Grid) Occupants(x, y int) int {
	return int(g.occupancy[g.index(x, y)])
}

// Occupy marks one more agent on (x, y).
func (g *Grid) Occupy(x, y int) {
	i := g.index(x, y)
	if g.occupancy[i] < 0xFFFF {
		g.occupancy[i]++
	}
}

// Vacate removes one agent from (x, y).
func (g *Grid) Vacate(x, y int) {
	i := g.index(x, y)
	if g.occupancy[i] > 0 {
		g.occupancy[i]--
	}
}

// Pheromone returns the trail strength at (x, y).
func (g *Grid) Pheromone(x, y int) int {
	return int(g.pheromone[g.index(x, y)])
}

// Deposit adds one unit of pheromone at (x, y), saturating at MaxPheromone.
func (g *Grid) Deposit(x, y int) {
	i := g.index(x, y)
	if int(g.pheromone[i]) < g.MaxPheromone {
		g.pheromone[i]++
	}
}

// HasFood reports whether (x, y) is a food source.
func (g *Grid) HasFood(x, y int) bool {
	return g.food[g.index(x, y)]
}

// PlaceFood makes (x, y) a food source.
func (g *Grid) PlaceFood(x, y int) {
	g.food[g.index(x, y)] = true
}

// ClearFood removes the food source at (x, y).
func (g *Grid) ClearFood(x, y int) {
	g.food[g.index(x, y)] = false
}

// HasObstacle reports whether (x, y) blocks movement.
func (g *Grid) HasObstacle(x, y int) bool {
	return g.obstacle[g.index(x, y)]
}

// PlaceObstacle blocks (x, y).
func (g *Grid) PlaceObstacle(x, y int) {
	g.obstacle[g.index(x, y)] = true
}

// ClearObstacle unblocks (x, y).
func (g *Grid) ClearObstacle(x, y int) {
	g.obstacle[g.index(x, y)] = false
}

// TotalPheromone returns the sum of the pheromone layer.
func (g *Grid) TotalPheromone() int {
	total := 0
	for _, p := range g.pheromone {
		total += int(p)
	}
	return total
}

// PheromoneValues appends every non-zero pheromone value to dst.
func (g *Grid) PheromoneValues(dst []float64) []float64 {
	for _, p := range g.pheromone {
		if p > 0 {
			dst = append(dst, float64(p))
		}
	}
	return dst
}

// CountFood returns the number of food cells.
func (g *Grid) CountFood() int {
	n := 0
	for _, f := range g.food {
		if f {
			n++
		}
	}
	return n
}

// Reset clears every layer.
func (g *Grid) Reset() {
	clear(g.occupancy)
	clear(g.pheromone)
	clear(g.food)
	clear(g.obstacle)
}

// numStripes is the number of locks guarding a SyncGrid. Power of two.
const numStripes = 256

// SyncGrid serializes cell access to a Grid so agents can be updated
// from several goroutines in the same tick. Cells map onto a fixed set
// of mutexes by index.
type SyncGrid struct {
	g       *Grid
	stripes [numStripes]sync.Mutex
}

// NewSyncGrid wraps g. The wrapper must not be copied.
func NewSyncGrid(g *Grid) *SyncGrid {
	return &SyncGrid{g: g}
}

// Grid returns the wrapped grid.
func (s *SyncGrid) Grid() *Grid {
	return s.g
}

func (s *SyncGrid) lock(x, y int) (int, *sync.Mutex) {
	i := s.g.index(x, y)
	mu := &s.stripes[i&(numStripes-1)]
	mu.Lock()
	return i, mu
}

// Wrap maps any integer coordinates onto the torus.
func (s *SyncGrid) Wrap(x, y int) (int, int) {
	return s.g.Wrap(x, y)
}

// Occupy marks one more agent on (x, y).
func (s *SyncGrid) Occupy(x, y int) {
	i, mu := s.lock(x, y)
	if s.g.occupancy[i] < 0xFFFF {
		s.g.occupancy[i]++
	}
	mu.Unlock()
}

// Vacate removes one agent from (x, y).
func (s *SyncGrid) Vacate(x, y int) {
	i, mu := s.lock(x, y)
	if s.g.occupancy[i] > 0 {
		s.g.occupancy[i]--
	}
	mu.Unlock()
}

// Pheromone returns the trail strength at (x, y).
func (s *SyncGrid) Pheromone(x, y int) int {
	i, mu := s.lock(x, y)
	p := s.g.pheromone[i]
	mu.Unlock()
	return int(p)
}

// Deposit adds one unit of pheromone at (x, y), saturating at MaxPheromone.
func (s *SyncGrid) Deposit(x, y int) {
	i, mu := s.lock(x, y)
	if int(s.g.pheromone[i]) < s.g.MaxPheromone {
		s.g.pheromone[i]++
	}
	mu.Unlock()
}

// HasFood reports whether (x, y) is a food source.
func (s *SyncGrid) HasFood(x, y int) bool {
	i, mu := s.lock(x, y)
	f := s.g.food[i]
	mu.Unlock()
	return f
}

// ClearFood removes the food source at (x, y).
func (s *SyncGrid) ClearFood(x, y int) {
	i, mu := s.lock(x, y)
	s.g.food[i] = false
	mu.Unlock()
}

// HasObstacle reports whether (x, y) blocks movement.
// Obstacles only change between ticks, so no lock is taken.
func (s *SyncGrid) HasObstacle(x, y int) bool {
	return s.g.HasObstacle(x, y)
}

// modInt returns positive modulo (Go's % can return negative).
func modInt(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
