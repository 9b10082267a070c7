package game

// Tool selects what a placement click does.
type Tool uint8

const (
	ToolFood Tool = iota
	ToolObstacle
	ToolErase
)

// String returns the tool's button label.
func (t Tool) String() string {
	switch t {
	case ToolFood:
		return "Food"
	case ToolObstacle:
		return "Obstacle"
	case ToolErase:
		return "Erase"
	default:
		return "?"
	}
}

// Apply runs tool on cell (x, y). Coordinates wrap.
func (g *Game) Apply(tool Tool, x, y int) {
	switch tool {
	case ToolFood:
		g.PlaceFood(x, y)
	case ToolObstacle:
		g.PlaceObstacle(x, y)
	case ToolErase:
		g.Erase(x, y)
	}
}

// PlaceFood makes (x, y) a food source. Any obstacle there is removed.
func (g *Game) PlaceFood(x, y int) {
	g.grid.ClearObstacle(x, y)
	g.grid.PlaceFood(x, y)
}

// PlaceObstacle blocks (x, y). Food there is removed. The home cell
// cannot be blocked.
func (g *Game) PlaceObstacle(x, y int) {
	x, y = g.grid.Wrap(x, y)
	if x == g.homeX && y == g.homeY {
		return
	}
	g.grid.ClearFood(x, y)
	g.grid.PlaceObstacle(x, y)
}

// Erase clears food and obstacle from (x, y).
func (g *Game) Erase(x, y int) {
	g.grid.ClearFood(x, y)
	g.grid.ClearObstacle(x, y)
}
