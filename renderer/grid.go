// Package renderer draws the simulation grid with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/formica/systems"
)

// GridRenderer draws the grid layers as one texel per cell, scaled up to
// the cell size with nearest-neighbour filtering.
type GridRenderer struct {
	tex        rl.Texture2D
	pixels     []color.RGBA
	cols, rows int
	cellSize   int32

	initialized bool
}

// NewGridRenderer creates a renderer for a cols x rows grid.
func NewGridRenderer(cols, rows, cellSize int) *GridRenderer {
	return &GridRenderer{
		cols:     cols,
		rows:     rows,
		cellSize: int32(cellSize),
		pixels:   make([]color.RGBA, cols*rows),
	}
}

// Init creates the GPU texture (must be called after raylib window is created).
func (r *GridRenderer) Init() {
	if r.initialized {
		return
	}

	img := rl.GenImageColor(r.cols, r.rows, rl.White)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterPoint)
	rl.UnloadImage(img)

	r.initialized = true
}

// Update uploads the current grid state to the texture.
func (r *GridRenderer) Update(g *systems.Grid) {
	if !r.initialized {
		r.Init()
	}

	i := 0
	for y := 0; y < r.rows; y++ {
		for x := 0; x < r.cols; x++ {
			r.pixels[i] = CellColor(g.HasFood(x, y), g.Occupied(x, y), g.HasObstacle(x, y), g.Pheromone(x, y))
			i++
		}
	}

	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw renders the grid at the window origin and outlines the home cell.
func (r *GridRenderer) Draw(homeX, homeY int) {
	if !r.initialized {
		return
	}

	srcRect := rl.Rectangle{X: 0, Y: 0, Width: float32(r.cols), Height: float32(r.rows)}
	dstRect := rl.Rectangle{
		X:      0,
		Y:      0,
		Width:  float32(int32(r.cols) * r.cellSize),
		Height: float32(int32(r.rows) * r.cellSize),
	}
	rl.DrawTexturePro(r.tex, srcRect, dstRect, rl.Vector2{}, 0, rl.White)

	rl.DrawRectangleLines(int32(homeX)*r.cellSize, int32(homeY)*r.cellSize, r.cellSize, r.cellSize, ColorHome)
}

// CellAt converts a screen position to grid coordinates.
// ok is false outside the grid area.
func (r *GridRenderer) CellAt(pos rl.Vector2) (x, y int, ok bool) {
	if pos.X < 0 || pos.Y < 0 {
		return 0, 0, false
	}
	x = int(pos.X) / int(r.cellSize)
	y = int(pos.Y) / int(r.cellSize)
	if x >= r.cols || y >= r.rows {
		return 0, 0, false
	}
	return x, y, true
}

// Unload frees GPU resources.
func (r *GridRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}
