package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/formica/game"
	"github.com/pthm-cable/formica/renderer"
)

// tools lists the placement buttons in panel order.
var tools = []game.Tool{game.ToolFood, game.ToolObstacle, game.ToolErase}

// ControlsPanel renders the right-side panel with tool buttons, pause and
// speed controls, and applies the selected tool to clicked cells.
type ControlsPanel struct {
	renderer *Renderer
	hud      *HUD
	x        int32
	width    int32
	height   int32
	tool     game.Tool
	hasTool  bool
}

// NewControlsPanel creates a panel occupying [x, x+width) of the window.
func NewControlsPanel(x, width, height int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		hud:      NewHUD(),
		x:        x,
		width:    width,
		height:   height,
	}
}

// Tool returns the selected placement tool. ok is false until a tool
// button has been pressed.
func (c *ControlsPanel) Tool() (tool game.Tool, ok bool) {
	return c.tool, c.hasTool
}

// HandleInput processes keyboard shortcuts and grid clicks.
// Holding the mouse button paints with the selected tool.
func (c *ControlsPanel) HandleInput(g *game.Game, grid *renderer.GridRenderer) {
	if rl.IsKeyPressed(rl.KeySpace) {
		g.SetPaused(!g.Paused())
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		g.SetStepsPerUpdate(g.StepsPerUpdate() - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		g.SetStepsPerUpdate(g.StepsPerUpdate() + 1)
	}

	if !c.hasTool || !rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		return
	}
	if x, y, ok := grid.CellAt(rl.GetMousePosition()); ok {
		g.Apply(c.tool, x, y)
	}
}

// Draw renders the panel and handles its buttons.
func (c *ControlsPanel) Draw(g *game.Game) {
	r := c.renderer
	th := r.Theme
	r.DrawPanel(c.x, 0, c.width, c.height)

	x := float32(c.x + th.Padding)
	y := float32(th.Padding)
	w := float32(c.width - 2*th.Padding)

	rl.DrawText("Tools", int32(x), int32(y), th.HeaderFontSize, th.SectionHeader)
	y += float32(th.LineHeight) + 4

	for _, t := range tools {
		label := t.String()
		if c.hasTool && c.tool == t {
			label = "> " + label + " <"
		}
		if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: th.ButtonHeight}, label) {
			c.tool = t
			c.hasTool = true
		}
		y += th.ButtonHeight + 8
	}

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: th.ButtonHeight}, toggleText(g.Paused(), "Resume", "Pause")) {
		g.SetPaused(!g.Paused())
	}
	y += th.ButtonHeight + 16

	rl.DrawText("Speed", int32(x), int32(y), th.FontSize, th.LabelColor)
	y += float32(th.LineHeight)
	speed := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: w - 40, Height: 20},
		"", fmt.Sprintf("%dx", g.StepsPerUpdate()),
		float32(g.StepsPerUpdate()), 1, game.MaxStepsPerUpdate,
	)
	if int(speed) != g.StepsPerUpdate() {
		g.SetStepsPerUpdate(int(speed))
	}
	y += 40

	searching, carrying, forced := g.ModeCounts()
	grid := g.Grid()
	c.hud.Draw(int32(x), int32(y), int32(w), HUDData{
		Tick:         g.Tick(),
		Speed:        g.StepsPerUpdate(),
		FPS:          rl.GetFPS(),
		Paused:       g.Paused(),
		Agents:       searching + carrying + forced,
		Searching:    searching,
		Carrying:     carrying,
		ForcedReturn: forced,
		Deliveries:   g.TotalDeliveries(),
		Pheromone:    grid.TotalPheromone(),
		FoodCells:    grid.CountFood(),
	})

	c.hud.DrawControls(int32(x), c.height, "[Space] pause  [<>] speed")
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
