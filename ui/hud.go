package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the stats section.
type HUDData struct {
	Tick         int64
	Speed        int
	FPS          int32
	Paused       bool
	Agents       int
	Searching    int
	Carrying     int
	ForcedReturn int
	Deliveries   int
	Pheromone    int
	FoodCells    int
}

// HUD renders colony statistics inside the side panel.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the stats block starting at (x, y) and returns the next Y.
func (h *HUD) Draw(x, y, width int32, data HUDData) int32 {
	r := h.renderer

	y = r.DrawSectionHeader(x, y, "Colony")
	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d", data.Tick))
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%dx", data.Speed))
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%d", data.FPS))
	y = r.DrawLabelValue(x, y, "Delivered", fmt.Sprintf("%d", data.Deliveries))
	y = r.DrawLabelValue(x, y, "Pheromone", fmt.Sprintf("%d", data.Pheromone))
	y = r.DrawLabelValue(x, y, "Food", fmt.Sprintf("%d cells", data.FoodCells))
	y += 4

	if data.Agents > 0 {
		n := float32(data.Agents)
		y = r.DrawBar(x, y, "Search", float32(data.Searching)/n, width, rl.SkyBlue)
		y = r.DrawBar(x, y, "Carry", float32(data.Carrying)/n, width, rl.Gold)
		y = r.DrawBar(x, y, "Return", float32(data.ForcedReturn)/n, width, rl.Gray)
	}

	if data.Paused {
		rl.DrawText("PAUSED", x, y+4, 16, rl.Yellow)
		y += 24
	}
	return y
}

// DrawControls renders the key legend at the bottom of the panel.
func (h *HUD) DrawControls(x, screenHeight int32, controls string) {
	rl.DrawText(controls, x, screenHeight-25, 12, rl.Gray)
}
