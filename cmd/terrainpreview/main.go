// Terrain preview tool - interactive obstacle field tuning with sliders.
//
// Usage: go run ./cmd/terrainpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/formica/config"
	"github.com/pthm-cable/formica/renderer"
	"github.com/pthm-cable/formica/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 600
	panelWidth   = windowWidth - previewSize - 30
)

// terrainYAML mirrors the terrain section for clipboard export.
type terrainYAML struct {
	Terrain config.TerrainConfig `yaml:"terrain"`
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rl.InitWindow(windowWidth, windowHeight, "Terrain Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := cfg.Terrain
	if params.Seed == 0 {
		params.Seed = 12345
	}
	defaults := params
	seed := params.Seed

	cols, rows := cfg.Grid.Cols, cfg.Grid.Rows
	homeX, homeY := cfg.Derived.HomeX, cfg.Derived.HomeY
	grid := systems.NewGrid(cols, rows, cfg.Pheromone.Max)

	cellSize := previewSize / max(cols, rows)
	view := renderer.NewGridRenderer(cols, rows, max(cellSize, 1))
	view.Init()
	defer view.Unload()

	blocked := 0
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			grid.Reset()
			blocked = systems.GenerateTerrain(grid, systems.TerrainParams{
				Seed:      seed,
				Scale:     params.Scale,
				Threshold: params.Threshold,
				Clearance: params.Clearance,
			}, homeX, homeY)
			view.Update(grid)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		view.Draw(homeX, homeY)

		statsY := int32(rows*cellSize + 15)
		pct := 100 * float64(blocked) / float64(cols*rows)
		rl.DrawText(fmt.Sprintf("Blocked: %d cells (%.1f%%)", blocked, pct), 15, statsY, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Terrain Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		// Scale slider
		rl.DrawText("Scale (noise frequency per cell)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newScale := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.01", "0.3",
			float32(params.Scale), 0.01, 0.3,
		)
		rl.DrawText(fmt.Sprintf("%.3f", params.Scale), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newScale != float32(params.Scale) {
			params.Scale = float64(newScale)
			needsRegen = true
		}
		panelY += 35

		// Threshold slider
		rl.DrawText("Threshold (higher = fewer walls)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newThreshold := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.3", "0.95",
			float32(params.Threshold), 0.3, 0.95,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.Threshold), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newThreshold != float32(params.Threshold) {
			params.Threshold = float64(newThreshold)
			needsRegen = true
		}
		panelY += 35

		// Clearance slider
		rl.DrawText("Clearance around home", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newClearance := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "20",
			float32(params.Clearance), 0, 20,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Clearance), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int(newClearance) != params.Clearance {
			params.Clearance = int(newClearance)
			needsRegen = true
		}
		panelY += 35

		// Seed slider
		rl.DrawText("Seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1", "99999",
			float32(seed), 1, 99999,
		)
		rl.DrawText(fmt.Sprintf("%d", seed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int64(newSeed) != seed {
			seed = int64(newSeed)
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			seed = int64(rl.GetRandomValue(1, 99999))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			seed = defaults.Seed
			needsRegen = true
		}
		panelY += 55

		// Output YAML; the seed is exported so a run reproduces this layout
		params.Enabled = true
		params.Seed = seed
		out, err := yaml.Marshal(terrainYAML{Terrain: params})
		if err != nil {
			out = []byte(err.Error())
		}
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		rl.DrawText(string(out), int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(string(out))
		}

		rl.EndDrawing()
	}
}
