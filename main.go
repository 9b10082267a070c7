package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/formica/config"
	"github.com/pthm-cable/formica/game"
	"github.com/pthm-cable/formica/renderer"
	"github.com/pthm-cable/formica/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	workers := flag.Int("workers", 0, "Agent pass workers, 1 = sequential and reproducible (0 = use config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
		Workers:        *workers,
	}

	if *headless {
		if err := runHeadless(cfg, opts, int64(*maxTicks)); err != nil {
			slog.Error("simulation failed", "error", err)
			os.Exit(1)
		}
		return
	}
	if err := runWindowed(cfg, opts, int64(*maxTicks)); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

// runHeadless runs the pure CPU simulation, no raylib needed.
func runHeadless(cfg *config.Config, opts game.Options, maxTicks int64) error {
	g, err := game.New(cfg, opts)
	if err != nil {
		return err
	}
	defer g.Close()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
		"workers", g.Workers(),
	)

	for {
		g.UpdateHeadless()

		if maxTicks > 0 && g.Tick() >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			g.LogColony()
			return nil
		}
	}
}

// runWindowed opens a raylib window with the grid and the control panel.
func runWindowed(cfg *config.Config, opts game.Options, maxTicks int64) error {
	rl.InitWindow(int32(cfg.Derived.ScreenW), int32(cfg.Derived.ScreenH), "Formica")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.New(cfg, opts)
	if err != nil {
		return err
	}
	defer g.Close()

	gridView := renderer.NewGridRenderer(cfg.Grid.Cols, cfg.Grid.Rows, cfg.Screen.CellSize)
	gridView.Init()
	defer gridView.Unload()

	panelX := int32(cfg.Grid.Cols * cfg.Screen.CellSize)
	panel := ui.NewControlsPanel(panelX, int32(cfg.Screen.PanelWidth), int32(cfg.Derived.ScreenH))

	for !rl.WindowShouldClose() {
		panel.HandleInput(g, gridView)
		g.Update()
		gridView.Update(g.Grid())

		rl.BeginDrawing()
		rl.ClearBackground(rl.White)
		gridView.Draw(g.Home())
		panel.Draw(g)
		rl.EndDrawing()

		if maxTicks > 0 && g.Tick() >= maxTicks {
			break
		}
	}

	g.LogColony()
	return nil
}
