package game

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/pthm-cable/formica/components"
	"github.com/pthm-cable/formica/config"
	"github.com/pthm-cable/formica/telemetry"
)

// testConfig returns a small colony on a 30x30 torus with two food cells.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Grid.Cols, cfg.Grid.Rows = 30, 30
	cfg.Colony.Agents = 200
	cfg.Colony.Home = [2]int{-1, -1}
	cfg.Food.Random = 0
	cfg.Food.Cells = [][2]int{{20, 15}, {5, 5}}
	cfg.Telemetry.StatsWindow = 100
	return cfg
}

func newTestGame(t *testing.T, cfg *config.Config, opts Options) *Game {
	t.Helper()
	g, err := New(cfg, opts)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

// checkInvariants verifies pheromone bounds and that occupancy matches
// agent positions exactly.
func checkInvariants(t *testing.T, g *Game) {
	t.Helper()
	grid := g.Grid()

	want := make(map[[2]int]int)
	for _, a := range g.Agents(nil) {
		want[[2]int{a.X, a.Y}]++
	}

	total := 0
	for y := 0; y < grid.Rows; y++ {
		for x := 0; x < grid.Cols; x++ {
			if p := grid.Pheromone(x, y); p < 0 || p > grid.MaxPheromone {
				t.Fatalf("tick %d: pheromone at (%d,%d) = %d outside [0,%d]", g.Tick(), x, y, p, grid.MaxPheromone)
			}
			n := grid.Occupants(x, y)
			if n != want[[2]int{x, y}] {
				t.Fatalf("tick %d: occupancy at (%d,%d) = %d, agents there = %d", g.Tick(), x, y, n, want[[2]int{x, y}])
			}
			total += n
		}
	}
	if total != g.cfg.Colony.Agents {
		t.Fatalf("tick %d: occupancy total %d, want %d", g.Tick(), total, g.cfg.Colony.Agents)
	}
}

func TestNewSpawnsAtHome(t *testing.T) {
	g := newTestGame(t, testConfig(), Options{Seed: 1})

	hx, hy := g.Home()
	if hx != 15 || hy != 15 {
		t.Errorf("home = (%d,%d), want (15,15)", hx, hy)
	}
	agents := g.Agents(nil)
	if len(agents) != 200 {
		t.Fatalf("agents = %d, want 200", len(agents))
	}
	for _, a := range agents {
		if a.X != hx || a.Y != hy || a.Dir != components.DirUp || a.Mode != components.ModeSearching || a.TrailLen != 0 {
			t.Fatalf("agent not in initial state: %+v", a)
		}
	}
	if g.Grid().Occupants(hx, hy) != 200 {
		t.Errorf("home occupants = %d, want 200", g.Grid().Occupants(hx, hy))
	}
	if g.Grid().CountFood() != 2 {
		t.Errorf("food cells = %d, want 2", g.Grid().CountFood())
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero cols", func(c *config.Config) { c.Grid.Cols = 0 }},
		{"pheromone cap beyond cell range", func(c *config.Config) { c.Pheromone.Max = 400 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			if _, err := New(cfg, Options{}); !errors.Is(err, config.ErrInvalid) {
				t.Errorf("New error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestPheromoneCapMatchesConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Pheromone.Max = config.PheromoneCeiling
	g := newTestGame(t, cfg, Options{Seed: 1})

	for i := 0; i < 1000; i++ {
		g.Grid().Deposit(3, 3)
	}
	if got := g.Grid().Pheromone(3, 3); got != cfg.Pheromone.Max {
		t.Errorf("pheromone after 1000 deposits = %d, want configured cap %d", got, cfg.Pheromone.Max)
	}
}

func TestStepKeepsInvariants(t *testing.T) {
	g := newTestGame(t, testConfig(), Options{Seed: 7})

	for i := 0; i < 2000; i++ {
		g.Step()
		if i%100 == 0 {
			checkInvariants(t, g)
		}
	}
	checkInvariants(t, g)

	if g.Tick() != 2000 {
		t.Errorf("tick = %d, want 2000", g.Tick())
	}
	if g.TotalDeliveries() == 0 {
		t.Error("no food delivered in 2000 ticks")
	}
}

func TestParallelStepKeepsInvariants(t *testing.T) {
	cfg := testConfig()
	cfg.Colony.Agents = 500
	g := newTestGame(t, cfg, Options{Seed: 3, Workers: 4})

	if g.Workers() != 4 {
		t.Fatalf("workers = %d, want 4", g.Workers())
	}
	for i := 0; i < 500; i++ {
		g.Step()
	}
	checkInvariants(t, g)

	searching, carrying, forced := g.ModeCounts()
	if searching+carrying+forced != 500 {
		t.Errorf("mode counts sum to %d, want 500", searching+carrying+forced)
	}
}

func TestDeterminism(t *testing.T) {
	a := newTestGame(t, testConfigWithRandomFood(), Options{Seed: 42})
	b := newTestGame(t, testConfigWithRandomFood(), Options{Seed: 42})

	for i := 0; i < 600; i++ {
		a.Step()
		b.Step()
	}

	va, vb := a.Agents(nil), b.Agents(nil)
	for i := range va {
		if va[i] != vb[i] {
			t.Fatalf("agent %d diverged: %+v vs %+v", i, va[i], vb[i])
		}
	}
	ga, gb := a.Grid(), b.Grid()
	for y := 0; y < ga.Rows; y++ {
		for x := 0; x < ga.Cols; x++ {
			if ga.Pheromone(x, y) != gb.Pheromone(x, y) || ga.HasFood(x, y) != gb.HasFood(x, y) {
				t.Fatalf("grids diverged at (%d,%d)", x, y)
			}
		}
	}
}

func testConfigWithRandomFood() *config.Config {
	cfg := testConfig()
	cfg.Food.Random = 3
	return cfg
}

func TestForcedReturnScenario(t *testing.T) {
	cfg := config.Default()
	cfg.Grid.Cols, cfg.Grid.Rows = 3, 3
	cfg.Colony.Agents = 1
	cfg.Colony.Home = [2]int{1, 1}
	cfg.Food.Random = 0
	cfg.Food.Cells = nil
	g := newTestGame(t, cfg, Options{Seed: 11})

	for i := 0; i < 401; i++ {
		g.Step()
	}
	agent := g.Agents(nil)[0]
	if agent.Mode != components.ModeForcedReturn {
		t.Fatalf("mode after 401 ticks = %v, want forced_return", agent.Mode)
	}

	prev := agent.TrailLen
	for agent.Mode == components.ModeForcedReturn {
		g.Step()
		agent = g.Agents(nil)[0]
		if agent.Mode == components.ModeForcedReturn && agent.TrailLen >= prev {
			t.Fatalf("trail did not shrink: %d -> %d", prev, agent.TrailLen)
		}
		prev = agent.TrailLen
	}
	if agent.X != 1 || agent.Y != 1 || agent.Mode != components.ModeSearching {
		t.Errorf("agent ended at (%d,%d) mode %v, want home searching", agent.X, agent.Y, agent.Mode)
	}
	if g.Grid().TotalPheromone() != 0 {
		t.Errorf("forced return deposited %d units", g.Grid().TotalPheromone())
	}
}

func TestPlacement(t *testing.T) {
	g := newTestGame(t, testConfig(), Options{Seed: 1})
	grid := g.Grid()

	tests := []struct {
		name         string
		tool         Tool
		x, y         int
		wantFood     bool
		wantObstacle bool
	}{
		{"food", ToolFood, 3, 3, true, false},
		{"obstacle replaces food", ToolObstacle, 3, 3, false, true},
		{"food replaces obstacle", ToolFood, 3, 3, true, false},
		{"erase", ToolErase, 3, 3, false, false},
		{"wrapped obstacle", ToolObstacle, -1, 31, false, true},
		{"home stays open", ToolObstacle, 15, 15, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g.Apply(tt.tool, tt.x, tt.y)
			if got := grid.HasFood(tt.x, tt.y); got != tt.wantFood {
				t.Errorf("food = %v, want %v", got, tt.wantFood)
			}
			if got := grid.HasObstacle(tt.x, tt.y); got != tt.wantObstacle {
				t.Errorf("obstacle = %v, want %v", got, tt.wantObstacle)
			}
		})
	}

	if !grid.HasObstacle(29, 1) {
		t.Error("(-1,31) should wrap to (29,1)")
	}
}

func TestStatsWindows(t *testing.T) {
	cfg := testConfig()
	cfg.Telemetry.StatsWindow = 10

	var windows []telemetry.WindowStats
	g := newTestGame(t, cfg, Options{
		Seed:          5,
		StatsCallback: func(s telemetry.WindowStats) { windows = append(windows, s) },
	})

	for i := 0; i < 35; i++ {
		g.Step()
	}

	if len(windows) != 3 {
		t.Fatalf("windows = %d, want 3", len(windows))
	}
	for i, w := range windows {
		if w.WindowEndTick != int64(10*(i+1)) {
			t.Errorf("window %d ends at %d, want %d", i, w.WindowEndTick, 10*(i+1))
		}
		if w.Searching+w.Carrying+w.ForcedReturn != 200 {
			t.Errorf("window %d mode counts sum to %d", i, w.Searching+w.Carrying+w.ForcedReturn)
		}
	}
	// Every agent acts once per tick
	first := windows[0]
	acted := first.Moves + first.Blocked + first.Pickups + first.GaveUp + first.Retraces + first.Deliveries + first.ReturnedEmpty
	if acted != 200*10 {
		t.Errorf("events in first window = %d, want %d", acted, 200*10)
	}
}

func TestUpdatePaused(t *testing.T) {
	g := newTestGame(t, testConfig(), Options{Seed: 1, StepsPerUpdate: 3})

	g.Update()
	if g.Tick() != 3 {
		t.Errorf("tick = %d, want 3", g.Tick())
	}
	g.SetPaused(true)
	g.Update()
	if g.Tick() != 3 {
		t.Errorf("paused update advanced to %d", g.Tick())
	}
	g.UpdateHeadless()
	if g.Tick() != 6 {
		t.Errorf("headless update tick = %d, want 6", g.Tick())
	}

	g.SetStepsPerUpdate(1000)
	if g.StepsPerUpdate() != MaxStepsPerUpdate {
		t.Errorf("steps per update = %d, want clamp to %d", g.StepsPerUpdate(), MaxStepsPerUpdate)
	}
}

func TestOutputDir(t *testing.T) {
	cfg := testConfig()
	cfg.Telemetry.StatsWindow = 50
	dir := filepath.Join(t.TempDir(), "out")

	g, err := New(cfg, Options{Seed: 1, OutputDir: dir})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	for i := 0; i < 100; i++ {
		g.Step()
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	for _, name := range []string{"config.yaml", "telemetry.csv", "perf.csv"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s missing: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func BenchmarkStep(b *testing.B) {
	cfg := config.Default()
	g, err := New(cfg, Options{Seed: 1})
	if err != nil {
		b.Fatal(err)
	}
	defer g.Close()

	// Let trails form before timing
	for i := 0; i < 500; i++ {
		g.Step()
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Step()
	}
}

func TestTerrainSeed(t *testing.T) {
	obstacles := func(terrainSeed, runSeed int64) []int {
		cfg := testConfig()
		cfg.Terrain.Enabled = true
		cfg.Terrain.Threshold = 0.5
		cfg.Terrain.Seed = terrainSeed
		g := newTestGame(t, cfg, Options{Seed: runSeed})

		var cells []int
		grid := g.Grid()
		for y := 0; y < grid.Rows; y++ {
			for x := 0; x < grid.Cols; x++ {
				if grid.HasObstacle(x, y) {
					cells = append(cells, y*grid.Cols+x)
				}
			}
		}
		return cells
	}

	pinned := obstacles(77, 1)
	if len(pinned) == 0 {
		t.Fatal("expected some obstacles at threshold 0.5")
	}

	tests := []struct {
		name        string
		terrainSeed int64
		runSeed     int64
		want        []int
	}{
		{"pinned seed ignores run seed", 77, 2, pinned},
		{"zero follows run seed", 0, 77, pinned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := obstacles(tt.terrainSeed, tt.runSeed); !slices.Equal(got, tt.want) {
				t.Errorf("obstacle layout differs: %d cells vs %d", len(got), len(tt.want))
			}
		})
	}
}
