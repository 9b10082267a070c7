package systems

import (
	"math/rand"
	"testing"
)

func TestGenerateTerrainDeterministic(t *testing.T) {
	p := TerrainParams{Seed: 7, Scale: 0.08, Threshold: 0.6, Clearance: 3}

	a := NewGrid(60, 40, 30)
	b := NewGrid(60, 40, 30)
	na := GenerateTerrain(a, p, 30, 20)
	nb := GenerateTerrain(b, p, 30, 20)

	if na != nb {
		t.Fatalf("same seed placed %d vs %d obstacles", na, nb)
	}
	for y := 0; y < 40; y++ {
		for x := 0; x < 60; x++ {
			if a.HasObstacle(x, y) != b.HasObstacle(x, y) {
				t.Fatalf("layouts differ at (%d,%d)", x, y)
			}
		}
	}
}

func TestGenerateTerrainKeepsHomeClear(t *testing.T) {
	// Threshold below the noise range blocks everything outside the clearance
	p := TerrainParams{Seed: 1, Scale: 0.1, Threshold: -1, Clearance: 2}
	g := NewGrid(20, 20, 30)
	placed := GenerateTerrain(g, p, 0, 0)

	if placed != 20*20-5*5 {
		t.Errorf("placed = %d, want %d", placed, 20*20-5*5)
	}
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			if g.HasObstacle(dx, dy) {
				t.Errorf("obstacle inside clearance at (%d,%d)", dx, dy)
			}
		}
	}
	if !g.HasObstacle(10, 10) {
		t.Error("expected obstacle far from home")
	}
}

func TestTorusDelta(t *testing.T) {
	tests := []struct{ a, b, n, want int }{
		{0, 0, 10, 0},
		{1, 9, 10, 2},
		{9, 1, 10, 2},
		{3, 7, 10, 4},
		{0, 5, 10, 5},
	}
	for _, tt := range tests {
		if got := torusDelta(tt.a, tt.b, tt.n); got != tt.want {
			t.Errorf("torusDelta(%d,%d,%d) = %d, want %d", tt.a, tt.b, tt.n, got, tt.want)
		}
	}
}

func TestScatterFood(t *testing.T) {
	g := NewGrid(10, 10, 30)
	rng := rand.New(rand.NewSource(4))
	placed := ScatterFood(g, rng, 5, 5, 5)

	if placed != g.CountFood() {
		t.Errorf("placed = %d, grid holds %d", placed, g.CountFood())
	}
	if placed < 1 || placed > 5 {
		t.Errorf("placed = %d, want 1..5", placed)
	}
	if g.HasFood(5, 5) {
		t.Error("food placed on the excluded home cell")
	}
}

func TestPlaceFoodCells(t *testing.T) {
	g := NewGrid(5, 5, 30)
	PlaceFoodCells(g, [][2]int{{1, 1}, {6, 2}, {-1, -1}})

	for _, c := range [][2]int{{1, 1}, {1, 2}, {4, 4}} {
		if !g.HasFood(c[0], c[1]) {
			t.Errorf("expected food at %v", c)
		}
	}
	if g.CountFood() != 3 {
		t.Errorf("food cells = %d, want 3", g.CountFood())
	}
}
