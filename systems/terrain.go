package systems

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

// TerrainParams controls noise-generated obstacle fields.
type TerrainParams struct {
	Seed      int64
	Scale     float64 // Noise frequency per cell
	Threshold float64 // Normalized noise above this becomes obstacle
	Clearance int     // Chebyshev radius kept open around (keepX, keepY)
}

// GenerateTerrain places obstacles where tileable OpenSimplex noise
// exceeds the threshold and returns how many cells were blocked.
// Cells within Clearance of (keepX, keepY) stay open so the colony can
// always leave home. Same seed, same layout.
func GenerateTerrain(g *Grid, p TerrainParams, keepX, keepY int) int {
	noise := opensimplex.NewNormalized(p.Seed)
	placed := 0

	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Cols; x++ {
			if withinChebyshev(g, x, y, keepX, keepY, p.Clearance) {
				continue
			}
			if tileableNoise(noise, g, x, y, p.Scale) > p.Threshold {
				g.PlaceObstacle(x, y)
				placed++
			}
		}
	}
	return placed
}

// tileableNoise samples 4D noise on a torus embedding so the field
// wraps seamlessly on both axes like the grid itself.
func tileableNoise(n opensimplex.Noise, g *Grid, x, y int, scale float64) float64 {
	// Circumference in noise units; radius r = circ / 2pi
	rx := float64(g.Cols) * scale / (2 * math.Pi)
	ry := float64(g.Rows) * scale / (2 * math.Pi)
	ax := 2 * math.Pi * float64(x) / float64(g.Cols)
	ay := 2 * math.Pi * float64(y) / float64(g.Rows)
	return n.Eval4(rx*math.Cos(ax), rx*math.Sin(ax), ry*math.Cos(ay), ry*math.Sin(ay))
}

// withinChebyshev reports whether (x, y) lies within r cells of (cx, cy)
// measured on the torus.
func withinChebyshev(g *Grid, x, y, cx, cy, r int) bool {
	if r < 0 {
		return false
	}
	return torusDelta(x, cx, g.Cols) <= r && torusDelta(y, cy, g.Rows) <= r
}

// torusDelta is the shortest wrapped distance between a and b on an axis of length n.
func torusDelta(a, b, n int) int {
	d := modInt(a-b, n)
	if n-d < d {
		return n - d
	}
	return d
}
