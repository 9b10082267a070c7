package systems

import "math/rand"

// ScatterFood places n food cells uniformly at random, skipping the
// excluded cell. Duplicate draws are not retried, so fewer than n cells
// may result.
func ScatterFood(g *Grid, rng *rand.Rand, n, excludeX, excludeY int) int {
	placed := 0
	for i := 0; i < n; i++ {
		x := rng.Intn(g.Cols)
		y := rng.Intn(g.Rows)
		if x == excludeX && y == excludeY {
			continue
		}
		if !g.HasFood(x, y) {
			placed++
		}
		g.PlaceFood(x, y)
	}
	return placed
}

// PlaceFoodCells marks each listed cell as food, wrapping coordinates.
func PlaceFoodCells(g *Grid, cells [][2]int) {
	for _, c := range cells {
		g.PlaceFood(c[0], c[1])
	}
}
