package renderer

import "image/color"

// Cell colors.
var (
	ColorEmpty    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	ColorFood     = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	ColorAgent    = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	ColorObstacle = color.RGBA{R: 70, G: 70, B: 80, A: 255}
	ColorHome     = color.RGBA{R: 0, G: 0, B: 255, A: 255}
)

// PheromoneColor maps a trail strength onto a white-pink-red-black ramp.
// Up to 10 the green and blue channels fade from white toward red; above
// 10 the red channel darkens by 15 per unit.
func PheromoneColor(level int) color.RGBA {
	switch {
	case level <= 0:
		return ColorEmpty
	case level <= 10:
		c := uint8(255 - level*25)
		return color.RGBA{R: 255, G: c, B: c, A: 255}
	default:
		r := max(0, 255-(level-10)*15)
		return color.RGBA{R: uint8(r), A: 255}
	}
}

// CellColor picks the color of one cell. Food wins over agents, agents
// over obstacles, obstacles over pheromone.
func CellColor(food, occupied, obstacle bool, pheromone int) color.RGBA {
	switch {
	case food:
		return ColorFood
	case occupied:
		return ColorAgent
	case obstacle:
		return ColorObstacle
	default:
		return PheromoneColor(pheromone)
	}
}
