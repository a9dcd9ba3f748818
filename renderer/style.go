// Package renderer draws the arena with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/antcolony/colony"
)

// Palette
var (
	BackgroundColor = rl.Color{R: 81, G: 58, B: 42, A: 255}
	NestColor       = rl.Color{R: 53, G: 40, B: 30, A: 255}
	ArenaEdgeColor  = rl.Color{R: 110, G: 84, B: 64, A: 255}

	foragerColor         = rl.Color{R: 0, G: 0, B: 0, A: 255}
	foragerCarryingColor = rl.Color{R: 255, G: 0, B: 0, A: 255}
	scoutColor           = rl.Color{R: 0, G: 100, B: 0, A: 255}
	scoutCarryingColor   = rl.Color{R: 0, G: 255, B: 0, A: 255}
)

// pheromoneRGB is yellow; alpha comes from intensity.
var pheromoneRGB = rl.Color{R: 255, G: 255, B: 0}

// FoodColor shades a source redder the more stock it holds.
func FoodColor(stock int) rl.Color {
	r := min(max(stock*10, 0), 255)
	return rl.Color{R: uint8(r), G: 17, B: 18, A: 255}
}

// FoodRadius shrinks a source as it is consumed.
func FoodRadius(stock int) float32 {
	return float32(5 + stock)
}

// PheromoneRadius grows with intensity, between 1 and 3.
func PheromoneRadius(intensity float64) float32 {
	return float32(min(max(intensity/5, 1), 3))
}

// PheromoneColor fades weak deposits out.
func PheromoneColor(intensity float64) rl.Color {
	c := pheromoneRGB
	c.A = uint8(min(255, max(0, intensity*80)))
	return c
}

// AntRadius makes fast agents larger, between 2 and 5.
func AntRadius(speed float64) float32 {
	return float32(min(max(speed/2+1, 2), 5))
}

// AntColor picks the colour by variant and carrying state.
func AntColor(v colony.Variant, carrying bool) rl.Color {
	switch {
	case v == colony.Scout && carrying:
		return scoutCarryingColor
	case v == colony.Scout:
		return scoutColor
	case carrying:
		return foragerCarryingColor
	default:
		return foragerColor
	}
}
