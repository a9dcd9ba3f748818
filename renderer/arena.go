package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/antcolony/camera"
	"github.com/pthm-cable/antcolony/colony"
	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/systems"
)

// Ant is the drawable state of one agent.
type Ant struct {
	Pos      components.Position
	Variant  colony.Variant
	Carrying bool
	Speed    float64
}

// Scene is everything drawn in one frame.
type Scene struct {
	ArenaW, ArenaH float64
	Nest           components.Position
	NestRadius     float64
	Food           []systems.Source
	Pheromones     []systems.Deposit
	Ants           []Ant
}

// ArenaRenderer draws the nest, food, pheromone trails and agents.
type ArenaRenderer struct {
	ShowTrails bool
}

// NewArenaRenderer creates a renderer with trails enabled.
func NewArenaRenderer() *ArenaRenderer {
	return &ArenaRenderer{ShowTrails: true}
}

// Draw renders the scene through the camera. Trails are drawn under food
// and agents.
func (r *ArenaRenderer) Draw(s Scene, cam *camera.Camera) {
	x0, y0 := cam.WorldToScreen(0, 0)
	rl.DrawRectangleV(
		rl.Vector2{X: x0, Y: y0},
		rl.Vector2{X: cam.Scale(float32(s.ArenaW)), Y: cam.Scale(float32(s.ArenaH))},
		BackgroundColor,
	)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: x0, Y: y0, Width: cam.Scale(float32(s.ArenaW)), Height: cam.Scale(float32(s.ArenaH))},
		1, ArenaEdgeColor,
	)

	drawCircle(cam, s.Nest, float32(s.NestRadius), NestColor)

	for i := range s.Food {
		f := &s.Food[i]
		drawCircle(cam, f.Pos, FoodRadius(f.Stock), FoodColor(f.Stock))
	}

	if r.ShowTrails {
		for i := range s.Pheromones {
			d := &s.Pheromones[i]
			drawCircle(cam, d.Pos, PheromoneRadius(d.Intensity), PheromoneColor(d.Intensity))
		}
	}

	for i := range s.Ants {
		a := &s.Ants[i]
		drawCircle(cam, a.Pos, AntRadius(a.Speed), AntColor(a.Variant, a.Carrying))
	}
}

func drawCircle(cam *camera.Camera, p components.Position, radius float32, color rl.Color) {
	x, y := float32(p.X), float32(p.Y)
	if !cam.IsVisible(x, y, radius) {
		return
	}
	sx, sy := cam.WorldToScreen(x, y)
	rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, max(cam.Scale(radius), 1), color)
}
