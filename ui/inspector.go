package ui

import (
	"fmt"

	"github.com/dustin/go-humanize"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/antcolony/camera"
	"github.com/pthm-cable/antcolony/colony"
	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/game"
)

// Inspector panel layout
const (
	inspectorWidth  = 220
	inspectorHeader = 26
	hitRadiusPx     = 8 // click tolerance in screen pixels
)

var colorCloseBtn = rl.Color{R: 180, G: 80, B: 80, A: 255}

// Inspector tracks the selected ant and draws its details over the arena.
type Inspector struct {
	renderer *Renderer
	selected uint32
	active   bool
	x, y     int32
}

// NewInspector creates an inspector panel anchored at the arena's top left.
func NewInspector() *Inspector {
	return &Inspector{renderer: NewRenderer(), x: 10, y: 10}
}

// closeRect is the header close button.
func (ins *Inspector) closeRect() rl.Rectangle {
	return rl.Rectangle{X: float32(ins.x + inspectorWidth - 24), Y: float32(ins.y + 4), Width: 18, Height: 18}
}

// HandleInput selects the ant under a left click inside the arena viewport.
// Right click or Escape deselects.
func (ins *Inspector) HandleInput(env *game.Environment, cam *camera.Camera, viewportW float32) {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) || rl.IsKeyPressed(rl.KeyEscape) {
		ins.Deselect()
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}

	mouse := rl.GetMousePosition()
	if mouse.X >= viewportW {
		return
	}
	if ins.active {
		if rl.CheckCollisionPointRec(mouse, ins.closeRect()) {
			ins.Deselect()
			return
		}
		// Clicks on the panel itself are ignored
		if rl.CheckCollisionPointRec(mouse, rl.Rectangle{X: float32(ins.x), Y: float32(ins.y), Width: inspectorWidth, Height: float32(ins.height())}) {
			return
		}
	}

	wx, wy := cam.ScreenToWorld(mouse.X, mouse.Y)
	radius := float64(hitRadiusPx / cam.Scale(1))
	if a, ok := env.AgentAt(components.Position{X: float64(wx), Y: float64(wy)}, radius); ok {
		ins.selected = a.ID
		ins.active = true
	}
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.active = false
}

// Selected returns the selected ant, dropping the selection once the ant has
// been replaced by evolution.
func (ins *Inspector) Selected(env *game.Environment) (game.AgentView, bool) {
	if !ins.active {
		return game.AgentView{}, false
	}
	a, ok := env.AgentByID(ins.selected)
	if !ok {
		ins.Deselect()
	}
	return a, ok
}

func (ins *Inspector) height() int32 {
	return inspectorHeader + 11*ins.renderer.Theme.LineHeight + 2*ins.renderer.Theme.Padding
}

// Draw renders the panel for a, highlighting it in the arena.
func (ins *Inspector) Draw(a game.AgentView, cam *camera.Camera) {
	sx, sy := cam.WorldToScreen(float32(a.Pos.X), float32(a.Pos.Y))
	rl.DrawCircleLines(int32(sx), int32(sy), max(cam.Scale(6), 6), rl.White)

	r := ins.renderer
	pad := r.Theme.Padding
	r.DrawPanel(ins.x, ins.y, inspectorWidth, ins.height())

	rl.DrawRectangle(ins.x, ins.y, inspectorWidth, inspectorHeader, r.Theme.PanelBorder)
	rl.DrawText("INSPECTOR", ins.x+pad, ins.y+6, r.Theme.HeaderFontSize, rl.White)
	c := ins.closeRect()
	rl.DrawRectangleRec(c, colorCloseBtn)
	rl.DrawText("X", int32(c.X)+5, int32(c.Y)+3, r.Theme.FontSize, rl.White)

	variant := "Forager"
	if a.Variant == colony.Scout {
		variant = "Scout"
	}
	state := "exploring"
	switch {
	case a.CarryingFood:
		state = "carrying food"
	case !a.Exploring:
		state = "following trail"
	}

	x := ins.x + pad
	y := ins.y + inspectorHeader + pad
	y = r.DrawLabelValue(x, y, "Ant", fmt.Sprintf("#%d %s", a.ID, variant))
	y = r.DrawLabelValue(x, y, "State", state)
	y = r.DrawLabelValue(x, y, "Position", fmt.Sprintf("(%.0f, %.0f)", a.Pos.X, a.Pos.Y))
	y = r.DrawSectionHeader(x, y, "Traits")
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%.2f", a.Traits.Speed))
	y = r.DrawLabelValue(x, y, "Sense", fmt.Sprintf("%.1f", a.Traits.SenseRange))
	y = r.DrawLabelValue(x, y, "Strength", fmt.Sprintf("%.2f", a.Traits.PheromoneStrength))
	y = r.DrawSectionHeader(x, y, "This generation")
	y = r.DrawLabelValue(x, y, "Food", humanize.Comma(int64(a.FoodCollected)))
	y = r.DrawLabelValue(x, y, "Steps", humanize.Comma(int64(a.StepsTaken)))
	r.DrawLabelValue(x, y, "Trail", fmt.Sprintf("%d points", a.PathLen))
}
