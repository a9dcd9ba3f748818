package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/antcolony/camera"
	"github.com/pthm-cable/antcolony/colony"
	"github.com/pthm-cable/antcolony/game"
	"github.com/pthm-cable/antcolony/renderer"
)

// Window is the interactive front end: the arena on the left, the HUD panel
// on the right. Create it after rl.InitWindow.
type Window struct {
	game   *game.Game
	camera *camera.Camera
	arena  *renderer.ArenaRenderer
	hud    *HUD
	insp   *Inspector

	panelWidth                float32
	screenWidth, screenHeight float32
}

// NewWindow wraps g for display.
func NewWindow(g *game.Game) *Window {
	cfg := g.Config()
	w := &Window{
		game:         g,
		arena:        renderer.NewArenaRenderer(),
		panelWidth:   float32(cfg.Screen.PanelWidth),
		screenWidth:  float32(cfg.Screen.Width),
		screenHeight: float32(cfg.Screen.Height),
	}
	w.camera = camera.New(w.arenaViewportWidth(), w.screenHeight, float32(cfg.Derived.ArenaW), float32(cfg.Derived.ArenaH))
	w.hud = NewHUD(int32(w.arenaViewportWidth()), int32(w.panelWidth), int32(w.screenHeight))
	w.insp = NewInspector()
	return w
}

// arenaViewportWidth is the screen width left of the HUD panel.
func (w *Window) arenaViewportWidth() float32 {
	return max(w.screenWidth-w.panelWidth, 1)
}

// Update handles input and advances the game.
func (w *Window) Update() {
	w.handleInput()
	w.game.RecordFrame()
	w.game.Update()
}

// Draw renders one frame.
func (w *Window) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	env := w.game.Environment()
	agents := env.Agents()
	nest, nestRadius := env.Nest()
	cfg := w.game.Config()

	scene := renderer.Scene{
		ArenaW:     cfg.Derived.ArenaW,
		ArenaH:     cfg.Derived.ArenaH,
		Nest:       nest,
		NestRadius: nestRadius,
		Food:       env.FoodSources(),
		Pheromones: env.Pheromones(),
		Ants:       make([]renderer.Ant, len(agents)),
	}
	for i, a := range agents {
		scene.Ants[i] = renderer.Ant{Pos: a.Pos, Variant: a.Variant, Carrying: a.CarryingFood, Speed: a.Traits.Speed}
	}
	w.arena.Draw(scene, w.camera)
	if a, ok := w.insp.Selected(env); ok {
		w.insp.Draw(a, w.camera)
	}

	ctl := w.hud.Draw(w.hudData(agents, scene), Controls{
		Paused:         w.game.Paused(),
		StepsPerUpdate: w.game.StepsPerUpdate(),
		ShowTrails:     w.arena.ShowTrails,
	})
	w.game.SetPaused(ctl.Paused)
	w.game.SetStepsPerUpdate(ctl.StepsPerUpdate)
	w.arena.ShowTrails = ctl.ShowTrails

	rl.EndDrawing()
}

// hudData gathers the panel values. Trait means are over foragers, the
// evolved population.
func (w *Window) hudData(agents []game.AgentView, scene renderer.Scene) HUDData {
	env := w.game.Environment()
	perf := w.game.PerfStats()
	d := HUDData{
		Generation:          env.Generation(),
		TotalFood:           env.TotalFood(),
		DeliveriesRemaining: env.DeliveriesRemaining(),
		DeliveryThreshold:   w.game.Config().Genetics.DeliveryThreshold,
		Sources:             len(scene.Food),
		Pheromones:          len(scene.Pheromones),
		Tick:                env.TickCount(),
		TicksPerSec:         perf.TicksPerSecond,
		PhasePct:            perf.PhasePct,
		FPS:                 rl.GetFPS(),
	}
	for _, f := range scene.Food {
		d.FoodRemaining += f.Stock
	}
	for _, a := range agents {
		if a.CarryingFood {
			d.Carrying++
		}
		if a.Variant == colony.Scout {
			d.Scouts++
			continue
		}
		d.Foragers++
		d.AvgSpeed += a.Traits.Speed
		d.AvgSense += a.Traits.SenseRange
		d.AvgStrength += a.Traits.PheromoneStrength
	}
	if d.Foragers > 0 {
		n := float64(d.Foragers)
		d.AvgSpeed /= n
		d.AvgSense /= n
		d.AvgStrength /= n
	}
	if last := env.LastGeneration(); last != nil {
		d.BestFitness = last.BestFitness
	}
	return d
}
