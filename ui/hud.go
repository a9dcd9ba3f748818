package ui

import (
	"fmt"

	"github.com/dustin/go-humanize"
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/antcolony/game"
	"github.com/pthm-cable/antcolony/telemetry"
)

// HUDData holds everything the side panel shows.
type HUDData struct {
	Generation          int
	TotalFood           int
	DeliveriesRemaining int
	DeliveryThreshold   int
	Foragers            int
	Scouts              int
	Carrying            int
	Sources             int
	FoodRemaining       int
	Pheromones          int
	AvgSpeed            float64
	AvgSense            float64
	AvgStrength         float64
	BestFitness         float64 // last generation, 0 before the first
	Tick                int64
	TicksPerSec         float64
	FPS                 int32
	PhasePct            map[string]float64 // share of the average tick per phase
}

// Controls is the state changed through the panel widgets.
type Controls struct {
	Paused         bool
	StepsPerUpdate int
	ShowTrails     bool
}

// hudSections lists the panel contents top to bottom.
var hudSections = []SectionDescriptor{
	{
		Title: "Colony",
		Fields: []FieldDescriptor{
			{Label: "Generation", TextGetter: func(d *HUDData) string { return humanize.Comma(int64(d.Generation)) }},
			{Label: "Food collected", TextGetter: func(d *HUDData) string { return humanize.Comma(int64(d.TotalFood)) }},
			{Label: "Next evolution", TextGetter: func(d *HUDData) string { return fmt.Sprintf("%d food", d.DeliveriesRemaining) }},
			{Label: "Progress", Widget: WidgetBar, Getter: evolutionProgress},
			{Label: "Ants", TextGetter: func(d *HUDData) string {
				return fmt.Sprintf("%d + %d scouts", d.Foragers, d.Scouts)
			}},
			{Label: "Carrying", TextGetter: func(d *HUDData) string { return humanize.Comma(int64(d.Carrying)) }},
		},
	},
	{
		Title: "Field",
		Fields: []FieldDescriptor{
			{Label: "Food sources", TextGetter: func(d *HUDData) string { return humanize.Comma(int64(d.Sources)) }},
			{Label: "Food left", TextGetter: func(d *HUDData) string { return humanize.Comma(int64(d.FoodRemaining)) }},
			{Label: "Pheromones", TextGetter: func(d *HUDData) string { return humanize.Comma(int64(d.Pheromones)) }},
		},
	},
	{
		Title: "Population means",
		Fields: []FieldDescriptor{
			{Label: "Speed", TextGetter: func(d *HUDData) string { return fmt.Sprintf("%.2f", d.AvgSpeed) }},
			{Label: "Sense", TextGetter: func(d *HUDData) string { return fmt.Sprintf("%.2f", d.AvgSense) }},
			{Label: "Strength", TextGetter: func(d *HUDData) string { return fmt.Sprintf("%.2f", d.AvgStrength) }},
			{Label: "Best fitness", TextGetter: func(d *HUDData) string { return fmt.Sprintf("%.3f", d.BestFitness) }},
		},
	},
	{
		Title: "Run",
		Fields: []FieldDescriptor{
			{Label: "Tick", TextGetter: func(d *HUDData) string { return humanize.Comma(d.Tick) }},
			{Label: "Ticks/s", TextGetter: func(d *HUDData) string { return humanize.CommafWithDigits(d.TicksPerSec, 0) }},
			{Label: "FPS", TextGetter: func(d *HUDData) string { return fmt.Sprintf("%d", d.FPS) }},
		},
	},
}

func evolutionProgress(d *HUDData) float32 {
	if d.DeliveryThreshold <= 0 {
		return 0
	}
	return float32(d.DeliveryThreshold-d.DeliveriesRemaining) / float32(d.DeliveryThreshold)
}

// HUD renders the side panel and its controls.
type HUD struct {
	renderer *Renderer
	phases   *telemetry.PhaseRegistry
	x, width int32
	height   int32
}

// NewHUD creates a panel occupying the screen strip starting at x.
func NewHUD(x, width, height int32) *HUD {
	return &HUD{renderer: NewRenderer(), phases: telemetry.NewPhaseRegistry(), x: x, width: width, height: height}
}

// Resize moves the panel after a window resize.
func (h *HUD) Resize(x, height int32) {
	h.x = x
	h.height = height
}

// Draw renders the panel and returns the controls after this frame's input.
func (h *HUD) Draw(data HUDData, ctl Controls) Controls {
	r := h.renderer
	pad := r.Theme.Padding
	inner := h.width - 2*pad

	r.DrawPanel(h.x, 0, h.width, h.height)

	y := pad
	rl.DrawText("Ant Colony", h.x+pad, y, 20, rl.White)
	y += 28

	for _, sec := range hudSections {
		y = r.DrawSection(h.x+pad, y, sec, &data, inner)
	}

	if len(data.PhasePct) > 0 {
		y = r.DrawSectionHeader(h.x+pad, y, "Tick phases")
		for _, p := range h.phases.All() {
			if pct, ok := data.PhasePct[p.ID]; ok && pct >= 0.5 {
				y = r.DrawLabelValue(h.x+pad, y, p.Name, fmt.Sprintf("%.0f%%", pct))
			}
		}
	}

	y += 6
	fx := float32(h.x + pad)
	label := "Pause"
	if ctl.Paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: fx, Y: float32(y), Width: float32(inner), Height: 24}, label) {
		ctl.Paused = !ctl.Paused
	}
	y += 32

	rl.DrawText(fmt.Sprintf("Steps per frame: %d", ctl.StepsPerUpdate), h.x+pad, y, r.Theme.FontSize, r.Theme.LabelColor)
	y += 16
	steps := gui.SliderBar(
		rl.Rectangle{X: fx, Y: float32(y), Width: float32(inner), Height: 16},
		"", "",
		float32(ctl.StepsPerUpdate), 1, game.MaxStepsPerUpdate,
	)
	ctl.StepsPerUpdate = min(max(int(steps+0.5), 1), game.MaxStepsPerUpdate)
	y += 26

	ctl.ShowTrails = gui.CheckBox(rl.Rectangle{X: fx, Y: float32(y), Width: 16, Height: 16}, "Pheromone trails", ctl.ShowTrails)
	y += 26

	if ctl.Paused {
		rl.DrawText("PAUSED", h.x+pad, y, 16, rl.Yellow)
	}
	rl.DrawText("[Space] pause  [,/.] speed  [T] trails", h.x+pad, h.height-20, 10, rl.Gray)

	return ctl
}
