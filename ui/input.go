package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard and mouse input.
func (w *Window) handleInput() {
	w.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		w.game.SetPaused(!w.game.Paused())
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		w.game.SetStepsPerUpdate(w.game.StepsPerUpdate() - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		w.game.SetStepsPerUpdate(w.game.StepsPerUpdate() + 1)
	}

	if rl.IsKeyPressed(rl.KeyT) {
		w.arena.ShowTrails = !w.arena.ShowTrails
	}

	w.handleCameraInput()
	w.insp.HandleInput(w.game.Environment(), w.camera, w.arenaViewportWidth())
}

// handleResize checks for window resize and propagates new dimensions.
func (w *Window) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	sw := float32(rl.GetScreenWidth())
	sh := float32(rl.GetScreenHeight())
	if sw == w.screenWidth && sh == w.screenHeight {
		return
	}
	w.screenWidth = sw
	w.screenHeight = sh

	w.camera.Resize(w.arenaViewportWidth(), sh)
	w.hud.Resize(int32(w.arenaViewportWidth()), int32(sh))
}

// handleCameraInput processes camera pan/zoom controls.
func (w *Window) handleCameraInput() {
	// Screen pixels per frame; Pan converts to arena units
	panSpeed := float32(8.0)

	if rl.IsKeyDown(rl.KeyRight) {
		w.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		w.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		w.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		w.camera.Pan(0, -panSpeed)
	}

	// Wheel zoom only while the cursor is over the arena
	if mouse := rl.GetMousePosition(); mouse.X < w.arenaViewportWidth() {
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			w.camera.ZoomBy(1 + wheel*0.1)
		}
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		w.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		w.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		w.camera.Reset()
	}
}
