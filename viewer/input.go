package viewer

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard and mouse input.
func (w *Window) handleInput() {
	w.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	a := w.app
	if rl.IsKeyPressed(rl.KeySpace) {
		a.SetRunning(!a.Running())
	}
	if rl.IsKeyPressed(rl.KeyS) {
		_ = a.Step()
	}
	if rl.IsKeyPressed(rl.KeyA) {
		a.ArchiveCurrent()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		w.restoreSelected()
	}
	if rl.IsKeyPressed(rl.KeyComma) {
		a.SelectPrev()
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		a.SelectNext()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		w.controls.Toggle()
	}

	w.overlays.HandleKeys()
	w.handleCameraInput()
}

// handleResize checks for window resize and propagates new dimensions.
func (w *Window) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	width := float32(rl.GetScreenWidth())
	height := float32(rl.GetScreenHeight())
	if width == w.screenWidth && height == w.screenHeight {
		return
	}
	w.screenWidth = width
	w.screenHeight = height
	w.camera.Resize(width, height)
	w.perf.SetPosition(10, int32(height)-170)
}

// handleCameraInput processes camera pan/zoom controls.
func (w *Window) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0) / w.camera.Zoom

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

	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		w.camera.Pan(-d.X, -d.Y)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		w.camera.ZoomBy(1 + wheel*0.1)
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
