// Package viewer is the raylib front end: input, paced stepping and drawing.
// The caller owns the raylib window.
package viewer

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flowy/app"
	"github.com/pthm-cable/flowy/camera"
	"github.com/pthm-cable/flowy/renderer"
	"github.com/pthm-cable/flowy/ui"
)

const controlsLegend = "[Space] run/pause  [S] step  [A] archive  [R] restore  [,/.] select  [Tab] panel  [Arrows/Wheel] pan/zoom  [Home] reset view"

// Window draws an App and turns input into App calls.
type Window struct {
	app *app.App

	camera   *camera.Camera
	field    *renderer.FieldRenderer
	overlays *ui.OverlayRegistry
	controls *ui.ControlsPanel
	hud      *ui.HUD
	perf     *ui.PerfPanel

	interval time.Duration
	lastStep time.Time

	screenWidth, screenHeight float32
}

// New creates a window front end. rl.InitWindow must already have been called.
func New(a *app.App) *Window {
	cfg := a.Config()
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())

	layers := renderer.LayersFromConfig(cfg.Render)
	cam := camera.New(w, h, float32(cfg.Grid.CellCount))

	return &Window{
		app:          a,
		camera:       cam,
		field:        renderer.NewFieldRenderer(cam, layers),
		overlays:     ui.NewOverlayRegistry(layers),
		controls:     ui.NewControlsPanel(10, 10, 240),
		hud:          ui.NewHUD(),
		perf:         ui.NewPerfPanel(10, int32(h)-170, 300),
		interval:     cfg.Derived.StepInterval,
		screenWidth:  w,
		screenHeight: h,
	}
}

// Update handles input and steps the app when running and the interval has passed.
func (w *Window) Update() {
	w.handleInput()

	if !w.app.Running() {
		return
	}
	now := time.Now()
	if now.Sub(w.lastStep) < w.interval {
		return
	}
	w.lastStep = now
	// A refused step pauses the app; the HUD shows the error.
	_ = w.app.Step()
}

// Draw renders the frame.
func (w *Window) Draw() {
	w.app.Perf().RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 12, G: 14, B: 18, A: 255})

	w.overlays.ApplyTo(&w.field.Layers)
	w.field.Draw(w.app.Grid(), w.app.Tracers())

	w.drawUI()
	rl.EndDrawing()
}

func (w *Window) drawUI() {
	a := w.app
	g := a.Grid()

	act := w.controls.Draw(ui.ControlsState{
		DT:         a.DT(),
		Running:    a.Running(),
		HistoryLen: a.History().Len(),
		Selected:   a.Selected(),
	}, w.overlays)
	w.apply(act)

	stats := a.LastStats()
	errText := ""
	if err := a.LastError(); err != nil {
		errText = err.Error()
	}
	w.hud.Draw(ui.HUDData{
		Title:      "flowy",
		Step:       a.StepCount(),
		SimTime:    stats.SimTime,
		AvgScalar:  g.AverageScalar(),
		MaxSpeed:   g.MaxSpeed(),
		CFL:        g.MaxSpeed() * a.DT(),
		CFLLimit:   a.Config().Telemetry.CFLLimit,
		Tracers:    a.Tracers().Count(),
		FPS:        rl.GetFPS(),
		Running:    a.Running(),
		HistoryLen: a.History().Len(),
		Selected:   a.Selected(),
		LastError:  errText,
	}, int32(w.screenWidth))

	w.perf.Draw(a.Perf().Stats())
	w.hud.DrawControls(int32(w.screenHeight), controlsLegend)
}

// apply performs the actions requested through the controls panel.
func (w *Window) apply(act ui.Actions) {
	a := w.app
	if act.DT != a.DT() {
		a.SetDT(act.DT)
	}
	if act.ToggleRun {
		a.SetRunning(!a.Running())
	}
	if act.Step {
		_ = a.Step()
	}
	if act.Archive {
		a.ArchiveCurrent()
	}
	if act.SelectPrev {
		a.SelectPrev()
	}
	if act.SelectNext {
		a.SelectNext()
	}
	if act.Restore {
		w.restoreSelected()
	}
}

func (w *Window) restoreSelected() {
	if err := w.app.RestoreSnapshot(w.app.Selected()); err == nil {
		w.field.ResetRange()
	}
}

// Unload frees resources.
func (w *Window) Unload() {
	w.field.Unload()
}
