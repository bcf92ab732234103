// Package term renders the scalar field as shaded characters in a terminal.
package term

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/flowy/grid"
	"github.com/pthm-cable/flowy/palette"
	"github.com/pthm-cable/flowy/vmath"
)

// Model is what the viewer drives and draws.
type Model interface {
	Step() error
	Grid() *grid.StaggeredGrid
	StepCount() uint64
}

// Viewer draws a Model onto a tcell screen. The caller owns the screen's
// Init and Fini.
type Viewer struct {
	screen   tcell.Screen
	model    Model
	interval time.Duration

	running bool
	lastErr error

	scalarRange palette.Range
	hasRange    bool
}

// NewViewer creates a paused viewer stepping at most once per interval.
func NewViewer(screen tcell.Screen, m Model, interval time.Duration) *Viewer {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	return &Viewer{screen: screen, model: m, interval: interval}
}

// Running reports whether the viewer steps on each tick.
func (v *Viewer) Running() bool { return v.running }

// SetRunning starts or pauses stepping.
func (v *Viewer) SetRunning(running bool) { v.running = running }

// HandleEvent applies one input event and reports whether to quit.
func (v *Viewer) HandleEvent(ev tcell.Event) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return true
			case ' ':
				v.running = !v.running
				if v.running {
					v.lastErr = nil
				}
			case 's', 'S':
				v.step()
			}
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return false
}

// Tick steps once if running.
func (v *Viewer) Tick() {
	if v.running {
		v.step()
	}
}

func (v *Viewer) step() {
	if err := v.model.Step(); err != nil {
		v.running = false
		v.lastErr = err
		slog.Warn("step failed, pausing", "error", err)
	}
}

// Draw renders the field and a status line.
func (v *Viewer) Draw() {
	v.screen.Clear()
	w, h := v.screen.Size()
	rows := h - 1
	if w <= 0 || rows <= 0 {
		v.screen.Show()
		return
	}

	g := v.model.Grid()
	v.widenRange(g.Temp().Data())
	n := float64(g.CellCount())

	for cy := range rows {
		// Top terminal row is the top of the domain.
		y := n - (float64(cy)+0.5)/float64(rows)*n
		for cx := range w {
			x := (float64(cx) + 0.5) / float64(w) * n
			t := v.scalarRange.Normalize(g.SampleScalar(vmath.Vec(x, y)))
			c := palette.Heat(t)
			style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
			v.screen.SetContent(cx, cy, palette.Shade(t), nil, style)
		}
	}

	v.drawText(0, h-1, v.status(g), tcell.StyleDefault.Reverse(true))
	v.screen.Show()
}

func (v *Viewer) status(g *grid.StaggeredGrid) string {
	state := "paused"
	if v.running {
		state = "running"
	}
	s := fmt.Sprintf(" step %d  avg %.5f  %s", v.model.StepCount(), g.AverageScalar(), state)
	if v.lastErr != nil {
		return s + "  error: " + v.lastErr.Error()
	}
	return s + "  [space] run/pause  [s] step  [q] quit"
}

func (v *Viewer) drawText(x, y int, text string, style tcell.Style) {
	w, _ := v.screen.Size()
	for _, r := range text {
		if x >= w {
			return
		}
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (v *Viewer) widenRange(data []float64) {
	fit := palette.FitRange(data)
	if !v.hasRange {
		v.scalarRange, v.hasRange = fit, true
		return
	}
	v.scalarRange.Min = math.Min(v.scalarRange.Min, fit.Min)
	v.scalarRange.Max = math.Max(v.scalarRange.Max, fit.Max)
}

// Run polls input and steps on a ticker until quit or ctx is done.
func (v *Viewer) Run(ctx context.Context) error {
	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if v.HandleEvent(ev) {
				return nil
			}
			v.Draw()
		case <-ticker.C:
			v.Tick()
			v.Draw()
		}
	}
}
