package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flowy/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title      string
	Step       uint64
	SimTime    float64
	AvgScalar  float64
	MaxSpeed   float64
	CFL        float64
	CFLLimit   float64
	Tracers    int
	FPS        int32
	Running    bool
	HistoryLen int
	Selected   int
	LastError  string
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD at the top right of the screen.
func (h *HUD) Draw(data HUDData, screenWidth int32) {
	t := h.renderer.Theme
	width := int32(230)
	x := screenWidth - width - 10
	y := int32(10)

	panelH := t.LineHeight*8 + t.Padding*2
	h.renderer.DrawPanel(x, y, width, panelH)
	x += t.Padding
	y += t.Padding

	rl.DrawText(data.Title, x, y, 16, rl.White)
	y += t.LineHeight + 2

	y = h.renderer.DrawLabelValue(x, y, "Step", fmt.Sprintf("%d  (t=%.1f)", data.Step, data.SimTime))
	y = h.renderer.DrawLabelValue(x, y, "Avg scalar", fmt.Sprintf("%.6f", data.AvgScalar))
	y = h.renderer.DrawLabelValue(x, y, "Max speed", fmt.Sprintf("%.3f", data.MaxSpeed))

	cfl := fmt.Sprintf("%.3f", data.CFL)
	if data.CFLLimit > 0 && data.CFL > data.CFLLimit {
		rl.DrawText("CFL:", x, y, t.FontSize, t.LabelColor)
		rl.DrawText(cfl, x+t.LabelWidth, y, t.FontSize, t.WarnColor)
		y += t.LineHeight
	} else {
		y = h.renderer.DrawLabelValue(x, y, "CFL", cfl)
	}

	y = h.renderer.DrawLabelValue(x, y, "Tracers", fmt.Sprintf("%d", data.Tracers))
	y = h.renderer.DrawLabelValue(x, y, "History", historyLabel(ControlsState{HistoryLen: data.HistoryLen, Selected: data.Selected}))

	status, color := "Running", rl.Green
	if !data.Running {
		status, color = "PAUSED", rl.Yellow
	}
	rl.DrawText(fmt.Sprintf("%s | FPS: %d", status, data.FPS), x, y, t.FontSize, color)

	if data.LastError != "" {
		tw := rl.MeasureText(data.LastError, t.FontSize)
		rl.DrawText(data.LastError, screenWidth-10-tw, 10+panelH+6, t.FontSize, t.WarnColor)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase step timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	pad := r.Theme.Padding
	height := r.Theme.LineHeight*int32(len(telemetry.Phases)+3) + pad*2
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + pad
	y := p.y + pad
	y = r.DrawSectionHeader(x, y, "Step Performance")
	y = r.DrawLabelValue(x, y, "Avg step", stats.AvgStepDuration.Round(time.Microsecond).String())
	y = r.DrawLabelValue(x, y, "Steps/s", fmt.Sprintf("%.0f", stats.StepsPerSecond))

	for _, phase := range telemetry.Phases {
		y = r.DrawBar(x, y, phase, stats.PhasePct[phase], 50, p.width-pad*2)
	}
}
