package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// MaxDT bounds the timestep slider.
const MaxDT = 4

// ControlsState is what the panel displays.
type ControlsState struct {
	DT         float64
	Running    bool
	HistoryLen int
	Selected   int // history index, -1 for none
}

// Actions is what the user asked for this frame.
type Actions struct {
	DT         float64
	ToggleRun  bool
	Step       bool
	Archive    bool
	SelectPrev bool
	SelectNext bool
	Restore    bool
}

// ControlsPanel renders the simulation controls and layer toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel and returns the user's actions. Hidden panels
// return the state's dt unchanged and no actions.
func (c *ControlsPanel) Draw(state ControlsState, overlays *OverlayRegistry) Actions {
	act := Actions{DT: state.DT}
	if !c.visible {
		return act
	}

	r := c.renderer
	pad := r.Theme.Padding
	line := r.Theme.LineHeight
	innerW := float32(c.width - pad*2)
	btnW := (innerW - 8) / 2

	rows := int32(0)
	for _, cat := range overlays.Categories() {
		rows += int32(len(overlays.ByCategory(cat))) + 1
	}
	height := pad*2 + line*4 + 30*3 + rows*line + 24
	r.DrawPanel(c.x, c.y, c.width, height)

	x := float32(c.x + pad)
	y := c.y + pad
	rl.DrawText("Controls", int32(x), y, 16, rl.White)
	y += line + 4

	dt := gui.SliderBar(
		rl.Rectangle{X: x + 30, Y: float32(y), Width: innerW - 80, Height: 16},
		"dt", fmt.Sprintf("%.2f", state.DT),
		float32(state.DT), 0, MaxDT,
	)
	if dt != float32(state.DT) {
		act.DT = float64(dt)
	}
	y += line + 8

	runText := "Run"
	if state.Running {
		runText = "Pause"
	}
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: btnW, Height: 24}, runText) {
		act.ToggleRun = true
	}
	if gui.Button(rl.Rectangle{X: x + btnW + 8, Y: float32(y), Width: btnW, Height: 24}, "Step") {
		act.Step = true
	}
	y += 30

	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: btnW, Height: 24}, "Archive") {
		act.Archive = true
	}
	if gui.Button(rl.Rectangle{X: x + btnW + 8, Y: float32(y), Width: btnW, Height: 24}, "Restore") {
		act.Restore = state.Selected >= 0
	}
	y += 30

	third := (innerW - 16) / 3
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: third, Height: 24}, "<") {
		act.SelectPrev = true
	}
	rl.DrawText(historyLabel(state), int32(x+third+8), y+6, r.Theme.FontSize, r.Theme.ValueColor)
	if gui.Button(rl.Rectangle{X: x + 2*third + 16, Y: float32(y), Width: third, Height: 24}, ">") {
		act.SelectNext = true
	}
	y += 30 + 4

	for _, cat := range overlays.Categories() {
		y = r.DrawSectionHeader(int32(x), y, categoryLabel(cat))
		for _, desc := range overlays.ByCategory(cat) {
			c.drawToggle(x, y, desc, overlays)
			y += line
		}
	}

	return act
}

// drawToggle draws one overlay checkbox with its key binding right aligned.
func (c *ControlsPanel) drawToggle(x float32, y int32, desc OverlayDescriptor, overlays *OverlayRegistry) {
	r := c.renderer
	enabled := overlays.IsEnabled(desc.ID)

	checked := gui.CheckBox(rl.Rectangle{X: x, Y: float32(y), Width: 12, Height: 12}, desc.Name, enabled)
	if checked != enabled {
		overlays.SetEnabled(desc.ID, checked)
	}

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		right := int32(x) + c.width - r.Theme.Padding*2
		rl.DrawText(keyText, right-keyWidth, y, r.Theme.FontSize, rl.Gray)
	}
}

func historyLabel(s ControlsState) string {
	if s.HistoryLen == 0 {
		return "no history"
	}
	if s.Selected < 0 {
		return fmt.Sprintf("-/%d", s.HistoryLen)
	}
	return fmt.Sprintf("%d/%d", s.Selected+1, s.HistoryLen)
}

func categoryLabel(cat string) string {
	switch cat {
	case "fields":
		return "Fields"
	case "vectors":
		return "Vectors"
	default:
		return cat
	}
}
