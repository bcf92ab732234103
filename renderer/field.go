// Package renderer draws the grid and tracers with raylib.
package renderer

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flowy/camera"
	"github.com/pthm-cable/flowy/config"
	"github.com/pthm-cable/flowy/grid"
	"github.com/pthm-cable/flowy/palette"
	"github.com/pthm-cable/flowy/tracers"
	"github.com/pthm-cable/flowy/vmath"
)

// Layers selects what FieldRenderer draws.
type Layers struct {
	Scalar      bool
	Speed       bool
	Grid        bool
	FaceVectors bool
	CellVectors bool
	Tracers     bool

	LineWidth   float32
	VectorScale float32 // grid units per unit speed
}

// LayersFromConfig reads the render section.
func LayersFromConfig(rc config.RenderConfig) Layers {
	return Layers{
		Scalar:      rc.ShowScalar,
		Speed:       rc.ShowSpeed,
		Grid:        rc.ShowGrid,
		FaceVectors: rc.ShowFaceVectors,
		CellVectors: rc.ShowCellVectors,
		Tracers:     rc.ShowTracers,
		LineWidth:   float32(rc.LineWidth),
		VectorScale: float32(rc.VectorScale),
	}
}

var (
	gridLineColor = rl.Color{R: 60, G: 70, B: 80, A: 160}
	faceXColor    = rl.Color{R: 230, G: 90, B: 80, A: 220}
	faceYColor    = rl.Color{R: 90, G: 200, B: 110, A: 220}
	cellVecColor  = rl.Color{R: 240, G: 240, B: 240, A: 230}
	tracerColor   = color.RGBA{R: 120, G: 200, B: 255, A: 255}
)

// FieldRenderer draws a grid through a camera. It only reads the grid.
type FieldRenderer struct {
	cam    *camera.Camera
	Layers Layers

	// Scalar colours are normalised against a range that only widens,
	// so advection smoothing shows as fading rather than re-stretching.
	scalarRange palette.Range
	hasRange    bool
}

// NewFieldRenderer creates a renderer for the given camera.
func NewFieldRenderer(cam *camera.Camera, layers Layers) *FieldRenderer {
	return &FieldRenderer{cam: cam, Layers: layers}
}

// ResetRange forgets the accumulated scalar range.
func (r *FieldRenderer) ResetRange() {
	r.hasRange = false
}

// ScalarRange returns the range used for the last scalar draw.
func (r *FieldRenderer) ScalarRange() palette.Range {
	return r.scalarRange
}

// Draw renders every enabled layer. tr may be nil.
func (r *FieldRenderer) Draw(g *grid.StaggeredGrid, tr *tracers.System) {
	if r.Layers.Scalar {
		r.drawScalar(g)
	}
	if r.Layers.Speed {
		r.drawSpeed(g)
	}
	if r.Layers.Grid {
		r.drawGridLines()
	}
	if r.Layers.FaceVectors {
		r.drawFaceVectors(g)
	}
	if r.Layers.CellVectors {
		r.drawCellVectors(g)
	}
	if r.Layers.Tracers && tr != nil {
		r.drawTracers(tr)
	}
}

func (r *FieldRenderer) widenRange(data []float64) {
	fit := palette.FitRange(data)
	if !r.hasRange {
		r.scalarRange = fit
		r.hasRange = true
		return
	}
	r.scalarRange.Min = math.Min(r.scalarRange.Min, fit.Min)
	r.scalarRange.Max = math.Max(r.scalarRange.Max, fit.Max)
}

// cellRect returns the screen rectangle of cell (x, y).
func (r *FieldRenderer) cellRect(x, y int) (rl.Vector2, rl.Vector2) {
	sx, sy := r.cam.WorldToScreen(float32(x), float32(y+1))
	s := r.cam.Scale()
	return rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: s + 1, Y: s + 1}
}

func (r *FieldRenderer) drawScalar(g *grid.StaggeredGrid) {
	r.widenRange(g.Temp().Data())

	x0, y0, x1, y1 := r.cam.VisibleCells()
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			pos, size := r.cellRect(x, y)
			c := palette.Heat(r.scalarRange.Normalize(g.TempAt(x, y)))
			rl.DrawRectangleV(pos, size, toRL(c))
		}
	}
}

func (r *FieldRenderer) drawSpeed(g *grid.StaggeredGrid) {
	speeds := palette.Range{Min: 0, Max: g.MaxSpeed()}
	alpha := uint8(255)
	if r.Layers.Scalar {
		alpha = 110
	}

	x0, y0, x1, y1 := r.cam.VisibleCells()
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			pos, size := r.cellRect(x, y)
			c := palette.Grey(speeds.Normalize(g.CellVelocity(x, y).Len()))
			rl.DrawRectangleV(pos, size, toRL(palette.WithAlpha(c, alpha)))
		}
	}
}

func (r *FieldRenderer) drawGridLines() {
	x0, y0, x1, y1 := r.cam.VisibleCells()
	bottom, top := float64(y0), float64(y1+1)
	left, right := float64(x0), float64(x1+1)

	for x := x0; x <= x1+1; x++ {
		r.worldLine(vmath.Vec(float64(x), bottom), vmath.Vec(float64(x), top), 1, gridLineColor)
	}
	for y := y0; y <= y1+1; y++ {
		r.worldLine(vmath.Vec(left, float64(y)), vmath.Vec(right, float64(y)), 1, gridLineColor)
	}
}

// drawFaceVectors draws each stored component at its own face: horizontal
// arrows on vertical faces for velocity_x, vertical arrows for velocity_y.
func (r *FieldRenderer) drawFaceVectors(g *grid.StaggeredGrid) {
	x0, y0, x1, y1 := r.cam.VisibleCells()
	scale := float64(r.Layers.VectorScale)

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1+1; x++ {
			from := vmath.Vec(float64(x), float64(y)+0.5)
			r.arrow(from, vmath.Vec(g.VelXAt(x, y)*scale, 0), faceXColor)
		}
	}
	for y := y0; y <= y1+1; y++ {
		for x := x0; x <= x1; x++ {
			from := vmath.Vec(float64(x)+0.5, float64(y))
			r.arrow(from, vmath.Vec(0, g.VelYAt(x, y)*scale), faceYColor)
		}
	}
}

func (r *FieldRenderer) drawCellVectors(g *grid.StaggeredGrid) {
	x0, y0, x1, y1 := r.cam.VisibleCells()
	scale := float64(r.Layers.VectorScale)

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			centre := vmath.Vec(float64(x)+0.5, float64(y)+0.5)
			r.arrow(centre, g.CellVelocity(x, y).Scale(scale), cellVecColor)
		}
	}
}

func (r *FieldRenderer) drawTracers(tr *tracers.System) {
	radius := max(r.cam.Scale()*0.15, 1)

	rl.BeginBlendMode(rl.BlendAdditive)
	tr.Each(func(p vmath.Vector2, life float64) {
		if !r.cam.IsVisible(float32(p.X), float32(p.Y), 0) {
			return
		}
		// Fade in over the first fifth of life and out over the last third.
		fade := math.Min(life*5, 1) * math.Min((1-life)*3, 1)
		sx, sy := r.cam.WorldToScreen(float32(p.X), float32(p.Y))
		c := palette.WithAlpha(tracerColor, uint8(200*fade))
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, radius, toRL(c))
	})
	rl.EndBlendMode()
}

// arrow draws vec (grid units) from a grid position with a two-stroke head.
func (r *FieldRenderer) arrow(from, vec vmath.Vector2, c rl.Color) {
	length := vec.Len()
	if length < 1e-6 {
		return
	}
	to := from.Add(vec)
	r.worldLine(from, to, r.Layers.LineWidth, c)

	head := vec.Scale(math.Min(0.35, 0.3*length) / length)
	left := vmath.Vec(-head.X+head.Y*0.5, -head.Y-head.X*0.5)
	right := vmath.Vec(-head.X-head.Y*0.5, -head.Y+head.X*0.5)
	r.worldLine(to, to.Add(left), r.Layers.LineWidth, c)
	r.worldLine(to, to.Add(right), r.Layers.LineWidth, c)
}

func (r *FieldRenderer) worldLine(a, b vmath.Vector2, width float32, c rl.Color) {
	ax, ay := r.cam.WorldToScreen(float32(a.X), float32(a.Y))
	bx, by := r.cam.WorldToScreen(float32(b.X), float32(b.Y))
	rl.DrawLineEx(rl.Vector2{X: ax, Y: ay}, rl.Vector2{X: bx, Y: by}, max(width, 1), c)
}

func toRL(c color.RGBA) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Unload frees resources.
func (r *FieldRenderer) Unload() {
	// Nothing to unload in direct rendering mode
}
