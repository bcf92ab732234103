// Package palette maps field values to colours and glyphs for the viewers.
package palette

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Range is a closed value interval used to normalise a field for display.
type Range struct {
	Min, Max float64
}

// FitRange returns the extent of data. An empty slice gives [0, 1].
func FitRange(data []float64) Range {
	if len(data) == 0 {
		return Range{Min: 0, Max: 1}
	}
	return Range{Min: floats.Min(data), Max: floats.Max(data)}
}

// Normalize maps v into [0, 1]. A degenerate range maps everything to 0.5.
func (r Range) Normalize(v float64) float64 {
	span := r.Max - r.Min
	if !(span > 0) || math.IsInf(span, 0) {
		return 0.5
	}
	t := (v - r.Min) / span
	if math.IsNaN(t) {
		return 0
	}
	return math.Max(0, math.Min(1, t))
}

// heatStops runs black, deep blue, cyan, yellow, white.
var heatStops = []color.RGBA{
	{R: 0, G: 0, B: 0, A: 255},
	{R: 20, G: 40, B: 160, A: 255},
	{R: 0, G: 190, B: 210, A: 255},
	{R: 250, G: 220, B: 40, A: 255},
	{R: 255, G: 255, B: 255, A: 255},
}

// Heat maps t in [0, 1] onto the heat gradient.
func Heat(t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))
	pos := t * float64(len(heatStops)-1)
	i := int(pos)
	if i >= len(heatStops)-1 {
		return heatStops[len(heatStops)-1]
	}
	f := pos - float64(i)
	a, b := heatStops[i], heatStops[i+1]
	return color.RGBA{
		R: mix(a.R, b.R, f),
		G: mix(a.G, b.G, f),
		B: mix(a.B, b.B, f),
		A: 255,
	}
}

// Grey maps t in [0, 1] onto black..white.
func Grey(t float64) color.RGBA {
	v := uint8(math.Round(math.Max(0, math.Min(1, t)) * 255))
	return color.RGBA{R: v, G: v, B: v, A: 255}
}

// WithAlpha returns c with alpha a.
func WithAlpha(c color.RGBA, a uint8) color.RGBA {
	c.A = a
	return c
}

const shades = " .:-=+*#%@"

// Shade maps t in [0, 1] to a density glyph for character displays.
func Shade(t float64) rune {
	t = math.Max(0, math.Min(1, t))
	i := int(t * float64(len(shades)-1))
	return rune(shades[i])
}

func mix(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
}
