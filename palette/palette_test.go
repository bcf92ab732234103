package palette

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitRange(t *testing.T) {
	r := FitRange([]float64{3, -1, 7, 2})
	assert.Equal(t, Range{Min: -1, Max: 7}, r)

	assert.Equal(t, Range{Min: 0, Max: 1}, FitRange(nil))
}

func TestNormalize(t *testing.T) {
	r := Range{Min: 2, Max: 6}
	tests := []struct {
		v, want float64
	}{
		{2, 0},
		{4, 0.5},
		{6, 1},
		{-10, 0},
		{10, 1},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := r.Normalize(tt.v); got != tt.want {
			t.Errorf("Normalize(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}

	flat := Range{Min: 3, Max: 3}
	assert.Equal(t, 0.5, flat.Normalize(3))
	assert.Equal(t, 0.5, flat.Normalize(100))
}

func TestHeatEndpoints(t *testing.T) {
	assert.Equal(t, color.RGBA{A: 255}, Heat(0))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, Heat(1))
	assert.Equal(t, Heat(0), Heat(-3))
	assert.Equal(t, Heat(1), Heat(3))

	// Stops are hit exactly.
	assert.Equal(t, heatStops[2], Heat(0.5))
}

func TestHeatBrightensMonotonically(t *testing.T) {
	luma := func(c color.RGBA) int { return int(c.R) + int(c.G) + int(c.B) }
	prev := -1
	for i := 0; i <= 100; i++ {
		l := luma(Heat(float64(i) / 100))
		if l < prev {
			t.Fatalf("luma dropped at t=%v: %d < %d", float64(i)/100, l, prev)
		}
		prev = l
	}
}

func TestGreyAndAlpha(t *testing.T) {
	assert.Equal(t, color.RGBA{A: 255}, Grey(0))
	assert.Equal(t, color.RGBA{R: 128, G: 128, B: 128, A: 255}, Grey(0.5))
	assert.Equal(t, uint8(40), WithAlpha(Grey(1), 40).A)
}

func TestShade(t *testing.T) {
	assert.Equal(t, ' ', Shade(0))
	assert.Equal(t, '@', Shade(1))
	assert.Equal(t, '@', Shade(2))
	assert.Equal(t, ' ', Shade(-1))
}
