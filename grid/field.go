package grid

import (
	"fmt"
	"math"

	"github.com/pthm-cable/flowy/interp"
)

// Layout is the storage order of a Field's backing array.
type Layout uint8

const (
	RowMajor    Layout = iota // lines are rows; x is contiguous
	ColumnMajor               // lines are columns; y is contiguous
)

// Field is one flattened, ghost-padded component of the grid.
//
// Logical coordinates run from -1 (the ghost layer) to Width-2 on x and
// Height-2 on y. index is the only place the +1 offset is applied.
type Field struct {
	name   string
	width  int // padded extent along x
	height int // padded extent along y
	layout Layout
	data   []float64
}

func newField(name string, width, height int, layout Layout) Field {
	return Field{
		name:   name,
		width:  width,
		height: height,
		layout: layout,
		data:   make([]float64, width*height),
	}
}

// Name returns the field name used in errors ("velocity_x", ...).
func (f *Field) Name() string { return f.name }

// Bounds returns the inclusive logical coordinate range.
func (f *Field) Bounds() (minX, minY, maxX, maxY int) {
	return -1, -1, f.width - 2, f.height - 2
}

// Len returns the number of backing values.
func (f *Field) Len() int { return len(f.data) }

// Data exposes the backing array in storage order. Callers must not resize it.
func (f *Field) Data() []float64 { return f.data }

// index maps a logical coordinate to a backing index.
func (f *Field) index(x, y int) (int, bool) {
	sx, sy := x+1, y+1
	if sx < 0 || sx >= f.width || sy < 0 || sy >= f.height {
		return 0, false
	}
	if f.layout == ColumnMajor {
		return sx*f.height + sy, true
	}
	return sy*f.width + sx, true
}

func (f *Field) mustIndex(x, y int) int {
	i, ok := f.index(x, y)
	if !ok {
		panic(f.rangeError(x, y))
	}
	return i
}

func (f *Field) rangeError(x, y int) *RangeError {
	minX, minY, maxX, maxY := f.Bounds()
	return &RangeError{Field: f.name, X: x, Y: y, MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// At returns the value at a logical coordinate. It panics with a *RangeError
// outside the padded window.
func (f *Field) At(x, y int) float64 {
	return f.data[f.mustIndex(x, y)]
}

// Lookup is the checked form of At.
func (f *Field) Lookup(x, y int) (float64, bool) {
	i, ok := f.index(x, y)
	if !ok {
		return 0, false
	}
	return f.data[i], true
}

// Set stores v at a logical coordinate. It panics with a *RangeError outside
// the padded window.
func (f *Field) Set(x, y int, v float64) {
	f.data[f.mustIndex(x, y)] = v
}

// TrySet is the checked form of Set.
func (f *Field) TrySet(x, y int, v float64) error {
	i, ok := f.index(x, y)
	if !ok {
		return f.rangeError(x, y)
	}
	f.data[i] = v
	return nil
}

// Fill sets every padded cell, ghosts included, to fn(x, y).
func (f *Field) Fill(fn func(x, y int) float64) {
	minX, minY, maxX, maxY := f.Bounds()
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			f.data[f.mustIndex(x, y)] = fn(x, y)
		}
	}
}

// lineCount is the number of contiguous lines in storage.
func (f *Field) lineCount() int {
	if f.layout == ColumnMajor {
		return f.width
	}
	return f.height
}

// line returns storage line i, or nil when i is outside storage.
func (f *Field) line(i int) []float64 {
	if i < 0 || i >= f.lineCount() {
		return nil
	}
	n := len(f.data) / f.lineCount()
	return f.data[i*n : (i+1)*n]
}

// zeroLine is the fallback read for lines outside storage.
var zeroLine = [1]float64{}

// sample interpolates at storage coordinates: along indexes within a line,
// across indexes lines. Each of the four lines around across is first
// interpolated along its length, then the four results are interpolated.
func (f *Field) sample(ip interp.Interpolator, along, across float64) float64 {
	// Keep the line index finite and near storage; lines beyond it read as zero.
	across = clampFinite(across, -2, float64(f.lineCount()+1))
	base := int(math.Floor(across)) - 1

	var window [4]float64
	for k := range window {
		line := f.line(base + k)
		if line == nil {
			line = zeroLine[:]
		}
		window[k] = ip.Interpolate(line, along)
	}

	return ip.Interpolate(window[:], across-float64(base))
}

func (f *Field) clone() Field {
	c := *f
	c.data = make([]float64, len(f.data))
	copy(c.data, f.data)
	return c
}

// clampFinite clamps x into [lo, hi]; NaN maps to lo.
func clampFinite(x, lo, hi float64) float64 {
	if !(x > lo) {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// RangeError reports a logical coordinate outside a field's padded window.
type RangeError struct {
	Field      string
	X, Y       int
	MinX, MinY int
	MaxX, MaxY int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("grid: %s coordinate (%d, %d) outside [%d..%d]x[%d..%d]",
		e.Field, e.X, e.Y, e.MinX, e.MaxX, e.MinY, e.MaxY)
}

// Unwrap lets errors.Is match ErrOutOfRange.
func (e *RangeError) Unwrap() error { return ErrOutOfRange }
