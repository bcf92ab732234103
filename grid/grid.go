// Package grid implements the staggered (MAC) grid: horizontal velocity on
// vertical cell faces, vertical velocity on horizontal faces, and one
// cell-centred transported scalar, each padded with a single ghost layer.
//
// Physical coordinates put cell (x, y) at [x, x+1] × [y, y+1]. The velocity_x
// sample (col, row) sits at (col, row+½), velocity_y (col, row) at
// (col+½, row) and the scalar (x, y) at (x+½, y+½).
package grid

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/pthm-cable/flowy/interp"
	"github.com/pthm-cable/flowy/vmath"
)

var (
	// ErrInvalidCellCount is returned when constructing a grid with cellCount <= 0.
	ErrInvalidCellCount = errors.New("grid: cell count must be positive")

	// ErrOutOfRange is wrapped by *RangeError for coordinates outside the padding.
	ErrOutOfRange = errors.New("grid: coordinate outside padded storage")

	// ErrStateMismatch is returned by FromState for inconsistent array lengths.
	ErrStateMismatch = errors.New("grid: state arrays do not match cell count")
)

// StaggeredGrid holds the discretised velocity and scalar fields.
type StaggeredGrid struct {
	cellCount int

	velX Field // (N+3) × (N+3), row-major
	velY Field // (N+3) × (N+3), column-major
	temp Field // (N+2) × (N+2), row-major

	velInterp    interp.Interpolator
	scalarInterp interp.Interpolator
}

// Option configures a grid at construction time.
type Option func(*StaggeredGrid)

// WithVelocityInterpolator sets the strategy used by SampleVelocity.
func WithVelocityInterpolator(ip interp.Interpolator) Option {
	return func(g *StaggeredGrid) {
		if ip != nil {
			g.velInterp = ip
		}
	}
}

// WithScalarInterpolator sets the strategy used by SampleScalar.
func WithScalarInterpolator(ip interp.Interpolator) Option {
	return func(g *StaggeredGrid) {
		if ip != nil {
			g.scalarInterp = ip
		}
	}
}

// New creates a zero-initialised grid with cellCount interior cells per axis.
// Velocity defaults to cubic sampling and the scalar to linear.
func New(cellCount int, opts ...Option) (*StaggeredGrid, error) {
	if cellCount <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCellCount, cellCount)
	}

	faces := cellCount + 3
	cells := cellCount + 2
	g := &StaggeredGrid{
		cellCount:    cellCount,
		velX:         newField("velocity_x", faces, faces, RowMajor),
		velY:         newField("velocity_y", faces, faces, ColumnMajor),
		temp:         newField("temperature", cells, cells, RowMajor),
		velInterp:    interp.Cubic{},
		scalarInterp: interp.Linear{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// CellCount returns the number of interior cells per axis.
func (g *StaggeredGrid) CellCount() int { return g.cellCount }

// VelocityInterpolator returns the strategy used for velocity sampling.
func (g *StaggeredGrid) VelocityInterpolator() interp.Interpolator { return g.velInterp }

// ScalarInterpolator returns the strategy used for scalar sampling.
func (g *StaggeredGrid) ScalarInterpolator() interp.Interpolator { return g.scalarInterp }

// VelX returns the horizontal velocity field for checked access and bulk fills.
func (g *StaggeredGrid) VelX() *Field { return &g.velX }

// VelY returns the vertical velocity field.
func (g *StaggeredGrid) VelY() *Field { return &g.velY }

// Temp returns the scalar field.
func (g *StaggeredGrid) Temp() *Field { return &g.temp }

// Exact accessors. Coordinates are logical and may address the ghost layer;
// anything further out panics with a *RangeError.

func (g *StaggeredGrid) VelXAt(x, y int) float64 { return g.velX.At(x, y) }
func (g *StaggeredGrid) VelYAt(x, y int) float64 { return g.velY.At(x, y) }
func (g *StaggeredGrid) TempAt(x, y int) float64 { return g.temp.At(x, y) }
func (g *StaggeredGrid) SetVelX(x, y int, v float64) { g.velX.Set(x, y, v) }
func (g *StaggeredGrid) SetVelY(x, y int, v float64) { g.velY.Set(x, y, v) }
func (g *StaggeredGrid) SetTemp(x, y int, v float64) { g.temp.Set(x, y, v) }
func (g *StaggeredGrid) LookupVelX(x, y int) (float64, bool) { return g.velX.Lookup(x, y) }
func (g *StaggeredGrid) LookupVelY(x, y int) (float64, bool) { return g.velY.Lookup(x, y) }
func (g *StaggeredGrid) LookupTemp(x, y int) (float64, bool) { return g.temp.Lookup(x, y) }
func (g *StaggeredGrid) TrySetVelX(x, y int, v float64) error { return g.velX.TrySet(x, y, v) }
func (g *StaggeredGrid) TrySetVelY(x, y int, v float64) error { return g.velY.TrySet(x, y, v) }
func (g *StaggeredGrid) TrySetTemp(x, y int, v float64) error { return g.temp.TrySet(x, y, v) }

// FillVelX sets every padded velocity_x sample to fn(x, y).
func (g *StaggeredGrid) FillVelX(fn func(x, y int) float64) { g.velX.Fill(fn) }

// FillVelY sets every padded velocity_y sample to fn(x, y).
func (g *StaggeredGrid) FillVelY(fn func(x, y int) float64) { g.velY.Fill(fn) }

// FillTemp sets every padded scalar cell to fn(x, y).
func (g *StaggeredGrid) FillTemp(fn func(x, y int) float64) { g.temp.Fill(fn) }

// SampleVelocity returns the velocity at a continuous physical position.
// Positions outside the padded storage read the zero boundary.
func (g *StaggeredGrid) SampleVelocity(pos vmath.Vector2) vmath.Vector2 {
	vx := g.velX.sample(g.velInterp, pos.X+1, pos.Y+0.5)
	// velocity_y lines are columns, so the contiguous axis is y.
	vy := g.velY.sample(g.velInterp, pos.Y+1, pos.X+0.5)
	return vmath.Vec(vx, vy)
}

// SampleScalar returns the scalar at a continuous physical position.
func (g *StaggeredGrid) SampleScalar(pos vmath.Vector2) float64 {
	return g.temp.sample(g.scalarInterp, pos.X+0.5, pos.Y+0.5)
}

// CellVelocity returns the face-averaged velocity at the centre of cell (x, y).
func (g *StaggeredGrid) CellVelocity(x, y int) vmath.Vector2 {
	vx := (g.velX.At(x, y) + g.velX.At(x+1, y)) / 2
	vy := (g.velY.At(x, y) + g.velY.At(x, y+1)) / 2
	return vmath.Vec(vx, vy)
}

// MaxSpeed returns the largest cell-centred speed over the interior.
func (g *StaggeredGrid) MaxSpeed() float64 {
	var maxSq float64
	for y := 0; y < g.cellCount; y++ {
		for x := 0; x < g.cellCount; x++ {
			maxSq = math.Max(maxSq, g.CellVelocity(x, y).LenSquared())
		}
	}
	return math.Sqrt(maxSq)
}

// AverageScalar returns the mean over all scalar cells, ghosts included.
// A running mean keeps a constant field exactly constant.
func (g *StaggeredGrid) AverageScalar() float64 {
	var mean float64
	for i, v := range g.temp.data {
		mean += (v - mean) / float64(i+1)
	}
	return mean
}

// Clone returns a deep copy. Interpolators are stateless and shared.
func (g *StaggeredGrid) Clone() *StaggeredGrid {
	c := *g
	c.velX = g.velX.clone()
	c.velY = g.velY.clone()
	c.temp = g.temp.clone()
	return &c
}

// Equal reports whether both grids have the same size and identical values.
func (g *StaggeredGrid) Equal(o *StaggeredGrid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.cellCount != o.cellCount {
		return false
	}
	return slices.Equal(g.velX.data, o.velX.data) &&
		slices.Equal(g.velY.data, o.velY.data) &&
		slices.Equal(g.temp.data, o.temp.data)
}

// Finite reports whether every stored value is finite.
func (g *StaggeredGrid) Finite() bool {
	for _, f := range []*Field{&g.velX, &g.velY, &g.temp} {
		for _, v := range f.data {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
