package grid

import (
	"fmt"
	"slices"

	"github.com/pthm-cable/flowy/interp"
)

// State is the plain, serialisable form of a grid. Arrays are in storage
// order (see Field) and include the ghost layer.
type State struct {
	CellCount            int       `json:"cell_count"`
	VelocityInterpolator string    `json:"velocity_interpolation"`
	ScalarInterpolator   string    `json:"scalar_interpolation"`
	VelocityX            []float64 `json:"velocity_x"`
	VelocityY            []float64 `json:"velocity_y"`
	Temperature          []float64 `json:"temperature"`
}

// Export copies the grid into a State.
func (g *StaggeredGrid) Export() State {
	return State{
		CellCount:            g.cellCount,
		VelocityInterpolator: g.velInterp.Name(),
		ScalarInterpolator:   g.scalarInterp.Name(),
		VelocityX:            slices.Clone(g.velX.data),
		VelocityY:            slices.Clone(g.velY.data),
		Temperature:          slices.Clone(g.temp.data),
	}
}

// FromState rebuilds a grid from s. Interpolators named in s are used unless
// overridden by opts. The arrays are copied.
func FromState(s State, opts ...Option) (*StaggeredGrid, error) {
	var named []Option
	if s.VelocityInterpolator != "" {
		ip, err := interp.ByName(s.VelocityInterpolator)
		if err != nil {
			return nil, fmt.Errorf("velocity interpolation: %w", err)
		}
		named = append(named, WithVelocityInterpolator(ip))
	}
	if s.ScalarInterpolator != "" {
		ip, err := interp.ByName(s.ScalarInterpolator)
		if err != nil {
			return nil, fmt.Errorf("scalar interpolation: %w", err)
		}
		named = append(named, WithScalarInterpolator(ip))
	}

	g, err := New(s.CellCount, append(named, opts...)...)
	if err != nil {
		return nil, err
	}

	for _, pair := range []struct {
		dst *Field
		src []float64
	}{
		{&g.velX, s.VelocityX},
		{&g.velY, s.VelocityY},
		{&g.temp, s.Temperature},
	} {
		if len(pair.src) != pair.dst.Len() {
			return nil, fmt.Errorf("%w: %s has %d values, want %d",
				ErrStateMismatch, pair.dst.Name(), len(pair.src), pair.dst.Len())
		}
		copy(pair.dst.data, pair.src)
	}

	return g, nil
}
