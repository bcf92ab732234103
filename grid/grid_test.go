package grid

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/flowy/interp"
	"github.com/pthm-cable/flowy/vmath"
)

func mustGrid(t *testing.T, n int, opts ...Option) *StaggeredGrid {
	t.Helper()
	g, err := New(n, opts...)
	require.NoError(t, err)
	return g
}

func TestNewRejectsInvalidCellCount(t *testing.T) {
	for _, n := range []int{0, -1, -64} {
		g, err := New(n)
		if !errors.Is(err, ErrInvalidCellCount) {
			t.Errorf("New(%d): expected ErrInvalidCellCount, got %v", n, err)
		}
		if g != nil {
			t.Errorf("New(%d): expected nil grid", n)
		}
	}
}

func TestNewGridDimensions(t *testing.T) {
	g := mustGrid(t, 20)

	assert.Equal(t, 20, g.CellCount())
	assert.Equal(t, 23*23, g.VelX().Len())
	assert.Equal(t, 23*23, g.VelY().Len())
	assert.Equal(t, 22*22, g.Temp().Len())
	assert.Equal(t, "cubic", g.VelocityInterpolator().Name())
	assert.Equal(t, "linear", g.ScalarInterpolator().Name())

	g = mustGrid(t, 4, WithVelocityInterpolator(interp.Linear{}), WithScalarInterpolator(interp.Cubic{}))
	assert.Equal(t, "linear", g.VelocityInterpolator().Name())
	assert.Equal(t, "cubic", g.ScalarInterpolator().Name())
}

func TestFreshGridIsZero(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for _, n := range []int{1, 2, 7, 32} {
		g := mustGrid(t, n)

		for y := -1; y <= n+1; y++ {
			for x := -1; x <= n+1; x++ {
				if v := g.VelXAt(x, y); v != 0 {
					t.Fatalf("n=%d: velocity_x(%d,%d) = %f", n, x, y, v)
				}
				if v := g.VelYAt(x, y); v != 0 {
					t.Fatalf("n=%d: velocity_y(%d,%d) = %f", n, x, y, v)
				}
				if x <= n && y <= n {
					if v := g.TempAt(x, y); v != 0 {
						t.Fatalf("n=%d: temperature(%d,%d) = %f", n, x, y, v)
					}
				}
			}
		}

		for i := 0; i < 100; i++ {
			pos := vmath.Vec(rng.Float64()*float64(n), rng.Float64()*float64(n))
			if v := g.SampleVelocity(pos); v != (vmath.Vector2{}) {
				t.Fatalf("n=%d: velocity at %v = %v", n, pos, v)
			}
			if v := g.SampleScalar(pos); v != 0 {
				t.Fatalf("n=%d: scalar at %v = %f", n, pos, v)
			}
		}

		assert.Equal(t, 0.0, g.AverageScalar())
	}
}

func TestGridVelX(t *testing.T) {
	const cc = 20
	g := mustGrid(t, cc)
	for x := 0; x < cc+1; x++ {
		g.SetVelX(x, 0, float64(x)*2)
	}

	data := g.VelX().Data()

	// First stored row is the ghost row y=-1.
	for i, vx := range data[:cc+3] {
		if vx != 0 {
			t.Errorf("ghost row index %d: expected 0, got %f", i, vx)
		}
	}
	for x := 0; x < cc+1; x++ {
		if v := g.VelXAt(x, -1); v != 0 {
			t.Errorf("velocity_x(%d,-1): expected 0, got %f", x, v)
		}
	}

	// Second stored row holds y=0, framed by one ghost on each side.
	for i, vx := range data[cc+3 : 2*(cc+3)] {
		want := 0.0
		if i != 0 && i != cc+2 {
			want = float64(i-1) * 2
		}
		if vx != want {
			t.Errorf("row 0 index %d: expected %f, got %f", i, want, vx)
		}
	}

	for x := 0; x < cc+1; x++ {
		if v := g.VelXAt(x, 0); v != float64(x)*2 {
			t.Errorf("velocity_x(%d,0): expected %f, got %f", x, float64(x)*2, v)
		}
	}

	// Nothing else was touched.
	for y := -1; y <= cc+1; y++ {
		for x := -1; x <= cc+1; x++ {
			if y == 0 && x >= 0 && x <= cc {
				continue
			}
			if v := g.VelXAt(x, y); v != 0 {
				t.Errorf("velocity_x(%d,%d): expected 0, got %f", x, y, v)
			}
		}
	}
}

func TestGridVelY(t *testing.T) {
	const cc = 20
	g := mustGrid(t, cc)
	for y := 0; y < cc+1; y++ {
		g.SetVelY(0, y, float64(y)*2)
	}

	data := g.VelY().Data()

	// velocity_y is stored by column: the first stored line is the ghost column x=-1.
	for i, vy := range data[:cc+3] {
		if vy != 0 {
			t.Errorf("ghost column index %d: expected 0, got %f", i, vy)
		}
	}
	for y := 0; y < cc+1; y++ {
		if v := g.VelYAt(-1, y); v != 0 {
			t.Errorf("velocity_y(-1,%d): expected 0, got %f", y, v)
		}
	}

	for i, vy := range data[cc+3 : 2*(cc+3)] {
		want := 0.0
		if i != 0 && i != cc+2 {
			want = float64(i-1) * 2
		}
		if vy != want {
			t.Errorf("column 0 index %d: expected %f, got %f", i, want, vy)
		}
	}

	for y := 0; y < cc+1; y++ {
		if v := g.VelYAt(0, y); v != float64(y)*2 {
			t.Errorf("velocity_y(0,%d): expected %f, got %f", y, float64(y)*2, v)
		}
	}
}

func TestOutOfRangeAccess(t *testing.T) {
	const n = 5
	g := mustGrid(t, n)

	// The ghost layer is addressable.
	g.SetVelX(-1, -1, 1)
	g.SetVelX(n+1, n+1, 2)
	g.SetVelY(n+1, -1, 3)
	g.SetTemp(n, n, 4)
	g.SetTemp(-1, n, 5)
	assert.Equal(t, 1.0, g.VelXAt(-1, -1))
	assert.Equal(t, 2.0, g.VelXAt(n+1, n+1))
	assert.Equal(t, 3.0, g.VelYAt(n+1, -1))
	assert.Equal(t, 4.0, g.TempAt(n, n))
	assert.Equal(t, 5.0, g.TempAt(-1, n))

	tests := []struct {
		name string
		fn   func()
	}{
		{"velocity_x below", func() { g.VelXAt(-2, 0) }},
		{"velocity_x above", func() { g.VelXAt(0, n+2) }},
		{"velocity_y above", func() { g.SetVelY(n+2, 0, 1) }},
		{"temperature above", func() { g.TempAt(n+1, 0) }},
		{"temperature below", func() { g.SetTemp(0, -2, 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				require.NotNil(t, r, "expected panic")
				var rerr *RangeError
				require.True(t, errors.As(r.(error), &rerr), "panic value %v", r)
				assert.ErrorIs(t, rerr, ErrOutOfRange)
			}()
			tt.fn()
		})
	}

	_, ok := g.LookupVelX(n+2, 0)
	assert.False(t, ok)
	_, ok = g.LookupVelY(0, -2)
	assert.False(t, ok)
	v, ok := g.LookupTemp(n, n)
	assert.True(t, ok)
	assert.Equal(t, 4.0, v)

	err := g.TrySetTemp(n+1, n+1, 9)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Contains(t, err.Error(), "temperature")
	assert.NoError(t, g.TrySetVelX(0, 0, 9))
	assert.NoError(t, g.TrySetVelY(0, 0, 9))
}

func TestSamplersExactAtSampleLocations(t *testing.T) {
	const n = 8
	rng := rand.New(rand.NewSource(11))

	for _, ip := range []interp.Interpolator{interp.Linear{}, interp.Cubic{}} {
		g := mustGrid(t, n, WithVelocityInterpolator(ip), WithScalarInterpolator(ip))
		g.FillVelX(func(x, y int) float64 { return rng.NormFloat64() })
		g.FillVelY(func(x, y int) float64 { return rng.NormFloat64() })
		g.FillTemp(func(x, y int) float64 { return rng.NormFloat64() })

		for row := 0; row < n; row++ {
			for col := 0; col <= n; col++ {
				vx := g.SampleVelocity(vmath.Vec(float64(col), float64(row)+0.5)).X
				if vx != g.VelXAt(col, row) {
					t.Fatalf("%s: velocity_x at face (%d,%d): got %g, want %g", ip.Name(), col, row, vx, g.VelXAt(col, row))
				}
				vy := g.SampleVelocity(vmath.Vec(float64(row)+0.5, float64(col))).Y
				if vy != g.VelYAt(row, col) {
					t.Fatalf("%s: velocity_y at face (%d,%d): got %g, want %g", ip.Name(), row, col, vy, g.VelYAt(row, col))
				}
			}
		}

		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				s := g.SampleScalar(vmath.Vec(float64(x)+0.5, float64(y)+0.5))
				if s != g.TempAt(x, y) {
					t.Fatalf("%s: scalar at (%d,%d): got %g, want %g", ip.Name(), x, y, s, g.TempAt(x, y))
				}
			}
		}
	}
}

func TestSampleScalarBilinear(t *testing.T) {
	const n = 10
	g := mustGrid(t, n)
	// Cell (x, y) is centred at (x+½, y+½); store the plane 2px + 3py there.
	g.FillTemp(func(x, y int) float64 { return 2*(float64(x)+0.5) + 3*(float64(y)+0.5) })

	for _, p := range []vmath.Vector2{{X: 1.3, Y: 2.9}, {X: 4.5, Y: 4.5}, {X: 7.05, Y: 0.75}, {X: 9.25, Y: 8.6}} {
		assert.InDelta(t, 2*p.X+3*p.Y, g.SampleScalar(p), 1e-9, "at %v", p)
	}
}

func TestSampleVelocityUniformInterior(t *testing.T) {
	const n = 12
	g := mustGrid(t, n)
	g.FillVelX(func(x, y int) float64 { return 1.5 })
	g.FillVelY(func(x, y int) float64 { return -0.5 })

	for _, p := range []vmath.Vector2{{X: 3.2, Y: 4.7}, {X: 6, Y: 6}, {X: 8.9, Y: 2.1}} {
		v := g.SampleVelocity(p)
		assert.InDelta(t, 1.5, v.X, 1e-12)
		assert.InDelta(t, -0.5, v.Y, 1e-12)
	}
}

func TestSamplersTolerateOutOfStoragePositions(t *testing.T) {
	const n = 6
	g := mustGrid(t, n)
	g.FillVelX(func(x, y int) float64 { return 1 })
	g.FillVelY(func(x, y int) float64 { return 1 })
	g.FillTemp(func(x, y int) float64 { return 1 })

	far := []vmath.Vector2{
		{X: -50, Y: 3},
		{X: 3, Y: 1e9},
		{X: -1e12, Y: -1e12},
		{X: math.Inf(1), Y: 2},
		{X: 2, Y: math.NaN()},
	}
	for _, p := range far {
		assert.NotPanics(t, func() {
			g.SampleVelocity(p)
			g.SampleScalar(p)
		}, "at %v", p)
	}

	// Far beyond the padded rows the fallback lines are zero.
	assert.Equal(t, 0.0, g.SampleVelocity(vmath.Vec(3, 1e9)).X)
	assert.Equal(t, 0.0, g.SampleScalar(vmath.Vec(3, -1e9)))
}

func TestAverageScalarConstant(t *testing.T) {
	for _, c := range []float64{0.1, -3.7, 1e-9, 12345.678} {
		g := mustGrid(t, 17)
		g.FillTemp(func(x, y int) float64 { return c })
		if got := g.AverageScalar(); got != c {
			t.Errorf("expected average %g, got %g", c, got)
		}
	}
}

func TestAverageScalarIncludesGhosts(t *testing.T) {
	g := mustGrid(t, 2) // 4x4 scalar storage
	g.SetTemp(-1, -1, 16)
	assert.InDelta(t, 1.0, g.AverageScalar(), 1e-12)
}

func TestCloneIsIndependent(t *testing.T) {
	g := mustGrid(t, 6)
	g.SetVelX(2, 3, 1.25)
	g.SetTemp(1, 1, 7)

	c := g.Clone()
	require.True(t, c.Equal(g))

	c.SetVelX(2, 3, -9)
	c.SetVelY(0, 0, 4)
	c.SetTemp(1, 1, 0)

	assert.Equal(t, 1.25, g.VelXAt(2, 3))
	assert.Equal(t, 0.0, g.VelYAt(0, 0))
	assert.Equal(t, 7.0, g.TempAt(1, 1))
	assert.False(t, c.Equal(g))

	g.SetTemp(4, 4, 3)
	assert.Equal(t, 0.0, c.TempAt(4, 4))
}

func TestCellVelocityAndMaxSpeed(t *testing.T) {
	g := mustGrid(t, 4)
	g.SetVelX(1, 2, 2)
	g.SetVelX(2, 2, 4)
	g.SetVelY(1, 2, -1)
	g.SetVelY(1, 3, -3)

	v := g.CellVelocity(1, 2)
	assert.Equal(t, vmath.Vec(3, -2), v)
	assert.InDelta(t, math.Sqrt(13), g.MaxSpeed(), 1e-12)
}

func TestExportFromStateRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	g := mustGrid(t, 5, WithScalarInterpolator(interp.Cubic{}))
	g.FillVelX(func(x, y int) float64 { return rng.Float64() })
	g.FillVelY(func(x, y int) float64 { return rng.Float64() })
	g.FillTemp(func(x, y int) float64 { return rng.Float64() })

	s := g.Export()
	assert.Equal(t, "cubic", s.ScalarInterpolator)

	back, err := FromState(s)
	require.NoError(t, err)
	assert.True(t, back.Equal(g))
	assert.Equal(t, "cubic", back.ScalarInterpolator().Name())

	// The exported arrays are copies.
	s.Temperature[0] = 99
	assert.NotEqual(t, 99.0, g.Temp().Data()[0])

	s.VelocityY = s.VelocityY[:3]
	_, err = FromState(s)
	assert.ErrorIs(t, err, ErrStateMismatch)

	_, err = FromState(State{CellCount: 0})
	assert.ErrorIs(t, err, ErrInvalidCellCount)

	_, err = FromState(State{CellCount: 2, VelocityInterpolator: "sinc"})
	assert.ErrorIs(t, err, interp.ErrUnknownStrategy)
}
