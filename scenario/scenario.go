// Package scenario fills a grid with named initial conditions.
package scenario

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/pthm-cable/flowy/config"
	"github.com/pthm-cable/flowy/grid"
	"github.com/pthm-cable/flowy/vmath"
)

// ErrUnknownPreset is returned by Apply for an unrecognised preset name.
var ErrUnknownPreset = errors.New("scenario: unknown preset")

// Spec selects and parameterises the velocity and scalar presets.
type Spec struct {
	Velocity   string
	Scalar     string
	Speed      float64
	Amplitude  float64
	Radius     float64
	NoiseScale float64
	Seed       int64

	// Boundary, when set, overwrites the scalar ghost layer after the preset.
	Boundary *float64
}

// FromConfig builds a Spec from the scenario and simulation sections.
func FromConfig(cfg *config.Config) Spec {
	sc := cfg.Scenario
	return Spec{
		Velocity:   sc.Velocity,
		Scalar:     sc.Scalar,
		Speed:      sc.Speed,
		Amplitude:  sc.Amplitude,
		Radius:     sc.Radius,
		NoiseScale: sc.NoiseScale,
		Seed:       sc.Seed,
		Boundary:   cfg.Simulation.BoundaryScalar,
	}
}

// velocityField returns the velocity at a physical position.
type velocityField func(p vmath.Vector2) vmath.Vector2

// scalarField returns the scalar at a physical position.
type scalarField func(p vmath.Vector2) float64

// fillVelocity samples each component of vel at its own face positions.
func fillVelocity(g *grid.StaggeredGrid, vel velocityField) {
	g.FillVelX(func(x, y int) float64 {
		return vel(vmath.Vec(float64(x), float64(y)+0.5)).X
	})
	g.FillVelY(func(x, y int) float64 {
		return vel(vmath.Vec(float64(x)+0.5, float64(y))).Y
	})
}

var velocityPresets = map[string]func(g *grid.StaggeredGrid, s Spec){
	"still": func(g *grid.StaggeredGrid, _ Spec) {
		fillVelocity(g, func(vmath.Vector2) vmath.Vector2 { return vmath.Vector2{} })
	},
	"uniform": func(g *grid.StaggeredGrid, s Spec) {
		fillVelocity(g, func(vmath.Vector2) vmath.Vector2 { return vmath.Vec(s.Speed, 0) })
	},
	// Every stored velocity_x value is speed * index / N in storage order.
	"ramp": func(g *grid.StaggeredGrid, s Spec) {
		n := float64(g.CellCount())
		data := g.VelX().Data()
		for i := range data {
			data[i] = s.Speed * float64(i) / n
		}
		g.FillVelY(func(int, int) float64 { return 0 })
	},
	// Solid-body rotation about the centre; speed is reached at the mid-edges.
	"vortex": func(g *grid.StaggeredGrid, s Spec) {
		c := float64(g.CellCount()) / 2
		fillVelocity(g, func(p vmath.Vector2) vmath.Vector2 {
			d := p.Sub(vmath.Vec(c, c))
			return vmath.Vec(-d.Y, d.X).Scale(s.Speed / c)
		})
	},
	// Horizontal flow varying sinusoidally with height.
	"shear": func(g *grid.StaggeredGrid, s Spec) {
		n := float64(g.CellCount())
		fillVelocity(g, func(p vmath.Vector2) vmath.Vector2 {
			return vmath.Vec(s.Speed*math.Sin(2*math.Pi*p.Y/n), 0)
		})
	},
}

var scalarPresets = map[string]func(s Spec, n float64) scalarField{
	"zero": func(Spec, float64) scalarField {
		return func(vmath.Vector2) float64 { return 0 }
	},
	"gradient": func(s Spec, n float64) scalarField {
		return func(p vmath.Vector2) float64 { return s.Amplitude * p.X / n }
	},
	// Gaussian a quarter of the domain below the centre, so a vortex moves it.
	"blob": func(s Spec, n float64) scalarField {
		centre := vmath.Vec(n/2, n/4)
		sigma := math.Max(s.Radius, 1e-3)
		return func(p vmath.Vector2) float64 {
			r2 := p.Sub(centre).LenSquared()
			return s.Amplitude * math.Exp(-r2/(2*sigma*sigma))
		}
	},
	"noise": func(s Spec, _ float64) scalarField {
		perlin := NewPerlin(s.Seed)
		return func(p vmath.Vector2) float64 {
			v := perlin.Fractal(p.X*s.NoiseScale, p.Y*s.NoiseScale, 4)
			return s.Amplitude * (v + 1) / 2
		}
	},
}

// VelocityPresets lists the accepted velocity preset names.
func VelocityPresets() []string {
	return []string{"still", "uniform", "ramp", "vortex", "shear"}
}

// ScalarPresets lists the accepted scalar preset names.
func ScalarPresets() []string {
	return []string{"zero", "gradient", "blob", "noise"}
}

// Apply overwrites g's velocity and scalar, ghost layer included, with the
// presets named in s. Nothing is written if either name is unknown.
func Apply(g *grid.StaggeredGrid, s Spec) error {
	fillVel, ok := velocityPresets[normalise(s.Velocity)]
	if !ok {
		return fmt.Errorf("%w: velocity %q", ErrUnknownPreset, s.Velocity)
	}
	newScalar, ok := scalarPresets[normalise(s.Scalar)]
	if !ok {
		return fmt.Errorf("%w: scalar %q", ErrUnknownPreset, s.Scalar)
	}

	fillVel(g, s)

	scalar := newScalar(s, float64(g.CellCount()))
	g.FillTemp(func(x, y int) float64 {
		return scalar(vmath.Vec(float64(x)+0.5, float64(y)+0.5))
	})

	if s.Boundary != nil {
		SetScalarBoundary(g, *s.Boundary)
	}
	return nil
}

func normalise(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SetScalarBoundary writes v into every scalar ghost cell.
func SetScalarBoundary(g *grid.StaggeredGrid, v float64) {
	minX, minY, maxX, maxY := g.Temp().Bounds()
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if x == minX || x == maxX || y == minY || y == maxY {
				g.SetTemp(x, y, v)
			}
		}
	}
}
