// Package interp provides the 1-D interpolation strategies used by the grid
// samplers. Strategies are stateless and safe to share between grids.
package interp

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrNoSamples is returned (or panicked with) for an empty sample sequence.
	ErrNoSamples = errors.New("interp: empty sample sequence")

	// ErrInvalidIndex is returned by Eval for a NaN index.
	ErrInvalidIndex = errors.New("interp: index is NaN")

	// ErrUnknownStrategy is returned by ByName for an unrecognised name.
	ErrUnknownStrategy = errors.New("interp: unknown strategy")
)

// Interpolator reconstructs a value between uniformly spaced samples.
//
// The index may be fractional and may lie outside [0, len-1]; it is clamped
// into that range before any lookup, so out-of-range indices return the
// boundary value. Interpolate panics with ErrNoSamples on an empty slice;
// use Eval when the input is not known to be non-empty.
type Interpolator interface {
	Interpolate(samples []float64, index float64) float64
	Name() string
}

var (
	_ Interpolator = Linear{}
	_ Interpolator = Cubic{}
)

// Eval is the checked form of ip.Interpolate.
func Eval(ip Interpolator, samples []float64, index float64) (float64, error) {
	if len(samples) == 0 {
		return 0, ErrNoSamples
	}
	if math.IsNaN(index) {
		return 0, ErrInvalidIndex
	}
	return ip.Interpolate(samples, index), nil
}

// ByName returns the strategy registered under name ("linear" or "cubic").
func ByName(name string) (Interpolator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "linear":
		return Linear{}, nil
	case "cubic":
		return Cubic{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Names lists the strategies accepted by ByName.
func Names() []string {
	return []string{Linear{}.Name(), Cubic{}.Name()}
}

// clampIndex clamps index into [0, n-1] and splits it into its integer cell
// and fractional offset. NaN clamps to the first sample.
func clampIndex(index float64, n int) (int, float64) {
	hi := float64(n - 1)
	if !(index > 0) {
		return 0, 0
	}
	if index >= hi {
		return n - 1, 0
	}
	c := math.Floor(index)
	return int(c), index - c
}

func mustHaveSamples(samples []float64) {
	if len(samples) == 0 {
		panic(ErrNoSamples)
	}
}
