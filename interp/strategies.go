package interp

////////////
// Linear //
////////////

// Linear is 2-point piecewise-linear interpolation. It is monotone between
// neighbouring samples and never overshoots.
type Linear struct{}

// Name implements Interpolator.
func (Linear) Name() string { return "linear" }

// Interpolate implements Interpolator.
func (Linear) Interpolate(samples []float64, index float64) float64 {
	mustHaveSamples(samples)
	n := len(samples)

	c0, s := clampIndex(index, n)
	c1 := min(c0+1, n-1)

	return (1-s)*samples[c0] + s*samples[c1]
}

///////////
// Cubic //
///////////

// Cubic is 4-point cubic interpolation. It dissipates less than Linear under
// repeated resampling at the cost of mild overshoot. Near the ends of the
// sequence the clamped neighbour indices repeat the boundary sample.
type Cubic struct{}

// Name implements Interpolator.
func (Cubic) Name() string { return "cubic" }

// Interpolate implements Interpolator.
func (Cubic) Interpolate(samples []float64, index float64) float64 {
	mustHaveSamples(samples)
	n := len(samples)

	c1, s := clampIndex(index, n)
	c0 := max(c1-1, 0)
	c2 := min(c1+1, n-1)
	c3 := min(c1+2, n-1)

	w0, w1, w2, w3 := cubicWeights(s)

	return w0*samples[c0] + w1*samples[c1] + w2*samples[c2] + w3*samples[c3]
}

// cubicWeights returns the four sample weights for offset s in [0, 1).
// They sum to one for every s, and s == 0 yields (0, 1, 0, 0).
func cubicWeights(s float64) (w0, w1, w2, w3 float64) {
	s2 := s * s
	s3 := s2 * s

	w0 = -s/3 + s2/2 - s3/6
	w1 = 1 - s2 + (s3-s)/2
	w2 = s + (s2-s3)/2
	w3 = (s3 - s) / 6
	return w0, w1, w2, w3
}
