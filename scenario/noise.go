package scenario

import (
	"math"
	"math/rand"
)

// Perlin generates 2-D gradient noise in roughly [-1, 1].
type Perlin struct {
	perm [512]uint8
}

// NewPerlin creates a noise generator with a permutation shuffled by seed.
func NewPerlin(seed int64) *Perlin {
	rng := rand.New(rand.NewSource(seed))
	p := &Perlin{}
	for i, v := range rng.Perm(256) {
		p.perm[i] = uint8(v)
		p.perm[i+256] = uint8(v)
	}
	return p
}

// Noise returns the noise value at (x, y). It is zero at integer lattice points.
func (p *Perlin) Noise(x, y float64) float64 {
	x0, y0 := math.Floor(x), math.Floor(y)
	xi, yi := int(x0)&255, int(y0)&255
	fx, fy := x-x0, y-y0

	aa := p.perm[int(p.perm[xi])+yi]
	ab := p.perm[int(p.perm[xi])+yi+1]
	ba := p.perm[int(p.perm[xi+1])+yi]
	bb := p.perm[int(p.perm[xi+1])+yi+1]

	u, v := fade(fx), fade(fy)
	bottom := lerp(u, grad(aa, fx, fy), grad(ba, fx-1, fy))
	top := lerp(u, grad(ab, fx, fy-1), grad(bb, fx-1, fy-1))
	return lerp(v, bottom, top)
}

// Fractal sums octaves of noise with halving amplitude and doubling frequency,
// normalised back to roughly [-1, 1].
func (p *Perlin) Fractal(x, y float64, octaves int) float64 {
	var sum, norm float64
	amp, freq := 1.0, 1.0
	for range max(octaves, 1) {
		sum += amp * p.Noise(x*freq, y*freq)
		norm += amp
		amp /= 2
		freq *= 2
	}
	return sum / norm
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// grad dots (x, y) with one of eight unit-ish lattice gradients.
func grad(hash uint8, x, y float64) float64 {
	switch hash & 7 {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	case 3:
		return -x - y
	case 4:
		return x
	case 5:
		return -x
	case 6:
		return y
	default:
		return -y
	}
}
