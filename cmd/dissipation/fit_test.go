package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitDecayRecoversRate(t *testing.T) {
	series := make([]float64, 60)
	for n := range series {
		wobble := 1 + 0.01*math.Sin(float64(n))
		series[n] = 2 * math.Exp(-0.05*float64(n)) * wobble
	}

	d, err := fitDecay(series)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, d.Lambda, 1e-3)
	assert.InDelta(t, 2.0, d.V0, 0.05)
	assert.Less(t, d.RMSE, 0.02)
}

func TestFitDecaySkipsZeros(t *testing.T) {
	series := []float64{0, 1, math.Exp(-0.1), math.Exp(-0.2), 0}

	d, err := fitDecay(series)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, d.Lambda, 1e-4)
}

func TestFitDecayTooFewSamples(t *testing.T) {
	_, err := fitDecay([]float64{0, 1, 0})
	assert.ErrorIs(t, err, errTooFewSamples)

	_, err = fitDecay(nil)
	assert.ErrorIs(t, err, errTooFewSamples)
}
