package main

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// Decay is an exponential fit var(n) = V0 * exp(-Lambda*n).
type Decay struct {
	V0     float64
	Lambda float64
	RMSE   float64 // in log space
}

var errTooFewSamples = errors.New("need at least two positive variance samples")

// fitDecay fits an exponential decay to series, indexed by step. Non-positive
// samples carry no log-space information and are skipped.
func fitDecay(series []float64) (Decay, error) {
	var steps, logs []float64
	for n, v := range series {
		if v > 0 && !math.IsInf(v, 0) {
			steps = append(steps, float64(n))
			logs = append(logs, math.Log(v))
		}
	}
	if len(steps) < 2 {
		return Decay{}, errTooFewSamples
	}

	sse := func(x []float64) float64 {
		var sum float64
		for i, n := range steps {
			r := logs[i] - (x[0] - x[1]*n)
			sum += r * r
		}
		return sum
	}

	last := len(steps) - 1
	lambda := (logs[0] - logs[last]) / (steps[last] - steps[0])
	init := []float64{logs[0] + lambda*steps[0], lambda}

	result, err := optimize.Minimize(optimize.Problem{Func: sse}, init, nil, &optimize.NelderMead{})
	if err != nil {
		return Decay{}, err
	}

	return Decay{
		V0:     math.Exp(result.X[0]),
		Lambda: result.X[1],
		RMSE:   math.Sqrt(result.F / float64(len(steps))),
	}, nil
}
