package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/flowy/grid"
)

// FieldStats summarises the grid at one step.
type FieldStats struct {
	Step    uint64  `csv:"step"`
	SimTime float64 `csv:"sim_time"` // sum of dt over committed steps
	DT      float64 `csv:"dt"`

	// Average over every scalar cell, ghosts included. This is the quantity
	// tracked for drift.
	ScalarAvg   float64 `csv:"scalar_avg"`
	ScalarDrift float64 `csv:"scalar_drift"` // relative to the first record

	// Interior distribution
	ScalarStd      float64 `csv:"scalar_std"`
	ScalarVariance float64 `csv:"scalar_variance"`
	ScalarMin      float64 `csv:"scalar_min"`
	ScalarMax      float64 `csv:"scalar_max"`
	ScalarP10      float64 `csv:"scalar_p10"`
	ScalarP50      float64 `csv:"scalar_p50"`
	ScalarP90      float64 `csv:"scalar_p90"`

	// Flow
	MaxSpeed      float64 `csv:"max_speed"`
	KineticEnergy float64 `csv:"kinetic_energy"`
	CFL           float64 `csv:"cfl"` // max_speed * dt in cells per step
}

// ComputeFieldStats measures g. SimTime and ScalarDrift are left for the
// caller (see Collector).
func ComputeFieldStats(g *grid.StaggeredGrid, step uint64, dt float64) FieldStats {
	n := g.CellCount()
	scalars := make([]float64, 0, n*n)
	energy := make([]float64, 0, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			scalars = append(scalars, g.TempAt(x, y))
			energy = append(energy, 0.5*g.CellVelocity(x, y).LenSquared())
		}
	}

	_, std := stat.PopMeanStdDev(scalars, nil)
	slices.Sort(scalars)
	maxSpeed := g.MaxSpeed()

	return FieldStats{
		Step:           step,
		DT:             dt,
		ScalarAvg:      g.AverageScalar(),
		ScalarStd:      std,
		ScalarVariance: std * std,
		ScalarMin:      floats.Min(scalars),
		ScalarMax:      floats.Max(scalars),
		ScalarP10:      stat.Quantile(0.10, stat.LinInterp, scalars, nil),
		ScalarP50:      stat.Quantile(0.50, stat.LinInterp, scalars, nil),
		ScalarP90:      stat.Quantile(0.90, stat.LinInterp, scalars, nil),
		MaxSpeed:       maxSpeed,
		KineticEnergy:  floats.Sum(energy),
		CFL:            maxSpeed * dt,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s FieldStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("step", s.Step),
		slog.Float64("sim_time", s.SimTime),
		slog.Float64("dt", s.DT),
		slog.Float64("scalar_avg", s.ScalarAvg),
		slog.Float64("scalar_drift", s.ScalarDrift),
		slog.Float64("scalar_std", s.ScalarStd),
		slog.Float64("scalar_min", s.ScalarMin),
		slog.Float64("scalar_max", s.ScalarMax),
		slog.Float64("scalar_p50", s.ScalarP50),
		slog.Float64("max_speed", s.MaxSpeed),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("cfl", s.CFL),
	)
}

// LogStats logs the stats using slog.
func (s FieldStats) LogStats() {
	slog.Info("stats", "field", s)
}
