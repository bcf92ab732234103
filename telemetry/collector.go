package telemetry

import (
	"math"

	"github.com/pthm-cable/flowy/grid"
)

// Collector accumulates simulated time between stats windows and produces
// FieldStats every windowSteps committed steps.
type Collector struct {
	windowSteps uint64

	windowStart uint64
	simTime     float64
	lastDT      float64

	baseline    float64
	hasBaseline bool
}

// NewCollector creates a collector that flushes every windowSteps steps.
func NewCollector(windowSteps int) *Collector {
	if windowSteps < 1 {
		windowSteps = 1
	}
	return &Collector{windowSteps: uint64(windowSteps)}
}

// RecordStep records one committed step of size dt.
func (c *Collector) RecordStep(dt float64) {
	c.simTime += dt
	c.lastDT = dt
}

// ShouldFlush returns true if enough steps have passed to flush the window.
func (c *Collector) ShouldFlush(step uint64) bool {
	return step >= c.windowStart+c.windowSteps
}

// Flush measures g, fills in time and drift, and starts the next window.
// The first flush fixes the drift baseline.
func (c *Collector) Flush(g *grid.StaggeredGrid, step uint64) FieldStats {
	stats := ComputeFieldStats(g, step, c.lastDT)
	stats.SimTime = c.simTime

	if !c.hasBaseline {
		c.baseline = stats.ScalarAvg
		c.hasBaseline = true
	}
	stats.ScalarDrift = relativeDrift(stats.ScalarAvg, c.baseline)

	c.windowStart = step
	return stats
}

// Reset forgets time and baseline, e.g. after restoring a snapshot.
func (c *Collector) Reset(step uint64) {
	c.windowStart = step
	c.simTime = 0
	c.hasBaseline = false
}

// WindowSteps returns the number of steps per window.
func (c *Collector) WindowSteps() uint64 {
	return c.windowSteps
}

// relativeDrift is |v-base| / |base|, or |v-base| when base is ~0.
func relativeDrift(v, base float64) float64 {
	d := math.Abs(v - base)
	if math.Abs(base) < 1e-9 {
		return d
	}
	return d / math.Abs(base)
}
