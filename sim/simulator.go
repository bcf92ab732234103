// Package sim advances a staggered grid with first-order semi-Lagrangian
// advection. Velocity and scalar are both carried by the pre-step velocity
// field; no pressure projection, forcing or diffusion is applied.
package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pthm-cable/flowy/grid"
	"github.com/pthm-cable/flowy/vmath"
)

var (
	ErrNilGrid         = errors.New("sim: nil grid")
	ErrStepInFlight    = errors.New("sim: step already in progress")
	ErrInvalidTimestep = errors.New("sim: timestep must be finite and non-negative")
	ErrNonFinite       = errors.New("sim: step produced non-finite values")
)

// Phase names reported to a PhaseTimer.
const (
	PhaseVelocityX = "advect_velocity_x"
	PhaseVelocityY = "advect_velocity_y"
	PhaseScalar    = "advect_scalar"
	PhaseCommit    = "commit"
)

// PhaseTimer receives step timing hooks. telemetry.PerfCollector implements it.
type PhaseTimer interface {
	StartStep()
	StartPhase(phase string)
	EndStep()
}

// State is the stepping state of a Simulator.
type State uint8

const (
	Idle State = iota
	Stepping
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Stepping:
		return "stepping"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Simulator owns the current grid and the step counter.
//
// Readers never observe a partially advected grid: a step builds its result
// in a clone and swaps it in under the write lock.
type Simulator struct {
	mu          sync.RWMutex // guards grid, step, lastStepped
	grid        *grid.StaggeredGrid
	step        uint64
	lastStepped time.Time

	writeMu  sync.Mutex // serialises Advect, Update and Restore
	stepping atomic.Bool

	timer  PhaseTimer
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithPhaseTimer reports per-phase timings of each step to t.
func WithPhaseTimer(t PhaseTimer) Option {
	return func(s *Simulator) { s.timer = t }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a simulator over g at step zero. The simulator takes ownership
// of g; callers should not modify it afterwards except through Update.
func New(g *grid.StaggeredGrid, opts ...Option) (*Simulator, error) {
	if g == nil {
		return nil, ErrNilGrid
	}
	s := &Simulator{
		grid:   g,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Grid returns the current grid. It must be treated as read-only.
func (s *Simulator) Grid() *grid.StaggeredGrid {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid
}

// Snapshot returns the step counter together with the grid it describes.
func (s *Simulator) Snapshot() (uint64, *grid.StaggeredGrid) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.step, s.grid
}

// StepCount returns the number of committed steps.
func (s *Simulator) StepCount() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.step
}

// LastStepped returns when the last step was committed (zero before the first).
func (s *Simulator) LastStepped() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastStepped
}

// State reports whether a step is in progress.
func (s *Simulator) State() State {
	if s.stepping.Load() {
		return Stepping
	}
	return Idle
}

// Update runs fn on the current grid with exclusive access, for boundary and
// initial-condition setup. It waits for an in-flight step to finish.
func (s *Simulator) Update(fn func(g *grid.StaggeredGrid)) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.grid)
}

// Restore replaces the current grid with a copy of g and sets the step counter.
func (s *Simulator) Restore(step uint64, g *grid.StaggeredGrid) error {
	if g == nil {
		return ErrNilGrid
	}
	c := g.Clone()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	s.grid = c
	s.step = step
	s.mu.Unlock()

	s.logger.Info("simulator restored", "step", step, "cell_count", c.CellCount())
	return nil
}

// Advect performs one advection step of size dt.
//
// On error nothing is committed: the grid and step counter are unchanged.
func (s *Simulator) Advect(dt float64) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTimestep, dt)
	}
	if !s.stepping.CompareAndSwap(false, true) {
		return ErrStepInFlight
	}
	defer s.stepping.Store(false)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.timer != nil {
		s.timer.StartStep()
		defer s.timer.EndStep()
	}

	// Only this goroutine writes s.grid while writeMu is held.
	cur := s.grid
	next := advect(cur, dt, s.startPhase)

	s.startPhase(PhaseCommit)
	if !next.Finite() {
		s.logger.Warn("step refused", "step", s.StepCount(), "dt", dt, "error", ErrNonFinite)
		return fmt.Errorf("%w (step %d, dt %v)", ErrNonFinite, s.StepCount()+1, dt)
	}

	s.mu.Lock()
	s.grid = next
	s.step++
	s.lastStepped = s.now()
	step := s.step
	s.mu.Unlock()

	s.logger.Debug("step", "step", step, "dt", dt)
	return nil
}

// Run performs up to steps steps of size dt and returns how many were
// committed. It stops at the first error.
func (s *Simulator) Run(steps int, dt float64) (int, error) {
	for i := 0; i < steps; i++ {
		if err := s.Advect(dt); err != nil {
			return i, err
		}
	}
	return steps, nil
}

func (s *Simulator) startPhase(phase string) {
	if s.timer != nil {
		s.timer.StartPhase(phase)
	}
}

// advect returns cur advanced by dt. Every interior sample is traced back
// along the pre-step velocity, clamped into the domain, and resampled from
// cur. Ghost values are carried over unchanged.
func advect(cur *grid.StaggeredGrid, dt float64, phase func(string)) *grid.StaggeredGrid {
	n := cur.CellCount()
	domain := float64(n)
	next := cur.Clone()

	traceBack := func(p vmath.Vector2) vmath.Vector2 {
		return p.Sub(cur.SampleVelocity(p).Scale(dt)).Clamp(0, domain)
	}

	phase(PhaseVelocityX)
	for row := 0; row < n; row++ {
		for col := 0; col <= n; col++ {
			p := vmath.Vec(float64(col), float64(row)+0.5)
			next.SetVelX(col, row, cur.SampleVelocity(traceBack(p)).X)
		}
	}

	phase(PhaseVelocityY)
	for row := 0; row < n; row++ {
		for col := 0; col <= n; col++ {
			p := vmath.Vec(float64(row)+0.5, float64(col))
			next.SetVelY(row, col, cur.SampleVelocity(traceBack(p)).Y)
		}
	}

	phase(PhaseScalar)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			p := vmath.Vec(float64(x)+0.5, float64(y)+0.5)
			next.SetTemp(x, y, cur.SampleScalar(traceBack(p)))
		}
	}

	return next
}
