// Package app wires the simulator to its scenario, history, tracers and
// telemetry. It is shared by the headless, terminal and window front ends
// and draws nothing itself.
package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/flowy/config"
	"github.com/pthm-cable/flowy/grid"
	"github.com/pthm-cable/flowy/scenario"
	"github.com/pthm-cable/flowy/sim"
	"github.com/pthm-cable/flowy/telemetry"
	"github.com/pthm-cable/flowy/tracers"
)

// Options configures an App beyond the config file.
type Options struct {
	Seed        int64 // overrides scenario.seed when non-zero
	LogStats    bool  // log stats, perf and events via slog
	SnapshotDir string
	OutputDir   string
	Logger      *slog.Logger
}

// App holds the complete simulation state.
type App struct {
	cfg    *config.Config
	opts   Options
	seed   int64
	logger *slog.Logger

	sim     *sim.Simulator
	history *telemetry.History
	tracers *tracers.System

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	events    *telemetry.EventDetector
	output    *telemetry.OutputManager

	dt        float64
	running   bool
	selected  int // history index for restore, -1 for none
	lastErr   error
	lastStats telemetry.FieldStats

	statsCallback func(telemetry.FieldStats)
}

// New builds the grid from cfg's scenario and wires everything around it.
func New(cfg *config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	spec := scenario.FromConfig(cfg)
	if opts.Seed != 0 {
		spec.Seed = opts.Seed
	}

	g, err := grid.New(cfg.Grid.CellCount,
		grid.WithVelocityInterpolator(cfg.Derived.VelocityInterp),
		grid.WithScalarInterpolator(cfg.Derived.ScalarInterp),
	)
	if err != nil {
		return nil, fmt.Errorf("creating grid: %w", err)
	}
	if err := scenario.Apply(g, spec); err != nil {
		return nil, err
	}

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	s, err := sim.New(g, sim.WithPhaseTimer(perf), sim.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config: %w", err)
	}

	a := &App{
		cfg:       cfg,
		opts:      opts,
		seed:      spec.Seed,
		logger:    logger,
		sim:       s,
		history:   telemetry.NewHistory(cfg.History.Size),
		tracers:   tracers.NewSystem(float64(cfg.Grid.CellCount), cfg.Tracers.Lifespan, spec.Seed),
		collector: telemetry.NewCollector(cfg.Telemetry.StatsEvery),
		perf:      perf,
		events:    telemetry.NewEventDetector(cfg.Telemetry.CFLLimit, cfg.Telemetry.MassDrift),
		output:    output,
		dt:        cfg.Simulation.DT,
		selected:  -1,
	}
	a.tracers.Spawn(cfg.Tracers.Count)
	a.ArchiveCurrent()

	logger.Info("app ready",
		"cell_count", cfg.Grid.CellCount,
		"velocity", spec.Velocity,
		"scalar", spec.Scalar,
		"velocity_interp", cfg.Derived.VelocityInterp.Name(),
		"scalar_interp", cfg.Derived.ScalarInterp.Name(),
		"dt", a.dt,
		"seed", a.seed,
	)
	return a, nil
}

// SetStatsCallback registers fn to receive every flushed stats record.
func (a *App) SetStatsCallback(fn func(telemetry.FieldStats)) {
	a.statsCallback = fn
}

// Step advances the simulation once. A refused step pauses the app and
// leaves every piece of state as it was.
func (a *App) Step() error {
	if err := a.sim.Advect(a.dt); err != nil {
		a.running = false
		a.lastErr = err
		if !errors.Is(err, sim.ErrStepInFlight) {
			a.logger.Error("step refused, pausing", "step", a.sim.StepCount(), "dt", a.dt, "error", err)
		}
		return err
	}
	a.lastErr = nil
	a.afterStep()
	return nil
}

// UpdateHeadless performs steps_per_update steps without pacing.
func (a *App) UpdateHeadless() error {
	for range a.cfg.Simulation.StepsPerUpdate {
		if err := a.Step(); err != nil {
			return err
		}
	}
	return nil
}

// ArchiveCurrent stores a copy of the current grid in history and selects it.
func (a *App) ArchiveCurrent() int {
	step, g := a.sim.Snapshot()
	a.selected = a.history.Archive(step, g)
	a.logger.Debug("archived", "step", step, "index", a.selected, "history", a.history.Len())
	return a.selected
}

// RestoreSnapshot replaces the current grid with history entry i.
// Telemetry windows restart from the restored step.
func (a *App) RestoreSnapshot(i int) error {
	entry, err := a.history.Restore(i)
	if err != nil {
		return err
	}
	if err := a.sim.Restore(entry.Step, entry.Grid); err != nil {
		return err
	}
	a.selected = i
	a.lastErr = nil
	a.collector.Reset(entry.Step)
	a.events.Reset()
	return nil
}

// LoadSnapshotFile restores the grid and step from a JSON snapshot.
func (a *App) LoadSnapshotFile(path string) error {
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return err
	}
	g, err := snap.Restore()
	if err != nil {
		return err
	}
	if g.CellCount() != a.cfg.Grid.CellCount {
		return fmt.Errorf("snapshot has %d cells, config has %d", g.CellCount(), a.cfg.Grid.CellCount)
	}
	if err := a.sim.Restore(snap.Step, g); err != nil {
		return err
	}
	a.collector.Reset(snap.Step)
	a.events.Reset()
	a.ArchiveCurrent()
	return nil
}

// SelectPrev moves the history selection towards older entries.
func (a *App) SelectPrev() {
	if a.history.Len() == 0 {
		return
	}
	a.selected = max(a.selected-1, 0)
}

// SelectNext moves the history selection towards newer entries.
func (a *App) SelectNext() {
	if a.history.Len() == 0 {
		return
	}
	a.selected = min(a.selected+1, a.history.Len()-1)
}

// Selected returns the selected history index, or -1.
func (a *App) Selected() int { return a.selected }

// StepCount returns the number of committed steps.
func (a *App) StepCount() uint64 { return a.sim.StepCount() }

// Grid returns the current grid. It must not be modified.
func (a *App) Grid() *grid.StaggeredGrid { return a.sim.Grid() }

// Simulator returns the underlying simulator.
func (a *App) Simulator() *sim.Simulator { return a.sim }

// History returns the snapshot history.
func (a *App) History() *telemetry.History { return a.history }

// Tracers returns the tracer system.
func (a *App) Tracers() *tracers.System { return a.tracers }

// Perf returns the step performance collector.
func (a *App) Perf() *telemetry.PerfCollector { return a.perf }

// LastStats returns the most recent flushed stats record.
func (a *App) LastStats() telemetry.FieldStats { return a.lastStats }

// LastError returns the error of the last refused step, or nil.
func (a *App) LastError() error { return a.lastErr }

// DT returns the step size.
func (a *App) DT() float64 { return a.dt }

// SetDT sets the step size. Invalid values are rejected by the next step.
func (a *App) SetDT(dt float64) { a.dt = dt }

// Running reports whether paced front ends should keep stepping.
func (a *App) Running() bool { return a.running }

// SetRunning starts or pauses paced stepping.
func (a *App) SetRunning(running bool) {
	a.running = running
	if running {
		a.lastErr = nil
	}
}

// Seed returns the scenario seed in use.
func (a *App) Seed() int64 { return a.seed }

// Config returns the configuration the app was built from.
func (a *App) Config() *config.Config { return a.cfg }

// Unload flushes and closes output files.
func (a *App) Unload() error {
	return a.output.Close()
}
