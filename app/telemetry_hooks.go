package app

import (
	"github.com/pthm-cable/flowy/telemetry"
)

// afterStep runs the per-step bookkeeping after a committed step.
func (a *App) afterStep() {
	step, g := a.sim.Snapshot()

	a.collector.RecordStep(a.dt)
	a.tracers.Advance(g, a.dt)

	if every := a.cfg.History.ArchiveEvery; every > 0 && step%uint64(every) == 0 {
		a.ArchiveCurrent()
	}

	a.flushTelemetry()
}

// flushTelemetry checks if the stats window should be flushed and handles events.
func (a *App) flushTelemetry() {
	step, g := a.sim.Snapshot()
	if !a.collector.ShouldFlush(step) {
		return
	}

	stats := a.collector.Flush(g, step)
	perfStats := a.perf.Stats()
	a.lastStats = stats

	if a.statsCallback != nil {
		a.statsCallback(stats)
	}

	if a.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := a.output.WriteStats(stats); err != nil {
		a.logger.Error("failed to write stats", "error", err)
	}
	if err := a.output.WritePerf(perfStats, step); err != nil {
		a.logger.Error("failed to write perf", "error", err)
	}

	for _, ev := range a.events.Check(stats) {
		if a.opts.LogStats {
			ev.LogEvent()
		}
		if err := a.output.WriteEvent(ev); err != nil {
			a.logger.Error("failed to write event", "error", err)
		}
		if a.opts.SnapshotDir != "" {
			a.saveSnapshot(&ev)
		}
	}
}

// SaveSnapshot writes the current state to the snapshot directory.
func (a *App) SaveSnapshot() (string, error) {
	step, g := a.sim.Snapshot()
	return telemetry.SaveSnapshot(telemetry.NewSnapshot(step, a.seed, g, nil), a.snapshotDir())
}

// saveSnapshot writes a snapshot tagged with ev, logging failures.
func (a *App) saveSnapshot(ev *telemetry.Event) {
	step, g := a.sim.Snapshot()
	path, err := telemetry.SaveSnapshot(telemetry.NewSnapshot(step, a.seed, g, ev), a.snapshotDir())
	if err != nil {
		a.logger.Error("failed to save snapshot", "error", err)
		return
	}
	a.logger.Info("snapshot saved", "path", path, "step", step)
}

func (a *App) snapshotDir() string {
	if a.opts.SnapshotDir != "" {
		return a.opts.SnapshotDir
	}
	return "snapshots"
}
