package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/flowy/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager, got %v %v", om, err)
	}
	// Nil manager methods are no-ops.
	if err := om.WriteStats(FieldStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteEvent(Event{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Error("expected empty dir")
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	for i := 1; i <= 3; i++ {
		if err := om.WriteStats(FieldStats{Step: uint64(i * 10), ScalarAvg: 1}); err != nil {
			t.Fatalf("WriteStats: %v", err)
		}
	}
	if err := om.WritePerf(PerfStats{AvgStepDuration: time.Millisecond}, 30); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	if err := om.WriteEvent(Event{Type: EventCFLExceeded, Step: 20, Value: 1.2}); err != nil {
		t.Fatalf("WriteEvent: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Closed managers drop writes.
	if err := om.WriteStats(FieldStats{Step: 40}); err != nil {
		t.Errorf("write after close: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	lines := readLines(t, filepath.Join(dir, "stats.csv"))
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows in stats.csv, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "step,sim_time,dt,scalar_avg") {
		t.Errorf("unexpected stats header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[3], "30,") {
		t.Errorf("unexpected last stats row: %s", lines[3])
	}

	perf := readLines(t, filepath.Join(dir, "perf.csv"))
	if len(perf) != 2 || !strings.HasPrefix(perf[1], "30,1000,") {
		t.Errorf("unexpected perf.csv: %v", perf)
	}

	events := readLines(t, filepath.Join(dir, "events.csv"))
	if len(events) != 2 || !strings.HasPrefix(events[1], "cfl_exceeded,20,") {
		t.Errorf("unexpected events.csv: %v", events)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}
