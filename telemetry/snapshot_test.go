package telemetry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/flowy/grid"
	"github.com/pthm-cable/flowy/interp"
)

func testGrid(t *testing.T, n int) *grid.StaggeredGrid {
	t.Helper()
	g, err := grid.New(n, grid.WithScalarInterpolator(interp.Cubic{}))
	if err != nil {
		t.Fatal(err)
	}
	g.FillVelX(func(x, y int) float64 { return 0.1 * float64(x-y) })
	g.FillVelY(func(x, y int) float64 { return -0.2 * float64(y) })
	g.FillTemp(func(x, y int) float64 { return float64(x*x) / 3 })
	return g
}

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	g := testGrid(t, 6)

	snapshot := NewSnapshot(1000, 42, g, &Event{
		Type:        EventCFLExceeded,
		Step:        1000,
		Value:       1.7,
		Description: "Test event",
	})

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Version != SnapshotVersion {
		t.Errorf("Version mismatch: got %d, want %d", loaded.Version, SnapshotVersion)
	}
	if loaded.Seed != 42 {
		t.Errorf("Seed mismatch: got %d, want 42", loaded.Seed)
	}
	if loaded.Step != 1000 {
		t.Errorf("Step mismatch: got %d, want 1000", loaded.Step)
	}
	if loaded.Event == nil {
		t.Error("Event not loaded")
	} else if loaded.Event.Type != EventCFLExceeded {
		t.Errorf("Event type mismatch: got %s", loaded.Event.Type)
	}

	back, err := loaded.Restore()
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if !back.Equal(g) {
		t.Error("restored grid differs from the saved grid")
	}
	if back.ScalarInterpolator().Name() != "cubic" {
		t.Errorf("expected cubic scalar interpolation, got %s", back.ScalarInterpolator().Name())
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()
	g := testGrid(t, 2)

	path, err := SaveSnapshot(NewSnapshot(5000, 0, g, &Event{Type: EventMassDrift, Step: 5000}), tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	expected := filepath.Join(tmpDir, "snapshot_5000_mass_drift.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}

	path, err = SaveSnapshot(NewSnapshot(3000, 0, g, nil), tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	expected = filepath.Join(tmpDir, "snapshot_3000.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}
}

func TestLoadSnapshotErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadSnapshot(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	garbage := filepath.Join(dir, "garbage.json")
	if err := os.WriteFile(garbage, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(garbage); err == nil {
		t.Error("expected error for malformed file")
	}

	future := filepath.Join(dir, "future.json")
	if err := os.WriteFile(future, []byte(`{"version": 99, "step": 1}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(future); !errors.Is(err, ErrSnapshotVersion) {
		t.Errorf("expected ErrSnapshotVersion, got %v", err)
	}
}

func TestSnapshotRestoreMismatch(t *testing.T) {
	s := NewSnapshot(1, 0, testGrid(t, 3), nil)
	s.Grid.Temperature = s.Grid.Temperature[:4]
	if _, err := s.Restore(); !errors.Is(err, grid.ErrStateMismatch) {
		t.Errorf("expected ErrStateMismatch, got %v", err)
	}
}
