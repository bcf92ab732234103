package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/flowy/grid"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// ErrSnapshotVersion is returned by LoadSnapshot for files written by a newer format.
var ErrSnapshotVersion = errors.New("telemetry: unsupported snapshot version")

// Snapshot holds the complete simulation state for replay.
type Snapshot struct {
	Version int    `json:"version"`
	Step    uint64 `json:"step"`
	Seed    int64  `json:"seed"`

	Grid grid.State `json:"grid"`

	Event *Event `json:"event,omitempty"`
}

// NewSnapshot captures g at step. ev may be nil.
func NewSnapshot(step uint64, seed int64, g *grid.StaggeredGrid, ev *Event) *Snapshot {
	return &Snapshot{
		Version: SnapshotVersion,
		Step:    step,
		Seed:    seed,
		Grid:    g.Export(),
		Event:   ev,
	}
}

// Restore rebuilds the grid stored in the snapshot.
func (s *Snapshot) Restore() (*grid.StaggeredGrid, error) {
	return grid.FromState(s.Grid)
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Step)
	if snapshot.Event != nil {
		name += "_" + strings.ReplaceAll(string(snapshot.Event.Type), " ", "_")
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version < 1 || snapshot.Version > SnapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrSnapshotVersion, snapshot.Version)
	}

	return &snapshot, nil
}
