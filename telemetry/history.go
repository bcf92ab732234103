package telemetry

import (
	"errors"
	"fmt"
	"time"

	"github.com/pthm-cable/flowy/grid"
)

// ErrNoSnapshot is returned by History.Restore for an index with no entry.
var ErrNoSnapshot = errors.New("telemetry: no snapshot at index")

// Entry is one archived (step, grid) pair.
type Entry struct {
	Step  uint64
	Taken time.Time
	Grid  *grid.StaggeredGrid
}

// History is a bounded ring of archived grids, oldest first. When full,
// archiving evicts the oldest entry. It is not safe for concurrent use.
type History struct {
	buf   []Entry
	next  int
	count int
}

// NewHistory creates a history holding at most size entries.
func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{buf: make([]Entry, size)}
}

// Archive stores a copy of g taken at step and returns its index.
func (h *History) Archive(step uint64, g *grid.StaggeredGrid) int {
	h.buf[h.next] = Entry{Step: step, Taken: time.Now(), Grid: g.Clone()}
	h.next = (h.next + 1) % len(h.buf)
	if h.count < len(h.buf) {
		h.count++
	}
	return h.count - 1
}

// Restore returns a copy of entry i (0 is the oldest). The caller owns the
// returned grid.
func (h *History) Restore(i int) (Entry, error) {
	e, ok := h.at(i)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %d of %d", ErrNoSnapshot, i, h.count)
	}
	e.Grid = e.Grid.Clone()
	return e, nil
}

// Len returns the number of stored entries.
func (h *History) Len() int { return h.count }

// Cap returns the maximum number of entries.
func (h *History) Cap() int { return len(h.buf) }

// Entries lists the stored entries, oldest first. The grids are owned by the
// history and must not be modified.
func (h *History) Entries() []Entry {
	out := make([]Entry, 0, h.count)
	for i := 0; i < h.count; i++ {
		e, _ := h.at(i)
		out = append(out, e)
	}
	return out
}

// Latest returns the newest entry without copying its grid.
func (h *History) Latest() (Entry, bool) {
	return h.at(h.count - 1)
}

// Clear drops every entry.
func (h *History) Clear() {
	clear(h.buf)
	h.next = 0
	h.count = 0
}

func (h *History) at(i int) (Entry, bool) {
	if i < 0 || i >= h.count {
		return Entry{}, false
	}
	oldest := (h.next - h.count + len(h.buf)) % len(h.buf)
	return h.buf[(oldest+i)%len(h.buf)], true
}
