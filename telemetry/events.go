// Package telemetry provides field statistics, step timing, event detection,
// snapshot history and experiment output.
package telemetry

import (
	"fmt"
	"log/slog"
)

// EventType identifies the type of event.
type EventType string

const (
	EventCFLExceeded EventType = "cfl_exceeded"
	EventMassDrift   EventType = "mass_drift"
)

// Event marks a step worth a closer look.
type Event struct {
	Type        EventType `csv:"type" json:"type"`
	Step        uint64    `csv:"step" json:"step"`
	Value       float64   `csv:"value" json:"value"`
	Limit       float64   `csv:"limit" json:"limit"`
	Description string    `csv:"description" json:"description"`
}

// LogEvent logs the event using slog.
func (e Event) LogEvent() {
	slog.Warn("event",
		"type", string(e.Type),
		"step", e.Step,
		"value", e.Value,
		"limit", e.Limit,
		"description", e.Description,
	)
}

// EventDetector watches FieldStats for threshold crossings. Each condition
// fires once when it starts to hold and re-arms when it clears.
type EventDetector struct {
	cflLimit  float64 // <= 0 disables
	massDrift float64 // <= 0 disables

	cflActive   bool
	driftActive bool
}

// NewEventDetector creates a detector with the given limits.
func NewEventDetector(cflLimit, massDrift float64) *EventDetector {
	return &EventDetector{cflLimit: cflLimit, massDrift: massDrift}
}

// Check analyses the latest stats and returns any triggered events.
func (d *EventDetector) Check(stats FieldStats) []Event {
	var events []Event

	if d.cflLimit > 0 {
		over := stats.CFL > d.cflLimit
		if over && !d.cflActive {
			events = append(events, Event{
				Type:  EventCFLExceeded,
				Step:  stats.Step,
				Value: stats.CFL,
				Limit: d.cflLimit,
				Description: fmt.Sprintf("CFL %.3f exceeds %.3f (max speed %.3f, dt %.3f)",
					stats.CFL, d.cflLimit, stats.MaxSpeed, stats.DT),
			})
		}
		d.cflActive = over
	}

	if d.massDrift > 0 {
		over := stats.ScalarDrift > d.massDrift
		if over && !d.driftActive {
			events = append(events, Event{
				Type:  EventMassDrift,
				Step:  stats.Step,
				Value: stats.ScalarDrift,
				Limit: d.massDrift,
				Description: fmt.Sprintf("average scalar %.6g drifted %.2f%%",
					stats.ScalarAvg, stats.ScalarDrift*100),
			})
		}
		d.driftActive = over
	}

	return events
}

// Reset re-arms every condition.
func (d *EventDetector) Reset() {
	d.cflActive = false
	d.driftActive = false
}
