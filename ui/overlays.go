package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flowy/renderer"
)

// OverlayID uniquely identifies a drawable layer.
type OverlayID string

// Layer overlay IDs.
const (
	OverlayScalar      OverlayID = "scalar"
	OverlaySpeed       OverlayID = "speed"
	OverlayGrid        OverlayID = "grid"
	OverlayFaceVectors OverlayID = "face_vectors"
	OverlayCellVectors OverlayID = "cell_vectors"
	OverlayTracers     OverlayID = "tracers"
)

// OverlayDescriptor defines a layer that can be toggled.
type OverlayDescriptor struct {
	ID        OverlayID
	Name      string
	Key       int32  // raylib key, 0 for none
	KeyLabel  string // e.g. "T"
	Category  string // "fields" or "vectors"
	Exclusive []OverlayID
}

// OverlayRegistry tracks which layers are enabled.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry of the renderer's layers, enabled
// as in layers.
func NewOverlayRegistry(layers renderer.Layers) *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	reg.enabled[OverlayScalar] = layers.Scalar
	reg.enabled[OverlaySpeed] = layers.Speed
	reg.enabled[OverlayGrid] = layers.Grid
	reg.enabled[OverlayFaceVectors] = layers.FaceVectors
	reg.enabled[OverlayCellVectors] = layers.CellVectors
	reg.enabled[OverlayTracers] = layers.Tracers
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{ID: OverlayScalar, Name: "Scalar", Key: rl.KeyT, KeyLabel: "T", Category: "fields"})
	r.Register(OverlayDescriptor{ID: OverlaySpeed, Name: "Speed", Key: rl.KeyV, KeyLabel: "V", Category: "fields"})
	r.Register(OverlayDescriptor{ID: OverlayGrid, Name: "Grid Lines", Key: rl.KeyG, KeyLabel: "G", Category: "fields"})
	r.Register(OverlayDescriptor{
		ID:        OverlayFaceVectors,
		Name:      "Face Vectors",
		Key:       rl.KeyF,
		KeyLabel:  "F",
		Category:  "vectors",
		Exclusive: []OverlayID{OverlayCellVectors},
	})
	r.Register(OverlayDescriptor{
		ID:        OverlayCellVectors,
		Name:      "Cell Vectors",
		Key:       rl.KeyC,
		KeyLabel:  "C",
		Category:  "vectors",
		Exclusive: []OverlayID{OverlayFaceVectors},
	})
	r.Register(OverlayDescriptor{ID: OverlayTracers, Name: "Tracers", Key: rl.KeyP, KeyLabel: "P", Category: "vectors"})
}

// Register adds an overlay to the registry, disabled.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = false
}

// Toggle switches an overlay and returns its new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.SetEnabled(id, !r.enabled[id])
	return r.enabled[id]
}

// SetEnabled sets an overlay's state. Enabling one turns off its exclusives.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}
	r.enabled[id] = enabled
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// ByCategory returns overlays in a category, in registration order.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeys toggles every overlay whose key was pressed this frame.
func (r *OverlayRegistry) HandleKeys() {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			r.Toggle(desc.ID)
		}
	}
}

// ApplyTo copies the enabled states into layers.
func (r *OverlayRegistry) ApplyTo(layers *renderer.Layers) {
	layers.Scalar = r.enabled[OverlayScalar]
	layers.Speed = r.enabled[OverlaySpeed]
	layers.Grid = r.enabled[OverlayGrid]
	layers.FaceVectors = r.enabled[OverlayFaceVectors]
	layers.CellVectors = r.enabled[OverlayCellVectors]
	layers.Tracers = r.enabled[OverlayTracers]
}
