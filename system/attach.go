package system

import (
	"github.com/lixenwraith/vi-rig/engine"
	"github.com/lixenwraith/vi-rig/parameter"
)

// AttachSystem keeps carried actors on their carry bones and drops dead ones
type AttachSystem struct {
	enabled bool
}

// NewAttachSystem creates the carry system
func NewAttachSystem() *AttachSystem {
	return &AttachSystem{enabled: true}
}

func (s *AttachSystem) Name() string { return "attach" }

func (s *AttachSystem) Priority() int { return parameter.PriorityAttach }

func (s *AttachSystem) SetEnabled(enabled bool) { s.enabled = enabled }

func (s *AttachSystem) Tick(w *engine.World) {
	if !s.enabled {
		return
	}
	for _, a := range w.Actors() {
		for _, ap := range a.AttachPoints() {
			ap.Update()
		}
	}
}
