// Package control implements per-kind input handlers. Components only
// carry a ControllerKind tag; the behaviour lives in a registered
// Controller, so input state stays plain data.
package control

import (
	"fmt"

	"github.com/l1jgo/skirmish/internal/component"
)

// Controller handles one input event for one entity. It may mutate the
// entity's kinematic state and its input state, and reports whether it
// consumed the event.
type Controller interface {
	HandleInput(ev InputEvent, k *component.Kinematic, in *component.InputState) bool
}

// Handlers maps controller kinds to their implementation.
type Handlers struct {
	byKind map[component.ControllerKind]Controller
}

func NewHandlers() *Handlers {
	return &Handlers{byKind: make(map[component.ControllerKind]Controller, 2)}
}

// Register installs c for kind, replacing any previous handler.
func (h *Handlers) Register(kind component.ControllerKind, c Controller) error {
	if kind == component.ControllerNone {
		return fmt.Errorf("register controller: kind %s cannot have a handler", kind)
	}
	if c == nil {
		return fmt.Errorf("register controller: nil handler for %s", kind)
	}
	h.byKind[kind] = c
	return nil
}

// Lookup returns the handler for kind.
func (h *Handlers) Lookup(kind component.ControllerKind) (Controller, bool) {
	c, ok := h.byKind[kind]
	return c, ok
}
