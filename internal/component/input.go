package component

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/l1jgo/skirmish/internal/core/ecs"
)

// ControllerKind selects the registered input handler for an entity.
type ControllerKind uint8

const (
	ControllerNone ControllerKind = iota
	ControllerPlayer
	ControllerScripted
)

func (k ControllerKind) String() string {
	switch k {
	case ControllerPlayer:
		return "player"
	case ControllerScripted:
		return "scripted"
	default:
		return "none"
	}
}

// Controlled tags an entity as driven by a controller of the given kind.
type Controlled struct {
	Kind ControllerKind
}

// FireRequest asks the input system to spawn a bullet aimed at Target.
type FireRequest struct {
	Target mgl32.Vec2
}

// InputState is the per-entity state a controller keeps between events.
type InputState struct {
	Pressed   map[rune]bool
	MoveSpeed float32
	Fire      *FireRequest
	Cooldown  int
}

func NewInputState(moveSpeed float32) InputState {
	return InputState{Pressed: make(map[rune]bool, 4), MoveSpeed: moveSpeed}
}

// Projectile is attached to bullets.
type Projectile struct {
	Owner  ecs.EntityID
	Damage int
}
