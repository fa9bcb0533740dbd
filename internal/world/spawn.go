package world

import (
	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/core/ecs"
)

// Spawn describes a new entity. Kinematic and Collision are required; the
// pointer fields are optional components.
type Spawn struct {
	Name       string
	Kinematic  component.Kinematic
	Collision  component.Collision
	Drawable   *component.Drawable
	Health     *component.Health
	Controller component.ControllerKind
	MoveSpeed  float32
	Projectile *component.Projectile
}

// QueueSpawn returns the new id now and attaches components at the next
// barrier.
func (s *State) QueueSpawn(sp Spawn) ecs.EntityID {
	return s.ECS.QueueSpawn(sp.Name, func(id ecs.EntityID) { s.attach(id, sp) })
}

// SpawnNow creates and attaches in one step. Only safe between ticks.
func (s *State) SpawnNow(sp Spawn) ecs.EntityID {
	id := s.ECS.CreateEntity(sp.Name)
	s.attach(id, sp)
	return id
}

func (s *State) attach(id ecs.EntityID, sp Spawn) {
	s.Kinematics.Set(id, sp.Kinematic)
	s.Collisions.Set(id, sp.Collision)
	if sp.Drawable != nil {
		s.Drawables.Set(id, *sp.Drawable)
	}
	if sp.Health != nil {
		s.Health.Set(id, *sp.Health)
	}
	if sp.Controller != component.ControllerNone {
		s.Controlled.Set(id, component.Controlled{Kind: sp.Controller})
		s.Inputs.Set(id, component.NewInputState(sp.MoveSpeed))
	}
	if sp.Projectile != nil {
		s.Projectiles.Set(id, *sp.Projectile)
	}
}
