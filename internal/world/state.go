package world

import (
	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/core/ecs"
)

// State holds the entity world and every component table.
// Accessed only from the simulation goroutine, so there are no locks.
type State struct {
	ECS *ecs.World

	Kinematics  *ecs.Table[component.Kinematic]
	Collisions  *ecs.Table[component.Collision]
	Events      *ecs.Table[component.CollisionEvent]
	Drawables   *ecs.Table[component.Drawable]
	Health      *ecs.Table[component.Health]
	Inputs      *ecs.Table[component.InputState]
	Controlled  *ecs.Table[component.Controlled]
	Projectiles *ecs.Table[component.Projectile]
}

func NewState() *State {
	s := &State{
		ECS:         ecs.NewWorld(),
		Kinematics:  ecs.NewTable[component.Kinematic](64),
		Collisions:  ecs.NewTable[component.Collision](64),
		Events:      ecs.NewTable[component.CollisionEvent](64),
		Drawables:   ecs.NewTable[component.Drawable](64),
		Health:      ecs.NewTable[component.Health](16),
		Inputs:      ecs.NewTable[component.InputState](8),
		Controlled:  ecs.NewTable[component.Controlled](8),
		Projectiles: ecs.NewTable[component.Projectile](32),
	}
	reg := s.ECS.Registry()
	reg.Register(s.Kinematics)
	reg.Register(s.Collisions)
	reg.Register(s.Events)
	reg.Register(s.Drawables)
	reg.Register(s.Health)
	reg.Register(s.Inputs)
	reg.Register(s.Controlled)
	reg.Register(s.Projectiles)
	return s
}

// TypeOf returns the collision category of id.
func (s *State) TypeOf(id ecs.EntityID) (component.EntityType, bool) {
	c, ok := s.Collisions.Get(id)
	if !ok {
		return 0, false
	}
	return c.MyType, true
}

// Alive reports whether id is live.
func (s *State) Alive(id ecs.EntityID) bool { return s.ECS.Alive(id) }

// Destroy removes id and its components immediately.
func (s *State) Destroy(id ecs.EntityID) bool { return s.ECS.Destroy(id) }

// EntityCount is the number of live entities.
func (s *State) EntityCount() int { return s.ECS.Len() }
