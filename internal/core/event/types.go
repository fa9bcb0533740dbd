package event

import (
	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/core/ecs"
)

// EntitySpawned fires when a queued spawn gets its components at the barrier.
type EntitySpawned struct {
	ID   ecs.EntityID
	Type component.EntityType
}

// CollisionResolved fires once per consumed collision event, whether or not
// the pair's reaction changed any state.
type CollisionResolved struct {
	A, B         ecs.EntityID
	TypeA, TypeB component.EntityType
	Distance     float32
	Reaction     string
}

// EntityDamaged fires when a bullet hit lowers an entity's health.
type EntityDamaged struct {
	ID        ecs.EntityID
	Type      component.EntityType
	Amount    int
	Remaining int
}

// EntityDestroyed fires when resolution deletes an entity in-tick.
type EntityDestroyed struct {
	ID   ecs.EntityID
	Type component.EntityType
}
