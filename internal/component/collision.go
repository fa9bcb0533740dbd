package component

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/l1jgo/skirmish/internal/core/ecs"
)

// Collision declares which categories an entity reacts to and which one it
// belongs to.
type Collision struct {
	CollidesWith TypeMask
	MyType       EntityType
}

// Accepts is the broad-phase filter: only the receiver's mask is consulted.
func (c *Collision) Accepts(other EntityType) bool {
	return c.CollidesWith.Has(other)
}

// Contact is the narrow-phase result for an ordered pair (A, B). Distance
// is negative when the bodies interpenetrate; Normal points from A to B.
type Contact struct {
	Distance float32
	PointA   mgl32.Vec2
	PointB   mgl32.Vec2
	Normal   mgl32.Vec2
}

// CollisionEvent is the transient per-entity record left by narrow-phase
// for resolution to consume in the same tick.
type CollisionEvent struct {
	Other            ecs.EntityID
	Contact          Contact
	DirectionToOther mgl32.Vec2
}
