package component

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Kinematic is the physical state integrated every tick.
// Direction is a unit vector or zero; Mass may be +Inf for immovable bodies.
type Kinematic struct {
	Position  mgl32.Vec2
	Direction mgl32.Vec2
	Speed     float32
	Mass      float32
	Shape     Shape
}

// Immovable reports whether the body has infinite mass.
func (k *Kinematic) Immovable() bool {
	return math.IsInf(float64(k.Mass), 1)
}

// Velocity is Direction scaled by Speed.
func (k *Kinematic) Velocity() mgl32.Vec2 {
	return k.Direction.Mul(k.Speed)
}

// SetVelocity splits v back into a unit direction and a speed. A zero
// velocity keeps the current direction and sets speed to 0.
func (k *Kinematic) SetVelocity(v mgl32.Vec2) {
	l := v.Len()
	if l == 0 {
		k.Speed = 0
		return
	}
	k.Direction = mgl32.Vec2{v[0] / l, v[1] / l}
	k.Speed = l
}
