package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/skirmish/internal/component"
)

func TestState_SpawnAttachesOptionalComponents(t *testing.T) {
	s := NewState()
	id := s.QueueSpawn(Spawn{
		Name:       "player",
		Kinematic:  component.Kinematic{Position: mgl32.Vec2{1, 2}, Mass: 10, Shape: component.Rectangle{Width: 50, Height: 50}},
		Collision:  component.Collision{CollidesWith: component.AllMask, MyType: component.Player},
		Drawable:   &component.Drawable{Color: component.ColorGreen},
		Health:     &component.Health{Current: 100, Max: 100},
		Controller: component.ControllerPlayer,
		MoveSpeed:  500,
	})
	require.True(t, s.Alive(id))
	require.False(t, s.Kinematics.Has(id))

	s.ECS.FlushBarrier()

	k, ok := s.Kinematics.Get(id)
	require.True(t, ok)
	require.Equal(t, mgl32.Vec2{1, 2}, k.Position)
	typ, ok := s.TypeOf(id)
	require.True(t, ok)
	require.Equal(t, component.Player, typ)
	require.True(t, s.Drawables.Has(id))
	require.True(t, s.Health.Has(id))
	in, ok := s.Inputs.Get(id)
	require.True(t, ok)
	require.Equal(t, float32(500), in.MoveSpeed)
	require.False(t, s.Projectiles.Has(id))
	require.Equal(t, 1, s.EntityCount())
}

func TestState_DestroyClearsEveryTable(t *testing.T) {
	s := NewState()
	id := s.SpawnNow(Spawn{
		Kinematic:  component.Kinematic{Shape: component.Circle{Radius: 2}},
		Collision:  component.Collision{MyType: component.PlayerBullet},
		Projectile: &component.Projectile{Damage: 10},
	})
	s.Events.Set(id, component.CollisionEvent{})

	require.True(t, s.Destroy(id))
	require.False(t, s.Kinematics.Has(id))
	require.False(t, s.Collisions.Has(id))
	require.False(t, s.Events.Has(id))
	require.False(t, s.Projectiles.Has(id))
	_, ok := s.TypeOf(id)
	require.False(t, ok)
	require.False(t, s.Destroy(id))
}
