package sim

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/config"
	"github.com/l1jgo/skirmish/internal/control"
	"github.com/l1jgo/skirmish/internal/scripting"
	"github.com/l1jgo/skirmish/internal/world"
)

const dt = float32(0.016)

var inf = float32(math.Inf(1))

func newSim(t *testing.T, ai control.Steerer) *Simulation {
	t.Helper()
	s, err := New(config.Defaults().Sim, ai, zaptest.NewLogger(t))
	require.NoError(t, err)
	return s
}

func body(typ component.EntityType, x, y, w, h, mass float32) world.Spawn {
	shape := component.Rectangle{Width: w, Height: h}
	return world.Spawn{
		Name: typ.String(),
		Kinematic: component.Kinematic{
			Position: mgl32.Vec2{x, y},
			Mass:     mass,
			Shape:    shape,
		},
		Collision: component.Collision{CollidesWith: component.DefaultMask(typ), MyType: typ},
		Drawable:  &component.Drawable{Shape: shape, Color: component.ColorWhite},
	}
}

func TestAdvanceTick_PlayerIntoWall(t *testing.T) {
	s := newSim(t, nil)
	wall := s.Spawn(body(component.Wall, 100, 0, 10, 200, inf))
	sp := body(component.Player, 105, 0, 50, 50, 10)
	sp.Kinematic.Direction = mgl32.Vec2{1, 0}
	sp.Kinematic.Speed = 500
	player := s.Spawn(sp)

	require.NoError(t, s.AdvanceTick(dt))
	assert.Equal(t, uint64(1), s.Tick())

	k, ok := s.Kinematic(player)
	require.True(t, ok)
	// Moved to 113, then pushed out of the wall by the 17 unit overlap.
	assert.InDelta(t, 130, k.Position[0], 1e-3)
	assert.Equal(t, mgl32.Vec2{1, 0}, k.Direction)

	w, ok := s.Kinematic(wall)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec2{100, 0}, w.Position)

	st := s.Stats()
	assert.Equal(t, 1, st.Collisions)
	assert.Equal(t, 1, st.Reactions["correct"])
	assert.Equal(t, 2, st.Spawned)
}

func TestSpawnAndDespawnWaitForBarrier(t *testing.T) {
	s := newSim(t, nil)
	id := s.Spawn(body(component.Enemy, 0, 0, 10, 10, 1))
	assert.True(t, s.Alive(id), "id is handed out right away")
	_, ok := s.Kinematic(id)
	assert.False(t, ok, "components wait for the barrier")
	assert.Empty(t, s.Snapshot().Entities)

	require.NoError(t, s.AdvanceTick(dt))
	_, ok = s.Kinematic(id)
	assert.True(t, ok)

	s.Despawn(id)
	s.Despawn(id)
	assert.True(t, s.Alive(id))
	require.NoError(t, s.AdvanceTick(dt))
	assert.False(t, s.Alive(id))
	assert.Equal(t, 0, s.EntityCount())

	// Slot reuse hands out a newer generation; the old id stays dead.
	again := s.Spawn(body(component.Enemy, 0, 0, 10, 10, 1))
	assert.Equal(t, id.Index, again.Index)
	assert.Greater(t, again.Generation, id.Generation)
	assert.False(t, s.Alive(id))
}

func TestSnapshot_OnlyDrawables(t *testing.T) {
	s := newSim(t, nil)
	s.Spawn(body(component.Wall, 0, 0, 10, 10, inf))
	hidden := body(component.Enemy, 500, 500, 10, 10, 1)
	hidden.Drawable = nil
	s.Spawn(hidden)
	require.NoError(t, s.AdvanceTick(dt))

	snap := s.Snapshot()
	assert.Equal(t, uint64(1), snap.Tick)
	require.Len(t, snap.Entities, 1)
	assert.Equal(t, component.Wall, snap.Entities[0].Type)
	assert.Equal(t, component.Rectangle{Width: 10, Height: 10}, snap.Entities[0].Shape)

	snap.Entities[0].Position = mgl32.Vec2{9, 9}
	assert.Equal(t, mgl32.Vec2{0, 0}, s.Snapshot().Entities[0].Position, "snapshots are copies")
}

func TestInput_ClickFiresBullet(t *testing.T) {
	s := newSim(t, nil)
	sp := body(component.Player, 0, 0, 50, 50, 10)
	sp.Controller = component.ControllerPlayer
	sp.MoveSpeed = 500
	player := s.Spawn(sp)
	require.NoError(t, s.AdvanceTick(dt))

	s.Input(control.InputEvent{Kind: control.MouseDown, Button: control.ButtonLeft, Point: mgl32.Vec2{1000, 0}})
	require.NoError(t, s.AdvanceTick(dt))
	assert.Equal(t, 2, s.EntityCount(), "bullet id exists, components pending")
	require.NoError(t, s.AdvanceTick(dt))

	var bullet *Entity
	snap := s.Snapshot()
	for i := range snap.Entities {
		if snap.Entities[i].Type == component.PlayerBullet {
			bullet = &snap.Entities[i]
		}
	}
	require.NotNil(t, bullet)
	assert.Greater(t, bullet.Position[0], float32(40), "spawned ahead of the player and moving right")

	s.Input(control.InputEvent{Kind: control.KeyDown, Key: 's'})
	require.NoError(t, s.AdvanceTick(dt))
	k, _ := s.Kinematic(player)
	assert.Equal(t, mgl32.Vec2{0, 1}, k.Direction)
	assert.InDelta(t, 500*dt, k.Position[1], 1e-3)
}

func TestChecksum_Deterministic(t *testing.T) {
	build := func() *Simulation {
		e, err := scripting.NewEngine("", zap.NewNop())
		require.NoError(t, err)
		t.Cleanup(e.Close)
		s := newSim(t, e)
		s.Spawn(body(component.Wall, 10, 50, 10, 200, inf))
		s.Spawn(body(component.Wall, 500, 50, 10, 200, inf))
		enemy := body(component.Enemy, 200, 50, 50, 50, 2)
		enemy.Controller = component.ControllerScripted
		enemy.MoveSpeed = 120
		enemy.Health = &component.Health{Current: 3, Max: 3}
		s.Spawn(enemy)
		player := body(component.Player, 400, 400, 50, 50, 10)
		player.Controller = component.ControllerPlayer
		player.MoveSpeed = 500
		player.Health = &component.Health{Current: 10, Max: 10}
		s.Spawn(player)
		return s
	}

	a, b := build(), build()
	require.NoError(t, a.AdvanceTick(dt))
	require.NoError(t, b.AdvanceTick(dt))
	first := a.Checksum()
	for i := 0; i < 240; i++ {
		require.NoError(t, a.AdvanceTick(dt))
		require.NoError(t, b.AdvanceTick(dt))
	}
	assert.Equal(t, a.Checksum(), b.Checksum())
	assert.Equal(t, a.Stats(), b.Stats())
	assert.NotEqual(t, first, a.Checksum(), "the scripted enemy moved")
}

func TestAdvanceTick_FatalErrorStopsTick(t *testing.T) {
	s := newSim(t, nil)
	broken := body(component.Player, 0, 0, 10, 10, 1)
	broken.Kinematic.Shape = nil
	s.Spawn(broken)
	s.Spawn(body(component.Wall, 0, 0, 10, 10, inf))

	err := s.AdvanceTick(dt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tick 1")
	assert.Equal(t, uint64(0), s.Tick())
}
