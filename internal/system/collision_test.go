package system

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/core/ecs"
	coresys "github.com/l1jgo/skirmish/internal/core/system"
	"github.com/l1jgo/skirmish/internal/geom"
	"github.com/l1jgo/skirmish/internal/world"
)

const tick = 16 * time.Millisecond

func TestPlayerIntoWall_EndToEnd(t *testing.T) {
	f := newFixture(t)
	wall := f.box(component.Wall, 100, 0, 10, 200, inf)
	player := f.box(component.Player, 105, 0, 50, 50, 10)
	f.kin(player).Speed = 500

	r := coresys.NewRunner()
	r.Register(NewMovementSystem(f.state))
	r.Register(f.collisions(true))
	r.Register(f.resolution())

	require.NoError(t, r.TickPhase(coresys.PhaseIntegrate, tick))
	assert.InDelta(t, 113, f.kin(player).Position[0], 1e-3)

	require.NoError(t, r.TickPhase(coresys.PhaseCollide, tick))
	got, ok := f.state.Events.Get(player)
	require.True(t, ok, "event belongs to the player, the lower type")
	ev := *got // resolution clears the table cell
	assert.Equal(t, wall, ev.Other)
	assert.InDelta(t, -17, ev.Contact.Distance, 1e-3)
	assert.False(t, f.state.Events.Has(wall))

	before := f.kin(player).Position
	require.NoError(t, r.TickPhase(coresys.PhaseResolve, tick))
	after := f.kin(player).Position
	assert.InDelta(t, before[0]+17, after[0], 1e-3, "pushed out by |distance|, away from the wall centre")
	assert.Equal(t, 0, f.state.Events.Len())
	assert.True(t, f.state.Alive(player))
	assert.True(t, f.state.Alive(wall))
	assert.Equal(t, mgl32.Vec2{100, 0}, f.kin(wall).Position)

	// Interpenetration strictly decreased.
	pw, _ := geom.FromShape(f.kin(wall).Shape)
	pp, _ := geom.FromShape(f.kin(player).Shape)
	c, _, err := geom.ContactBetween(after, pp, f.kin(wall).Position, pw, 1)
	require.NoError(t, err)
	assert.Greater(t, c.Distance, ev.Contact.Distance)
}

func TestCollision_DisjointMasksNeverCollide(t *testing.T) {
	f := newFixture(t)
	a := f.box(component.Enemy, 0, 0, 50, 50, 1)
	b := f.box(component.Enemy, 10, 10, 50, 50, 1)
	f.state.Collisions.Set(a, component.Collision{CollidesWith: component.MaskOf(component.Wall), MyType: component.Enemy})
	f.state.Collisions.Set(b, component.Collision{CollidesWith: component.MaskOf(component.Wall), MyType: component.Enemy})

	require.NoError(t, f.collisions(true).Update(tick))
	assert.Equal(t, 0, f.state.Events.Len())
}

func TestCollision_MaskIsAsymmetric(t *testing.T) {
	f := newFixture(t)
	// Slot 0 accepts slot 1's type; slot 1 does not accept slot 0's.
	wall := f.box(component.Wall, 0, 0, 50, 50, inf)
	player := f.box(component.Player, 10, 0, 50, 50, 1)
	f.state.Collisions.Set(player, component.Collision{MyType: component.Player})

	require.NoError(t, f.collisions(true).Update(tick))
	ev, ok := f.state.Events.Get(player)
	require.True(t, ok)
	assert.Equal(t, wall, ev.Other)

	// Reversed slots: the lower slot's empty mask filters the pair out.
	g := newFixture(t)
	p := g.box(component.Player, 10, 0, 50, 50, 1)
	g.box(component.Wall, 0, 0, 50, 50, inf)
	g.state.Collisions.Set(p, component.Collision{MyType: component.Player})
	require.NoError(t, g.collisions(true).Update(tick))
	assert.Equal(t, 0, g.state.Events.Len())
}

func TestCollision_FarApartAndCoincident(t *testing.T) {
	f := newFixture(t)
	f.box(component.Player, 0, 0, 50, 50, 1)
	f.box(component.Enemy, 1000, 1000, 50, 50, 1)
	require.NoError(t, f.collisions(true).Update(tick))
	assert.Equal(t, 0, f.state.Events.Len())

	g := newFixture(t)
	e := g.box(component.Enemy, 5, 5, 50, 50, 1)
	g.box(component.Player, 5, 5, 50, 50, 1)
	require.NoError(t, g.collisions(true).Update(tick))
	ev, ok := g.state.Events.Get(e)
	require.True(t, ok)
	assert.Equal(t, geom.DefaultDirection, ev.DirectionToOther)
}

func TestCollision_SameTypeOwnedByLowerSlot(t *testing.T) {
	f := newFixture(t)
	mask := component.MaskOf(component.Enemy)
	a := f.box(component.Enemy, 0, 0, 50, 50, 1)
	b := f.box(component.Enemy, 20, 0, 50, 50, 1)
	f.state.Collisions.Set(a, component.Collision{CollidesWith: mask, MyType: component.Enemy})
	f.state.Collisions.Set(b, component.Collision{CollidesWith: mask, MyType: component.Enemy})

	require.NoError(t, f.collisions(true).Update(tick))
	ev, ok := f.state.Events.Get(a)
	require.True(t, ok)
	assert.Equal(t, b, ev.Other)
	assert.False(t, f.state.Events.Has(b))
}

func TestCollision_OneEventPerOwner(t *testing.T) {
	f := newFixture(t)
	left := f.box(component.Wall, -30, 0, 10, 200, inf)
	f.box(component.Wall, 30, 0, 10, 200, inf)
	player := f.box(component.Player, 0, 0, 50, 50, 10)

	require.NoError(t, f.collisions(true).Update(tick))
	assert.Equal(t, 1, f.state.Events.Len())
	ev, ok := f.state.Events.Get(player)
	require.True(t, ok)
	assert.Equal(t, left, ev.Other, "first pair in slot order wins")
}

func TestCollision_LeakedEventIsAnInvariantViolation(t *testing.T) {
	setup := func(t *testing.T) (*fixture, ecs.EntityID, ecs.EntityID) {
		f := newFixture(t)
		wall := f.box(component.Wall, 100, 0, 10, 200, inf)
		player := f.box(component.Player, 113, 0, 50, 50, 10)
		f.state.Events.Set(player, component.CollisionEvent{Other: ecs.NilEntity})
		return f, wall, player
	}

	t.Run("strict panics", func(t *testing.T) {
		f, _, _ := setup(t)
		sys := f.collisions(true)
		require.Panics(t, func() { _ = sys.Update(tick) })
	})

	t.Run("lenient keeps first", func(t *testing.T) {
		f, _, player := setup(t)
		require.NoError(t, f.collisions(false).Update(tick))
		ev, _ := f.state.Events.Get(player)
		assert.Equal(t, ecs.NilEntity, ev.Other)
	})
}

func TestCollision_UnknownShapeAbortsTick(t *testing.T) {
	f := newFixture(t)
	f.box(component.Wall, 0, 0, 10, 10, inf)
	p := f.state.SpawnNow(world.Spawn{
		Kinematic: component.Kinematic{Mass: 1},
		Collision: component.Collision{CollidesWith: component.DefaultMask(component.Player), MyType: component.Player},
	})

	err := f.collisions(true).Update(tick)
	require.ErrorIs(t, err, geom.ErrUnknownShape)
	assert.Contains(t, err.Error(), p.String())
}

func TestCanonical(t *testing.T) {
	a, b := ecs.EntityID{Index: 3}, ecs.EntityID{Index: 1}
	assert.True(t, Canonical(a, component.Player, b, component.Wall))
	assert.False(t, Canonical(a, component.Wall, b, component.Player))
	assert.False(t, Canonical(a, component.Enemy, b, component.Enemy))
	assert.True(t, Canonical(b, component.Enemy, a, component.Enemy))
}
