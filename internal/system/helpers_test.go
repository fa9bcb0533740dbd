package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/core/ecs"
	"github.com/l1jgo/skirmish/internal/core/event"
	"github.com/l1jgo/skirmish/internal/world"
)

var inf = float32(math.Inf(1))

type fixture struct {
	state *world.State
	bus   *event.Bus
	log   *zap.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{state: world.NewState(), bus: event.NewBus(), log: zap.NewNop()}
}

func (f *fixture) box(typ component.EntityType, x, y, w, h, mass float32) ecs.EntityID {
	return f.state.SpawnNow(world.Spawn{
		Name: typ.String(),
		Kinematic: component.Kinematic{
			Position:  mgl32.Vec2{x, y},
			Direction: mgl32.Vec2{1, 0},
			Mass:      mass,
			Shape:     component.Rectangle{Width: w, Height: h},
		},
		Collision: component.Collision{CollidesWith: component.DefaultMask(typ), MyType: typ},
	})
}

func (f *fixture) kin(id ecs.EntityID) *component.Kinematic {
	k, ok := f.state.Kinematics.Get(id)
	if !ok {
		panic("no kinematic for " + id.String())
	}
	return k
}

func (f *fixture) collisions(strict bool) *CollisionSystem {
	return NewCollisionSystem(f.state, 1.0, strict, f.log)
}

func (f *fixture) resolution() *ResolutionSystem {
	return NewResolutionSystem(f.state, f.bus, 1, f.log)
}

func wallSpawn() world.Spawn {
	return world.Spawn{
		Name:      "wall",
		Kinematic: component.Kinematic{Mass: inf, Shape: component.Rectangle{Width: 10, Height: 200}},
		Collision: component.Collision{CollidesWith: component.DefaultMask(component.Wall), MyType: component.Wall},
	}
}
