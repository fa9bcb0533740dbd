package system

import (
	"time"

	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/core/ecs"
	coresys "github.com/l1jgo/skirmish/internal/core/system"
	"github.com/l1jgo/skirmish/internal/world"
)

// MovementSystem integrates position from direction and speed.
// Phase 2 (Integrate).
type MovementSystem struct {
	state *world.State
}

func NewMovementSystem(state *world.State) *MovementSystem {
	return &MovementSystem{state: state}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseIntegrate }

func (s *MovementSystem) Update(dt time.Duration) error {
	secs := float32(dt.Seconds())
	s.state.Kinematics.Each(func(_ ecs.EntityID, k *component.Kinematic) {
		if k.Speed == 0 || k.Immovable() {
			return
		}
		k.Position = k.Position.Add(k.Velocity().Mul(secs))
	})
	return nil
}
