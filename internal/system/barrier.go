package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/skirmish/internal/core/event"
	coresys "github.com/l1jgo/skirmish/internal/core/system"
	"github.com/l1jgo/skirmish/internal/world"
)

// BarrierSystem applies queued spawns and despawns before anything else in
// the tick reads the tables. Phase 0 (Barrier).
type BarrierSystem struct {
	state *world.State
	bus   *event.Bus
	log   *zap.Logger
}

func NewBarrierSystem(state *world.State, bus *event.Bus, log *zap.Logger) *BarrierSystem {
	return &BarrierSystem{state: state, bus: bus, log: log}
}

func (s *BarrierSystem) Phase() coresys.Phase { return coresys.PhaseBarrier }

func (s *BarrierSystem) Update(_ time.Duration) error {
	spawned, destroyed := s.state.ECS.FlushBarrier()
	for _, id := range spawned {
		typ, _ := s.state.TypeOf(id)
		event.Emit(s.bus, event.EntitySpawned{ID: id, Type: typ})
		s.log.Debug("spawned", zap.Stringer("id", id), zap.Stringer("type", typ))
	}
	for _, id := range destroyed {
		s.log.Debug("despawned", zap.Stringer("id", id))
	}
	return nil
}
