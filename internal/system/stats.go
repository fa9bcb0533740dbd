package system

import (
	"maps"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/skirmish/internal/core/event"
	coresys "github.com/l1jgo/skirmish/internal/core/system"
	"github.com/l1jgo/skirmish/internal/world"
)

// Stats are running totals over a session.
type Stats struct {
	Ticks      int            `json:"ticks"`
	Spawned    int            `json:"spawned"`
	Collisions int            `json:"collisions"`
	Damage     int            `json:"damage"`
	Reactions  map[string]int `json:"reactions"`
	Destroyed  map[string]int `json:"destroyed"` // keyed by entity type name
}

func (s Stats) clone() Stats {
	s.Reactions = maps.Clone(s.Reactions)
	s.Destroyed = maps.Clone(s.Destroyed)
	return s
}

// StatsSystem counts bus events and logs a summary every logEvery ticks.
// Phase 5 (Output), after EventDispatchSystem.
type StatsSystem struct {
	state    *world.State
	log      *zap.Logger
	logEvery int
	stats    Stats
}

func NewStatsSystem(state *world.State, bus *event.Bus, logEvery int, log *zap.Logger) *StatsSystem {
	s := &StatsSystem{
		state:    state,
		log:      log,
		logEvery: logEvery,
		stats: Stats{
			Reactions: make(map[string]int),
			Destroyed: make(map[string]int),
		},
	}
	event.Subscribe(bus, func(event.EntitySpawned) { s.stats.Spawned++ })
	event.Subscribe(bus, func(ev event.CollisionResolved) {
		s.stats.Collisions++
		s.stats.Reactions[ev.Reaction]++
	})
	event.Subscribe(bus, func(ev event.EntityDamaged) { s.stats.Damage += ev.Amount })
	event.Subscribe(bus, func(ev event.EntityDestroyed) { s.stats.Destroyed[ev.Type.String()]++ })
	return s
}

func (s *StatsSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *StatsSystem) Update(_ time.Duration) error {
	s.stats.Ticks++
	if s.logEvery > 0 && s.stats.Ticks%s.logEvery == 0 {
		s.log.Debug("tick summary",
			zap.Int("tick", s.stats.Ticks),
			zap.Int("entities", s.state.EntityCount()),
			zap.Int("collisions", s.stats.Collisions),
			zap.Int("damage", s.stats.Damage))
	}
	return nil
}

// Snapshot returns a copy of the totals.
func (s *StatsSystem) Snapshot() Stats { return s.stats.clone() }
