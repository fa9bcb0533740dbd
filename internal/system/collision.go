package system

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/core/ecs"
	coresys "github.com/l1jgo/skirmish/internal/core/system"
	"github.com/l1jgo/skirmish/internal/geom"
	"github.com/l1jgo/skirmish/internal/world"
)

// ErrDuplicateEvent means an entity still held a collision event from an
// earlier tick when narrow-phase tried to record a new one.
var ErrDuplicateEvent = errors.New("duplicate collision event")

type body = ecs.Row2[component.Kinematic, component.Collision]

// CollisionSystem runs broad-phase and narrow-phase and records at most one
// CollisionEvent per entity. Phase 3 (Collide).
//
// Broad-phase tests all pairs: bodies number in the tens, so an
// acceleration structure would cost more than it saves.
type CollisionSystem struct {
	state  *world.State
	log    *zap.Logger
	margin float32
	strict bool

	bodies  []body
	claimed map[int]bool
}

func NewCollisionSystem(state *world.State, margin float32, strict bool, log *zap.Logger) *CollisionSystem {
	return &CollisionSystem{
		state:   state,
		log:     log,
		margin:  margin,
		strict:  strict,
		bodies:  make([]body, 0, 64),
		claimed: make(map[int]bool, 64),
	}
}

func (s *CollisionSystem) Phase() coresys.Phase { return coresys.PhaseCollide }

func (s *CollisionSystem) Update(_ time.Duration) error {
	s.bodies = s.bodies[:0]
	for row := range ecs.Join2(s.state.Kinematics, s.state.Collisions) {
		s.bodies = append(s.bodies, row)
	}
	clear(s.claimed)

	for i := 0; i < len(s.bodies); i++ {
		for j := i + 1; j < len(s.bodies); j++ {
			// Only i's mask is consulted; narrow-phase picks the owner.
			if !s.bodies[i].B.Accepts(s.bodies[j].B.MyType) {
				continue
			}
			if err := s.narrow(&s.bodies[i], &s.bodies[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Canonical reports whether the pair (a, b) is already in owner order: the
// lower type bit owns the event, and for equal types the lower slot does.
func Canonical(a ecs.EntityID, ta component.EntityType, b ecs.EntityID, tb component.EntityType) bool {
	if ta != tb {
		return ta < tb
	}
	return a.Index < b.Index
}

func (s *CollisionSystem) narrow(a, b *body) error {
	if !Canonical(a.ID, a.B.MyType, b.ID, b.B.MyType) {
		a, b = b, a
	}
	pa, err := geom.FromShape(a.A.Shape)
	if err != nil {
		return fmt.Errorf("entity %s: %w", a.ID, err)
	}
	pb, err := geom.FromShape(b.A.Shape)
	if err != nil {
		return fmt.Errorf("entity %s: %w", b.ID, err)
	}
	contact, hit, err := geom.ContactBetween(a.A.Position, pa, b.A.Position, pb, s.margin)
	if err != nil {
		return fmt.Errorf("contact %s-%s: %w", a.ID, b.ID, err)
	}
	if !hit {
		return nil
	}

	// One contact per owner per tick: the first pair in slot order wins.
	if s.claimed[a.ID.Index] {
		s.log.Debug("extra contact ignored",
			zap.Stringer("a", a.ID), zap.Stringer("b", b.ID), zap.Float32("distance", contact.Distance))
		return nil
	}
	s.claimed[a.ID.Index] = true

	ev := component.CollisionEvent{
		Other:            b.ID,
		Contact:          contact,
		DirectionToOther: geom.Direction(a.A.Position, b.A.Position),
	}
	if err := s.state.Events.Insert(a.ID, ev); err != nil {
		if s.strict {
			panic(fmt.Sprintf("collision: %v on %s (other %s)", ErrDuplicateEvent, a.ID, b.ID))
		}
		s.log.Error("collision invariant violated, keeping first event",
			zap.Error(ErrDuplicateEvent), zap.Stringer("entity", a.ID), zap.Stringer("other", b.ID))
	}
	return nil
}
