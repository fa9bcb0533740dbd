package system

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/core/ecs"
	"github.com/l1jgo/skirmish/internal/core/event"
	coresys "github.com/l1jgo/skirmish/internal/core/system"
	"github.com/l1jgo/skirmish/internal/world"
)

var (
	// ErrWallPair means two walls were reported in contact. Walls never
	// move, so this points at a broken scenario or mask.
	ErrWallPair = errors.New("wall-wall collision")
	// ErrUnclassifiedPair means a type pair has no entry in the reaction
	// table.
	ErrUnclassifiedPair = errors.New("unclassified collision pair")
)

// pair is one collision in canonical order.
type pair struct {
	A, B         ecs.EntityID
	TypeA, TypeB component.EntityType
	Event        component.CollisionEvent
}

// typePair is an unordered key: lo <= hi.
type typePair struct {
	lo, hi component.EntityType
}

func keyOf(a, b component.EntityType) typePair {
	if b < a {
		a, b = b, a
	}
	return typePair{a, b}
}

type reaction struct {
	name  string
	apply func(s *ResolutionSystem, p *pair) error
}

var (
	noReaction      = reaction{"none", nil}
	correctOwner    = reaction{"correct", (*ResolutionSystem).correctA}
	bounce          = reaction{"bounce", (*ResolutionSystem).bounce}
	ownerHitByB     = reaction{"hit", func(s *ResolutionSystem, p *pair) error { s.hit(p.A, p.TypeA, p.B, p.TypeB); return nil }}
	ownerHitsB      = reaction{"hit", func(s *ResolutionSystem, p *pair) error { s.hit(p.B, p.TypeB, p.A, p.TypeA); return nil }}
	deleteOwner     = reaction{"delete", func(s *ResolutionSystem, p *pair) error { s.remove(p.A, p.TypeA); return nil }}
	deleteBoth      = reaction{"delete_both", func(s *ResolutionSystem, p *pair) error { s.remove(p.A, p.TypeA); s.remove(p.B, p.TypeB); return nil }}
	wallsNeverTouch = reaction{"fatal", func(_ *ResolutionSystem, p *pair) error {
		return fmt.Errorf("%w: %s and %s", ErrWallPair, p.A, p.B)
	}}
)

// reactions covers every unordered type pair. The owner (A) is always the
// lower type bit, so each entry knows which side is which.
var reactions = map[typePair]reaction{
	keyOf(component.Enemy, component.Enemy):        noReaction,
	keyOf(component.Enemy, component.EnemyBullet):  noReaction,
	keyOf(component.Enemy, component.Player):       bounce,
	keyOf(component.Enemy, component.PlayerBullet): ownerHitByB,
	keyOf(component.Enemy, component.Wall):         correctOwner,

	keyOf(component.EnemyBullet, component.EnemyBullet):  noReaction,
	keyOf(component.EnemyBullet, component.Player):       ownerHitsB,
	keyOf(component.EnemyBullet, component.PlayerBullet): deleteBoth,
	keyOf(component.EnemyBullet, component.Wall):         deleteOwner,

	keyOf(component.Player, component.Player):       noReaction,
	keyOf(component.Player, component.PlayerBullet): noReaction,
	keyOf(component.Player, component.Wall):         correctOwner,

	keyOf(component.PlayerBullet, component.PlayerBullet): noReaction,
	keyOf(component.PlayerBullet, component.Wall):         deleteOwner,

	keyOf(component.Wall, component.Wall): wallsNeverTouch,
}

// ResolutionSystem consumes collision events in ascending slot order and
// applies the reaction for the pair's types. Every event is cleared whether
// or not its reaction did anything. Phase 4 (Resolve).
type ResolutionSystem struct {
	state  *world.State
	bus    *event.Bus
	log    *zap.Logger
	damage int

	owners []ecs.EntityID
}

func NewResolutionSystem(state *world.State, bus *event.Bus, bulletDamage int, log *zap.Logger) *ResolutionSystem {
	return &ResolutionSystem{
		state:  state,
		bus:    bus,
		log:    log,
		damage: bulletDamage,
		owners: make([]ecs.EntityID, 0, 32),
	}
}

func (s *ResolutionSystem) Phase() coresys.Phase { return coresys.PhaseResolve }

func (s *ResolutionSystem) Update(_ time.Duration) error {
	s.owners = s.owners[:0]
	s.state.Events.Each(func(id ecs.EntityID, _ *component.CollisionEvent) {
		s.owners = append(s.owners, id)
	})

	for _, id := range s.owners {
		// Take clears the event; an earlier reaction may already have
		// destroyed this entity along with its event.
		ev, ok := s.state.Events.Take(id)
		if !ok {
			continue
		}
		if err := s.resolve(id, ev); err != nil {
			return err
		}
	}
	return nil
}

func (s *ResolutionSystem) resolve(owner ecs.EntityID, ev component.CollisionEvent) error {
	ta, okA := s.state.TypeOf(owner)
	tb, okB := s.state.TypeOf(ev.Other)
	if !okA || !okB {
		s.log.Debug("stale collision skipped", zap.Stringer("a", owner), zap.Stringer("b", ev.Other))
		return nil
	}

	p := pair{A: owner, B: ev.Other, TypeA: ta, TypeB: tb, Event: ev}
	if !Canonical(p.A, p.TypeA, p.B, p.TypeB) {
		p = p.reversed()
	}

	r, ok := reactions[keyOf(p.TypeA, p.TypeB)]
	if !ok {
		return fmt.Errorf("%w: %s-%s", ErrUnclassifiedPair, p.TypeA, p.TypeB)
	}
	if r.apply != nil {
		if err := r.apply(s, &p); err != nil {
			return err
		}
	}

	s.log.Debug("collision resolved",
		zap.Stringer("a", p.A), zap.Stringer("b", p.B),
		zap.String("reaction", r.name), zap.Float32("distance", p.Event.Contact.Distance))
	event.Emit(s.bus, event.CollisionResolved{
		A: p.A, B: p.B,
		TypeA: p.TypeA, TypeB: p.TypeB,
		Distance: p.Event.Contact.Distance,
		Reaction: r.name,
	})
	return nil
}

// reversed swaps the roles of A and B, mirroring the contact data.
func (p pair) reversed() pair {
	c := p.Event.Contact
	return pair{
		A: p.B, B: p.A,
		TypeA: p.TypeB, TypeB: p.TypeA,
		Event: component.CollisionEvent{
			Other: p.A,
			Contact: component.Contact{
				Distance: c.Distance,
				PointA:   c.PointB,
				PointB:   c.PointA,
				Normal:   c.Normal.Mul(-1),
			},
			DirectionToOther: p.Event.DirectionToOther.Mul(-1),
		},
	}
}

// correctA pushes A out of B, back along the direction to B by the
// penetration depth. Contacts inside the margin but not overlapping are
// left alone.
func (s *ResolutionSystem) correctA(p *pair) error {
	d := p.Event.Contact.Distance
	if d >= 0 {
		return nil
	}
	k, ok := s.state.Kinematics.Get(p.A)
	if !ok || k.Immovable() {
		return nil
	}
	k.Position = k.Position.Sub(p.Event.DirectionToOther.Mul(-d))
	return nil
}

// bounce exchanges an elastic impulse along the contact normal, then
// separates the bodies in proportion to their inverse masses.
func (s *ResolutionSystem) bounce(p *pair) error {
	ka, kb, ok := s.state.Kinematics.GetPair(p.A, p.B)
	if !ok {
		return nil
	}
	invA, invB := inverseMass(ka), inverseMass(kb)
	sum := invA + invB
	if sum == 0 {
		return nil
	}
	n := p.Event.Contact.Normal

	va, vb := ka.Velocity(), kb.Velocity()
	if closing := vb.Sub(va).Dot(n); closing < 0 {
		j := -2 * closing / sum
		ka.SetVelocity(va.Sub(n.Mul(j * invA)))
		kb.SetVelocity(vb.Add(n.Mul(j * invB)))
	}

	if d := p.Event.Contact.Distance; d < 0 {
		ka.Position = ka.Position.Sub(n.Mul(-d * invA / sum))
		kb.Position = kb.Position.Add(n.Mul(-d * invB / sum))
	}
	return nil
}

func inverseMass(k *component.Kinematic) float32 {
	if k.Immovable() || k.Mass <= 0 {
		return 0
	}
	return 1 / k.Mass
}

// hit applies a bullet's damage to target and deletes the bullet.
func (s *ResolutionSystem) hit(target ecs.EntityID, targetType component.EntityType, bullet ecs.EntityID, bulletType component.EntityType) {
	amount := s.damage
	if pr, ok := s.state.Projectiles.Get(bullet); ok && pr.Damage > 0 {
		amount = pr.Damage
	}
	s.remove(bullet, bulletType)

	h, ok := s.state.Health.Get(target)
	if !ok {
		return
	}
	dead := h.Apply(amount)
	event.Emit(s.bus, event.EntityDamaged{ID: target, Type: targetType, Amount: amount, Remaining: h.Current})
	s.log.Info("entity damaged",
		zap.Stringer("id", target), zap.Stringer("type", targetType),
		zap.Int("amount", amount), zap.Int("remaining", h.Current))
	if dead {
		s.remove(target, targetType)
		s.log.Info("entity destroyed", zap.Stringer("id", target), zap.Stringer("type", targetType))
	}
}

// remove destroys id right away so later pairs in this pass see it gone.
func (s *ResolutionSystem) remove(id ecs.EntityID, typ component.EntityType) {
	if s.state.Destroy(id) {
		event.Emit(s.bus, event.EntityDestroyed{ID: id, Type: typ})
	}
}
