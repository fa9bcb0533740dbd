package system

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/config"
	"github.com/l1jgo/skirmish/internal/control"
	"github.com/l1jgo/skirmish/internal/core/ecs"
	coresys "github.com/l1jgo/skirmish/internal/core/system"
	"github.com/l1jgo/skirmish/internal/geom"
	"github.com/l1jgo/skirmish/internal/world"
)

// InputSystem delivers input events to controlled entities and turns fire
// requests into queued bullet spawns. Phase 1 (Input).
//
// External events are offered to controlled entities in ascending slot
// order and stop at the first handler that consumes them. Scripted
// entities additionally get one Think event each tick, aimed at the
// nearest player.
type InputSystem struct {
	state    *world.State
	handlers *control.Handlers
	cfg      config.SimConfig
	log      *zap.Logger

	queue   []control.InputEvent
	players []mgl32.Vec2
}

func NewInputSystem(state *world.State, handlers *control.Handlers, cfg config.SimConfig, log *zap.Logger) *InputSystem {
	return &InputSystem{
		state:    state,
		handlers: handlers,
		cfg:      cfg,
		log:      log,
		queue:    make([]control.InputEvent, 0, 16),
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

// Enqueue buffers an external event until the next Update.
func (s *InputSystem) Enqueue(ev control.InputEvent) {
	s.queue = append(s.queue, ev)
}

func (s *InputSystem) Update(_ time.Duration) error {
	s.state.Inputs.Each(func(_ ecs.EntityID, in *component.InputState) {
		if in.Cooldown > 0 {
			in.Cooldown--
		}
	})

	for _, ev := range s.queue {
		if !s.offer(ev) {
			s.log.Debug("input not consumed", zap.Stringer("kind", ev.Kind))
		}
	}
	clear(s.queue)
	s.queue = s.queue[:0]

	s.think()
	s.fire()
	return nil
}

func (s *InputSystem) offer(ev control.InputEvent) bool {
	for row := range ecs.Join3(s.state.Controlled, s.state.Kinematics, s.state.Inputs) {
		h, ok := s.handlers.Lookup(row.A.Kind)
		if !ok {
			continue
		}
		if h.HandleInput(ev, row.B, row.C) {
			return true
		}
	}
	return false
}

func (s *InputSystem) think() {
	s.players = s.players[:0]
	for row := range ecs.Join2(s.state.Kinematics, s.state.Collisions) {
		if row.B.MyType == component.Player {
			s.players = append(s.players, row.A.Position)
		}
	}

	for row := range ecs.Join3(s.state.Controlled, s.state.Kinematics, s.state.Inputs) {
		if row.A.Kind != component.ControllerScripted {
			continue
		}
		h, ok := s.handlers.Lookup(row.A.Kind)
		if !ok {
			continue
		}
		ev := control.InputEvent{Kind: control.Think}
		ev.Point, ev.HasTarget = nearest(row.B.Position, s.players)
		h.HandleInput(ev, row.B, row.C)
	}
}

func nearest(from mgl32.Vec2, candidates []mgl32.Vec2) (mgl32.Vec2, bool) {
	var best mgl32.Vec2
	bestDist := float32(-1)
	for _, c := range candidates {
		d := c.Sub(from).LenSqr()
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist >= 0
}

func (s *InputSystem) fire() {
	for row := range ecs.Join3(s.state.Inputs, s.state.Kinematics, s.state.Collisions) {
		req := row.A.Fire
		if req == nil {
			continue
		}
		row.A.Fire = nil
		if row.A.Cooldown > 0 {
			continue
		}
		row.A.Cooldown = s.cfg.FireCooldownTicks
		id := s.state.QueueSpawn(s.bullet(row.ID, row.B, row.C.MyType, req.Target))
		s.log.Debug("bullet queued", zap.Stringer("owner", row.ID), zap.Stringer("bullet", id))
	}
}

// bullet builds a projectile leaving the shooter toward target.
func (s *InputSystem) bullet(owner ecs.EntityID, k *component.Kinematic, shooter component.EntityType, target mgl32.Vec2) world.Spawn {
	dir := geom.Direction(k.Position, target)
	typ := shooter.BulletType()
	color := component.ColorGreen
	if typ == component.EnemyBullet {
		color = component.ColorRed
	}
	shape := component.Rectangle{Width: s.cfg.BulletSize, Height: s.cfg.BulletSize}
	return world.Spawn{
		Name: typ.String(),
		Kinematic: component.Kinematic{
			Position:  k.Position.Add(dir.Mul(s.cfg.BulletSpawnOffset)),
			Direction: dir,
			Speed:     s.cfg.BulletSpeed,
			Mass:      s.cfg.BulletMass,
			Shape:     shape,
		},
		Collision:  component.Collision{CollidesWith: component.ShotMask(shooter), MyType: typ},
		Drawable:   &component.Drawable{Shape: shape, Color: color},
		Projectile: &component.Projectile{Owner: owner, Damage: s.cfg.BulletDamage},
	}
}
