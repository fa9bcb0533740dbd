// Package sim wires the world, systems and controllers into one
// Simulation value owned by the caller.
package sim

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/config"
	"github.com/l1jgo/skirmish/internal/control"
	"github.com/l1jgo/skirmish/internal/core/ecs"
	"github.com/l1jgo/skirmish/internal/core/event"
	coresys "github.com/l1jgo/skirmish/internal/core/system"
	"github.com/l1jgo/skirmish/internal/system"
	"github.com/l1jgo/skirmish/internal/world"
)

// Simulation is the explicit context for one run. It is not safe for
// concurrent use; the view reads Snapshot values, never the tables.
type Simulation struct {
	cfg    config.SimConfig
	log    *zap.Logger
	state  *world.State
	bus    *event.Bus
	runner *coresys.Runner
	input  *system.InputSystem
	stats  *system.StatsSystem
	tick   uint64
}

// New builds a simulation. ai drives scripted entities; nil leaves them
// without a handler so they ignore Think events.
func New(cfg config.SimConfig, ai control.Steerer, log *zap.Logger) (*Simulation, error) {
	handlers := control.NewHandlers()
	if err := handlers.Register(component.ControllerPlayer, control.PlayerController{}); err != nil {
		return nil, err
	}
	if ai != nil {
		if err := handlers.Register(component.ControllerScripted, control.NewScriptedController(ai)); err != nil {
			return nil, err
		}
	}

	state := world.NewState()
	bus := event.NewBus()
	s := &Simulation{
		cfg:    cfg,
		log:    log,
		state:  state,
		bus:    bus,
		runner: coresys.NewRunner(),
		input:  system.NewInputSystem(state, handlers, cfg, log),
		stats:  system.NewStatsSystem(state, bus, cfg.LogEvery, log),
	}

	s.runner.Register(system.NewBarrierSystem(state, bus, log))
	s.runner.Register(s.input)
	s.runner.Register(system.NewMovementSystem(state))
	s.runner.Register(system.NewCollisionSystem(state, cfg.ContactMargin, cfg.StrictInvariants, log))
	s.runner.Register(system.NewResolutionSystem(state, bus, cfg.BulletDamage, log))
	s.runner.Register(system.NewEventDispatchSystem(bus))
	s.runner.Register(s.stats)
	return s, nil
}

// AdvanceTick runs one full tick of dt seconds. An error means the
// simulation state can no longer be trusted.
func (s *Simulation) AdvanceTick(dt float32) error {
	d := time.Duration(float64(dt) * float64(time.Second))
	if err := s.runner.Tick(d); err != nil {
		return fmt.Errorf("tick %d: %w", s.tick+1, err)
	}
	s.tick++
	return nil
}

// Spawn queues an entity; its components appear at the next tick barrier.
func (s *Simulation) Spawn(sp world.Spawn) ecs.EntityID {
	return s.state.QueueSpawn(sp)
}

// Despawn queues id for removal at the next tick barrier.
func (s *Simulation) Despawn(id ecs.EntityID) {
	s.state.ECS.MarkForDestruction(id)
}

// Input buffers an external input event for the next tick.
func (s *Simulation) Input(ev control.InputEvent) {
	s.input.Enqueue(ev)
}

func (s *Simulation) Tick() uint64 { return s.tick }

func (s *Simulation) Alive(id ecs.EntityID) bool { return s.state.Alive(id) }

func (s *Simulation) EntityCount() int { return s.state.EntityCount() }

func (s *Simulation) Stats() system.Stats { return s.stats.Snapshot() }

// Kinematic returns a copy of id's kinematic state.
func (s *Simulation) Kinematic(id ecs.EntityID) (component.Kinematic, bool) {
	k, ok := s.state.Kinematics.Get(id)
	if !ok {
		return component.Kinematic{}, false
	}
	return *k, true
}

// Entity is one drawable body in a snapshot.
type Entity struct {
	ID       ecs.EntityID
	Type     component.EntityType
	Position mgl32.Vec2
	Shape    component.Shape
	Color    component.Color
}

// Snapshot is a read-only copy of what the renderer needs.
type Snapshot struct {
	Tick     uint64
	Entities []Entity
}

// Snapshot copies every entity with both a kinematic and a drawable
// component, in slot order.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{Tick: s.tick, Entities: make([]Entity, 0, s.state.Drawables.Len())}
	for row := range ecs.Join2(s.state.Kinematics, s.state.Drawables) {
		typ, _ := s.state.TypeOf(row.ID)
		snap.Entities = append(snap.Entities, Entity{
			ID:       row.ID,
			Type:     typ,
			Position: row.A.Position,
			Shape:    row.B.Shape,
			Color:    row.B.Color,
		})
	}
	return snap
}

// Checksum hashes ids and kinematic state in slot order. Two runs with the
// same inputs produce the same value.
func (s *Simulation) Checksum() uint64 {
	h := xxhash.New()
	var buf [4]byte
	put := func(v uint32) {
		binary.LittleEndian.PutUint32(buf[:], v)
		_, _ = h.Write(buf[:])
	}
	f := func(v float32) { put(math.Float32bits(v)) }

	s.state.Kinematics.Each(func(id ecs.EntityID, k *component.Kinematic) {
		put(uint32(id.Index))
		put(id.Generation)
		f(k.Position[0])
		f(k.Position[1])
		f(k.Direction[0])
		f(k.Direction[1])
		f(k.Speed)
		f(k.Mass)
	})
	return h.Sum64()
}
