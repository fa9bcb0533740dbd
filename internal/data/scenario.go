package data

import (
	"embed"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/geom"
	"github.com/l1jgo/skirmish/internal/world"
)

//go:embed scenarios/*.yaml
var builtin embed.FS

// DefaultScenario is the name of the embedded scene used when no file is given.
const DefaultScenario = "default"

// ShapeEntry is the yaml form of component.Shape.
type ShapeEntry struct {
	Kind   string  `yaml:"kind"` // "rectangle" or "circle"
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Radius float64 `yaml:"radius"`
}

// EntityEntry is one body in a scenario file. Mass accepts .inf for
// immovable bodies; a missing mass means 1.
type EntityEntry struct {
	Name         string     `yaml:"name"`
	Type         string     `yaml:"type"`
	Position     [2]float64 `yaml:"position"`
	Direction    [2]float64 `yaml:"direction"`
	Speed        float64    `yaml:"speed"`
	Mass         float64    `yaml:"mass"`
	Shape        ShapeEntry `yaml:"shape"`
	CollidesWith []string   `yaml:"collides_with"` // empty = component.DefaultMask
	Color        string     `yaml:"color"`
	Health       int        `yaml:"health"`     // 0 = no health component
	Controller   string     `yaml:"controller"` // "", "player" or "scripted"
	MoveSpeed    float64    `yaml:"move_speed"` // 0 = sim.player_speed
}

// Scenario is a named list of bodies to spawn before the first tick.
type Scenario struct {
	Name     string        `yaml:"name"`
	Entities []EntityEntry `yaml:"entities"`
}

// LoadScenario reads a scenario file. An empty path loads the embedded
// default scene.
func LoadScenario(path string) (*Scenario, error) {
	if path == "" {
		return LoadBuiltin(DefaultScenario)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(raw)
}

// LoadBuiltin loads one of the scenarios compiled into the binary.
func LoadBuiltin(name string) (*Scenario, error) {
	raw, err := builtin.ReadFile("scenarios/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("builtin scenario %q: %w", name, err)
	}
	return ParseScenario(raw)
}

// ParseScenario decodes and validates scenario yaml.
func ParseScenario(raw []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(s.Entities) == 0 {
		return nil, errors.New("scenario has no entities")
	}
	for i := range s.Entities {
		if _, err := s.Entities[i].toSpawn(1); err != nil {
			return nil, fmt.Errorf("entity %d (%s): %w", i, s.Entities[i].Name, err)
		}
	}
	return &s, nil
}

// Spawns converts every entry into a world.Spawn. moveSpeed is used for
// controlled entities that do not set move_speed.
func (s *Scenario) Spawns(moveSpeed float32) ([]world.Spawn, error) {
	out := make([]world.Spawn, 0, len(s.Entities))
	for i := range s.Entities {
		sp, err := s.Entities[i].toSpawn(moveSpeed)
		if err != nil {
			return nil, fmt.Errorf("entity %d (%s): %w", i, s.Entities[i].Name, err)
		}
		out = append(out, sp)
	}
	return out, nil
}

// Count returns how many entries have each type.
func (s *Scenario) Count() map[component.EntityType]int {
	counts := make(map[component.EntityType]int, len(component.AllTypes))
	for _, e := range s.Entities {
		if typ, err := component.ParseEntityType(e.Type); err == nil {
			counts[typ]++
		}
	}
	return counts
}

func (e *EntityEntry) toSpawn(moveSpeed float32) (world.Spawn, error) {
	typ, err := component.ParseEntityType(e.Type)
	if err != nil {
		return world.Spawn{}, err
	}
	shape, err := e.Shape.build()
	if err != nil {
		return world.Spawn{}, err
	}
	mask, err := e.mask(typ)
	if err != nil {
		return world.Spawn{}, err
	}
	ctrl, err := parseController(e.Controller)
	if err != nil {
		return world.Spawn{}, err
	}
	color, err := parseColor(e.Color, typ)
	if err != nil {
		return world.Spawn{}, err
	}

	mass := e.Mass
	switch {
	case mass == 0:
		mass = 1
	case mass < 0 || math.IsNaN(mass):
		return world.Spawn{}, fmt.Errorf("mass must be positive, got %g", mass)
	}
	if e.Speed < 0 {
		return world.Spawn{}, fmt.Errorf("speed must not be negative, got %g", e.Speed)
	}

	name := e.Name
	if name == "" {
		name = typ.String()
	}
	sp := world.Spawn{
		Name: name,
		Kinematic: component.Kinematic{
			Position:  mgl32.Vec2{float32(e.Position[0]), float32(e.Position[1])},
			Direction: geom.NormalizeOr(mgl32.Vec2{float32(e.Direction[0]), float32(e.Direction[1])}, mgl32.Vec2{}),
			Speed:     float32(e.Speed),
			Mass:      float32(mass),
			Shape:     shape,
		},
		Collision:  component.Collision{CollidesWith: mask, MyType: typ},
		Drawable:   &component.Drawable{Shape: shape, Color: color},
		Controller: ctrl,
	}
	if e.Health > 0 {
		sp.Health = &component.Health{Current: e.Health, Max: e.Health}
	}
	if ctrl != component.ControllerNone {
		sp.MoveSpeed = moveSpeed
		if e.MoveSpeed > 0 {
			sp.MoveSpeed = float32(e.MoveSpeed)
		}
	}
	return sp, nil
}

func (e *EntityEntry) mask(typ component.EntityType) (component.TypeMask, error) {
	if len(e.CollidesWith) == 0 {
		return component.DefaultMask(typ), nil
	}
	var m component.TypeMask
	for _, name := range e.CollidesWith {
		if name == "all" {
			m |= component.AllMask
			continue
		}
		t, err := component.ParseEntityType(name)
		if err != nil {
			return 0, fmt.Errorf("collides_with: %w", err)
		}
		m |= component.MaskOf(t)
	}
	return m, nil
}

func (s ShapeEntry) build() (component.Shape, error) {
	switch s.Kind {
	case "rectangle", "rect":
		if s.Width <= 0 || s.Height <= 0 {
			return nil, fmt.Errorf("rectangle needs positive width and height, got %gx%g", s.Width, s.Height)
		}
		return component.Rectangle{Width: float32(s.Width), Height: float32(s.Height)}, nil
	case "circle":
		if s.Radius <= 0 {
			return nil, fmt.Errorf("circle needs a positive radius, got %g", s.Radius)
		}
		return component.Circle{Radius: float32(s.Radius)}, nil
	default:
		return nil, fmt.Errorf("unknown shape kind %q", s.Kind)
	}
}

func parseController(s string) (component.ControllerKind, error) {
	switch s {
	case "", "none":
		return component.ControllerNone, nil
	case "player":
		return component.ControllerPlayer, nil
	case "scripted", "ai":
		return component.ControllerScripted, nil
	default:
		return component.ControllerNone, fmt.Errorf("unknown controller %q", s)
	}
}

var colors = map[string]component.Color{
	"red":   component.ColorRed,
	"green": component.ColorGreen,
	"blue":  component.ColorBlue,
	"black": component.ColorBlack,
	"white": component.ColorWhite,
}

// defaultColors is used for entries that set no color.
var defaultColors = map[component.EntityType]component.Color{
	component.Enemy:        component.ColorRed,
	component.EnemyBullet:  component.ColorRed,
	component.Player:       component.ColorGreen,
	component.PlayerBullet: component.ColorGreen,
	component.Wall:         component.ColorWhite,
}

func parseColor(s string, typ component.EntityType) (component.Color, error) {
	if s == "" {
		return defaultColors[typ], nil
	}
	c, ok := colors[s]
	if !ok {
		return component.Color{}, fmt.Errorf("unknown color %q", s)
	}
	return c, nil
}
