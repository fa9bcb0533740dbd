package data

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/skirmish/internal/component"
)

func TestLoadScenario_BuiltinDefault(t *testing.T) {
	s, err := LoadScenario("")
	require.NoError(t, err)
	assert.Equal(t, "default", s.Name)

	counts := s.Count()
	assert.Equal(t, 2, counts[component.Enemy])
	assert.Equal(t, 2, counts[component.Wall])
	assert.Equal(t, 1, counts[component.Player])

	spawns, err := s.Spawns(500)
	require.NoError(t, err)
	require.Len(t, spawns, 5)

	wall := spawns[2]
	assert.True(t, wall.Kinematic.Immovable())
	assert.Equal(t, component.Rectangle{Width: 10, Height: 200}, wall.Kinematic.Shape)
	assert.False(t, wall.Collision.CollidesWith.Has(component.Wall))

	player := spawns[4]
	assert.Equal(t, component.ControllerPlayer, player.Controller)
	assert.Equal(t, float32(500), player.MoveSpeed, "falls back to the configured speed")
	require.NotNil(t, player.Health)
	assert.Equal(t, 10, player.Health.Max)
	assert.Equal(t, mgl32.Vec2{400, 400}, player.Kinematic.Position)

	assert.Equal(t, float32(120), spawns[0].MoveSpeed)
}

func TestParseScenario_Fields(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: arena
entities:
  - type: player_bullet
    position: [1, 2]
    direction: [3, 4]
    speed: 600
    mass: 0.001
    shape: { kind: circle, radius: 2.5 }
    collides_with: [enemy, wall]
  - type: wall
    position: [0, 0]
    mass: .inf
    shape: { kind: rect, width: 4, height: 4 }
    collides_with: [all]
    color: blue
`))
	require.NoError(t, err)
	spawns, err := s.Spawns(1)
	require.NoError(t, err)

	b := spawns[0]
	assert.Equal(t, "player_bullet", b.Name)
	assert.InDelta(t, 0.6, b.Kinematic.Direction[0], 1e-6)
	assert.InDelta(t, 0.8, b.Kinematic.Direction[1], 1e-6)
	assert.Equal(t, component.Circle{Radius: 2.5}, b.Kinematic.Shape)
	assert.Equal(t, component.MaskOf(component.Enemy, component.Wall), b.Collision.CollidesWith)
	assert.Equal(t, component.ColorGreen, b.Drawable.Color)
	assert.Nil(t, b.Health)
	assert.Zero(t, b.MoveSpeed)

	w := spawns[1]
	assert.True(t, math.IsInf(float64(w.Kinematic.Mass), 1))
	assert.Equal(t, component.AllMask, w.Collision.CollidesWith)
	assert.Equal(t, component.ColorBlue, w.Drawable.Color)
	assert.Equal(t, mgl32.Vec2{}, w.Kinematic.Direction)
}

func TestParseScenario_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty":      "name: x\n",
		"type":       "entities: [{type: dragon, shape: {kind: circle, radius: 1}}]",
		"shape kind": "entities: [{type: wall, shape: {kind: hexagon}}]",
		"shape size": "entities: [{type: wall, shape: {kind: rectangle, width: 0, height: 2}}]",
		"radius":     "entities: [{type: wall, shape: {kind: circle}}]",
		"mask":       "entities: [{type: wall, collides_with: [dragon], shape: {kind: circle, radius: 1}}]",
		"mass":       "entities: [{type: wall, mass: -1, shape: {kind: circle, radius: 1}}]",
		"speed":      "entities: [{type: wall, speed: -1, shape: {kind: circle, radius: 1}}]",
		"controller": "entities: [{type: enemy, controller: joystick, shape: {kind: circle, radius: 1}}]",
		"color":      "entities: [{type: enemy, color: mauve, shape: {kind: circle, radius: 1}}]",
		"yaml":       "entities: [",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseScenario([]byte(body))
			require.Error(t, err)
		})
	}
}

func TestLoadScenario_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entities: [{type: enemy, shape: {kind: circle, radius: 3}}]\n"), 0o644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	require.Len(t, s.Entities, 1)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = LoadBuiltin("nope")
	require.Error(t, err)
}
