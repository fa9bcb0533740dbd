package control

import (
	"unicode"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/geom"
)

// movement keys and their unit axes (screen y grows downward).
var moveAxes = map[rune]mgl32.Vec2{
	'w': {0, -1},
	's': {0, 1},
	'a': {-1, 0},
	'd': {1, 0},
}

// PlayerController drives an entity from WASD keys and mouse clicks.
type PlayerController struct{}

func (PlayerController) HandleInput(ev InputEvent, k *component.Kinematic, in *component.InputState) bool {
	switch ev.Kind {
	case KeyDown, KeyUp:
		key := unicode.ToLower(ev.Key)
		if _, ok := moveAxes[key]; !ok {
			return false
		}
		if in.Pressed == nil {
			in.Pressed = make(map[rune]bool, 4)
		}
		in.Pressed[key] = ev.Kind == KeyDown
		steerFromKeys(k, in)
		return true
	case MouseDown:
		if ev.Button != ButtonLeft {
			return false
		}
		in.Fire = &component.FireRequest{Target: ev.Point}
		return true
	default:
		return false
	}
}

// steerFromKeys recomputes direction and speed from the held keys. Opposite
// keys cancel; releasing everything stops the entity but keeps its heading.
func steerFromKeys(k *component.Kinematic, in *component.InputState) {
	var dir mgl32.Vec2
	for _, key := range [...]rune{'w', 'a', 's', 'd'} {
		if in.Pressed[key] {
			dir = dir.Add(moveAxes[key])
		}
	}
	if dir.Len() == 0 {
		k.Speed = 0
		return
	}
	k.Direction = geom.NormalizeOr(dir, geom.DefaultDirection)
	k.Speed = in.MoveSpeed
}
