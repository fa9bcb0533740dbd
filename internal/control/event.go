package control

import "github.com/go-gl/mathgl/mgl32"

// EventKind tags an InputEvent.
type EventKind uint8

const (
	KeyDown EventKind = iota + 1
	KeyUp
	MouseDown
	// Think is generated by the simulation once per tick for every
	// scripted entity; it is never produced by the view.
	Think
)

func (k EventKind) String() string {
	switch k {
	case KeyDown:
		return "key_down"
	case KeyUp:
		return "key_up"
	case MouseDown:
		return "mouse_down"
	case Think:
		return "think"
	default:
		return "unknown"
	}
}

// Mouse buttons.
const (
	ButtonLeft  = 1
	ButtonRight = 2
)

// InputEvent is the only channel through which outside input reaches the
// simulation. Point is a world position: the click point for MouseDown and
// the target for Think (valid when HasTarget).
type InputEvent struct {
	Kind      EventKind
	Key       rune
	Button    int
	Point     mgl32.Vec2
	HasTarget bool
}
