package view

import (
	"sort"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/l1jgo/skirmish/internal/control"
)

// DefaultHold is how long a movement key counts as held after the last
// press or auto-repeat. Terminals report no key releases, so a release is
// synthesised once the repeats stop.
const DefaultHold = 400 * time.Millisecond

var movementKeys = map[rune]bool{'w': true, 'a': true, 's': true, 'd': true}

// Input translates tcell events into simulation input events.
type Input struct {
	renderer *Renderer
	hold     time.Duration
	held     map[rune]time.Time
	buttons  tcell.ButtonMask
}

func NewInput(renderer *Renderer, hold time.Duration) *Input {
	return &Input{renderer: renderer, hold: hold, held: make(map[rune]time.Time, 4)}
}

// Translate converts one terminal event. quit is true for Esc and Ctrl-C.
func (in *Input) Translate(ev tcell.Event, now time.Time) (out []control.InputEvent, quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return nil, true
		case tcell.KeyRune:
			key := unicode.ToLower(ev.Rune())
			if !movementKeys[key] {
				return nil, false
			}
			if _, down := in.held[key]; !down {
				out = append(out, control.InputEvent{Kind: control.KeyDown, Key: key})
			}
			in.held[key] = now
		}
	case *tcell.EventMouse:
		buttons := ev.Buttons()
		pressed := buttons &^ in.buttons
		in.buttons = buttons
		if pressed&tcell.Button1 != 0 {
			x, y := ev.Position()
			out = append(out, control.InputEvent{
				Kind:   control.MouseDown,
				Button: control.ButtonLeft,
				Point:  in.renderer.CellToWorld(x, y),
			})
		}
	}
	return out, false
}

// Expire releases movement keys not seen for longer than the hold time,
// in key order.
func (in *Input) Expire(now time.Time) []control.InputEvent {
	var released []rune
	for key, last := range in.held {
		if now.Sub(last) > in.hold {
			released = append(released, key)
		}
	}
	sort.Slice(released, func(i, j int) bool { return released[i] < released[j] })

	out := make([]control.InputEvent, 0, len(released))
	for _, key := range released {
		delete(in.held, key)
		out = append(out, control.InputEvent{Kind: control.KeyUp, Key: key})
	}
	return out
}
