package view

import (
	"context"
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/l1jgo/skirmish/internal/config"
	"github.com/l1jgo/skirmish/internal/control"
	"github.com/l1jgo/skirmish/internal/sim"
)

// ErrQuit is returned by Run when the user asks to leave.
var ErrQuit = errors.New("quit requested")

// Terminal owns the screen for an interactive run.
type Terminal struct {
	screen   tcell.Screen
	renderer *Renderer
	input    *Input
	log      *zap.Logger
}

// NewTerminal wraps an initialised screen and enables mouse reporting.
func NewTerminal(screen tcell.Screen, cfg config.ViewConfig, log *zap.Logger) *Terminal {
	screen.EnableMouse()
	r := NewRenderer(screen, cfg)
	return &Terminal{
		screen:   screen,
		renderer: r,
		input:    NewInput(r, DefaultHold),
		log:      log,
	}
}

// Run draws frames as they arrive and forwards input until ctx ends or the
// user quits. It never touches simulation state: frames are copies and
// input leaves through the inputs channel.
func (t *Terminal) Run(ctx context.Context, frames <-chan sim.Snapshot, inputs chan<- control.InputEvent) error {
	events := make(chan tcell.Event, 32)
	stop := make(chan struct{})
	defer close(stop)
	go t.screen.ChannelEvents(events, stop)

	expire := time.NewTicker(50 * time.Millisecond)
	defer expire.Stop()

	send := func(evs []control.InputEvent) error {
		for _, ev := range evs {
			select {
			case inputs <- ev:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-frames:
			if !ok {
				return nil
			}
			t.renderer.Draw(snap)
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if _, resized := ev.(*tcell.EventResize); resized {
				t.screen.Sync()
				continue
			}
			out, quit := t.input.Translate(ev, time.Now())
			if quit {
				t.log.Debug("quit from terminal")
				return ErrQuit
			}
			if err := send(out); err != nil {
				return nil
			}
		case now := <-expire.C:
			if err := send(t.input.Expire(now)); err != nil {
				return nil
			}
		}
	}
}
