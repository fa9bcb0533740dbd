package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/l1jgo/skirmish/internal/control"
	"github.com/l1jgo/skirmish/internal/sim"
	"github.com/l1jgo/skirmish/internal/view"
)

var flagLogFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play in the terminal",
	Long: `Open the scenario in the terminal. The simulation and the view run on
separate goroutines and only exchange snapshots and input events.

Controls:
  W/A/S/D   - Move
  Click     - Fire toward the pointer
  Esc       - Quit`,
	Args: cobra.NoArgs,
	RunE: runInteractive,
}

func init() {
	runCmd.Flags().StringVar(&flagLogFile, "log-file", "skirmish.log", "Log destination while the terminal is in use")
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	e, err := newEnv(flagLogFile)
	if err != nil {
		return err
	}
	defer e.close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	frames := make(chan sim.Snapshot, 1)
	inputs := make(chan control.InputEvent, 64)
	term := view.NewTerminal(screen, e.cfg.View, e.log)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return term.Run(ctx, frames, inputs)
	})
	g.Go(func() error {
		return simLoop(ctx, e.sim, e.cfg.Sim.TickRate, inputs, frames, e.log)
	})

	err = g.Wait()
	if errors.Is(err, view.ErrQuit) {
		err = nil
	}
	e.log.Info("run finished",
		zap.Uint64("ticks", e.sim.Tick()),
		zap.Int("entities", e.sim.EntityCount()),
		zap.Error(err))
	return err
}

// simLoop owns the simulation: it is the only goroutine that touches it.
// Input is drained at the start of each tick and the newest snapshot
// replaces any frame the view has not picked up yet.
func simLoop(ctx context.Context, s *sim.Simulation, rate time.Duration, inputs <-chan control.InputEvent,
	frames chan sim.Snapshot, log *zap.Logger) error {
	ticker := time.NewTicker(rate)
	defer ticker.Stop()
	dt := float32(rate.Seconds())

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

	drain:
		for {
			select {
			case ev := <-inputs:
				s.Input(ev)
			default:
				break drain
			}
		}

		if err := s.AdvanceTick(dt); err != nil {
			log.Error("simulation aborted", zap.Error(err))
			return err
		}

		snap := s.Snapshot()
		select {
		case <-frames:
		default:
		}
		frames <- snap
	}
}
