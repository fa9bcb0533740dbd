package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/l1jgo/skirmish/internal/config"
	"github.com/l1jgo/skirmish/internal/data"
	"github.com/l1jgo/skirmish/internal/scripting"
	"github.com/l1jgo/skirmish/internal/sim"
)

// env is everything a run needs, built from flags and config.
type env struct {
	cfg      *config.Config
	log      *zap.Logger
	scenario *data.Scenario
	ai       *scripting.Engine
	sim      *sim.Simulation
}

// newEnv loads config, logger, scenario and scripts, then builds a
// simulation with the scenario queued for the first tick barrier.
func newEnv(logOutput string) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg.Logging, logOutput)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	scenario, err := data.LoadScenario(flagScenario)
	if err != nil {
		return nil, err
	}
	spawns, err := scenario.Spawns(cfg.Sim.PlayerSpeed)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	ai, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return nil, fmt.Errorf("scripting: %w", err)
	}

	s, err := sim.New(cfg.Sim, ai, log)
	if err != nil {
		ai.Close()
		return nil, fmt.Errorf("simulation: %w", err)
	}
	for _, sp := range spawns {
		s.Spawn(sp)
	}
	log.Info("scenario loaded",
		zap.String("name", scenario.Name),
		zap.Int("entities", len(spawns)),
		zap.Duration("tick_rate", cfg.Sim.TickRate))

	return &env{cfg: cfg, log: log, scenario: scenario, ai: ai, sim: s}, nil
}

func (e *env) close() {
	e.ai.Close()
	_ = e.log.Sync()
}
