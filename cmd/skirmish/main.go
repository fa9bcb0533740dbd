// skirmish runs the 2D collision sandbox.
//
// Usage:
//
//	skirmish sim [--ticks N] [--dt S]   - Run headless and print a summary
//	skirmish run                        - Play in the terminal
//	skirmish validate <scenario.yaml>   - Check a scenario file
//	skirmish sessions                   - List stored runs
//
// Global flags:
//
//	--config <path>    - Config file (default: config/skirmish.toml, or $SKIRMISH_CONFIG)
//	--scenario <path>  - Scenario yaml (default: the built-in scene)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/l1jgo/skirmish/internal/config"
)

var (
	flagConfig   string
	flagScenario string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "skirmish",
	Short: "Fixed-timestep 2D collision sandbox",
	Long: `skirmish simulates a player, enemies, bullets and walls in a fixed-step
loop and resolves their collisions.

Examples:
  skirmish sim --ticks 600
  skirmish run --scenario arena.yaml
  skirmish validate arena.yaml`,
	SilenceUsage: true,
}

func init() {
	defaultConfig := "config/skirmish.toml"
	if p := os.Getenv("SKIRMISH_CONFIG"); p != "" {
		defaultConfig = p
	}
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", defaultConfig, "Path to config toml")
	rootCmd.PersistentFlags().StringVar(&flagScenario, "scenario", "", "Path to scenario yaml (empty = built-in)")

	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(sessionsCmd)
}

// loadConfig reads --config, falling back to defaults when the file is
// missing.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger. A non-empty output path sends
// everything there instead of stderr, which the terminal view needs.
func newLogger(cfg config.LoggingConfig, output string) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if output != "" {
		zapCfg.OutputPaths = []string{output}
		zapCfg.ErrorOutputPaths = []string{output}
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	return zapCfg.Build()
}
