package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Sim       SimConfig       `toml:"sim"`
	Logging   LoggingConfig   `toml:"logging"`
	Scripting ScriptingConfig `toml:"scripting"`
	Database  DatabaseConfig  `toml:"database"`
	View      ViewConfig      `toml:"view"`
}

type SimConfig struct {
	TickRate          time.Duration `toml:"tick_rate"`
	ContactMargin     float32       `toml:"contact_margin"`    // prediction margin in world units
	StrictInvariants  bool          `toml:"strict_invariants"` // panic on duplicate collision events
	LogEvery          int           `toml:"log_every"`         // ticks between debug summaries, 0 = never
	BulletSpeed       float32       `toml:"bullet_speed"`
	BulletMass        float32       `toml:"bullet_mass"`
	BulletSize        float32       `toml:"bullet_size"`
	BulletSpawnOffset float32       `toml:"bullet_spawn_offset"`
	BulletDamage      int           `toml:"bullet_damage"`
	FireCooldownTicks int           `toml:"fire_cooldown_ticks"`
	PlayerSpeed       float32       `toml:"player_speed"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type ScriptingConfig struct {
	Dir string `toml:"dir"` // root of Lua scripts; ai/*.lua is loaded from here
}

type DatabaseConfig struct {
	DSN             string        `toml:"dsn"` // empty disables session persistence
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type ViewConfig struct {
	CellWidth  float32 `toml:"cell_width"`  // world units per terminal column
	CellHeight float32 `toml:"cell_height"` // world units per terminal row
}

// Load reads a toml file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Defaults(), nil
	}
	return cfg, err
}

// Validate rejects settings the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Sim.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("sim.tick_rate must be positive, got %s", c.Sim.TickRate))
	}
	if c.Sim.ContactMargin < 0 {
		errs = append(errs, fmt.Errorf("sim.contact_margin must not be negative, got %g", c.Sim.ContactMargin))
	}
	if c.Sim.BulletSpeed <= 0 {
		errs = append(errs, fmt.Errorf("sim.bullet_speed must be positive, got %g", c.Sim.BulletSpeed))
	}
	if c.Sim.BulletSize <= 0 {
		errs = append(errs, fmt.Errorf("sim.bullet_size must be positive, got %g", c.Sim.BulletSize))
	}
	if c.Sim.FireCooldownTicks < 0 {
		errs = append(errs, fmt.Errorf("sim.fire_cooldown_ticks must not be negative, got %d", c.Sim.FireCooldownTicks))
	}
	if c.View.CellWidth <= 0 || c.View.CellHeight <= 0 {
		errs = append(errs, errors.New("view.cell_width and view.cell_height must be positive"))
	}
	return errors.Join(errs...)
}

func Defaults() *Config {
	return &Config{
		Sim: SimConfig{
			TickRate:          16 * time.Millisecond,
			ContactMargin:     1.0,
			StrictInvariants:  true,
			LogEvery:          60,
			BulletSpeed:       600,
			BulletMass:        0.001,
			BulletSize:        5,
			BulletSpawnOffset: 40,
			BulletDamage:      1,
			FireCooldownTicks: 30,
			PlayerSpeed:       500,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Scripting: ScriptingConfig{
			Dir: "scripts",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    4,
			MaxIdleConns:    1,
			ConnMaxLifetime: 30 * time.Minute,
		},
		View: ViewConfig{
			CellWidth:  10,
			CellHeight: 20,
		},
	}
}
