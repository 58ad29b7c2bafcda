package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Attack     AttackConfig     `toml:"attack"`
	Movement   MovementConfig   `toml:"movement"`
	Data       DataConfig       `toml:"data"`
	Scripting  ScriptingConfig  `toml:"scripting"`
	Render     RenderConfig     `toml:"render"`
	Report     ReportConfig     `toml:"report"`
	Database   DatabaseConfig   `toml:"database"`
	Logging    LoggingConfig    `toml:"logging"`
}

type SimulationConfig struct {
	EntityCount  int   `toml:"entity_count"`
	Ticks        int   `toml:"ticks"`
	RespawnDelay int64 `toml:"respawn_delay"` // ticks between death and respawn
	WorldWidth   int   `toml:"world_width"`
	WorldHeight  int   `toml:"world_height"`
}

type AttackConfig struct {
	Speed    float32 `toml:"speed"` // cells per tick
	MinTicks int32   `toml:"min_ticks"`
	MaxTicks int32   `toml:"max_ticks"` // 0 = uncapped
}

type MovementConfig struct {
	Speed        float32 `toml:"speed"`
	TurnInterval int64   `toml:"turn_interval"`
}

type DataConfig struct {
	UnitList string `toml:"unit_list"` // empty = built-in table
}

type ScriptingConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type RenderConfig struct {
	Watch      bool          `toml:"watch"`
	FrameDelay time.Duration `toml:"frame_delay"`
}

type ReportConfig struct {
	ProgressEvery int    `toml:"progress_every"` // 0 = no progress lines
	Language      string `toml:"language"`       // BCP 47 tag for number formatting
}

type DatabaseConfig struct {
	DSN             string        `toml:"dsn"` // empty = do not record runs
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `toml:"connect_timeout"`
	KeepRuns        int           `toml:"keep_runs"` // per params; 0 = keep all
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaults()
}

// Validate rejects values the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	s := c.Simulation
	if s.EntityCount <= 0 {
		errs = append(errs, fmt.Errorf("simulation.entity_count must be positive, got %d", s.EntityCount))
	}
	if s.Ticks < 0 {
		errs = append(errs, fmt.Errorf("simulation.ticks must not be negative, got %d", s.Ticks))
	}
	if s.RespawnDelay < 0 {
		errs = append(errs, fmt.Errorf("simulation.respawn_delay must not be negative, got %d", s.RespawnDelay))
	}
	if s.WorldWidth <= 0 || s.WorldHeight <= 0 {
		errs = append(errs, fmt.Errorf("simulation world size must be positive, got %dx%d", s.WorldWidth, s.WorldHeight))
	}
	if c.Attack.Speed <= 0 {
		errs = append(errs, fmt.Errorf("attack.speed must be positive, got %v", c.Attack.Speed))
	}
	if c.Attack.MaxTicks > 0 && c.Attack.MaxTicks < c.Attack.MinTicks {
		errs = append(errs, fmt.Errorf("attack.max_ticks %d below min_ticks %d", c.Attack.MaxTicks, c.Attack.MinTicks))
	}
	if c.Database.KeepRuns < 0 {
		errs = append(errs, fmt.Errorf("database.keep_runs must not be negative, got %d", c.Database.KeepRuns))
	}
	if c.Scripting.Enabled && c.Scripting.Dir == "" {
		errs = append(errs, errors.New("scripting.dir is required when scripting is enabled"))
	}
	return errors.Join(errs...)
}

func defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{
			EntityCount:  1000,
			Ticks:        1000,
			RespawnDelay: 10,
			WorldWidth:   120,
			WorldHeight:  40,
		},
		Attack: AttackConfig{
			Speed:    4,
			MinTicks: 1,
			MaxTicks: 20,
		},
		Movement: MovementConfig{
			Speed:        0.5,
			TurnInterval: 16,
		},
		Scripting: ScriptingConfig{
			Enabled: false,
			Dir:     "scripts",
		},
		Render: RenderConfig{
			Watch:      false,
			FrameDelay: 50 * time.Millisecond,
		},
		Report: ReportConfig{
			ProgressEvery: 250,
			Language:      "en",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    4,
			MaxIdleConns:    1,
			ConnMaxLifetime: 30 * time.Minute,
			ConnectTimeout:  5 * time.Second,
			KeepRuns:        50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
