// Package config loads simulator configuration from an optional YAML file
// overlaid with WANDERDECK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/wanderdeck/engine/internal/game/model"
)

const envPrefix = "WANDERDECK"

// Config is the full configuration tree.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Replay  ReplayConfig  `mapstructure:"replay"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PlayerConfig seats one player.
type PlayerConfig struct {
	Name  string `mapstructure:"name"`
	Class string `mapstructure:"class"`
}

// GameConfig describes the games the simulator plays.
type GameConfig struct {
	Seed            int64          `mapstructure:"seed"`
	Players         []PlayerConfig `mapstructure:"players"`
	Weather         string         `mapstructure:"weather"`
	ShuffleOnReturn bool           `mapstructure:"shuffle_on_return"`
	MaxTurns        int            `mapstructure:"max_turns"`
	Games           int            `mapstructure:"games"`
}

// CatalogConfig selects where card content comes from.
type CatalogConfig struct {
	Source      string `mapstructure:"source"`
	Path        string `mapstructure:"path"`
	DatabaseURL string `mapstructure:"database_url"`
}

// ReplayConfig controls replay recording.
type ReplayConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Directory string `mapstructure:"directory"`
}

// Catalog sources.
const (
	SourceBuiltin  = "builtin"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("game.seed", 0)
	v.SetDefault("game.weather", "")
	v.SetDefault("game.shuffle_on_return", false)
	v.SetDefault("game.max_turns", 50)
	v.SetDefault("game.games", 1)
	v.SetDefault("game.players", []map[string]any{
		{"name": "Player 1", "class": "knight"},
	})

	v.SetDefault("catalog.source", SourceBuiltin)
	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.database_url", "")

	v.SetDefault("replay.enabled", true)
	v.SetDefault("replay.directory", "replays")
}

// Load reads path (skipped when empty or missing), applies environment
// overrides and defaults, and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the simulator cannot act on.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format: unknown format %q", c.Logging.Format)
	}

	if len(c.Game.Players) == 0 {
		return errors.New("game.players: at least one player is required")
	}
	for i, p := range c.Game.Players {
		if p.Name == "" {
			return fmt.Errorf("game.players[%d]: name is required", i)
		}
		if !model.ClassID(p.Class).Valid() {
			return fmt.Errorf("game.players[%d]: unknown class %q", i, p.Class)
		}
	}
	if c.Game.MaxTurns <= 0 {
		return fmt.Errorf("game.max_turns must be positive, got %d", c.Game.MaxTurns)
	}
	if c.Game.Games <= 0 {
		return fmt.Errorf("game.games must be positive, got %d", c.Game.Games)
	}

	switch c.Catalog.Source {
	case SourceBuiltin:
	case SourceFile:
		if c.Catalog.Path == "" {
			return errors.New("catalog.path is required for the file source")
		}
	case SourcePostgres:
		if c.Catalog.DatabaseURL == "" {
			return errors.New("catalog.database_url is required for the postgres source")
		}
	default:
		return fmt.Errorf("catalog.source: unknown source %q", c.Catalog.Source)
	}

	if c.Replay.Enabled && c.Replay.Directory == "" {
		return errors.New("replay.directory is required when replays are enabled")
	}
	return nil
}
