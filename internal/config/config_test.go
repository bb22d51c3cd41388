package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderdeck/engine/internal/game/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, int64(0), cfg.Game.Seed)
	assert.Equal(t, 50, cfg.Game.MaxTurns)
	assert.Equal(t, 1, cfg.Game.Games)
	assert.False(t, cfg.Game.ShuffleOnReturn)
	require.Len(t, cfg.Game.Players, 1)
	assert.Equal(t, "knight", cfg.Game.Players[0].Class)
	assert.Equal(t, SourceBuiltin, cfg.Catalog.Source)
	assert.True(t, cfg.Replay.Enabled)
	assert.Equal(t, "replays", cfg.Replay.Directory)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
  format: json
game:
  seed: 42
  weather: snowing
  shuffle_on_return: true
  max_turns: 10
  players:
    - name: Ada
      class: wiseman
    - name: Bo
      class: paladin
catalog:
  source: file
  path: content/catalog.yaml
replay:
  enabled: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, int64(42), cfg.Game.Seed)
	assert.Equal(t, "snowing", cfg.Game.Weather)
	assert.True(t, cfg.Game.ShuffleOnReturn)
	assert.Equal(t, 10, cfg.Game.MaxTurns)
	assert.Equal(t, []PlayerConfig{{Name: "Ada", Class: "wiseman"}, {Name: "Bo", Class: "paladin"}}, cfg.Game.Players)
	assert.Equal(t, SourceFile, cfg.Catalog.Source)
	assert.Equal(t, "content/catalog.yaml", cfg.Catalog.Path)
	assert.False(t, cfg.Replay.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("WANDERDECK_GAME_SEED", "7")
	t.Setenv("WANDERDECK_LOGGING_LEVEL", "warn")
	t.Setenv("WANDERDECK_REPLAY_DIRECTORY", "/tmp/replays")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.Game.Seed)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "/tmp/replays", cfg.Replay.Directory)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"level", "logging:\n  level: loud\n"},
		{"format", "logging:\n  format: xml\n"},
		{"class", "game:\n  players:\n    - name: Ada\n      class: bard\n"},
		{"player name", "game:\n  players:\n    - class: knight\n"},
		{"max turns", "game:\n  max_turns: 0\n"},
		{"source", "catalog:\n  source: s3\n"},
		{"file path", "catalog:\n  source: file\n"},
		{"database url", "catalog:\n  source: postgres\n"},
		{"replay dir", "replay:\n  directory: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}
}

func TestLoadAcceptsEveryClass(t *testing.T) {
	for _, class := range model.Classes {
		t.Run(string(class), func(t *testing.T) {
			body := fmt.Sprintf("game:\n  players:\n    - name: Ada\n      class: %s\n", class)
			cfg, err := Load(writeConfig(t, body))
			require.NoError(t, err)
			assert.Equal(t, string(class), cfg.Game.Players[0].Class)
		})
	}
}

func TestLoadMalformedFile(t *testing.T) {
	_, err := Load(writeConfig(t, "logging: [\n"))
	require.Error(t, err)
}

func TestLoadSampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "simulate.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.Game.MaxTurns)
	assert.Equal(t, "sunny", cfg.Game.Weather)
	require.Len(t, cfg.Game.Players, 2)
	assert.Equal(t, "wiseman", cfg.Game.Players[1].Class)
	assert.Equal(t, SourceBuiltin, cfg.Catalog.Source)
}
