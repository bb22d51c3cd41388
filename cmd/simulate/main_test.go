package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wanderdeck/engine/internal/catalog"
	"github.com/wanderdeck/engine/internal/config"
	"github.com/wanderdeck/engine/internal/game"
)

func TestPlayGame(t *testing.T) {
	dir := t.TempDir()
	recorder := game.NewReplayRecorder(zap.NewNop(), dir)
	engine := game.NewEngine(zap.NewNop(), recorder)

	cfg := config.GameConfig{
		Players:  []config.PlayerConfig{{Name: "Ada", Class: "knight"}, {Name: "Bo", Class: "wiseman"}},
		Weather:  "sunny",
		MaxTurns: 30,
	}

	stats := attachStats(engine, cfg.Players)
	result, err := playGame(engine, stats, catalog.Builtin(), cfg, 11, zap.NewNop())
	require.NoError(t, err)
	assert.NotEmpty(t, result.GameID)
	assert.LessOrEqual(t, result.Turns, 30)
	assert.NotEmpty(t, result.Reason)
	// every companion starts out as a charmed creature
	assert.LessOrEqual(t, result.CompanionsLost, result.Charmed)

	replay, err := game.LoadReplayFromFile(dir, result.GameID)
	require.NoError(t, err)
	assert.Greater(t, replay.Size(), 1)
	require.NoError(t, replay.Verify())
}

func TestPlayGameIsReproducible(t *testing.T) {
	cfg := config.GameConfig{
		Players:         []config.PlayerConfig{{Name: "Ada", Class: "assassin"}},
		ShuffleOnReturn: true,
		MaxTurns:        15,
	}

	run := func() gameResult {
		engine := game.NewEngine(nil, nil)
		result, err := playGame(engine, attachStats(engine, cfg.Players), catalog.Builtin(), cfg, 5, zap.NewNop())
		require.NoError(t, err)
		return result
	}

	a, b := run(), run()
	assert.Equal(t, a.Turns, b.Turns)
	assert.Equal(t, a.Reason, b.Reason)
	assert.Equal(t, a.Winner, b.Winner)
	assert.Equal(t, a.Charmed, b.Charmed)
	assert.Equal(t, a.CompanionsLost, b.CompanionsLost)
}

func TestPlayGameStatsResetBetweenGames(t *testing.T) {
	cfg := config.GameConfig{
		Players:  []config.PlayerConfig{{Name: "Ada", Class: "knight"}, {Name: "Bo", Class: "paladin"}},
		MaxTurns: 20,
	}

	single := game.NewEngine(nil, nil)
	want, err := playGame(single, attachStats(single, cfg.Players), catalog.Builtin(), cfg, 9, zap.NewNop())
	require.NoError(t, err)

	shared := game.NewEngine(nil, nil)
	stats := attachStats(shared, cfg.Players)
	first, err := playGame(shared, stats, catalog.Builtin(), cfg, 9, zap.NewNop())
	require.NoError(t, err)
	second, err := playGame(shared, stats, catalog.Builtin(), cfg, 9, zap.NewNop())
	require.NoError(t, err)

	assert.NotEqual(t, first.GameID, second.GameID)
	for _, got := range []gameResult{first, second} {
		assert.Equal(t, want.Charmed, got.Charmed)
		assert.Equal(t, want.CompanionsLost, got.CompanionsLost)
	}
}

func TestSummarizeReadsPlayerWatchers(t *testing.T) {
	engine := game.NewEngine(nil, nil)
	players := []config.PlayerConfig{{Name: "Ada", Class: "knight"}, {Name: "Bo", Class: "wiseman"}}
	stats := attachStats(engine, players)

	var result gameResult
	lines := summarize(stats, &result)
	require.Len(t, lines, 2)
	assert.Equal(t, "p1", lines[0].PlayerID)
	assert.Equal(t, "p2", lines[1].PlayerID)
	assert.Zero(t, result.Charmed)
	assert.Zero(t, result.CompanionsLost)
}

func TestPlayGameUnknownClass(t *testing.T) {
	cfg := config.GameConfig{Players: []config.PlayerConfig{{Name: "Ada", Class: "bard"}}, MaxTurns: 1}
	engine := game.NewEngine(nil, nil)
	_, err := playGame(engine, attachStats(engine, cfg.Players), catalog.Builtin(), cfg, 1, zap.NewNop())
	require.ErrorIs(t, err, catalog.ErrUnknownClass)
}

func TestInitLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		logger, err := initLogger(config.LoggingConfig{Level: "debug", Format: format})
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zap.DebugLevel))
	}
}
