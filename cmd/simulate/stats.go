package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wanderdeck/engine/internal/config"
	"github.com/wanderdeck/engine/internal/game"
	"github.com/wanderdeck/engine/internal/game/rules"
	"github.com/wanderdeck/engine/internal/game/watchers"
)

func seatID(i int) string { return fmt.Sprintf("p%d", i+1) }

// attachStats registers the summary watchers on engine's event bus. The
// registry lives for the whole run and is reset before every game.
func attachStats(engine *game.Engine, players []config.PlayerConfig) *rules.WatcherRegistry {
	registry := rules.NewWatcherRegistry("")
	registry.AddWatcher(watchers.NewEncountersResolvedWatcher())
	registry.AddWatcher(watchers.NewCompanionsLostWatcher())
	registry.AddWatcher(watchers.NewCreaturesCharmedWatcher())
	for i := range players {
		registry.AddWatcher(watchers.NewDamageTakenWatcher(seatID(i)))
	}
	registry.Attach(engine.Events())
	return registry
}

// playerSummary is one player's line in the end-of-game report.
type playerSummary struct {
	PlayerID string
	Won      int
	Lost     int
	Damage   int
	Charmed  []string
}

// summarize reads a detached copy of the registry so late events from the
// engine cannot change the numbers while they are reported.
func summarize(stats *rules.WatcherRegistry, result *gameResult) []playerSummary {
	snapshot := stats.Copy()

	resolved, _ := snapshot.GetWatcher("EncountersResolvedWatcher").(*watchers.EncountersResolvedWatcher)
	charmed, _ := snapshot.GetWatcher("CreaturesCharmedWatcher").(*watchers.CreaturesCharmedWatcher)
	lost, _ := snapshot.GetWatcher("CompanionsLostWatcher").(*watchers.CompanionsLostWatcher)
	if charmed != nil {
		result.Charmed = charmed.Total()
	}
	if lost != nil && lost.ConditionMet() {
		result.CompanionsLost = lost.Total()
	}

	var out []playerSummary
	for _, w := range snapshot.GetWatchersByScope(rules.WatcherScopePlayer) {
		damage, ok := w.(*watchers.DamageTakenWatcher)
		if !ok {
			continue
		}
		line := playerSummary{PlayerID: damage.GetPlayerID(), Damage: damage.GetDamage()}
		if resolved != nil {
			rec := resolved.Record(line.PlayerID)
			line.Won, line.Lost = rec.Won, rec.Lost
		}
		if charmed != nil {
			line.Charmed = charmed.GetCharmed(line.PlayerID)
		}
		out = append(out, line)
	}
	return out
}

func logSummary(logger *zap.Logger, gameID string, lines []playerSummary) {
	for _, line := range lines {
		logger.Info("player summary",
			zap.String("game_id", gameID),
			zap.String("player_id", line.PlayerID),
			zap.Int("won", line.Won),
			zap.Int("lost", line.Lost),
			zap.Int("damage_taken", line.Damage),
			zap.Strings("charmed", line.Charmed),
		)
	}
}
