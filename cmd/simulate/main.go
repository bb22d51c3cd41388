package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wanderdeck/engine/internal/catalog"
	"github.com/wanderdeck/engine/internal/config"
	"github.com/wanderdeck/engine/internal/game"
	"github.com/wanderdeck/engine/internal/game/deck"
	"github.com/wanderdeck/engine/internal/game/dice"
	"github.com/wanderdeck/engine/internal/game/model"
	"github.com/wanderdeck/engine/internal/game/rules"
)

var (
	configPath = flag.String("config", "config/simulate.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting simulator",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalog(ctx, cfg.Catalog, logger)
	if err != nil {
		logger.Fatal("failed to load catalog", zap.Error(err))
	}

	var recorder *game.ReplayRecorder
	if cfg.Replay.Enabled {
		recorder = game.NewReplayRecorder(logger, cfg.Replay.Directory)
	}
	engine := game.NewEngine(logger, recorder)
	stats := attachStats(engine, cfg.Game.Players)

	seed := cfg.Game.Seed
	if seed == 0 {
		if seed, err = dice.NewSeed(); err != nil {
			logger.Fatal("failed to draw seed", zap.Error(err))
		}
	}

	for i := 0; i < cfg.Game.Games; i++ {
		if ctx.Err() != nil {
			logger.Info("interrupted", zap.Int("games_played", i))
			return
		}
		result, err := playGame(engine, stats, cat, cfg.Game, seed+int64(i), logger)
		if err != nil {
			logger.Error("game failed", zap.Int64("seed", seed+int64(i)), zap.Error(err))
			continue
		}
		logger.Info("game finished",
			zap.String("game_id", result.GameID),
			zap.Int64("seed", result.Seed),
			zap.Int("turns", result.Turns),
			zap.String("reason", result.Reason),
			zap.String("winner", result.Winner),
			zap.Int("charmed", result.Charmed),
			zap.Int("companions_lost", result.CompanionsLost),
		)
	}
}

func loadCatalog(ctx context.Context, cfg config.CatalogConfig, logger *zap.Logger) (*catalog.Catalog, error) {
	switch cfg.Source {
	case config.SourceFile:
		return catalog.LoadFile(cfg.Path)
	case config.SourcePostgres:
		store, err := catalog.NewPostgresStore(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Load(ctx)
	default:
		return catalog.Builtin(), nil
	}
}

// gameResult summarizes one autoplayed game.
type gameResult struct {
	GameID string
	Seed   int64
	Turns  int
	Reason string
	Winner string

	Charmed        int
	CompanionsLost int
}

// playGame runs start, draw, resolve and end turns until the deck runs out,
// a player drops to zero HP or the turn limit is hit.
func playGame(engine *game.Engine, stats *rules.WatcherRegistry, cat *catalog.Catalog, cfg config.GameConfig, seed int64, logger *zap.Logger) (gameResult, error) {
	rng := dice.NewRng(seed)

	players := make([]*model.Player, 0, len(cfg.Players))
	for i, pc := range cfg.Players {
		def, err := cat.Class(model.ClassID(pc.Class))
		if err != nil {
			return gameResult{}, err
		}
		players = append(players, catalog.NewPlayer(seatID(i), pc.Name, def))
	}

	var weather *model.WeatherCard
	if cfg.Weather != "" {
		w, err := cat.WeatherCard(model.WeatherID(cfg.Weather))
		if err != nil {
			return gameResult{}, err
		}
		weather = w
	}

	encounters, err := cat.BuildEncounterDeck(rng)
	if err != nil {
		return gameResult{}, fmt.Errorf("build encounter deck: %w", err)
	}

	stats.ResetWatchers()
	gameID, snap, err := engine.StartGame(game.Setup{
		Players:         players,
		EncounterDeck:   encounters,
		TreasureDeck:    deck.Shuffle(cat.TreasureDeck(), rng),
		Weather:         weather,
		Seed:            seed,
		ShuffleOnReturn: cfg.ShuffleOnReturn,
	})
	if err != nil {
		return gameResult{}, err
	}

	stats.SetGameID(gameID)

	result := gameResult{GameID: gameID, Seed: seed, Reason: "max turns reached"}
	for result.Turns < cfg.MaxTurns {
		result.Turns++
		activeID := snap.ActivePlayerID

		if snap, err = autoplayTurn(engine, gameID, activeID, logger); err != nil {
			if errors.Is(err, game.ErrDeckExhausted) {
				result.Reason = "encounter deck exhausted"
				break
			}
			return result, err
		}
		if downed := downedPlayer(snap); downed != "" {
			result.Reason = fmt.Sprintf("%s fell", downed)
			break
		}
	}

	if snap, err = engine.Snapshot(gameID); err != nil {
		return result, err
	}
	result.Winner = leader(snap)
	logSummary(logger, gameID, summarize(stats, &result))
	if err := engine.EndGame(gameID, result.Winner); err != nil {
		return result, err
	}
	return result, nil
}

func autoplayTurn(engine *game.Engine, gameID, playerID string, logger *zap.Logger) (game.Snapshot, error) {
	snap, err := engine.StartTurn(gameID, playerID)
	if err != nil {
		return snap, err
	}

	if snap, err = prepare(engine, gameID, playerID, snap); err != nil {
		return snap, err
	}

	if snap, err = engine.DrawEncounter(gameID, playerID); err != nil {
		return snap, err
	}

	player := findPlayer(snap, playerID)
	intention, ok := chooseIntention(player, snap.ActiveEncounter)
	if !ok {
		return snap, fmt.Errorf("encounter %s offers no intention", snap.ActiveEncounter.ID)
	}

	snap, outcome, err := engine.ResolveEncounter(gameID, playerID, intention)
	if err != nil {
		return snap, err
	}
	logger.Info("encounter resolved",
		zap.String("game_id", gameID),
		zap.String("player_id", playerID),
		zap.String("intention", string(outcome.Intention)),
		zap.Int("total", outcome.Total),
		zap.Int("target", outcome.Target),
		zap.Bool("success", outcome.Success),
		zap.Int("damage_taken", outcome.DamageTaken),
		zap.Bool("companion_died", outcome.CompanionDied),
	)

	return engine.EndTurn(gameID, playerID)
}

// prepare equips gear, drinks single-use items and fields the strongest
// creature before drawing.
func prepare(engine *game.Engine, gameID, playerID string, snap game.Snapshot) (game.Snapshot, error) {
	player := findPlayer(snap, playerID)
	for _, item := range player.Inventory {
		var err error
		switch item.TreasureKind {
		case model.TreasureWeapon:
			if player.EquippedWeapon == nil {
				snap, err = engine.Equip(gameID, playerID, item.ID)
			}
		case model.TreasureClothing:
			if player.WornClothing == nil {
				snap, err = engine.Equip(gameID, playerID, item.ID)
			}
		case model.TreasureSingleUse:
			snap, err = engine.Prepare(gameID, playerID, game.PrepAction{Kind: game.PrepUse, TargetID: item.ID})
		}
		if err != nil {
			return snap, err
		}
		player = findPlayer(snap, playerID)
	}

	if best := strongestCreature(player); best != nil && best != player.Companion {
		return engine.Prepare(gameID, playerID, game.PrepAction{Kind: game.PrepAssignCompanion, TargetID: best.ID})
	}
	return snap, nil
}

func findPlayer(snap game.Snapshot, id string) *model.Player {
	for _, p := range snap.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func downedPlayer(snap game.Snapshot) string {
	for _, p := range snap.Players {
		if p.HP == 0 {
			return p.ID
		}
	}
	return ""
}

// leader is the standing player with the most coin.
func leader(snap game.Snapshot) string {
	best := ""
	coin := -1
	for _, p := range snap.Players {
		if p.HP > 0 && p.Coin > coin {
			best, coin = p.ID, p.Coin
		}
	}
	return best
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
