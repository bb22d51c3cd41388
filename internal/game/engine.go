package game

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wanderdeck/engine/internal/game/deck"
	"github.com/wanderdeck/engine/internal/game/dice"
	"github.com/wanderdeck/engine/internal/game/model"
	"github.com/wanderdeck/engine/internal/game/rules"
)

// Setup describes a game to start. A zero Seed draws a fresh one.
type Setup struct {
	Players           []*model.Player
	EncounterDeck     []*model.EncounterCard
	EncounterDeckSpec []deck.Entry[*model.EncounterCard]
	TreasureDeck      []*model.TreasureCard
	Weather           *model.WeatherCard
	Seed              int64

	// ShuffleOnReturn shuffles the deck with the session rng whenever an
	// encounter goes back into it. Off, returned cards go to the bottom.
	ShuffleOnReturn bool
}

// FrameGameStarted labels the first replay frame, recorded before any
// player acts.
const FrameGameStarted rules.ActionKind = "gameStarted"

// PrepKind names a preparation-phase action for Engine.Prepare.
type PrepKind string

const (
	PrepSell            PrepKind = "sell"
	PrepBuy             PrepKind = "buy"
	PrepUse             PrepKind = "use"
	PrepUnequipWeapon   PrepKind = "unequipWeapon"
	PrepUnequipClothing PrepKind = "unequipClothing"
	PrepAssignCompanion PrepKind = "assignCompanion"
	PrepRemoveCompanion PrepKind = "removeCompanion"
	PrepReleaseCreature PrepKind = "releaseCreature"
)

// PrepAction is a preparation request. TargetID names the inventory item or
// dock creature; Item is the card being bought.
type PrepAction struct {
	Kind     PrepKind
	TargetID string
	Item     *model.TreasureCard
}

func (a PrepAction) permission() (rules.ActionKind, error) {
	switch a.Kind {
	case PrepSell:
		return rules.ActionSellItem, nil
	case PrepBuy:
		return rules.ActionShop, nil
	case PrepUse:
		return rules.ActionUseItem, nil
	case PrepUnequipWeapon, PrepUnequipClothing:
		return rules.ActionEquipItem, nil
	case PrepAssignCompanion, PrepRemoveCompanion, PrepReleaseCreature:
		return rules.ActionAssignCompanion, nil
	default:
		return "", fmt.Errorf("unknown preparation action %q", a.Kind)
	}
}

func (a PrepAction) apply(state *GameState) (*GameState, error) {
	switch a.Kind {
	case PrepSell:
		return state.SellItem(a.TargetID)
	case PrepBuy:
		return state.BuyItem(a.Item)
	case PrepUse:
		return state.UseItem(a.TargetID)
	case PrepUnequipWeapon:
		return state.UnequipWeapon()
	case PrepUnequipClothing:
		return state.UnequipClothing()
	case PrepAssignCompanion:
		return state.AssignCompanion(a.TargetID)
	case PrepRemoveCompanion:
		return state.RemoveCompanion()
	case PrepReleaseCreature:
		return state.ReleaseCreature(a.TargetID)
	default:
		return nil, fmt.Errorf("unknown preparation action %q", a.Kind)
	}
}

// Engine hosts running games. Each game's latest GameState lives in a
// session; transitions are computed on the immutable state and the session
// pointer is swapped only when they succeed.
type Engine struct {
	logger   *zap.Logger
	recorder *ReplayRecorder
	events   *rules.EventBus

	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	mu    sync.Mutex
	state *GameState
	rng   dice.Rng
	seed  int64
}

// NewEngine creates an engine. recorder may be nil to disable replays.
func NewEngine(logger *zap.Logger, recorder *ReplayRecorder) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		logger:   logger,
		recorder: recorder,
		events:   rules.NewEventBus(),
		sessions: make(map[string]*session),
	}
}

// Events returns the bus committed actions are published on. Listeners run
// after the game's lock is released and may call back into the engine.
func (e *Engine) Events() *rules.EventBus {
	return e.events
}

// StartGame builds the initial state and returns the new game's id.
func (e *Engine) StartGame(setup Setup) (string, Snapshot, error) {
	seed := setup.Seed
	if seed == 0 {
		var err error
		if seed, err = dice.NewSeed(); err != nil {
			return "", Snapshot{}, err
		}
	}
	rng := dice.NewRng(seed)

	var shuffler EncounterShuffler
	if setup.ShuffleOnReturn {
		shuffler = deck.NewShuffler[*model.EncounterCard](rng)
	}

	state, err := NewGameState(Init{
		Players:           setup.Players,
		EncounterDeck:     setup.EncounterDeck,
		EncounterDeckSpec: setup.EncounterDeckSpec,
		TreasureDeck:      setup.TreasureDeck,
		Weather:           setup.Weather,
		Shuffler:          shuffler,
		Rng:               rng,
	})
	if err != nil {
		return "", Snapshot{}, fmt.Errorf("start game: %w", err)
	}

	gameID := uuid.NewString()
	e.mu.Lock()
	e.sessions[gameID] = &session{state: state, rng: rng, seed: seed}
	e.mu.Unlock()

	snapshot := state.Snapshot()
	if e.recorder != nil {
		e.recorder.StartRecording(gameID, seed)
		e.recorder.Record(gameID, FrameGameStarted, "", snapshot, nil)
	}

	e.logger.Info("game started",
		zap.String("game_id", gameID),
		zap.Int64("seed", seed),
		zap.Int("players", len(setup.Players)),
		zap.Int("deck_size", state.DeckSize()),
	)
	e.events.Publish(rules.NewEventWithAmount(rules.EventGameStarted, gameID, state.ActivePlayerID(), "", len(setup.Players)))
	return gameID, snapshot, nil
}

// Snapshot returns the current projection of a game.
func (e *Engine) Snapshot(gameID string) (Snapshot, error) {
	state, err := e.State(gameID)
	if err != nil {
		return Snapshot{}, err
	}
	return state.Snapshot(), nil
}

// State returns the latest immutable state of a game.
func (e *Engine) State(gameID string) (*GameState, error) {
	s, err := e.session(gameID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, nil
}

// StartTurn applies turn-start effects for the active player.
func (e *Engine) StartTurn(gameID, playerID string) (Snapshot, error) {
	snap, _, err := e.dispatch(gameID, playerID, rules.ActionStartTurn, func(s *session) (*GameState, *Outcome, error) {
		next, err := s.state.StartTurn()
		return next, nil, err
	})
	return snap, err
}

// DrawEncounter draws the top encounter for the active player.
func (e *Engine) DrawEncounter(gameID, playerID string) (Snapshot, error) {
	snap, _, err := e.dispatch(gameID, playerID, rules.ActionDrawEncounter, func(s *session) (*GameState, *Outcome, error) {
		next, err := s.state.DrawEncounter()
		return next, nil, err
	})
	return snap, err
}

// ResolveEncounter resolves the active encounter with the session's rng.
func (e *Engine) ResolveEncounter(gameID, playerID string, intention model.Intention) (Snapshot, Outcome, error) {
	snap, outcome, err := e.dispatch(gameID, playerID, rules.ActionResolveEncounter, func(s *session) (*GameState, *Outcome, error) {
		next, outcome, err := ResolveActiveEncounter(s.state, intention, s.rng)
		if err != nil {
			return nil, nil, err
		}
		return next, &outcome, nil
	})
	if err != nil {
		return Snapshot{}, Outcome{}, err
	}
	return snap, *outcome, nil
}

// EndTurn passes the turn to the next player.
func (e *Engine) EndTurn(gameID, playerID string) (Snapshot, error) {
	snap, _, err := e.dispatch(gameID, playerID, rules.ActionEndTurn, func(s *session) (*GameState, *Outcome, error) {
		next, err := s.state.EndTurn()
		return next, nil, err
	})
	return snap, err
}

// Equip equips an inventory weapon or clothing, picked by the card's kind.
func (e *Engine) Equip(gameID, playerID, itemID string) (Snapshot, error) {
	snap, _, err := e.dispatch(gameID, playerID, rules.ActionEquipItem, func(s *session) (*GameState, *Outcome, error) {
		player, err := s.state.ActivePlayer()
		if err != nil {
			return nil, nil, err
		}
		item, _ := player.FindItem(itemID)
		if item == nil {
			return s.state, nil, nil
		}
		var next *GameState
		switch item.TreasureKind {
		case model.TreasureWeapon:
			next, err = s.state.EquipWeaponFromInventory(itemID)
		case model.TreasureClothing:
			next, err = s.state.EquipClothingFromInventory(itemID)
		default:
			return nil, nil, fmt.Errorf("%s is not equippable", itemID)
		}
		return next, nil, err
	})
	return snap, err
}

// Prepare dispatches a preparation-phase action.
func (e *Engine) Prepare(gameID, playerID string, action PrepAction) (Snapshot, error) {
	kind, err := action.permission()
	if err != nil {
		return Snapshot{}, err
	}
	snap, _, err := e.dispatch(gameID, playerID, kind, func(s *session) (*GameState, *Outcome, error) {
		next, err := action.apply(s.state)
		return next, nil, err
	})
	return snap, err
}

// EndGame removes a game and flushes its replay.
func (e *Engine) EndGame(gameID, winner string) error {
	e.mu.Lock()
	_, ok := e.sessions[gameID]
	delete(e.sessions, gameID)
	e.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	e.logger.Info("game ended",
		zap.String("game_id", gameID),
		zap.String("winner", winner),
	)
	e.events.Publish(rules.NewEvent(rules.EventGameEnded, gameID, winner, ""))

	if e.recorder != nil && e.recorder.IsRecording(gameID) {
		if err := e.recorder.SaveReplay(gameID); err != nil {
			return fmt.Errorf("end game %s: %w", gameID, err)
		}
	}
	return nil
}

func (e *Engine) session(gameID string) (*session, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s, ok := e.sessions[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return s, nil
}

// dispatch gates action through the rules, runs fn under the session lock,
// and commits the new state. A denied or failed action leaves the session
// untouched. Events for a committed change are published once the lock is
// released.
func (e *Engine) dispatch(gameID, playerID string, action rules.ActionKind, fn func(*session) (*GameState, *Outcome, error)) (Snapshot, *Outcome, error) {
	s, err := e.session(gameID)
	if err != nil {
		return Snapshot{}, nil, err
	}

	snapshot, outcome, events, err := e.commit(s, gameID, playerID, action, fn)
	if err != nil {
		return Snapshot{}, nil, err
	}
	e.events.PublishBatch(events)
	return snapshot, outcome, nil
}

func (e *Engine) commit(s *session, gameID, playerID string, action rules.ActionKind, fn func(*session) (*GameState, *Outcome, error)) (Snapshot, *Outcome, []rules.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if decision := rules.Evaluate(playerID, action, s.state); !decision.Allowed {
		e.logger.Debug("action rejected",
			zap.String("game_id", gameID),
			zap.String("player_id", playerID),
			zap.String("action", string(action)),
			zap.String("reason", decision.Reason),
		)
		return Snapshot{}, nil, nil, fmt.Errorf("%w: %s: %s", ErrActionNotAllowed, action, decision.Reason)
	}

	next, outcome, err := fn(s)
	if err != nil {
		e.logger.Warn("action failed",
			zap.String("game_id", gameID),
			zap.String("player_id", playerID),
			zap.String("action", string(action)),
			zap.Error(err),
		)
		return Snapshot{}, nil, nil, err
	}

	if next == s.state {
		return next.Snapshot(), outcome, nil, nil
	}
	prev := s.state
	s.state = next

	snapshot := next.Snapshot()
	if e.recorder != nil {
		e.recorder.Record(gameID, action, playerID, snapshot, outcome)
	}

	fields := []zap.Field{
		zap.String("game_id", gameID),
		zap.String("player_id", playerID),
		zap.String("action", string(action)),
		zap.Stringer("phase", next.Phase()),
	}
	if outcome != nil {
		fields = append(fields,
			zap.String("intention", string(outcome.Intention)),
			zap.Int("total", outcome.Total),
			zap.Int("target", outcome.Target),
			zap.Bool("success", outcome.Success),
			zap.Int("damage_taken", outcome.DamageTaken),
		)
	}
	e.logger.Debug("action applied", fields...)
	return snapshot, outcome, actionEvents(gameID, playerID, action, prev, next, outcome), nil
}

// actionEvents describes a committed transition from prev to next.
func actionEvents(gameID, playerID string, action rules.ActionKind, prev, next *GameState, outcome *Outcome) []rules.Event {
	switch action {
	case rules.ActionStartTurn:
		return []rules.Event{rules.NewEvent(rules.EventTurnStarted, gameID, playerID, "")}
	case rules.ActionEndTurn:
		return []rules.Event{rules.NewEvent(rules.EventTurnEnded, gameID, playerID, next.ActivePlayerID())}
	case rules.ActionDrawEncounter:
		return []rules.Event{rules.NewEvent(rules.EventEncounterDrawn, gameID, playerID, next.ActiveEncounter().ID)}
	case rules.ActionResolveEncounter:
		return resolutionEvents(gameID, playerID, prev, outcome)
	default:
		evt := rules.NewEvent(rules.EventPlayerPrepared, gameID, playerID, "")
		evt.Data = string(action)
		return []rules.Event{evt}
	}
}

func resolutionEvents(gameID, playerID string, prev *GameState, outcome *Outcome) []rules.Event {
	if outcome == nil {
		return nil
	}
	encounter := prev.ActiveEncounter()
	resolved := rules.NewEventWithAmount(rules.EventEncounterResolved, gameID, playerID, encounter.ID, outcome.Total)
	resolved.Flag = outcome.Success
	resolved.Data = string(outcome.Intention)
	events := []rules.Event{resolved}

	if outcome.DamageTaken > 0 {
		events = append(events, rules.NewEventWithAmount(rules.EventDamageTaken, gameID, playerID, encounter.ID, outcome.DamageTaken))
	}
	if outcome.CompanionDied {
		if player, err := prev.ActivePlayer(); err == nil && player.Companion != nil {
			events = append(events, rules.NewEvent(rules.EventCompanionDied, gameID, playerID, player.Companion.ID))
		}
	}
	if outcome.Charmed != nil {
		events = append(events, rules.NewEvent(rules.EventCreatureCharmed, gameID, playerID, outcome.Charmed.ID))
	}
	if outcome.CoinGained != 0 {
		events = append(events, rules.NewEventWithAmount(rules.EventCoinGained, gameID, playerID, encounter.ID, outcome.CoinGained))
	}
	for _, item := range outcome.TreasureGained {
		events = append(events, rules.NewEvent(rules.EventTreasureGained, gameID, playerID, item.ID))
	}
	return events
}
