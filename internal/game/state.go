// Package game holds the immutable game-state aggregate, the encounter
// resolver, and the Engine host that owns the latest state of each running
// game.
package game

import (
	"fmt"

	"github.com/wanderdeck/engine/internal/game/deck"
	"github.com/wanderdeck/engine/internal/game/dice"
	"github.com/wanderdeck/engine/internal/game/effects"
	"github.com/wanderdeck/engine/internal/game/inventory"
	"github.com/wanderdeck/engine/internal/game/model"
	"github.com/wanderdeck/engine/internal/game/rules"
)

// EncounterShuffler reorders the encounter deck after a card is returned.
type EncounterShuffler = deck.Shuffler[*model.EncounterCard]

// Init is the game-initialization payload. Exactly one of EncounterDeck or
// EncounterDeckSpec is normally set; a spec is expanded and shuffled with Rng.
type Init struct {
	Players           []*model.Player
	EncounterDeck     []*model.EncounterCard
	EncounterDeckSpec []deck.Entry[*model.EncounterCard]
	TreasureDeck      []*model.TreasureCard
	Weather           *model.WeatherCard

	// Shuffler defaults to the identity: returned encounters go to the
	// bottom of the deck in a stable order.
	Shuffler EncounterShuffler
	// Rng is used only for the initial shuffle of EncounterDeckSpec.
	Rng dice.Rng
}

// GameState is an immutable snapshot of a game. Every transition returns a
// new *GameState and leaves the receiver untouched; on error the returned
// state is nil.
type GameState struct {
	players         []*model.Player
	turn            rules.TurnManager
	weather         *model.WeatherCard
	activeEncounter *model.EncounterCard
	encounterDeck   []*model.EncounterCard
	graveyard       []*model.EncounterCard
	treasureDeck    []*model.TreasureCard
	shuffler        EncounterShuffler
}

// NewGameState builds the initial state. Turn order is the order of
// init.Players.
func NewGameState(init Init) (*GameState, error) {
	if len(init.Players) == 0 {
		return nil, ErrNoPlayers
	}

	order := make([]string, 0, len(init.Players))
	for _, p := range init.Players {
		if p == nil {
			return nil, fmt.Errorf("%w: nil player", ErrPlayerNotFound)
		}
		order = append(order, p.ID)
	}
	turn, err := rules.NewTurnManager(order)
	if err != nil {
		return nil, fmt.Errorf("create turn manager: %w", err)
	}

	encounters := append([]*model.EncounterCard(nil), init.EncounterDeck...)
	if init.EncounterDeck == nil && len(init.EncounterDeckSpec) > 0 {
		if init.Rng == nil {
			return nil, ErrMissingRng
		}
		built, err := deck.Build(init.EncounterDeckSpec)
		if err != nil {
			return nil, fmt.Errorf("build encounter deck: %w", err)
		}
		encounters = deck.Shuffle(built, init.Rng)
	}

	shuffler := init.Shuffler
	if shuffler == nil {
		shuffler = deck.Identity[*model.EncounterCard]
	}

	return &GameState{
		players:       append([]*model.Player(nil), init.Players...),
		turn:          turn,
		weather:       init.Weather,
		encounterDeck: encounters,
		treasureDeck:  append([]*model.TreasureCard(nil), init.TreasureDeck...),
		shuffler:      shuffler,
	}, nil
}

// Snapshot is the read-only projection handed to presentation layers.
type Snapshot struct {
	Players         []*model.Player
	ActivePlayerID  string
	Phase           rules.Phase
	Weather         *model.WeatherCard
	ActiveEncounter *model.EncounterCard

	DeckSize         int
	TreasureDeckSize int
	Graveyard        []string
}

// Snapshot projects the state for external consumers.
func (s *GameState) Snapshot() Snapshot {
	graveyard := make([]string, 0, len(s.graveyard))
	for _, card := range s.graveyard {
		graveyard = append(graveyard, card.ID)
	}
	return Snapshot{
		Players:          append([]*model.Player(nil), s.players...),
		ActivePlayerID:   s.turn.CurrentPlayerID(),
		Phase:            s.turn.Phase(),
		Weather:          s.weather,
		ActiveEncounter:  s.activeEncounter,
		DeckSize:         len(s.encounterDeck),
		TreasureDeckSize: len(s.treasureDeck),
		Graveyard:        graveyard,
	}
}

// ActivePlayerID returns the id of the player whose turn it is.
func (s *GameState) ActivePlayerID() string { return s.turn.CurrentPlayerID() }

// Phase returns the current turn phase.
func (s *GameState) Phase() rules.Phase { return s.turn.Phase() }

// HasActiveEncounter reports whether an encounter occupies the active slot.
func (s *GameState) HasActiveEncounter() bool { return s.activeEncounter != nil }

// ActiveEncounter returns the encounter being faced, or nil.
func (s *GameState) ActiveEncounter() *model.EncounterCard { return s.activeEncounter }

// Weather returns the current weather card, or nil.
func (s *GameState) Weather() *model.WeatherCard { return s.weather }

// Turn returns the turn manager's plain state.
func (s *GameState) Turn() rules.TurnState { return s.turn.Snapshot() }

// DeckSize returns the number of encounters left to draw.
func (s *GameState) DeckSize() int { return len(s.encounterDeck) }

// Deck returns the encounter deck, top first.
func (s *GameState) Deck() []*model.EncounterCard {
	return append([]*model.EncounterCard(nil), s.encounterDeck...)
}

// Graveyard returns defeated encounters in the order they were defeated.
func (s *GameState) Graveyard() []*model.EncounterCard {
	return append([]*model.EncounterCard(nil), s.graveyard...)
}

// TreasureDeckSize returns the number of treasure cards left.
func (s *GameState) TreasureDeckSize() int { return len(s.treasureDeck) }

// Players returns the roster in turn order.
func (s *GameState) Players() []*model.Player {
	return append([]*model.Player(nil), s.players...)
}

// Player returns the player with id.
func (s *GameState) Player(id string) (*model.Player, error) {
	for _, p := range s.players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
}

// ActivePlayer returns the player whose turn it is.
func (s *GameState) ActivePlayer() (*model.Player, error) {
	return s.Player(s.ActivePlayerID())
}

// SetWeather replaces the weather card.
func (s *GameState) SetWeather(weather *model.WeatherCard) *GameState {
	return s.with(func(next *GameState) { next.weather = weather })
}

// UpdatePlayer replaces the roster entry with the same id.
func (s *GameState) UpdatePlayer(updated *model.Player) (*GameState, error) {
	if updated == nil {
		return nil, fmt.Errorf("%w: nil player", ErrPlayerNotFound)
	}
	idx := -1
	for i, p := range s.players {
		if p.ID == updated.ID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, updated.ID)
	}
	players := append([]*model.Player(nil), s.players...)
	players[idx] = updated
	return s.with(func(next *GameState) { next.players = players }), nil
}

// DrawEncounter moves the top of the deck into the active slot and enters
// the encounter phase. An empty deck is reported as ErrDeckExhausted.
func (s *GameState) DrawEncounter() (*GameState, error) {
	if err := s.require("draw encounter", rules.PhasePreparation, false); err != nil {
		return nil, err
	}
	if len(s.encounterDeck) == 0 {
		return nil, ErrDeckExhausted
	}
	top := s.encounterDeck[0]
	rest := append([]*model.EncounterCard(nil), s.encounterDeck[1:]...)
	return s.with(func(next *GameState) {
		next.activeEncounter = top
		next.encounterDeck = rest
		next.turn = s.turn.NextPhase()
	}), nil
}

// ResolveEncounterToGraveyard defeats the active encounter.
func (s *GameState) ResolveEncounterToGraveyard() (*GameState, error) {
	if err := s.require("resolve encounter", rules.PhaseEncounter, true); err != nil {
		return nil, err
	}
	graveyard := make([]*model.EncounterCard, 0, len(s.graveyard)+1)
	graveyard = append(append(graveyard, s.graveyard...), s.activeEncounter)
	return s.with(func(next *GameState) {
		next.activeEncounter = nil
		next.graveyard = graveyard
		next.turn = s.turn.NextPhase()
	}), nil
}

// ResolveEncounterAndShuffleBack returns the active encounter to the deck and
// applies the configured shuffler.
func (s *GameState) ResolveEncounterAndShuffleBack() (*GameState, error) {
	if err := s.require("resolve encounter", rules.PhaseEncounter, true); err != nil {
		return nil, err
	}
	returned := make([]*model.EncounterCard, 0, len(s.encounterDeck)+1)
	returned = append(append(returned, s.encounterDeck...), s.activeEncounter)
	shuffled := append([]*model.EncounterCard(nil), s.shuffler(returned)...)
	return s.with(func(next *GameState) {
		next.activeEncounter = nil
		next.encounterDeck = shuffled
		next.turn = s.turn.NextPhase()
	}), nil
}

// ResolveEncounterCleared discards the active encounter without sending it
// anywhere; a charmed creature lives on in the player's dock instead.
func (s *GameState) ResolveEncounterCleared() (*GameState, error) {
	if err := s.require("resolve encounter", rules.PhaseEncounter, true); err != nil {
		return nil, err
	}
	return s.with(func(next *GameState) {
		next.activeEncounter = nil
		next.turn = s.turn.NextPhase()
	}), nil
}

// StartTurn applies the weather's turn-start effects and then the fielded
// companion's to the active player. It returns the receiver itself when
// nothing changed, which callers may rely on to skip redundant work.
func (s *GameState) StartTurn() (*GameState, error) {
	if err := s.require("start turn", rules.PhasePreparation, false); err != nil {
		return nil, err
	}
	active, err := s.ActivePlayer()
	if err != nil {
		return nil, err
	}
	updated, err := effects.ApplyWeatherTurnStart(active, s.weather)
	if err != nil {
		return nil, fmt.Errorf("apply weather: %w", err)
	}
	if updated, err = effects.ApplyCompanionTurnStart(updated); err != nil {
		return nil, fmt.Errorf("apply companion: %w", err)
	}
	if updated == active {
		return s, nil
	}
	return s.UpdatePlayer(updated)
}

// EndTurn hands the turn to the next player.
func (s *GameState) EndTurn() (*GameState, error) {
	if err := s.require("end turn", rules.PhaseResolution, false); err != nil {
		return nil, err
	}
	return s.with(func(next *GameState) { next.turn = s.turn.NextTurn() }), nil
}

// EquipWeaponFromInventory equips weaponID and applies the weapon's once
// effects. It returns the receiver when nothing was equipped.
func (s *GameState) EquipWeaponFromInventory(weaponID string) (*GameState, error) {
	return s.prepare("equip weapon", func(p *model.Player) (*model.Player, error) {
		equipped := inventory.EquipWeapon(p, weaponID)
		if equipped == p || equipped.EquippedWeapon == nil {
			return p, nil
		}
		w := equipped.EquippedWeapon
		return effects.ApplyOnce(equipped, w.Effects, w.Conditionals)
	})
}

// EquipClothingFromInventory equips clothingID and applies its once effects.
func (s *GameState) EquipClothingFromInventory(clothingID string) (*GameState, error) {
	return s.prepare("equip clothing", func(p *model.Player) (*model.Player, error) {
		equipped := inventory.EquipClothing(p, clothingID)
		if equipped == p || equipped.WornClothing == nil {
			return p, nil
		}
		c := equipped.WornClothing
		return effects.ApplyOnce(equipped, c.Effects, c.Conditionals)
	})
}

// UnequipWeapon returns the equipped weapon to the inventory. Effects already
// applied on equip are not reverted.
func (s *GameState) UnequipWeapon() (*GameState, error) {
	return s.prepare("unequip weapon", func(p *model.Player) (*model.Player, error) {
		return inventory.UnequipWeapon(p), nil
	})
}

// UnequipClothing returns the worn clothing to the inventory.
func (s *GameState) UnequipClothing() (*GameState, error) {
	return s.prepare("unequip clothing", func(p *model.Player) (*model.Player, error) {
		return inventory.UnequipClothing(p), nil
	})
}

// UseItem consumes a single-use item from the inventory, applying its once
// effects. Other treasure kinds are left alone.
func (s *GameState) UseItem(itemID string) (*GameState, error) {
	return s.prepare("use item", func(p *model.Player) (*model.Player, error) {
		item, _ := p.FindItem(itemID)
		if item == nil || item.TreasureKind != model.TreasureSingleUse {
			return p, nil
		}
		return effects.ApplyOnce(inventory.RemoveItem(p, itemID), item.Effects, item.Conditionals)
	})
}

// SellItem removes itemID from the inventory for its sell value.
func (s *GameState) SellItem(itemID string) (*GameState, error) {
	return s.prepare("sell item", func(p *model.Player) (*model.Player, error) {
		item, _ := p.FindItem(itemID)
		if item == nil {
			return p, nil
		}
		next := inventory.RemoveItem(p, itemID).Clone()
		next.Coin += item.SellValue
		return next, nil
	})
}

// BuyItem pays the card's merchant price and adds it to the inventory.
func (s *GameState) BuyItem(item *model.TreasureCard) (*GameState, error) {
	return s.prepare("buy item", func(p *model.Player) (*model.Player, error) {
		if item == nil {
			return p, nil
		}
		if p.Coin < item.MerchantPrice {
			return nil, fmt.Errorf("%w: %s costs %d, have %d", ErrInsufficientCoin, item.ID, item.MerchantPrice, p.Coin)
		}
		next := inventory.AddItem(p, item).Clone()
		next.Coin -= item.MerchantPrice
		return next, nil
	})
}

// AssignCompanion fields a creature from the active player's dock.
func (s *GameState) AssignCompanion(creatureID string) (*GameState, error) {
	return s.prepare("assign companion", func(p *model.Player) (*model.Player, error) {
		return inventory.AssignCompanion(p, creatureID), nil
	})
}

// RemoveCompanion benches the active player's companion.
func (s *GameState) RemoveCompanion() (*GameState, error) {
	return s.prepare("remove companion", func(p *model.Player) (*model.Player, error) {
		return inventory.RemoveCompanion(p), nil
	})
}

// ReleaseCreature removes a creature from the active player's dock.
func (s *GameState) ReleaseCreature(creatureID string) (*GameState, error) {
	return s.prepare("release creature", func(p *model.Player) (*model.Player, error) {
		return inventory.ReleaseCreature(p, creatureID), nil
	})
}

// prepare runs a preparation-phase transform on the active player. The
// receiver is returned when fn leaves the player unchanged.
func (s *GameState) prepare(action string, fn func(*model.Player) (*model.Player, error)) (*GameState, error) {
	if err := s.require(action, rules.PhasePreparation, false); err != nil {
		return nil, err
	}
	active, err := s.ActivePlayer()
	if err != nil {
		return nil, err
	}
	updated, err := fn(active)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	if updated == active {
		return s, nil
	}
	return s.UpdatePlayer(updated)
}

// drawTreasure pops up to n cards from the treasure deck.
func (s *GameState) drawTreasure(n int) ([]*model.TreasureCard, *GameState) {
	if n <= 0 || len(s.treasureDeck) == 0 {
		return nil, s
	}
	if n > len(s.treasureDeck) {
		n = len(s.treasureDeck)
	}
	drawn := append([]*model.TreasureCard(nil), s.treasureDeck[:n]...)
	rest := append([]*model.TreasureCard(nil), s.treasureDeck[n:]...)
	return drawn, s.with(func(next *GameState) { next.treasureDeck = rest })
}

func (s *GameState) require(action string, phase rules.Phase, wantEncounter bool) error {
	if s.turn.Phase() != phase {
		return fmt.Errorf("%w: cannot %s during %s (requires %s)", ErrWrongPhase, action, s.turn.Phase(), phase)
	}
	if wantEncounter && s.activeEncounter == nil {
		return fmt.Errorf("%w: cannot %s", ErrNoActiveEncounter, action)
	}
	if !wantEncounter && s.activeEncounter != nil {
		return fmt.Errorf("%w: cannot %s", ErrEncounterActive, action)
	}
	return nil
}

// with copies the receiver, lets fn override fields, and returns the copy.
func (s *GameState) with(fn func(next *GameState)) *GameState {
	next := *s
	fn(&next)
	return &next
}
