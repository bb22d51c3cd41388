package game

import (
	"fmt"
	"strconv"

	"github.com/wanderdeck/engine/internal/game/dice"
	"github.com/wanderdeck/engine/internal/game/effects"
	"github.com/wanderdeck/engine/internal/game/inventory"
	"github.com/wanderdeck/engine/internal/game/model"
	"github.com/wanderdeck/engine/internal/game/rules"
)

// Outcome records everything rolled and changed while resolving one
// encounter. The resulting GameState keeps no roll history, so this is the
// only record of what the dice showed.
type Outcome struct {
	Intention     model.Intention  `json:"intention"`
	PlayerRoll    dice.RollResult  `json:"player_roll"`
	CompanionRoll *dice.RollResult `json:"companion_roll,omitempty"`
	Total         int              `json:"total"`
	Target        int              `json:"target"`
	Success       bool             `json:"success"`

	// DefenseRoll is set when the encounter's defense is itself rolled.
	DefenseRoll *dice.RollResult `json:"defense_roll,omitempty"`

	EncounterAttackRoll *dice.RollResult `json:"encounter_attack_roll,omitempty"`
	DamageTaken         int              `json:"damage_taken,omitempty"`
	CompanionDied       bool             `json:"companion_died,omitempty"`

	CoinGained     int                   `json:"coin_gained,omitempty"`
	TreasureGained []*model.TreasureCard `json:"treasure_gained,omitempty"`
	Charmed        *model.Creature       `json:"charmed,omitempty"`
}

// ResolveActiveEncounter resolves the active encounter with intention and
// returns the next state with the outcome. Dice are rolled in a fixed order:
// encounter defense (when rolled), player pool, companion dice, then the
// counter-attack on failure.
func ResolveActiveEncounter(state *GameState, intention model.Intention, rng dice.Rng) (*GameState, Outcome, error) {
	if state == nil {
		return nil, Outcome{}, fmt.Errorf("%w: nil state", ErrNoActiveEncounter)
	}
	if rng == nil {
		return nil, Outcome{}, ErrMissingRng
	}
	if err := state.require("resolve encounter", rules.PhaseEncounter, true); err != nil {
		return nil, Outcome{}, err
	}
	encounter := state.activeEncounter
	player, err := state.ActivePlayer()
	if err != nil {
		return nil, Outcome{}, err
	}

	outcome := Outcome{Intention: intention}

	stat, err := intention.Stat()
	if err != nil {
		return nil, Outcome{}, err
	}
	if outcome.Target, outcome.DefenseRoll, err = resolveTarget(encounter, intention, rng); err != nil {
		return nil, Outcome{}, err
	}

	pool, _ := player.Stats.Get(stat)
	if outcome.PlayerRoll, err = dice.RollPool(pool, rng); err != nil {
		return nil, Outcome{}, fmt.Errorf("roll %s: %w", stat, err)
	}
	outcome.Total = outcome.PlayerRoll.Total

	if intention == model.IntentionAttack && player.Companion != nil {
		companion, err := dice.RollDice(player.Companion.AttackDice, rng)
		if err != nil {
			return nil, Outcome{}, fmt.Errorf("roll companion %s: %w", player.Companion.ID, err)
		}
		outcome.CompanionRoll = &companion
		outcome.Total += companion.Total
	}

	outcome.Success = outcome.Total >= outcome.Target

	var next *GameState
	switch {
	case !outcome.Success:
		next, err = resolveFailure(state, player, encounter, rng, &outcome)
	case intention == model.IntentionEscape:
		next, err = state.ResolveEncounterAndShuffleBack()
	case intention == model.IntentionCharm:
		next, err = resolveCharm(state, player, encounter, &outcome)
	default:
		next, err = resolveVictory(state, player, encounter, &outcome)
	}
	if err != nil {
		return nil, Outcome{}, err
	}
	return next, outcome, nil
}

func resolveTarget(encounter *model.EncounterCard, intention model.Intention, rng dice.Rng) (int, *dice.RollResult, error) {
	missing := fmt.Errorf("%w: %s has no %s target", ErrMissingTarget, encounter.ID, intention)
	switch intention {
	case model.IntentionAttack:
		if encounter.Targets.Defense == nil {
			return 0, nil, missing
		}
		result, err := RollSpec(encounter.Targets.Defense, rng)
		if err != nil {
			return 0, nil, fmt.Errorf("roll defense of %s: %w", encounter.ID, err)
		}
		if encounter.Targets.Defense.Kind == model.RollDice {
			return result.Total, &result, nil
		}
		return result.Total, nil, nil
	case model.IntentionCharm:
		if encounter.Targets.Charm == nil {
			return 0, nil, missing
		}
		return *encounter.Targets.Charm, nil, nil
	case model.IntentionEscape:
		if encounter.Targets.Escape == nil {
			return 0, nil, missing
		}
		return *encounter.Targets.Escape, nil, nil
	default:
		return 0, nil, fmt.Errorf("unknown intention %q", intention)
	}
}

// RollSpec evaluates a static or die-plus-modifier spec. A nil spec totals
// zero.
func RollSpec(spec *model.RollSpec, rng dice.Rng) (dice.RollResult, error) {
	if spec == nil {
		return dice.RollResult{}, nil
	}
	switch spec.Kind {
	case model.RollStatic:
		return dice.RollResult{Total: spec.Value, StaticBonus: spec.Value}, nil
	case model.RollDice:
		return dice.RollFormula(dice.Formula{Terms: []dice.Term{dice.Die(spec.Sides), dice.Static(spec.Modifier)}}, rng)
	default:
		return dice.RollResult{}, fmt.Errorf("unknown roll kind %q", spec.Kind)
	}
}

func resolveVictory(state *GameState, player *model.Player, encounter *model.EncounterCard, outcome *Outcome) (*GameState, error) {
	state, player, err := grantRewards(state, player, encounter.Rewards, outcome)
	if err != nil {
		return nil, err
	}
	if state, err = state.UpdatePlayer(player); err != nil {
		return nil, err
	}
	return state.ResolveEncounterToGraveyard()
}

func resolveCharm(state *GameState, player *model.Player, encounter *model.EncounterCard, outcome *Outcome) (*GameState, error) {
	if encounter.Charm == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingCharm, encounter.ID)
	}

	creature := encounter.Charm.Creature
	creature.ID = dockID(player, creature.ID, encounter.ID)
	creature.AttackDice = append([]int(nil), creature.AttackDice...)
	creature.Effects = append([]model.EffectSpec(nil), creature.Effects...)
	outcome.Charmed = &creature

	player = inventory.AddCreature(player, &creature)
	player, err := effects.ApplyOnce(player, creature.Effects, nil)
	if err != nil {
		return nil, fmt.Errorf("apply %s effects: %w", creature.ID, err)
	}

	state, player, err = grantRewards(state, player, encounter.Charm.Rewards, outcome)
	if err != nil {
		return nil, err
	}
	if state, err = state.UpdatePlayer(player); err != nil {
		return nil, err
	}
	return state.ResolveEncounterCleared()
}

func resolveFailure(state *GameState, player *model.Player, encounter *model.EncounterCard, rng dice.Rng, outcome *Outcome) (*GameState, error) {
	attack, err := RollSpec(encounter.Attack, rng)
	if err != nil {
		return nil, fmt.Errorf("roll attack of %s: %w", encounter.ID, err)
	}
	outcome.EncounterAttackRoll = &attack

	damage := attack.Total
	if damage < 0 {
		damage = 0
	}
	outcome.DamageTaken = damage

	next := player
	if damage > 0 {
		next = player.Clone()
		next.HP = model.ClampHP(player.HP-damage, player.MaxHP)
	}
	if c := player.Companion; c != nil && attack.Total >= c.Defense {
		outcome.CompanionDied = true
		if next == player {
			next = player.Clone()
		}
		next.Companion = nil
		next.CreatureDock = withoutCreature(player.CreatureDock, c)
	}

	if next != player {
		if state, err = state.UpdatePlayer(next); err != nil {
			return nil, err
		}
	}
	return state.ResolveEncounterAndShuffleBack()
}

// grantRewards applies rewards in order. Treasure draws take what is left
// when the treasure deck runs short.
func grantRewards(state *GameState, player *model.Player, rewards []model.Reward, outcome *Outcome) (*GameState, *model.Player, error) {
	for _, reward := range rewards {
		switch reward.Kind {
		case model.RewardCoin:
			if reward.Amount == 0 {
				continue
			}
			next := player.Clone()
			next.Coin = max(0, player.Coin+reward.Amount)
			outcome.CoinGained += next.Coin - player.Coin
			player = next
		case model.RewardTreasure:
			var items []*model.TreasureCard
			if reward.Item != nil {
				items = []*model.TreasureCard{reward.Item}
			} else {
				items, state = state.drawTreasure(reward.Amount)
			}
			player = inventory.AddItems(player, items)
			outcome.TreasureGained = append(outcome.TreasureGained, items...)
		default:
			return nil, nil, fmt.Errorf("unknown reward kind %q", reward.Kind)
		}
	}
	return state, player, nil
}

// dockID picks an id for a newly charmed creature that no dock member uses.
func dockID(player *model.Player, base, fallback string) string {
	if base == "" {
		base = fallback
	}
	id := base
	for n := 2; ; n++ {
		if c, _ := player.FindCreature(id); c == nil {
			return id
		}
		id = base + "-" + strconv.Itoa(n)
	}
}

func withoutCreature(dock []*model.Creature, dead *model.Creature) []*model.Creature {
	out := make([]*model.Creature, 0, len(dock))
	for _, c := range dock {
		if c != dead {
			out = append(out, c)
		}
	}
	return out
}
