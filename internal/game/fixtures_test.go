package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wanderdeck/engine/internal/game/dice"
	"github.com/wanderdeck/engine/internal/game/model"
)

func wiseman(id string) *model.Player {
	return &model.Player{
		ID:      id,
		Name:    id,
		ClassID: model.ClassWiseman,
		HP:      45,
		MaxHP:   45,
		Stats: model.Stats{
			Attack:   dice.Pool{Dice: []int{4}},
			Charisma: dice.Pool{Dice: []int{8}},
			Speed:    dice.Pool{Dice: []int{6}},
		},
	}
}

func goose(defense int) *model.EncounterCard {
	return &model.EncounterCard{
		ID:   "grumpy-goose",
		Name: "Grumpy Goose",
		Targets: model.Targets{
			Defense: model.StaticRoll(defense),
			Charm:   model.Target(5),
			Escape:  model.Target(4),
		},
		Attack:  model.DiceRoll(4, 0),
		Rewards: []model.Reward{model.Coin(3)},
		Charm: &model.CharmBranch{
			Creature: model.Creature{ID: "goose", Name: "Goose", AttackDice: []int{4}, Defense: 4},
			Rewards:  []model.Reward{model.Coin(1)},
		},
	}
}

func troll() *model.EncounterCard {
	return &model.EncounterCard{
		ID:      "small-swamp-troll",
		Name:    "Small Swamp Troll",
		Targets: model.Targets{Defense: model.StaticRoll(8), Escape: model.Target(5)},
		Attack:  model.StaticRoll(3),
	}
}

func withCompanion(p *model.Player, c *model.Creature) *model.Player {
	next := p.Clone()
	next.CreatureDock = []*model.Creature{c}
	next.Companion = c
	return next
}

func newState(t *testing.T, players []*model.Player, encounters ...*model.EncounterCard) *GameState {
	t.Helper()
	state, err := NewGameState(Init{Players: players, EncounterDeck: encounters})
	require.NoError(t, err)
	return state
}

// encounterState returns a single-player state with encounter drawn.
func encounterState(t *testing.T, p *model.Player, encounter *model.EncounterCard, rest ...*model.EncounterCard) *GameState {
	t.Helper()
	state := newState(t, []*model.Player{p}, append([]*model.EncounterCard{encounter}, rest...)...)
	state, err := state.DrawEncounter()
	require.NoError(t, err)
	return state
}

// faces builds an rng that rolls the given (face, sides) pairs in order.
func faces(pairs ...int) *dice.Sequence {
	values := make([]float64, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		values = append(values, dice.Face(pairs[i], pairs[i+1]))
	}
	return dice.NewSequence(values...)
}
