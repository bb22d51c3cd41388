package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderdeck/engine/internal/catalog"
	"github.com/wanderdeck/engine/internal/game/model"
)

func player(t *testing.T, class model.ClassID) *model.Player {
	t.Helper()
	def, err := catalog.Builtin().Class(class)
	require.NoError(t, err)
	return catalog.NewPlayer("p1", "Test", def)
}

func TestChooseIntention(t *testing.T) {
	tests := []struct {
		name      string
		class     model.ClassID
		targets   model.Targets
		intention model.Intention
	}{
		{
			name:      "escape when it is free",
			class:     model.ClassWiseman,
			targets:   model.Targets{Defense: model.StaticRoll(6), Charm: model.Target(5), Escape: model.Target(0)},
			intention: model.IntentionEscape,
		},
		{
			name:      "charm with a big charisma die",
			class:     model.ClassWiseman,
			targets:   model.Targets{Defense: model.StaticRoll(6), Charm: model.Target(2), Escape: model.Target(5)},
			intention: model.IntentionCharm,
		},
		{
			name:      "paladin hits hard",
			class:     model.ClassPaladin,
			targets:   model.Targets{Defense: model.StaticRoll(3), Charm: model.Target(3), Escape: model.Target(3)},
			intention: model.IntentionAttack,
		},
		{
			name:      "rolled defense uses its average",
			class:     model.ClassKnight,
			targets:   model.Targets{Defense: model.DiceRoll(10, 0), Escape: model.Target(4)},
			intention: model.IntentionEscape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := chooseIntention(player(t, tt.class), &model.EncounterCard{ID: "e", Targets: tt.targets})
			require.True(t, ok)
			assert.Equal(t, tt.intention, got)
		})
	}
}

func TestChooseIntentionCountsCompanion(t *testing.T) {
	p := player(t, model.ClassWiseman)
	beast := &model.Creature{ID: "beast", AttackDice: []int{20}}
	p.CreatureDock = []*model.Creature{beast}
	p.Companion = beast

	got, ok := chooseIntention(p, &model.EncounterCard{
		ID:      "e",
		Targets: model.Targets{Defense: model.StaticRoll(10), Charm: model.Target(4)},
	})
	require.True(t, ok)
	assert.Equal(t, model.IntentionAttack, got)
}

func TestChooseIntentionWithoutTargets(t *testing.T) {
	_, ok := chooseIntention(player(t, model.ClassKnight), &model.EncounterCard{ID: "e"})
	assert.False(t, ok)
	_, ok = chooseIntention(nil, nil)
	assert.False(t, ok)
}

func TestStrongestCreature(t *testing.T) {
	p := player(t, model.ClassKnight)
	assert.Nil(t, strongestCreature(p))

	weak := &model.Creature{ID: "weak", AttackDice: []int{4}}
	strong := &model.Creature{ID: "strong", AttackDice: []int{6, 4}}
	p.CreatureDock = []*model.Creature{weak, strong}
	assert.Same(t, strong, strongestCreature(p))
}
