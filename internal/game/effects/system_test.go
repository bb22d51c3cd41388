package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderdeck/engine/internal/game/dice"
	"github.com/wanderdeck/engine/internal/game/model"
)

func newPlayer(class model.ClassID) *model.Player {
	return &model.Player{
		ID:      "p1",
		Name:    "P1",
		ClassID: class,
		HP:      35,
		MaxHP:   45,
		Stats: model.Stats{
			Attack:   dice.Pool{Dice: []int{4}},
			Charisma: dice.Pool{Dice: []int{8}},
			Speed:    dice.Pool{Dice: []int{6}},
		},
	}
}

func TestWeatherTurnStartAppliesHP(t *testing.T) {
	p := newPlayer(model.ClassWiseman)
	weather := &model.WeatherCard{
		ID:      model.WeatherSunny,
		Effects: []model.EffectSpec{model.EachTurnStart(model.HPAdd(1))},
	}

	next, err := ApplyWeatherTurnStart(p, weather)
	require.NoError(t, err)
	assert.Equal(t, 36, next.HP)
	assert.Equal(t, 35, p.HP, "input player must not change")
}

func TestWeatherTurnStartSkipsOnceSpecs(t *testing.T) {
	p := newPlayer(model.ClassWiseman)
	weather := &model.WeatherCard{
		Effects: []model.EffectSpec{model.Once(model.DieUpgrade(model.StatCharisma, 1))},
		Conditionals: []model.ConditionalEffectSpec{
			model.When(model.ClassIs(model.ClassWiseman), model.Once(model.HPAdd(5))),
		},
	}

	next, err := ApplyWeatherTurnStart(p, weather)
	require.NoError(t, err)
	assert.Same(t, p, next)
}

func TestNilWeatherIsNoop(t *testing.T) {
	p := newPlayer(model.ClassKnight)
	next, err := ApplyWeatherTurnStart(p, nil)
	require.NoError(t, err)
	assert.Same(t, p, next)
}

func TestConditionalsFilterByClass(t *testing.T) {
	conditionals := []model.ConditionalEffectSpec{
		model.When(model.ClassIs(model.ClassAssassin), model.Once(model.DieUpgrade(model.StatAttack, 1))),
		model.When(model.ClassIs(model.ClassPaladin), model.Once(model.HPAdd(-1))),
	}

	assassin, err := ApplyOnce(newPlayer(model.ClassAssassin), nil, conditionals)
	require.NoError(t, err)
	assert.Equal(t, []int{6}, assassin.Stats.Attack.Dice)
	assert.Equal(t, 35, assassin.HP)

	paladin, err := ApplyOnce(newPlayer(model.ClassPaladin), nil, conditionals)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, paladin.Stats.Attack.Dice)
	assert.Equal(t, 34, paladin.HP)
}

func TestApplyOnceOrdersStandardBeforeConditional(t *testing.T) {
	p := newPlayer(model.ClassAssassin)
	next, err := ApplyOnce(p,
		[]model.EffectSpec{
			model.Once(model.DieUpgrade(model.StatAttack, 1)),
			model.EachTurnStart(model.HPAdd(-10)),
		},
		[]model.ConditionalEffectSpec{
			model.When(model.ClassIs(model.ClassAssassin), model.Once(model.DieUpgrade(model.StatAttack, 1))),
		},
	)
	require.NoError(t, err)
	assert.Equal(t, []int{8}, next.Stats.Attack.Dice)
	assert.Equal(t, 35, next.HP, "eachTurnStart spec must be skipped by ApplyOnce")
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		effect model.Effect
		check  func(t *testing.T, p *model.Player)
	}{
		{
			name:   "hp clamps to max",
			effect: model.HPAdd(100),
			check:  func(t *testing.T, p *model.Player) { assert.Equal(t, 45, p.HP) },
		},
		{
			name:   "hp clamps to zero",
			effect: model.HPAdd(-100),
			check:  func(t *testing.T, p *model.Player) { assert.Equal(t, 0, p.HP) },
		},
		{
			name:   "modifier goes negative",
			effect: model.ModifierAdd(model.StatSpeed, -2),
			check: func(t *testing.T, p *model.Player) {
				assert.Equal(t, -2, p.Stats.Speed.Modifier)
				assert.Equal(t, []int{6}, p.Stats.Speed.Dice)
			},
		},
		{
			name:   "die upgrade uses progression",
			effect: model.DieUpgrade(model.StatCharisma, 3),
			check:  func(t *testing.T, p *model.Player) { assert.Equal(t, []int{20}, p.Stats.Charisma.Dice) },
		},
		{
			name:   "coin floors at zero",
			effect: model.CoinAdd(-4),
			check:  func(t *testing.T, p *model.Player) { assert.Equal(t, 0, p.Coin) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPlayer(model.ClassWiseman)
			next, err := Apply(p, tt.effect)
			require.NoError(t, err)
			tt.check(t, next)
		})
	}
}

func TestApplyReturnsSamePlayerWhenUnchanged(t *testing.T) {
	p := newPlayer(model.ClassWiseman)
	p.HP = p.MaxHP

	for _, effect := range []model.Effect{
		model.HPAdd(3),
		model.ModifierAdd(model.StatAttack, 0),
		model.DieUpgrade(model.StatAttack, 0),
		model.CoinAdd(-1),
	} {
		next, err := Apply(p, effect)
		require.NoError(t, err)
		assert.Same(t, p, next, "effect %s", effect.Kind)
	}
}

func TestApplyRejectsUnknownKinds(t *testing.T) {
	p := newPlayer(model.ClassWiseman)

	_, err := Apply(p, model.Effect{Kind: "teleport"})
	assert.Error(t, err)

	_, err = Apply(p, model.ModifierAdd("luck", 1))
	assert.Error(t, err)

	_, err = ApplyOnce(p, nil, []model.ConditionalEffectSpec{{
		EffectSpec: model.Once(model.HPAdd(1)),
		Condition:  model.Condition{Kind: "levelIs"},
	}})
	assert.Error(t, err)
}

func TestCompanionTurnStart(t *testing.T) {
	p := newPlayer(model.ClassWiseman)
	goose := &model.Creature{ID: "silly-goose", Effects: []model.EffectSpec{model.EachTurnStart(model.CoinAdd(1))}}
	p.CreatureDock = []*model.Creature{goose}
	p.Companion = goose

	next, err := ApplyCompanionTurnStart(p)
	require.NoError(t, err)
	assert.Equal(t, 1, next.Coin)

	bare := newPlayer(model.ClassWiseman)
	same, err := ApplyCompanionTurnStart(bare)
	require.NoError(t, err)
	assert.Same(t, bare, same)
}
