package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderdeck/engine/internal/game/dice"
	"github.com/wanderdeck/engine/internal/game/model"
)

func TestBuiltinIsValid(t *testing.T) {
	c := Builtin()
	require.NoError(t, c.Validate())

	assert.Len(t, c.Classes, 4)
	assert.Len(t, c.Weather, 4)
	assert.Len(t, c.Treasure, 3)
}

func TestBuiltinReturnsFreshValues(t *testing.T) {
	a := Builtin()
	a.Treasure[0].SellValue = 99
	a.Encounters[0].Count = 0

	b := Builtin()
	assert.Equal(t, 0, b.Treasure[0].SellValue)
	assert.Equal(t, 3, b.Encounters[0].Count)
}

func TestNewPlayer(t *testing.T) {
	tests := []struct {
		class    model.ClassID
		hp       int
		attack   int
		charisma int
		speed    int
	}{
		{model.ClassWiseman, 45, 4, 8, 6},
		{model.ClassKnight, 50, 6, 6, 6},
		{model.ClassAssassin, 40, 8, 4, 10},
		{model.ClassPaladin, 70, 10, 4, 4},
	}

	c := Builtin()
	for _, tt := range tests {
		t.Run(string(tt.class), func(t *testing.T) {
			def, err := c.Class(tt.class)
			require.NoError(t, err)

			p := NewPlayer("p1", "Ada", def)
			assert.Equal(t, "p1", p.ID)
			assert.Equal(t, "Ada", p.Name)
			assert.Equal(t, tt.class, p.ClassID)
			assert.Equal(t, tt.hp, p.HP)
			assert.Equal(t, tt.hp, p.MaxHP)
			assert.Zero(t, p.Coin)
			assert.Equal(t, []int{tt.attack}, p.Stats.Attack.Dice)
			assert.Equal(t, []int{tt.charisma}, p.Stats.Charisma.Dice)
			assert.Equal(t, []int{tt.speed}, p.Stats.Speed.Dice)
			assert.Empty(t, p.Inventory)
			assert.Nil(t, p.Companion)
		})
	}
}

func TestLookups(t *testing.T) {
	c := Builtin()

	_, err := c.Class("bard")
	require.ErrorIs(t, err, ErrUnknownClass)

	w, err := c.WeatherCard(model.WeatherSnowing)
	require.NoError(t, err)
	assert.Equal(t, "Snowing", w.Name)
	_, err = c.WeatherCard("hail")
	require.ErrorIs(t, err, ErrUnknownWeather)

	katana, err := c.TreasureCard("weapon:red-katana")
	require.NoError(t, err)
	assert.Equal(t, model.TreasureWeapon, katana.TreasureKind)
	_, err = c.TreasureCard("weapon:spoon")
	require.ErrorIs(t, err, ErrUnknownTreasure)
}

func TestBuildEncounterDeck(t *testing.T) {
	c := Builtin()
	total := 0
	for _, e := range c.Encounters {
		total += e.Count
	}

	cards, err := c.BuildEncounterDeck(dice.NewRng(3))
	require.NoError(t, err)
	require.Len(t, cards, total)

	seen := make(map[string]bool, len(cards))
	for _, card := range cards {
		require.NotEmpty(t, card.InstanceID)
		assert.False(t, seen[card.InstanceID], "instance ids must be unique")
		seen[card.InstanceID] = true
		assert.NotEqual(t, "ronen", card.ID, "zero-count entries are not dealt")
	}

	again, err := c.BuildEncounterDeck(dice.NewRng(3))
	require.NoError(t, err)
	for i := range cards {
		assert.Equal(t, cards[i].InstanceID, again[i].InstanceID)
	}
}

func TestValidateRejectsBadContent(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Catalog)
	}{
		{"no classes", func(c *Catalog) { c.Classes = nil }},
		{"unknown class", func(c *Catalog) { c.Classes[0].ID = "bard" }},
		{"odd die", func(c *Catalog) { c.Classes[0].Attack = 7 }},
		{"zero hp", func(c *Catalog) { c.Classes[0].MaxHP = 0 }},
		{"treasure kind", func(c *Catalog) { c.Treasure[0].TreasureKind = "upgrade" }},
		{"duplicate treasure", func(c *Catalog) { c.Treasure = append(c.Treasure, c.Treasure[0]) }},
		{"negative count", func(c *Catalog) { c.Encounters[0].Count = -1 }},
		{"missing id", func(c *Catalog) { c.Encounters[0].Card.ID = "" }},
		{"duplicate encounter", func(c *Catalog) { c.Encounters = append(c.Encounters, c.Encounters[0]) }},
		{"no targets", func(c *Catalog) { c.Encounters[0].Card.Targets = model.Targets{} }},
		{"odd attack die", func(c *Catalog) { c.Encounters[0].Card.Attack = model.DiceRoll(7, 0) }},
		{"odd defense die", func(c *Catalog) { c.Encounters[0].Card.Targets.Defense = model.DiceRoll(3, 1) }},
		{"roll kind", func(c *Catalog) { c.Encounters[0].Card.Attack = &model.RollSpec{Kind: "percent", Value: 50} }},
		{"odd creature die", func(c *Catalog) {
			c.Encounters[0].Card.Charm = &model.CharmBranch{Creature: model.Creature{ID: "imp", AttackDice: []int{4, 7}}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Builtin()
			tt.mutate(c)
			require.ErrorIs(t, c.Validate(), ErrInvalidCatalog)
		})
	}
}
