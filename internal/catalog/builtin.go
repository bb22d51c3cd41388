package catalog

import "github.com/wanderdeck/engine/internal/game/model"

// Builtin returns the origin content set. Each call returns fresh values.
func Builtin() *Catalog {
	return &Catalog{
		Classes: []ClassDefinition{
			{ID: model.ClassWiseman, Name: "Wiseman", MaxHP: 45, Attack: 4, Charisma: 8, Speed: 6},
			{ID: model.ClassKnight, Name: "Knight", MaxHP: 50, Attack: 6, Charisma: 6, Speed: 6},
			{ID: model.ClassAssassin, Name: "Assassin", MaxHP: 40, Attack: 8, Charisma: 4, Speed: 10},
			{ID: model.ClassPaladin, Name: "Paladin", MaxHP: 70, Attack: 10, Charisma: 4, Speed: 4},
		},
		Weather:    builtinWeather(),
		Treasure:   builtinTreasure(),
		Encounters: originDeck(),
	}
}

func builtinWeather() []*model.WeatherCard {
	return []*model.WeatherCard{
		{
			ID:   model.WeatherSunny,
			Name: "Sunny",
			Effects: []model.EffectSpec{
				model.EachTurnStart(model.HPAdd(1)),
				model.Once(model.DieUpgrade(model.StatCharisma, 1)),
			},
			Conditionals: []model.ConditionalEffectSpec{
				model.When(model.ClassIs(model.ClassWiseman), model.Once(model.DieUpgrade(model.StatCharisma, 3))),
				model.When(model.ClassIs(model.ClassPaladin), model.Once(model.HPAdd(-1))),
			},
		},
		{
			ID:      model.WeatherFoggy,
			Name:    "Foggy",
			Effects: []model.EffectSpec{model.Once(model.ModifierAdd(model.StatSpeed, -2))},
			Conditionals: []model.ConditionalEffectSpec{
				model.When(model.ClassIs(model.ClassAssassin), model.Once(model.DieUpgrade(model.StatAttack, 1))),
			},
		},
		{ID: model.WeatherStorming, Name: "Storming"},
		{
			ID:      model.WeatherSnowing,
			Name:    "Snowing",
			Effects: []model.EffectSpec{model.EachTurnStart(model.HPAdd(-1))},
			Conditionals: []model.ConditionalEffectSpec{
				model.When(model.ClassIs(model.ClassAssassin), model.Once(model.ModifierAdd(model.StatSpeed, -2))),
			},
		},
	}
}

func builtinTreasure() []*model.TreasureCard {
	return []*model.TreasureCard{
		{
			ID:            "weapon:red-katana",
			Name:          "Red Katana",
			TreasureKind:  model.TreasureWeapon,
			MerchantPrice: 9,
			Effects:       []model.EffectSpec{model.Once(model.DieUpgrade(model.StatAttack, 1))},
			Conditionals: []model.ConditionalEffectSpec{
				model.When(model.ClassIs(model.ClassAssassin), model.Once(model.DieUpgrade(model.StatAttack, 1))),
			},
		},
		{
			ID:            "clothing:jetpack",
			Name:          "Jetpack",
			TreasureKind:  model.TreasureClothing,
			SellValue:     7,
			MerchantPrice: 11,
			Effects:       []model.EffectSpec{model.Once(model.DieUpgrade(model.StatSpeed, 2))},
		},
		{
			ID:            "singleuse:confidence-boost",
			Name:          "Confidence Boost",
			TreasureKind:  model.TreasureSingleUse,
			SellValue:     8,
			MerchantPrice: 12,
			Effects:       []model.EffectSpec{model.Once(model.DieUpgrade(model.StatCharisma, 1))},
		},
	}
}

func honora() model.Creature {
	return model.Creature{
		ID:         "horseback-honora",
		Name:       "Horseback Honora",
		AttackDice: []int{6},
		Defense:    11,
		Effects:    []model.EffectSpec{model.Once(model.DieUpgrade(model.StatSpeed, 3))},
	}
}

func originDeck() []EncounterEntry {
	return []EncounterEntry{
		{
			Count: 3,
			Card: model.EncounterCard{
				ID:      "grumpy-goose",
				Name:    "Grumpy Goose",
				Type:    "Creature",
				Targets: model.Targets{Defense: model.StaticRoll(6), Charm: model.Target(5), Escape: model.Target(2)},
				Attack:  model.DiceRoll(4, 0),
				Rewards: []model.Reward{model.TreasureDraw(1)},
				Charm: &model.CharmBranch{Creature: model.Creature{
					ID:         "silly-goose",
					Name:       "Silly Goose",
					AttackDice: []int{4},
					Defense:    2,
					Effects:    []model.EffectSpec{model.EachTurnStart(model.CoinAdd(1))},
				}},
			},
		},
		{
			Count: 5,
			Card: model.EncounterCard{
				ID:      "small-swamp-troll",
				Name:    "Small Swamp Troll",
				Type:    "Creature",
				Targets: model.Targets{Defense: model.StaticRoll(3), Charm: model.Target(3), Escape: model.Target(0)},
				Attack:  model.DiceRoll(4, 0),
				Rewards: []model.Reward{model.Coin(3)},
				Charm: &model.CharmBranch{Creature: model.Creature{
					ID:         "small-swamp-troll",
					Name:       "Small Swamp Troll",
					AttackDice: []int{4},
					Defense:    3,
				}},
			},
		},
		{
			Count: 1,
			Card: model.EncounterCard{
				ID:      "jubjub",
				Name:    "Jub Jub",
				Targets: model.Targets{Defense: model.StaticRoll(1), Escape: model.Target(2)},
				Attack:  model.DiceRoll(4, 0),
				Rewards: []model.Reward{model.Coin(5)},
			},
		},
		{
			Count: 1,
			Card: model.EncounterCard{
				ID:      "also-jubjub",
				Name:    "Also Jubjub",
				Targets: model.Targets{Defense: model.StaticRoll(1), Charm: model.Target(10), Escape: model.Target(2)},
				Attack:  model.DiceRoll(4, 0),
				Rewards: []model.Reward{model.Coin(6)},
				Charm:   &model.CharmBranch{Creature: model.Creature{AttackDice: []int{4}}},
			},
		},
		{
			// Ronen has to be outpaced on a D10; his prize is a treasure draw.
			Count: 0,
			Card: model.EncounterCard{
				ID:      "ronen",
				Name:    "Ronen",
				Type:    "Traveller",
				Targets: model.Targets{Defense: model.DiceRoll(10, 0), Escape: model.Target(0)},
				Attack:  model.DiceRoll(4, 0),
				Rewards: []model.Reward{model.TreasureDraw(1)},
			},
		},
		{
			Count: 1,
			Card: model.EncounterCard{
				ID:      "armoured-mouse",
				Name:    "Armoured Mouse",
				Type:    "Creature",
				Targets: model.Targets{Defense: model.StaticRoll(4), Charm: model.Target(5), Escape: model.Target(8)},
				Attack:  model.DiceRoll(4, 0),
				Rewards: []model.Reward{model.Coin(3)},
				Charm: &model.CharmBranch{Creature: model.Creature{
					AttackDice: []int{4},
					Effects:    []model.EffectSpec{model.Once(model.DieUpgrade(model.StatCharisma, 1))},
				}},
			},
		},
		{
			Count: 2,
			Card: model.EncounterCard{
				ID:      "horseback-honora",
				Name:    "Horseback Honora",
				Targets: model.Targets{Defense: model.StaticRoll(11), Charm: model.Target(7), Escape: model.Target(16)},
				Attack:  model.DiceRoll(6, 0),
				Rewards: []model.Reward{model.Coin(8)},
				Charm:   &model.CharmBranch{Creature: honora()},
			},
		},
		{
			Count: 3,
			Card: model.EncounterCard{
				ID:      "siren",
				Name:    "Siren",
				Targets: model.Targets{Defense: model.StaticRoll(6), Charm: model.Target(10), Escape: model.Target(4)},
				Attack:  model.DiceRoll(6, 1),
				Rewards: []model.Reward{model.TreasureDraw(1)},
				Charm:   &model.CharmBranch{Creature: honora()},
			},
		},
	}
}

// TreasureDeck returns one copy of every treasure card, in catalog order.
func (c *Catalog) TreasureDeck() []*model.TreasureCard {
	return append([]*model.TreasureCard(nil), c.Treasure...)
}
