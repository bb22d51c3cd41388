package main

import (
	"github.com/wanderdeck/engine/internal/game/dice"
	"github.com/wanderdeck/engine/internal/game/model"
)

// chooseIntention picks the intention whose expected roll beats its target
// by the widest margin. Ties keep the earlier intention in model.Intentions.
func chooseIntention(p *model.Player, encounter *model.EncounterCard) (model.Intention, bool) {
	if p == nil || encounter == nil {
		return "", false
	}

	var (
		best   model.Intention
		margin float64
		found  bool
	)
	for _, intention := range model.Intentions {
		target, ok := expectedTarget(encounter.Targets, intention)
		if !ok {
			continue
		}
		stat, err := intention.Stat()
		if err != nil {
			continue
		}
		pool, _ := p.Stats.Get(stat)
		total := expectedPool(pool)
		if intention == model.IntentionAttack && p.Companion != nil {
			total += expectedDice(p.Companion.AttackDice)
		}
		if m := total - target; !found || m > margin {
			best, margin, found = intention, m, true
		}
	}
	return best, found
}

func expectedTarget(t model.Targets, intention model.Intention) (float64, bool) {
	switch intention {
	case model.IntentionAttack:
		if t.Defense == nil {
			return 0, false
		}
		if t.Defense.Kind == model.RollDice {
			return expectedDie(t.Defense.Sides) + float64(t.Defense.Modifier), true
		}
		return float64(t.Defense.Value), true
	case model.IntentionCharm:
		if t.Charm == nil {
			return 0, false
		}
		return float64(*t.Charm), true
	case model.IntentionEscape:
		if t.Escape == nil {
			return 0, false
		}
		return float64(*t.Escape), true
	}
	return 0, false
}

func expectedDie(sides int) float64 { return float64(sides+1) / 2 }

func expectedDice(sides []int) float64 {
	total := 0.0
	for _, s := range sides {
		total += expectedDie(s)
	}
	return total
}

func expectedPool(pool dice.Pool) float64 {
	return expectedDice(pool.Dice) + float64(pool.Modifier)
}

// strongestCreature returns the dock creature with the best expected attack.
func strongestCreature(p *model.Player) *model.Creature {
	var best *model.Creature
	for _, c := range p.CreatureDock {
		if best == nil || expectedDice(c.AttackDice) > expectedDice(best.AttackDice) {
			best = c
		}
	}
	return best
}
