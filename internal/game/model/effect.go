// Package model holds the plain data the engine operates on: classes, stats,
// effects, cards, creatures and players. Values here are treated as immutable
// once shared; every transform elsewhere builds new values instead of editing.
package model

import "github.com/wanderdeck/engine/internal/game/dice"

// ClassID identifies one of the four player classes.
type ClassID string

const (
	ClassWiseman  ClassID = "wiseman"
	ClassKnight   ClassID = "knight"
	ClassAssassin ClassID = "assassin"
	ClassPaladin  ClassID = "paladin"
)

// Classes lists every class in table order.
var Classes = []ClassID{ClassWiseman, ClassKnight, ClassAssassin, ClassPaladin}

// Valid reports whether c is a known class.
func (c ClassID) Valid() bool {
	for _, known := range Classes {
		if c == known {
			return true
		}
	}
	return false
}

// StatKey names a stat pool.
type StatKey string

const (
	StatAttack   StatKey = "attack"
	StatCharisma StatKey = "charisma"
	StatSpeed    StatKey = "speed"
)

// Stats holds one dice pool per stat.
type Stats struct {
	Attack   dice.Pool `json:"attack" yaml:"attack"`
	Charisma dice.Pool `json:"charisma" yaml:"charisma"`
	Speed    dice.Pool `json:"speed" yaml:"speed"`
}

// Get returns the pool for key.
func (s Stats) Get(key StatKey) (dice.Pool, bool) {
	switch key {
	case StatAttack:
		return s.Attack, true
	case StatCharisma:
		return s.Charisma, true
	case StatSpeed:
		return s.Speed, true
	default:
		return dice.Pool{}, false
	}
}

// With returns a copy of s with key replaced by pool.
func (s Stats) With(key StatKey, pool dice.Pool) (Stats, bool) {
	switch key {
	case StatAttack:
		s.Attack = pool
	case StatCharisma:
		s.Charisma = pool
	case StatSpeed:
		s.Speed = pool
	default:
		return s, false
	}
	return s, true
}

// EffectKind discriminates the Effect union.
type EffectKind string

const (
	EffectHPAdd       EffectKind = "hp.add"
	EffectDieUpgrade  EffectKind = "stat.die.upgrade"
	EffectModifierAdd EffectKind = "stat.modifier.add"
	EffectCoinAdd     EffectKind = "coin.add"
)

// Effect is a single typed modification of a player. Which payload fields are
// meaningful depends on Kind: Amount for hp.add, stat.modifier.add and
// coin.add; Stat for both stat kinds; Steps for stat.die.upgrade.
type Effect struct {
	Kind   EffectKind `json:"kind" yaml:"kind"`
	Amount int        `json:"amount,omitempty" yaml:"amount,omitempty"`
	Stat   StatKey    `json:"stat,omitempty" yaml:"stat,omitempty"`
	Steps  int        `json:"steps,omitempty" yaml:"steps,omitempty"`
}

// HPAdd heals (or damages, when negative) within [0, maxHp].
func HPAdd(amount int) Effect { return Effect{Kind: EffectHPAdd, Amount: amount} }

// DieUpgrade upgrades a stat pool steps times.
func DieUpgrade(stat StatKey, steps int) Effect {
	return Effect{Kind: EffectDieUpgrade, Stat: stat, Steps: steps}
}

// ModifierAdd adds to a stat's flat modifier.
func ModifierAdd(stat StatKey, amount int) Effect {
	return Effect{Kind: EffectModifierAdd, Stat: stat, Amount: amount}
}

// CoinAdd adds coin, never dropping below zero.
func CoinAdd(amount int) Effect { return Effect{Kind: EffectCoinAdd, Amount: amount} }

// Repeat controls when an effect spec fires.
type Repeat string

const (
	RepeatOnce          Repeat = "once"
	RepeatEachTurnStart Repeat = "eachTurnStart"
)

// EffectSpec wraps an effect with its trigger timing.
type EffectSpec struct {
	Effect Effect `json:"effect" yaml:"effect"`
	Repeat Repeat `json:"repeat" yaml:"repeat"`
}

// Once wraps e as a one-shot spec.
func Once(e Effect) EffectSpec { return EffectSpec{Effect: e, Repeat: RepeatOnce} }

// EachTurnStart wraps e as a turn-start spec.
func EachTurnStart(e Effect) EffectSpec { return EffectSpec{Effect: e, Repeat: RepeatEachTurnStart} }

// ConditionKind discriminates conditions.
type ConditionKind string

const ConditionClassIs ConditionKind = "classIs"

// Condition gates a conditional effect.
type Condition struct {
	Kind    ConditionKind `json:"kind" yaml:"kind"`
	ClassID ClassID       `json:"class_id" yaml:"class_id"`
}

// ClassIs builds a class predicate.
func ClassIs(id ClassID) Condition { return Condition{Kind: ConditionClassIs, ClassID: id} }

// ConditionalEffectSpec is an EffectSpec that only applies when Condition holds.
type ConditionalEffectSpec struct {
	EffectSpec `yaml:",inline"`
	Condition  Condition `json:"condition" yaml:"condition"`
}

// When attaches a condition to spec.
func When(cond Condition, spec EffectSpec) ConditionalEffectSpec {
	return ConditionalEffectSpec{EffectSpec: spec, Condition: cond}
}
