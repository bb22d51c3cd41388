package model

import (
	"encoding/json"
	"fmt"
)

// CardKind discriminates the Card union.
type CardKind string

const (
	CardWeather   CardKind = "weather"
	CardTreasure  CardKind = "treasure"
	CardEncounter CardKind = "encounter"
)

// Card is implemented by WeatherCard, TreasureCard and EncounterCard.
type Card interface {
	CardID() string
	CardKind() CardKind
}

// WeatherID names a weather card.
type WeatherID string

const (
	WeatherSunny    WeatherID = "sunny"
	WeatherFoggy    WeatherID = "foggy"
	WeatherStorming WeatherID = "storming"
	WeatherSnowing  WeatherID = "snowing"
)

// WeatherCard carries effects applied to the active player.
type WeatherCard struct {
	ID           WeatherID               `json:"id" yaml:"id"`
	Name         string                  `json:"name" yaml:"name"`
	Effects      []EffectSpec            `json:"effects,omitempty" yaml:"effects,omitempty"`
	Conditionals []ConditionalEffectSpec `json:"conditionals,omitempty" yaml:"conditionals,omitempty"`
}

func (w *WeatherCard) CardID() string     { return string(w.ID) }
func (w *WeatherCard) CardKind() CardKind { return CardWeather }

// TreasureKind discriminates treasure cards.
type TreasureKind string

const (
	TreasureWeapon    TreasureKind = "weapon"
	TreasureClothing  TreasureKind = "clothing"
	TreasureSingleUse TreasureKind = "singleUse"
)

// TreasureCard is a weapon, clothing or single-use item. Effects are the
// standard specs; Conditionals only apply to matching classes.
type TreasureCard struct {
	ID            string                  `json:"id" yaml:"id"`
	Name          string                  `json:"name" yaml:"name"`
	TreasureKind  TreasureKind            `json:"treasure_kind" yaml:"treasure_kind"`
	SellValue     int                     `json:"sell_value" yaml:"sell_value"`
	MerchantPrice int                     `json:"merchant_price" yaml:"merchant_price"`
	Effects       []EffectSpec            `json:"effects,omitempty" yaml:"effects,omitempty"`
	Conditionals  []ConditionalEffectSpec `json:"conditionals,omitempty" yaml:"conditionals,omitempty"`
}

func (t *TreasureCard) CardID() string     { return t.ID }
func (t *TreasureCard) CardKind() CardKind { return CardTreasure }

// Intention is the approach a player takes to an encounter.
type Intention string

const (
	IntentionAttack Intention = "attack"
	IntentionCharm  Intention = "charm"
	IntentionEscape Intention = "escape"
)

// Intentions lists every intention.
var Intentions = []Intention{IntentionAttack, IntentionCharm, IntentionEscape}

// Stat maps an intention to the stat it rolls.
func (i Intention) Stat() (StatKey, error) {
	switch i {
	case IntentionAttack:
		return StatAttack, nil
	case IntentionCharm:
		return StatCharisma, nil
	case IntentionEscape:
		return StatSpeed, nil
	default:
		return "", fmt.Errorf("unknown intention %q", i)
	}
}

// RollKind discriminates RollSpec.
type RollKind string

const (
	RollStatic RollKind = "static"
	RollDice   RollKind = "dice"
)

// RollSpec is either a static value or a single die plus a modifier.
type RollSpec struct {
	Kind     RollKind `json:"kind" yaml:"kind"`
	Value    int      `json:"value,omitempty" yaml:"value,omitempty"`
	Sides    int      `json:"sides,omitempty" yaml:"sides,omitempty"`
	Modifier int      `json:"modifier,omitempty" yaml:"modifier,omitempty"`
}

// StaticRoll builds a fixed-value spec.
func StaticRoll(value int) *RollSpec { return &RollSpec{Kind: RollStatic, Value: value} }

// DiceRoll builds a die-plus-modifier spec.
func DiceRoll(sides, modifier int) *RollSpec {
	return &RollSpec{Kind: RollDice, Sides: sides, Modifier: modifier}
}

// Targets holds per-intention target numbers. A nil entry means the
// encounter cannot be approached with that intention.
type Targets struct {
	Defense *RollSpec `json:"defense,omitempty" yaml:"defense,omitempty"`
	Charm   *int      `json:"charm,omitempty" yaml:"charm,omitempty"`
	Escape  *int      `json:"escape,omitempty" yaml:"escape,omitempty"`
}

// Has reports whether a target exists for intention.
func (t Targets) Has(intention Intention) bool {
	switch intention {
	case IntentionAttack:
		return t.Defense != nil
	case IntentionCharm:
		return t.Charm != nil
	case IntentionEscape:
		return t.Escape != nil
	default:
		return false
	}
}

// GobEncode keeps zero-valued targets, which gob would drop together with
// their pointer.
func (t Targets) GobEncode() ([]byte, error) { return json.Marshal(t) }

// GobDecode reverses GobEncode.
func (t *Targets) GobDecode(data []byte) error { return json.Unmarshal(data, t) }

// Target returns a pointer to v, for building Targets literals.
func Target(v int) *int { return &v }

// RewardKind discriminates rewards.
type RewardKind string

const (
	RewardCoin     RewardKind = "coin"
	RewardTreasure RewardKind = "treasure"
)

// Reward grants coin or treasure. A treasure reward with Item set grants that
// card; without Item it draws Amount cards from the treasure deck.
type Reward struct {
	Kind   RewardKind    `json:"kind" yaml:"kind"`
	Amount int           `json:"amount,omitempty" yaml:"amount,omitempty"`
	Item   *TreasureCard `json:"item,omitempty" yaml:"item,omitempty"`
}

// Coin builds a coin reward.
func Coin(amount int) Reward { return Reward{Kind: RewardCoin, Amount: amount} }

// Treasure builds a reward granting a specific card.
func Treasure(item *TreasureCard) Reward { return Reward{Kind: RewardTreasure, Amount: 1, Item: item} }

// TreasureDraw builds a reward that draws from the treasure deck.
func TreasureDraw(count int) Reward { return Reward{Kind: RewardTreasure, Amount: count} }

// Creature is a charmable being. Defense is the counter-attack total at
// which it dies while fielded.
type Creature struct {
	ID         string       `json:"id" yaml:"id"`
	Name       string       `json:"name" yaml:"name"`
	AttackDice []int        `json:"attack_dice,omitempty" yaml:"attack_dice"`
	Defense    int          `json:"defense" yaml:"defense"`
	Effects    []EffectSpec `json:"effects,omitempty" yaml:"effects,omitempty"`
}

// CharmBranch is what an encounter becomes when charmed.
type CharmBranch struct {
	Creature Creature `json:"creature" yaml:"creature"`
	Rewards  []Reward `json:"rewards,omitempty" yaml:"rewards,omitempty"`
}

// EncounterCard is a drawable challenge.
type EncounterCard struct {
	ID      string       `json:"id" yaml:"id"`
	Name    string       `json:"name" yaml:"name"`
	Type    string       `json:"type,omitempty" yaml:"type,omitempty"`
	Targets Targets      `json:"targets" yaml:"targets"`
	Attack  *RollSpec    `json:"attack,omitempty" yaml:"attack,omitempty"`
	Rewards []Reward     `json:"rewards,omitempty" yaml:"rewards,omitempty"`
	Charm   *CharmBranch `json:"charm,omitempty" yaml:"charm,omitempty"`

	// InstanceID distinguishes copies of the same card within one deck.
	InstanceID string `json:"instance_id,omitempty" yaml:"-"`
}

func (e *EncounterCard) CardID() string     { return e.ID }
func (e *EncounterCard) CardKind() CardKind { return CardEncounter }
