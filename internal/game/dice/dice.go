// Package dice rolls dice, dice pools and formulas from an injected random
// source and implements the die-size upgrade progression used by stats.
package dice

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrInvalidSides is returned when a die has zero or negative sides.
	ErrInvalidSides = errors.New("invalid die sides")
	// ErrInvalidPool is returned by ValidatePool for empty pools or off-progression dice.
	ErrInvalidPool = errors.New("invalid dice pool")
)

// MaxSides is the largest die in the progression.
const MaxSides = 20

// Progression lists the canonical die sizes in upgrade order.
var Progression = []int{4, 6, 8, 10, 12, 20}

// Rng returns a uniformly distributed value in [0, 1).
type Rng func() float64

// Pool is an ordered list of die sizes plus a flat modifier.
type Pool struct {
	Dice     []int `json:"dice,omitempty" yaml:"dice"`
	Modifier int   `json:"modifier,omitempty" yaml:"modifier,omitempty"`
}

// Clone returns a pool that shares no backing array with p.
func (p Pool) Clone() Pool {
	return Pool{Dice: append([]int(nil), p.Dice...), Modifier: p.Modifier}
}

// RollDetail is the realized value of a single die.
type RollDetail struct {
	Sides int `json:"sides"`
	Value int `json:"value"`
}

// RollResult keeps the per-die values apart from the static bonus so callers
// can render the breakdown. Total includes StaticBonus.
type RollResult struct {
	Total       int          `json:"total"`
	Rolls       []RollDetail `json:"rolls"`
	StaticBonus int          `json:"static_bonus"`
}

// TermKind discriminates formula terms.
type TermKind string

const (
	TermDie    TermKind = "die"
	TermStatic TermKind = "static"
)

// Term is either a single die or a static value.
type Term struct {
	Kind  TermKind `json:"kind"`
	Sides int      `json:"sides,omitempty"`
	Value int      `json:"value,omitempty"`
}

// Formula is a mixed list of die and static terms.
type Formula struct {
	Terms []Term `json:"terms"`
}

// Die builds a die term.
func Die(sides int) Term { return Term{Kind: TermDie, Sides: sides} }

// Static builds a static term.
func Static(value int) Term { return Term{Kind: TermStatic, Value: value} }

// RollDie returns floor(rng()*sides)+1.
func RollDie(sides int, rng Rng) (int, error) {
	if sides <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSides, sides)
	}
	value := int(math.Floor(rng()*float64(sides))) + 1
	// rng is expected to stay inside [0,1); keep the result on the die anyway.
	if value < 1 {
		value = 1
	}
	if value > sides {
		value = sides
	}
	return value, nil
}

// RollDice rolls each die independently. The static bonus is always zero.
func RollDice(sides []int, rng Rng) (RollResult, error) {
	rolls := make([]RollDetail, 0, len(sides))
	total := 0
	for _, s := range sides {
		value, err := RollDie(s, rng)
		if err != nil {
			return RollResult{}, err
		}
		rolls = append(rolls, RollDetail{Sides: s, Value: value})
		total += value
	}
	return RollResult{Total: total, Rolls: rolls}, nil
}

// RollPool rolls the pool's dice and adds its modifier.
func RollPool(pool Pool, rng Rng) (RollResult, error) {
	result, err := RollDice(pool.Dice, rng)
	if err != nil {
		return RollResult{}, err
	}
	result.StaticBonus = pool.Modifier
	result.Total += pool.Modifier
	return result, nil
}

// RollFormula sums static terms into the bonus and rolls the die terms in order.
func RollFormula(formula Formula, rng Rng) (RollResult, error) {
	bonus := 0
	sides := make([]int, 0, len(formula.Terms))
	for _, term := range formula.Terms {
		switch term.Kind {
		case TermStatic:
			bonus += term.Value
		case TermDie:
			sides = append(sides, term.Sides)
		default:
			return RollResult{}, fmt.Errorf("unknown formula term kind %q", term.Kind)
		}
	}
	result, err := RollDice(sides, rng)
	if err != nil {
		return RollResult{}, err
	}
	result.StaticBonus = bonus
	result.Total += bonus
	return result, nil
}

// NextSides returns the die after current in the progression. D20 stays D20;
// sizes outside the progression restart at D4.
func NextSides(current int) int {
	for i, s := range Progression {
		if s == current {
			if i+1 < len(Progression) {
				return Progression[i+1]
			}
			return s
		}
	}
	return Progression[0]
}

// UpgradePool applies steps upgrades. Each step advances the smallest die that
// is not a D20; when every die is a D20 (or the pool is empty) a D4 is added.
// The returned dice are ordered largest to smallest.
func UpgradePool(pool Pool, steps int) Pool {
	next := pool.Clone()
	for i := 0; i < steps; i++ {
		idx := -1
		for j, s := range next.Dice {
			if s == MaxSides {
				continue
			}
			if idx == -1 || s < next.Dice[idx] {
				idx = j
			}
		}
		if idx == -1 {
			next.Dice = append(next.Dice, Progression[0])
			continue
		}
		next.Dice[idx] = NextSides(next.Dice[idx])
	}
	sort.Sort(sort.Reverse(sort.IntSlice(next.Dice)))
	return next
}

// ValidatePool checks that a stat pool is non-empty and uses canonical sizes.
func ValidatePool(pool Pool) error {
	if len(pool.Dice) == 0 {
		return fmt.Errorf("%w: pool must have at least one die", ErrInvalidPool)
	}
	for _, s := range pool.Dice {
		if !IsCanonical(s) {
			return fmt.Errorf("%w: D%d is not in the progression", ErrInvalidPool, s)
		}
	}
	return nil
}

// IsCanonical reports whether sides is part of the progression.
func IsCanonical(sides int) bool {
	for _, s := range Progression {
		if s == sides {
			return true
		}
	}
	return false
}
