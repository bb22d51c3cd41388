// Package deck expands quantity-based deck specifications and shuffles them.
package deck

import (
	"errors"
	"fmt"
	"math"

	"github.com/wanderdeck/engine/internal/game/dice"
)

// ErrInvalidCount is returned when a deck entry has a negative count.
var ErrInvalidCount = errors.New("invalid deck entry count")

// Entry is one line of a deck specification: a card and how many copies of it.
type Entry[T any] struct {
	Card  T
	Count int
}

// Shuffler reorders a deck. Implementations must not modify the input slice.
type Shuffler[T any] func(cards []T) []T

// Build expands a specification into a flat deck in specification order.
func Build[T any](spec []Entry[T]) ([]T, error) {
	size := 0
	for i, entry := range spec {
		if entry.Count < 0 {
			return nil, fmt.Errorf("%w: entry %d has count %d", ErrInvalidCount, i, entry.Count)
		}
		size += entry.Count
	}
	cards := make([]T, 0, size)
	for _, entry := range spec {
		for i := 0; i < entry.Count; i++ {
			cards = append(cards, entry.Card)
		}
	}
	return cards, nil
}

// Shuffle returns a Fisher–Yates shuffled copy of items.
func Shuffle[T any](items []T, rng dice.Rng) []T {
	out := append([]T(nil), items...)
	for i := len(out) - 1; i > 0; i-- {
		j := int(math.Floor(rng() * float64(i+1)))
		if j > i {
			j = i
		}
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Identity returns a copy of the deck in its current order.
func Identity[T any](cards []T) []T {
	return append([]T(nil), cards...)
}

// NewShuffler binds Shuffle to rng.
func NewShuffler[T any](rng dice.Rng) Shuffler[T] {
	return func(cards []T) []T {
		return Shuffle(cards, rng)
	}
}
