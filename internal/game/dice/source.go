package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// NewRng returns a deterministic Rng seeded with seed.
func NewRng(seed int64) Rng {
	r := rand.New(rand.NewSource(seed))
	return r.Float64
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Sequence replays a fixed list of values. Once exhausted it returns 0 and
// counts the overrun so tests can assert that no extra rolls happened.
type Sequence struct {
	values  []float64
	next    int
	overrun int
}

// NewSequence creates a scripted source.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: append([]float64(nil), values...)}
}

// Next returns the next scripted value.
func (s *Sequence) Next() float64 {
	if s.next >= len(s.values) {
		s.overrun++
		return 0
	}
	v := s.values[s.next]
	s.next++
	return v
}

// Rng exposes the sequence as an Rng.
func (s *Sequence) Rng() Rng { return s.Next }

// Remaining returns how many scripted values are left.
func (s *Sequence) Remaining() int { return len(s.values) - s.next }

// Overrun returns how many calls happened after exhaustion.
func (s *Sequence) Overrun() int { return s.overrun }

// Face returns the scripted value that makes RollDie(sides) land on face.
func Face(face, sides int) float64 {
	return (float64(face) - 0.5) / float64(sides)
}
