package rules

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTurnOrder is returned when a turn manager has no players.
	ErrEmptyTurnOrder = errors.New("turn order cannot be empty")
	// ErrIndexOutOfBounds is returned when the active index is outside the order.
	ErrIndexOutOfBounds = errors.New("active index out of bounds")
)

// Phase is one step of a player's turn.
type Phase int

const (
	PhasePreparation Phase = iota
	PhaseEncounter
	PhaseResolution
)

var phaseNames = map[Phase]string{
	PhasePreparation: "PREPARATION",
	PhaseEncounter:   "ENCOUNTER",
	PhaseResolution:  "RESOLUTION",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// TurnState is the plain-data form of a TurnManager.
type TurnState struct {
	Order       []string
	ActiveIndex int
	Phase       Phase
}

// TurnManager tracks whose turn it is and which phase is active. It knows
// nothing about cards or effects. Values are immutable: every transition
// returns a new TurnManager.
type TurnManager struct {
	order       []string
	activeIndex int
	phase       Phase
}

// NewTurnManager starts at the first player in preparation.
func NewTurnManager(order []string) (TurnManager, error) {
	return RestoreTurnManager(TurnState{Order: order, ActiveIndex: 0, Phase: PhasePreparation})
}

// RestoreTurnManager rebuilds a manager from a snapshot, validating bounds.
func RestoreTurnManager(state TurnState) (TurnManager, error) {
	if len(state.Order) == 0 {
		return TurnManager{}, ErrEmptyTurnOrder
	}
	if state.ActiveIndex < 0 || state.ActiveIndex >= len(state.Order) {
		return TurnManager{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfBounds, state.ActiveIndex, len(state.Order))
	}
	if _, ok := phaseNames[state.Phase]; !ok {
		return TurnManager{}, fmt.Errorf("unknown phase %s", state.Phase)
	}
	return TurnManager{
		order:       append([]string(nil), state.Order...),
		activeIndex: state.ActiveIndex,
		phase:       state.Phase,
	}, nil
}

// Snapshot returns a copy so callers cannot reach the internal order.
func (tm TurnManager) Snapshot() TurnState {
	return TurnState{
		Order:       append([]string(nil), tm.order...),
		ActiveIndex: tm.activeIndex,
		Phase:       tm.phase,
	}
}

// CurrentPlayerID returns the player whose turn it is.
func (tm TurnManager) CurrentPlayerID() string {
	return tm.order[tm.activeIndex]
}

// Phase returns the phase currently in progress.
func (tm TurnManager) Phase() Phase {
	return tm.phase
}

// NextPhase cycles preparation -> encounter -> resolution -> preparation
// without changing the active player. Leaving resolution is normally done
// through NextTurn; calling NextPhase there keeps the same player.
func (tm TurnManager) NextPhase() TurnManager {
	next := tm
	switch tm.phase {
	case PhasePreparation:
		next.phase = PhaseEncounter
	case PhaseEncounter:
		next.phase = PhaseResolution
	default:
		next.phase = PhasePreparation
	}
	return next
}

// NextTurn advances to the next player, wrapping, and resets to preparation.
func (tm TurnManager) NextTurn() TurnManager {
	next := tm
	next.activeIndex = (tm.activeIndex + 1) % len(tm.order)
	next.phase = PhasePreparation
	return next
}
