package rules

// ActionKind enumerates what a player can ask to do.
type ActionKind string

const (
	ActionStartTurn                      ActionKind = "startTurn"
	ActionDrawEncounter                  ActionKind = "drawEncounter"
	ActionResolveEncounter               ActionKind = "resolveEncounter"
	ActionResolveEncounterToGraveyard    ActionKind = "resolveEncounterToGraveyard"
	ActionResolveEncounterAndShuffleBack ActionKind = "resolveEncounterAndShuffleBack"
	ActionEndTurn                        ActionKind = "endTurn"

	ActionShop            ActionKind = "shop"
	ActionSellItem        ActionKind = "sellItem"
	ActionEquipItem       ActionKind = "equipItem"
	ActionUseItem         ActionKind = "useItem"
	ActionAssignCompanion ActionKind = "assignCompanion"
)

// StateAccessor is the read-only view of game state the rules need.
type StateAccessor interface {
	ActivePlayerID() string
	Phase() Phase
	HasActiveEncounter() bool
}

// Decision is the result of a permission check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision             { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Reason: reason} }

// CanPerformAction reports whether playerID may perform action right now.
// It never changes state and is meant to be consulted before dispatching;
// the engine's transitions validate their own preconditions independently.
func CanPerformAction(playerID string, action ActionKind, state StateAccessor) bool {
	return Evaluate(playerID, action, state).Allowed
}

// Evaluate is CanPerformAction with a reason attached to denials.
func Evaluate(playerID string, action ActionKind, state StateAccessor) Decision {
	if state == nil {
		return deny("no game state")
	}
	if playerID != state.ActivePlayerID() {
		return deny("only the active player may act")
	}

	phase := state.Phase()
	hasEncounter := state.HasActiveEncounter()

	switch action {
	case ActionStartTurn, ActionDrawEncounter:
		return gate(phase == PhasePreparation && !hasEncounter, "requires preparation phase with no active encounter")

	case ActionResolveEncounter, ActionResolveEncounterToGraveyard, ActionResolveEncounterAndShuffleBack:
		return gate(phase == PhaseEncounter && hasEncounter, "requires encounter phase with an active encounter")

	case ActionEndTurn:
		return gate(phase == PhaseResolution && !hasEncounter, "requires resolution phase with no active encounter")

	case ActionShop, ActionSellItem, ActionEquipItem, ActionUseItem, ActionAssignCompanion:
		return gate(phase == PhasePreparation && !hasEncounter, "preparation actions require preparation phase with no active encounter")

	default:
		return deny("unknown action " + string(action))
	}
}

func gate(ok bool, reason string) Decision {
	if ok {
		return allow()
	}
	return deny(reason)
}
