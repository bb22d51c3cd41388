package rules

import (
	"sort"
	"sync"
	"time"
)

// EventType indicates the category of a game event.
type EventType string

const (
	// Game lifecycle
	EventGameStarted EventType = "GAME_STARTED"
	EventGameEnded   EventType = "GAME_ENDED"

	// Turn structure
	EventTurnStarted EventType = "TURN_STARTED"
	EventTurnEnded   EventType = "TURN_ENDED"

	// Encounters
	EventEncounterDrawn    EventType = "ENCOUNTER_DRAWN"
	EventEncounterResolved EventType = "ENCOUNTER_RESOLVED"
	EventDamageTaken       EventType = "DAMAGE_TAKEN"
	EventCompanionDied     EventType = "COMPANION_DIED"
	EventCreatureCharmed   EventType = "CREATURE_CHARMED"
	EventCoinGained        EventType = "COIN_GAINED"
	EventTreasureGained    EventType = "TREASURE_GAINED"

	// Preparation phase
	EventPlayerPrepared EventType = "PLAYER_PREPARED"
)

// Event is a committed state change other subsystems may react to. Which
// optional fields are set depends on Type.
type Event struct {
	Type      EventType
	GameID    string
	PlayerID  string
	TargetID  string // encounter, creature or treasure id
	Amount    int    // total rolled, damage or coin
	Flag      bool   // success, for ENCOUNTER_RESOLVED
	Data      string // intention or action kind
	Timestamp time.Time
}

// NewEvent creates an event stamped with the current time.
func NewEvent(eventType EventType, gameID, playerID, targetID string) Event {
	return Event{
		Type:      eventType,
		GameID:    gameID,
		PlayerID:  playerID,
		TargetID:  targetID,
		Timestamp: time.Now(),
	}
}

// NewEventWithAmount creates an event carrying a numeric value.
func NewEventWithAmount(eventType EventType, gameID, playerID, targetID string, amount int) Event {
	evt := NewEvent(eventType, gameID, playerID, targetID)
	evt.Amount = amount
	return evt
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

type typedListener struct {
	handle   int
	callback Listener
}

// EventBus is a synchronous publish/subscribe hub with type filtering.
// Listeners run on the publishing goroutine without the bus lock held, so
// they may publish or (un)subscribe themselves.
type EventBus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	typedListeners map[EventType][]typedListener
	nextHandle     int
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]typedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	return handle
}

// SubscribeTyped registers a listener for one event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback Listener) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], typedListener{handle: handle, callback: callback})
	return handle
}

// Unsubscribe removes the listener identified by handle, typed or not.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers event to every listener registered at the time of the
// call.
func (bus *EventBus) Publish(event Event) {
	for _, listener := range bus.matching(event.Type) {
		listener(event)
	}
}

func (bus *EventBus) matching(eventType EventType) []Listener {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	handles := make([]int, 0, len(bus.listeners))
	for handle := range bus.listeners {
		handles = append(handles, handle)
	}
	sort.Ints(handles)

	out := make([]Listener, 0, len(handles)+len(bus.typedListeners[eventType]))
	for _, handle := range handles {
		out = append(out, bus.listeners[handle])
	}
	for _, listener := range bus.typedListeners[eventType] {
		out = append(out, listener.callback)
	}
	return out
}

// PublishBatch publishes events in order.
func (bus *EventBus) PublishBatch(events []Event) {
	for _, event := range events {
		bus.Publish(event)
	}
}
