package rules

import (
	"sort"
	"sync"
)

// WatcherScope defines the scope of a watcher's tracking.
type WatcherScope int

const (
	// WatcherScopeGame tracks events for the entire game.
	WatcherScopeGame WatcherScope = iota
	// WatcherScopePlayer tracks events for a single player.
	WatcherScopePlayer
)

// String returns the string representation of the watcher scope.
func (ws WatcherScope) String() string {
	switch ws {
	case WatcherScopeGame:
		return "GAME"
	case WatcherScopePlayer:
		return "PLAYER"
	default:
		return "UNKNOWN"
	}
}

// Watcher observes game events and tracks a condition or tally.
type Watcher interface {
	// Watch is called for every event delivered to the registry.
	Watch(event Event)

	// Reset clears tracked state between games.
	Reset()

	// ConditionMet reports whether the tracked condition has happened.
	ConditionMet() bool

	GetScope() WatcherScope

	// GetKey returns a key unique within a registry. Player scoped watchers
	// prefix it with their player id.
	GetKey() string

	// Copy creates a deep copy of this watcher.
	Copy() Watcher
}

// BaseWatcher carries the bookkeeping shared by all watchers.
type BaseWatcher struct {
	scope     WatcherScope
	playerID  string
	condition bool
	key       string
}

// NewBaseWatcher creates a base watcher with the given scope and key.
func NewBaseWatcher(scope WatcherScope, key string) *BaseWatcher {
	return &BaseWatcher{scope: scope, key: key}
}

// GetScope returns the watcher's scope.
func (bw *BaseWatcher) GetScope() WatcherScope {
	return bw.scope
}

// SetPlayerID binds a player scoped watcher to one player.
func (bw *BaseWatcher) SetPlayerID(id string) {
	bw.playerID = id
}

// GetPlayerID returns the bound player, if any.
func (bw *BaseWatcher) GetPlayerID() string {
	return bw.playerID
}

// Accepts reports whether event is in scope for this watcher.
func (bw *BaseWatcher) Accepts(event Event) bool {
	return bw.scope != WatcherScopePlayer || bw.playerID == "" || event.PlayerID == bw.playerID
}

// ConditionMet returns whether the condition has been met.
func (bw *BaseWatcher) ConditionMet() bool {
	return bw.condition
}

// SetCondition sets the condition flag.
func (bw *BaseWatcher) SetCondition(condition bool) {
	bw.condition = condition
}

// Reset clears the condition.
func (bw *BaseWatcher) Reset() {
	bw.condition = false
}

// GetKey returns the watcher key, prefixed by the player for player scope.
func (bw *BaseWatcher) GetKey() string {
	if bw.scope == WatcherScopePlayer && bw.playerID != "" {
		return bw.playerID + "_" + bw.key
	}
	return bw.key
}

// WatcherRegistry holds the watchers of one game.
type WatcherRegistry struct {
	gameID string

	mu       sync.RWMutex
	watchers map[string]Watcher
}

// NewWatcherRegistry creates a registry for gameID. An empty gameID
// accepts events from every game.
func NewWatcherRegistry(gameID string) *WatcherRegistry {
	return &WatcherRegistry{
		gameID:   gameID,
		watchers: make(map[string]Watcher),
	}
}

// SetGameID rebinds the registry, for when the game id is only known after
// the registry was attached.
func (wr *WatcherRegistry) SetGameID(gameID string) {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	wr.gameID = gameID
}

// AddWatcher registers watcher, replacing any watcher with the same key.
func (wr *WatcherRegistry) AddWatcher(watcher Watcher) {
	if watcher == nil {
		return
	}
	wr.mu.Lock()
	defer wr.mu.Unlock()
	wr.watchers[watcher.GetKey()] = watcher
}

// GetWatcher retrieves a live watcher by key. Its state is only safe to read
// while no events are being delivered; use Copy for a stable view.
func (wr *WatcherRegistry) GetWatcher(key string) Watcher {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	return wr.watchers[key]
}

// GetWatchersByScope returns the watchers for scope, ordered by key.
func (wr *WatcherRegistry) GetWatchersByScope(scope WatcherScope) []Watcher {
	result := wr.GetAllWatchers()
	filtered := result[:0]
	for _, w := range result {
		if w.GetScope() == scope {
			filtered = append(filtered, w)
		}
	}
	return filtered
}

// GetAllWatchers returns every registered watcher, ordered by key.
func (wr *WatcherRegistry) GetAllWatchers() []Watcher {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	result := make([]Watcher, 0, len(wr.watchers))
	for _, watcher := range wr.watchers {
		result = append(result, watcher)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].GetKey() < result[j].GetKey() })
	return result
}

// ResetWatchers resets all watchers.
func (wr *WatcherRegistry) ResetWatchers() {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	for _, watcher := range wr.watchers {
		watcher.Reset()
	}
}

// Copy returns a detached registry holding a copy of every watcher, taken
// between two event deliveries.
func (wr *WatcherRegistry) Copy() *WatcherRegistry {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	c := NewWatcherRegistry(wr.gameID)
	for key, watcher := range wr.watchers {
		c.watchers[key] = watcher.Copy()
	}
	return c
}

// NotifyWatchers delivers event to every watcher when it belongs to this
// registry's game. Deliveries are serialized: watchers need no locking of
// their own.
func (wr *WatcherRegistry) NotifyWatchers(event Event) {
	wr.mu.Lock()
	defer wr.mu.Unlock()

	if wr.gameID != "" && event.GameID != wr.gameID {
		return
	}
	for _, watcher := range wr.watchers {
		watcher.Watch(event)
	}
}

// Attach subscribes the registry to bus and returns the subscription handle.
func (wr *WatcherRegistry) Attach(bus *EventBus) int {
	return bus.Subscribe(wr.NotifyWatchers)
}
