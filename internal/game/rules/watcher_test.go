package rules

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingWatcher struct {
	*BaseWatcher
	seen int
}

func newCountingWatcher(scope WatcherScope, playerID string) *countingWatcher {
	w := &countingWatcher{BaseWatcher: NewBaseWatcher(scope, "Counting")}
	w.SetPlayerID(playerID)
	return w
}

func (w *countingWatcher) Watch(event Event) {
	if !w.Accepts(event) {
		return
	}
	w.seen++
	w.SetCondition(true)
}

func (w *countingWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.seen = 0
}

func (w *countingWatcher) Copy() Watcher {
	c := newCountingWatcher(w.GetScope(), w.GetPlayerID())
	c.seen = w.seen
	c.SetCondition(w.ConditionMet())
	return c
}

func TestWatcherScopeString(t *testing.T) {
	assert.Equal(t, "GAME", WatcherScopeGame.String())
	assert.Equal(t, "PLAYER", WatcherScopePlayer.String())
	assert.Equal(t, "UNKNOWN", WatcherScope(9).String())
}

func TestBaseWatcherKeys(t *testing.T) {
	game := newCountingWatcher(WatcherScopeGame, "")
	assert.Equal(t, "Counting", game.GetKey())

	player := newCountingWatcher(WatcherScopePlayer, "p1")
	assert.Equal(t, "p1_Counting", player.GetKey())
}

func TestWatcherRegistryFiltersByGameAndPlayer(t *testing.T) {
	registry := NewWatcherRegistry("g1")
	all := newCountingWatcher(WatcherScopeGame, "")
	p1 := newCountingWatcher(WatcherScopePlayer, "p1")
	registry.AddWatcher(all)
	registry.AddWatcher(p1)

	registry.NotifyWatchers(NewEvent(EventTurnStarted, "g1", "p1", ""))
	registry.NotifyWatchers(NewEvent(EventTurnStarted, "g1", "p2", ""))
	registry.NotifyWatchers(NewEvent(EventTurnStarted, "g2", "p1", ""))

	assert.Equal(t, 2, all.seen)
	assert.Equal(t, 1, p1.seen)
	assert.True(t, p1.ConditionMet())

	registry.ResetWatchers()
	assert.Zero(t, all.seen)
	assert.False(t, all.ConditionMet())
}

func TestWatcherRegistryLookup(t *testing.T) {
	registry := NewWatcherRegistry("")
	registry.AddWatcher(nil)
	registry.AddWatcher(newCountingWatcher(WatcherScopePlayer, "p2"))
	registry.AddWatcher(newCountingWatcher(WatcherScopePlayer, "p1"))
	registry.AddWatcher(newCountingWatcher(WatcherScopeGame, ""))

	require.NotNil(t, registry.GetWatcher("p1_Counting"))
	assert.Nil(t, registry.GetWatcher("missing"))

	players := registry.GetWatchersByScope(WatcherScopePlayer)
	require.Len(t, players, 2)
	assert.Equal(t, "p1_Counting", players[0].GetKey())
	assert.Len(t, registry.GetAllWatchers(), 3)
}

func TestWatcherRegistryCopyIsDetached(t *testing.T) {
	registry := NewWatcherRegistry("g1")
	w := newCountingWatcher(WatcherScopeGame, "")
	registry.AddWatcher(w)
	registry.NotifyWatchers(NewEvent(EventTurnStarted, "g1", "p1", ""))

	snapshot := registry.Copy()
	registry.NotifyWatchers(NewEvent(EventTurnStarted, "g1", "p1", ""))
	registry.ResetWatchers()

	copied := snapshot.GetWatcher("Counting").(*countingWatcher)
	assert.NotSame(t, w, copied)
	assert.Equal(t, 1, copied.seen)
	assert.True(t, copied.ConditionMet())
	assert.Zero(t, w.seen)

	// the copy keeps the game binding
	snapshot.NotifyWatchers(NewEvent(EventTurnStarted, "g2", "p1", ""))
	assert.Equal(t, 1, copied.seen)
}

func TestWatcherRegistryConcurrentDelivery(t *testing.T) {
	bus := NewEventBus()
	registry := NewWatcherRegistry("")
	w := newCountingWatcher(WatcherScopeGame, "")
	registry.AddWatcher(w)
	registry.Attach(bus)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				bus.Publish(NewEvent(EventEncounterResolved, "g1", "p1", "goose"))
				_ = registry.Copy()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 800, w.seen)
}

func TestWatcherRegistryAttach(t *testing.T) {
	bus := NewEventBus()
	registry := NewWatcherRegistry("")
	w := newCountingWatcher(WatcherScopeGame, "")
	registry.AddWatcher(w)

	handle := registry.Attach(bus)
	registry.SetGameID("g1")
	bus.Publish(NewEvent(EventEncounterDrawn, "g1", "p1", "goose"))
	bus.Publish(NewEvent(EventEncounterDrawn, "g2", "p1", "goose"))
	assert.Equal(t, 1, w.seen)

	bus.Unsubscribe(handle)
	bus.Publish(NewEvent(EventEncounterDrawn, "g1", "p1", "goose"))
	assert.Equal(t, 1, w.seen)
}

func TestWatcherCopyIsIndependent(t *testing.T) {
	w := newCountingWatcher(WatcherScopeGame, "")
	w.Watch(NewEvent(EventTurnEnded, "g1", "p1", ""))

	c := w.Copy().(*countingWatcher)
	c.Watch(NewEvent(EventTurnEnded, "g1", "p1", ""))
	assert.Equal(t, 1, w.seen)
	assert.Equal(t, 2, c.seen)
	assert.True(t, c.ConditionMet())
}
