// Package watchers holds event watchers that tally per-player encounter
// statistics. Register them on a rules.WatcherRegistry attached to an
// engine's event bus.
package watchers

import (
	"github.com/wanderdeck/engine/internal/game/rules"
)

// EncounterRecord counts resolutions for one player.
type EncounterRecord struct {
	Won         int
	Lost        int
	ByIntention map[string]int
}

// EncountersResolvedWatcher tracks resolved encounters per player.
type EncountersResolvedWatcher struct {
	*rules.BaseWatcher
	records map[string]*EncounterRecord // playerID -> record
}

// NewEncountersResolvedWatcher creates an encounters resolved watcher.
func NewEncountersResolvedWatcher() *EncountersResolvedWatcher {
	return &EncountersResolvedWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame, "EncountersResolvedWatcher"),
		records:     make(map[string]*EncounterRecord),
	}
}

// Watch implements the Watcher interface.
func (w *EncountersResolvedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventEncounterResolved || event.PlayerID == "" {
		return
	}
	rec := w.records[event.PlayerID]
	if rec == nil {
		rec = &EncounterRecord{ByIntention: make(map[string]int)}
		w.records[event.PlayerID] = rec
	}
	if event.Flag {
		rec.Won++
		rec.ByIntention[event.Data]++
		w.SetCondition(true)
	} else {
		rec.Lost++
	}
}

// Reset clears the watcher's state.
func (w *EncountersResolvedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.records = make(map[string]*EncounterRecord)
}

// Record returns a copy of playerID's record.
func (w *EncountersResolvedWatcher) Record(playerID string) EncounterRecord {
	rec := w.records[playerID]
	if rec == nil {
		return EncounterRecord{ByIntention: map[string]int{}}
	}
	out := EncounterRecord{Won: rec.Won, Lost: rec.Lost, ByIntention: make(map[string]int, len(rec.ByIntention))}
	for k, v := range rec.ByIntention {
		out.ByIntention[k] = v
	}
	return out
}

// Copy creates a copy of this watcher.
func (w *EncountersResolvedWatcher) Copy() rules.Watcher {
	c := NewEncountersResolvedWatcher()
	c.SetCondition(w.ConditionMet())
	for id := range w.records {
		rec := w.Record(id)
		c.records[id] = &rec
	}
	return c
}

// CompanionsLostWatcher tracks companions killed in counter-attacks.
type CompanionsLostWatcher struct {
	*rules.BaseWatcher
	lost map[string][]string // playerID -> creature ids
}

// NewCompanionsLostWatcher creates a companions lost watcher.
func NewCompanionsLostWatcher() *CompanionsLostWatcher {
	return &CompanionsLostWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame, "CompanionsLostWatcher"),
		lost:        make(map[string][]string),
	}
}

// Watch implements the Watcher interface.
func (w *CompanionsLostWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventCompanionDied || event.PlayerID == "" {
		return
	}
	w.lost[event.PlayerID] = append(w.lost[event.PlayerID], event.TargetID)
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CompanionsLostWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.lost = make(map[string][]string)
}

// GetLost returns the creature ids playerID lost.
func (w *CompanionsLostWatcher) GetLost(playerID string) []string {
	return w.lost[playerID]
}

// Total returns the number of companions lost across all players.
func (w *CompanionsLostWatcher) Total() int {
	n := 0
	for _, ids := range w.lost {
		n += len(ids)
	}
	return n
}

// Copy creates a copy of this watcher.
func (w *CompanionsLostWatcher) Copy() rules.Watcher {
	c := NewCompanionsLostWatcher()
	c.SetCondition(w.ConditionMet())
	for k, v := range w.lost {
		c.lost[k] = append([]string(nil), v...)
	}
	return c
}

// CreaturesCharmedWatcher tracks creatures added to docks by charming.
type CreaturesCharmedWatcher struct {
	*rules.BaseWatcher
	charmed map[string][]string // playerID -> creature ids
}

// NewCreaturesCharmedWatcher creates a creatures charmed watcher.
func NewCreaturesCharmedWatcher() *CreaturesCharmedWatcher {
	return &CreaturesCharmedWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame, "CreaturesCharmedWatcher"),
		charmed:     make(map[string][]string),
	}
}

// Watch implements the Watcher interface.
func (w *CreaturesCharmedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventCreatureCharmed || event.PlayerID == "" {
		return
	}
	w.charmed[event.PlayerID] = append(w.charmed[event.PlayerID], event.TargetID)
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CreaturesCharmedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.charmed = make(map[string][]string)
}

// GetCharmed returns the creature ids playerID charmed.
func (w *CreaturesCharmedWatcher) GetCharmed(playerID string) []string {
	return w.charmed[playerID]
}

// Total returns the number of creatures charmed across all players.
func (w *CreaturesCharmedWatcher) Total() int {
	n := 0
	for _, ids := range w.charmed {
		n += len(ids)
	}
	return n
}

// Copy creates a copy of this watcher.
func (w *CreaturesCharmedWatcher) Copy() rules.Watcher {
	c := NewCreaturesCharmedWatcher()
	c.SetCondition(w.ConditionMet())
	for k, v := range w.charmed {
		c.charmed[k] = append([]string(nil), v...)
	}
	return c
}

// DamageTakenWatcher sums counter-attack damage for one player.
type DamageTakenWatcher struct {
	*rules.BaseWatcher
	damage int
}

// NewDamageTakenWatcher creates a player scoped damage watcher.
func NewDamageTakenWatcher(playerID string) *DamageTakenWatcher {
	w := &DamageTakenWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopePlayer, "DamageTakenWatcher"),
	}
	w.SetPlayerID(playerID)
	return w
}

// Watch implements the Watcher interface.
func (w *DamageTakenWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventDamageTaken || !w.Accepts(event) {
		return
	}
	w.damage += event.Amount
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *DamageTakenWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.damage = 0
}

// GetDamage returns the damage taken so far.
func (w *DamageTakenWatcher) GetDamage() int {
	return w.damage
}

// Copy creates a copy of this watcher.
func (w *DamageTakenWatcher) Copy() rules.Watcher {
	c := NewDamageTakenWatcher(w.GetPlayerID())
	c.damage = w.damage
	c.SetCondition(w.ConditionMet())
	return c
}
