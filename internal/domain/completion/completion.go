// Package completion tracks which players have physically completed
// their assigned move.
//
// The set survives redistribution: a refresh recomputes assignments
// from the roster but never touches completion flags. Only an explicit
// Reset clears the set.
package completion

import (
	"strings"
	"sync"

	"github.com/okian/clanmove/internal/domain/identity"
	"github.com/okian/clanmove/internal/domain/model"
)

// Tracker is a persistent set of canonical identifiers. Safe for
// concurrent use; every mutation is a critical section so near
// simultaneous toggles serialize without lost updates.
type Tracker struct {
	mu   sync.RWMutex
	done map[string]struct{}
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{done: make(map[string]struct{})}
}

// Toggle flips membership for an identifier and reports the new state:
// true when the player is now marked complete.
func (t *Tracker) Toggle(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.done[id]; ok {
		delete(t.done, id)
		return false
	}
	t.done[id] = struct{}{}
	return true
}

// IsComplete reports whether a record's player is marked complete.
// Identity can drift between runs (display names change while the
// external id stays stable), so membership is resolved in layers:
// canonical identifier first, then the raw mention string, then a
// legacy scan for any entry that textually contains the external id.
func (t *Tracker) IsComplete(rec model.PlayerRecord) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if _, ok := t.done[identity.Identify(rec)]; ok {
		return true
	}
	if rec.Mention != "" {
		if _, ok := t.done[rec.Mention]; ok {
			return true
		}
	}
	if rec.ExternalID != "" {
		for entry := range t.done {
			if strings.Contains(entry, rec.ExternalID) {
				return true
			}
		}
	}
	return false
}

// Contains reports exact membership of an identifier, without the
// layered record fallback.
func (t *Tracker) Contains(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.done[id]
	return ok
}

// Size returns the current number of completed players.
func (t *Tracker) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.done)
}

// Reset clears the set. Used only by an explicit administrative reset.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done = make(map[string]struct{})
}

// Snapshot returns the identifiers in the set, for persistence.
// Order is unspecified.
func (t *Tracker) Snapshot() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]string, 0, len(t.done))
	for id := range t.done {
		ids = append(ids, id)
	}
	return ids
}

// Restore replaces the set with the given identifiers.
func (t *Tracker) Restore(ids []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.done = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			t.done[id] = struct{}{}
		}
	}
}
