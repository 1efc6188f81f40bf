package roster

import (
	"context"
	"sync"

	"github.com/okian/clanmove/internal/domain/identity"
	"github.com/okian/clanmove/internal/domain/model"
)

// MemoryStore implements Store in memory. Used by tests and by clanctl
// dry runs against CSV rosters.
type MemoryStore struct {
	mu     sync.RWMutex
	rows   []model.PlayerRecord
	state  []byte
	ranges map[string][]model.PlayerRecord
}

// NewMemoryStore creates a memory store with configuration options.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{ranges: make(map[string][]model.PlayerRecord)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MemoryOption applies a configuration option to the MemoryStore.
type MemoryOption func(*MemoryStore)

// WithRoster seeds the working roster.
func WithRoster(rows []model.PlayerRecord) MemoryOption {
	return func(s *MemoryStore) {
		s.rows = append([]model.PlayerRecord(nil), rows...)
	}
}

// WithNamedRange seeds a named source range for CopyRange.
func WithNamedRange(name string, rows []model.PlayerRecord) MemoryOption {
	return func(s *MemoryStore) {
		s.ranges[name] = append([]model.PlayerRecord(nil), rows...)
	}
}

// Fetch returns a copy of the current roster. The selector is accepted
// for interface parity; the memory store has a single working range.
func (s *MemoryStore) Fetch(ctx context.Context, sel Selector) ([]model.PlayerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.PlayerRecord(nil), s.rows...), nil
}

// WriteAction sets the manual action of the row matching key.
func (s *MemoryStore) WriteAction(ctx context.Context, key, action string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rows {
		if matchesKey(s.rows[i], key) {
			s.rows[i].ManualAction = action
			return nil
		}
	}
	return ErrNotFound
}

// ClearActions empties every manual action cell.
func (s *MemoryStore) ClearActions(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cleared := 0
	for i := range s.rows {
		if s.rows[i].ManualAction != "" {
			s.rows[i].ManualAction = ""
			cleared++
		}
	}
	return cleared, nil
}

// CopyRange replaces the working roster with the named source range.
func (s *MemoryStore) CopyRange(ctx context.Context, src, dst string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.ranges[src]
	if !ok {
		return ErrBadRange
	}
	s.rows = append([]model.PlayerRecord(nil), rows...)
	return nil
}

// SaveState stores the opaque blob.
func (s *MemoryStore) SaveState(ctx context.Context, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = append([]byte(nil), blob...)
	return nil
}

// LoadState returns the stored blob.
func (s *MemoryStore) LoadState(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil, ErrNoState
	}
	return append([]byte(nil), s.state...), nil
}

// matchesKey matches a row by external id first, canonical name second.
func matchesKey(rec model.PlayerRecord, key string) bool {
	if key == "" {
		return false
	}
	if rec.ExternalID != "" && rec.ExternalID == key {
		return true
	}
	return identity.Identify(rec) == key
}
