// Package roster defines the roster store port and its implementations.
//
// The store is a flat tabular service: rows of players keyed by an
// external id, one writable manual-action field per row, and an opaque
// state blob for persistence across restarts.
package roster

import (
	"context"

	"github.com/okian/clanmove/internal/domain/model"
)

// Selector names the rows to fetch and the metric column to prefer.
type Selector struct {
	// Range is the tabular range holding the roster, header row first,
	// e.g. "Roster!A1:G51".
	Range string

	// Metric is the ranking column to read. When it matches no header
	// the default metric aliases apply.
	Metric string
}

// Store provides read/write access to the roster and the persisted bot
// state. Implementations do the only I/O in the system; all methods
// honor ctx.
type Store interface {
	// Fetch reads the roster fresh. Unknown or missing fields parse
	// permissively; a data-shape problem degrades, it never errors.
	Fetch(ctx context.Context, sel Selector) ([]model.PlayerRecord, error)

	// WriteAction sets a player's manual action cell. The key is the
	// player's external id when known, otherwise the canonical name.
	// An empty action clears the cell. Returns ErrNotFound when no row
	// matches the key.
	WriteAction(ctx context.Context, key, action string) error

	// ClearActions empties every manual action cell and returns how
	// many were non-empty.
	ClearActions(ctx context.Context) (int, error)

	// CopyRange copies the values of src over dst, used for season
	// rollover from the source sheet to the working sheet.
	CopyRange(ctx context.Context, src, dst string) error

	// SaveState persists an opaque blob, replacing any previous one.
	SaveState(ctx context.Context, blob []byte) error

	// LoadState returns the last saved blob, or ErrNoState when none
	// was ever saved.
	LoadState(ctx context.Context) ([]byte, error)
}
