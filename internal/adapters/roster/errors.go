package roster

import "errors"

// Sentinel kinds for roster store errors.
var (
	ErrNotFound = errors.New("player row not found")
	ErrNoState  = errors.New("no saved state")
	ErrBadRange = errors.New("invalid range selector")
)
