package service

import "errors"

// Sentinel kinds for session errors.
var (
	// ErrNoDistribution means an operation needs a prior distribute run.
	ErrNoDistribution = errors.New("no distribution yet")

	// ErrUnknownClan flags a programmer or operator passing a clan
	// label outside the fixed three.
	ErrUnknownClan = errors.New("unknown clan")

	// ErrPlayerNotFound is the recoverable miss of a free-text lookup.
	ErrPlayerNotFound = errors.New("player not found")
)
