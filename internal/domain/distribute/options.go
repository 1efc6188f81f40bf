// Package distribute implements the capacity-bounded partition of a
// ranked roster into the three clans.
package distribute

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithCapacity sets the per-clan headcount limit.
func WithCapacity(capacity int) Option {
	return func(e *Engine) {
		if capacity > 0 {
			e.capacity = capacity
		}
	}
}
