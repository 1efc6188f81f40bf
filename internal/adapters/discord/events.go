package discord

import (
	"context"
	"sync"

	"github.com/okian/clanmove/pkg/metrics"
)

// event is one user-initiated operation, captured as a closure so the
// consumer can run it without knowing interaction details.
type event struct {
	kind string
	run  func(ctx context.Context)
}

// eventQueue serializes interactions: Discord delivers handlers on
// separate goroutines, but the core expects one operation at a time.
// A buffered channel with a single consumer provides the ordering.
type eventQueue struct {
	events chan event
	mu     sync.RWMutex
	closed bool
}

func newEventQueue(size int) *eventQueue {
	if size <= 0 {
		size = 64
	}
	return &eventQueue{events: make(chan event, size)}
}

// enqueue adds an event. Returns false when the queue is full or
// closed; the caller answers the interaction with a busy notice.
func (q *eventQueue) enqueue(e event) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}
	select {
	case q.events <- e:
		metrics.RecordDiscordEvent(e.kind)
		metrics.UpdateDiscordQueueDepth(len(q.events))
		return true
	default:
		return false
	}
}

// consume runs events one at a time until ctx is done or the queue is
// closed and drained.
func (q *eventQueue) consume(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-q.events:
			if !ok {
				return
			}
			e.run(ctx)
			metrics.UpdateDiscordQueueDepth(len(q.events))
		}
	}
}

func (q *eventQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.events)
	}
}
