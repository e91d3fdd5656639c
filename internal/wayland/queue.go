package wayland

import (
	"context"

	"github.com/veilwm/veil/internal/protocol"
)

// DefaultDestroyQueueCapacity bounds pending destroy-global requests.
// Producers are infrequent (surface teardown), so a small queue suffices;
// a full queue blocks the producer rather than dropping the request.
const DefaultDestroyQueueCapacity = 8

// DestroyQueue carries destroy-global requests from any goroutine to the
// dispatch loop, the only consumer allowed to mutate the global registry.
// The marshalling layer requires all registry mutation to originate from
// the goroutine driving dispatch; funneling destruction through this queue
// preserves that no matter which thread decided a global should die.
type DestroyQueue struct {
	ch chan protocol.GlobalID
}

func newDestroyQueue(capacity int) *DestroyQueue {
	if capacity <= 0 {
		capacity = DefaultDestroyQueueCapacity
	}
	return &DestroyQueue{ch: make(chan protocol.GlobalID, capacity)}
}

// Enqueue requests removal of a global. Blocks while the queue is full,
// giving natural backpressure; returns ctx.Err() if the caller gives up
// first.
func (q *DestroyQueue) Enqueue(ctx context.Context, id protocol.GlobalID) error {
	select {
	case q.ch <- id:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *DestroyQueue) recv() <-chan protocol.GlobalID {
	return q.ch
}
