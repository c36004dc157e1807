package hub

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/taskwire/taskwire/internal/events"
)

// DefaultBufferSize is the per-subscriber channel buffer. A subscriber that
// falls this many events behind is dropped rather than allowed to block the
// write path.
const DefaultBufferSize = 16

// Subscription is a live registration with the hub. Events arrive on C in
// publish order. C is closed when the subscription is dropped, either by
// Unsubscribe, by the hub shutting down, or because the subscriber fell too
// far behind.
type Subscription struct {
	// ID identifies this subscription for Unsubscribe.
	ID uuid.UUID

	// C delivers task-added events in publish order.
	C <-chan events.TaskAdded

	ch chan events.TaskAdded
}

// Hub is a single-process broadcast fan-out implementing events.Publisher.
// It keeps no backlog: a subscriber connected after a publish never receives
// that event and must rely on a fresh snapshot fetch instead.
type Hub struct {
	mu     sync.Mutex
	subs   map[uuid.UUID]*Subscription
	closed bool

	bufferSize int
	logger     *slog.Logger
}

var _ events.Publisher = (*Hub)(nil)

// New creates a Hub with the default per-subscriber buffer size.
// If logger is nil, the default logger is used.
func New(logger *slog.Logger) *Hub {
	return NewWithBufferSize(logger, DefaultBufferSize)
}

// NewWithBufferSize creates a Hub with an explicit per-subscriber buffer
// size. A size of zero makes delivery purely synchronous-or-drop, which is
// mainly useful in tests exercising the backpressure path.
func NewWithBufferSize(logger *slog.Logger, bufferSize int) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	if bufferSize < 0 {
		bufferSize = 0
	}
	return &Hub{
		subs:       make(map[uuid.UUID]*Subscription),
		bufferSize: bufferSize,
		logger:     logger.With("component", "hub"),
	}
}

// Subscribe registers a new subscriber and returns its subscription.
// Returns nil if the hub has already been closed.
func (h *Hub) Subscribe() *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}

	ch := make(chan events.TaskAdded, h.bufferSize)
	sub := &Subscription{
		ID: uuid.New(),
		C:  ch,
		ch: ch,
	}
	h.subs[sub.ID] = sub

	h.logger.Debug("subscriber registered",
		"subscription_id", sub.ID,
		"subscriber_count", len(h.subs))
	return sub
}

// Unsubscribe removes the subscription with the given id and closes its
// channel. It is idempotent: unknown or already-removed ids are a no-op,
// and publishing after Unsubscribe never delivers to that subscription.
func (h *Hub) Unsubscribe(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(id, "unsubscribed")
}

// Publish sends the event to every subscriber registered at call time.
// Delivery is at-most-once per subscriber and never blocks: a subscriber
// whose buffer is full is dropped from further delivery instead of stalling
// the caller or its peers. Publish never returns an error caused by a
// single bad subscriber; with zero subscribers it is a no-op.
func (h *Hub) Publish(ctx context.Context, event events.TaskAdded) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || len(h.subs) == 0 {
		return nil
	}

	var dropped []uuid.UUID
	for id, sub := range h.subs {
		select {
		case sub.ch <- event:
		default:
			// Slow subscriber: buffer full. Drop it rather than block.
			dropped = append(dropped, id)
		}
	}

	for _, id := range dropped {
		h.dropLocked(id, "buffer full")
	}

	h.logger.Debug("event published",
		"event_id", event.ID,
		"event_kind", event.Kind(),
		"task_id", event.Task.ID,
		"delivered", len(h.subs),
		"dropped", len(dropped))
	return nil
}

// Close drops all subscribers and rejects future subscriptions.
// Safe to call more than once.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id := range h.subs {
		h.dropLocked(id, "hub closed")
	}
}

// Len reports the current number of subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// dropLocked removes and closes a subscription. Caller must hold h.mu.
func (h *Hub) dropLocked(id uuid.UUID, reason string) {
	sub, ok := h.subs[id]
	if !ok {
		return
	}
	delete(h.subs, id)
	close(sub.ch)

	h.logger.Debug("subscriber dropped",
		"subscription_id", id,
		"reason", reason,
		"subscriber_count", len(h.subs))
}
