package events

import (
	"log/slog"
	"sync"
)

// observerBuffer is the per-observer channel capacity. Broadcast drops an
// event for an observer whose buffer is full rather than waiting for it.
const observerBuffer = 16

// Hub is a registry of concurrently-connected progress observers. It
// implements Broadcaster by delivering each event to every observer
// registered at emission time. Events sent to a single observer preserve
// emission order; delivery across observers carries no ordering guarantee.
type Hub struct {
	mu        sync.Mutex
	observers map[chan ProgressEvent]struct{}
	logger    *slog.Logger
}

// NewHub creates a Hub with no observers.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		observers: make(map[chan ProgressEvent]struct{}),
		logger:    logger.With("component", "progress_hub"),
	}
}

// Register adds a new observer and returns the channel its events arrive on.
// The caller owns draining the channel and must call Unregister with the same
// channel when the observer goes away.
func (h *Hub) Register() chan ProgressEvent {
	ch := make(chan ProgressEvent, observerBuffer)

	h.mu.Lock()
	h.observers[ch] = struct{}{}
	count := len(h.observers)
	h.mu.Unlock()

	h.logger.Debug("observer registered", "observer_count", count)
	return ch
}

// Unregister removes an observer from the registry. It is idempotent and
// safe to call with a channel that was never registered. The channel is
// deliberately left open: a Broadcast racing with Unregister may still hold
// a reference to it, and sending on a closed channel would panic.
func (h *Hub) Unregister(ch chan ProgressEvent) {
	h.mu.Lock()
	delete(h.observers, ch)
	count := len(h.observers)
	h.mu.Unlock()

	h.logger.Debug("observer unregistered", "observer_count", count)
}

// Broadcast delivers the event to every currently-registered observer.
// Delivery is fire-and-forget: an observer with a full buffer misses the
// event instead of stalling the producer. With no observers registered the
// call is a no-op.
func (h *Hub) Broadcast(event ProgressEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.observers {
		select {
		case ch <- event:
		default:
		}
	}
}

// ObserverCount reports how many observers are currently registered.
func (h *Hub) ObserverCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.observers)
}
