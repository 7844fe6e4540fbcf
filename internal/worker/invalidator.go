// Package worker consumes movement events and drops the cached views
// of the owners they mention, so the next request refetches.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"bankdg/internal/amqp"
	"bankdg/internal/cache"
	"bankdg/internal/debounce"
)

// Consumer is the slice of the AMQP client the worker needs.
type Consumer interface {
	ConsumeMovementEvents(ctx context.Context, handler func(*amqp.MovementEvent) error) error
}

// Invalidator wires movement events to cache invalidation. Bursts of
// events for the same owner coalesce into a single invalidation after
// a quiet window.
type Invalidator struct {
	consumer Consumer
	caches   []cache.Invalidator
	window   time.Duration

	mu      sync.Mutex
	pending map[string]*debounce.Debouncer
}

func NewInvalidator(consumer Consumer, caches ...cache.Invalidator) *Invalidator {
	return &Invalidator{
		consumer: consumer,
		caches:   caches,
		window:   debounce.DefaultWait,
		pending:  make(map[string]*debounce.Debouncer),
	}
}

// HandleMovementEvent schedules an invalidation for the event's owner.
// Later events for the same owner within the quiet window replace the
// pending one.
func (w *Invalidator) HandleMovementEvent(_ context.Context, msg *amqp.MovementEvent) error {
	ownerID := msg.OwnerID
	ownerKind := msg.OwnerKind

	w.mu.Lock()
	d, ok := w.pending[ownerID]
	if !ok {
		d = debounce.New(w.window)
		w.pending[ownerID] = d
	}
	w.mu.Unlock()

	d.Do(func() { w.invalidate(ownerID, ownerKind) })
	return nil
}

func (w *Invalidator) invalidate(ownerID, ownerKind string) {
	dropped := 0
	for _, c := range w.caches {
		dropped += c.InvalidateOwner(ownerID)
	}
	slog.Info("Invalidated cached views",
		"owner_id", ownerID,
		"owner_kind", ownerKind,
		"entries_dropped", dropped)
}

// Run consumes events until ctx is cancelled, then flushes nothing:
// undropped entries simply expire by TTL.
func (w *Invalidator) Run(ctx context.Context) error {
	defer w.stopPending()
	return w.consumer.ConsumeMovementEvents(ctx, func(msg *amqp.MovementEvent) error {
		return w.HandleMovementEvent(ctx, msg)
	})
}

func (w *Invalidator) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, d := range w.pending {
		d.Stop()
	}
}
