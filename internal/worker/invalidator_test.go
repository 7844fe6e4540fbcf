package worker

import (
	"context"
	"testing"
	"time"

	"bankdg/internal/amqp"
	"bankdg/internal/cache"
)

func waitForEmpty(t *testing.T, c *cache.LRU[string]) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for c.Size() > 0 {
		select {
		case <-deadline:
			t.Fatal("cache never invalidated")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestHandleMovementEventInvalidatesOwner(t *testing.T) {
	views := cache.NewLRU[string](16, time.Minute)
	views.Set(cache.Key("acc-1", "view", "p1"), "a")
	views.Set(cache.Key("acc-1", "view", "p2"), "b")
	keep := cache.NewLRU[string](16, time.Minute)
	keep.Set(cache.Key("acc-2", "view", "p1"), "c")

	w := NewInvalidator(nil, views, keep)
	w.window = 10 * time.Millisecond

	if err := w.HandleMovementEvent(context.Background(), amqp.NewMovementEvent("acc-1", "account")); err != nil {
		t.Fatal(err)
	}
	waitForEmpty(t, views)

	if _, ok := keep.Get(cache.Key("acc-2", "view", "p1")); !ok {
		t.Fatal("other owner's entry lost")
	}
}

func TestBurstCoalescesIntoOneInvalidation(t *testing.T) {
	views := cache.NewLRU[string](16, time.Minute)
	w := NewInvalidator(nil, views)
	w.window = 30 * time.Millisecond

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		views.Set(cache.Key("acc-1", "view", "p1"), "a")
		if err := w.HandleMovementEvent(ctx, amqp.NewMovementEvent("acc-1", "account")); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}
	// The burst keeps extending the quiet window; entries survive it.
	if views.Size() != 1 {
		t.Fatalf("invalidation fired mid-burst, size = %d", views.Size())
	}
	waitForEmpty(t, views)
}

type stubConsumer struct {
	events []*amqp.MovementEvent
}

func (s *stubConsumer) ConsumeMovementEvents(ctx context.Context, handler func(*amqp.MovementEvent) error) error {
	for _, e := range s.events {
		if err := handler(e); err != nil {
			return err
		}
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestRunConsumesAndStopsOnCancel(t *testing.T) {
	views := cache.NewLRU[string](16, time.Minute)
	views.Set(cache.Key("acc-1", "view", "p1"), "a")

	consumer := &stubConsumer{events: []*amqp.MovementEvent{amqp.NewMovementEvent("acc-1", "account")}}
	w := NewInvalidator(consumer, views)
	w.window = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	waitForEmpty(t, views)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
