package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	t.Parallel()

	d := NewInMemoryDispatcher()

	var got []Event
	d.Subscribe(EventUserRegistered, func(ctx context.Context, event Event) error {
		got = append(got, event)
		return nil
	})

	err := d.Publish(context.Background(), Event{ID: "1", Type: EventUserRegistered, UserID: "user-1"})
	if err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if len(got) != 1 || got[0].UserID != "user-1" {
		t.Fatalf("handler received %+v, want one event for user-1", got)
	}
}

func TestDispatcherIgnoresUnrelatedEvents(t *testing.T) {
	t.Parallel()

	d := NewInMemoryDispatcher()

	calls := 0
	d.Subscribe(EventFavoriteAdded, func(ctx context.Context, event Event) error {
		calls++
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventSearchSaved}); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if calls != 0 {
		t.Fatalf("handler called %d times for an unrelated event type", calls)
	}
}

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	t.Parallel()

	d := NewInMemoryDispatcher()

	d.Subscribe(EventSearchSaved, func(ctx context.Context, event Event) error {
		return errors.New("handler failed")
	})
	reached := false
	d.Subscribe(EventSearchSaved, func(ctx context.Context, event Event) error {
		reached = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventSearchSaved}); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if !reached {
		t.Fatalf("second handler not invoked after first handler error")
	}
}
