package messaging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"mentalmaps/internal/shared/events"
)

func TestPublishDeliversToTopicSubscribers(t *testing.T) {
	bus, err := NewKafka(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("new bus: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan events.Envelope, 1)
	if err := bus.Subscribe(ctx, "mentalmaps.events", "test", func(_ context.Context, event events.Envelope) error {
		received <- event
		return nil
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	other := make(chan events.Envelope, 1)
	if err := bus.Subscribe(ctx, "other.topic", "test", func(_ context.Context, event events.Envelope) error {
		other <- event
		return nil
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := bus.Publish(ctx, "mentalmaps.events", events.Envelope{EventID: "evt_1", EventType: events.TypeMapDeleted}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case event := <-received:
		if event.EventID != "evt_1" {
			t.Fatalf("unexpected event %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatalf("event was not delivered")
	}
	select {
	case event := <-other:
		t.Fatalf("unexpected delivery on other topic: %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscriberRemovedOnCancel(t *testing.T) {
	bus, _ := NewKafka(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())

	if err := bus.Subscribe(ctx, "topic", "test", func(context.Context, events.Envelope) error {
		return errors.New("boom")
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	cancel()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		bus.mu.RLock()
		remaining := len(bus.subscribers["topic"])
		bus.mu.RUnlock()
		if remaining == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("subscriber was not removed after cancel")
}
