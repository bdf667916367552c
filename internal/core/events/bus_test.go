package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outflow/internal/core/id"
)

func waitFor(t *testing.T, ch <-chan NoteCreated) NoteCreated {
	t.Helper()
	select {
	case evt := <-ch:
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return NoteCreated{}
	}
}

func TestBus_DeliversToAllSubscribers(t *testing.T) {
	bus := NewBus()
	first := make(chan NoteCreated, 1)
	second := make(chan NoteCreated, 1)

	bus.Subscribe(func(ctx context.Context, evt NoteCreated) { first <- evt })
	bus.Subscribe(func(ctx context.Context, evt NoteCreated) { second <- evt })

	noteID := id.New()
	bus.Publish(context.Background(), NoteCreated{NoteID: noteID, Number: "IS-00001"})

	assert.Equal(t, noteID, waitFor(t, first).NoteID)
	assert.Equal(t, "IS-00001", waitFor(t, second).Number)
}

func TestBus_UnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus()
	received := make(chan NoteCreated, 2)

	unsubscribe := bus.Subscribe(func(ctx context.Context, evt NoteCreated) { received <- evt })

	bus.Publish(context.Background(), NoteCreated{Number: "IS-00001"})
	waitFor(t, received)

	unsubscribe()
	bus.Publish(context.Background(), NoteCreated{Number: "IS-00002"})

	select {
	case evt := <-received:
		t.Fatalf("unexpected delivery after unsubscribe: %s", evt.Number)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_PanickingSubscriberDoesNotStopOthers(t *testing.T) {
	bus := NewBus()
	received := make(chan NoteCreated, 1)

	bus.Subscribe(func(ctx context.Context, evt NoteCreated) { panic("boom") })
	bus.Subscribe(func(ctx context.Context, evt NoteCreated) { received <- evt })

	require.NotPanics(t, func() {
		bus.Publish(context.Background(), NoteCreated{Number: "IS-00003"})
	})
	assert.Equal(t, "IS-00003", waitFor(t, received).Number)
}
