package reload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modserve/src/internal/domain"
)

func receive(t *testing.T, ch <-chan domain.ReloadEvent) domain.ReloadEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed before event arrived")
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return domain.ReloadEvent{}
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := CreateHub()
	defer hub.Close()

	first, cancelFirst := hub.Subscribe()
	defer cancelFirst()
	second, cancelSecond := hub.Subscribe()
	defer cancelSecond()

	hub.Publish(domain.ReloadEvent{Path: "main.js", Op: "WRITE"})

	assert.Equal(t, "main.js", receive(t, first).Path)
	assert.Equal(t, "main.js", receive(t, second).Path)
}

func TestHubCancelStopsDelivery(t *testing.T) {
	hub := CreateHub()
	defer hub.Close()

	gone, cancelGone := hub.Subscribe()
	kept, cancelKept := hub.Subscribe()
	defer cancelKept()

	cancelGone()
	cancelGone() // idempotent

	hub.Publish(domain.ReloadEvent{Path: "style.css", Op: "WRITE"})

	_, ok := <-gone
	assert.False(t, ok, "cancelled channel should be closed")
	assert.Equal(t, "style.css", receive(t, kept).Path)
}

func TestHubClose(t *testing.T) {
	hub := CreateHub()

	sub, cancel := hub.Subscribe()
	defer cancel()

	hub.Close()
	hub.Close() // idempotent

	_, ok := <-sub
	assert.False(t, ok, "subscriber channel should be closed")

	// Subscribing after close yields an already-closed channel.
	late, lateCancel := hub.Subscribe()
	defer lateCancel()
	_, ok = <-late
	assert.False(t, ok)

	// Publishing after close is a no-op.
	hub.Publish(domain.ReloadEvent{Path: "x", Op: "WRITE"})
}

func TestHubDropsEventsForSlowSubscribers(t *testing.T) {
	hub := CreateHub()
	defer hub.Close()

	sub, cancel := hub.Subscribe()
	defer cancel()

	// More events than the subscriber buffer holds; Publish must not block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 32; i++ {
			hub.Publish(domain.ReloadEvent{Path: "burst.js", Op: "WRITE"})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
	assert.NotEmpty(t, sub)
}
