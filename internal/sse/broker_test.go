package sse

import (
	"strings"
	"testing"
	"time"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch := b.Subscribe()
	if n := b.ClientCount(); n != 1 {
		t.Fatalf("ClientCount = %d, want 1", n)
	}

	b.Unsubscribe(ch)
	if n := b.ClientCount(); n != 0 {
		t.Fatalf("ClientCount after unsubscribe = %d, want 0", n)
	}

	// Channel is closed after unsubscribe.
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("received message on unsubscribed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after unsubscribe")
	}
}

func TestPublishTemplateEvent(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch := b.Subscribe()
	b.PublishTemplateEvent("created", "daily_standup.md")

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: template.created") {
			t.Errorf("missing event type: %q", s)
		}
		if !strings.Contains(s, `"key":"daily_standup.md"`) {
			t.Errorf("missing key payload: %q", s)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestPublishUnknownKindDropped(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch := b.Subscribe()
	b.PublishTemplateEvent("renamed", "x.md")
	b.PublishTemplateEvent("deleted", "x.md")

	select {
	case msg := <-ch:
		// Only the valid kind arrives.
		if !strings.Contains(string(msg), "template.deleted") {
			t.Errorf("unexpected event: %q", string(msg))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestCloseIdempotent(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()

	b.Close()
	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("received message after close")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed on broker close")
	}

	// Post-close calls are no-ops.
	b.PublishTemplateEvent("created", "x.md")
	if n := b.ClientCount(); n != 0 {
		t.Fatalf("ClientCount after close = %d", n)
	}
}
