package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: "build.finished", Data: map[string]int{"notes": 12}})

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: build.finished") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"notes":12`) {
			t.Errorf("missing data in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublishBuildEvent_TypePrefix(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishBuildEvent("failed", map[string]string{"error": "pandoc exploded"})

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: build.failed") {
			t.Errorf("missing composed event type in %q", s)
		}
		if !strings.Contains(s, "pandoc exploded") {
			t.Errorf("missing error detail in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestLateSubscriberGetsLastBuildEvent(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	// A witness client proves the publish has been processed before the
	// late client subscribes.
	witness := b.Subscribe()
	defer b.Unsubscribe(witness)

	b.PublishBuildEvent("finished", map[string]int{"notes": 3})

	select {
	case <-witness:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for witness delivery")
	}

	late := b.Subscribe()
	defer b.Unsubscribe(late)

	select {
	case msg := <-late:
		if !strings.Contains(string(msg), "event: build.finished") {
			t.Errorf("late subscriber got %q, want last build event", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("late subscriber never received the replayed build event")
	}
}

func TestGenericEventsNotReplayed(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	witness := b.Subscribe()
	defer b.Unsubscribe(witness)

	b.Publish(Event{Type: "ping", Data: map[string]string{}})

	select {
	case <-witness:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for witness delivery")
	}

	late := b.Subscribe()
	defer b.Unsubscribe(late)

	select {
	case msg := <-late:
		t.Errorf("late subscriber got %q, want nothing", msg)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSSEHandler(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	// Give handler time to subscribe.
	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client from handler")
	}

	b.PublishBuildEvent("started", map[string]string{})
	time.Sleep(50 * time.Millisecond)

	// Cancel context to disconnect.
	cancel()
	<-done

	body := w.Body.String()
	if !strings.Contains(body, "event: build.started") {
		t.Errorf("handler output missing event: %q", body)
	}

	// Client should be cleaned up.
	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 0 {
		t.Errorf("client not cleaned up after disconnect")
	}
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// Fill buffer (capacity 64) and then one more should not block.
	for i := 0; i < 70; i++ {
		b.Publish(Event{Type: "test", Data: map[string]string{"i": "x"}})
	}
	// If we reach here without deadlock, the test passes.
}

func TestCloseClosesSubscribersAndStopsOperations(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}

	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected subscriber channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}

	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after close")
	}

	// Should be safe no-op after close.
	b.Publish(Event{Type: "build.finished", Data: map[string]string{}})
	b.PublishBuildEvent("failed", map[string]string{"error": "x"})
}
