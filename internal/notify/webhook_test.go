package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fixit-helpdesk/fixit/internal/config"
	"github.com/fixit-helpdesk/fixit/internal/logger"
)

func TestWebhookNotifier_DeliversToEmailEndpoint(t *testing.T) {
	received := make(chan Notification, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var n Notification
		if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
			t.Errorf("failed to decode notification payload: %v", err)
		}
		received <- n
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(config.Notify{
		EmailEndpoint:  server.URL,
		RequestTimeout: 2 * time.Second,
		QueueSize:      4,
	}, logger.Nop())
	notifier.Run()
	defer notifier.Close()

	ok := notifier.Enqueue(Notification{
		Channel:   ChannelEmail,
		Recipient: "jane@fixit.local",
		Subject:   "Ticket FIX-000042 updated",
		Body:      "status changed to in_progress",
	})
	if !ok {
		t.Fatal("expected Enqueue to accept the notification")
	}

	select {
	case n := <-received:
		if n.Recipient != "jane@fixit.local" {
			t.Errorf("expected recipient jane@fixit.local, got %s", n.Recipient)
		}
		if n.Channel != ChannelEmail {
			t.Errorf("expected channel email, got %s", n.Channel)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("notification was never delivered")
	}
}

func TestWebhookNotifier_DropsWhenQueueFull(t *testing.T) {
	// worker never started, so the queue only drains on overflow
	notifier := NewWebhookNotifier(config.Notify{
		EmailEndpoint: "http://localhost:0",
		QueueSize:     1,
	}, logger.Nop())

	if !notifier.Enqueue(Notification{Channel: ChannelEmail}) {
		t.Fatal("first enqueue should succeed")
	}
	if notifier.Enqueue(Notification{Channel: ChannelEmail}) {
		t.Fatal("second enqueue should be dropped")
	}
}

func TestWebhookNotifier_SkipsDisabledChannel(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(config.Notify{
		EmailEndpoint: server.URL,
		// WhatsApp endpoint intentionally empty
	}, logger.Nop())

	notifier.deliver(Notification{Channel: ChannelWhatsApp, Recipient: "+1555000"})
	if called {
		t.Fatal("disabled channel should not reach any endpoint")
	}
}
