package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/crisisnet/disasterhub/internal/core/ports"
)

// slowClient upgrades a real socket and registers it without starting the
// write loop, so the send buffer fills instead of draining.
func slowClient(t *testing.T, hub *Hub) *connection {
	t.Helper()

	registered := make(chan *connection, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sock, err := hub.upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		client := newConnection(hub, sock, "slow-client")
		hub.subscribe(client, []string{ports.StreamDisasters})
		registered <- client
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	sock, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { sock.Close() })

	select {
	case client := <-registered:
		t.Cleanup(client.close)
		return client
	case <-time.After(2 * time.Second):
		t.Fatal("client never registered")
		return nil
	}
}

func TestEnqueue_SurvivesBackpressureDrop(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	hub := NewHub(logger)
	client := slowClient(t, hub)

	event := ports.Event{Stream: ports.StreamDisasters, Name: ports.EventDisasterUpdated}
	for i := 0; i < sendBufferSize; i++ {
		hub.enqueue(client, event)
	}

	// Buffer is full; this one triggers the drop.
	hub.enqueue(client, event)

	select {
	case <-client.done:
	case <-time.After(2 * time.Second):
		t.Fatal("backpressured client was never closed")
	}

	// The read side can still enqueue concurrently with the drop, as the
	// ping control path does. It must be a silent no-op, never a panic on
	// the send channel.
	hub.enqueue(client, ports.Event{Name: "pong"})

	if n := hub.Subscribers()[ports.StreamDisasters]; n != 0 {
		t.Fatalf("dropped client still subscribed: %d", n)
	}
}
