package realtime

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/crisisnet/disasterhub/internal/core/ports"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 16 // 64 KiB, control messages only

	sendBufferSize = 64
)

type controlMessage struct {
	Action  string   `json:"action"`
	Streams []string `json:"streams"`
}

// knownStreams is the set of streams clients may subscribe to.
var knownStreams = map[string]struct{}{
	ports.StreamDisasters: {},
	ports.StreamResources: {},
	ports.StreamSocial:    {},
}

// Hub fans out domain events to WebSocket subscribers. Delivery is
// at-most-once: a client whose send buffer is full is dropped rather than
// allowed to stall the broadcast. Hub implements ports.EventPublisher.
type Hub struct {
	mu            sync.RWMutex
	subscriptions map[string]map[*connection]struct{}
	upgrader      websocket.Upgrader
	logger        *logrus.Logger
}

// NewHub constructs a realtime hub.
func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		subscriptions: make(map[string]map[*connection]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Browser clients connect from the aggregation UI on another
			// origin, and the API carries no cookie auth to protect.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Serve upgrades the HTTP connection to a WebSocket and registers the
// client with the requested streams. An empty streams list subscribes the
// client to every known stream.
func (h *Hub) Serve(clientID string, streams []string, w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return err
	}

	if len(streams) == 0 {
		streams = []string{ports.StreamDisasters, ports.StreamResources, ports.StreamSocial}
	}

	client := newConnection(h, conn, clientID)
	h.subscribe(client, streams)

	h.logger.WithFields(logrus.Fields{
		"client":  clientID,
		"streams": streams,
	}).Info("WebSocket client connected")

	go client.writeLoop()
	client.readLoop()
	return nil
}

// Publish delivers an event to every subscriber of its stream. It never
// blocks: slow clients are disconnected instead.
func (h *Hub) Publish(event ports.Event) {
	stream := normalizeStream(event.Stream)
	if stream == "" {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.subscriptions[stream]
	if !ok {
		return
	}

	event.Stream = stream
	for client := range clients {
		h.enqueue(client, event)
	}
}

// Subscribers reports subscriber counts per stream, for health reporting.
func (h *Hub) Subscribers() map[string]int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	counts := make(map[string]int, len(h.subscriptions))
	for stream, clients := range h.subscriptions {
		counts[stream] = len(clients)
	}
	return counts
}

func (h *Hub) subscribe(client *connection, streams []string) {
	if len(streams) == 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, stream := range uniqueStreams(streams) {
		if _, ok := knownStreams[stream]; !ok {
			h.logger.WithFields(logrus.Fields{
				"client": client.clientID,
				"stream": stream,
			}).Warn("Ignoring subscription to unknown stream")
			continue
		}
		if _, exists := client.streams[stream]; exists {
			continue
		}

		if h.subscriptions[stream] == nil {
			h.subscriptions[stream] = make(map[*connection]struct{})
		}
		client.streams[stream] = struct{}{}
		h.subscriptions[stream][client] = struct{}{}
	}
}

func (h *Hub) unsubscribe(client *connection, streams []string) {
	if len(streams) == 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, stream := range uniqueStreams(streams) {
		h.removeSubscriptionLocked(client, stream)
		delete(client.streams, stream)
	}
}

func (h *Hub) unregister(client *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for stream := range client.streams {
		h.removeSubscriptionLocked(client, stream)
	}
}

func (h *Hub) removeSubscriptionLocked(client *connection, stream string) {
	clients, ok := h.subscriptions[stream]
	if !ok {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.subscriptions, stream)
	}
}

// enqueue hands an event to the client's writer without blocking. The send
// channel is never closed, so concurrent senders (Publish under the read
// lock, the readLoop control paths) can never race a close; shutdown is
// signalled through the done channel instead.
func (h *Hub) enqueue(client *connection, event ports.Event) {
	select {
	case <-client.done:
		return
	default:
	}
	select {
	case client.send <- event:
	default:
		h.logger.WithField("client", client.clientID).Warn("Dropping backpressured WebSocket client")
		// Unregistering takes the write lock, and enqueue runs under the
		// read lock during Publish.
		go client.close()
	}
}

type connection struct {
	hub      *Hub
	socket   *websocket.Conn
	clientID string
	streams  map[string]struct{}
	send     chan ports.Event
	done     chan struct{}
	once     sync.Once
}

func newConnection(hub *Hub, conn *websocket.Conn, clientID string) *connection {
	return &connection{
		hub:      hub,
		socket:   conn,
		clientID: clientID,
		streams:  make(map[string]struct{}),
		send:     make(chan ports.Event, sendBufferSize),
		done:     make(chan struct{}),
	}
}

func (c *connection) readLoop() {
	defer c.close()

	c.socket.SetReadLimit(maxMessageSize)
	_ = c.socket.SetReadDeadline(time.Now().Add(pongWait))
	c.socket.SetPongHandler(func(string) error {
		_ = c.socket.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.WithError(err).WithField("client", c.clientID).Debug("Unexpected WebSocket close")
			}
			break
		}

		if len(payload) == 0 {
			continue
		}

		var ctrl controlMessage
		if err := json.Unmarshal(payload, &ctrl); err != nil {
			c.hub.logger.WithError(err).WithField("client", c.clientID).Debug("Invalid control payload")
			continue
		}

		switch strings.ToLower(strings.TrimSpace(ctrl.Action)) {
		case "subscribe":
			c.hub.subscribe(c, ctrl.Streams)
		case "unsubscribe":
			c.hub.unsubscribe(c, ctrl.Streams)
		case "ping":
			c.hub.enqueue(c, ports.Event{Name: "pong"})
		default:
			c.hub.logger.WithFields(logrus.Fields{
				"client": c.clientID,
				"action": ctrl.Action,
			}).Debug("Unsupported control action")
		}
	}
}

func (c *connection) writeLoop() {
	defer c.close()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.socket.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case event := <-c.send:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *connection) close() {
	c.once.Do(func() {
		c.hub.unregister(c)
		close(c.done)
		_ = c.socket.Close()
	})
}

func normalizeStream(stream string) string {
	return strings.ToLower(strings.TrimSpace(stream))
}

func uniqueStreams(streams []string) []string {
	unique := make(map[string]struct{}, len(streams))
	var result []string
	for _, stream := range streams {
		if stream = normalizeStream(stream); stream != "" {
			if _, exists := unique[stream]; !exists {
				unique[stream] = struct{}{}
				result = append(result, stream)
			}
		}
	}
	return result
}
