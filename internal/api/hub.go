package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jetsetgo/qr-studio/internal/logger"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 16
)

// Hub fans page updates out to every connected browser
type Hub struct {
	upgrader     websocket.Upgrader
	pingInterval time.Duration
	log          *logger.Logger

	mu      sync.Mutex
	clients map[*wsClient]struct{}
	closed  bool
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

// NewHub creates a hub that pings clients every pingInterval. A nil
// checkOrigin only admits same-origin connections.
func NewHub(pingInterval time.Duration, checkOrigin func(r *http.Request) bool, log *logger.Logger) *Hub {
	return &Hub{
		upgrader:     websocket.Upgrader{CheckOrigin: checkOrigin},
		pingInterval: pingInterval,
		log:          log.WithComponent("ws_hub"),
		clients:      make(map[*wsClient]struct{}),
	}
}

// Serve upgrades the request and streams messages until the client goes
// away. initial messages are queued before any broadcast.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, initial ...any) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &wsClient{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	for _, msg := range initial {
		if data, err := json.Marshal(msg); err == nil {
			c.send <- data
		}
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.log.Debug("client connected", "remote", r.RemoteAddr, "clients", count)

	go h.writeLoop(c)
	h.readLoop(c)
	h.remove(c)
}

// Broadcast sends msg to every client. Slow clients drop the message.
func (h *Hub) Broadcast(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("failed to marshal push message", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.log.Warn("send buffer full, dropping message")
		}
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.stop()
	}
}

func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.stop()
}

func (c *wsClient) stop() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// readLoop drains the connection; browsers only send pongs
func (h *Hub) readLoop(c *wsClient) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("websocket read error", "error", err)
			}
			return
		}
	}
}

// writeLoop handles outgoing messages and keepalive pings
func (h *Hub) writeLoop(c *wsClient) {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	ping, _ := json.Marshal(pushMessage{Type: "ping"})

	for {
		select {
		case <-c.done:
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				h.log.Debug("websocket write error", "error", err)
				c.stop()
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, ping); err != nil {
				h.log.Debug("websocket ping error", "error", err)
				c.stop()
				return
			}
		}
	}
}
