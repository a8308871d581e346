package httpapi

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hamed0406/healthmon/internal/domain"
)

const writeTimeout = 5 * time.Second

// Event is one websocket frame.
type Event struct {
	Type    string        `json:"type"` // "report"
	ID      string        `json:"id"`
	Payload domain.Report `json:"payload"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans each published report out to the connected websocket clients.
// Slow clients are dropped rather than allowed to block a tick.
type Hub struct {
	logger   *zap.Logger
	mu       sync.Mutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
}

func NewHub(logger *zap.Logger, allowedOrigins []string) *Hub {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Hub{
		logger:  logger,
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || allowed[origin] || allowed["*"] {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				host := u.Hostname()
				return host == "localhost" || host == "127.0.0.1" || host == "::1"
			},
		},
	}
}

// Broadcast queues r for every client.
func (h *Hub) Broadcast(r domain.Report) {
	data, err := json.Marshal(Event{Type: "report", ID: r.ID, Payload: r})
	if err != nil {
		h.logger.Warn("hub_marshal_error", zap.String("report_id", r.ID), zap.Error(err))
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.drop(c)
			h.logger.Info("hub_client_dropped", zap.String("reason", "slow"))
		}
	}
}

// Clients is the number of connected subscribers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.drop(c)
	}
}

func (h *Hub) HandleConnect(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws_upgrade_error", zap.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 16)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go c.writePump()
	go c.readPump(h)
}

// drop must be called with h.mu held.
func (h *Hub) drop(c *client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeTimeout))
}

func (c *client) readPump(h *Hub) {
	defer func() {
		h.mu.Lock()
		h.drop(c)
		h.mu.Unlock()
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
