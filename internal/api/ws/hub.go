package ws

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/termflow/termflow/backend/internal/infrastructure/logging"
	"github.com/termflow/termflow/backend/internal/infrastructure/monitoring"
)

// client wraps a connection with a write lock. gorilla/websocket allows
// only one concurrent writer per connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub tracks connected clients and fans out broadcasts.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewHub creates an empty hub. Metrics may be nil.
func NewHub(log *logging.Logger, metrics *monitoring.Metrics) *Hub {
	if log == nil {
		log = &logging.Logger{Logger: zap.NewNop()}
	}
	return &Hub{
		clients: make(map[string]*client),
		log:     log,
		metrics: metrics,
	}
}

// Register adds a connection and returns its client ID.
func (h *Hub) Register(conn *websocket.Conn) string {
	clientID := uuid.NewString()

	h.mu.Lock()
	h.clients[clientID] = &client{conn: conn}
	count := len(h.clients)
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.WSConnections.Set(float64(count))
	}
	h.log.Info("websocket client connected",
		zap.String("client_id", clientID),
		zap.Int("active", count))
	return clientID
}

// Unregister removes a connection.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	delete(h.clients, clientID)
	count := len(h.clients)
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.WSConnections.Set(float64(count))
	}
	h.log.Info("websocket client disconnected",
		zap.String("client_id", clientID),
		zap.Int("active", count))
}

// Send writes a message to one client.
func (h *Hub) Send(clientID string, v interface{}) error {
	h.mu.RLock()
	cl, ok := h.clients[clientID]
	h.mu.RUnlock()
	if !ok {
		return nil
	}
	return cl.send(v)
}

// Broadcast writes a message to every connected client. Failed writes
// are logged and skipped; the read loop handles cleanup on its own.
func (h *Hub) Broadcast(msgType string, v interface{}) {
	h.mu.RLock()
	targets := make(map[string]*client, len(h.clients))
	for clientID, cl := range h.clients {
		targets[clientID] = cl
	}
	h.mu.RUnlock()

	for clientID, cl := range targets {
		if err := cl.send(v); err != nil {
			h.log.Warn("websocket broadcast failed",
				zap.String("client_id", clientID),
				zap.Error(err))
			continue
		}
		if h.metrics != nil {
			h.metrics.WSMessages.WithLabelValues("out", msgType).Inc()
		}
	}
}

// Count reports the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
