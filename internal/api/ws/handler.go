package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/termflow/termflow/backend/internal/domain/flow"
	"github.com/termflow/termflow/backend/internal/domain/graph"
	"github.com/termflow/termflow/backend/internal/infrastructure/logging"
	"github.com/termflow/termflow/backend/internal/infrastructure/monitoring"
	"github.com/termflow/termflow/backend/internal/shared/types"
)

// executeTimeout bounds a single command run driven over the socket.
const executeTimeout = 2 * time.Minute

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// Handler manages WebSocket connections
type Handler struct {
	hub     *Hub
	service *flow.Service
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, service *flow.Service, log *logging.Logger, metrics *monitoring.Metrics) *Handler {
	if log == nil {
		log = &logging.Logger{Logger: zap.NewNop()}
	}
	return &Handler{
		hub:     hub,
		service: service,
		log:     log,
		metrics: metrics,
	}
}

// HandleConnection handles WebSocket upgrade and messages
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	clientID := h.hub.Register(conn)
	defer h.hub.Unregister(clientID)

	reqCtx := c.Request.Context()

	h.hub.Send(clientID, map[string]interface{}{
		"type":      "system",
		"message":   "Connected to TermFlow graph stream",
		"client_id": clientID,
	})

	for {
		var msg types.WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("websocket read error", zap.String("client_id", clientID), zap.Error(err))
			}
			break
		}
		if h.metrics != nil {
			h.metrics.WSMessages.WithLabelValues("in", msg.Type).Inc()
		}

		switch msg.Type {
		case "execute":
			h.handleExecute(clientID, msg, reqCtx)
		case "search":
			h.handleSearch(clientID, msg)
		case "ping":
			h.hub.Send(clientID, map[string]interface{}{"type": "pong"})
		default:
			h.sendError(clientID, "unknown message type")
		}
	}
}

func (h *Handler) handleExecute(clientID string, msg types.WSMessage, reqCtx context.Context) {
	ctx, cancel := context.WithTimeout(reqCtx, executeTimeout)
	defer cancel()

	outcome, err := h.service.Execute(ctx, msg.SessionID, msg.Command)
	if err != nil {
		h.sendError(clientID, executeErrorMessage(err))
		return
	}

	h.hub.Send(clientID, map[string]interface{}{
		"type":          "execution_result",
		"session_id":    msg.SessionID,
		"command_index": outcome.Index,
		"result":        outcome.Result,
		"timestamp":     time.Now().Unix(),
	})

	// Every client sees the delta, including the requester.
	h.hub.Broadcast("graph_delta", map[string]interface{}{
		"type":      "graph_delta",
		"delta":     outcome.Delta,
		"timestamp": time.Now().Unix(),
	})
}

func (h *Handler) handleSearch(clientID string, msg types.WSMessage) {
	result := h.service.Search(msg.Query, msg.Filter)

	h.hub.Send(clientID, map[string]interface{}{
		"type":       "search_result",
		"query":      msg.Query,
		"filter":     msg.Filter,
		"matches":    result.Matches,
		"count":      result.Count,
		"count_text": graph.FormatCount(result.Count),
		"timestamp":  time.Now().Unix(),
	})
}

func (h *Handler) sendError(clientID string, msg string) {
	h.hub.Send(clientID, map[string]interface{}{
		"type":      "error",
		"message":   msg,
		"timestamp": time.Now().Unix(),
	})
}

// executeErrorMessage keeps sentinel errors readable for clients
// without leaking internals.
func executeErrorMessage(err error) string {
	switch {
	case errors.Is(err, graph.ErrInvalidCommand):
		return "command must not be empty"
	case errors.Is(err, graph.ErrOutOfOrderIndex):
		return "command arrived out of order"
	default:
		return err.Error()
	}
}
