package http

import (
	"errors"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/termflow/termflow/backend/internal/api/ws"
	"github.com/termflow/termflow/backend/internal/domain/flow"
	"github.com/termflow/termflow/backend/internal/domain/graph"
	"github.com/termflow/termflow/backend/internal/domain/session"
	"github.com/termflow/termflow/backend/internal/infrastructure/monitoring"
	"github.com/termflow/termflow/backend/internal/shared/types"
)

// Version reported by the root and health endpoints.
const Version = "0.1.0"

// Handlers contains all HTTP handlers
type Handlers struct {
	service   *flow.Service
	snapshots *session.Manager
	hub       *ws.Hub
	metrics   *monitoring.Metrics
}

// NewHandlers creates a new handler set. Hub and metrics may be nil.
func NewHandlers(service *flow.Service, snapshots *session.Manager, hub *ws.Hub, metrics *monitoring.Metrics) *Handlers {
	return &Handlers{
		service:   service,
		snapshots: snapshots,
		hub:       hub,
		metrics:   metrics,
	}
}

// Root handles basic liveness check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "TermFlow Backend (Go)",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	nodes, edges := h.service.Graph()

	resp := gin.H{
		"status":  "healthy",
		"version": Version,
		"graph": gin.H{
			"nodes": len(nodes),
			"edges": len(edges),
		},
		"snapshots": h.snapshots.Stats(),
	}
	if h.hub != nil {
		resp["ws_clients"] = h.hub.Count()
	}
	if h.metrics != nil {
		resp["uptime_seconds"] = int64(h.metrics.Uptime().Seconds())
	}

	c.JSON(http.StatusOK, resp)
}

// Execute runs a command and appends its delta to the graph
func (h *Handlers) Execute(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.service.Execute(c.Request.Context(), req.SessionID, req.Command)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, graph.ErrInvalidCommand):
			status = http.StatusBadRequest
		case errors.Is(err, graph.ErrOutOfOrderIndex):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if h.hub != nil {
		h.hub.Broadcast("graph_delta", map[string]interface{}{
			"type":      "graph_delta",
			"delta":     outcome.Delta,
			"timestamp": time.Now().Unix(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"session_id":    req.SessionID,
		"command_index": outcome.Index,
		"result":        outcome.Result,
		"delta":         outcome.Delta,
	})
}

// GetGraph returns the full node and edge collections
func (h *Handlers) GetGraph(c *gin.Context) {
	nodes, edges := h.service.Graph()

	c.JSON(http.StatusOK, gin.H{
		"nodes":      nodes,
		"edges":      edges,
		"node_count": len(nodes),
		"edge_count": len(edges),
	})
}

// ClearGraph wipes the graph and all session chaining state
func (h *Handlers) ClearGraph(c *gin.Context) {
	h.service.Clear()

	if h.hub != nil {
		h.hub.Broadcast("graph_cleared", map[string]interface{}{
			"type":      "graph_cleared",
			"timestamp": time.Now().Unix(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Search evaluates a query against the node collection
func (h *Handlers) Search(c *gin.Context) {
	query := c.Query("q")
	filter := c.Query("filter")

	result := h.service.Search(query, filter)

	c.JSON(http.StatusOK, gin.H{
		"query":      query,
		"filter":     filter,
		"matches":    result.Matches,
		"count":      result.Count,
		"count_text": graph.FormatCount(result.Count),
	})
}

// SaveSnapshot captures the current graph state
func (h *Handlers) SaveSnapshot(c *gin.Context) {
	var req types.SaveSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := h.snapshots.Save(req.Name, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if h.metrics != nil {
		h.metrics.SnapshotsSaved.Inc()
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"snapshot": snapshot.ToMetadata(),
	})
}

// ListSnapshots lists all saved snapshots, newest first
func (h *Handlers) ListSnapshots(c *gin.Context) {
	metadata := h.snapshots.List()
	sort.Slice(metadata, func(i, j int) bool {
		return metadata[i].CreatedAt.After(metadata[j].CreatedAt)
	})

	c.JSON(http.StatusOK, gin.H{
		"snapshots": metadata,
		"stats":     h.snapshots.Stats(),
	})
}

// GetSnapshot returns one snapshot including its graph payload
func (h *Handlers) GetSnapshot(c *gin.Context) {
	snapshot, err := h.snapshots.Load(c.Param("id"))
	if err != nil {
		c.JSON(snapshotStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"snapshot": snapshot})
}

// RestoreSnapshot replaces the live graph with a snapshot's state
func (h *Handlers) RestoreSnapshot(c *gin.Context) {
	snapshotID := c.Param("id")
	if err := h.snapshots.Restore(snapshotID); err != nil {
		c.JSON(snapshotStatus(err), gin.H{"error": err.Error()})
		return
	}
	if h.metrics != nil {
		h.metrics.SnapshotsRestored.Inc()
	}

	nodes, edges := h.service.Graph()
	if h.hub != nil {
		h.hub.Broadcast("graph_replaced", map[string]interface{}{
			"type":      "graph_replaced",
			"nodes":     nodes,
			"edges":     edges,
			"timestamp": time.Now().Unix(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"snapshot_id": snapshotID,
		"node_count":  len(nodes),
		"edge_count":  len(edges),
	})
}

// DeleteSnapshot removes a saved snapshot
func (h *Handlers) DeleteSnapshot(c *gin.Context) {
	if err := h.snapshots.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func snapshotStatus(err error) int {
	if errors.Is(err, os.ErrNotExist) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
