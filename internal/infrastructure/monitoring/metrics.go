package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Command execution metrics
	CommandsTotal   *prometheus.CounterVec
	CommandDuration prometheus.Histogram

	// Graph metrics
	NodesCreated *prometheus.CounterVec
	EdgesCreated *prometheus.CounterVec
	GraphNodes   prometheus.Gauge
	GraphEdges   prometheus.Gauge
	ParseErrors  *prometheus.CounterVec

	// Search metrics
	SearchQueries prometheus.Counter

	// Snapshot metrics
	SnapshotsSaved    prometheus.Counter
	SnapshotsRestored prometheus.Counter

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time
}

// NewMetrics creates a metrics collector registered on the default registry
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termflow_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termflow_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termflow_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		CommandsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termflow_commands_total",
				Help: "Total number of commands executed",
			},
			[]string{"outcome"},
		),
		CommandDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "termflow_command_duration_seconds",
				Help:    "Command execution duration in seconds",
				Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30},
			},
		),

		NodesCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termflow_nodes_created_total",
				Help: "Total number of graph nodes created",
			},
			[]string{"type"},
		),
		EdgesCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termflow_edges_created_total",
				Help: "Total number of graph edges created",
			},
			[]string{"style"},
		),
		GraphNodes: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "termflow_graph_nodes",
				Help: "Current number of nodes in the graph",
			},
		),
		GraphEdges: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "termflow_graph_edges",
				Help: "Current number of edges in the graph",
			},
		),
		ParseErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termflow_parse_errors_total",
				Help: "Total number of rejected parse calls",
			},
			[]string{"reason"},
		),

		SearchQueries: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "termflow_search_queries_total",
				Help: "Total number of search evaluations",
			},
		),

		SnapshotsSaved: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "termflow_snapshots_saved_total",
				Help: "Total number of snapshots saved",
			},
		),
		SnapshotsRestored: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "termflow_snapshots_restored_total",
				Help: "Total number of snapshots restored",
			},
		),

		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "termflow_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termflow_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}
}

// RecordHTTPRequest records one served request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	if respSize > 0 {
		m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
	}
}

// RecordCommand records one executed command and its resulting delta
func (m *Metrics) RecordCommand(success bool, duration time.Duration) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.CommandsTotal.WithLabelValues(outcome).Inc()
	m.CommandDuration.Observe(duration.Seconds())
}

// RecordDelta records created nodes/edges and updates graph gauges
func (m *Metrics) RecordDelta(nodeTypes []string, edgeStyles []string, graphNodes, graphEdges int) {
	for _, t := range nodeTypes {
		m.NodesCreated.WithLabelValues(t).Inc()
	}
	for _, s := range edgeStyles {
		m.EdgesCreated.WithLabelValues(s).Inc()
	}
	m.SetGraphSize(graphNodes, graphEdges)
}

// SetGraphSize updates the live graph size gauges
func (m *Metrics) SetGraphSize(nodes, edges int) {
	m.GraphNodes.Set(float64(nodes))
	m.GraphEdges.Set(float64(edges))
}

// Uptime reports time since process start
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.startTime)
}
