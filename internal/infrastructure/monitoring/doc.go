// Package monitoring provides Prometheus metrics for the backend.
//
// Metrics cover the HTTP surface (request counts, latencies, sizes),
// the graph core (commands parsed by outcome, nodes and edges created
// by type, live graph size), search evaluations, snapshot operations,
// and WebSocket connections.
//
// Exposition happens on /metrics via the standard promhttp handler;
// the gin middleware in this package records per-request series.
package monitoring
