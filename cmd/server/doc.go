// Package main is the entry point for the TermFlow backend server.
//
// The server turns terminal sessions into a live flow graph: each
// executed command becomes an input node wired to its result node, and
// consecutive commands in a session are chained with dashed edges.
//
// The server provides:
//   - REST API for command execution, graph reads, and search
//   - WebSocket streaming of graph deltas
//   - Snapshot persistence for saved graphs
//   - Rate limiting and Prometheus metrics
//
// Configuration:
//   - Environment variables (12-factor)
//   - Optional YAML file via CONFIG_FILE
//   - CLI flags (override env vars)
//
// Usage:
//
//	# Production mode
//	./server -port 8000
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
