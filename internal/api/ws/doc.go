// Package ws provides WebSocket streaming of graph updates.
//
// Connected clients can drive the graph over the socket and receive
// every delta produced by any transport, so multiple views of the same
// graph stay in sync.
//
// Message Types (Client → Server):
//   - execute: Run a command in a session
//   - search: Evaluate a query against the node collection
//   - ping: Keep-alive ping
//
// Message Types (Server → Client):
//   - system: Connection established
//   - graph_delta: Nodes and edges added by an executed command
//   - execution_result: Outcome of the requester's own command
//   - search_result: Matches for a search message
//   - pong: Keep-alive reply
//   - error: Operation failed
//
// Example Usage:
//
//	hub := ws.NewHub(logger, metrics)
//	handler := ws.NewHandler(hub, flowService, logger, metrics)
//	router.GET("/stream", handler.HandleConnection)
package ws
