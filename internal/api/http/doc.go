// Package http provides the REST surface of the backend.
//
// Handlers are thin: they bind and validate requests, delegate to the
// flow service and snapshot manager, and shape JSON responses. Graph
// deltas produced over HTTP are also broadcast to WebSocket clients so
// all connected views stay current.
package http
