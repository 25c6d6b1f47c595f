// Package flow coordinates command execution with graph construction.
//
// The Service runs a command through the terminal provider, feeds the
// result to the execution parser, and commits the resulting delta to
// the graph store as one operation. Both the HTTP handlers and the
// WebSocket stream drive the graph exclusively through this package,
// so ordering guarantees hold regardless of transport.
package flow
