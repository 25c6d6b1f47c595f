// Package graph implements the terminal execution flow graph.
//
// Each executed command becomes an input node, its result an output or
// error node. A solid edge links a command to its own result; a dashed
// edge chains the previous result to the next command in the same
// session, making sequential flow visible.
//
// Components:
//   - Parser: translates one command execution into a GraphDelta,
//     tracking per-session chaining state and command ordering
//   - Store: append-only node/edge collection in insertion order
//   - Evaluate: read-only search over the node collection by type
//     filter and case-insensitive substring query
//
// Ordering Contract:
//   - Calls for one session arrive in completion order; command
//     indices are contiguous from 0
//   - The parser either produces a complete delta or fails before
//     creating anything; there is no partial insertion
//   - Nodes and edges are never removed except by an explicit Clear
//
// Example Usage:
//
//	parser := graph.NewParser()
//	store := graph.NewStore()
//	delta, err := parser.ParseExecution("ls -la", result, execCtx)
//	if err == nil {
//	    store.Append(delta)
//	}
//	matches := graph.Evaluate(store.Nodes(), "ls", "all")
package graph
