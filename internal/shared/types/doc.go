// Package types provides shared data structures for the TermFlow backend.
//
// This package defines the core records used across all backend components,
// ensuring type safety and consistent data structures.
//
// Graph Types:
//   - Node: Single graph node (input, output, error, skill, auto)
//   - Edge: Directed link between nodes (solid or dashed)
//   - GraphDelta: Nodes and edges produced by one parsed execution
//   - NodeMetadata: Session, index, and execution details per node
//
// Execution Types:
//   - ExecutionResult: Outcome of one terminal command
//   - ExecutionContext: Session identity and command ordering
//
// Persistence Types:
//   - Snapshot: Saved graph state with chaining information
//   - SnapshotMetadata: Listing entry for saved snapshots
//
// Request Types:
//   - ExecuteRequest, SaveSnapshotRequest: HTTP payloads
//   - WSMessage: WebSocket communication
//
// Example Usage:
//
//	node := &types.Node{
//	    ID:      string(id.NewNodeID()),
//	    Type:    types.NodeInput,
//	    Content: "$ ls -la",
//	}
package types
