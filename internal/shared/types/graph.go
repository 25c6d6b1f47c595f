package types

import "time"

// NodeType classifies a graph node
type NodeType string

const (
	NodeInput  NodeType = "input"
	NodeOutput NodeType = "output"
	NodeError  NodeType = "error"
	NodeSkill  NodeType = "skill"
	NodeAuto   NodeType = "auto"
)

// EdgeStyle classifies a graph edge
type EdgeStyle string

const (
	// EdgeSolid links a command to its own result
	EdgeSolid EdgeStyle = "solid"
	// EdgeDashed chains a result to the next command in the same session
	EdgeDashed EdgeStyle = "dashed"
)

// Node represents a single node in the execution flow graph.
// ID, Type, and Timestamp are fixed at creation and never change.
type Node struct {
	ID        string       `json:"id"`
	Type      NodeType     `json:"type"`
	Content   string       `json:"content"`
	Timestamp time.Time    `json:"timestamp"`
	Metadata  NodeMetadata `json:"metadata"`
}

// NodeMetadata carries session grouping and execution details
type NodeMetadata struct {
	SessionID    string `json:"session_id"`
	CommandIndex int    `json:"command_index"`
	ExitCode     *int   `json:"exit_code,omitempty"`
	DurationMS   *int64 `json:"duration_ms,omitempty"`
	// FullContent holds untruncated output when Content was shortened for display
	FullContent string `json:"full_content,omitempty"`
}

// Edge represents a directed link between two nodes.
// An edge is valid only while both endpoints exist.
type Edge struct {
	ID    string    `json:"id"`
	From  string    `json:"from"`
	To    string    `json:"to"`
	Style EdgeStyle `json:"style"`
}

// GraphDelta is the set of nodes and edges produced by one parsed
// execution, to be merged into the graph store
type GraphDelta struct {
	Nodes        []Node `json:"nodes"`
	Edges        []Edge `json:"edges"`
	LastOutputID string `json:"last_output_id"`
}

// ExecutionResult represents the outcome of one terminal command
type ExecutionResult struct {
	Success    bool   `json:"success"`
	Output     string `json:"output"`
	ExitCode   int    `json:"exit_code"`
	DurationMS int64  `json:"duration_ms"`
}

// ExecutionContext identifies the session and ordering of a command
type ExecutionContext struct {
	SessionID    string `json:"session_id"`
	CommandIndex int    `json:"command_index"`
}
