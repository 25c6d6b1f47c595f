package types

// ExecuteRequest represents a command execution request
type ExecuteRequest struct {
	SessionID string `json:"session_id"`
	Command   string `json:"command" binding:"required"`
}

// SaveSnapshotRequest represents a snapshot save request
type SaveSnapshotRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	Command   string `json:"command,omitempty"`
	Query     string `json:"query,omitempty"`
	Filter    string `json:"filter,omitempty"`
}
