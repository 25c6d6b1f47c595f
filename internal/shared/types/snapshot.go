package types

import "time"

// Snapshot captures the full graph state for persistence
type Snapshot struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	Nodes       []Node    `json:"nodes"`
	Edges       []Edge    `json:"edges"`
	// Chaining maps session_id to the session's last result node id,
	// so restored sessions keep linking from where they left off
	Chaining  map[string]string `json:"chaining"`
	NextIndex map[string]int    `json:"next_index"`
}

// SnapshotMetadata is a listing entry for a saved snapshot
type SnapshotMetadata struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	NodeCount   int       `json:"node_count"`
	EdgeCount   int       `json:"edge_count"`
}

// ToMetadata converts a snapshot to its listing entry
func (s *Snapshot) ToMetadata() SnapshotMetadata {
	return SnapshotMetadata{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		NodeCount:   len(s.Nodes),
		EdgeCount:   len(s.Edges),
	}
}

// SnapshotStats reports snapshot manager statistics
type SnapshotStats struct {
	TotalSnapshots int        `json:"total_snapshots"`
	LastSaved      *time.Time `json:"last_saved,omitempty"`
	LastRestored   *time.Time `json:"last_restored,omitempty"`
}
