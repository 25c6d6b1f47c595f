package graph

import (
	"fmt"
	"sync"

	"github.com/termflow/termflow/backend/internal/shared/types"
)

// Store is the append-only graph store.
//
// Nodes are kept in insertion order (creation order) alongside an id
// index for endpoint checks. Existing entries are never removed or
// reordered; Clear and Replace are the only full-state operations and
// the caller is responsible for resetting the parser with them.
type Store struct {
	mu    sync.RWMutex
	nodes []types.Node
	index map[string]int
	edges []types.Edge
}

// NewStore creates an empty graph store
func NewStore() *Store {
	return &Store{
		index: make(map[string]int),
	}
}

// Append merges one delta into the store.
//
// The whole delta is validated before anything is written: duplicate
// node ids and edges with unknown endpoints reject the entire delta.
func (s *Store) Append(delta *types.GraphDelta) error {
	if delta == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	incoming := make(map[string]bool, len(delta.Nodes))
	for _, node := range delta.Nodes {
		if _, exists := s.index[node.ID]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateNode, node.ID)
		}
		if incoming[node.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateNode, node.ID)
		}
		incoming[node.ID] = true
	}

	for _, edge := range delta.Edges {
		if !s.hasNodeLocked(edge.From) && !incoming[edge.From] {
			return fmt.Errorf("%w: edge %s from %s", ErrUnknownEndpoint, edge.ID, edge.From)
		}
		if !s.hasNodeLocked(edge.To) && !incoming[edge.To] {
			return fmt.Errorf("%w: edge %s to %s", ErrUnknownEndpoint, edge.ID, edge.To)
		}
	}

	for _, node := range delta.Nodes {
		s.index[node.ID] = len(s.nodes)
		s.nodes = append(s.nodes, node)
	}
	s.edges = append(s.edges, delta.Edges...)

	return nil
}

// Nodes returns all nodes in insertion order
func (s *Store) Nodes() []types.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Edges returns all edges in insertion order
func (s *Store) Edges() []types.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Edge, len(s.edges))
	copy(out, s.edges)
	return out
}

// Node looks up a single node by id
func (s *Store) Node(id string) (types.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i, ok := s.index[id]; ok {
		return s.nodes[i], true
	}
	return types.Node{}, false
}

// Size returns the current node and edge counts
func (s *Store) Size() (nodes, edges int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.nodes), len(s.edges)
}

// Clear removes all nodes and edges
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes = nil
	s.edges = nil
	s.index = make(map[string]int)
}

// Replace swaps in a complete node/edge set, used by snapshot restore.
// Edge endpoints are validated against the incoming node set
func (s *Store) Replace(nodes []types.Node, edges []types.Edge) error {
	index := make(map[string]int, len(nodes))
	for i, node := range nodes {
		if _, exists := index[node.ID]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateNode, node.ID)
		}
		index[node.ID] = i
	}
	for _, edge := range edges {
		if _, ok := index[edge.From]; !ok {
			return fmt.Errorf("%w: edge %s from %s", ErrUnknownEndpoint, edge.ID, edge.From)
		}
		if _, ok := index[edge.To]; !ok {
			return fmt.Errorf("%w: edge %s to %s", ErrUnknownEndpoint, edge.ID, edge.To)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes = make([]types.Node, len(nodes))
	copy(s.nodes, nodes)
	s.edges = make([]types.Edge, len(edges))
	copy(s.edges, edges)
	s.index = index

	return nil
}

func (s *Store) hasNodeLocked(id string) bool {
	_, ok := s.index[id]
	return ok
}
