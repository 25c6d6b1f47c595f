// Package id provides centralized ID generation for the backend.
//
// This package offers type-safe ULID generation with:
//   - Lexicographic sortability: node listings stay in creation order
//   - Prefixed types: Type-specific prefixes for debugging (node_*, edge_*, sess_*)
//   - Type safety: Separate types prevent ID misuse
//   - Collision freedom: IDs are never reused across the process lifetime
//
// Design Principles:
//   - ULIDs only: Single ID format across the entire system
//   - Content-independent: IDs never derive from display text
//   - Debuggable: Prefixes make logs and graph dumps readable
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// NodeID identifies a graph node
type NodeID string

// EdgeID identifies a graph edge
type EdgeID string

// SessionID identifies a terminal session
type SessionID string

// SnapshotID identifies a saved graph snapshot
type SnapshotID string

// RequestID identifies an API request
type RequestID string

// ClientID identifies a WebSocket client
type ClientID string

// ID prefixes for debugging and type identification
const (
	NodePrefix     = "node"
	EdgePrefix     = "edge"
	SessionPrefix  = "sess"
	SnapshotPrefix = "snap"
	RequestPrefix  = "req"
	ClientPrefix   = "client"
)

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator with secure entropy
func NewGenerator() *Generator {
	return &Generator{
		entropy: rand.Reader,
	}
}

// NewGeneratorWithEntropy creates a generator with custom entropy source.
// Useful for testing with deterministic entropy
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{
		entropy: entropy,
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewNodeID generates a new graph node ID
func NewNodeID() NodeID {
	return NodeID(Default().GenerateWithPrefix(NodePrefix))
}

// NewEdgeID generates a new graph edge ID
func NewEdgeID() EdgeID {
	return EdgeID(Default().GenerateWithPrefix(EdgePrefix))
}

// NewSessionID generates a new terminal session ID
func NewSessionID() SessionID {
	return SessionID(Default().GenerateWithPrefix(SessionPrefix))
}

// NewSnapshotID generates a new snapshot ID
func NewSnapshotID() SnapshotID {
	return SnapshotID(Default().GenerateWithPrefix(SnapshotPrefix))
}

// NewRequestID generates a new request ID
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

// NewClientID generates a new WebSocket client ID
func NewClientID() ClientID {
	return ClientID(Default().GenerateWithPrefix(ClientPrefix))
}

// String methods for ID types
func (id NodeID) String() string     { return string(id) }
func (id EdgeID) String() string     { return string(id) }
func (id SessionID) String() string  { return string(id) }
func (id SnapshotID) String() string { return string(id) }
func (id RequestID) String() string  { return string(id) }
func (id ClientID) String() string   { return string(id) }

// IsValid checks if an ID string is a valid ULID
func IsValid(id string) bool {
	_, err := ulid.Parse(id)
	return err == nil
}

// Parse parses a ULID string
func Parse(id string) (ulid.ULID, error) {
	return ulid.Parse(id)
}

// Timestamp extracts the creation time from a ULID
func Timestamp(id string) (time.Time, error) {
	parsed, err := Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
