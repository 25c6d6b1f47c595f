package session

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/gzip"

	"github.com/termflow/termflow/backend/internal/shared/id"
	"github.com/termflow/termflow/backend/internal/shared/types"
)

// GraphStore is the store surface snapshots read and replace
type GraphStore interface {
	Nodes() []types.Node
	Edges() []types.Edge
	Replace(nodes []types.Node, edges []types.Edge) error
}

// ChainingParser exposes parser state for snapshot round-trips
type ChainingParser interface {
	ChainingState() (chaining map[string]string, nextIndex map[string]int)
	RestoreChaining(chaining map[string]string, nextIndex map[string]int)
}

const snapshotExt = ".json.gz"

// Manager handles snapshot persistence
type Manager struct {
	snapshots sync.Map // map[string]*types.Snapshot
	store     GraphStore
	parser    ChainingParser
	dir       string

	mu           sync.RWMutex
	lastSaved    *time.Time
	lastRestored *time.Time
}

// NewManager creates a manager rooted at dir, loading any snapshots
// already on disk
func NewManager(store GraphStore, parser ChainingParser, dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	m := &Manager{
		store:  store,
		parser: parser,
		dir:    dir,
	}

	if err := m.scan(); err != nil {
		return nil, err
	}
	return m, nil
}

// Save captures the current graph and writes it to disk
func (m *Manager) Save(name, description string) (*types.Snapshot, error) {
	chaining, nextIndex := m.parser.ChainingState()

	now := time.Now()
	snapshot := &types.Snapshot{
		ID:          string(id.NewSnapshotID()),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		Nodes:       m.store.Nodes(),
		Edges:       m.store.Edges(),
		Chaining:    chaining,
		NextIndex:   nextIndex,
	}

	if err := m.write(snapshot); err != nil {
		return nil, err
	}

	m.snapshots.Store(snapshot.ID, snapshot)

	m.mu.Lock()
	m.lastSaved = &now
	m.mu.Unlock()

	return snapshot, nil
}

// Load returns a snapshot by id, reading from disk on cache miss
func (m *Manager) Load(snapshotID string) (*types.Snapshot, error) {
	if cached, ok := m.snapshots.Load(snapshotID); ok {
		return cached.(*types.Snapshot), nil
	}

	snapshot, err := m.read(m.path(snapshotID))
	if err != nil {
		return nil, err
	}

	m.snapshots.Store(snapshot.ID, snapshot)
	return snapshot, nil
}

// Restore replaces the live graph and parser state with a snapshot's
func (m *Manager) Restore(snapshotID string) error {
	snapshot, err := m.Load(snapshotID)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	if err := m.store.Replace(snapshot.Nodes, snapshot.Edges); err != nil {
		return fmt.Errorf("failed to restore graph: %w", err)
	}
	m.parser.RestoreChaining(snapshot.Chaining, snapshot.NextIndex)

	now := time.Now()
	m.mu.Lock()
	m.lastRestored = &now
	m.mu.Unlock()

	return nil
}

// List returns metadata for all known snapshots
func (m *Manager) List() []types.SnapshotMetadata {
	var metadata []types.SnapshotMetadata

	m.snapshots.Range(func(_, value interface{}) bool {
		snapshot := value.(*types.Snapshot)
		metadata = append(metadata, snapshot.ToMetadata())
		return true
	})

	return metadata
}

// Delete removes a snapshot from disk and cache
func (m *Manager) Delete(snapshotID string) error {
	if err := os.Remove(m.path(snapshotID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	m.snapshots.Delete(snapshotID)
	return nil
}

// Stats returns snapshot manager statistics
func (m *Manager) Stats() types.SnapshotStats {
	var total int
	m.snapshots.Range(func(_, _ interface{}) bool {
		total++
		return true
	})

	m.mu.RLock()
	lastSaved := m.lastSaved
	lastRestored := m.lastRestored
	m.mu.RUnlock()

	return types.SnapshotStats{
		TotalSnapshots: total,
		LastSaved:      lastSaved,
		LastRestored:   lastRestored,
	}
}

func (m *Manager) write(snapshot *types.Snapshot) error {
	data, err := sonic.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	file, err := os.Create(m.path(snapshot.ID))
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer file.Close()

	zw := gzip.NewWriter(file)
	if _, err := zw.Write(data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish snapshot: %w", err)
	}

	return nil
}

func (m *Manager) read(path string) (*types.Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer file.Close()

	zr, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot header: %w", err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot types.Snapshot
	if err := sonic.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	if snapshot.ID == "" {
		return nil, fmt.Errorf("snapshot %s has empty ID field", path)
	}

	return &snapshot, nil
}

// scan loads snapshots already present in the storage directory
func (m *Manager) scan() error {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return fmt.Errorf("failed to scan snapshot dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), snapshotExt) {
			continue
		}
		snapshot, err := m.read(filepath.Join(m.dir, entry.Name()))
		if err != nil {
			// Skip unreadable files rather than failing startup
			continue
		}
		m.snapshots.Store(snapshot.ID, snapshot)
	}

	return nil
}

func (m *Manager) path(snapshotID string) string {
	return filepath.Join(m.dir, snapshotID+snapshotExt)
}
