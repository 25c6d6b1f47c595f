package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termflow/termflow/backend/internal/domain/graph"
	"github.com/termflow/termflow/backend/internal/shared/types"
)

func seedGraph(t *testing.T, parser *graph.Parser, store *graph.Store, commands ...string) {
	t.Helper()
	for i, cmd := range commands {
		delta, err := parser.ParseExecution(cmd, types.ExecutionResult{
			Success: true,
			Output:  cmd + " output",
		}, types.ExecutionContext{SessionID: "sess-1", CommandIndex: i})
		require.NoError(t, err)
		require.NoError(t, store.Append(delta))
	}
}

func TestSaveAndList(t *testing.T) {
	parser := graph.NewParser()
	store := graph.NewStore()
	seedGraph(t, parser, store, "pwd", "ls")

	manager, err := NewManager(store, parser, t.TempDir())
	require.NoError(t, err)

	snap, err := manager.Save("work", "mid-task state")
	require.NoError(t, err)
	assert.NotEmpty(t, snap.ID)
	assert.Len(t, snap.Nodes, 4)
	assert.Len(t, snap.Edges, 3)

	list := manager.List()
	require.Len(t, list, 1)
	assert.Equal(t, "work", list[0].Name)
	assert.Equal(t, 4, list[0].NodeCount)
	assert.Equal(t, 3, list[0].EdgeCount)

	stats := manager.Stats()
	assert.Equal(t, 1, stats.TotalSnapshots)
	assert.NotNil(t, stats.LastSaved)
}

func TestRestoreRoundTrip(t *testing.T) {
	parser := graph.NewParser()
	store := graph.NewStore()
	seedGraph(t, parser, store, "pwd", "ls")

	dir := t.TempDir()
	manager, err := NewManager(store, parser, dir)
	require.NoError(t, err)

	snap, err := manager.Save("checkpoint", "")
	require.NoError(t, err)
	savedLast := parser.LastOutputID("sess-1")

	// Diverge: clear everything
	store.Clear()
	parser.Reset()
	require.Equal(t, 0, parser.ExpectedIndex("sess-1"))

	require.NoError(t, manager.Restore(snap.ID))

	nodes, edges := store.Size()
	assert.Equal(t, 4, nodes)
	assert.Equal(t, 3, edges)
	assert.Equal(t, 2, parser.ExpectedIndex("sess-1"))
	assert.Equal(t, savedLast, parser.LastOutputID("sess-1"))

	// The next command chains from the restored result node
	delta, err := parser.ParseExecution("whoami", types.ExecutionResult{Success: true, Output: "user"},
		types.ExecutionContext{SessionID: "sess-1", CommandIndex: 2})
	require.NoError(t, err)
	require.Len(t, delta.Edges, 2)
	assert.Equal(t, savedLast, delta.Edges[1].From)
	require.NoError(t, store.Append(delta))
}

func TestScanOnStartup(t *testing.T) {
	parser := graph.NewParser()
	store := graph.NewStore()
	seedGraph(t, parser, store, "pwd")

	dir := t.TempDir()
	manager, err := NewManager(store, parser, dir)
	require.NoError(t, err)

	snap, err := manager.Save("persisted", "")
	require.NoError(t, err)

	// A new manager over the same directory sees the snapshot
	reopened, err := NewManager(graph.NewStore(), graph.NewParser(), dir)
	require.NoError(t, err)

	list := reopened.List()
	require.Len(t, list, 1)
	assert.Equal(t, snap.ID, list[0].ID)

	require.NoError(t, reopened.Restore(snap.ID))
}

func TestDelete(t *testing.T) {
	parser := graph.NewParser()
	store := graph.NewStore()

	manager, err := NewManager(store, parser, t.TempDir())
	require.NoError(t, err)

	snap, err := manager.Save("doomed", "")
	require.NoError(t, err)

	require.NoError(t, manager.Delete(snap.ID))
	assert.Empty(t, manager.List())

	_, err = manager.Load(snap.ID)
	assert.Error(t, err)

	// Deleting a missing snapshot is not an error
	require.NoError(t, manager.Delete(snap.ID))
}
