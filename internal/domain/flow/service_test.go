package flow

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termflow/termflow/backend/internal/domain/graph"
	"github.com/termflow/termflow/backend/internal/shared/types"
)

// fakeRunner maps commands to canned results without touching a PTY.
type fakeRunner struct {
	results map[string]types.ExecutionResult
}

func (f *fakeRunner) Run(_ context.Context, _, command string) (types.ExecutionResult, error) {
	if res, ok := f.results[command]; ok {
		return res, nil
	}
	return types.ExecutionResult{
		Success:  false,
		Output:   "sh: " + command + ": command not found",
		ExitCode: 127,
	}, nil
}

func newService(runner CommandRunner) (*Service, *graph.Store) {
	store := graph.NewStore()
	return NewService(runner, graph.NewParser(), store, nil, nil), store
}

func TestExecuteAppendsDelta(t *testing.T) {
	runner := &fakeRunner{results: map[string]types.ExecutionResult{
		"pwd": {Success: true, Output: "/home/user", ExitCode: 0},
	}}
	svc, store := newService(runner)

	outcome, err := svc.Execute(context.Background(), "demo", "pwd")
	require.NoError(t, err)

	assert.Equal(t, 0, outcome.Index)
	assert.Len(t, outcome.Delta.Nodes, 2)
	assert.Len(t, outcome.Delta.Edges, 1)

	nodes, edges := store.Size()
	assert.Equal(t, 2, nodes)
	assert.Equal(t, 1, edges)
}

func TestExecuteChainsAcrossCommands(t *testing.T) {
	runner := &fakeRunner{results: map[string]types.ExecutionResult{
		"pwd": {Success: true, Output: "/home/user", ExitCode: 0},
		"ls":  {Success: true, Output: "a.txt\nb.txt", ExitCode: 0},
	}}
	svc, store := newService(runner)

	first, err := svc.Execute(context.Background(), "demo", "pwd")
	require.NoError(t, err)
	second, err := svc.Execute(context.Background(), "demo", "ls")
	require.NoError(t, err)

	require.Len(t, second.Delta.Edges, 2)
	dashed := second.Delta.Edges[1]
	assert.Equal(t, types.EdgeDashed, dashed.Style)
	assert.Equal(t, first.Delta.LastOutputID, dashed.From)
	assert.Equal(t, second.Delta.Nodes[0].ID, dashed.To)

	nodes, edges := store.Size()
	assert.Equal(t, 4, nodes)
	assert.Equal(t, 3, edges)
}

func TestExecuteRejectsBlankWithoutRunning(t *testing.T) {
	svc, store := newService(&fakeRunner{})

	_, err := svc.Execute(context.Background(), "demo", "   ")
	assert.ErrorIs(t, err, graph.ErrInvalidCommand)

	nodes, _ := store.Size()
	assert.Equal(t, 0, nodes)
	assert.Equal(t, 0, svc.ExpectedIndex("demo"))
}

func TestExecuteDefaultsSession(t *testing.T) {
	runner := &fakeRunner{results: map[string]types.ExecutionResult{
		"whoami": {Success: true, Output: "root", ExitCode: 0},
	}}
	svc, _ := newService(runner)

	outcome, err := svc.Execute(context.Background(), "", "whoami")
	require.NoError(t, err)
	assert.Equal(t, DefaultSession, outcome.Delta.Nodes[0].Metadata.SessionID)
	assert.Equal(t, 1, svc.ExpectedIndex(""))
}

func TestExecuteFailedCommandCreatesErrorNode(t *testing.T) {
	svc, _ := newService(&fakeRunner{})

	outcome, err := svc.Execute(context.Background(), "demo", "nosuchcmd")
	require.NoError(t, err)

	result := outcome.Delta.Nodes[1]
	assert.Equal(t, types.NodeError, result.Type)
	assert.True(t, strings.Contains(result.Content, "command not found"))
	require.NotNil(t, result.Metadata.ExitCode)
	assert.Equal(t, 127, *result.Metadata.ExitCode)
}

func TestSearchReflectsStore(t *testing.T) {
	runner := &fakeRunner{results: map[string]types.ExecutionResult{
		"pwd": {Success: true, Output: "/home/user", ExitCode: 0},
	}}
	svc, _ := newService(runner)

	_, err := svc.Execute(context.Background(), "demo", "pwd")
	require.NoError(t, err)

	res := svc.Search("pwd", "input")
	assert.Equal(t, 1, res.Count)

	res = svc.Search("", "all")
	assert.Equal(t, 0, res.Count)
}

func TestClearResetsChaining(t *testing.T) {
	runner := &fakeRunner{results: map[string]types.ExecutionResult{
		"pwd": {Success: true, Output: "/home/user", ExitCode: 0},
	}}
	svc, store := newService(runner)

	_, err := svc.Execute(context.Background(), "demo", "pwd")
	require.NoError(t, err)

	svc.Clear()

	nodes, _ := store.Size()
	assert.Equal(t, 0, nodes)
	assert.Equal(t, 0, svc.ExpectedIndex("demo"))

	// First command after a clear starts a fresh chain.
	outcome, err := svc.Execute(context.Background(), "demo", "pwd")
	require.NoError(t, err)
	assert.Len(t, outcome.Delta.Edges, 1)
}
