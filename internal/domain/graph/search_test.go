package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termflow/termflow/backend/internal/shared/types"
)

func searchNodes() []types.Node {
	return []types.Node{
		{ID: "n1", Type: types.NodeInput, Content: "$ ls -la"},
		{ID: "n2", Type: types.NodeOutput, Content: "total 8\ndrwxr-xr-x  2 user user"},
		{ID: "n3", Type: types.NodeInput, Content: "$ whoami"},
		{ID: "n4", Type: types.NodeOutput, Content: "user"},
		{ID: "n5", Type: types.NodeInput, Content: "$ cat missing.txt"},
		{ID: "n6", Type: types.NodeError, Content: "cat: missing.txt: No such file"},
	}
}

func TestEvaluate(t *testing.T) {
	t.Run("empty query with all filter means no active filter", func(t *testing.T) {
		result := Evaluate(searchNodes(), "", "all")
		assert.Empty(t, result.Matches)
		assert.Equal(t, 0, result.Count)
	})

	t.Run("empty filter is treated as all", func(t *testing.T) {
		result := Evaluate(searchNodes(), "", "")
		assert.Empty(t, result.Matches)
	})

	t.Run("type filter alone selects nodes in order", func(t *testing.T) {
		result := Evaluate(searchNodes(), "", "output")
		require.Len(t, result.Matches, 2)
		assert.Equal(t, "n2", result.Matches[0].ID)
		assert.Equal(t, "n4", result.Matches[1].ID)
	})

	t.Run("query matches case-insensitively", func(t *testing.T) {
		result := Evaluate(searchNodes(), "LS", "all")
		require.Len(t, result.Matches, 1)
		assert.Equal(t, "n1", result.Matches[0].ID)
	})

	t.Run("query matches content beyond the title line", func(t *testing.T) {
		result := Evaluate(searchNodes(), "drwxr", "all")
		require.Len(t, result.Matches, 1)
		assert.Equal(t, "n2", result.Matches[0].ID)
	})

	t.Run("query and type filter combine", func(t *testing.T) {
		result := Evaluate(searchNodes(), "missing", "error")
		require.Len(t, result.Matches, 1)
		assert.Equal(t, "n6", result.Matches[0].ID)
	})

	t.Run("no matches yields empty set", func(t *testing.T) {
		result := Evaluate(searchNodes(), "zzz-nothing", "all")
		assert.Empty(t, result.Matches)
		assert.Equal(t, 0, result.Count)
	})

	t.Run("nil nodes degrade to empty result", func(t *testing.T) {
		result := Evaluate(nil, "ls", "all")
		assert.NotNil(t, result.Matches)
		assert.Equal(t, 0, result.Count)
	})

	t.Run("first match surfaces by original order", func(t *testing.T) {
		result := Evaluate(searchNodes(), "user", "all")
		first, ok := result.First()
		require.True(t, ok)
		assert.Equal(t, "n2", first.ID)
	})

	t.Run("count matches result length exactly", func(t *testing.T) {
		result := Evaluate(searchNodes(), "missing", "all")
		assert.Equal(t, len(result.Matches), result.Count)
		assert.Equal(t, 2, result.Count)
	})
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "ls -la", Title(types.Node{Type: types.NodeInput, Content: "$ ls -la"}))
	assert.Equal(t, "total 8", Title(types.Node{Type: types.NodeOutput, Content: "total 8\nmore"}))
	assert.Equal(t, "", Title(types.Node{Type: types.NodeOutput, Content: ""}))
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0 matches", FormatCount(0))
	assert.Equal(t, "1 match", FormatCount(1))
	assert.Equal(t, "7 matches", FormatCount(7))
}
