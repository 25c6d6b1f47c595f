package graph

import (
	"fmt"
	"strings"

	"github.com/termflow/termflow/backend/internal/shared/types"
)

// FilterAll matches every node type
const FilterAll = "all"

// SearchResult holds the nodes matching a search evaluation
type SearchResult struct {
	Matches []types.Node `json:"matches"`
	Count   int          `json:"count"`
}

// First returns the focus candidate: the earliest match by original
// node order, or false when there are no matches
func (r SearchResult) First() (types.Node, bool) {
	if len(r.Matches) == 0 {
		return types.Node{}, false
	}
	return r.Matches[0], true
}

// Evaluate computes the subset of nodes matching a free-text query and
// a type filter.
//
// The type filter applies first ("all" or empty keeps everything). A
// non-empty query then matches case-insensitively as a substring of a
// node's title or content. An empty query with the "all" filter yields
// an empty set: that state means "no active filter", not "everything
// matches". Node order is preserved. Evaluate never fails; nil input
// degrades to an empty result.
func Evaluate(nodes []types.Node, query, typeFilter string) SearchResult {
	result := SearchResult{Matches: []types.Node{}}

	if typeFilter == "" {
		typeFilter = FilterAll
	}
	if query == "" && typeFilter == FilterAll {
		return result
	}

	needle := strings.ToLower(query)
	for _, node := range nodes {
		if typeFilter != FilterAll && string(node.Type) != typeFilter {
			continue
		}
		if needle != "" && !matches(node, needle) {
			continue
		}
		result.Matches = append(result.Matches, node)
	}

	result.Count = len(result.Matches)
	return result
}

// Title derives the short display label for a node: the command text
// for inputs, the first content line otherwise
func Title(node types.Node) string {
	content := node.Content
	if node.Type == types.NodeInput {
		content = strings.TrimPrefix(content, "$ ")
	}
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		content = content[:i]
	}
	return content
}

// FormatCount renders a match count with noun agreement
func FormatCount(count int) string {
	if count == 1 {
		return "1 match"
	}
	return fmt.Sprintf("%d matches", count)
}

func matches(node types.Node, needle string) bool {
	if strings.Contains(strings.ToLower(Title(node)), needle) {
		return true
	}
	return strings.Contains(strings.ToLower(node.Content), needle)
}
