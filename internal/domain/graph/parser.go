package graph

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/termflow/termflow/backend/internal/shared/id"
	"github.com/termflow/termflow/backend/internal/shared/types"
)

// maxDisplayLines is the line threshold above which result node content
// is truncated for display. Full output stays in node metadata.
const maxDisplayLines = 5

// sessionState tracks per-session chaining between consecutive commands
type sessionState struct {
	lastOutputID string
	nextIndex    int
}

// Parser converts command executions into graph deltas.
//
// It owns one chaining entry per session: the id of the most recent
// result node (dashed edge anchor) and the expected next command index.
// Sessions are never expired implicitly; reset is explicit.
type Parser struct {
	mu       sync.Mutex
	sessions map[string]*sessionState
	clock    func() time.Time
}

// NewParser creates a parser with the system clock
func NewParser() *Parser {
	return NewParserWithClock(time.Now)
}

// NewParserWithClock creates a parser with a custom time source.
// Useful for testing with deterministic timestamps
func NewParserWithClock(clock func() time.Time) *Parser {
	return &Parser{
		sessions: make(map[string]*sessionState),
		clock:    clock,
	}
}

// ParseExecution translates one completed command execution into the
// nodes and edges to append to the graph.
//
// It returns exactly two nodes (input and result) and one solid edge,
// plus a dashed chaining edge when the session has a prior result.
// On error no state is mutated and no nodes are created.
func (p *Parser) ParseExecution(commandText string, result types.ExecutionResult, execCtx types.ExecutionContext) (*types.GraphDelta, error) {
	if strings.TrimSpace(commandText) == "" {
		return nil, fmt.Errorf("%w: empty command text", ErrInvalidCommand)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	state, seen := p.sessions[execCtx.SessionID]
	expected := 0
	if seen {
		expected = state.nextIndex
	}
	if execCtx.CommandIndex != expected {
		return nil, fmt.Errorf("%w: session %s expected index %d, got %d",
			ErrOutOfOrderIndex, execCtx.SessionID, expected, execCtx.CommandIndex)
	}

	now := p.clock()

	inputNode := types.Node{
		ID:        string(id.NewNodeID()),
		Type:      types.NodeInput,
		Content:   "$ " + commandText,
		Timestamp: now,
		Metadata: types.NodeMetadata{
			SessionID:    execCtx.SessionID,
			CommandIndex: execCtx.CommandIndex,
		},
	}

	resultType := types.NodeOutput
	if !result.Success || result.ExitCode != 0 {
		resultType = types.NodeError
	}

	content := result.Output
	if content == "" && resultType == types.NodeError {
		content = fmt.Sprintf("command exited with status %d", result.ExitCode)
	}

	display, truncated := truncateOutput(content)

	exitCode := result.ExitCode
	duration := result.DurationMS
	resultNode := types.Node{
		ID:        string(id.NewNodeID()),
		Type:      resultType,
		Content:   display,
		Timestamp: now,
		Metadata: types.NodeMetadata{
			SessionID:    execCtx.SessionID,
			CommandIndex: execCtx.CommandIndex,
			ExitCode:     &exitCode,
			DurationMS:   &duration,
		},
	}
	if truncated {
		resultNode.Metadata.FullContent = content
	}

	edges := []types.Edge{
		{
			ID:    string(id.NewEdgeID()),
			From:  inputNode.ID,
			To:    resultNode.ID,
			Style: types.EdgeSolid,
		},
	}

	// Chain from the previous command's result, unless this is the
	// session's first command
	if seen && state.lastOutputID != "" {
		edges = append(edges, types.Edge{
			ID:    string(id.NewEdgeID()),
			From:  state.lastOutputID,
			To:    inputNode.ID,
			Style: types.EdgeDashed,
		})
	}

	if !seen {
		state = &sessionState{}
		p.sessions[execCtx.SessionID] = state
	}
	state.lastOutputID = resultNode.ID
	state.nextIndex = execCtx.CommandIndex + 1

	return &types.GraphDelta{
		Nodes:        []types.Node{inputNode, resultNode},
		Edges:        edges,
		LastOutputID: resultNode.ID,
	}, nil
}

// ExpectedIndex returns the next command index the parser will accept
// for a session. Unknown sessions start at 0
func (p *Parser) ExpectedIndex(sessionID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if state, ok := p.sessions[sessionID]; ok {
		return state.nextIndex
	}
	return 0
}

// LastOutputID returns the dashed-edge anchor for a session, or empty
// when the session has no completed command yet
func (p *Parser) LastOutputID(sessionID string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if state, ok := p.sessions[sessionID]; ok {
		return state.lastOutputID
	}
	return ""
}

// ResetSession drops chaining state for one session
func (p *Parser) ResetSession(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.sessions, sessionID)
}

// Reset drops chaining state for all sessions
func (p *Parser) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sessions = make(map[string]*sessionState)
}

// ChainingState exports per-session state for snapshot persistence
func (p *Parser) ChainingState() (chaining map[string]string, nextIndex map[string]int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	chaining = make(map[string]string, len(p.sessions))
	nextIndex = make(map[string]int, len(p.sessions))
	for sid, state := range p.sessions {
		chaining[sid] = state.lastOutputID
		nextIndex[sid] = state.nextIndex
	}
	return chaining, nextIndex
}

// RestoreChaining replaces all per-session state from a snapshot
func (p *Parser) RestoreChaining(chaining map[string]string, nextIndex map[string]int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sessions = make(map[string]*sessionState, len(chaining))
	for sid, last := range chaining {
		p.sessions[sid] = &sessionState{
			lastOutputID: last,
			nextIndex:    nextIndex[sid],
		}
	}
}

// truncateOutput shortens output beyond maxDisplayLines, appending an
// indicator line with the omitted count
func truncateOutput(output string) (string, bool) {
	lines := strings.Split(output, "\n")
	if len(lines) <= maxDisplayLines {
		return output, false
	}

	omitted := len(lines) - maxDisplayLines
	display := strings.Join(lines[:maxDisplayLines], "\n")
	return fmt.Sprintf("%s\n... (%d more lines)", display, omitted), true
}
