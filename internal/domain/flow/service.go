package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/termflow/termflow/backend/internal/domain/graph"
	"github.com/termflow/termflow/backend/internal/infrastructure/logging"
	"github.com/termflow/termflow/backend/internal/infrastructure/monitoring"
	"github.com/termflow/termflow/backend/internal/shared/types"
)

// DefaultSession is used when a request does not name a session.
const DefaultSession = "default"

// CommandRunner executes a shell command and reports its outcome.
type CommandRunner interface {
	Run(ctx context.Context, sessionID, command string) (types.ExecutionResult, error)
}

// Outcome is the result of one executed command.
type Outcome struct {
	Delta  *types.GraphDelta     `json:"delta"`
	Result types.ExecutionResult `json:"result"`
	Index  int                   `json:"command_index"`
}

// Service coordinates execution, parsing, and storage.
type Service struct {
	runner  CommandRunner
	parser  *graph.Parser
	store   *graph.Store
	metrics *monitoring.Metrics
	log     *logging.Logger

	// locks serializes executions per session so derived command
	// indexes stay contiguous under concurrent requests.
	locks sync.Map // map[string]*sync.Mutex
}

// NewService creates a flow service. Metrics may be nil to disable recording.
func NewService(runner CommandRunner, parser *graph.Parser, store *graph.Store, metrics *monitoring.Metrics, log *logging.Logger) *Service {
	if log == nil {
		log = &logging.Logger{Logger: zap.NewNop()}
	}
	return &Service{
		runner:  runner,
		parser:  parser,
		store:   store,
		metrics: metrics,
		log:     log,
	}
}

// Execute runs a command in the named session and appends the resulting
// delta to the graph. Blank commands are rejected before anything runs.
func (s *Service) Execute(ctx context.Context, sessionID, command string) (*Outcome, error) {
	if sessionID == "" {
		sessionID = DefaultSession
	}
	if strings.TrimSpace(command) == "" {
		s.recordParseError("invalid_command")
		return nil, graph.ErrInvalidCommand
	}

	lock, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	mu := lock.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	index := s.parser.ExpectedIndex(sessionID)
	start := time.Now()

	result, err := s.runner.Run(ctx, sessionID, command)
	if err != nil {
		return nil, fmt.Errorf("command execution failed: %w", err)
	}

	delta, err := s.parser.ParseExecution(command, result, types.ExecutionContext{
		SessionID:    sessionID,
		CommandIndex: index,
	})
	if err != nil {
		s.recordParseError(reason(err))
		return nil, err
	}

	if err := s.store.Append(delta); err != nil {
		s.log.Error("delta rejected by store",
			zap.String("session_id", sessionID),
			zap.Int("command_index", index),
			zap.Error(err))
		return nil, err
	}

	s.recordExecution(delta, result, time.Since(start))
	s.log.Info("command executed",
		zap.String("session_id", sessionID),
		zap.Int("command_index", index),
		zap.Int("exit_code", result.ExitCode),
		zap.Int("nodes", len(delta.Nodes)),
		zap.Int("edges", len(delta.Edges)))

	return &Outcome{Delta: delta, Result: result, Index: index}, nil
}

// Search evaluates a query against the current node collection.
func (s *Service) Search(query, typeFilter string) graph.SearchResult {
	if s.metrics != nil {
		s.metrics.SearchQueries.Inc()
	}
	return graph.Evaluate(s.store.Nodes(), query, typeFilter)
}

// Graph returns a copy of the full node and edge collections.
func (s *Service) Graph() ([]types.Node, []types.Edge) {
	return s.store.Nodes(), s.store.Edges()
}

// Clear wipes the graph and all session chaining state.
func (s *Service) Clear() {
	s.store.Clear()
	s.parser.Reset()
	if s.metrics != nil {
		s.metrics.SetGraphSize(0, 0)
	}
	s.log.Info("graph cleared")
}

// ExpectedIndex reports the next command index for a session.
func (s *Service) ExpectedIndex(sessionID string) int {
	if sessionID == "" {
		sessionID = DefaultSession
	}
	return s.parser.ExpectedIndex(sessionID)
}

func (s *Service) recordExecution(delta *types.GraphDelta, result types.ExecutionResult, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	nodeTypes := make([]string, 0, len(delta.Nodes))
	for _, n := range delta.Nodes {
		nodeTypes = append(nodeTypes, string(n.Type))
	}
	edgeStyles := make([]string, 0, len(delta.Edges))
	for _, e := range delta.Edges {
		edgeStyles = append(edgeStyles, string(e.Style))
	}
	nodes, edges := s.store.Size()
	s.metrics.RecordCommand(result.Success && result.ExitCode == 0, elapsed)
	s.metrics.RecordDelta(nodeTypes, edgeStyles, nodes, edges)
}

func (s *Service) recordParseError(why string) {
	if s.metrics != nil {
		s.metrics.ParseErrors.WithLabelValues(why).Inc()
	}
}

func reason(err error) string {
	switch {
	case errors.Is(err, graph.ErrInvalidCommand):
		return "invalid_command"
	case errors.Is(err, graph.ErrOutOfOrderIndex):
		return "out_of_order"
	default:
		return "other"
	}
}
