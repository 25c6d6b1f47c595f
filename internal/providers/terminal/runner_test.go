package terminal

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestRunCapturesOutput(t *testing.T) {
	runner := NewRunner(DefaultConfig())
	ctx := context.Background()

	result, err := runner.Run(ctx, "sess-1", "echo hello")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !result.Success {
		t.Errorf("Expected success, got exit code %d", result.ExitCode)
	}
	if result.Output != "hello" {
		t.Errorf("Expected 'hello', got %q", result.Output)
	}
	if result.ExitCode != 0 {
		t.Errorf("Expected exit code 0, got %d", result.ExitCode)
	}
}

func TestRunFailingCommand(t *testing.T) {
	runner := NewRunner(DefaultConfig())
	ctx := context.Background()

	result, err := runner.Run(ctx, "sess-1", "exit 3")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Success {
		t.Error("Expected failure for nonzero exit")
	}
	if result.ExitCode != 3 {
		t.Errorf("Expected exit code 3, got %d", result.ExitCode)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	runner := NewRunner(DefaultConfig())
	ctx := context.Background()

	result, err := runner.Run(ctx, "sess-1", "definitely-not-a-command-xyz")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Success {
		t.Error("Expected failure for unknown command")
	}
	if result.ExitCode == 0 {
		t.Error("Expected nonzero exit code")
	}
	if !strings.Contains(result.Output, "not") && result.Output == "" {
		t.Log("Shell produced no error text; exit code is the signal")
	}
}

func TestRunEmptyCommand(t *testing.T) {
	runner := NewRunner(DefaultConfig())

	if _, err := runner.Run(context.Background(), "sess-1", "   "); err == nil {
		t.Error("Expected error for blank command")
	}
}

func TestRunTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 200 * time.Millisecond
	runner := NewRunner(cfg)

	result, err := runner.Run(context.Background(), "sess-1", "sleep 5")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Success {
		t.Error("Expected timed-out command to fail")
	}
	if result.ExitCode != timeoutExitCode {
		t.Errorf("Expected exit code %d, got %d", timeoutExitCode, result.ExitCode)
	}
}

func TestRunOutputCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxOutputBytes = 64
	runner := NewRunner(cfg)

	result, err := runner.Run(context.Background(), "sess-1", "yes | head -n 1000")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Output) > 64 {
		t.Errorf("Expected output capped at 64 bytes, got %d", len(result.Output))
	}
}

func TestSessionTracking(t *testing.T) {
	runner := NewRunner(DefaultConfig())
	ctx := context.Background()

	runner.Run(ctx, "sess-a", "echo 1")
	runner.Run(ctx, "sess-a", "echo 2")
	runner.Run(ctx, "sess-b", "echo 3")

	sessions := runner.List()
	if len(sessions) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(sessions))
	}

	counts := make(map[string]int)
	for _, s := range sessions {
		counts[s.ID] = s.Commands
	}
	if counts["sess-a"] != 2 {
		t.Errorf("Expected 2 commands in sess-a, got %d", counts["sess-a"])
	}

	if !runner.Kill("sess-a") {
		t.Error("Expected Kill to find sess-a")
	}
	if runner.Kill("sess-a") {
		t.Error("Expected second Kill to report missing session")
	}
}

func TestWorkingDir(t *testing.T) {
	runner := NewRunner(DefaultConfig())
	runner.SetWorkingDir("sess-1", "/tmp")

	result, err := runner.Run(context.Background(), "sess-1", "pwd")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !strings.HasSuffix(result.Output, "tmp") {
		t.Errorf("Expected pwd to report /tmp, got %q", result.Output)
	}
}
