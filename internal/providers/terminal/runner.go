package terminal

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"

	"github.com/termflow/termflow/backend/internal/shared/types"
)

// Runner executes commands in per-session shell environments
type Runner struct {
	sessions sync.Map // map[string]*shellSession
	config   Config
}

type shellSession struct {
	id         string
	workingDir string
	env        map[string]string
	createdAt  time.Time

	mu       sync.Mutex // Serializes commands within one session
	commands int
}

// NewRunner creates a runner with the provided configuration
func NewRunner(cfg Config) *Runner {
	if cfg.Shell == "" {
		cfg.Shell = os.Getenv("SHELL")
		if cfg.Shell == "" {
			cfg.Shell = "/bin/sh"
		}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.MaxOutputBytes <= 0 {
		cfg.MaxOutputBytes = DefaultConfig().MaxOutputBytes
	}
	return &Runner{config: cfg}
}

// Run executes one command in the named session and captures its result.
//
// The session is created on first use. Commands within one session are
// serialized; different sessions run independently
func (r *Runner) Run(ctx context.Context, sessionID, command string) (types.ExecutionResult, error) {
	if strings.TrimSpace(command) == "" {
		return types.ExecutionResult{}, fmt.Errorf("empty command for session %s", sessionID)
	}

	session := r.getOrCreate(sessionID)
	session.mu.Lock()
	defer session.mu.Unlock()

	runCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	cmd := exec.Command(r.config.Shell, "-c", command)
	cmd.Dir = session.workingDir
	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, "TERM=xterm-256color")
	for key, value := range session.env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
	}

	start := time.Now()

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return types.ExecutionResult{}, fmt.Errorf("failed to start PTY: %w", err)
	}

	// Kill the process if the deadline passes before the read loop ends
	done := make(chan struct{})
	go func() {
		select {
		case <-runCtx.Done():
			if cmd.Process != nil {
				cmd.Process.Kill()
			}
		case <-done:
		}
	}()

	output := r.capture(ptmx)
	ptmx.Close()

	waitErr := cmd.Wait()
	close(done)

	duration := time.Since(start).Milliseconds()

	exitCode := 0
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	if runCtx.Err() != nil {
		exitCode = timeoutExitCode
	} else if exitCode < 0 {
		exitCode = 1
	}

	session.commands++

	return types.ExecutionResult{
		Success:    waitErr == nil && exitCode == 0,
		Output:     output,
		ExitCode:   exitCode,
		DurationMS: duration,
	}, nil
}

// capture reads PTY output until exit, capped at the byte budget
func (r *Runner) capture(ptmx *os.File) string {
	var builder strings.Builder
	buf := make([]byte, 4096)

	for builder.Len() < r.config.MaxOutputBytes {
		n, err := ptmx.Read(buf)
		if n > 0 {
			remaining := r.config.MaxOutputBytes - builder.Len()
			if n > remaining {
				n = remaining
			}
			builder.Write(buf[:n])
		}
		if err != nil {
			// EOF or EIO, the normal PTY close signals
			break
		}
	}

	// Normalize PTY line discipline output
	out := strings.ReplaceAll(builder.String(), "\r\n", "\n")
	return strings.TrimRight(out, "\n")
}

// SetWorkingDir changes the session's working directory for later commands
func (r *Runner) SetWorkingDir(sessionID, dir string) {
	session := r.getOrCreate(sessionID)
	session.mu.Lock()
	defer session.mu.Unlock()
	session.workingDir = dir
}

// SetEnv sets an environment variable for later commands in the session
func (r *Runner) SetEnv(sessionID, key, value string) {
	session := r.getOrCreate(sessionID)
	session.mu.Lock()
	defer session.mu.Unlock()
	session.env[key] = value
}

// Kill removes a session. Commands already running finish normally
func (r *Runner) Kill(sessionID string) bool {
	_, existed := r.sessions.LoadAndDelete(sessionID)
	return existed
}

// List returns all known sessions
func (r *Runner) List() []SessionInfo {
	var infos []SessionInfo

	r.sessions.Range(func(_, value interface{}) bool {
		session := value.(*shellSession)

		session.mu.Lock()
		infos = append(infos, SessionInfo{
			ID:         session.id,
			WorkingDir: session.workingDir,
			CreatedAt:  session.createdAt,
			Commands:   session.commands,
		})
		session.mu.Unlock()
		return true
	})

	return infos
}

func (r *Runner) getOrCreate(sessionID string) *shellSession {
	if value, ok := r.sessions.Load(sessionID); ok {
		return value.(*shellSession)
	}

	workingDir := os.Getenv("HOME")
	if workingDir == "" {
		workingDir = "/tmp"
	}

	created := &shellSession{
		id:         sessionID,
		workingDir: workingDir,
		env:        make(map[string]string),
		createdAt:  time.Now(),
	}
	actual, _ := r.sessions.LoadOrStore(sessionID, created)
	return actual.(*shellSession)
}
