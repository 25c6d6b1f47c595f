package terminal

import "time"

// Config controls command execution
type Config struct {
	// Shell runs each command via `shell -c command`
	Shell string
	// Timeout bounds one command's wall-clock time
	Timeout time.Duration
	// MaxOutputBytes caps captured output per command
	MaxOutputBytes int
}

// DefaultConfig returns production defaults
func DefaultConfig() Config {
	return Config{
		Shell:          "/bin/sh",
		Timeout:        30 * time.Second,
		MaxOutputBytes: 256 * 1024,
	}
}

// SessionInfo describes one shell session
type SessionInfo struct {
	ID         string    `json:"id"`
	WorkingDir string    `json:"working_dir"`
	CreatedAt  time.Time `json:"created_at"`
	Commands   int       `json:"commands"`
}

// timeoutExitCode mirrors the shell convention for timed-out commands
const timeoutExitCode = 124
