// Package terminal executes shell commands for the flow graph.
//
// A Runner keeps one lightweight shell session per session id: working
// directory, environment, and a command counter. Each command runs
// under a PTY so interactive tools see a real terminal, with combined
// output captured until exit.
//
// Capture Contract:
//   - Output is capped by a configurable byte budget
//   - CRLF from the PTY line discipline is normalized to LF
//   - Exit code, success flag, and wall-clock duration are reported
//     per command; timeouts surface as exit code 124
//
// Example Usage:
//
//	runner := terminal.NewRunner(terminal.DefaultConfig())
//	result, err := runner.Run(ctx, "sess-1", "ls -la")
package terminal
