// Package execx provides the process-execution abstraction used by every
// component that shells out to an external program (the Python interpreter,
// pip, and the launched application).
//
// Components depend on the Runner interface rather than os/exec directly so
// that tests can substitute a fake runner and exercise the full bootstrap
// sequence without a Python installation. The real implementation,
// ExecRunner, is a thin wrapper over os/exec.
package execx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner executes external commands. Two modes are needed:
//
//   - Output: run a short-lived command and capture its stdout (version
//     probes, venv creation, pip). Stderr is folded into the returned error
//     so callers can surface diagnostics to the user.
//   - Run: hand the terminal to a foreground process with inherited stdio
//     (the launched GUI application) and report its exit code.
type Runner interface {
	// Output runs the command in dir and returns its stdout on success.
	// On a non-zero exit, the returned error includes trimmed stderr.
	Output(ctx context.Context, dir string, name string, args ...string) (string, error)

	// Run executes the command in dir with stdin/stdout/stderr inherited
	// from this process and extraEnv appended to the current environment.
	// It returns the process exit code. An error is returned only when the
	// process could not be started or was interrupted by the context —
	// a non-zero exit code is NOT an error at this layer.
	Run(ctx context.Context, dir string, extraEnv []string, name string, args ...string) (int, error)
}

// ExecRunner is the production Runner backed by os/exec.
//
// It is stateless; the zero value is usable. A constructor exists to keep
// call sites uniform with the other component constructors.
type ExecRunner struct{}

// NewExecRunner returns a Runner that executes real OS processes.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Output implements Runner.
func (r *ExecRunner) Output(ctx context.Context, dir string, name string, args ...string) (string, error) {
	// #nosec G204 — command names come from configuration, not remote input
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	// Capture stdout and stderr separately: stdout is the return value on
	// success, stderr feeds the error message on failure.
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := fmt.Sprintf("%s %s failed", name, strings.Join(args, " "))
		if s := strings.TrimSpace(stderr.String()); s != "" {
			msg = fmt.Sprintf("%s: %s", msg, s)
		}
		return "", fmt.Errorf("%s: %w", msg, err)
	}
	return stdout.String(), nil
}

// Run implements Runner. The child shares this process's terminal, which is
// what a launched GUI (or its console fallback) expects.
func (r *ExecRunner) Run(ctx context.Context, dir string, extraEnv []string, name string, args ...string) (int, error) {
	// #nosec G204 — command names come from configuration, not remote input
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), extraEnv...)

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	// A non-zero exit is a normal outcome for this layer; translate it to
	// an exit code and let the caller decide how to report it.
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("failed to start %s: %w", name, err)
}
