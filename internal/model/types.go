package model

import (
	"fmt"
	"strings"
	"time"
)

// EnvState represents the observed condition of the managed virtual
// environment. The state transitions are:
//
//	Missing → Ready (after create + install)
//	Ready ⇄ Stale (declared requirements change / are re-installed)
//	Ready/Stale → Broken (venv interpreter deleted or unrunnable)
//	any → Missing (after clean)
type EnvState string

const (
	// StateMissing indicates no virtual environment directory exists yet
	// (or the directory exists but holds no pyvenv.cfg marker).
	StateMissing EnvState = "missing"

	// StateReady indicates the virtual environment exists, its interpreter
	// is present, and the recorded requirement set matches the declared one.
	StateReady EnvState = "ready"

	// StateStale indicates the virtual environment is usable but the
	// declared requirements have changed since the last install, or no
	// install has been recorded for it.
	StateStale EnvState = "stale"

	// StateBroken indicates the directory looks like a virtual environment
	// but its interpreter binary is missing. Re-creation is required.
	StateBroken EnvState = "broken"
)

// String returns the string representation of EnvState.
// This method satisfies the fmt.Stringer interface, enabling
// human-readable output in CLI commands and logging.
func (s EnvState) String() string {
	return string(s)
}

// IsValid checks whether the EnvState value is one of the
// predefined valid states.
func (s EnvState) IsValid() bool {
	switch s {
	case StateMissing, StateReady, StateStale, StateBroken:
		return true
	default:
		return false
	}
}

// ParseEnvState converts a string to an EnvState.
// Returns an error if the string does not match any valid state.
func ParseEnvState(s string) (EnvState, error) {
	state := EnvState(strings.ToLower(s))
	if !state.IsValid() {
		return "", fmt.Errorf("invalid environment state: %q (valid: missing, ready, stale, broken)", s)
	}
	return state, nil
}

// SetupStep identifies one stage of the bootstrap sequence. Steps run
// strictly in order; a failing step terminates the sequence.
type SetupStep string

const (
	// StepDetect locates a usable Python interpreter on the search path.
	StepDetect SetupStep = "detect-interpreter"

	// StepCreate creates the virtual environment directory (skipped when
	// one already exists — the venv is reused across runs).
	StepCreate SetupStep = "create-venv"

	// StepResolve resolves the virtual environment's own interpreter so
	// that subsequent commands run inside the isolated environment. This
	// is the portable equivalent of sourcing the activation script.
	StepResolve SetupStep = "resolve-venv"

	// StepInstall upgrades pip and installs the declared requirements.
	StepInstall SetupStep = "install-deps"

	// StepLaunch runs the external application entry point.
	StepLaunch SetupStep = "launch-app"
)

// String returns the string representation of SetupStep.
func (s SetupStep) String() string {
	return string(s)
}

// Interpreter describes a located Python interpreter.
//
// Command is the full argv prefix used to invoke it — usually a single
// element ("python3"), but the Windows version launcher needs two
// ("py", "-3"). Version is the reported version in semver form.
type Interpreter struct {
	// Command is the argv prefix that invokes this interpreter.
	// Must contain at least one element.
	Command []string `json:"command"`

	// Version is the interpreter version as reported by the version
	// probe, normalized to "major.minor.patch".
	Version string `json:"version"`
}

// Display returns the interpreter invocation as a single shell-style
// string, for logging and status output.
func (i *Interpreter) Display() string {
	return strings.Join(i.Command, " ")
}

// Argv returns the full argument vector for invoking the interpreter with
// the given extra arguments. The returned slice is freshly allocated so
// callers may modify it.
func (i *Interpreter) Argv(args ...string) []string {
	out := make([]string, 0, len(i.Command)+len(args))
	out = append(out, i.Command...)
	out = append(out, args...)
	return out
}

// LaunchReport captures the outcome of running the external application.
// The application communicates success or failure solely through its
// process exit code; this struct is the Go-side record of that contract.
type LaunchReport struct {
	// Entrypoint is the script that was executed (e.g. "gui.py").
	Entrypoint string `json:"entrypoint"`

	// ExitCode is the application's process exit code.
	ExitCode int `json:"exitCode"`

	// Duration is how long the application ran.
	Duration time.Duration `json:"duration"`
}

// Normal reports whether the application terminated normally (exit code 0).
func (r *LaunchReport) Normal() bool {
	return r.ExitCode == 0
}

// ExitCode defines the CLI process exit codes. These codes allow scripts
// and CI systems to programmatically determine which bootstrap stage
// failed. (The batch launcher this tool replaces printed a message and
// returned no distinct code; the codes are an intentional improvement.)
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitPythonNotFound indicates no usable Python interpreter was
	// discovered on the search path.
	ExitPythonNotFound ExitCode = 2

	// ExitVenvCreateFailed indicates `python -m venv` failed.
	ExitVenvCreateFailed ExitCode = 3

	// ExitVenvBroken indicates the virtual environment exists but its
	// interpreter could not be resolved (activation failure).
	ExitVenvBroken ExitCode = 4

	// ExitInstallFailed indicates pip upgrade or dependency installation
	// failed (often a connectivity problem).
	ExitInstallFailed ExitCode = 5

	// ExitEntrypointMissing indicates the application entry point script
	// does not exist in the working directory.
	ExitEntrypointMissing ExitCode = 6

	// ExitAppError indicates the launched application exited with a
	// non-zero code.
	ExitAppError ExitCode = 7

	// ExitUserCancelled indicates the user declined an interactive prompt.
	ExitUserCancelled ExitCode = 8
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Hint is an optional suggestion shown alongside the message
	// (e.g. "check your internet connection" on install failures).
	Hint string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// WithHint attaches a suggestion to the error and returns it for chaining.
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}
