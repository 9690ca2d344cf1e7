// Package bootstrap orchestrates the launcher's setup sequence.
//
// The sequence is strictly ordered and fully sequential — detect an
// interpreter, ensure the virtual environment, resolve its interpreter,
// install dependencies, launch the application — and every failure is
// terminal: nothing is retried, and no later step runs after an earlier
// one fails. In particular, no filesystem mutation happens before
// interpreter detection succeeds.
//
// The Bootstrapper depends on small interfaces over the python, venv, pip,
// and launch packages so the sequencing properties can be tested without a
// Python installation.
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmr-tortoise/venvup/internal/launch"
	"github.com/mmr-tortoise/venvup/internal/model"
	"github.com/mmr-tortoise/venvup/internal/venv"
)

// Locator finds a usable Python interpreter (internal/python.Locator).
type Locator interface {
	Locate(ctx context.Context) (*model.Interpreter, error)
}

// EnvManager manages the virtual environment (internal/venv.Manager).
type EnvManager interface {
	Dir() string
	Exists() bool
	Create(ctx context.Context, interp *model.Interpreter) error
	Resolve() (string, error)
	ReadState() (*venv.State, error)
	WriteState(st *venv.State) error
}

// Installer installs dependencies into the environment (internal/pip.Installer).
type Installer interface {
	UpgradePip(ctx context.Context, python string) error
	Install(ctx context.Context, python string, requirements []string) error
}

// AppLauncher runs the external application (internal/launch.Launcher).
type AppLauncher interface {
	Launch(ctx context.Context, python string, opts launch.Options) (*model.LaunchReport, error)
}

// Reporter receives user-facing progress messages (internal/ui.Printer).
// Failure messages are not reported here — errors propagate to the CLI
// layer, which formats and prints them once.
type Reporter interface {
	Stepf(format string, args ...interface{})
	Successf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// Options configures one bootstrap run.
type Options struct {
	// Requirements is the resolved requirement set to install.
	Requirements []string

	// SkipInstall skips the pip upgrade and dependency installation.
	SkipInstall bool

	// NoLaunch stops after setup without running the application
	// (the `setup` command).
	NoLaunch bool

	// Launch configures the application launch step.
	Launch launch.Options
}

// Result records what a bootstrap run did.
type Result struct {
	// Interpreter is the detected system interpreter.
	Interpreter *model.Interpreter `json:"interpreter"`

	// VenvCreated is true when the environment was created by this run
	// (false when an existing one was reused).
	VenvCreated bool `json:"venvCreated"`

	// Installed is true when the dependency install step ran.
	Installed bool `json:"installed"`

	// Report is the application outcome; nil when launch was skipped.
	Report *model.LaunchReport `json:"report,omitempty"`
}

// Bootstrapper wires the sequence together.
type Bootstrapper struct {
	locator   Locator
	env       EnvManager
	installer Installer
	launcher  AppLauncher
	reporter  Reporter

	// Verbose receives debug/trace lines; nil disables them.
	Verbose func(format string, args ...interface{})
}

// New creates a Bootstrapper from its collaborators.
func New(locator Locator, env EnvManager, installer Installer, launcher AppLauncher, reporter Reporter) *Bootstrapper {
	return &Bootstrapper{
		locator:   locator,
		env:       env,
		installer: installer,
		launcher:  launcher,
		reporter:  reporter,
	}
}

// Run executes the setup sequence. On failure it returns the partially
// populated Result together with a CLIError describing the failing step.
// An abnormal application exit (non-zero code) is returned as a CLIError
// with ExitAppError, with the Result carrying the full launch report.
func (b *Bootstrapper) Run(ctx context.Context, opts Options) (*Result, error) {
	result := &Result{}

	// Step 1: Detect interpreter. Must precede any filesystem mutation:
	// when no interpreter exists, the working directory stays untouched.
	b.reporter.Stepf("Checking for Python 3...")
	interp, err := b.locator.Locate(ctx)
	if err != nil {
		return result, err
	}
	result.Interpreter = interp
	b.verbose("interpreter: %s (%s)", interp.Display(), interp.Version)
	b.reporter.Successf("found Python %s (%s)", interp.Version, interp.Display())

	// Step 2: Ensure the virtual environment. Once created, the venv is
	// reused on every subsequent run — creation is never repeated.
	if b.env.Exists() {
		b.verbose("reusing virtual environment in %s", b.env.Dir())
		b.reporter.Successf("reusing virtual environment in %s", b.env.Dir())
	} else {
		b.reporter.Stepf("Creating virtual environment in %s...", b.env.Dir())
		if err := b.env.Create(ctx, interp); err != nil {
			return result, err
		}
		result.VenvCreated = true
		b.reporter.Successf("virtual environment created")
	}

	// Step 3: Resolve the venv interpreter (the activation step).
	// Everything after this point runs inside the isolated environment.
	python, err := b.env.Resolve()
	if err != nil {
		return result, err
	}
	b.verbose("venv interpreter: %s", python)

	// Step 4: Install dependencies. pip is upgraded first, always.
	if opts.SkipInstall {
		b.warnIfStale(opts.Requirements)
	} else {
		b.reporter.Stepf("Installing dependencies (%s)...", strings.Join(opts.Requirements, ", "))
		if err := b.installer.UpgradePip(ctx, python); err != nil {
			return result, err
		}
		if err := b.installer.Install(ctx, python, opts.Requirements); err != nil {
			return result, err
		}
		result.Installed = true

		// The state file is bookkeeping for status/doctor; failing to
		// write it must not fail a run whose installs succeeded.
		if err := b.env.WriteState(venv.NewState(interp, opts.Requirements)); err != nil {
			b.reporter.Warnf("could not record install state: %v", err)
		}
		b.reporter.Successf("dependencies installed")
	}

	// Step 5: Launch the application and report its outcome.
	if opts.NoLaunch {
		return result, nil
	}

	b.reporter.Stepf("Launching %s...", opts.Launch.Entrypoint)
	report, err := b.launcher.Launch(ctx, python, opts.Launch)
	if err != nil {
		return result, err
	}
	result.Report = report

	if !report.Normal() {
		return result, model.NewCLIError(model.ExitAppError,
			fmt.Sprintf("application terminated with an error (exit code %d)", report.ExitCode))
	}
	b.reporter.Successf("application terminated normally")
	return result, nil
}

// warnIfStale tells the user when --skip-install leaves the environment
// behind the declared requirements.
func (b *Bootstrapper) warnIfStale(requirements []string) {
	st, err := b.env.ReadState()
	if err != nil || st == nil {
		b.reporter.Warnf("skipping dependency install; no install has been recorded for this environment")
		return
	}
	if !st.Fresh(requirements) {
		b.reporter.Warnf("skipping dependency install; requirements changed since the last install")
	}
}

func (b *Bootstrapper) verbose(format string, args ...interface{}) {
	if b.Verbose != nil {
		b.Verbose(format, args...)
	}
}

// Inspection is a non-mutating snapshot of the environment, used by the
// status and doctor commands.
type Inspection struct {
	// Interpreter is the detected system interpreter; nil when detection
	// failed (InterpreterError says why).
	Interpreter      *model.Interpreter `json:"interpreter,omitempty"`
	InterpreterError string             `json:"interpreterError,omitempty"`

	// VenvDir is the environment directory.
	VenvDir string `json:"venvDir"`

	// State classifies the environment: missing, broken, stale, or ready.
	State model.EnvState `json:"state"`

	// LastInstall is the recorded install, when one exists.
	LastInstall *venv.State `json:"lastInstall,omitempty"`
}

// Inspect observes the environment without mutating anything. requirements
// is the declared set used for the staleness check.
func (b *Bootstrapper) Inspect(ctx context.Context, requirements []string) *Inspection {
	ins := &Inspection{VenvDir: b.env.Dir()}

	if interp, err := b.locator.Locate(ctx); err != nil {
		ins.InterpreterError = err.Error()
	} else {
		ins.Interpreter = interp
	}

	if !b.env.Exists() {
		ins.State = model.StateMissing
		return ins
	}
	if _, err := b.env.Resolve(); err != nil {
		ins.State = model.StateBroken
		return ins
	}

	st, err := b.env.ReadState()
	if err != nil || st == nil {
		ins.State = model.StateStale
		return ins
	}
	ins.LastInstall = st
	if st.Fresh(requirements) {
		ins.State = model.StateReady
	} else {
		ins.State = model.StateStale
	}
	return ins
}
