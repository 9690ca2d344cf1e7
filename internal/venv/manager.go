package venv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mmr-tortoise/venvup/internal/execx"
	"github.com/mmr-tortoise/venvup/internal/model"
)

// markerFile identifies a directory as a Python virtual environment.
// Every venv created by `python -m venv` contains it.
const markerFile = "pyvenv.cfg"

// Manager provides virtual environment operations for a single environment
// directory. It shells out to the Python interpreter (via execx.Runner) for
// creation; everything else is filesystem inspection.
type Manager struct {
	runner execx.Runner
	dir    string
}

// NewManager creates a Manager for the environment at dir. The directory
// does not need to exist yet.
func NewManager(runner execx.Runner, dir string) *Manager {
	return &Manager{runner: runner, dir: dir}
}

// Dir returns the environment directory path.
func (m *Manager) Dir() string {
	return m.dir
}

// Exists reports whether the environment directory holds a virtual
// environment. The pyvenv.cfg marker is checked rather than the bare
// directory so that an empty or unrelated directory does not suppress
// creation.
func (m *Manager) Exists() bool {
	info, err := os.Stat(filepath.Join(m.dir, markerFile))
	return err == nil && !info.IsDir()
}

// Create builds the virtual environment using the given interpreter's
// `-m venv` facility. It must not be called when Exists() is true — the
// caller owns the reuse decision.
func (m *Manager) Create(ctx context.Context, interp *model.Interpreter) error {
	argv := interp.Argv("-m", "venv", m.dir)
	if _, err := m.runner.Output(ctx, "", argv[0], argv[1:]...); err != nil {
		return model.WrapCLIError(model.ExitVenvCreateFailed,
			fmt.Sprintf("failed to create virtual environment in %s", m.dir), err)
	}
	return nil
}

// Python returns the path of the environment's own interpreter binary.
// The path is computed, not verified — use Resolve for the checked form.
func (m *Manager) Python() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(m.dir, "Scripts", "python.exe")
	}
	return filepath.Join(m.dir, "bin", "python")
}

// Resolve returns the environment's interpreter path after verifying the
// environment is present and the binary exists. This is the activation
// step: a venv whose interpreter has gone missing is reported as broken,
// the same failure class the original launcher surfaced when sourcing the
// activation script failed.
func (m *Manager) Resolve() (string, error) {
	if !m.Exists() {
		return "", model.NewCLIError(model.ExitVenvBroken,
			fmt.Sprintf("no virtual environment found in %s", m.dir))
	}

	python := m.Python()
	if _, err := os.Stat(python); err != nil {
		return "", model.WrapCLIError(model.ExitVenvBroken,
			fmt.Sprintf("failed to activate virtual environment: %s is missing", python), err).
			WithHint(fmt.Sprintf("delete the %s directory and run again to rebuild it", m.dir))
	}
	return python, nil
}

// Remove deletes the environment directory. Unless force is set, it
// refuses to delete a directory that does not look like a virtual
// environment, so a mistyped venvDir cannot wipe unrelated files.
func (m *Manager) Remove(force bool) error {
	if _, err := os.Stat(m.dir); os.IsNotExist(err) {
		return nil
	}

	if !force && !m.Exists() {
		return fmt.Errorf("%s does not look like a virtual environment (no %s); use --force to remove it anyway",
			m.dir, markerFile)
	}
	if err := os.RemoveAll(m.dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", m.dir, err)
	}
	return nil
}
