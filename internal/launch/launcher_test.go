package launch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/venvup/internal/model"
)

// fakeRunner captures the Run invocation (argv and environment) and
// returns a canned exit code, standing in for the launched application.
type fakeRunner struct {
	exitCode int
	startErr error

	gotDir  string
	gotEnv  []string
	gotArgv []string
}

func (f *fakeRunner) Output(_ context.Context, _ string, name string, _ ...string) (string, error) {
	return "", fmt.Errorf("unexpected Output of %s in launch test", name)
}

func (f *fakeRunner) Run(_ context.Context, dir string, extraEnv []string, name string, args ...string) (int, error) {
	f.gotDir = dir
	f.gotEnv = extraEnv
	f.gotArgv = append([]string{name}, args...)
	if f.startErr != nil {
		return -1, f.startErr
	}
	return f.exitCode, nil
}

// setupApp creates a working directory containing an entry point script.
func setupApp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gui.py"), []byte("print('hi')\n"), 0644))
	return dir
}

// TestLaunchNormal verifies the happy path: the entry point runs through
// the venv interpreter from the working directory and a zero exit is
// reported as normal termination.
func TestLaunchNormal(t *testing.T) {
	dir := setupApp(t)
	runner := &fakeRunner{exitCode: 0}
	l := NewLauncher(runner, dir)

	report, err := l.Launch(context.Background(), "venv/bin/python", Options{Entrypoint: "gui.py"})
	require.NoError(t, err)

	assert.True(t, report.Normal())
	assert.Equal(t, "gui.py", report.Entrypoint)
	assert.Equal(t, dir, runner.gotDir)
	require.Len(t, runner.gotArgv, 2)
	assert.Equal(t, "venv/bin/python", runner.gotArgv[0])
	assert.Equal(t, filepath.Join(dir, "gui.py"), runner.gotArgv[1])
}

// TestLaunchAbnormal verifies that a non-zero application exit is a report,
// not an error — the caller turns it into messaging.
func TestLaunchAbnormal(t *testing.T) {
	dir := setupApp(t)
	runner := &fakeRunner{exitCode: 3}
	l := NewLauncher(runner, dir)

	report, err := l.Launch(context.Background(), "venv/bin/python", Options{Entrypoint: "gui.py"})
	require.NoError(t, err)
	assert.False(t, report.Normal())
	assert.Equal(t, 3, report.ExitCode)
}

// TestLaunchEntrypointMissing verifies that a missing script fails before
// any process is started, with the entry-point-missing exit code.
func TestLaunchEntrypointMissing(t *testing.T) {
	runner := &fakeRunner{}
	l := NewLauncher(runner, t.TempDir())

	_, err := l.Launch(context.Background(), "venv/bin/python", Options{Entrypoint: "gui.py"})
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitEntrypointMissing, cliErr.Code)
	assert.Nil(t, runner.gotArgv, "no process may be started for a missing entry point")
}

// TestLaunchArgs verifies that extra entry-point arguments are passed
// through after the script path.
func TestLaunchArgs(t *testing.T) {
	dir := setupApp(t)
	runner := &fakeRunner{}
	l := NewLauncher(runner, dir)

	_, err := l.Launch(context.Background(), "python", Options{
		Entrypoint: "gui.py",
		Args:       []string{"--fullscreen", "--lang=en"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"--fullscreen", "--lang=en"}, runner.gotArgv[2:])
}

// TestLaunchEnvFile verifies dotenv loading: present files feed the child
// environment, missing files are silently skipped, malformed files error.
func TestLaunchEnvFile(t *testing.T) {
	t.Run("loads pairs sorted", func(t *testing.T) {
		dir := setupApp(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
			[]byte("BILL_CSV=Bill.csv\nAPP_MODE=prod\n"), 0644))

		runner := &fakeRunner{}
		l := NewLauncher(runner, dir)

		_, err := l.Launch(context.Background(), "python", Options{Entrypoint: "gui.py", EnvFile: ".env"})
		require.NoError(t, err)
		assert.Equal(t, []string{"APP_MODE=prod", "BILL_CSV=Bill.csv"}, runner.gotEnv)
	})

	t.Run("missing file ignored", func(t *testing.T) {
		dir := setupApp(t)
		runner := &fakeRunner{}
		l := NewLauncher(runner, dir)

		_, err := l.Launch(context.Background(), "python", Options{Entrypoint: "gui.py", EnvFile: ".env"})
		require.NoError(t, err)
		assert.Empty(t, runner.gotEnv)
	})

	t.Run("malformed file errors", func(t *testing.T) {
		dir := setupApp(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
			[]byte("this line has no key value separator\n"), 0644))

		runner := &fakeRunner{}
		l := NewLauncher(runner, dir)

		_, err := l.Launch(context.Background(), "python", Options{Entrypoint: "gui.py", EnvFile: ".env"})
		assert.Error(t, err)
	})
}

// TestLaunchStartFailure verifies that a process that cannot be started
// (as opposed to one that exits non-zero) is an error.
func TestLaunchStartFailure(t *testing.T) {
	dir := setupApp(t)
	runner := &fakeRunner{startErr: fmt.Errorf("exec format error")}
	l := NewLauncher(runner, dir)

	_, err := l.Launch(context.Background(), "python", Options{Entrypoint: "gui.py"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to launch"))
}
