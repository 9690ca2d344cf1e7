// Package launch runs the external application through the virtual
// environment's interpreter.
//
// The application (gui.py by default) is an external collaborator: the
// launcher knows nothing about it beyond its path and its process exit
// code, which is the whole contract. The child inherits this process's
// stdio so the application owns the terminal (and the display) while it
// runs; the launcher blocks until it exits.
//
// An optional dotenv file is loaded into the child's environment before
// launch, so deployments can configure the application without editing it.
package launch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/joho/godotenv"

	"github.com/mmr-tortoise/venvup/internal/execx"
	"github.com/mmr-tortoise/venvup/internal/model"
)

// Options configures a single launch.
type Options struct {
	// Entrypoint is the application script, relative to the working
	// directory unless absolute.
	Entrypoint string

	// Args are passed to the entry point after its path.
	Args []string

	// EnvFile is an optional dotenv file loaded into the child's
	// environment. A missing file is ignored.
	EnvFile string
}

// Launcher runs the application with a given interpreter.
type Launcher struct {
	runner  execx.Runner
	workDir string
}

// NewLauncher creates a Launcher that runs entry points from workDir.
func NewLauncher(runner execx.Runner, workDir string) *Launcher {
	return &Launcher{runner: runner, workDir: workDir}
}

// Launch runs the entry point through the given interpreter and reports
// its exit code.
//
// A non-zero application exit is NOT an error from Launch — it is a normal
// outcome recorded in the report; the caller decides how to present it.
// Errors are reserved for the launcher's own failures: a missing entry
// point, an unreadable env file, or a process that could not be started.
func (l *Launcher) Launch(ctx context.Context, python string, opts Options) (*model.LaunchReport, error) {
	entry := opts.Entrypoint
	if !filepath.IsAbs(entry) {
		entry = filepath.Join(l.workDir, entry)
	}
	if _, err := os.Stat(entry); err != nil {
		return nil, model.WrapCLIError(model.ExitEntrypointMissing,
			fmt.Sprintf("application script %s not found", opts.Entrypoint), err).
			WithHint("run this launcher from the application's directory")
	}

	env, err := l.loadEnvFile(opts.EnvFile)
	if err != nil {
		return nil, err
	}

	args := append([]string{entry}, opts.Args...)

	start := time.Now()
	code, err := l.runner.Run(ctx, l.workDir, env, python, args...)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to launch %s", opts.Entrypoint), err)
	}

	return &model.LaunchReport{
		Entrypoint: opts.Entrypoint,
		ExitCode:   code,
		Duration:   time.Since(start),
	}, nil
}

// loadEnvFile reads the dotenv file into KEY=VALUE pairs, sorted for
// deterministic child environments. A missing file yields no pairs; a
// present but unparseable file is an error, since the user clearly meant
// it to apply.
func (l *Launcher) loadEnvFile(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.workDir, path)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load env file %s: %w", path, err)
	}

	pairs := make([]string, 0, len(values))
	for k, v := range values {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return pairs, nil
}
