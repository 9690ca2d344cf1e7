// Package cli — run.go implements the "venvup run" command, which is also
// what a bare "venvup" invocation executes.
//
// run performs the full bootstrap sequence (US1 / the batch launcher's
// behavior):
//  1. Load the launcher manifest (or defaults)
//  2. Detect a Python 3 interpreter
//  3. Create the virtual environment if absent, reuse it otherwise
//  4. Upgrade pip and install the declared dependencies
//  5. Launch the application and report its exit status
//
// Steps 2-5 are orchestrated by internal/bootstrap; this file owns flag
// handling, component wiring, and result output.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/venvup/internal/bootstrap"
	"github.com/mmr-tortoise/venvup/internal/config"
	"github.com/mmr-tortoise/venvup/internal/execx"
	"github.com/mmr-tortoise/venvup/internal/launch"
	"github.com/mmr-tortoise/venvup/internal/model"
	"github.com/mmr-tortoise/venvup/internal/pip"
	"github.com/mmr-tortoise/venvup/internal/python"
	"github.com/mmr-tortoise/venvup/internal/ui"
	"github.com/mmr-tortoise/venvup/internal/venv"
)

// runFlags holds the flag values for the run command (and the bare root
// invocation, which shares them).
type runFlags struct {
	configPath  string // --config: explicit manifest path
	skipInstall bool   // --skip-install: skip pip upgrade + install
	noLaunch    bool   // --no-launch: stop after setup
	entrypoint  string // --entrypoint: override the application script
	envFile     string // --env-file: override the dotenv file
	venvDir     string // --venv-dir: override the environment directory
}

// bindRunFlags registers the run command's flags on cmd. The root command
// binds the same set so `venvup --skip-install` works without the explicit
// subcommand.
func bindRunFlags(cmd *cobra.Command, flags *runFlags) {
	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Launcher manifest path (default: ./venvup.jsonc)")
	cmd.Flags().BoolVar(&flags.skipInstall, "skip-install", false, "Skip pip upgrade and dependency installation")
	cmd.Flags().BoolVar(&flags.noLaunch, "no-launch", false, "Prepare the environment but don't launch the application")
	cmd.Flags().StringVar(&flags.entrypoint, "entrypoint", "", "Application script to launch (default: gui.py)")
	cmd.Flags().StringVar(&flags.envFile, "env-file", "", "Dotenv file loaded into the application environment")
	cmd.Flags().StringVar(&flags.venvDir, "venv-dir", "", "Virtual environment directory (default: venv)")
}

// NewRunCommand creates the "run" cobra command.
func NewRunCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Prepare the Python environment and launch the application",
		Long: `Detect Python 3, create or reuse the virtual environment, install the
declared dependencies, and launch the application script.

Examples:
  venvup run
  venvup run --skip-install
  venvup run --entrypoint main.py --env-file prod.env`,

		Args: cobra.NoArgs,

		// RunE is used instead of Run so we can return errors. Cobra will
		// pass them to the Execute error handler in root.go.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, flags)
		},
	}

	bindRunFlags(cmd, flags)
	return cmd
}

// runRun wires the components and executes the bootstrap sequence.
func runRun(cmd *cobra.Command, flags *runFlags) error {
	t, err := newToolchain(flags.configPath, func(cfg *config.Config) {
		if flags.entrypoint != "" {
			cfg.Entrypoint = flags.entrypoint
		}
		if flags.envFile != "" {
			cfg.EnvFile = flags.envFile
		}
		if flags.venvDir != "" {
			cfg.VenvDir = flags.venvDir
		}
	})
	if err != nil {
		return err
	}
	t.armPause()

	VerboseLog("requirements (%s): %v", t.source, t.requirements)

	result, err := t.boot.Run(cmd.Context(), bootstrap.Options{
		Requirements: t.requirements,
		SkipInstall:  flags.skipInstall,
		NoLaunch:     flags.noLaunch,
		Launch: launch.Options{
			Entrypoint: t.cfg.Entrypoint,
			Args:       t.cfg.EntrypointArgs,
			EnvFile:    t.cfg.EnvFile,
		},
	})
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	}
	return nil
}

// toolchain bundles the wired components every command needs: the loaded
// manifest, the resolved requirement set, and the Bootstrapper over real
// OS processes.
type toolchain struct {
	cwd          string
	cfg          *config.Config
	printer      *ui.Printer
	env          *venv.Manager
	boot         *bootstrap.Bootstrapper
	requirements []string
	source       pip.Source
}

// newToolchain loads the manifest (explicit path, discovered file, or
// defaults), applies the optional override hook, and wires the components.
func newToolchain(configPath string, override func(*config.Config)) (*toolchain, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
	}

	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.Discover(cwd)
	}
	if err != nil {
		return nil, err
	}
	if override != nil {
		override(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, model.WrapCLIError(model.ExitGeneralError, "invalid flag overrides", err)
		}
	}
	if cfg.Path() != "" {
		VerboseLog("manifest: %s", cfg.Path())
	}

	// Progress output is suppressed in JSON mode: stdout is reserved for
	// the structured result.
	var progress io.Writer = os.Stdout
	opts := ui.Detect(os.Stdout, plain)
	if IsJSONOutput() {
		progress = io.Discard
		opts = ui.Options{}
	}
	printer := ui.New(progress, os.Stdin, opts)

	runner := execx.NewExecRunner()

	locator, err := python.NewLocator(runner, cfg.PythonCandidates, cfg.MinPythonVersion)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "invalid interpreter configuration", err)
	}

	venvDir := cfg.VenvDir
	if !filepath.IsAbs(venvDir) {
		venvDir = filepath.Join(cwd, venvDir)
	}
	env := venv.NewManager(runner, venvDir)

	requirements, source, err := pip.Discover(cwd, cfg)
	if err != nil {
		return nil, err
	}

	boot := bootstrap.New(
		locator,
		env,
		pip.NewInstaller(runner, cwd, cfg.IndexURL),
		launch.NewLauncher(runner, cwd),
		printer,
	)
	boot.Verbose = VerboseLog

	return &toolchain{
		cwd:          cwd,
		cfg:          cfg,
		printer:      printer,
		env:          env,
		boot:         boot,
		requirements: requirements,
		source:       source,
	}, nil
}

// armPause makes failures wait for Enter before the process exits, but
// only for interactive sessions: pausing a pipeline or CI job would hang it.
func (t *toolchain) armPause() {
	if t.cfg.Pause() && isatty.IsTerminal(os.Stdin.Fd()) {
		exitPause = t.printer.Pause
	}
}
