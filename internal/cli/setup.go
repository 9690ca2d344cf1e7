// Package cli — setup.go implements the "venvup setup" command.
//
// setup runs the bootstrap sequence without the final launch step: detect
// Python, create or reuse the virtual environment, install dependencies.
// It exists for provisioning a machine ahead of time (or in CI) where
// starting the GUI makes no sense.
package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/venvup/internal/bootstrap"
	"github.com/mmr-tortoise/venvup/internal/config"
)

// setupFlags holds the flag values for the setup command.
type setupFlags struct {
	configPath  string
	skipInstall bool
	venvDir     string
}

// NewSetupCommand creates the "setup" cobra command.
func NewSetupCommand() *cobra.Command {
	flags := &setupFlags{}

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Prepare the Python environment without launching the application",
		Long: `Detect Python 3, create or reuse the virtual environment, and install the
declared dependencies. The application is not launched.

Running setup repeatedly is safe: an existing environment is reused, and a
second run converges to the same state as the first.`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Launcher manifest path (default: ./venvup.jsonc)")
	cmd.Flags().BoolVar(&flags.skipInstall, "skip-install", false, "Skip pip upgrade and dependency installation")
	cmd.Flags().StringVar(&flags.venvDir, "venv-dir", "", "Virtual environment directory (default: venv)")

	return cmd
}

func runSetup(cmd *cobra.Command, flags *setupFlags) error {
	t, err := newToolchain(flags.configPath, func(cfg *config.Config) {
		if flags.venvDir != "" {
			cfg.VenvDir = flags.venvDir
		}
	})
	if err != nil {
		return err
	}
	t.armPause()

	result, err := t.boot.Run(cmd.Context(), bootstrap.Options{
		Requirements: t.requirements,
		SkipInstall:  flags.skipInstall,
		NoLaunch:     true,
	})
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	t.printer.Plainf("")
	t.printer.Plainf("Environment ready in %s", t.env.Dir())
	t.printer.Plainf("  Python:        %s (%s)", result.Interpreter.Version, result.Interpreter.Display())
	t.printer.Plainf("  Requirements:  %s (from %s)", strings.Join(t.requirements, ", "), t.source)
	return nil
}
