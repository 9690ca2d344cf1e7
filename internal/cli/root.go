// Package cli implements the cobra-based CLI commands for venvup.
//
// Each subcommand (run, setup, doctor, clean, status) is defined in its own
// file within this package. This file defines the root command that serves
// as the parent for all subcommands and handles global flags.
//
// Invoking the binary with no subcommand behaves like `venvup run`, which
// preserves the double-clickable contract of the batch launcher this tool
// replaces: one entry point, no required arguments.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/venvup/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	// When true, result output uses structured JSON for machine
	// consumption; progress lines are suppressed.
	jsonOutput bool

	// verbose enables detailed logging output for debugging.
	// When true, additional information about operations is printed to stderr.
	verbose bool

	// plain suppresses emoji and terminal styling in status output.
	plain bool
)

// exitPause, when set by a command, runs after a failure has been printed
// and before the process exits. The run/setup commands point it at the
// printer's Pause so a double-click user can read the message before the
// terminal window closes.
var exitPause func()

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
func NewRootCommand() *cobra.Command {
	runFlags := &runFlags{}

	rootCmd := &cobra.Command{
		Use:   "venvup",
		Short: "Python environment bootstrapper and application launcher",
		Long: `venvup prepares an isolated Python environment and launches the application.

On every run it detects a Python 3 interpreter, creates the virtual
environment if it does not exist yet (an existing one is reused), installs
the declared dependencies, and starts the application script. The
application reports success or failure through its process exit code.

Running venvup with no subcommand is the same as "venvup run".`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// Bare invocation runs the full bootstrap sequence.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, runFlags)
		},
	}

	// PersistentFlags are inherited by all subcommands. This is the cobra
	// mechanism for global flags — any flag defined here is automatically
	// available in every subcommand without re-declaration.
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "Disable emoji and colored output")

	// The bare root invocation accepts the run command's flags too, so
	// `venvup --skip-install` works the same as `venvup run --skip-install`.
	bindRunFlags(rootCmd, runFlags)

	// Register subcommands. Each subcommand is defined in its own file
	// (run.go, setup.go, etc.) and returns a *cobra.Command.
	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewSetupCommand())
	rootCmd.AddCommand(NewDoctorCommand())
	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewCleanCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// It inspects errors returned by cobra commands and translates them into
// appropriate OS exit codes. CLIError types carry their own exit codes;
// other errors default to exit code 1. When a command has armed the exit
// pause, it fires after the error is printed, so the message stays visible
// in a terminal window that closes on process exit.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		// Unwrap to a CLIError when one is anywhere in the chain so the
		// process exit code reflects the failing bootstrap stage.
		code := model.ExitGeneralError
		hint := ""
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			code = cliErr.Code
			hint = cliErr.Hint
		}

		printError(err.Error(), hint)
		if exitPause != nil {
			exitPause()
		}
		os.Exit(int(code))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message, hint string) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if hint != "" {
			errObj["error"].(map[string]interface{})["hint"] = hint
		}
		// Errors go to stderr even in JSON mode, because stdout is
		// reserved for successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
		return
	}

	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	if hint != "" {
		fmt.Fprintf(os.Stderr, "  (%s)\n", hint)
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
// This is used throughout the CLI for debug/trace output that helps
// users understand what operations are being performed.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
