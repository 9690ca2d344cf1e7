// Package cli — status.go implements the "venvup status" command.
//
// status reports the observed environment state without mutating anything:
// whether a Python interpreter is discoverable, whether the virtual
// environment exists and is healthy, what the declared requirements are,
// and whether the last recorded install still matches them.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/venvup/internal/bootstrap"
	"github.com/mmr-tortoise/venvup/internal/pip"
)

// statusFlags holds the flag values for the status command.
type statusFlags struct {
	configPath string
}

// statusReport is the status command's output shape, extending the
// bootstrap inspection with the resolved requirement set and the
// entry-point check.
type statusReport struct {
	*bootstrap.Inspection

	Requirements      []string   `json:"requirements"`
	RequirementSource pip.Source `json:"requirementSource"`
	Entrypoint        string     `json:"entrypoint"`
	EntrypointPresent bool       `json:"entrypointPresent"`
}

// NewStatusCommand creates the "status" cobra command.
func NewStatusCommand() *cobra.Command {
	flags := &statusFlags{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the environment state without changing anything",

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Launcher manifest path (default: ./venvup.jsonc)")

	return cmd
}

func runStatus(cmd *cobra.Command, flags *statusFlags) error {
	t, err := newToolchain(flags.configPath, nil)
	if err != nil {
		return err
	}

	report := buildStatusReport(cmd, t)

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(report, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	printStatusText(cmd.OutOrStdout(), t, report)
	return nil
}

func buildStatusReport(cmd *cobra.Command, t *toolchain) *statusReport {
	ins := t.boot.Inspect(cmd.Context(), t.requirements)

	entryPath := t.cfg.Entrypoint
	if !filepath.IsAbs(entryPath) {
		entryPath = filepath.Join(t.cwd, entryPath)
	}
	_, statErr := os.Stat(entryPath)

	return &statusReport{
		Inspection:        ins,
		Requirements:      t.requirements,
		RequirementSource: t.source,
		Entrypoint:        t.cfg.Entrypoint,
		EntrypointPresent: statErr == nil,
	}
}

func printStatusText(out io.Writer, t *toolchain, report *statusReport) {
	fmt.Fprintf(out, "Environment: %s (%s)\n", report.VenvDir, report.State)

	if report.Interpreter != nil {
		fmt.Fprintf(out, "  Python:        %s (%s)\n", report.Interpreter.Version, report.Interpreter.Display())
	} else {
		fmt.Fprintf(out, "  Python:        not found\n")
	}

	fmt.Fprintf(out, "  Requirements:  %s (from %s)\n",
		strings.Join(report.Requirements, ", "), report.RequirementSource)

	if report.LastInstall != nil {
		fmt.Fprintf(out, "  Last install:  %s (Python %s)\n",
			report.LastInstall.CreatedAt.Format("2006-01-02 15:04 MST"),
			report.LastInstall.PythonVersion)
	}

	presence := "present"
	if !report.EntrypointPresent {
		presence = "missing"
	}
	fmt.Fprintf(out, "  Entrypoint:    %s (%s)\n", report.Entrypoint, presence)

	if manifest := t.cfg.Path(); manifest != "" {
		fmt.Fprintf(out, "  Manifest:      %s\n", manifest)
	}
}
