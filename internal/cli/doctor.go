// Package cli — doctor.go implements the "venvup doctor" command.
//
// doctor runs the non-mutating diagnostic checks a user needs when the
// launcher misbehaves: is a suitable Python discoverable, is the virtual
// environment healthy, does the application script exist, where do the
// requirements come from. It never creates or modifies anything; it exits
// non-zero when any check fails so scripts can gate on it.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/venvup/internal/model"
)

// checkResult is one diagnostic outcome.
type checkResult struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail"`
}

// doctorFlags holds the flag values for the doctor command.
type doctorFlags struct {
	configPath string
}

// NewDoctorCommand creates the "doctor" cobra command.
func NewDoctorCommand() *cobra.Command {
	flags := &doctorFlags{}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the launcher environment",
		Long: `Check every precondition the launcher depends on: a discoverable Python 3
interpreter, a healthy virtual environment, a requirement source, and the
application entry point. Nothing is created or modified.

Exits non-zero when any check fails.`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Launcher manifest path (default: ./venvup.jsonc)")

	return cmd
}

func runDoctor(cmd *cobra.Command, flags *doctorFlags) error {
	t, err := newToolchain(flags.configPath, nil)
	if err != nil {
		return err
	}

	checks := runChecks(cmd, t)

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(checks, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		printChecksText(cmd.OutOrStdout(), checks)
	}

	failed := 0
	for _, c := range checks {
		if !c.OK {
			failed++
		}
	}
	if failed > 0 {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("%d problem(s) found", failed))
	}
	return nil
}

// runChecks evaluates every diagnostic in a fixed order.
func runChecks(cmd *cobra.Command, t *toolchain) []checkResult {
	var checks []checkResult

	// Manifest: informational, never a failure — defaults are valid.
	manifest := t.cfg.Path()
	if manifest == "" {
		manifest = "built-in defaults"
	}
	checks = append(checks, checkResult{Name: "manifest", OK: true, Detail: manifest})

	ins := t.boot.Inspect(cmd.Context(), t.requirements)

	if ins.Interpreter != nil {
		checks = append(checks, checkResult{
			Name: "python", OK: true,
			Detail: fmt.Sprintf("%s (%s)", ins.Interpreter.Version, ins.Interpreter.Display()),
		})
	} else {
		checks = append(checks, checkResult{Name: "python", OK: false, Detail: ins.InterpreterError})
	}

	switch ins.State {
	case model.StateReady:
		checks = append(checks, checkResult{Name: "venv", OK: true, Detail: ins.VenvDir})
	case model.StateStale:
		checks = append(checks, checkResult{
			Name: "venv", OK: true,
			Detail: fmt.Sprintf("%s (stale: run `venvup setup` to refresh dependencies)", ins.VenvDir),
		})
	case model.StateMissing:
		checks = append(checks, checkResult{
			Name: "venv", OK: false,
			Detail: "not created yet (run `venvup setup`)",
		})
	case model.StateBroken:
		checks = append(checks, checkResult{
			Name: "venv", OK: false,
			Detail: fmt.Sprintf("%s exists but its interpreter is missing (run `venvup clean` then `venvup setup`)", ins.VenvDir),
		})
	}

	checks = append(checks, checkResult{
		Name: "requirements", OK: true,
		Detail: fmt.Sprintf("%s (from %s)", strings.Join(t.requirements, ", "), t.source),
	})

	entryPath := t.cfg.Entrypoint
	if !filepath.IsAbs(entryPath) {
		entryPath = filepath.Join(t.cwd, entryPath)
	}
	if _, err := os.Stat(entryPath); err == nil {
		checks = append(checks, checkResult{Name: "entrypoint", OK: true, Detail: t.cfg.Entrypoint})
	} else {
		checks = append(checks, checkResult{
			Name: "entrypoint", OK: false,
			Detail: fmt.Sprintf("%s not found in %s", t.cfg.Entrypoint, t.cwd),
		})
	}

	return checks
}

func printChecksText(out io.Writer, checks []checkResult) {
	for _, c := range checks {
		marker := "ok  "
		if !c.OK {
			marker = "FAIL"
		}
		fmt.Fprintf(out, "[%s] %-13s %s\n", marker, c.Name, c.Detail)
	}
}
