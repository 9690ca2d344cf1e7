// Package cli — clean.go implements the "venvup clean" command.
//
// clean removes the virtual environment directory so the next run rebuilds
// it from scratch — the remedy for a broken or badly stale environment.
//
// By default, the command prompts for confirmation before proceeding.
// The --force flag skips the confirmation prompt and also overrides the
// safety check that refuses to delete a directory that does not look like
// a virtual environment.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/venvup/internal/model"
)

// cleanFlags holds the flag values for the clean command.
type cleanFlags struct {
	configPath string

	// force skips the interactive confirmation prompt and the
	// does-this-look-like-a-venv safety check.
	force bool
}

// NewCleanCommand creates the "clean" cobra command.
func NewCleanCommand() *cobra.Command {
	flags := &cleanFlags{}

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the virtual environment",
		Long: `Delete the virtual environment directory. The next run or setup recreates
it from scratch.

Examples:
  venvup clean
  venvup clean --force`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Launcher manifest path (default: ./venvup.jsonc)")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Skip confirmation and safety checks")

	return cmd
}

func runClean(cmd *cobra.Command, flags *cleanFlags) error {
	t, err := newToolchain(flags.configPath, nil)
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(t.env.Dir()); os.IsNotExist(statErr) {
		fmt.Fprintf(cmd.OutOrStdout(), "Nothing to remove: %s does not exist\n", t.env.Dir())
		return nil
	}

	if !flags.force && !confirm(cmd, fmt.Sprintf("Remove virtual environment %s?", t.env.Dir())) {
		return model.NewCLIError(model.ExitUserCancelled, "cancelled")
	}

	if err := t.env.Remove(flags.force); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to remove virtual environment", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", t.env.Dir())
	return nil
}

// confirm prompts the user with a yes/no question on the command's input
// stream. Anything other than "y"/"yes" declines.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)

	reader := bufio.NewReader(cmd.InOrStdin())
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
