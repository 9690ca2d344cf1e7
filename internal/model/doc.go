// Package model defines the domain types and value objects for the
// venvup CLI.
//
// This package contains pure data structures with no external dependencies.
// All entities (Interpreter, LaunchReport, EnvState, etc.) are transient
// representations reconstructed from the environment at runtime — the only
// on-disk state is the virtual environment directory itself and its small
// state file, both owned by internal/venv.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
