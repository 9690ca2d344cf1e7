// Package config handles loading and validation of the launcher manifest.
//
// The manifest (venvup.jsonc) is optional: the zero-configuration defaults
// reproduce the behavior of the original launcher exactly (detect python3,
// create ./venv, install pandas, run gui.py). When present, the manifest
// supports JSONC (JSON with Comments), so this package uses
// github.com/tidwall/jsonc to strip comments before parsing with the
// standard encoding/json library.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/mmr-tortoise/venvup/internal/model"
)

// Manifest file names probed in the working directory, in order.
var manifestNames = []string{"venvup.jsonc", "venvup.json"}

// Default values applied for any field the manifest omits.
const (
	// DefaultVenvDir is the virtual environment directory, relative to the
	// working directory. Once created it is reused on subsequent runs.
	DefaultVenvDir = "venv"

	// DefaultEntrypoint is the external application script. It is an
	// external collaborator: the launcher knows nothing about it beyond
	// its path and its process exit code.
	DefaultEntrypoint = "gui.py"

	// DefaultMinPythonVersion is the lowest interpreter version accepted
	// by the detection step.
	DefaultMinPythonVersion = "3.8.0"

	// DefaultRequirementsFile is probed for requirements when the manifest
	// declares none.
	DefaultRequirementsFile = "requirements.txt"

	// DefaultPyprojectFile is probed after the requirements file.
	DefaultPyprojectFile = "pyproject.toml"

	// DefaultEnvFile, when present, is loaded into the application's
	// environment before launch.
	DefaultEnvFile = ".env"
)

// DefaultRequirements is installed when no requirement source is found.
// The original launcher installed exactly this set.
var DefaultRequirements = []string{"pandas"}

// Config is the parsed launcher manifest. Only the fields relevant to the
// bootstrap sequence exist; unknown manifest fields are silently ignored.
type Config struct {
	// PythonCandidates lists interpreter commands to probe, in order.
	// Each entry is a shell-style command that may carry arguments
	// (e.g. "py -3"). Empty means platform defaults.
	PythonCandidates []string `json:"pythonCandidates,omitempty"`

	// MinPythonVersion is the minimum accepted interpreter version.
	MinPythonVersion string `json:"minPythonVersion,omitempty"`

	// VenvDir is the virtual environment directory, relative to the
	// working directory unless absolute.
	VenvDir string `json:"venvDir,omitempty"`

	// Requirements lists packages to install. When set, it takes
	// precedence over RequirementsFile and PyprojectFile.
	Requirements []string `json:"requirements,omitempty"`

	// RequirementsFile is a pip requirements file probed when
	// Requirements is empty.
	RequirementsFile string `json:"requirementsFile,omitempty"`

	// PyprojectFile is a pyproject.toml whose [project].dependencies are
	// used when neither Requirements nor RequirementsFile yields anything.
	PyprojectFile string `json:"pyprojectFile,omitempty"`

	// IndexURL overrides pip's package index (corporate mirrors).
	IndexURL string `json:"indexUrl,omitempty"`

	// Entrypoint is the application script to launch.
	Entrypoint string `json:"entrypoint,omitempty"`

	// EntrypointArgs are extra arguments passed to the entry point.
	EntrypointArgs []string `json:"entrypointArgs,omitempty"`

	// EnvFile is a dotenv file loaded into the application's environment.
	// Missing files are ignored; the field only names where to look.
	EnvFile string `json:"envFile,omitempty"`

	// PauseOnExit controls whether failure paths wait for the user to
	// press Enter before the process exits, so a double-click user can
	// read the message before the terminal window closes. Defaults to
	// true; a pointer distinguishes "unset" from "explicitly false".
	PauseOnExit *bool `json:"pauseOnExit,omitempty"`

	// path is where the manifest was loaded from; empty for defaults.
	path string
}

// Default returns a Config with every field at its default value.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses a manifest file at the given path.
//
// The file may contain JSONC comments and trailing commas; they are
// stripped before parsing. Fields the manifest omits are filled with
// defaults. A missing file is an error here — use Discover for the
// "optional manifest" behavior.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(
				model.ExitGeneralError,
				fmt.Sprintf("launcher manifest not found: %s", path),
				err,
			)
		}
		return nil, fmt.Errorf("failed to read launcher manifest: %w", err)
	}

	// Strip JSONC comments (// and /* */) and trailing commas before
	// parsing, then parse with the standard library. Unknown fields are
	// silently ignored, which keeps old binaries tolerant of newer
	// manifests.
	var cfg Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse launcher manifest at %s: %w", path, err)
	}

	cfg.path = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid launcher manifest at %s: %w", path, err)
	}
	return &cfg, nil
}

// Discover looks for a manifest in dir and loads it, falling back to the
// defaults when no manifest exists. This is the normal entry point: the
// manifest is optional by design.
func Discover(dir string) (*Config, error) {
	for _, name := range manifestNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}

// Path returns where the manifest was loaded from, or "" when the
// configuration is entirely defaults.
func (c *Config) Path() string {
	return c.path
}

// Pause reports whether failure paths should wait for acknowledgment.
func (c *Config) Pause() bool {
	if c.PauseOnExit == nil {
		return true
	}
	return *c.PauseOnExit
}

// applyDefaults fills every omitted field. PythonCandidates stays empty
// here — platform defaults live in internal/python, which knows about the
// Windows version launcher.
func (c *Config) applyDefaults() {
	if c.VenvDir == "" {
		c.VenvDir = DefaultVenvDir
	}
	if c.Entrypoint == "" {
		c.Entrypoint = DefaultEntrypoint
	}
	if c.MinPythonVersion == "" {
		c.MinPythonVersion = DefaultMinPythonVersion
	}
	if c.RequirementsFile == "" {
		c.RequirementsFile = DefaultRequirementsFile
	}
	if c.PyprojectFile == "" {
		c.PyprojectFile = DefaultPyprojectFile
	}
	if c.EnvFile == "" {
		c.EnvFile = DefaultEnvFile
	}
}

// Validate rejects manifests that would make the bootstrap sequence
// nonsensical rather than merely fail at runtime.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Entrypoint) == "" {
		return fmt.Errorf("entrypoint must not be blank")
	}
	if strings.TrimSpace(c.VenvDir) == "" {
		return fmt.Errorf("venvDir must not be blank")
	}
	for _, cand := range c.PythonCandidates {
		if strings.TrimSpace(cand) == "" {
			return fmt.Errorf("pythonCandidates must not contain blank entries")
		}
	}
	for _, req := range c.Requirements {
		if strings.TrimSpace(req) == "" {
			return fmt.Errorf("requirements must not contain blank entries")
		}
	}
	return nil
}
