package venv

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/venvup/internal/model"
)

// StateFileName is the state file kept inside the environment directory.
// Living inside the venv means `clean` removes it automatically and a
// hand-deleted venv never leaves stale state behind.
const StateFileName = ".venvup.yaml"

// State records what was last installed into the environment. It exists so
// status/doctor can tell a fresh environment from a stale one; the
// environment itself never depends on it.
type State struct {
	// PythonVersion is the version of the interpreter that created the
	// environment.
	PythonVersion string `yaml:"pythonVersion"`

	// CreatedAt is when the environment was created (UTC).
	CreatedAt time.Time `yaml:"createdAt"`

	// Requirements is the requirement set from the last install.
	Requirements []string `yaml:"requirements"`

	// RequirementsHash is a digest of Requirements, used for the
	// staleness check without comparing the lists element-wise.
	RequirementsHash string `yaml:"requirementsHash"`
}

// NewState builds the state record for a completed install.
func NewState(interp *model.Interpreter, requirements []string) *State {
	return &State{
		PythonVersion:    interp.Version,
		CreatedAt:        time.Now().UTC(),
		Requirements:     append([]string(nil), requirements...),
		RequirementsHash: HashRequirements(requirements),
	}
}

// Fresh reports whether the recorded install still matches the declared
// requirement set.
func (s *State) Fresh(requirements []string) bool {
	return s.RequirementsHash == HashRequirements(requirements)
}

// HashRequirements digests a requirement set order-insensitively: the same
// packages in a different order are still the same environment.
func HashRequirements(requirements []string) string {
	normalized := make([]string, 0, len(requirements))
	for _, r := range requirements {
		normalized = append(normalized, strings.TrimSpace(r))
	}
	sort.Strings(normalized)

	sum := sha256.Sum256([]byte(strings.Join(normalized, "\n")))
	return hex.EncodeToString(sum[:])
}

// statePath returns the state file location for this environment.
func (m *Manager) statePath() string {
	return filepath.Join(m.dir, StateFileName)
}

// ReadState loads the environment's state file. A missing file is not an
// error — it returns (nil, nil), which callers treat as "no recorded
// install" (the case for venvs made by the old launcher or by hand).
func (m *Manager) ReadState() (*State, error) {
	data, err := os.ReadFile(m.statePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read venv state: %w", err)
	}

	var st State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse venv state at %s: %w", m.statePath(), err)
	}
	return &st, nil
}

// WriteState persists the state file inside the environment directory.
func (m *Manager) WriteState(st *State) error {
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode venv state: %w", err)
	}
	if err := os.WriteFile(m.statePath(), data, 0644); err != nil {
		return fmt.Errorf("failed to write venv state: %w", err)
	}
	return nil
}
