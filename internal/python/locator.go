// Package python implements Python interpreter discovery.
//
// The launcher cannot assume a single interpreter name: Unix systems ship
// "python3" (and sometimes a bare "python"), while Windows installs expose
// the "py -3" version launcher. The Locator probes a list of candidate
// commands in order with a version query and returns the first one that
// runs and satisfies the minimum version gate.
//
// Detection performs no filesystem mutation — it only spawns version
// probes — so a failed detection leaves the working directory untouched.
package python

import (
	"context"
	"fmt"
	"regexp"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/mmr-tortoise/venvup/internal/execx"
	"github.com/mmr-tortoise/venvup/internal/model"
)

// versionRe extracts the numeric version from probe output such as
// "Python 3.11.4" or "Python 3.13.0rc1". Pre-release suffixes are dropped;
// the minimum-version gate only cares about major.minor.patch.
var versionRe = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// Locator probes candidate interpreter commands and applies the minimum
// version gate.
type Locator struct {
	runner     execx.Runner
	candidates [][]string
	min        *semver.Version
}

// NewLocator builds a Locator. candidates are shell-style command strings
// ("python3", "py -3"); an empty list selects platform defaults.
// minVersion must parse as a semantic version (a bare "3.8" is accepted).
func NewLocator(runner execx.Runner, candidates []string, minVersion string) (*Locator, error) {
	min, err := semver.NewVersion(minVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid minimum python version %q: %w", minVersion, err)
	}

	if len(candidates) == 0 {
		candidates = DefaultCandidates()
	}

	parsed := make([][]string, 0, len(candidates))
	for _, cand := range candidates {
		argv := SplitCommand(cand)
		if len(argv) == 0 {
			return nil, fmt.Errorf("blank interpreter candidate")
		}
		parsed = append(parsed, argv)
	}

	return &Locator{runner: runner, candidates: parsed, min: min}, nil
}

// DefaultCandidates returns the platform lookup order. Windows prefers the
// version launcher because a bare "python" there is frequently the Store
// alias stub that exits non-zero.
func DefaultCandidates() []string {
	if runtime.GOOS == "windows" {
		return []string{"py -3", "python", "python3"}
	}
	return []string{"python3", "python"}
}

// SplitCommand splits a shell-style candidate on whitespace. Candidates are
// simple command words, never quoted strings, so fields-splitting is enough.
func SplitCommand(cmd string) []string {
	return strings.Fields(cmd)
}

// Locate probes each candidate in order and returns the first interpreter
// that runs and meets the minimum version.
//
// Candidates that fail to run are skipped silently (that is the normal case
// on systems with only one interpreter name). Candidates that run but are
// too old are remembered so the final error can say "found 2.7 but need
// 3.8" rather than a bare "not found".
func (l *Locator) Locate(ctx context.Context) (*model.Interpreter, error) {
	var tooOld *model.Interpreter

	for _, argv := range l.candidates {
		out, err := l.runner.Output(ctx, "", argv[0], append(argv[1:], "--version")...)
		if err != nil {
			// Not installed, or a stub that exits non-zero. Try the next.
			continue
		}

		version, err := parseVersion(out)
		if err != nil {
			continue
		}

		interp := &model.Interpreter{Command: argv, Version: version.String()}
		if version.LessThan(l.min) {
			if tooOld == nil {
				tooOld = interp
			}
			continue
		}
		return interp, nil
	}

	if tooOld != nil {
		return nil, model.NewCLIError(
			model.ExitPythonNotFound,
			fmt.Sprintf("Python %s or newer is required, but %q reports %s",
				l.min, tooOld.Display(), tooOld.Version),
		).WithHint("install a newer Python from https://www.python.org/downloads/")
	}

	return nil, model.NewCLIError(
		model.ExitPythonNotFound,
		fmt.Sprintf("Python 3 was not found on this system (tried: %s)", l.describeCandidates()),
	).WithHint("install Python 3 and make sure it is on your PATH")
}

// describeCandidates renders the probe list for error messages.
func (l *Locator) describeCandidates() string {
	names := make([]string, 0, len(l.candidates))
	for _, argv := range l.candidates {
		names = append(names, strings.Join(argv, " "))
	}
	return strings.Join(names, ", ")
}

// parseVersion normalizes version-probe output to a semantic version.
func parseVersion(out string) (*semver.Version, error) {
	m := versionRe.FindStringSubmatch(out)
	if m == nil {
		return nil, fmt.Errorf("unrecognized version output: %q", strings.TrimSpace(out))
	}

	patch := m[3]
	if patch == "" {
		patch = "0"
	}
	return semver.NewVersion(fmt.Sprintf("%s.%s.%s", m[1], m[2], patch))
}
