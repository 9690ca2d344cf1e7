package pip

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmr-tortoise/venvup/internal/execx"
	"github.com/mmr-tortoise/venvup/internal/model"
)

// networkFailureMarkers are substrings of pip output that indicate the
// failure is connectivity-related rather than a bad package name or a
// build error. Matching is case-insensitive.
var networkFailureMarkers = []string{
	"connection error",
	"connection refused",
	"connection reset",
	"connection timed out",
	"read timed out",
	"temporary failure in name resolution",
	"name or service not known",
	"could not find a version that satisfies",
	"no matching distribution found",
	"proxyerror",
	"ssl: certificate",
	"newconnectionerror",
	"failed to establish a new connection",
	"network is unreachable",
}

// connectivityHint is shown alongside install failures that look
// network-related.
const connectivityHint = "check your internet connection and try again"

// Installer drives pip inside the virtual environment.
type Installer struct {
	runner   execx.Runner
	workDir  string
	indexURL string
}

// NewInstaller creates an Installer. workDir is where pip runs (relative
// requirement files resolve against it); indexURL optionally overrides the
// package index.
func NewInstaller(runner execx.Runner, workDir, indexURL string) *Installer {
	return &Installer{runner: runner, workDir: workDir, indexURL: indexURL}
}

// UpgradePip upgrades pip itself inside the environment. Run before every
// install: an outdated pip is the most common cause of resolver failures
// on fresh venvs.
func (i *Installer) UpgradePip(ctx context.Context, python string) error {
	if err := i.run(ctx, python, "install", "--upgrade", "pip"); err != nil {
		return i.installError("failed to upgrade pip", err)
	}
	return nil
}

// Install installs the given requirement set into the environment.
// Requirements use pip's specifier syntax ("pandas", "pandas>=2.0").
func (i *Installer) Install(ctx context.Context, python string, requirements []string) error {
	if len(requirements) == 0 {
		return nil
	}

	args := append([]string{"install"}, requirements...)
	if err := i.run(ctx, python, args...); err != nil {
		return i.installError(
			fmt.Sprintf("failed to install dependencies (%s)", strings.Join(requirements, ", ")), err)
	}
	return nil
}

// run executes `<python> -m pip <args>` with the configured index URL.
func (i *Installer) run(ctx context.Context, python string, args ...string) error {
	full := append([]string{"-m", "pip"}, args...)
	if i.indexURL != "" {
		full = append(full, "--index-url", i.indexURL)
	}
	_, err := i.runner.Output(ctx, i.workDir, python, full...)
	return err
}

// installError wraps a pip failure in a CLIError, attaching the
// connectivity hint when the output suggests a network problem.
func (i *Installer) installError(message string, err error) error {
	cliErr := model.WrapCLIError(model.ExitInstallFailed, message, err)
	if IsLikelyNetworkFailure(err.Error()) {
		cliErr.WithHint(connectivityHint)
	}
	return cliErr
}

// IsLikelyNetworkFailure reports whether pip output reads like a
// connectivity problem.
func IsLikelyNetworkFailure(output string) bool {
	lower := strings.ToLower(output)
	for _, marker := range networkFailureMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
