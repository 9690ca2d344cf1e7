// Package pip installs Python dependencies into the virtual environment
// and discovers what to install.
//
// All pip invocations go through the venv's own interpreter
// (`<venv-python> -m pip ...`), never a bare `pip` on the PATH, so packages
// always land in the isolated environment. The installer always upgrades
// pip before installing requirements, matching the original launcher.
//
// Requirement discovery resolves the first available source:
// the launcher manifest's explicit list, then requirements.txt, then
// [project].dependencies in pyproject.toml, then the built-in default set.
//
// Install failures are classified: output that looks like a network
// problem (resolution, timeouts, proxies, TLS) gets a connectivity hint,
// mirroring the "check your internet connection" wording of the original
// launcher.
package pip
