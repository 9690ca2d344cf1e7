package pip

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/mmr-tortoise/venvup/internal/config"
)

// Source identifies where a requirement set came from, for status output.
type Source string

const (
	// SourceManifest means the launcher manifest listed requirements
	// explicitly.
	SourceManifest Source = "manifest"

	// SourceRequirementsFile means a pip requirements file was parsed.
	SourceRequirementsFile Source = "requirements-file"

	// SourcePyproject means [project].dependencies in pyproject.toml.
	SourcePyproject Source = "pyproject"

	// SourceDefault means the built-in default set (pandas), matching
	// what the original launcher installed.
	SourceDefault Source = "default"
)

// Discover resolves the requirement set for the working directory using
// the first available source: manifest list → requirements file →
// pyproject.toml → built-in default. A present-but-empty source falls
// through to the next one.
func Discover(dir string, cfg *config.Config) ([]string, Source, error) {
	if len(cfg.Requirements) > 0 {
		return append([]string(nil), cfg.Requirements...), SourceManifest, nil
	}

	reqPath := resolvePath(dir, cfg.RequirementsFile)
	if fileExists(reqPath) {
		reqs, err := parseRequirementsFile(reqPath)
		if err != nil {
			return nil, "", err
		}
		if len(reqs) > 0 {
			return reqs, SourceRequirementsFile, nil
		}
	}

	pyPath := resolvePath(dir, cfg.PyprojectFile)
	if fileExists(pyPath) {
		reqs, err := parsePyproject(pyPath)
		if err != nil {
			return nil, "", err
		}
		if len(reqs) > 0 {
			return reqs, SourcePyproject, nil
		}
	}

	return append([]string(nil), config.DefaultRequirements...), SourceDefault, nil
}

// parseRequirementsFile reads a pip requirements file. Blank lines,
// comments, and option lines (-r, --index-url, ...) are skipped; inline
// comments are stripped. Version specifiers pass through untouched — pip
// is the one that interprets them.
func parseRequirementsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var reqs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()

		// pip allows inline comments after whitespace.
		if idx := strings.Index(line, " #"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)

		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		reqs = append(reqs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return reqs, nil
}

// pyprojectDoc mirrors the slice of pyproject.toml we care about. Every
// other table is ignored during decoding.
type pyprojectDoc struct {
	Project struct {
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
}

// parsePyproject extracts [project].dependencies from a pyproject.toml.
func parsePyproject(path string) ([]string, error) {
	var doc pyprojectDoc
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	reqs := make([]string, 0, len(doc.Project.Dependencies))
	for _, dep := range doc.Project.Dependencies {
		dep = strings.TrimSpace(dep)
		if dep != "" {
			reqs = append(reqs, dep)
		}
	}
	return reqs, nil
}

func resolvePath(dir, path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
