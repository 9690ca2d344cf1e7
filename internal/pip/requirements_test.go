package pip

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/venvup/internal/config"
)

// writeFile drops a file into dir, creating it for the test.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

// TestDiscoverPrecedence walks the full resolution chain: manifest list →
// requirements.txt → pyproject.toml → built-in default.
func TestDiscoverPrecedence(t *testing.T) {
	t.Run("manifest wins over files", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "requirements.txt", "openpyxl\n")

		cfg := config.Default()
		cfg.Requirements = []string{"pandas>=2.0"}

		reqs, source, err := Discover(dir, cfg)
		require.NoError(t, err)
		assert.Equal(t, SourceManifest, source)
		assert.Equal(t, []string{"pandas>=2.0"}, reqs)
	})

	t.Run("requirements file wins over pyproject", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "requirements.txt", "pandas\nopenpyxl\n")
		writeFile(t, dir, "pyproject.toml", "[project]\ndependencies = [\"numpy\"]\n")

		reqs, source, err := Discover(dir, config.Default())
		require.NoError(t, err)
		assert.Equal(t, SourceRequirementsFile, source)
		assert.Equal(t, []string{"pandas", "openpyxl"}, reqs)
	})

	t.Run("pyproject when no requirements file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "pyproject.toml", `
[project]
name = "bill-tool"
dependencies = ["pandas>=2.0", "openpyxl"]

[tool.black]
line-length = 100
`)

		reqs, source, err := Discover(dir, config.Default())
		require.NoError(t, err)
		assert.Equal(t, SourcePyproject, source)
		assert.Equal(t, []string{"pandas>=2.0", "openpyxl"}, reqs)
	})

	t.Run("default when nothing declared", func(t *testing.T) {
		reqs, source, err := Discover(t.TempDir(), config.Default())
		require.NoError(t, err)
		assert.Equal(t, SourceDefault, source)
		assert.Equal(t, []string{"pandas"}, reqs)
	})

	t.Run("empty requirements file falls through", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "requirements.txt", "# nothing yet\n\n")

		reqs, source, err := Discover(dir, config.Default())
		require.NoError(t, err)
		assert.Equal(t, SourceDefault, source)
		assert.Equal(t, []string{"pandas"}, reqs)
	})
}

// TestParseRequirementsFile covers the requirements.txt dialect actually
// seen in the wild: comments, blank lines, option lines, inline comments,
// version specifiers.
func TestParseRequirementsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "requirements.txt", `
# core
pandas>=2.0  # dataframe engine
openpyxl

--index-url https://mirror.example/simple
-r extra.txt

numpy==1.26.4
`)

	reqs, err := parseRequirementsFile(filepath.Join(dir, "requirements.txt"))
	require.NoError(t, err)
	assert.Equal(t, []string{"pandas>=2.0", "openpyxl", "numpy==1.26.4"}, reqs)
}

// TestParsePyprojectInvalid verifies that a malformed pyproject.toml is an
// error rather than silently yielding the defaults.
func TestParsePyprojectInvalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pyproject.toml", "[project\ndependencies=")

	_, _, err := Discover(dir, config.Default())
	assert.Error(t, err)
}
