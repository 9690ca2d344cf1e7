package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeManifest writes a manifest file into a fresh temp directory and
// returns both paths. t.TempDir() handles cleanup automatically.
func writeManifest(t *testing.T, name, content string) (dir, path string) {
	t.Helper()

	dir = t.TempDir()
	path = filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return dir, path
}

// TestDefault verifies that the zero-configuration defaults reproduce the
// original launcher's behavior: ./venv, gui.py, pandas, pause on exit.
func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "venv", cfg.VenvDir)
	assert.Equal(t, "gui.py", cfg.Entrypoint)
	assert.Equal(t, "3.8.0", cfg.MinPythonVersion)
	assert.Equal(t, "requirements.txt", cfg.RequirementsFile)
	assert.Equal(t, "pyproject.toml", cfg.PyprojectFile)
	assert.Equal(t, ".env", cfg.EnvFile)
	assert.Empty(t, cfg.Requirements, "requirement defaults are resolved by discovery, not config")
	assert.True(t, cfg.Pause())
	assert.Empty(t, cfg.Path())
}

// TestLoadJSONC verifies that comments and trailing commas are tolerated,
// since the manifest format is JSONC.
func TestLoadJSONC(t *testing.T) {
	_, path := writeManifest(t, "venvup.jsonc", `{
		// interpreter lookup order
		"pythonCandidates": ["py -3", "python"],
		"minPythonVersion": "3.10.0",
		"venvDir": ".venv",
		"requirements": ["pandas", "openpyxl"],
		/* launch settings */
		"entrypoint": "app.py",
		"entrypointArgs": ["--fullscreen"],
		"pauseOnExit": false,
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"py -3", "python"}, cfg.PythonCandidates)
	assert.Equal(t, "3.10.0", cfg.MinPythonVersion)
	assert.Equal(t, ".venv", cfg.VenvDir)
	assert.Equal(t, []string{"pandas", "openpyxl"}, cfg.Requirements)
	assert.Equal(t, "app.py", cfg.Entrypoint)
	assert.Equal(t, []string{"--fullscreen"}, cfg.EntrypointArgs)
	assert.False(t, cfg.Pause())
	assert.Equal(t, path, cfg.Path())
}

// TestLoadFillsDefaults verifies that omitted fields are defaulted even when
// a manifest is present.
func TestLoadFillsDefaults(t *testing.T) {
	_, path := writeManifest(t, "venvup.json", `{"venvDir": "env"}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env", cfg.VenvDir)
	assert.Equal(t, "gui.py", cfg.Entrypoint)
	assert.True(t, cfg.Pause(), "pauseOnExit defaults to true when unset")
}

// TestLoadMissing verifies that Load reports a missing manifest as an error
// (Discover is the lenient entry point).
func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "venvup.jsonc"))
	assert.Error(t, err)
}

// TestLoadInvalid covers both malformed JSON and semantically invalid
// manifests.
func TestLoadInvalid(t *testing.T) {
	t.Run("malformed json", func(t *testing.T) {
		_, path := writeManifest(t, "venvup.jsonc", `{"venvDir": `)
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("blank entrypoint", func(t *testing.T) {
		_, path := writeManifest(t, "venvup.jsonc", `{"entrypoint": "   "}`)
		_, err := Load(path)
		assert.ErrorContains(t, err, "entrypoint")
	})

	t.Run("blank requirement entry", func(t *testing.T) {
		_, path := writeManifest(t, "venvup.jsonc", `{"requirements": ["pandas", ""]}`)
		_, err := Load(path)
		assert.ErrorContains(t, err, "requirements")
	})
}

// TestDiscover verifies manifest probing: venvup.jsonc wins over venvup.json,
// and an empty directory yields pure defaults without error.
func TestDiscover(t *testing.T) {
	t.Run("no manifest", func(t *testing.T) {
		cfg, err := Discover(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, cfg.Path())
		assert.Equal(t, "venv", cfg.VenvDir)
	})

	t.Run("jsonc preferred over json", func(t *testing.T) {
		dir, _ := writeManifest(t, "venvup.jsonc", `{"venvDir": "from-jsonc"}`)
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "venvup.json"), []byte(`{"venvDir": "from-json"}`), 0644))

		cfg, err := Discover(dir)
		require.NoError(t, err)
		assert.Equal(t, "from-jsonc", cfg.VenvDir)
	})
}
