package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPlainVariant verifies the undecorated output used for non-TTY and
// --plain runs: ASCII prefixes, no emoji, no escape sequences.
func TestPlainVariant(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, nil, Options{})

	p.Stepf("Checking Python installation")
	p.Successf("virtual environment ready")
	p.Warnf("requirements changed since last install")
	p.Failf("pip install failed")
	p.Hintf("check your internet connection")

	out := buf.String()
	assert.Contains(t, out, "==> Checking Python installation\n")
	assert.Contains(t, out, "OK: virtual environment ready\n")
	assert.Contains(t, out, "warning: requirements changed since last install\n")
	assert.Contains(t, out, "error: pip install failed\n")
	assert.Contains(t, out, "    check your internet connection\n")
	assert.NotContains(t, out, "✅")
	assert.NotContains(t, out, "\x1b[", "plain output must carry no escape sequences")
}

// TestEmojiVariant verifies the decorated markers replace the ASCII
// prefixes when emoji are enabled.
func TestEmojiVariant(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, nil, Options{Emoji: true})

	p.Stepf("Installing dependencies")
	p.Successf("done")
	p.Failf("failed")

	out := buf.String()
	assert.Contains(t, out, "🔧 Installing dependencies\n")
	assert.Contains(t, out, "✅ done\n")
	assert.Contains(t, out, "❌ failed\n")
	assert.NotContains(t, out, "==>")
}

// TestPlainf verifies result-summary lines stay undecorated in every
// variant.
func TestPlainf(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, nil, Options{Emoji: true})

	p.Plainf("  Python:  %s", "3.11.4")
	assert.Equal(t, "  Python:  3.11.4\n", buf.String())
}

// TestPause verifies that Pause consumes a line from its input and that a
// nil input disables pausing entirely.
func TestPause(t *testing.T) {
	t.Run("waits for enter", func(t *testing.T) {
		var buf bytes.Buffer
		p := New(&buf, strings.NewReader("\n"), Options{})

		p.Pause()
		assert.Contains(t, buf.String(), "Press Enter to exit...")
	})

	t.Run("nil input is a no-op", func(t *testing.T) {
		var buf bytes.Buffer
		p := New(&buf, nil, Options{})

		p.Pause()
		assert.Empty(t, buf.String())
	})
}
