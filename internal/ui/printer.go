// Package ui renders user-facing status output for the launcher.
//
// The original launcher existed in two variants: one decorated its
// messages with emoji, the other printed plain text. Here that is a
// presentation decision made once at startup: emoji and styling are on
// when stdout is a terminal and --plain is not set, off otherwise, so
// redirected output and CI logs stay clean ASCII.
//
// The printer also owns the pause-for-acknowledgment behavior: failure
// paths wait for Enter so a double-click user can read the message before
// the terminal window closes.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles used for terminal output. Rendering is skipped entirely in plain
// mode, so these only apply when stdout is a real terminal.
var (
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

// Options selects the presentation variant.
type Options struct {
	// Emoji decorates status lines with emoji markers.
	Emoji bool

	// Styled applies terminal colors via lipgloss.
	Styled bool
}

// Detect chooses presentation options for the given output: decorated when
// it is a terminal and plain was not requested.
func Detect(out *os.File, plain bool) Options {
	if plain || out == nil {
		return Options{}
	}
	tty := isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
	return Options{Emoji: tty, Styled: tty}
}

// Printer writes status lines in the selected variant.
type Printer struct {
	out  io.Writer
	in   io.Reader
	opts Options
}

// New creates a Printer. in is only used by Pause; nil disables pausing.
func New(out io.Writer, in io.Reader, opts Options) *Printer {
	return &Printer{out: out, in: in, opts: opts}
}

// Stepf announces a bootstrap step in progress.
func (p *Printer) Stepf(format string, args ...interface{}) {
	p.line(stepStyle, "🔧", "==>", fmt.Sprintf(format, args...))
}

// Successf reports a completed step or a normal termination.
func (p *Printer) Successf(format string, args ...interface{}) {
	p.line(successStyle, "✅", "OK:", fmt.Sprintf(format, args...))
}

// Warnf reports a recoverable oddity.
func (p *Printer) Warnf(format string, args ...interface{}) {
	p.line(warnStyle, "⚠️", "warning:", fmt.Sprintf(format, args...))
}

// Failf reports a terminal failure.
func (p *Printer) Failf(format string, args ...interface{}) {
	p.line(failStyle, "❌", "error:", fmt.Sprintf(format, args...))
}

// Hintf prints a follow-up suggestion under a failure message.
func (p *Printer) Hintf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if p.opts.Styled {
		msg = hintStyle.Render(msg)
	}
	fmt.Fprintf(p.out, "    %s\n", msg)
}

// Plainf prints an undecorated line in every variant (result summaries).
func (p *Printer) Plainf(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// line renders one status line in the active variant.
func (p *Printer) line(style lipgloss.Style, emoji, prefix, msg string) {
	marker := prefix
	if p.opts.Emoji {
		marker = emoji
	}
	if p.opts.Styled {
		msg = style.Render(msg)
	}
	fmt.Fprintf(p.out, "%s %s\n", marker, msg)
}

// Pause blocks until the user presses Enter, so the message above it can
// be read before the terminal window closes. It is a no-op when the
// printer has no input source.
func (p *Printer) Pause() {
	if p.in == nil {
		return
	}
	fmt.Fprint(p.out, "Press Enter to exit...")
	_, _ = bufio.NewReader(p.in).ReadString('\n')
}
