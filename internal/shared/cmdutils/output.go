package cmdutils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const logo = "🕴️"

var (
	BannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00D787"))
	DimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	ErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true)
)

// IsStdinTTY reports whether stdin is a terminal.
func IsStdinTTY() bool { return term.IsTerminal(int(os.Stdin.Fd())) }

// IsStdoutTTY reports whether stdout is a terminal.
func IsStdoutTTY() bool { return term.IsTerminal(int(os.Stdout.Fd())) }

var (
	rendererOnce sync.Once
	renderer     *glamour.TermRenderer
)

// RenderMarkdown renders s for terminal display, or returns it unchanged if
// no renderer could be built.
func RenderMarkdown(s string) string {
	rendererOnce.Do(func() {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err == nil {
			renderer = r
		}
	})
	if renderer == nil {
		return s
	}
	out, err := renderer.Render(s)
	if err != nil {
		return s
	}
	return strings.TrimRight(out, "\n") + "\n"
}

// PrintResponse writes an assistant reply to w. pretty enables Markdown
// rendering and styling.
func PrintResponse(w io.Writer, text string, pretty bool) {
	if text == "" {
		return
	}
	if !pretty {
		fmt.Fprintln(w, text)
		return
	}
	fmt.Fprintf(w, "\n%s\n%s", BannerStyle.Render(logo+" Agent Smith"), RenderMarkdown(text))
}
