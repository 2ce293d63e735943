package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// styles holds the renderers for text output.
type styles struct {
	File   lipgloss.Style
	Header lipgloss.Style
	Line   lipgloss.Style
	Sep    lipgloss.Style
	Error  lipgloss.Style
}

func newStyles(colorEnabled bool) *styles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &styles{File: plain, Header: plain, Line: plain, Sep: plain, Error: plain}
	}
	return &styles{
		File:   lipgloss.NewStyle().Bold(true).Underline(true),
		Header: lipgloss.NewStyle().Bold(true),
		Line:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Sep:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
}

// colorEnabled decides whether to style output for mode "auto", "always"
// or "never". Auto enables color only on a terminal with NO_COLOR unset.
func colorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := w.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
