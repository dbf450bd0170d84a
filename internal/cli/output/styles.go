package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style
	Path     lipgloss.Style
	Header   lipgloss.Style
	Subtitle lipgloss.Style
}

// newStyles builds styles bound to w. Without color the styles render text
// unchanged.
func newStyles(w io.Writer, color bool) *Styles {
	lr := lipgloss.NewRenderer(w)
	if color {
		lr.SetColorProfile(termenv.NewOutput(w).EnvColorProfile())
	} else {
		lr.SetColorProfile(termenv.Ascii)
	}

	return &Styles{
		Bold:     lr.NewStyle().Bold(true),
		Muted:    lr.NewStyle().Foreground(lipgloss.Color("8")),
		Success:  lr.NewStyle().Foreground(lipgloss.Color("2")),
		Warning:  lr.NewStyle().Foreground(lipgloss.Color("3")),
		Error:    lr.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Info:     lr.NewStyle().Foreground(lipgloss.Color("4")),
		Path:     lr.NewStyle().Foreground(lipgloss.Color("6")),
		Header:   lr.NewStyle().Bold(true).Underline(true),
		Subtitle: lr.NewStyle().Bold(true),
	}
}
