package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styles used for charts.
type Theme struct {
	Title      lipgloss.Style
	Label      lipgloss.Style
	Done       lipgloss.Style
	Remaining  lipgloss.Style
	Milestone  lipgloss.Style
	Collection lipgloss.Style
	Dates      lipgloss.Style
	Muted      lipgloss.Style
}

// NewRenderer returns a lipgloss renderer for w. When color is false the
// renderer uses the ASCII profile and emits no escape sequences.
func NewRenderer(w io.Writer, color bool) *lipgloss.Renderer {
	if !color {
		r := lipgloss.NewRenderer(w, termenv.WithProfile(termenv.Ascii))
		r.SetColorProfile(termenv.Ascii)
		return r
	}
	return lipgloss.NewRenderer(w)
}

// NewTheme builds the default dark-terminal theme on r.
func NewTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		Title:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		Label:      r.NewStyle().Foreground(lipgloss.Color("252")),
		Done:       r.NewStyle().Foreground(lipgloss.Color("33")),
		Remaining:  r.NewStyle().Foreground(lipgloss.Color("117")),
		Milestone:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Collection: r.NewStyle().Foreground(lipgloss.Color("245")),
		Dates:      r.NewStyle().Foreground(lipgloss.Color("109")),
		Muted:      r.NewStyle().Faint(true),
	}
}

// PlainTheme renders text unchanged.
func PlainTheme() Theme {
	s := lipgloss.NewStyle()
	return Theme{s, s, s, s, s, s, s, s}
}
