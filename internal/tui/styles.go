package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles renders text for a specific writer. Colors are dropped when the
// writer is not a terminal, so redirected output stays byte-exact.
type Styles struct {
	Header  lipgloss.Style
	Warning lipgloss.Style
	Faint   lipgloss.Style
	status  map[string]lipgloss.Style
	plain   lipgloss.Style
}

// NewStyles binds styles to w.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	green := r.NewStyle().Foreground(lipgloss.Color("2"))
	blue := r.NewStyle().Foreground(lipgloss.Color("4"))
	faint := r.NewStyle().Faint(true)
	return Styles{
		Header:  r.NewStyle().Bold(true),
		Warning: r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		Faint:   faint,
		status: map[string]lipgloss.Style{
			"installed":  green,
			"creating":   blue,
			"installing": blue,
			"linking":    blue,
			"failed":     r.NewStyle().Foreground(lipgloss.Color("1")),
			"pending":    faint,
		},
		plain: r.NewStyle(),
	}
}

// Status returns the style for an install status.
func (s Styles) Status(status string) lipgloss.Style {
	if st, ok := s.status[status]; ok {
		return st
	}
	return s.plain
}
