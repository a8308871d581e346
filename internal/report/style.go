package report

import "github.com/charmbracelet/lipgloss"

var (
	green  = lipgloss.Color("#10B981")
	red    = lipgloss.Color("#EF4444")
	yellow = lipgloss.Color("#F59E0B")
	dim    = lipgloss.Color("#6B7280")
)

type styles struct {
	banner  lipgloss.Style
	up      lipgloss.Style
	down    lipgloss.Style
	unknown lipgloss.Style
	alert   lipgloss.Style
	ok      lipgloss.Style
	dim     lipgloss.Style
}

// newStyles binds the palette to r so the color profile follows r's writer.
func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		banner:  r.NewStyle().Bold(true),
		up:      r.NewStyle().Foreground(green).Bold(true),
		down:    r.NewStyle().Foreground(red).Bold(true),
		unknown: r.NewStyle().Foreground(yellow).Bold(true),
		alert:   r.NewStyle().Foreground(red),
		ok:      r.NewStyle().Foreground(green),
		dim:     r.NewStyle().Foreground(dim),
	}
}
