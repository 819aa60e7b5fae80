package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	panel  lipgloss.Style
	canvas lipgloss.Style
	help   lipgloss.Style
	good   lipgloss.Style
	warn   lipgloss.Style
	bad    lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		header: lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Muted).Width(10),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2),
		canvas: lipgloss.NewStyle().Foreground(t.Accent).Padding(1, 2),
		help:   lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		good:   lipgloss.NewStyle().Foreground(t.Success),
		warn:   lipgloss.NewStyle().Foreground(t.Warning),
		bad:    lipgloss.NewStyle().Foreground(t.Error),
	}
}

// bar renders value/limit as a fixed-width bar, coloured by fill level.
func (s styles) bar(value, limit float64, width int) string {
	ratio := 0.0
	if limit > 0 {
		ratio = math.Min(math.Max(value/limit, 0), 1)
	}
	filled := int(math.Round(ratio * float64(width)))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	switch {
	case ratio > 0.8:
		return s.bad.Render(bar)
	case ratio > 0.4:
		return s.warn.Render(bar)
	}
	return s.good.Render(bar)
}

// slip colours a slip value by its distance from the target.
func (s styles) slip(text string, slip, target float64) string {
	switch e := math.Abs(slip - target); {
	case e < 0.05:
		return s.good.Render(text)
	case e < 0.2:
		return s.warn.Render(text)
	}
	return s.bad.Render(text)
}
