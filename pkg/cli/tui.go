package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the terminal colors.
type Theme struct {
	Primary lipgloss.Color
	Dim     lipgloss.Color
	Warn    lipgloss.Color
}

var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
	Warn:    lipgloss.Color("#ffb86c"),
}

// Styles holds the styles derived from a theme.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Border lipgloss.Style
	Help   lipgloss.Style
	Warn   lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Padding(0, 1),
		Label:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Border: lipgloss.NewStyle().Foreground(t.Primary),
		Help:   lipgloss.NewStyle().Foreground(t.Dim),
		Warn:   lipgloss.NewStyle().Bold(true).Foreground(t.Warn),
	}
}

// Field is one line of a Summary.
type Field struct {
	Label string
	Value string
	Warn  bool
}

// Summary renders a titled block of aligned label/value lines between two
// rules of width characters.
func (s Styles) Summary(title string, width int, fields []Field) string {
	labelWidth := 0
	for _, f := range fields {
		labelWidth = max(labelWidth, lipgloss.Width(f.Label))
	}
	rule := s.Border.Render(strings.Repeat("=", width))

	lines := []string{rule, s.Title.Render(title)}
	for _, f := range fields {
		label := s.Label.Render(f.Label + ":" + strings.Repeat(" ", labelWidth-lipgloss.Width(f.Label)))
		value := f.Value
		if f.Warn {
			value = s.Warn.Render(value)
		}
		lines = append(lines, label+" "+value)
	}
	lines = append(lines, rule)
	return strings.Join(lines, "\n")
}
