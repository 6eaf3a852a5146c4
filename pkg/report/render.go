package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681")).Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff9f"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...)
}

// Render draws rows as a terminal table. Complete languages are dimmed.
func Render(rows []Row) string {
	t := newTable("Locale", "Language code", "Voice name", "Voice type", "Gender")
	for _, r := range rows {
		t.Row(r.Locale, r.LanguageCode, r.VoiceName, r.VoiceType, r.Gender)
	}
	t.StyleFunc(func(row, _ int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		if row >= 0 && row < len(rows) && rows[row].Complete {
			return dimStyle
		}
		return cellStyle
	})
	return t.String()
}

// RenderAnalysis draws the changed languages followed by a summary.
func RenderAnalysis(a Analysis) string {
	var b strings.Builder
	if len(a.Changes) > 0 {
		t := newTable("Language", "Old voice", "Old type", "New voice", "New type")
		for _, c := range a.Changes {
			t.Row(c.LanguageCode, c.OldVoice, c.OldType, c.NewVoice, c.NewType)
		}
		t.StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
		b.WriteString(t.String())
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Languages that would change: %d\n", len(a.Changes))
	fmt.Fprintf(&b, "Languages with no changes: %d\n", len(a.Unchanged))
	return b.String()
}
