package marker

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	card   lipgloss.Style
	handle lipgloss.Style
	glyph  lipgloss.Style
	text   lipgloss.Style
	empty  lipgloss.Style
}

func newStyles() styles {
	return styles{
		card:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("244")).Padding(0, 1),
		handle: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		glyph:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("114")),
		text:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		empty:  lipgloss.NewStyle().Faint(true),
	}
}

func renderCard(m Marker, s styles) string {
	lines := []string{
		s.handle.Render(fmt.Sprintf("#%d @ %s", m.Handle, m.Anchor)),
	}
	for _, line := range m.Lines {
		if line.Glyph != "" {
			lines = append(lines, s.glyph.Render("["+string(line.Glyph)+"]"))
			continue
		}
		lines = append(lines, s.text.Render(line.Text))
	}

	return s.card.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}
