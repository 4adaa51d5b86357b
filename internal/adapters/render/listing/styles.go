package listing

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	id        lipgloss.Style
	content   lipgloss.Style
	author    lipgloss.Style
	location  lipgloss.Style
	pending   lipgloss.Style
	temporary lipgloss.Style
	footer    lipgloss.Style
	empty     lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		header:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		id:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		content:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		author:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		location:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		pending:   lipgloss.NewStyle().Faint(true).Italic(true),
		temporary: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		footer:    lipgloss.NewStyle().MarginTop(1).Foreground(lipgloss.Color("241")),
		empty:     lipgloss.NewStyle().Faint(true),
	}
}
