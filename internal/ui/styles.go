package ui

import (
	"github.com/nconklindev/sheetseek/internal/render"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(render.Accent).
			MarginTop(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(render.Muted).
			MarginBottom(1)

	HeadingStyle = lipgloss.NewStyle().
			Foreground(render.Accent).
			Bold(true)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(render.Accent).
			Bold(true)

	UnselectedStyle = lipgloss.NewStyle().
			Foreground(render.Plain)

	CheckedStyle = lipgloss.NewStyle().
			Foreground(render.Highlight).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(render.Danger).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(render.Highlight)

	InfoStyle = lipgloss.NewStyle().
			Foreground(render.Plain).
			Italic(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(render.Muted).
			MarginTop(1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(render.Accent).
			Padding(1, 2)

	SidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, true, false, false).
			BorderForeground(render.Muted).
			PaddingRight(2).
			MarginRight(2).
			Width(28)

	TabStyle = lipgloss.NewStyle().
			Foreground(render.Muted).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(render.Accent).
			Bold(true).
			Underline(true).
			Padding(0, 1)
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(render.Accent).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#000000")).
		Background(render.Highlight).
		Bold(false)
	return s
}
