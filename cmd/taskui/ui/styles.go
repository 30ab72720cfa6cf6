package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("63")
	muted  = lipgloss.Color("241")

	focusedStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)
	blurredStyle = lipgloss.NewStyle().Foreground(muted)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(accent).
			Padding(0, 1)

	statStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2).
			MarginRight(1)

	statusMessageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render
	errorMessageStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render
)
