package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	ColorAccent = lipgloss.Color("203")
	ColorLabel  = lipgloss.Color("245")
	ColorValue  = lipgloss.Color("252")
	ColorMuted  = lipgloss.Color("240")
	ColorSelect = lipgloss.Color("229")
)

// Shared styles.
var (
	TitleStyle    = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	LabelStyle    = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle    = lipgloss.NewStyle().Foreground(ColorValue)
	MutedStyle    = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
	SelectedStyle = lipgloss.NewStyle().Foreground(ColorSelect).Background(ColorAccent).Bold(true)
	CursorStyle   = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	LoadedStyle   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	PaneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorMuted).Padding(0, 1)
	HelpStyle     = lipgloss.NewStyle().Foreground(ColorMuted)
)
