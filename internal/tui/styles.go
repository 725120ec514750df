package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	spinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	userStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	assistStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	activeTab     = lipgloss.NewStyle().Bold(true).Padding(0, 1).Background(lipgloss.Color("12")).Foreground(lipgloss.Color("0"))
	inactiveTab   = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("8"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	focusedPanel  = panelStyle.Copy().BorderForeground(lipgloss.Color("12"))
	pageBodyStyle = lipgloss.NewStyle().Padding(1, 2)
)
