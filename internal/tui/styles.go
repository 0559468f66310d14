package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.AdaptiveColor{Light: "#5A4FCF", Dark: "#9D8CFF"}
	muted  = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}
	danger = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6B6B"}

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	userStyle  = lipgloss.NewStyle().Foreground(muted)

	activeTabStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 2).Foreground(lipgloss.Color("#FFFFFF")).Background(accent)
	inactiveTabStyle = lipgloss.NewStyle().Padding(0, 2).Foreground(muted)

	statusStyle = lipgloss.NewStyle().Foreground(muted).Italic(true)
	noticeStyle = lipgloss.NewStyle().Foreground(danger)
	errorStyle  = lipgloss.NewStyle().Foreground(danger).Bold(true)

	labelStyle    = lipgloss.NewStyle().Width(14).Foreground(muted)
	focusedLabel  = labelStyle.Foreground(accent).Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(muted).PaddingLeft(14)
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1)
	confirmStyle  = boxStyle.BorderForeground(danger)
	readOnlyStyle = lipgloss.NewStyle().Foreground(muted).Italic(true)
)
