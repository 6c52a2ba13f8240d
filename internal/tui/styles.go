package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.AdaptiveColor{Light: "4", Dark: "12"}
	dim    = lipgloss.AdaptiveColor{Light: "240", Dark: "245"}
)

// TitleStyle renders the welcome banner.
func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(accent)
}

// EchoStyle renders a command the user entered.
func EchoStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(dim)
}

// PromptStyle renders the input prompt.
func PromptStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(accent)
}

// TranscriptBorder returns the style framing the transcript pane.
func TranscriptBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.AdaptiveColor{Light: "240", Dark: "240"})
}
