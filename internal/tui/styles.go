package tui

import "github.com/charmbracelet/lipgloss"

var (
	// HeaderStyle styles the column header row.
	HeaderStyle = lipgloss.NewStyle().Bold(true)

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	faintStyle    = lipgloss.NewStyle().Faint(true)
	playheadStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	scrubStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	// Clip blocks alternate between these so neighbours stay distinguishable.
	clipStyles = []lipgloss.Style{
		lipgloss.NewStyle().Background(lipgloss.Color("4")).Foreground(lipgloss.Color("15")),
		lipgloss.NewStyle().Background(lipgloss.Color("6")).Foreground(lipgloss.Color("0")),
	}
	selectedClipStyle = lipgloss.NewStyle().Background(lipgloss.Color("3")).Foreground(lipgloss.Color("0")).Bold(true)

	statusStyles = map[string]lipgloss.Style{
		"playing":  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"ready":    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"applied":  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"loading":  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"paused":   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"rejected": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"none":     lipgloss.NewStyle().Faint(true),
		"error":    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

// StatusStyle returns the lipgloss style for the given status string.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

func clipStyle(index int, selected bool) lipgloss.Style {
	if selected {
		return selectedClipStyle
	}
	return clipStyles[index%len(clipStyles)]
}
