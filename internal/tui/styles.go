package tui

import "github.com/charmbracelet/lipgloss"

var (
	// HeaderStyle styles the column header row.
	HeaderStyle = lipgloss.NewStyle().Bold(true)

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	selectStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	overlayStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	handleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	captionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))

	paneStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	focusedPaneStyle = paneStyle.BorderForeground(lipgloss.Color("4"))
	previewStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("8"))

	statusStyles = map[string]lipgloss.Style{
		// Terminal states
		"exported":  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"succeeded": lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"probed":    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),

		// Active states
		"probing":   lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"rendering": lipgloss.NewStyle().Foreground(lipgloss.Color("4")),

		// Skipped / warning
		"skipped":  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"fallback": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),

		// Error
		"failed": lipgloss.NewStyle().Foreground(lipgloss.Color("1")),

		// Pending
		"pending": lipgloss.NewStyle().Faint(true),
	}
)

// StatusStyle returns the lipgloss style for the given status string.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
