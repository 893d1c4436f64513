package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorNavy  = lipgloss.Color("#1E2A47")
	ColorWhite = lipgloss.Color("#F8F8F2")
	ColorGray  = lipgloss.Color("240")
	ColorBlue  = lipgloss.Color("39")
	ColorGreen = lipgloss.Color("42")
	ColorRed   = lipgloss.Color("196")
)

var (
	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray).
			Padding(0, 1)

	activeSectionStyle = sectionStyle.
				BorderForeground(ColorBlue)

	chartTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBlue)

	helpStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray).
			Padding(0, 1)

	cardLabelStyle = lipgloss.NewStyle().Foreground(ColorGray)
	cardValueStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorWhite)

	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(ColorGray)
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).
			Foreground(ColorWhite).Background(ColorBlue)

	statusStyle = lipgloss.NewStyle().Background(ColorNavy).Foreground(ColorWhite)
	errorStyle  = lipgloss.NewStyle().Foreground(ColorRed)
	okStyle     = lipgloss.NewStyle().Foreground(ColorGreen)
)

// swatch renders a colored block for bar charts and legends.
func swatch(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Background(lipgloss.Color(color))
}
