package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/secdash/internal/aggregate"
	"github.com/tinytelemetry/secdash/internal/model"
)

// renderHeatmap draws the weekday x hour grid, two cells per hour.
func renderHeatmap(grid model.HourDayGrid) string {
	var counts [7][24]int64
	for _, c := range grid.Cells {
		if c.Weekday >= 0 && c.Weekday < 7 && c.Hour >= 0 && c.Hour < 24 {
			counts[c.Weekday][c.Hour] = c.Count
		}
	}

	var b strings.Builder
	b.WriteString("    ")
	for h := 0; h < 24; h++ {
		if h%3 == 0 {
			b.WriteString(fmt.Sprintf("%-6d", h))
		}
	}
	b.WriteString("\n")

	for wd := 0; wd < 7; wd++ {
		b.WriteString(helpStyle.Render(aggregate.WeekdayNames[wd]) + " ")
		for h := 0; h < 24; h++ {
			b.WriteString(swatch(aggregate.HeatmapColor(counts[wd][h], grid.Max)).Render("██"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n    " + helpStyle.Render("Less "))
	for _, c := range aggregate.HeatmapColors {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("■ "))
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("More   peak %d", grid.Max)))
	return b.String()
}
