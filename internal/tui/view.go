package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const (
	minWidth  = 60
	minHeight = 20

	headerHeight = 1
	cardsHeight  = 4
	statusHeight = 1
)

// View renders the dashboard
func (m *DashboardModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Initializing dashboard..."
	}
	if m.width < minWidth || m.height < minHeight {
		return fmt.Sprintf("Terminal too small. Resize to at least %dx%d.", minWidth, minHeight)
	}

	sections := []string{m.renderHeader(), m.renderCards()}
	if m.hasSearch() {
		sections = append(sections, m.renderSearchBar())
	}
	sections = append(sections, m.renderBody(), m.renderStatusLine())

	return lipgloss.NewStyle().
		MaxWidth(m.width).
		MaxHeight(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *DashboardModel) hasSearch() bool {
	return m.searchActive || m.term != ""
}

// bodyHeight is what remains for the active view after the fixed rows.
func (m *DashboardModel) bodyHeight() int {
	h := m.height - headerHeight - cardsHeight - statusHeight
	if m.hasSearch() {
		h--
	}
	if m.help.ShowAll {
		h -= 3
	}
	return max(5, h)
}

func (m *DashboardModel) renderHeader() string {
	brand := lipgloss.NewStyle().Bold(true).Foreground(ColorBlue).Render("SecDash")

	var tabs []string
	for v := View(0); v < viewCount; v++ {
		if v == m.activeView {
			tabs = append(tabs, activeTabStyle.Render(v.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(v.String()))
		}
	}

	file := "no file"
	if report, ok := m.session.Report(); ok {
		file = report.FileName
	}
	if m.loading {
		file = m.spinner.View() + " loading"
	}

	left := brand + "  " + strings.Join(tabs, "")
	right := helpStyle.Render(file)
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

// renderCards shows the headline metrics over the whole collection.
func (m *DashboardModel) renderCards() string {
	s := m.dash.Summary
	cards := []struct{ label, value string }{
		{"Total", humanize.Comma(s.Total)},
		{"Critical", fmt.Sprintf("%s (%.1f%%)", humanize.Comma(s.CriticalCount), s.CriticalPercent)},
		{"Errors", fmt.Sprintf("%.1f%%", s.ErrorPercent)},
		{"Last hour", humanize.Comma(s.LastHourCount)},
		{"Sources", humanize.Comma(s.DistinctSources)},
		{"Avg/hour", fmt.Sprintf("%.1f", s.HourlyAverage)},
	}

	cardWidth := max(12, m.width/len(cards)-2)
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = cardStyle.Width(cardWidth).Render(
			cardLabelStyle.Render(c.label) + "\n" + cardValueStyle.Render(c.value))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *DashboardModel) renderSearchBar() string {
	matched := helpStyle.Render(fmt.Sprintf("  %s of %s records",
		humanize.Comma(int64(m.dash.Matched)), humanize.Comma(m.dash.Summary.Total)))
	if m.searchActive {
		return m.searchInput.View() + matched
	}
	return chartTitleStyle.Render("Search: ") + m.term + matched + helpStyle.Render("  (esc to clear)")
}

func (m *DashboardModel) renderBody() string {
	h := m.bodyHeight()
	w := m.width

	if m.dash.Summary.Total == 0 {
		msg := "No data loaded. Pass a CSV file or pipe one on stdin."
		if m.loading {
			msg = m.spinner.View() + " Loading..."
		}
		return sectionStyle.Width(w - 2).Height(h - 2).Render(helpStyle.Render(msg))
	}

	switch m.activeView {
	case ViewTimeline:
		half := max(4, h/2)
		top := panel("Records per day", renderTimelineChart(m.dash.Timeline, w-6, half-3), w, half)
		bottom := panel("Severity trend", renderTrendChart(m.dash.Trend, w-6, h-half-3), w, h-half)
		return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
	case ViewHeatmap:
		return panel("Activity by weekday and hour", renderHeatmap(m.dash.Heatmap), w, h)
	case ViewLogs:
		title := fmt.Sprintf("Logs (%s)", humanize.Comma(int64(len(m.dash.Records))))
		return panel(title, m.logTable.View(), w, h)
	default:
		colW := w / 2
		items := max(3, h-3)
		left := panel("Severity", renderBarRows(severityRows(m.dash.Severity), colW-6, items), colW, h)
		right := panel("Event types", renderBarRows(eventTypeRows(m.dash.EventTypes), w-colW-6, items), w-colW, h)
		return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}
}

// panel frames content with a title, sized to the outer width and height.
func panel(title, content string, width, height int) string {
	body := lipgloss.JoinVertical(lipgloss.Left, chartTitleStyle.Render(title), content)
	return sectionStyle.Width(max(1, width-2)).Height(max(1, height-2)).Render(body)
}

// renderStatusLine renders the status/help line at the bottom of the screen
func (m *DashboardModel) renderStatusLine() string {
	left := m.help.View(m.keys)
	if m.status != "" {
		style := okStyle
		if m.statusErr {
			style = errorStyle
		}
		left = style.Render(m.status) + "  " + left
	}
	return statusStyle.Width(m.width).Render(left)
}
