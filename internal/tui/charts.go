package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/secdash/internal/aggregate"
	"github.com/tinytelemetry/secdash/internal/logparse"
	"github.com/tinytelemetry/secdash/internal/metrics"
	"github.com/tinytelemetry/secdash/internal/model"
)

// barRow is one labelled line of a horizontal bar chart.
type barRow struct {
	label string
	count int64
	color string
}

// renderBarRows draws proportional text bars scaled to the largest count.
func renderBarRows(rows []barRow, width, maxItems int) string {
	if len(rows) == 0 {
		return helpStyle.Render("No data available")
	}
	if maxItems > 0 && len(rows) > maxItems {
		rows = rows[:maxItems]
	}

	var total, top int64
	for _, r := range rows {
		total += r.count
		top = max(top, r.count)
	}

	labelWidth := 0
	for _, r := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(r.label))
	}
	labelWidth = min(labelWidth, 18)
	countWidth := max(3, len(fmt.Sprintf("%d", top)))

	// label, count, percentage and separators
	barWidth := width - labelWidth - countWidth - 12
	if barWidth < 5 {
		barWidth = 5
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		filled := 0
		if top > 0 {
			filled = int(float64(r.count) / float64(top) * float64(barWidth))
		}
		if filled == 0 && r.count > 0 {
			filled = 1
		}
		bar := swatch(r.color).Render(strings.Repeat("█", filled)) +
			helpStyle.Render(strings.Repeat("░", barWidth-filled))
		label := truncate(r.label, labelWidth)
		lines = append(lines, fmt.Sprintf("%-*s %*d %5.1f%% %s",
			labelWidth, label, countWidth, r.count, metrics.Percent(r.count, total), bar))
	}
	return strings.Join(lines, "\n")
}

func severityRows(counts []model.SeverityCount) []barRow {
	rows := make([]barRow, len(counts))
	for i, c := range counts {
		rows[i] = barRow{label: c.Label, count: c.Count, color: c.Color}
	}
	return rows
}

func eventTypeRows(counts []model.EventTypeCount) []barRow {
	rows := make([]barRow, len(counts))
	for i, c := range counts {
		label := c.Type
		if label == "" {
			label = "(none)"
		}
		rows[i] = barRow{label: label, count: c.Count, color: aggregate.EventColor(i)}
	}
	return rows
}

// renderTimelineChart draws one bar per day, newest on the right.
func renderTimelineChart(days []model.DailyCount, width, height int) string {
	if len(days) == 0 {
		return helpStyle.Render("No dated records")
	}
	width = max(20, width)
	height = max(3, height-1)

	maxBars := max(1, width/2)
	start := max(0, len(days)-maxBars)
	shown := days[start:]

	bc := barchart.New(width, height,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(1),
		barchart.WithNoAxis(),
	)
	style := swatch(aggregate.SeverityColors[logparse.Info])
	for _, d := range shown {
		bc.Push(barchart.BarData{
			Label: "",
			Values: []barchart.BarValue{
				{Name: d.Date, Value: float64(d.Count), Style: style},
			},
		})
	}
	bc.Draw()

	span := fmt.Sprintf("%s .. %s", shown[0].Date, shown[len(shown)-1].Date)
	return lipgloss.JoinVertical(lipgloss.Left, bc.View(), helpStyle.Render(span))
}

// renderTrendChart draws stacked per-day severity bars with a legend.
func renderTrendChart(rows []model.DailyTrendRow, width, height int) string {
	if len(rows) == 0 {
		return helpStyle.Render("No dated records")
	}
	legendWidth := 16
	chartWidth := max(20, width-legendWidth-1)
	height = max(3, height)

	maxBars := max(1, chartWidth/2)
	start := max(0, len(rows)-maxBars)
	shown := rows[start:]

	bc := barchart.New(chartWidth, height,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(1),
		barchart.WithNoAxis(),
	)
	series := []logparse.Severity{logparse.Info, logparse.Warning, logparse.Error, logparse.Critical}
	var totals [4]int64
	for _, r := range shown {
		values := []int64{r.Info, r.Warning, r.Error, r.Critical}
		var bars []barchart.BarValue
		for i, sev := range series {
			totals[i] += values[i]
			if values[i] == 0 {
				continue
			}
			bars = append(bars, barchart.BarValue{
				Name:  string(sev),
				Value: float64(values[i]),
				Style: swatch(aggregate.SeverityColors[sev]),
			})
		}
		if len(bars) == 0 {
			bars = append(bars, barchart.BarValue{Name: "empty", Value: 0, Style: helpStyle})
		}
		bc.Push(barchart.BarData{Label: "", Values: bars})
	}
	bc.Draw()

	var legend []string
	for i := len(series) - 1; i >= 0; i-- {
		sev := series[i]
		legend = append(legend, fmt.Sprintf("%s %-8s %d",
			swatch(aggregate.SeverityColors[sev]).Render("■"), logparse.Label(string(sev)), totals[i]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, bc.View(), " ", strings.Join(legend, "\n"))
}

func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
