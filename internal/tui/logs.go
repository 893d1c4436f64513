package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/secdash/internal/model"
)

const (
	colTimestampWidth = 20
	colTypeWidth      = 14
	colSourceWidth    = 16
	colSeverityWidth  = 10
	minMessageWidth   = 20
)

func newLogTable() table.Model {
	t := table.New(
		table.WithColumns(logColumns(colTimestampWidth+colTypeWidth+colSourceWidth+colSeverityWidth+40)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorGray).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(ColorWhite).
		Background(ColorBlue).
		Bold(false)
	t.SetStyles(styles)
	return t
}

// logColumns sizes the message column to whatever width remains.
func logColumns(width int) []table.Column {
	// Each column carries one cell of padding on both sides.
	fixed := colTimestampWidth + colTypeWidth + colSourceWidth + colSeverityWidth + 10
	msg := max(minMessageWidth, width-fixed)
	return []table.Column{
		{Title: "Timestamp", Width: colTimestampWidth},
		{Title: "Type", Width: colTypeWidth},
		{Title: "Source", Width: colSourceWidth},
		{Title: "Severity", Width: colSeverityWidth},
		{Title: "Message", Width: msg},
	}
}

func logRows(records []model.LogRecord) []table.Row {
	rows := make([]table.Row, len(records))
	for i, r := range records {
		rows[i] = table.Row{r.Timestamp, r.Type, r.Source, r.Severity, r.Message}
	}
	return rows
}

func (m *DashboardModel) resizeLogTable() {
	w := max(40, m.width-4)
	m.logTable.SetColumns(logColumns(w))
	m.logTable.SetWidth(w)
	m.logTable.SetHeight(max(3, m.bodyHeight()-3))
}
