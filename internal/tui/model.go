// Package tui renders the security dashboard in the terminal.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tinytelemetry/secdash/internal/logsource"
	"github.com/tinytelemetry/secdash/internal/model"
)

// Session is the record store the dashboard reads from.
type Session interface {
	View(term string, now time.Time) model.Dashboard
	LoadSource(ctx context.Context, src logsource.Source) (model.LoadReport, error)
	Report() (model.LoadReport, bool)
}

// View identifies one dashboard tab.
type View int

const (
	ViewOverview View = iota // severity and event type distributions
	ViewTimeline             // daily volume and severity trend
	ViewHeatmap              // hour x weekday activity
	ViewLogs                 // filtered record table
	viewCount
)

var viewTitles = [...]string{"Overview", "Timeline", "Heatmap", "Logs"}

func (v View) String() string {
	if v < 0 || v >= viewCount {
		return ""
	}
	return viewTitles[v]
}

// Options configures a DashboardModel.
type Options struct {
	Source    logsource.Source // loaded on start and on reload; may be nil
	ExportDir string           // target directory for CSV exports, "." when empty
	Now       func() time.Time // clock for metrics and export names, time.Now when nil
}

// DashboardModel represents the main TUI model.
type DashboardModel struct {
	session   Session
	source    logsource.Source
	exportDir string
	now       func() time.Time

	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	// Window dimensions
	width  int
	height int

	activeView View

	searchInput  textinput.Model
	searchActive bool
	term         string

	dash     model.Dashboard
	logTable table.Model
	loading  bool

	// Last action result for the status line.
	status    string
	statusErr bool
}

// loadedMsg reports a finished (re)load.
type loadedMsg struct {
	report model.LoadReport
	err    error
}

// exportedMsg reports a finished CSV export.
type exportedMsg struct {
	path  string
	count int
	err   error
}

// NewDashboardModel creates a dashboard over session.
func NewDashboardModel(session Session, opts Options) *DashboardModel {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	input := textinput.New()
	input.Prompt = "Search: "
	input.Placeholder = "type, source, message or severity"
	input.CharLimit = 256

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &DashboardModel{
		session:     session,
		source:      opts.Source,
		exportDir:   exportDir,
		now:         now,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		spinner:     sp,
		searchInput: input,
		logTable:    newLogTable(),
		loading:     opts.Source != nil,
	}
	m.refresh()
	return m
}

// Init starts the initial load when a source is configured.
func (m *DashboardModel) Init() tea.Cmd {
	if m.source == nil {
		return nil
	}
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

// refresh recomputes every view for the current search term.
func (m *DashboardModel) refresh() {
	m.dash = m.session.View(m.term, m.now())
	m.logTable.SetRows(logRows(m.dash.Records))
	if c := m.logTable.Cursor(); c >= len(m.dash.Records) {
		m.logTable.SetCursor(max(0, len(m.dash.Records)-1))
	}
}

func (m *DashboardModel) loadCmd() tea.Cmd {
	session, src := m.session, m.source
	return func() tea.Msg {
		report, err := session.LoadSource(context.Background(), src)
		return loadedMsg{report: report, err: err}
	}
}

func (m *DashboardModel) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}
