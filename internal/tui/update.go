package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/tinytelemetry/secdash/internal/export"
	"github.com/tinytelemetry/secdash/internal/ingest"
	"github.com/tinytelemetry/secdash/internal/model"
)

// Update handles messages
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizeLogTable()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.setStatus(loadErrorText(msg.report, msg.err), true)
			return m, nil
		}
		m.refresh()
		m.setStatus(fmt.Sprintf("Loaded %s: %s records, %s rejected",
			msg.report.FileName, humanize.Comma(int64(msg.report.Accepted)), humanize.Comma(int64(msg.report.Rejected))), false)
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.setStatus("Export failed: "+msg.err.Error(), true)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Exported %s records to %s", humanize.Comma(int64(msg.count)), msg.path), false)
		return m, nil
	}

	return m, nil
}

// handleKeyPress routes key input to the search bar or the dashboard.
func (m *DashboardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.searchActive {
		return m.handleSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Search):
		m.searchActive = true
		m.searchInput.SetValue(m.term)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()
	case key.Matches(msg, m.keys.Escape):
		if m.term != "" {
			m.applySearch("")
		}
		return m, nil
	case key.Matches(msg, m.keys.NextView):
		m.activeView = (m.activeView + 1) % viewCount
		return m, nil
	case key.Matches(msg, m.keys.PrevView):
		m.activeView = (m.activeView + viewCount - 1) % viewCount
		return m, nil
	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd()
	case key.Matches(msg, m.keys.Reload):
		if m.source == nil {
			m.setStatus("Nothing to reload: started without a file", true)
			return m, nil
		}
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.setStatus("Reloading "+m.source.Name()+"...", false)
		return m, tea.Batch(m.spinner.Tick, m.loadCmd())
	}

	if m.activeView == ViewLogs {
		var cmd tea.Cmd
		m.logTable, cmd = m.logTable.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleSearchInput filters live as the term is typed.
func (m *DashboardModel) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searchActive = false
		m.searchInput.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searchActive = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.applySearch("")
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if v := m.searchInput.Value(); v != m.term {
		m.applySearch(v)
	}
	return m, cmd
}

func (m *DashboardModel) applySearch(term string) {
	m.term = term
	m.refresh()
	m.logTable.GotoTop()
}

// exportCmd writes the filtered records to a timestamped CSV file.
func (m *DashboardModel) exportCmd() tea.Cmd {
	records := m.dash.Records
	if len(records) == 0 {
		m.setStatus("Nothing to export", true)
		return nil
	}
	path := filepath.Join(m.exportDir, export.FileName(m.now()))
	return func() tea.Msg {
		err := writeExport(path, records)
		return exportedMsg{path: path, count: len(records), err: err}
	}
}

func writeExport(path string, records []model.LogRecord) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return export.WriteCSV(f, records)
}

func loadErrorText(report model.LoadReport, err error) string {
	name := report.FileName
	switch {
	case errors.Is(err, ingest.ErrNoRecords):
		return fmt.Sprintf("%s: no valid records found, keeping previous data", name)
	case ingest.IsFormatError(err):
		return fmt.Sprintf("%s: invalid format (%v)", name, err)
	default:
		return fmt.Sprintf("Load failed: %v", err)
	}
}
