package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tinytelemetry/secdash/internal/export"
	"github.com/tinytelemetry/secdash/internal/ingest"
	"github.com/tinytelemetry/secdash/internal/logsource"
	"github.com/tinytelemetry/secdash/internal/model"
	"github.com/tinytelemetry/secdash/internal/session"
)

const sampleCSV = `Timestamp,Tipo,Origen,Mensaje,Severidad
2024-03-01 10:00:00,login,10.0.0.1,failed password for root,critical
2024-03-01 10:30:00,login,10.0.0.2,accepted password,info
2024-03-02 09:15:00,scan,10.0.0.3,port sweep detected,warning
2024-03-03 23:59:00,malware,10.0.0.1,trojan quarantined,error
`

var fixedNow = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

func newLoadedModel(t *testing.T, opts Options) *DashboardModel {
	t.Helper()

	sess := session.New(session.Config{Location: time.UTC})
	if _, err := sess.Load("security.csv", []byte(sampleCSV)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	m := NewDashboardModel(sess, opts)
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewDashboardModel_Defaults(t *testing.T) {
	t.Parallel()

	m := NewDashboardModel(session.New(session.Config{}), Options{})
	if m.activeView != ViewOverview {
		t.Fatalf("active view = %v, want Overview", m.activeView)
	}
	if got := m.View(); got != "Initializing dashboard..." {
		t.Fatalf("View before size = %q", got)
	}
	if m.Init() != nil {
		t.Fatal("Init without a source should not schedule a load")
	}

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	if !strings.Contains(m.View(), "No data loaded") {
		t.Fatal("empty dashboard should explain how to load data")
	}
}

func TestView_TooSmall(t *testing.T) {
	t.Parallel()

	m := newLoadedModel(t, Options{})
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if !strings.Contains(m.View(), "Terminal too small") {
		t.Fatal("expected too-small notice")
	}
}

func TestView_RendersEveryTab(t *testing.T) {
	t.Parallel()

	m := newLoadedModel(t, Options{})

	tests := []struct {
		view View
		want []string
	}{
		{ViewOverview, []string{"Severity", "Event types", "Critical", "login"}},
		{ViewTimeline, []string{"Records per day", "2024-03-01 .. 2024-03-03", "Severity trend"}},
		{ViewHeatmap, []string{"Sun", "Sat", "peak 2"}},
		{ViewLogs, []string{"Timestamp", "port sweep detected"}},
	}
	for _, tt := range tests {
		m.activeView = tt.view
		out := m.View()
		for _, want := range tt.want {
			if !strings.Contains(out, want) {
				t.Fatalf("%s view missing %q", tt.view, want)
			}
		}
	}
}

func TestNavigation_CyclesViews(t *testing.T) {
	t.Parallel()

	m := newLoadedModel(t, Options{})
	for i := 0; i < int(viewCount); i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyTab})
	}
	if m.activeView != ViewOverview {
		t.Fatalf("after a full cycle view = %v, want Overview", m.activeView)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.activeView != ViewLogs {
		t.Fatalf("shift+tab from Overview = %v, want Logs", m.activeView)
	}
}

func TestSearch_FiltersLiveAndClears(t *testing.T) {
	t.Parallel()

	m := newLoadedModel(t, Options{})

	m.Update(keyRunes("/"))
	if !m.searchActive {
		t.Fatal("search should be active after /")
	}
	m.Update(keyRunes("10.0.0.1"))
	if m.term != "10.0.0.1" {
		t.Fatalf("term = %q", m.term)
	}
	if m.dash.Matched != 2 {
		t.Fatalf("matched = %d, want 2", m.dash.Matched)
	}
	if m.dash.Summary.Total != 4 {
		t.Fatalf("summary total = %d, want full collection 4", m.dash.Summary.Total)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.searchActive || m.term != "10.0.0.1" {
		t.Fatalf("enter should keep term and leave input: active=%v term=%q", m.searchActive, m.term)
	}
	if !strings.Contains(m.View(), "2 of 4 records") {
		t.Fatal("search bar should show match count")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.term != "" || m.dash.Matched != 4 {
		t.Fatalf("esc should clear search: term=%q matched=%d", m.term, m.dash.Matched)
	}
}

func TestSearch_QuitKeyTypedIntoInput(t *testing.T) {
	t.Parallel()

	m := newLoadedModel(t, Options{})
	m.Update(keyRunes("/"))
	m.Update(keyRunes("q"))
	if !m.searchActive {
		t.Fatal("q inside the search input must not leave search")
	}
	if m.term != "q" {
		t.Fatalf("term = %q, want q", m.term)
	}
}

func TestExport_WritesFilteredRecords(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := newLoadedModel(t, Options{ExportDir: dir})
	m.applySearch("login")

	_, cmd := m.Update(keyRunes("e"))
	if cmd == nil {
		t.Fatal("expected export command")
	}
	msg, ok := cmd().(exportedMsg)
	if !ok {
		t.Fatalf("unexpected message %T", msg)
	}
	if msg.err != nil {
		t.Fatalf("export: %v", msg.err)
	}
	if want := filepath.Join(dir, export.FileName(fixedNow)); msg.path != want {
		t.Fatalf("path = %q, want %q", msg.path, want)
	}

	data, err := os.ReadFile(msg.path)
	if err != nil {
		t.Fatal(err)
	}
	res := ingest.Parse(string(data))
	if res.Accepted != 2 {
		t.Fatalf("exported %d records, want 2", res.Accepted)
	}

	m.Update(msg)
	if m.statusErr || !strings.Contains(m.status, "Exported 2 records") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestExport_NothingToExport(t *testing.T) {
	t.Parallel()

	m := newLoadedModel(t, Options{ExportDir: t.TempDir()})
	m.applySearch("no-such-term")

	_, cmd := m.Update(keyRunes("e"))
	if cmd != nil {
		t.Fatal("expected no command for an empty result")
	}
	if !m.statusErr {
		t.Fatal("expected an error status")
	}
}

func TestReload_WithoutSource(t *testing.T) {
	t.Parallel()

	m := newLoadedModel(t, Options{})
	_, cmd := m.Update(keyRunes("r"))
	if cmd != nil {
		t.Fatal("reload without a source should not schedule work")
	}
	if !strings.Contains(m.status, "Nothing to reload") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestInit_LoadsSource(t *testing.T) {
	t.Parallel()

	sess := session.New(session.Config{Location: time.UTC})
	src := logsource.NewStdinSource(0, strings.NewReader(sampleCSV))
	m := NewDashboardModel(sess, Options{Source: src, Now: func() time.Time { return fixedNow }})
	if !m.loading {
		t.Fatal("model with a source should start loading")
	}

	msg := m.loadCmd()()
	m.Update(msg)
	if m.loading {
		t.Fatal("loading should end after loadedMsg")
	}
	if m.dash.Summary.Total != 4 {
		t.Fatalf("total = %d, want 4", m.dash.Summary.Total)
	}
	if !strings.Contains(m.status, "Loaded stdin") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestLoadFailure_KeepsPreviousData(t *testing.T) {
	t.Parallel()

	m := newLoadedModel(t, Options{})
	m.Update(loadedMsg{
		report: model.LoadReport{FileName: "empty.csv"},
		err:    ingest.ErrNoRecords,
	})
	if m.dash.Summary.Total != 4 {
		t.Fatalf("total = %d, previous data should remain", m.dash.Summary.Total)
	}
	if !m.statusErr || !strings.Contains(m.status, "no valid records") {
		t.Fatalf("status = %q", m.status)
	}

	m.Update(loadedMsg{report: model.LoadReport{FileName: "x.bin"}, err: errors.New("boom")})
	if !strings.Contains(m.status, "Load failed") {
		t.Fatalf("status = %q", m.status)
	}
}
