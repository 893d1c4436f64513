// Package session owns the in-memory record collection and derives every
// dashboard view from it.
package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tinytelemetry/secdash/internal/aggregate"
	"github.com/tinytelemetry/secdash/internal/ingest"
	"github.com/tinytelemetry/secdash/internal/logparse"
	"github.com/tinytelemetry/secdash/internal/logsource"
	"github.com/tinytelemetry/secdash/internal/metrics"
	"github.com/tinytelemetry/secdash/internal/model"
	"github.com/tinytelemetry/secdash/internal/search"
	"github.com/tinytelemetry/secdash/internal/timestamp"
)

// Config holds the collaborators of a Session.
type Config struct {
	Location   *time.Location       // display timezone, time.Local when nil
	Classifier *logparse.Classifier // severity vocabulary, logparse.Default when nil
	Mirror     model.RecordMirror   // optional copy of every accepted collection
	Now        func() time.Time     // clock for load reports, time.Now when nil
}

// Session holds the current record collection. A load replaces the whole
// collection or leaves it untouched; the slice is never modified in place,
// so callers may keep the slices returned by Records and Filter.
type Session struct {
	loadMu sync.Mutex // serializes loads so the mirror matches the last one
	mu     sync.RWMutex

	engine     *aggregate.Engine
	summarizer *metrics.Summarizer
	mirror     model.RecordMirror
	now        func() time.Time

	records []model.LogRecord
	report  model.LoadReport
	loaded  bool
}

// New creates an empty Session.
func New(cfg Config) *Session {
	parser := timestamp.NewParser(cfg.Location)
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Session{
		engine:     aggregate.New(parser, cfg.Classifier),
		summarizer: metrics.NewSummarizer(parser, cfg.Classifier),
		mirror:     cfg.Mirror,
		now:        now,
	}
}

// LoadError carries the report of a rejected load.
type LoadError struct {
	Report model.LoadReport
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Report.FileName, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load parses data and, when at least one record is accepted, replaces the
// collection. On error the previous collection is kept and the error wraps
// one of the ingest sentinels.
func (s *Session) Load(name string, data []byte) (model.LoadReport, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	res, err := ingest.Decode(data)
	report := model.LoadReport{
		LoadID:     uuid.NewString(),
		FileName:   name,
		MediaType:  res.MediaType,
		TotalLines: res.TotalLines,
		Accepted:   res.Accepted,
		Rejected:   res.Rejected,
		Blank:      res.Blank,
		LoadedAt:   s.now(),
	}
	if err != nil {
		log.Printf("session: load %s (%s) rejected: %v", name, report.LoadID, err)
		return report, &LoadError{Report: report, Err: err}
	}

	s.mu.Lock()
	s.records = res.Records
	s.report = report
	s.loaded = true
	s.mu.Unlock()

	log.Printf("session: loaded %s (%s): %d accepted, %d rejected", name, report.LoadID, report.Accepted, report.Rejected)

	if s.mirror != nil {
		if err := s.mirror.ReplaceRecords(res.Records); err != nil {
			log.Printf("session: mirror update failed for %s: %v", report.LoadID, err)
		}
	}
	return report, nil
}

// LoadSource reads src fully and loads its content.
func (s *Session) LoadSource(ctx context.Context, src logsource.Source) (model.LoadReport, error) {
	data, err := src.Read(ctx)
	if err != nil {
		return model.LoadReport{FileName: src.Name()}, fmt.Errorf("reading %s: %w", src.Name(), err)
	}
	return s.Load(src.Name(), data)
}

// Records returns the current collection in input order.
func (s *Session) Records() []model.LogRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Report returns the report of the load that produced the current
// collection, and false when nothing has been loaded.
func (s *Session) Report() (model.LoadReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report, s.loaded
}

// Clear drops the collection.
func (s *Session) Clear() {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	s.mu.Lock()
	s.records = nil
	s.report = model.LoadReport{}
	s.loaded = false
	s.mu.Unlock()

	if s.mirror != nil {
		if err := s.mirror.ReplaceRecords(nil); err != nil {
			log.Printf("session: mirror clear failed: %v", err)
		}
	}
}

// Filter returns the records matching term.
func (s *Session) Filter(term string) []model.LogRecord {
	return search.Filter(s.Records(), term)
}

// Summary computes the metrics over the full collection.
func (s *Session) Summary(now time.Time) model.Summary {
	return s.summarizer.Summarize(s.Records(), now)
}

// Engine exposes the aggregation engine bound to this session's settings.
func (s *Session) Engine() *aggregate.Engine {
	return s.engine
}

// View derives the complete dashboard for term. Metrics use the full
// collection; charts and rows use the filtered subset.
func (s *Session) View(term string, now time.Time) model.Dashboard {
	all := s.Records()
	filtered := search.Filter(all, term)
	if filtered == nil {
		filtered = []model.LogRecord{}
	}
	return model.Dashboard{
		Term:       term,
		Summary:    s.summarizer.Summarize(all, now),
		Severity:   s.engine.SeverityDistribution(filtered),
		EventTypes: s.engine.EventTypeDistribution(filtered),
		Timeline:   s.engine.DailyTimeline(filtered),
		Heatmap:    s.engine.HourDayMatrix(filtered),
		Trend:      s.engine.DailyTrend(filtered),
		Records:    filtered,
		Matched:    len(filtered),
	}
}
