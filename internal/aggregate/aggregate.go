// Package aggregate derives chart-ready groupings from a record sequence.
//
// Every function is pure and total: empty input yields an empty (or, for the
// hour x weekday grid, zero-filled) result. Records whose timestamp cannot be
// parsed still count in the severity and event-type views but are skipped by
// the time-based ones.
package aggregate

import (
	"slices"
	"sort"
	"time"

	"github.com/tinytelemetry/secdash/internal/logparse"
	"github.com/tinytelemetry/secdash/internal/model"
	"github.com/tinytelemetry/secdash/internal/timestamp"
)

const (
	daysPerWeek = 7
	hoursPerDay = 24
	// GridCells is the size of the dense hour x weekday grid.
	GridCells = daysPerWeek * hoursPerDay
)

// Engine holds the display location and severity vocabulary used by the views.
type Engine struct {
	parser     *timestamp.Parser
	classifier *logparse.Classifier
}

// New creates an Engine. Nil arguments fall back to a local-time parser
// and the default classifier.
func New(parser *timestamp.Parser, classifier *logparse.Classifier) *Engine {
	if parser == nil {
		parser = timestamp.NewParser()
	}
	if classifier == nil {
		classifier = logparse.Default
	}
	return &Engine{parser: parser, classifier: classifier}
}

// SeverityDistribution counts records per case-folded severity. Canonical
// severities come first in rank order, then other labels by first occurrence.
func (e *Engine) SeverityDistribution(records []model.LogRecord) []model.SeverityCount {
	counts := make(map[string]int64)
	var order []string
	for _, r := range records {
		key := e.classifier.Fold(r.Severity)
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	rank := func(key string) int {
		if r := logparse.Severity(key).Rank(); r >= 0 {
			return r
		}
		return len(logparse.Canonical)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return rank(order[i]) < rank(order[j])
	})

	out := make([]model.SeverityCount, 0, len(order))
	for i, key := range order {
		out = append(out, model.SeverityCount{
			Key:   key,
			Label: logparse.Label(key),
			Count: counts[key],
			Color: SeverityColor(key, i),
		})
	}
	return out
}

// EventTypeDistribution counts records per raw type, most frequent first.
// Ties keep first-occurrence order.
func (e *Engine) EventTypeDistribution(records []model.LogRecord) []model.EventTypeCount {
	index := make(map[string]int)
	var out []model.EventTypeCount
	for _, r := range records {
		i, ok := index[r.Type]
		if !ok {
			i = len(out)
			index[r.Type] = i
			out = append(out, model.EventTypeCount{Type: r.Type})
		}
		out[i].Count++
	}
	slices.SortStableFunc(out, func(a, b model.EventTypeCount) int {
		switch {
		case a.Count > b.Count:
			return -1
		case a.Count < b.Count:
			return 1
		}
		return 0
	})
	if out == nil {
		out = []model.EventTypeCount{}
	}
	return out
}

// DailyTimeline counts records per calendar day. Only observed days appear.
func (e *Engine) DailyTimeline(records []model.LogRecord) []model.DailyCount {
	counts := make(map[string]int64)
	for _, r := range records {
		key, ok := e.parser.DateKey(r.Timestamp)
		if !ok {
			continue
		}
		counts[key]++
	}

	out := make([]model.DailyCount, 0, len(counts))
	for date, n := range counts {
		out = append(out, model.DailyCount{Date: date, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// HourDayMatrix returns the dense 7x24 grid, weekday-major.
func (e *Engine) HourDayMatrix(records []model.LogRecord) model.HourDayGrid {
	cells := make([]model.HourDayCell, GridCells)
	for d := 0; d < daysPerWeek; d++ {
		for h := 0; h < hoursPerDay; h++ {
			cells[d*hoursPerDay+h] = model.HourDayCell{Weekday: d, Hour: h}
		}
	}

	var max int64
	for _, r := range records {
		t, ok := e.parser.Parse(r.Timestamp)
		if !ok {
			continue
		}
		c := &cells[int(t.Weekday())*hoursPerDay+t.Hour()]
		c.Count++
		if c.Count > max {
			max = c.Count
		}
	}
	return model.HourDayGrid{Cells: cells, Max: max}
}

// MaxTrendDays bounds the dense trend. Wider spans keep the most recent
// MaxTrendDays days ending at the latest timestamp.
const MaxTrendDays = 3660

// DailyTrend returns one row per calendar day between the earliest and
// latest timestamps inclusive, with canonical severity counts. Days without
// records are zero-filled; non-canonical severities are ignored.
func (e *Engine) DailyTrend(records []model.LogRecord) []model.DailyTrendRow {
	type parsed struct {
		day string
		sev logparse.Severity
		ok  bool
	}

	var first, last time.Time
	items := make([]parsed, 0, len(records))
	for _, r := range records {
		t, ok := e.parser.Parse(r.Timestamp)
		if !ok {
			continue
		}
		if len(items) == 0 || t.Before(first) {
			first = t
		}
		if len(items) == 0 || t.After(last) {
			last = t
		}
		sev, known := e.classifier.Classify(r.Severity)
		items = append(items, parsed{day: t.Format(timestamp.DateLayout), sev: sev, ok: known})
	}
	if len(items) == 0 {
		return []model.DailyTrendRow{}
	}

	// Civil dates in UTC: stepping local midnights loops forever in zones
	// where a DST change skips 00:00.
	start := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, time.UTC)
	if earliest := end.AddDate(0, 0, -(MaxTrendDays - 1)); start.Before(earliest) {
		start = earliest
	}

	var rows []model.DailyTrendRow
	index := make(map[string]int)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(timestamp.DateLayout)
		index[key] = len(rows)
		rows = append(rows, model.DailyTrendRow{Date: key})
	}

	for _, it := range items {
		if !it.ok {
			continue
		}
		i, inRange := index[it.day]
		if !inRange {
			continue
		}
		row := &rows[i]
		switch it.sev {
		case logparse.Critical:
			row.Critical++
		case logparse.Error:
			row.Error++
		case logparse.Warning:
			row.Warning++
		case logparse.Info:
			row.Info++
		}
	}
	return rows
}
