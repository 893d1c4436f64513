package model

import "time"

// LogRecord represents a single security log entry used across the system.
// All five fields are kept exactly as parsed; derivations never mutate them.
type LogRecord struct {
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Source    string `json:"source"`
	Message   string `json:"message"`
	Severity  string `json:"severity"`
}

// Fields returns the record values in column order.
func (r LogRecord) Fields() [5]string {
	return [5]string{r.Timestamp, r.Type, r.Source, r.Message, r.Severity}
}

// SeverityCount is one slice of the severity distribution.
type SeverityCount struct {
	Key   string `json:"key"`   // case-folded severity
	Label string `json:"label"` // capitalized display label
	Count int64  `json:"count"`
	Color string `json:"color"`
}

// EventTypeCount represents grouped counts by raw event type.
type EventTypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// DailyCount represents the number of records observed on one calendar day.
type DailyCount struct {
	Date  string `json:"date"` // yyyy-MM-dd
	Count int64  `json:"count"`
}

// HourDayCell is one slot of the hour x weekday grid.
type HourDayCell struct {
	Weekday int   `json:"weekday"` // 0=Sunday..6=Saturday
	Hour    int   `json:"hour"`
	Count   int64 `json:"count"`
}

// HourDayGrid is the dense 7x24 heatmap with its peak value.
type HourDayGrid struct {
	Cells []HourDayCell `json:"cells"`
	Max   int64         `json:"max"`
}

// DailyTrendRow represents canonical severity counts for one calendar day.
type DailyTrendRow struct {
	Date     string `json:"date"`
	Critical int64  `json:"critical"`
	Error    int64  `json:"error"`
	Warning  int64  `json:"warning"`
	Info     int64  `json:"info"`
}

// Total returns the sum of the four severity series.
func (r DailyTrendRow) Total() int64 {
	return r.Critical + r.Error + r.Warning + r.Info
}

// Summary holds the dashboard-level counters.
type Summary struct {
	Total           int64   `json:"total"`
	CriticalCount   int64   `json:"criticalCount"`
	LastHourCount   int64   `json:"lastHourCount"`
	DistinctSources int64   `json:"distinctSources"`
	HourlyAverage   float64 `json:"hourlyAverage"`
	CriticalPercent float64 `json:"criticalPercent"`
	ErrorPercent    float64 `json:"errorPercent"`
}

// LoadReport describes the outcome of one file load.
type LoadReport struct {
	LoadID     string    `json:"loadId"`
	FileName   string    `json:"fileName"`
	MediaType  string    `json:"mediaType"`
	TotalLines int       `json:"totalLines"`
	Accepted   int       `json:"accepted"`
	Rejected   int       `json:"rejected"`
	Blank      int       `json:"blank"`
	LoadedAt   time.Time `json:"loadedAt"`
}

// Dashboard bundles every derived view for one search term.
type Dashboard struct {
	Term       string           `json:"term"`
	Summary    Summary          `json:"summary"`
	Severity   []SeverityCount  `json:"severity"`
	EventTypes []EventTypeCount `json:"eventTypes"`
	Timeline   []DailyCount     `json:"timeline"`
	Heatmap    HourDayGrid      `json:"heatmap"`
	Trend      []DailyTrendRow  `json:"trend"`
	Records    []LogRecord      `json:"records"`
	Matched    int              `json:"matched"`
}
