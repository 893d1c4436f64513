package aggregate

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/tinytelemetry/secdash/internal/logparse"
	"github.com/tinytelemetry/secdash/internal/model"
	"github.com/tinytelemetry/secdash/internal/timestamp"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return New(timestamp.NewParser(time.UTC), logparse.Default)
}

func rec(ts, typ, sev string) model.LogRecord {
	return model.LogRecord{Timestamp: ts, Type: typ, Source: "src", Message: "m", Severity: sev}
}

var sample = []model.LogRecord{
	{Timestamp: "2024-03-20T10:00:00", Type: "AUTH", Source: "10.0.0.1", Message: "Failed login", Severity: "critical"},
	{Timestamp: "2024-03-20T11:30:00", Type: "SYSTEM", Source: "fw", Message: "Config change", Severity: "info"},
}

func TestSeverityDistribution_Sample(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	got := e.SeverityDistribution(sample)
	want := []model.SeverityCount{
		{Key: "critical", Label: "Critical", Count: 1, Color: "#dc2626"},
		{Key: "info", Label: "Info", Count: 1, Color: "#3b82f6"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SeverityDistribution = %+v, want %+v", got, want)
	}
}

func TestSeverityDistribution_FoldsAndFallsBack(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	records := []model.LogRecord{
		rec("2024-01-01", "A", "Debug"),
		rec("2024-01-01", "A", "CRITICAL"),
		rec("2024-01-01", "A", "debug"),
		rec("2024-01-01", "A", "alto"),
		rec("2024-01-01", "A", "Notice"),
		rec("2024-01-01", "A", ""),
	}
	got := e.SeverityDistribution(records)

	wantKeys := []string{"critical", "debug", "notice", ""}
	if len(got) != len(wantKeys) {
		t.Fatalf("got %d groups (%+v), want %d", len(got), got, len(wantKeys))
	}
	for i, k := range wantKeys {
		if got[i].Key != k {
			t.Errorf("group %d key = %q, want %q", i, got[i].Key, k)
		}
	}
	if got[0].Count != 2 {
		t.Errorf("critical count = %d, want 2 (alto folds in)", got[0].Count)
	}
	if got[1].Label != "Debug" || got[1].Count != 2 {
		t.Errorf("debug group = %+v, want label Debug count 2", got[1])
	}
	if got[1].Color != EventColors[1] || got[2].Color != EventColors[2] {
		t.Errorf("fallback colors = %q, %q; want positional palette", got[1].Color, got[2].Color)
	}
	if got[3].Label != "Unknown" {
		t.Errorf("empty severity label = %q, want Unknown", got[3].Label)
	}
}

func TestSeverityDistribution_SumEqualsLength(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	records := randomRecords(rand.New(rand.NewSource(7)), 500)
	var sum int64
	for _, g := range e.SeverityDistribution(records) {
		sum += g.Count
	}
	if sum != int64(len(records)) {
		t.Fatalf("sum = %d, want %d", sum, len(records))
	}
}

func TestEventTypeDistribution(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	if got := e.EventTypeDistribution(sample); !reflect.DeepEqual(got, []model.EventTypeCount{{Type: "AUTH", Count: 1}, {Type: "SYSTEM", Count: 1}}) {
		t.Fatalf("sample = %+v", got)
	}

	records := []model.LogRecord{
		rec("t", "NET", "info"),
		rec("t", "auth", "info"),
		rec("t", "AUTH", "info"),
		rec("t", "AUTH", "info"),
		rec("t", "auth", "info"),
		rec("t", "FILE", "info"),
	}
	got := e.EventTypeDistribution(records)
	want := []model.EventTypeCount{{Type: "auth", Count: 2}, {Type: "AUTH", Count: 2}, {Type: "NET", Count: 1}, {Type: "FILE", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("EventTypeDistribution = %+v, want %+v", got, want)
	}

	if got := e.EventTypeDistribution(nil); got == nil || len(got) != 0 {
		t.Fatalf("empty input = %#v, want empty slice", got)
	}
}

func TestDailyTimeline(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	if got := e.DailyTimeline(sample); !reflect.DeepEqual(got, []model.DailyCount{{Date: "2024-03-20", Count: 2}}) {
		t.Fatalf("sample = %+v", got)
	}

	records := []model.LogRecord{
		rec("2024-03-25T08:00:00", "A", "info"),
		rec("2024-03-20T23:59:59", "A", "info"),
		rec("not a time", "A", "info"),
		rec("2024-03-25T18:00:00Z", "A", "info"),
	}
	got := e.DailyTimeline(records)
	want := []model.DailyCount{{Date: "2024-03-20", Count: 1}, {Date: "2024-03-25", Count: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DailyTimeline = %+v, want sparse %+v", got, want)
	}

	if got := e.DailyTimeline(nil); len(got) != 0 {
		t.Fatalf("empty input = %+v", got)
	}
}

func TestDailyTimeline_UsesDisplayLocation(t *testing.T) {
	t.Parallel()

	e := New(timestamp.NewParser(time.FixedZone("UTC+3", 3*3600)), nil)
	got := e.DailyTimeline([]model.LogRecord{rec("2024-03-20T22:30:00Z", "A", "info")})
	if len(got) != 1 || got[0].Date != "2024-03-21" {
		t.Fatalf("DailyTimeline = %+v, want 2024-03-21 in UTC+3", got)
	}
}

func TestHourDayMatrix(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	// 2024-03-20 is a Wednesday.
	grid := e.HourDayMatrix(sample)
	if len(grid.Cells) != GridCells {
		t.Fatalf("cells = %d, want %d", len(grid.Cells), GridCells)
	}
	if c := grid.Cells[3*24+10]; c.Weekday != 3 || c.Hour != 10 || c.Count != 1 {
		t.Errorf("wed 10h = %+v", c)
	}
	if c := grid.Cells[3*24+11]; c.Count != 1 {
		t.Errorf("wed 11h = %+v", c)
	}
	if grid.Max != 1 {
		t.Errorf("max = %d, want 1", grid.Max)
	}

	empty := e.HourDayMatrix(nil)
	if len(empty.Cells) != GridCells || empty.Max != 0 {
		t.Fatalf("empty grid = %d cells, max %d", len(empty.Cells), empty.Max)
	}
	for i, c := range empty.Cells {
		if c.Weekday != i/24 || c.Hour != i%24 || c.Count != 0 {
			t.Fatalf("cell %d = %+v", i, c)
		}
	}
}

func TestHourDayMatrix_SumEqualsLength(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	for seed := int64(1); seed <= 5; seed++ {
		records := randomRecords(rand.New(rand.NewSource(seed)), int(seed)*97)
		grid := e.HourDayMatrix(records)
		if len(grid.Cells) != GridCells {
			t.Fatalf("seed %d: cells = %d", seed, len(grid.Cells))
		}
		var sum int64
		for _, c := range grid.Cells {
			sum += c.Count
		}
		if sum != int64(len(records)) {
			t.Fatalf("seed %d: sum = %d, want %d", seed, sum, len(records))
		}
	}
}

func TestDailyTrend(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	records := []model.LogRecord{
		rec("2024-03-23T09:00:00", "A", "Warning"),
		rec("2024-03-20T10:00:00", "A", "critical"),
		rec("2024-03-20T12:00:00", "A", "debug"),
		rec("2024-03-23T23:00:00", "A", "ERROR"),
		rec("2024-03-21T01:00:00", "A", "bajo"),
	}
	got := e.DailyTrend(records)
	want := []model.DailyTrendRow{
		{Date: "2024-03-20", Critical: 1},
		{Date: "2024-03-21", Info: 1},
		{Date: "2024-03-22"},
		{Date: "2024-03-23", Error: 1, Warning: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DailyTrend = %+v, want %+v", got, want)
	}

	if got := e.DailyTrend(nil); got == nil || len(got) != 0 {
		t.Fatalf("empty input = %#v, want empty slice", got)
	}
	if got := e.DailyTrend([]model.LogRecord{rec("garbage", "A", "info")}); len(got) != 0 {
		t.Fatalf("unparseable only = %+v, want empty", got)
	}
}

func TestDailyTrend_DenseAscending(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	records := randomRecords(rand.New(rand.NewSource(42)), 300)
	rows := e.DailyTrend(records)
	if len(rows) == 0 {
		t.Fatal("expected rows")
	}
	for i := 1; i < len(rows); i++ {
		prev, _ := time.Parse(timestamp.DateLayout, rows[i-1].Date)
		cur, _ := time.Parse(timestamp.DateLayout, rows[i].Date)
		if cur.Sub(prev) != 24*time.Hour {
			t.Fatalf("rows %d/%d not consecutive: %s -> %s", i-1, i, rows[i-1].Date, rows[i].Date)
		}
	}
	var canonical int64
	for _, r := range records {
		if _, ok := logparse.Default.Classify(r.Severity); ok {
			canonical++
		}
	}
	var sum int64
	for _, row := range rows {
		sum += row.Total()
	}
	if sum != canonical {
		t.Fatalf("trend total = %d, want %d canonical records", sum, canonical)
	}
}

func TestDailyTrend_SingleDay(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	rows := e.DailyTrend([]model.LogRecord{rec("2024-02-29T05:00:00", "A", "info")})
	if len(rows) != 1 || rows[0].Date != "2024-02-29" || rows[0].Info != 1 {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestDailyTrend_SkippedMidnight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		zone     string
		from, to string
		want     []string
	}{
		// DST started at 00:00 on 2018-11-04, so that midnight does not exist.
		{"America/Sao_Paulo", "2018-11-03T12:00:00", "2018-11-05T12:00:00", []string{"2018-11-03", "2018-11-04", "2018-11-05"}},
		{"America/Havana", "2019-03-09T12:00:00", "2019-03-11T12:00:00", []string{"2019-03-09", "2019-03-10", "2019-03-11"}},
	}

	for _, tt := range tests {
		t.Run(tt.zone, func(t *testing.T) {
			t.Parallel()

			loc, err := time.LoadLocation(tt.zone)
			if err != nil {
				t.Skipf("zone data unavailable: %v", err)
			}
			e := New(timestamp.NewParser(loc), nil)

			done := make(chan []model.DailyTrendRow, 1)
			go func() {
				done <- e.DailyTrend([]model.LogRecord{
					rec(tt.from, "A", "info"),
					rec(tt.to, "A", "critical"),
				})
			}()

			var rows []model.DailyTrendRow
			select {
			case rows = <-done:
			case <-time.After(3 * time.Second):
				t.Fatal("DailyTrend did not return")
			}

			if len(rows) != len(tt.want) {
				t.Fatalf("rows = %+v, want dates %v", rows, tt.want)
			}
			for i, d := range tt.want {
				if rows[i].Date != d {
					t.Fatalf("rows[%d].Date = %s, want %s", i, rows[i].Date, d)
				}
			}
			if rows[0].Info != 1 || rows[2].Critical != 1 {
				t.Fatalf("counts landed on wrong days: %+v", rows)
			}
		})
	}
}

func TestDailyTrend_SpanIsCapped(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	rows := e.DailyTrend([]model.LogRecord{
		rec("0001-01-01T00:00:00", "A", "info"),
		rec("9999-12-31T12:00:00", "A", "critical"),
	})
	if len(rows) != MaxTrendDays {
		t.Fatalf("rows = %d, want cap %d", len(rows), MaxTrendDays)
	}
	if last := rows[len(rows)-1]; last.Date != "9999-12-31" || last.Critical != 1 {
		t.Fatalf("last row = %+v, want the latest day", last)
	}
	wantFirst := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(MaxTrendDays - 1))
	if rows[0].Date != wantFirst.Format(timestamp.DateLayout) {
		t.Fatalf("first row = %s, want %s", rows[0].Date, wantFirst.Format(timestamp.DateLayout))
	}
	var total int64
	for _, r := range rows {
		total += r.Total()
	}
	if total != 1 {
		t.Fatalf("total = %d, records before the window should be dropped", total)
	}
}

func TestAggregationsDoNotMutateInput(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	records := randomRecords(rand.New(rand.NewSource(3)), 50)
	before := append([]model.LogRecord(nil), records...)
	e.SeverityDistribution(records)
	e.EventTypeDistribution(records)
	e.DailyTimeline(records)
	e.HourDayMatrix(records)
	e.DailyTrend(records)
	if !reflect.DeepEqual(before, records) {
		t.Fatal("input records were modified")
	}
}

func randomRecords(r *rand.Rand, n int) []model.LogRecord {
	severities := []string{"critical", "error", "warning", "info", "Debug", "CRITICAL", "weird"}
	types := []string{"AUTH", "SYSTEM", "NET", "FILE"}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.LogRecord, n)
	for i := range out {
		ts := base.Add(time.Duration(r.Intn(60*24*60)) * time.Minute)
		out[i] = model.LogRecord{
			Timestamp: ts.Format("2006-01-02T15:04:05"),
			Type:      types[r.Intn(len(types))],
			Source:    fmt.Sprintf("10.0.0.%d", r.Intn(20)),
			Message:   "event",
			Severity:  severities[r.Intn(len(severities))],
		}
	}
	return out
}
