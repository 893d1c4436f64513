// Package metrics rolls the full record collection into dashboard counters.
package metrics

import (
	"math"
	"time"

	"github.com/tinytelemetry/secdash/internal/logparse"
	"github.com/tinytelemetry/secdash/internal/model"
	"github.com/tinytelemetry/secdash/internal/timestamp"
)

const (
	// RecentWindow is the trailing window counted as "last hour".
	RecentWindow = time.Hour
	// hourlyDivisor is fixed at one day regardless of the observed span.
	hourlyDivisor = 24
)

// Summarizer computes Summary values.
type Summarizer struct {
	parser     *timestamp.Parser
	classifier *logparse.Classifier
}

// NewSummarizer returns a Summarizer; nil arguments use the defaults.
func NewSummarizer(parser *timestamp.Parser, classifier *logparse.Classifier) *Summarizer {
	if parser == nil {
		parser = timestamp.NewParser()
	}
	if classifier == nil {
		classifier = logparse.Default
	}
	return &Summarizer{parser: parser, classifier: classifier}
}

// Summarize computes counters over records relative to now.
// A record is recent when 0 <= now - timestamp <= RecentWindow.
func (s *Summarizer) Summarize(records []model.LogRecord, now time.Time) model.Summary {
	var sum model.Summary
	sum.Total = int64(len(records))

	var errors int64
	sources := make(map[string]struct{})
	for _, r := range records {
		switch sev, _ := s.classifier.Classify(r.Severity); sev {
		case logparse.Critical:
			sum.CriticalCount++
		case logparse.Error:
			errors++
		}

		if r.Source != "" {
			sources[r.Source] = struct{}{}
		}

		if t, ok := s.parser.Parse(r.Timestamp); ok {
			if d := now.Sub(t); d >= 0 && d <= RecentWindow {
				sum.LastHourCount++
			}
		}
	}

	sum.DistinctSources = int64(len(sources))
	sum.HourlyAverage = roundTenth(float64(sum.Total) / hourlyDivisor)
	sum.CriticalPercent = Percent(sum.CriticalCount, sum.Total)
	sum.ErrorPercent = Percent(errors, sum.Total)
	return sum
}

// Percent returns part/total as a percentage with one decimal place,
// or 0 when total is 0.
func Percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return roundTenth(float64(part) * 100 / float64(total))
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
