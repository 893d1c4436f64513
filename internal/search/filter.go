// Package search holds the single predicate used to narrow the record
// collection for the table, every chart and the CSV export.
package search

import (
	"strings"

	"github.com/tinytelemetry/secdash/internal/model"
)

// Matcher is a case-insensitive substring predicate over all record fields.
type Matcher struct {
	needle string
}

// NewMatcher builds a matcher for term.
func NewMatcher(term string) Matcher {
	return Matcher{needle: strings.ToLower(term)}
}

// Empty reports whether the matcher accepts every record.
func (m Matcher) Empty() bool {
	return m.needle == ""
}

// Match reports whether any field of r contains the term.
func (m Matcher) Match(r model.LogRecord) bool {
	if m.needle == "" {
		return true
	}
	for _, f := range r.Fields() {
		if strings.Contains(strings.ToLower(f), m.needle) {
			return true
		}
	}
	return false
}

// Filter returns the records matching term in their original order.
// An empty term returns records unchanged.
func Filter(records []model.LogRecord, term string) []model.LogRecord {
	m := NewMatcher(term)
	if m.Empty() {
		return records
	}
	out := make([]model.LogRecord, 0, len(records)/4)
	for _, r := range records {
		if m.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
