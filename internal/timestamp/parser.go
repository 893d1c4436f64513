package timestamp

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-day key format used by every daily view.
const DateLayout = "2006-01-02"

// Layouts carrying an explicit offset. Fractional seconds are accepted by
// time.Parse even when the layout omits them.
var zonedLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z0700",
	time.RFC1123Z,
}

// Layouts without an offset are interpreted in the parser's location.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	DateLayout,
}

// Parser converts ISO-8601-like timestamps into instants in a display location.
type Parser struct {
	loc *time.Location
}

// NewParser returns a parser for loc (time.Local when omitted or nil).
func NewParser(loc ...*time.Location) *Parser {
	l := time.Local
	if len(loc) > 0 && loc[0] != nil {
		l = loc[0]
	}
	return &Parser{loc: l}
}

// Location returns the display location.
func (p *Parser) Location() *time.Location {
	return p.loc
}

// Parse parses a timestamp string. The result is expressed in the display
// location so calendar fields (day, weekday, hour) are local.
func (p *Parser) Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if isDigits(s) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return p.fromUnix(float64(n)), true
		}
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(p.loc), true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, p.loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseTimestamp parses a string, numeric epoch, or time.Time value.
func (p *Parser) ParseTimestamp(v interface{}) (time.Time, bool) {
	switch val := v.(type) {
	case string:
		return p.Parse(val)
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return val.In(p.loc), true
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) || val <= 0 {
			return time.Time{}, false
		}
		return p.fromUnix(val), true
	case int64:
		if val <= 0 {
			return time.Time{}, false
		}
		return p.fromUnix(float64(val)), true
	case int:
		if val <= 0 {
			return time.Time{}, false
		}
		return p.fromUnix(float64(val)), true
	}
	return time.Time{}, false
}

// DateKey formats the calendar day of s in the display location.
func (p *Parser) DateKey(s string) (string, bool) {
	t, ok := p.Parse(s)
	if !ok {
		return "", false
	}
	return t.Format(DateLayout), true
}

// fromUnix picks the epoch unit by magnitude: seconds below 1e11,
// milliseconds below 1e14, microseconds below 1e17, nanoseconds above.
func (p *Parser) fromUnix(v float64) time.Time {
	var t time.Time
	switch {
	case v < 1e11:
		sec, frac := math.Modf(v)
		t = time.Unix(int64(sec), int64(frac*1e9))
	case v < 1e14:
		t = time.UnixMilli(int64(v))
	case v < 1e17:
		t = time.UnixMicro(int64(v))
	default:
		t = time.Unix(0, int64(v))
	}
	return t.In(p.loc)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 8
}
