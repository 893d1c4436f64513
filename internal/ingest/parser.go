package ingest

import (
	"encoding/csv"
	"strings"

	"github.com/tinytelemetry/secdash/internal/model"
)

// Delimiter separates the five record fields.
const Delimiter = ','

// Header is the expected column order. The first line of a file is
// consumed without being checked against it.
var Header = []string{"timestamp", "type", "source", "message", "severity"}

// Result is the output of one parse.
type Result struct {
	Records    []model.LogRecord
	TotalLines int // data lines after the header, blank lines excluded
	Accepted   int
	Rejected   int
	Blank      int
	Delimited  bool
	MediaType  string
}

// Parse converts raw file content into records. It never fails: malformed
// lines are counted as rejected and a file without any delimiter yields no
// records with Delimited set to false.
func Parse(content string) Result {
	content = strings.TrimPrefix(content, "\ufeff")
	lines := strings.Split(content, "\n")

	var res Result
	if len(lines) > 0 && strings.ContainsRune(lines[0], Delimiter) {
		res.Delimited = true
	}
	if len(lines) <= 1 {
		return res
	}

	records := make([]model.LogRecord, 0, len(lines)-1)
	for _, line := range lines[1:] {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			res.Blank++
			continue
		}
		res.TotalLines++
		if strings.ContainsRune(line, Delimiter) {
			res.Delimited = true
		}

		rec, ok := Validate(SplitLine(line))
		if !ok {
			res.Rejected++
			continue
		}
		records = append(records, rec)
	}

	if !res.Delimited {
		res.Rejected = res.TotalLines
		return res
	}
	res.Accepted = len(records)
	res.Records = records
	return res
}

// Validate maps fields positionally onto a record. Missing trailing fields
// default to empty; fields past the fifth are ignored. A record without a
// timestamp is rejected.
func Validate(fields []string) (model.LogRecord, bool) {
	var f [5]string
	for i := 0; i < len(f) && i < len(fields); i++ {
		f[i] = strings.TrimSpace(fields[i])
	}
	if f[0] == "" {
		return model.LogRecord{}, false
	}
	return model.LogRecord{
		Timestamp: f[0],
		Type:      f[1],
		Source:    f[2],
		Message:   f[3],
		Severity:  f[4],
	}, true
}

// SplitLine splits one line on the delimiter. Double-quoted fields may
// contain the delimiter and doubled quotes. A line whose quoting cannot be
// read falls back to a plain split.
func SplitLine(line string) []string {
	if !strings.ContainsRune(line, '"') {
		return strings.Split(line, string(Delimiter))
	}

	r := csv.NewReader(strings.NewReader(line))
	r.Comma = Delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	fields, err := r.Read()
	if err != nil {
		return strings.Split(line, string(Delimiter))
	}
	return fields
}
