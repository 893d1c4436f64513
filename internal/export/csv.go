// Package export writes the filtered record set as CSV.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tinytelemetry/secdash/internal/model"
)

// Header is the first row of every export.
const Header = "Timestamp,Tipo,Origen,Mensaje,Severidad"

// ContentType is the media type of the export.
const ContentType = "text/csv; charset=utf-8"

const fileNameLayout = "2006-01-02_15-04"

// FileName returns the download name for an export generated at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("logs_filtrados_%s.csv", t.Format(fileNameLayout))
}

// WriteCSV writes the header and one row per record. Rows are separated by
// a single newline with none after the last row. The message is always
// quoted; other fields are quoted only when they contain a comma, a quote,
// or a line break.
func WriteCSV(w io.Writer, records []model.LogRecord) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range records {
		row := strings.Join([]string{
			field(r.Timestamp),
			field(r.Type),
			field(r.Source),
			quote(r.Message),
			field(r.Severity),
		}, ",")
		if _, err := bw.WriteString("\n" + row); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing export: %w", err)
	}
	return nil
}

// Render returns the export as a string.
func Render(records []model.LogRecord) string {
	var b strings.Builder
	_ = WriteCSV(&b, records)
	return b.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func field(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(s)
	}
	return s
}
