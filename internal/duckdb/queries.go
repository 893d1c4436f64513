package duckdb

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
)

// ErrQueryRejected is returned for SQL that is not a single read-only statement.
var ErrQueryRejected = errors.New("query rejected")

// dangerousKeywordPattern matches write or side-effect keywords at word boundaries,
// so "RESET" does not match "SET".
var dangerousKeywordPattern = regexp.MustCompile(
	`(?i)\b(INSERT|UPDATE|DELETE|DROP|CREATE|ALTER|TRUNCATE|COPY|ATTACH|DETACH|LOAD|EXPORT|IMPORT|INSTALL|CALL|EXECUTE|PRAGMA|SET|CHECKPOINT)\b`,
)

// fileFunctionPattern matches table functions that read the filesystem.
var fileFunctionPattern = regexp.MustCompile(`(?i)\b(read_\w+|glob|parquet_\w+)\s*\(`)

var blockCommentPattern = regexp.MustCompile(`/\*[\s\S]*?\*/`)

// stripSQLComments removes -- line comments and /* */ block comments.
func stripSQLComments(query string) string {
	cleaned := blockCommentPattern.ReplaceAllString(query, " ")
	var b strings.Builder
	for _, line := range strings.Split(cleaned, "\n") {
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// ValidateQuery checks that query is a single SELECT/WITH statement.
func ValidateQuery(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return fmt.Errorf("%w: empty query", ErrQueryRejected)
	}
	if strings.Contains(trimmed, ";") {
		return fmt.Errorf("%w: query must not contain semicolons", ErrQueryRejected)
	}

	stripped := strings.TrimSpace(stripSQLComments(trimmed))
	upper := strings.ToUpper(stripped)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return fmt.Errorf("%w: only SELECT/WITH queries are allowed", ErrQueryRejected)
	}
	if match := dangerousKeywordPattern.FindString(stripped); match != "" {
		return fmt.Errorf("%w: disallowed keyword %s", ErrQueryRejected, strings.ToUpper(match))
	}
	if match := fileFunctionPattern.FindStringSubmatch(stripped); match != nil {
		return fmt.Errorf("%w: disallowed function %s", ErrQueryRejected, match[1])
	}
	return nil
}

// ExecuteQuery runs a read-only SQL query and returns at most maxRows rows.
func (s *Store) ExecuteQuery(query string) ([]map[string]interface{}, error) {
	if err := ValidateQuery(query); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()
	rows, err := s.db.QueryContext(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := make([]map[string]interface{}, 0)
	for rows.Next() && len(results) < s.maxRows {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			log.Printf("duckdb: scan error (ExecuteQuery): %v", err)
			continue
		}
		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetSchemaDescription returns a human-readable description of the queryable tables.
func (s *Store) GetSchemaDescription() string {
	return `Table 'logs': seq (BIGINT, input order), raw_timestamp (VARCHAR, as uploaded), ` +
		`ts_local (TIMESTAMP, display-timezone wall clock, NULL when unparseable), ` +
		`event_type (VARCHAR), source (VARCHAR), message (VARCHAR), severity (VARCHAR, as uploaded), ` +
		`severity_class (VARCHAR: critical/error/warning/info or the lower-cased label). ` +
		`View 'daily_severity': day, critical_count, error_count, warning_count, info_count, total_count. ` +
		`View 'hour_weekday': weekday (0=Sunday), hour_of_day, event_count.`
}

// TableRowCounts returns the row count for each known table.
func (s *Store) TableRowCounts() (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	// Table names are constants, not user input.
	tables := []string{"logs"}
	counts := make(map[string]int64, len(tables))
	for _, table := range tables {
		var n int64
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("counting %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
