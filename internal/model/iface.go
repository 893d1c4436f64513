package model

// RecordMirror receives a full copy of the collection after each successful load.
type RecordMirror interface {
	ReplaceRecords(records []LogRecord) error
}

// SchemaQuerier provides schema introspection and arbitrary read-only queries.
type SchemaQuerier interface {
	ExecuteQuery(query string) ([]map[string]interface{}, error)
	GetSchemaDescription() string
	TableRowCounts() (map[string]int64, error)
}
