package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/tinytelemetry/secdash/internal/duckdb/migrate"
	"github.com/tinytelemetry/secdash/internal/logparse"
	"github.com/tinytelemetry/secdash/internal/model"
	"github.com/tinytelemetry/secdash/internal/timestamp"
)

// DefaultMaxRows caps the rows returned by ExecuteQuery.
const DefaultMaxRows = 1000

// Options configures a Store.
type Options struct {
	QueryTimeout time.Duration        // defaults to model.DefaultQueryTimeout
	MaxRows      int                  // defaults to DefaultMaxRows
	Location     *time.Location       // wall clock used for ts_local
	Classifier   *logparse.Classifier // fills severity_class
}

// Store is an in-memory DuckDB copy of the current session, used for
// ad-hoc read-only SQL. It never touches disk.
type Store struct {
	db           *sql.DB
	mu           sync.RWMutex
	QueryTimeout time.Duration
	maxRows      int
	parser       *timestamp.Parser
	classifier   *logparse.Classifier
}

// NewStore opens an in-memory database and applies the schema.
func NewStore(opts ...Options) (*Store, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.QueryTimeout <= 0 {
		o.QueryTimeout = model.DefaultQueryTimeout
	}
	if o.MaxRows <= 0 {
		o.MaxRows = DefaultMaxRows
	}
	if o.Classifier == nil {
		o.Classifier = logparse.Default
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("opening duckdb: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), o.QueryTimeout)
	defer cancel()
	if _, err := migrate.NewRunner(db).Run(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating duckdb: %w", err)
	}

	return &Store{
		db:           db,
		QueryTimeout: o.QueryTimeout,
		maxRows:      o.MaxRows,
		parser:       timestamp.NewParser(o.Location),
		classifier:   o.Classifier,
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// queryCtx returns a context with the store's configured query timeout.
func (s *Store) queryCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.QueryTimeout)
}
