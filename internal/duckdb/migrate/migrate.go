package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var embedded embed.FS

// Migration is one versioned schema step, named NNN_description.sql.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Runner applies embedded migrations to the mirror database.
type Runner struct {
	db     *sql.DB
	source fs.FS
}

// NewRunner creates a runner over the embedded migrations.
func NewRunner(db *sql.DB) *Runner {
	return &Runner{db: db, source: embedded}
}

// Migrations returns the embedded migrations in version order.
func (r *Runner) Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(r.source, "migrations")
	if err != nil {
		return nil, fmt.Errorf("listing migrations: %w", err)
	}

	var out []Migration
	seen := make(map[int]string)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		prefix, _, ok := strings.Cut(e.Name(), "_")
		if !ok {
			continue
		}
		ver, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("migration %s: bad version prefix: %w", e.Name(), err)
		}
		if other, dup := seen[ver]; dup {
			return nil, fmt.Errorf("migrations %s and %s share version %d", other, e.Name(), ver)
		}
		seen[ver] = e.Name()

		body, err := fs.ReadFile(r.source, path.Join("migrations", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		out = append(out, Migration{Version: ver, Name: e.Name(), SQL: string(body)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func (r *Runner) ensureTable(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		name       VARCHAR NOT NULL,
		applied_at TIMESTAMP DEFAULT current_timestamp
	)`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}
	return nil
}

// Current returns the highest applied version, 0 when none.
func (r *Runner) Current(ctx context.Context) (int, error) {
	if err := r.ensureTable(ctx); err != nil {
		return 0, err
	}
	var v sql.NullInt64
	if err := r.db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading applied version: %w", err)
	}
	return int(v.Int64), nil
}

// Run applies pending migrations, each in its own transaction, and returns
// how many were applied.
func (r *Runner) Run(ctx context.Context) (int, error) {
	migs, err := r.Migrations()
	if err != nil {
		return 0, err
	}
	current, err := r.Current(ctx)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, m := range migs {
		if m.Version <= current {
			continue
		}
		if err := r.apply(ctx, m); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

func (r *Runner) apply(ctx context.Context, m Migration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s: %w", m.Name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("executing %s: %w", m.Name, err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
		return fmt.Errorf("recording %s: %w", m.Name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", m.Name, err)
	}
	return nil
}

// Pending returns the number of migrations not yet applied.
func (r *Runner) Pending(ctx context.Context) (int, error) {
	migs, err := r.Migrations()
	if err != nil {
		return 0, err
	}
	current, err := r.Current(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, m := range migs {
		if m.Version > current {
			n++
		}
	}
	return n, nil
}
