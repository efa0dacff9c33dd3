// Package mysql implements a MySQL-backed storage.Repository using
// database/sql. Bulk loads use multi-row INSERT statements inside a
// transaction, the fastest generally-available path short of LOAD DATA.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Config holds MySQL repository configuration.
type Config struct {
	DSN     string   // go-sql-driver DSN, e.g. "user:pass@tcp(127.0.0.1:3306)/db"
	Table   string   // target table name, e.g. "people"
	Columns []string // ordered destination columns
}

// insertChunk caps rows per multi-row INSERT to keep each statement well
// under max_allowed_packet.
const insertChunk = 500

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository validates the DSN early, opens a pool, and returns a
// Repository plus a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if _, err := mysql.ParseDSN(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("mysql dsn: %w", err)
	}
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	closeFn := func() { _ = db.Close() }
	return &Repository{db: db, cfg: cfg}, closeFn, nil
}

// CopyFrom inserts rows into the configured table in chunked multi-row
// INSERTs within one transaction. It returns the number of rows reported as
// inserted; a failure rolls the whole transaction back.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("mysql: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mysql: begin tx: %w", err)
	}

	var inserted int64
	for start := 0; start < len(rows); start += insertChunk {
		end := start + insertChunk
		if end > len(rows) {
			end = len(rows)
		}

		stmtSQL, args, err := buildInsert(r.cfg.Table, columns, rows[start:end])
		if err != nil {
			_ = tx.Rollback()
			return inserted, err
		}
		res, err := tx.ExecContext(ctx, stmtSQL, args...)
		if err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("mysql: insert rows %d..%d: %w", start, end-1, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("mysql: rows affected: %w", err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("mysql: commit: %w", err)
	}
	return inserted, nil
}

// Exec executes an arbitrary SQL statement (typically DDL).
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	_, err := r.db.ExecContext(ctx, sqlText)
	return err
}

// buildInsert renders one multi-row INSERT statement and its flattened
// argument list.
func buildInsert(table string, columns []string, rows [][]any) (string, []any, error) {
	ph := make([]string, len(columns))
	for i := range ph {
		ph[i] = "?"
	}
	tuple := "(" + strings.Join(ph, ", ") + ")"

	tuples := make([]string, 0, len(rows))
	args := make([]any, 0, len(rows)*len(columns))
	for _, row := range rows {
		if len(row) != len(columns) {
			return "", nil, fmt.Errorf("mysql: CopyFrom: row length %d != columns length %d", len(row), len(columns))
		}
		tuples = append(tuples, tuple)
		args = append(args, row...)
	}

	stmt := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES %s",
		myFQN(table),
		strings.Join(mapIdent(columns), ", "),
		strings.Join(tuples, ", "),
	)
	return stmt, args, nil
}

// myIdent quotes a single identifier with backticks, escaping embedded
// backticks.
func myIdent(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }

// myFQN quotes a possibly dotted name like "db.people" segment by segment.
func myFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	for i, p := range parts {
		parts[i] = myIdent(p)
	}
	return strings.Join(parts, ".")
}

// mapIdent maps a list of column names to their quoted forms.
func mapIdent(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = myIdent(c)
	}
	return out
}
