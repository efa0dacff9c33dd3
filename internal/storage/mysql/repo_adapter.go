// This adapter wires the MySQL backend into the storage-agnostic factory.
// Registration happens in init; callers obtain a Repository via
// storage.New(...) without importing this package directly.
package mysql

import (
	"context"
	"fmt"

	"github.com/lef237/ctj/internal/schema"
	"github.com/lef237/ctj/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
// Tests may replace this variable to avoid real DB connections.
var newRepository = NewRepository

// wrappedRepo adapts *mysql.Repository to storage.Repository and provides Close.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

var _ storage.Repository = (*wrappedRepo)(nil)

// Close closes the underlying connection pool.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

// init registers the "mysql" backend and its DDL bootstrapper with the factory.
func init() {
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{
			DSN:     cfg.DSN,
			Table:   cfg.Table,
			Columns: cfg.Columns,
		})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("mysql",
		func(ctx context.Context, repo storage.Repository, td schema.TableDef) error {
			sql, err := createTableSQL(td)
			if err != nil {
				return fmt.Errorf("render DDL: %w", err)
			}
			return repo.Exec(ctx, sql)
		})
}
