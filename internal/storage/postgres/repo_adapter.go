// This adapter wires the Postgres backend into the storage-agnostic factory
// by registering a constructor at init time. Callers obtain a Repository via
// storage.New(...) without importing this package directly.
//
// A DDL bootstrapper is registered alongside the factory so that callers can
// create the destination table based only on storage kind and the inferred
// table definition, without branching on the backend themselves.
package postgres

import (
	"context"
	"fmt"

	"github.com/lef237/ctj/internal/schema"
	"github.com/lef237/ctj/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
// Tests may replace this variable to avoid real DB connections.
var newRepository = NewRepository

// wrappedRepo implements storage.Repository by delegating to the concrete
// *postgres.Repository while providing a Close method that calls the close
// function returned by NewRepository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Ensure wrappedRepo satisfies storage.Repository at compile time.
var _ storage.Repository = (*wrappedRepo)(nil)

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

// init registers the "postgres" backend with the storage factory and a DDL
// bootstrapper for the same kind. This keeps the wiring in one place and
// allows callers to remain backend-agnostic.
func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
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

	storage.RegisterDDL("postgres",
		func(ctx context.Context, repo storage.Repository, td schema.TableDef) error {
			sql, err := createTableSQL(td)
			if err != nil {
				return fmt.Errorf("render DDL: %w", err)
			}
			if err := repo.Exec(ctx, sql); err != nil {
				return fmt.Errorf("apply DDL: %w", err)
			}
			return nil
		})
}
