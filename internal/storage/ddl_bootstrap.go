package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/lef237/ctj/internal/schema"
)

// DDLBootstrapper is a backend-specific function that renders the table
// definition in the backend's dialect and applies it via repo.Exec
// (typically CREATE TABLE IF NOT EXISTS or an equivalent guard).
//
// Backends register their implementation for a given storage kind at init
// time, next to their Repository factory.
type DDLBootstrapper func(ctx context.Context, repo Repository, td schema.TableDef) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) a DDLBootstrapper for the given
// storage kind. It is typically called from backend packages' init()
// functions.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureTable locates the DDLBootstrapper for kind and invokes it. Callers
// do not need to know which backend they are using; they pass the inferred
// table definition and the already-open Repository.
func EnsureTable(ctx context.Context, kind string, repo Repository, td schema.TableDef) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", kind)
	}
	return fn(ctx, repo, td)
}
