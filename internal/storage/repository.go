// Package storage contains storage-agnostic contracts and the backend
// factory. Concrete backends (postgres, mysql, mssql, sqlite) register a
// constructor at init time; callers obtain a Repository via New without
// importing any backend directly.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Repository is the write-side contract every backend implements.
//
//   - CopyFrom bulk-inserts rows aligned to 'columns' order and returns the
//     number of rows reported as inserted.
//   - Exec runs an arbitrary SQL statement, typically DDL.
//   - Close releases the underlying pool or connection.
type Repository interface {
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)
	Exec(ctx context.Context, sql string) error
	Close()
}

// Config carries everything a backend needs to open a Repository. Kind
// selects the backend; the remaining fields are interpreted by it.
type Config struct {
	Kind    string
	DSN     string
	Table   string
	Columns []string
}

// Factory constructs a Repository for one backend kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for the given storage kind.
// It is typically called from backend packages' init() functions.
func Register(kind string, fn Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = fn
}

// New opens a Repository for cfg.Kind. Unregistered kinds are an error;
// blank-import the backend package (or storage/all) to make a kind
// available.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	fn, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return fn(ctx, cfg)
}

// ListKinds returns a sorted snapshot of the registered backend kinds.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
