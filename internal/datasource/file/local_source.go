// Package file implements a local filesystem-backed data source.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Local is a filesystem data source that opens files from the local disk.
type Local struct{ path string }

// NewLocal returns a new Local data source bound to the provided path.
// The returned value is safe for concurrent use by multiple goroutines.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open opens the configured path for reading.
//
// Behavior:
//   - If the context is already canceled or its deadline exceeded at the
//     time of the call, Open returns the context error immediately without
//     touching the filesystem.
//   - Otherwise the file is opened and handed back as an io.ReadCloser,
//     after hinting the kernel that it will be read sequentially (CSV
//     exports are often multi-GB and profit from wide readahead).
//   - Filesystem errors are wrapped with the path for context while still
//     permitting errors.Is/As checks (e.g., errors.Is(err, os.ErrNotExist)).
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	adviseSequential(f)
	return f, nil
}
