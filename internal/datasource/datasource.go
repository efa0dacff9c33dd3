// Package datasource defines where input bytes come from. Concrete
// sources live in subpackages (file, httpds); the converter and loader
// only ever see the Source interface.
package datasource

import (
	"context"
	"io"
	"os"
)

// Source yields a byte stream for one input.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Stdin is a Source reading the process standard input. Close is a no-op
// so pipelines can treat it like any file-backed source.
type Stdin struct{}

// Open returns standard input behind a no-op closer, honoring an already
// canceled context.
func (Stdin) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return io.NopCloser(os.Stdin), nil
}
