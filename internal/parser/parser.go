package parser

import (
	"io"

	"github.com/lef237/ctj/internal/records"
)

// Parser turns a byte stream into ordered records. The int result is the
// number of raw rows consumed from the input, including any header row.
type Parser interface {
	Parse(r io.Reader) ([]records.Record, int, error)
}
