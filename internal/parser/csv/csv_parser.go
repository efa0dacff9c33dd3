// Package csv reads comma-separated input into ordered, typed records.
//
// The reader is the strict half of the conversion contract: structural
// problems (unterminated quotes, bare quotes inside fields) abort the
// whole parse with no partial table, while ragged row widths are NOT
// errors. Rows wider or narrower than the header are delivered as-is and
// the assembler applies the positional key policy.
package csv

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/lef237/ctj/internal/assemble"
	"github.com/lef237/ctj/internal/records"
)

// Options configures the CSV parser behavior. All fields are optional;
// the zero value reads comma-delimited data with no header row and no
// field trimming.
type Options struct {
	// HasHeader indicates whether the first row contains column headers.
	HasHeader bool

	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing spaces from every field, headers
	// included, before classification. Off by default: fields reach the
	// classifier exactly as the dialect decoder produced them.
	TrimSpace bool

	// HeaderMap renames source header names to canonical keys (e.g.,
	// localized labels to snake_case). Lookup is by the exact header cell
	// (after TrimSpace, when enabled). Only applies when HasHeader is true.
	HeaderMap map[string]string

	// ScrubPattern/ScrubReplacement enable a targeted streaming
	// find/replace on the raw bytes before they reach encoding/csv, for
	// known bad sequences in real-world exports (typically broken quoting
	// that would otherwise abort the parse). The rewrite never buffers
	// the whole input.
	ScrubPattern     string
	ScrubReplacement string
}

// Parser parses CSV input according to Options. It is safe to reuse
// across inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse consumes all of r and returns the assembled records plus the
// number of raw rows read (header row included). The whole table is
// materialized before returning; any structural CSV error aborts with no
// records.
func (p *Parser) Parse(r io.Reader) ([]records.Record, int, error) {
	br := bufio.NewReader(r)
	stripBOM(br)

	var src io.Reader = br
	if p.opt.ScrubPattern != "" {
		src = newRewriter(src, []byte(p.opt.ScrubPattern), []byte(p.opt.ScrubReplacement))
	}

	cr := csv.NewReader(src)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	// Ragged rows are a key-synthesis case, not an error.
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("read csv: %w", err)
	}

	if p.opt.TrimSpace {
		for _, row := range rows {
			for i, val := range row {
				row[i] = strings.TrimSpace(val)
			}
		}
	}
	if p.opt.HasHeader && len(p.opt.HeaderMap) > 0 && len(rows) > 0 {
		head := rows[0]
		for i, col := range head {
			if mapped, ok := p.opt.HeaderMap[col]; ok {
				head[i] = mapped
			}
		}
	}

	return assemble.Assemble(rows, p.opt.HasHeader), len(rows), nil
}
