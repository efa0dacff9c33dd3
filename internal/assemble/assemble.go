// Package assemble builds ordered records from tokenized CSV rows.
//
// The assembler is the second half of the conversion core: it takes rows
// that the CSV reader already split into raw string fields, decides the
// key for every cell position (header name or synthesized column_<N>),
// classifies each cell, and produces one ordered record per data row.
//
// It owns no I/O and cannot fail; structural CSV errors belong to the
// reader upstream and abort before rows ever reach this package.
package assemble

import (
	"fmt"

	"github.com/lef237/ctj/internal/classify"
	"github.com/lef237/ctj/internal/records"
)

// Assemble converts rows into records. With headerMode on, the first row
// is consumed as the ordered column-name list and the rest are data rows;
// with headerMode off every row is data and all keys are synthesized.
//
// Shape rules, applied per data row:
//
//   - a cell at position P keys by headers[P] when the header has that
//     position (even when the header cell is empty), else by "column_<P>"
//   - a row wider than the header gets synthesized keys for the extras,
//     at their true positions
//   - a row narrower than the header contributes only the cells present;
//     there is no null padding
//   - duplicate keys within one row follow record insertion semantics:
//     first position kept, last value wins
//
// The result is never nil, so zero data rows (including completely empty
// input) serialize as an empty JSON array rather than null.
func Assemble(rows [][]string, headerMode bool) []records.Record {
	var headers []string
	data := rows
	if headerMode && len(rows) > 0 {
		headers = rows[0]
		data = rows[1:]
	}

	out := make([]records.Record, 0, len(data))
	for _, row := range data {
		var rec records.Record
		for i, cell := range row {
			rec.Set(keyFor(i, headers), classify.Classify(cell))
		}
		out = append(out, rec)
	}
	return out
}

// keyFor returns the column key for index idx, using headers when the
// position exists and synthesizing a positional name otherwise.
func keyFor(idx int, headers []string) string {
	if idx < len(headers) {
		return headers[idx]
	}
	return fmt.Sprintf("column_%d", idx)
}
