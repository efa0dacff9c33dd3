// Package schema derives relational table definitions from classified
// records. Column names are normalized into SQL-safe identifiers and each
// column's type is widened from the scalar kinds observed in the data. The
// functions here are pure and deterministic, which makes them easy to test
// and reuse across storage backends.
package schema

import (
	"github.com/lef237/ctj/internal/classify"
)

// ColumnDef describes a single destination column.
//
// Fields:
//   - Name: normalized column name (unquoted; quoting/escaping happens at render time)
//   - Key: the record key the column is sourced from, exactly as parsed
//   - Kind: widened scalar kind observed across the records
//   - Nullable: whether any record lacked the key or carried an empty cell
type ColumnDef struct {
	Name     string
	Key      string
	Kind     classify.Kind
	Nullable bool
}

// TableDef holds the fully-qualified table name (FQN) and an ordered list of
// columns. The FQN is expected in dotted form (e.g., "public.people") and
// will be quoted/escaped by renderers as needed.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// Names returns the normalized column names in order, ready to be passed to
// a repository's CopyFrom.
func (t TableDef) Names() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}
