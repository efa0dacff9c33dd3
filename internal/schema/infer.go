package schema

import (
	"fmt"

	"github.com/lef237/ctj/internal/classify"
	"github.com/lef237/ctj/internal/records"
)

// Infer derives a TableDef from classified records. Keys are collected in
// first-encounter order across all records, so ragged rows with synthesized
// keys still land in a stable column list. Each column's kind is the
// widening of every non-empty value observed under its key:
//
//   - all one kind                 -> that kind
//   - Integer and Float mixed      -> float
//   - any other mix, or no values  -> string
//
// Empty cells carry no type evidence; they mark the column nullable instead,
// as does a key missing from some record. Column names are normalized via
// NormalizeColumn and de-collided with a numeric suffix.
func Infer(table string, recs []records.Record) (TableDef, error) {
	if table == "" {
		return TableDef{}, fmt.Errorf("schema: missing table name")
	}

	type colState struct {
		kind     classify.Kind
		seen     bool
		nullable bool
		rows     int
	}
	var keys []string
	states := map[string]*colState{}

	for _, rec := range recs {
		for _, f := range rec.Fields {
			st, ok := states[f.Key]
			if !ok {
				st = &colState{}
				states[f.Key] = st
				keys = append(keys, f.Key)
			}
			st.rows++
			if isEmpty(f.Value) {
				st.nullable = true
				continue
			}
			if !st.seen {
				st.kind = f.Value.Kind
				st.seen = true
				continue
			}
			st.kind = widen(st.kind, f.Value.Kind)
		}
	}

	cols := make([]ColumnDef, 0, len(keys))
	used := map[string]struct{}{}
	for _, k := range keys {
		st := states[k]
		if st.rows < len(recs) {
			st.nullable = true
		}
		base := TruncateColumn(NormalizeColumn(k))
		name := base
		for i := 2; ; i++ {
			if _, taken := used[name]; !taken {
				break
			}
			name = fmt.Sprintf("%s_%d", base, i)
		}
		used[name] = struct{}{}
		cols = append(cols, ColumnDef{
			Name:     name,
			Key:      k,
			Kind:     st.kind,
			Nullable: st.nullable,
		})
	}

	return TableDef{FQN: table, Columns: cols}, nil
}

// Rows aligns records to the table's column order for bulk insertion. Values
// convert to their native Go form; empty cells and missing keys become nil
// so they load as SQL NULL.
func Rows(t TableDef, recs []records.Record) [][]any {
	out := make([][]any, 0, len(recs))
	for _, rec := range recs {
		row := make([]any, len(t.Columns))
		for i, c := range t.Columns {
			v, ok := rec.Get(c.Key)
			if !ok || isEmpty(v) {
				continue // stays nil
			}
			row[i] = v.Any()
		}
		out = append(out, row)
	}
	return out
}

// widen merges two observed kinds into the narrowest column kind that can
// hold both. Integer widens to float; every other mismatch falls back to
// string.
func widen(a, b classify.Kind) classify.Kind {
	if a == b {
		return a
	}
	if (a == classify.KindInteger && b == classify.KindFloat) ||
		(a == classify.KindFloat && b == classify.KindInteger) {
		return classify.KindFloat
	}
	return classify.KindString
}

// isEmpty reports whether v is the empty-cell value.
func isEmpty(v classify.Value) bool {
	return v.Kind == classify.KindString && v.Str == ""
}
