// Package builtin contains simple, reusable transformers for the load
// pipeline.
package builtin

import (
	"github.com/lef237/ctj/internal/classify"
	"github.com/lef237/ctj/internal/records"
)

// Require removes any record missing a value for all specified fields.
type Require struct {
	Fields []string
}

// Apply returns a filtered slice containing only records that
// have all required fields present and non-empty. Filtering is in place
// by reslicing the input.
func (r Require) Apply(in []records.Record) []records.Record {
	if len(r.Fields) == 0 {
		return in
	}
	out := in[:0]
	for _, rec := range in {
		ok := true
		for _, f := range r.Fields {
			v, exists := rec.Get(f)
			if !exists || isEmpty(v) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out
}

// isEmpty reports whether v is the empty cell. Classification maps "" to
// the empty string, so that is the only empty shape a record can carry.
func isEmpty(v classify.Value) bool {
	return v.Kind == classify.KindString && v.Str == ""
}
