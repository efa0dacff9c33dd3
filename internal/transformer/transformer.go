// Package transformer defines the record transform stage of the load
// pipeline. A Transformer rewrites or filters a batch of records between
// parsing and insertion; Chain composes them in order.
package transformer

import "github.com/lef237/ctj/internal/records"

type Transformer interface {
	Apply([]records.Record) []records.Record
}

// Chain is an ordered list of transformers.
type Chain []Transformer

func (c Chain) Apply(in []records.Record) []records.Record {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}
