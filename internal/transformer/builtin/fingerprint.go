package builtin

import (
	"fmt"
	"strconv"

	"github.com/lef237/ctj/internal/classify"
	"github.com/lef237/ctj/internal/records"

	"github.com/zeebo/xxh3"
)

// DefaultFingerprintField is the column Fingerprint writes to when no
// field name is configured.
const DefaultFingerprintField = "row_hash"

// Fingerprint appends a content hash column to every record. The hash
// covers every field except the output column itself, so re-running the
// transformer is idempotent and two records with identical content always
// carry the same fingerprint.
//
// The digest is xxh3 over "key=value" pairs in field order, values in
// their classified JSON form so the integer 1 and the text "1" hash
// differently. The column holds the 64-bit digest as 16 hex characters.
type Fingerprint struct {
	// Field is the output column name; empty means DefaultFingerprintField.
	Field string
}

// Apply computes the fingerprint for each record in place and returns the
// input slice.
func (f Fingerprint) Apply(in []records.Record) []records.Record {
	field := f.Field
	if field == "" {
		field = DefaultFingerprintField
	}
	var buf []byte
	for i := range in {
		buf = buf[:0]
		for _, fl := range in[i].Fields {
			if fl.Key == field {
				continue
			}
			buf = append(buf, fl.Key...)
			buf = append(buf, '=')
			buf = append(buf, valueKey(fl.Value)...)
			buf = append(buf, '\x1f')
		}
		h := xxh3.Hash(buf)
		in[i].Set(field, classify.Str(fmt.Sprintf("%016x", h)))
	}
	return in
}

// valueKey returns a stable text form of v for key and digest building.
// The JSON encoding keeps 1, "1" and 1.0 distinct; it cannot fail for
// values produced by classification.
func valueKey(v classify.Value) string {
	b, err := v.MarshalJSON()
	if err != nil {
		return strconv.Quote(fmt.Sprint(v.Any()))
	}
	return string(b)
}
