// Package records defines the insertion-ordered record produced for each
// data row.
//
// Field order is an observable contract: JSON output must list keys in the
// left-to-right order they were encountered in the row, so a plain Go map
// is off the table. A Record is a slice of key/value pairs with map-like
// insertion semantics: setting an existing key overwrites its value in
// place (last write wins) while the key keeps its original position.
package records

import (
	"bytes"
	"encoding/json"

	"github.com/lef237/ctj/internal/classify"
)

// Field is a single key/value entry of a Record.
type Field struct {
	Key   string
	Value classify.Value
}

// Record is an ordered key -> typed value mapping for one data row.
type Record struct {
	Fields []Field
}

// Set inserts key with v, or overwrites the value in place when key is
// already present. Lookup is a linear scan; rows are short and this keeps
// the container free of hidden index state.
func (r *Record) Set(key string, v classify.Value) {
	for i := range r.Fields {
		if r.Fields[i].Key == key {
			r.Fields[i].Value = v
			return
		}
	}
	r.Fields = append(r.Fields, Field{Key: key, Value: v})
}

// Get returns the value stored under key.
func (r Record) Get(key string) (classify.Value, bool) {
	for i := range r.Fields {
		if r.Fields[i].Key == key {
			return r.Fields[i].Value, true
		}
	}
	return classify.Value{}, false
}

// Len reports the number of fields.
func (r Record) Len() int { return len(r.Fields) }

// Keys returns the field keys in insertion order.
func (r Record) Keys() []string {
	keys := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		keys[i] = f.Key
	}
	return keys
}

// MarshalJSON emits the fields as a JSON object in insertion order. Keys
// and values are individually json-escaped to stay safe for diacritics,
// embedded quotes, etc.
func (r Record) MarshalJSON() ([]byte, error) {
	if len(r.Fields) == 0 {
		return []byte(`{}`), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
