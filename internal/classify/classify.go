// Package classify turns raw text fields into typed scalar values.
//
// Every field of a CSV file arrives as a string; this package decides,
// per field, whether that string is really a boolean, an integer, a
// float, or just text. Classification is total: any input maps to
// exactly one kind, with string as the fallback, and never fails.
//
// Decision order (highest priority first):
//
//  1. boolean: case-insensitive "true" / "false", nothing else
//  2. integer: optional sign + decimal digits, within int64 range
//  3. float:   decimal literal with a point or exponent, within float64 range
//  4. string:  everything else, including "" and whitespace
//
// The order matters and is deliberately a short-circuiting chain, NOT a
// table: "25" must come out integer, never float 25.0, and "true" must
// come out boolean before any numeric attempt sees it.
//
// No trimming happens here. Classify(" 25") is the string " 25"; if a
// caller wants trimmed fields it must trim before classifying.
package classify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which scalar type a Value carries.
type Kind int

const (
	KindString Kind = iota
	KindBoolean
	KindInteger
	KindFloat
)

// String returns the lowercase kind name used in probe summaries and DDL
// inference ("string", "boolean", "integer", "float").
func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	default:
		return "string"
	}
}

// Value is a classified scalar. Exactly one of Bool/Int/Float/Str is
// meaningful, selected by Kind; the others keep their zero values.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
	Str   string
}

// Bool wraps a bool as a classified Value.
func Bool(b bool) Value { return Value{Kind: KindBoolean, Bool: b} }

// Int wraps an int64 as a classified Value.
func Int(i int64) Value { return Value{Kind: KindInteger, Int: i} }

// Float wraps a float64 as a classified Value.
func Float(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// Str wraps a string as a classified Value.
func Str(s string) Value { return Value{Kind: KindString, Str: s} }

// Classify maps raw text to a typed scalar. It is pure and total; inputs
// that match no higher-priority kind come back as Str(text) unchanged,
// so the empty string classifies as Str("").
func Classify(text string) Value {
	if strings.EqualFold(text, "true") {
		return Bool(true)
	}
	if strings.EqualFold(text, "false") {
		return Bool(false)
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Int(i)
	}
	if f, ok := parseFloat(text); ok {
		return Float(f)
	}
	return Str(text)
}

// parseFloat accepts only decimal float literals that carry a point or an
// exponent. strconv.ParseFloat alone is too permissive for our contract:
// it also takes "inf", "NaN" and hex floats, none of which may classify
// as float. Out-of-range literals fail ParseFloat and fall through to
// string, as do pure digit strings beyond int64 (ParseInt already said no
// and they contain neither '.' nor an exponent).
func parseFloat(s string) (float64, bool) {
	if !strings.ContainsAny(s, ".eE") || strings.ContainsAny(s, "xXpP") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Any returns the native Go value (bool, int64, float64 or string) for
// interoperability with database drivers and reflective encoders.
func (v Value) Any() any {
	switch v.Kind {
	case KindBoolean:
		return v.Bool
	case KindInteger:
		return v.Int
	case KindFloat:
		return v.Float
	default:
		return v.Str
	}
}

// MarshalJSON emits the value as the matching native JSON scalar:
// boolean, number or string. Integers keep their exact digits. Floats use
// shortest round-trip formatting but always stay recognizably floats:
// whole numbers carry a trailing ".0" so the serialized text never reads
// back as an integer.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindBoolean:
		if v.Bool {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case KindInteger:
		return strconv.AppendInt(nil, v.Int, 10), nil
	case KindFloat:
		if math.IsInf(v.Float, 0) || math.IsNaN(v.Float) {
			return nil, fmt.Errorf("json: unsupported float value: %v", v.Float)
		}
		return appendFloat(nil, v.Float), nil
	default:
		return json.Marshal(v.Str)
	}
}

// appendFloat formats f the way encoding/json does (fixed notation in the
// mid range, exponent notation outside it, "e-09" shortened to "e-9"),
// except that a whole number gains a ".0" suffix. Classification is
// priority-ordered, so a float that serialized as bare digits would change
// type on the next read; the suffix keeps serialize/classify stable.
func appendFloat(b []byte, f float64) []byte {
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	b = strconv.AppendFloat(b, f, format, -1, 64)
	if format == 'e' {
		if n := len(b); n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
		return b
	}
	if !bytes.ContainsAny(b, ".eE") {
		b = append(b, '.', '0')
	}
	return b
}
