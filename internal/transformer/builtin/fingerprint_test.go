package builtin

import (
	"testing"

	"github.com/lef237/ctj/internal/classify"
	"github.com/lef237/ctj/internal/records"
)

func hashField(t *testing.T, r records.Record, field string) string {
	t.Helper()
	v, ok := r.Get(field)
	if !ok {
		t.Fatalf("fingerprint field %q missing in %#v", field, r)
	}
	if v.Kind != classify.KindString {
		t.Fatalf("fingerprint field %q kind = %v, want string", field, v.Kind)
	}
	return v.Str
}

// TestFingerprintStableAndDistinct verifies that identical records hash to
// the same digest, different records to different digests, and that the
// digest column lands after the existing fields.
func TestFingerprintStableAndDistinct(t *testing.T) {
	build := func(name string, age int64) records.Record {
		var r records.Record
		r.Set("name", classify.Str(name))
		r.Set("age", classify.Int(age))
		return r
	}

	in := []records.Record{
		build("John", 25),
		build("John", 25),
		build("Jane", 30),
	}
	Fingerprint{}.Apply(in)

	h0 := hashField(t, in[0], DefaultFingerprintField)
	h1 := hashField(t, in[1], DefaultFingerprintField)
	h2 := hashField(t, in[2], DefaultFingerprintField)

	if len(h0) != 16 {
		t.Fatalf("digest %q has length %d, want 16 hex chars", h0, len(h0))
	}
	if h0 != h1 {
		t.Fatalf("identical records hash differently: %q vs %q", h0, h1)
	}
	if h0 == h2 {
		t.Fatalf("distinct records share digest %q", h0)
	}

	keys := in[0].Keys()
	if got := keys[len(keys)-1]; got != DefaultFingerprintField {
		t.Fatalf("digest column at %q, want last position", got)
	}
}

// TestFingerprintIdempotent verifies that re-running the transformer leaves
// the digest unchanged: the output column is excluded from its own hash.
func TestFingerprintIdempotent(t *testing.T) {
	var r records.Record
	r.Set("a", classify.Str("x"))
	in := []records.Record{r}

	f := Fingerprint{Field: "digest"}
	f.Apply(in)
	first := hashField(t, in[0], "digest")
	f.Apply(in)
	second := hashField(t, in[0], "digest")

	if first != second {
		t.Fatalf("digest drifted across runs: %q then %q", first, second)
	}
}

// TestFingerprintTypeSensitive verifies that the digest distinguishes the
// integer 1 from the text "1".
func TestFingerprintTypeSensitive(t *testing.T) {
	var a, b records.Record
	a.Set("v", classify.Int(1))
	b.Set("v", classify.Str("1"))
	in := []records.Record{a, b}

	Fingerprint{}.Apply(in)

	ha := hashField(t, in[0], DefaultFingerprintField)
	hb := hashField(t, in[1], DefaultFingerprintField)
	if ha == hb {
		t.Fatalf("int 1 and text \"1\" share digest %q", ha)
	}
}
