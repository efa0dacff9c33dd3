package transformer

import (
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/lef237/ctj/internal/classify"
	"github.com/lef237/ctj/internal/records"
)

/*
identityTransformer is a no-op transformer used in tests/benchmarks.
It returns the input slice without allocating or modifying it.
*/
type identityTransformer struct{}

func (identityTransformer) Apply(in []records.Record) []records.Record { return in }

/*
addFieldTransformer mutates each record in place by setting key -> value.
Used to verify mutation flows through Chain.
*/
type addFieldTransformer struct {
	key string
	val classify.Value
}

func (t addFieldTransformer) Apply(in []records.Record) []records.Record {
	for i := range in {
		in[i].Set(t.key, t.val)
	}
	return in
}

/*
filterRequireTransformer keeps only records that have a non-empty value
for the provided key; it filters in place by reslicing the input.
*/
type filterRequireTransformer struct {
	key string
}

func (t filterRequireTransformer) Apply(in []records.Record) []records.Record {
	out := in[:0]
	for _, r := range in {
		if v, ok := r.Get(t.key); ok && !(v.Kind == classify.KindString && v.Str == "") {
			out = append(out, r)
		}
	}
	return out
}

/*
counterTransformer increments *calls whenever Apply is invoked. Used to verify
that each transformer in the chain is called exactly once and in order.
*/
type counterTransformer struct {
	calls *int32
	// mark is an optional field name to set with a rank value for order checks.
	mark string
	rank int64
}

func (t counterTransformer) Apply(in []records.Record) []records.Record {
	atomic.AddInt32(t.calls, 1)
	if t.mark != "" {
		for i := range in {
			in[i].Set(t.mark, classify.Int(t.rank))
		}
	}
	return in
}

// --- Helpers ---

func makeRec(pairs ...any) records.Record {
	var r records.Record
	for i := 0; i+1 < len(pairs); i += 2 {
		key := pairs[i].(string)
		switch v := pairs[i+1].(type) {
		case string:
			r.Set(key, classify.Str(v))
		case int:
			r.Set(key, classify.Int(int64(v)))
		case int64:
			r.Set(key, classify.Int(v))
		case bool:
			r.Set(key, classify.Bool(v))
		case float64:
			r.Set(key, classify.Float(v))
		}
	}
	return r
}

func makeRecs(n int) []records.Record {
	recs := make([]records.Record, n)
	for i := 0; i < n; i++ {
		recs[i] = makeRec("id", i)
	}
	return recs
}

func fieldStr(t *testing.T, r records.Record, key string) string {
	t.Helper()
	v, ok := r.Get(key)
	if !ok {
		t.Fatalf("field %q missing in %#v", key, r)
	}
	return v.Str
}

// --- Unit tests ---

/*
TestChainApply_Composition_Order verifies that Chain.Apply passes the output of
each transformer as the input to the next, and that the transforms occur in the
declared order.
*/
func TestChainApply_Composition_Order(t *testing.T) {
	in := []records.Record{makeRec("id", 1)}
	c := Chain{
		addFieldTransformer{key: "a", val: classify.Str("first")},
		addFieldTransformer{key: "b", val: classify.Str("second")},
		addFieldTransformer{key: "c", val: classify.Str("third")},
	}
	out := c.Apply(in)

	if got := len(out); got != 1 {
		t.Fatalf("len(out)=%d; want 1", got)
	}
	if got, want := fieldStr(t, out[0], "a"), "first"; got != want {
		t.Fatalf("field a = %q; want %q", got, want)
	}
	if got, want := fieldStr(t, out[0], "b"), "second"; got != want {
		t.Fatalf("field b = %q; want %q", got, want)
	}
	if got, want := fieldStr(t, out[0], "c"), "third"; got != want {
		t.Fatalf("field c = %q; want %q", got, want)
	}
	// Appended fields keep chain order after the original key.
	wantKeys := []string{"id", "a", "b", "c"}
	gotKeys := out[0].Keys()
	if len(gotKeys) != len(wantKeys) {
		t.Fatalf("keys = %v; want %v", gotKeys, wantKeys)
	}
	for i := range wantKeys {
		if gotKeys[i] != wantKeys[i] {
			t.Fatalf("keys = %v; want %v", gotKeys, wantKeys)
		}
	}
}

/*
TestChainApply_FilterThenMutate verifies that in-place filtering followed by a
mutating transform yields the expected survivors and mutated fields, and does so
without unnecessary allocations in steady state.
*/
func TestChainApply_FilterThenMutate(t *testing.T) {
	build := func() []records.Record {
		return []records.Record{
			makeRec("keep", "yes", "id", 1),
			makeRec("keep", "", "id", 2),
			makeRec("keep", "yes", "id", 3),
		}
	}
	c := Chain{
		filterRequireTransformer{key: "keep"},
		addFieldTransformer{key: "tag", val: classify.Str("ok")},
	}

	// content check
	out := c.Apply(build())
	if len(out) != 2 {
		t.Fatalf("len(out)=%d; want 2", len(out))
	}
	for _, r := range out {
		if fieldStr(t, r, "tag") != "ok" {
			t.Fatalf("mutate-after-filter missing tag on %#v", r)
		}
		if fieldStr(t, r, "keep") == "" {
			t.Fatalf("filtered record with empty 'keep' leaked into output: %#v", r)
		}
	}

	// steady-state allocations check (should be ~0 once the tag field exists)
	in := build()
	_ = c.Apply(in)
	allocs := testing.AllocsPerRun(500, func() {
		_ = c.Apply(in)
	})
	if allocs > 0.20 { // allow tiny headroom across Go versions
		t.Fatalf("allocs/op=%.2f; want <= 0.20", allocs)
	}
}

/*
TestChainApply_NilAndEmptyChain verifies that applying a nil or empty Chain
returns the input unchanged and does not allocate.
*/
func TestChainApply_NilAndEmptyChain(t *testing.T) {
	in := makeRecs(3)

	// nil chain
	var cNil Chain
	outNil := cNil.Apply(in)
	if len(outNil) != len(in) || &outNil[0] != &in[0] {
		t.Fatalf("nil chain should return same slice header")
	}

	// empty chain
	cEmpty := Chain{}
	outEmpty := cEmpty.Apply(in)
	if len(outEmpty) != len(in) || &outEmpty[0] != &in[0] {
		t.Fatalf("empty chain should return same slice header")
	}

	allocs := testing.AllocsPerRun(500, func() {
		_ = cNil.Apply(in)
	})
	if allocs > 0.05 {
		t.Fatalf("nil chain allocs/op=%.2f; want <= 0.05", allocs)
	}
}

/*
TestChainApply_TransformerCalledOnce ensures each transformer in the chain is
invoked exactly once per Chain.Apply call, and that order can be observed.
*/
func TestChainApply_TransformerCalledOnce(t *testing.T) {
	var calls int32
	in := makeRecs(2)
	c := Chain{
		counterTransformer{calls: &calls, mark: "rank", rank: 1},
		counterTransformer{calls: &calls, mark: "rank2", rank: 2},
		counterTransformer{calls: &calls, mark: "rank3", rank: 3},
	}
	_ = c.Apply(in)
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("calls=%d; want 3", got)
	}
	for _, r := range in {
		for mark, rank := range map[string]int64{"rank": 1, "rank2": 2, "rank3": 3} {
			v, ok := r.Get(mark)
			if !ok || v.Int != rank {
				t.Fatalf("unexpected rank marker %q in %#v", mark, r)
			}
		}
	}
}

/*
TestChainApply_NilInput verifies the defined behavior for nil input slices:
Apply should return nil (not an empty slice).
*/
func TestChainApply_NilInput(t *testing.T) {
	var in []records.Record
	c := Chain{identityTransformer{}}
	out := c.Apply(in)
	if out != nil {
		t.Fatalf("Apply(nil) => %#v; want nil", out)
	}
}

/*
BenchmarkChain_Identity_N measures overhead of Chain.Apply with N no-op
transformers over a medium batch of records.
*/
func BenchmarkChain_Identity_1(b *testing.B)  { benchChainIdentity(b, 1) }
func BenchmarkChain_Identity_3(b *testing.B)  { benchChainIdentity(b, 3) }
func BenchmarkChain_Identity_10(b *testing.B) { benchChainIdentity(b, 10) }

func benchChainIdentity(b *testing.B, n int) {
	// build data
	const recs = 20000
	in := make([]records.Record, recs)
	for i := 0; i < recs; i++ {
		in[i] = makeRec("id", i)
	}
	// build chain
	c := make(Chain, n)
	for i := 0; i < n; i++ {
		c[i] = identityTransformer{}
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = c.Apply(in)
	}
}

/*
BenchmarkChain_AddField simulates a common "mutate across all records" pass.
*/
func BenchmarkChain_AddField(b *testing.B) {
	const recs = 20000
	in := make([]records.Record, recs)
	for i := 0; i < recs; i++ {
		in[i] = makeRec("id", i, "name", "user_"+strconv.Itoa(i%1000))
	}
	c := Chain{
		addFieldTransformer{"a", classify.Str("x")},
		addFieldTransformer{"b", classify.Str("y")},
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = c.Apply(in)
	}
}
