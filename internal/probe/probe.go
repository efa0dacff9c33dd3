// Package probe samples the head of a CSV input and infers a per-column
// schema from it. The inference runs on the same classifier the converter
// uses, so a probe report predicts exactly how a full run will type each
// column. cmd/csvprobe renders reports as text or as a starter pipeline
// config.
package probe

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/lef237/ctj/internal/classify"
	"github.com/lef237/ctj/internal/datasource/file"
	"github.com/lef237/ctj/internal/datasource/httpds"
	"github.com/lef237/ctj/internal/records"
	"github.com/lef237/ctj/internal/schema"
)

// DefaultMaxBytes bounds how much of the input a probe reads when the
// caller does not say otherwise.
const DefaultMaxBytes = 64 << 10

// maxSampleRows caps how many aligned data rows feed the inference. The
// byte budget usually bounds this first; the cap protects against inputs
// with very short lines.
const maxSampleRows = 100000

// Options control sampling and, via BuildPipeline, config generation.
type Options struct {
	// Target is what to sample: a local path, a file:// URL, or an
	// http(s):// URL.
	Target string

	// MaxBytes caps how many bytes are read from the head of the input.
	// Zero selects DefaultMaxBytes.
	MaxBytes int

	// Delimiter is the CSV field separator. Zero means ','.
	Delimiter rune

	// Name seeds table, file and job names in generated configs
	// (normalized first).
	Name string

	// Job overrides the job name in generated configs. Defaults to the
	// normalized Name.
	Job string

	// Backend selects the storage kind in generated configs: "postgres",
	// "mysql", "mssql" or "sqlite". Defaults to "postgres".
	Backend string

	// SaveSample writes the sampled bytes to <normalized name>.csv in the
	// working directory.
	SaveSample bool

	// AllowInsecureTLS skips TLS certificate verification for https
	// targets (self-signed internal endpoints).
	AllowInsecureTLS bool
}

// Report is the outcome of sampling one input.
type Report struct {
	// Headers is the raw header row as parsed, BOM stripped.
	Headers []string

	// Columns describes each distinct column: original key, normalized
	// name, inferred kind, nullability. Duplicate headers collapse into
	// one column, matching how conversion treats duplicate keys.
	Columns []schema.ColumnDef

	// Rows is the number of aligned data rows that informed the inference.
	Rows int

	// SampleBytes is how many bytes were actually fetched.
	SampleBytes int
}

// peekFn fetches the first n bytes of target. Production code reads local
// paths through file.NewLocal and http(s) URLs through httpds.Client;
// tests replace the seam to avoid real I/O.
var peekFn = func(ctx context.Context, target string, n int, insecure bool) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("probe: max bytes must be > 0")
	}

	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		client := httpds.NewClient(httpds.Config{InsecureSkipVerify: insecure})
		return client.FetchFirstBytes(ctx, target, n)
	}

	path := strings.TrimPrefix(target, "file://")
	rc, err := file.NewLocal(path).Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	lr := &io.LimitedReader{R: rc, N: int64(n)}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, lr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Probe samples the head of the target, parses it as CSV and infers a
// per-column schema. Parsing here is best effort, unlike a conversion
// run: the first usable line is taken as the header row and misaligned
// or malformed data rows are skipped, so a truncated sample cannot
// poison the inference.
func Probe(ctx context.Context, opt Options) (Report, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = ','
	}
	maxBytes := opt.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	data, err := peekFn(ctx, opt.Target, maxBytes, opt.AllowInsecureTLS)
	if err != nil {
		return Report{}, fmt.Errorf("fetch sample: %w", err)
	}
	sampled := len(data)

	// A full buffer usually means the read stopped mid-record; cut back to
	// the last newline so the torn tail does not look like data. A short
	// read means we saw the whole input and the final line is real even
	// without a trailing newline.
	if sampled == maxBytes {
		if i := bytes.LastIndexByte(data, '\n'); i > 0 {
			data = data[:i+1]
		}
	}

	if opt.SaveSample {
		name := schema.NormalizeColumn(opt.Name) + ".csv"
		if err := writeSample(name, data); err != nil {
			return Report{}, fmt.Errorf("save sample: %w", err)
		}
	}

	headers, rows := readSample(data, delim)
	return Report{
		Headers:     headers,
		Columns:     inferColumns(headers, rows),
		Rows:        len(rows),
		SampleBytes: sampled,
	}, nil
}

// Summary renders the report as one CSV line per column:
// original header, normalized name, inferred kind.
func (r Report) Summary() []byte {
	var buf bytes.Buffer
	for _, c := range r.Columns {
		fmt.Fprintf(&buf, "%s,%s,%s\n", c.Key, c.Name, c.Kind)
	}
	return buf.Bytes()
}

// readSample parses CSV data and returns headers plus up to maxSampleRows
// aligned data rows. It tolerates trimmed samples and malformed lines:
// parse errors and empty lines are skipped, and so are rows whose field
// count differs from the header, to keep column indexes stable for the
// inference.
func readSample(data []byte, delim rune) ([]string, [][]string) {
	data = bytes.TrimPrefix(data, []byte("\uFEFF"))

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1 // allow variable fields; we enforce width ourselves

	// Read header: skip malformed/empty lines until a usable one or EOF.
	var headers []string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return []string{}, nil
		}
		if err != nil || len(rec) == 0 {
			continue
		}
		headers = rec
		break
	}

	var rows [][]string
	want := len(headers)
	for len(rows) < maxSampleRows {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil || len(rec) == 0 {
			continue
		}
		if len(rec) != want {
			continue // misaligned row would skew the inference
		}
		rows = append(rows, rec)
	}

	return headers, rows
}

// inferColumns runs the sampled rows through the converter's own schema
// inference. Cells are trimmed first, mirroring the trim_space parser
// option the generated config enables. A header-only sample still lists
// every column, typed as nullable string.
func inferColumns(headers []string, rows [][]string) []schema.ColumnDef {
	if len(headers) == 0 {
		return nil
	}

	recs := make([]records.Record, 0, len(rows))
	for _, row := range rows {
		var rec records.Record
		for i, h := range headers {
			rec.Set(h, classify.Classify(strings.TrimSpace(row[i])))
		}
		recs = append(recs, rec)
	}
	if len(recs) == 0 {
		var rec records.Record
		for _, h := range headers {
			rec.Set(h, classify.Str(""))
		}
		recs = append(recs, rec)
	}

	td, err := schema.Infer("sample", recs)
	if err != nil {
		return nil
	}
	return td.Columns
}

// DecodeDelimiter converts a user-supplied string into a single rune
// delimiter, falling back to ',' for empty or invalid input.
func DecodeDelimiter(s string) rune {
	if s == "" {
		return ','
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return ','
	}
	return r
}
