// This file holds the load execution logic and keeps the CLI layer thin:
// it depends only on the storage factory and backend-agnostic interfaces
// and never imports database drivers directly.
package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lef237/ctj/internal/config"
	"github.com/lef237/ctj/internal/datasource"
	"github.com/lef237/ctj/internal/datasource/file"
	"github.com/lef237/ctj/internal/datasource/httpds"
	"github.com/lef237/ctj/internal/metrics"
	"github.com/lef237/ctj/internal/parser"
	csvparser "github.com/lef237/ctj/internal/parser/csv"
	"github.com/lef237/ctj/internal/records"
	"github.com/lef237/ctj/internal/schema"
	"github.com/lef237/ctj/internal/storage"
	"github.com/lef237/ctj/internal/transformer"
	"github.com/lef237/ctj/internal/transformer/builtin"
)

// defaultBatchSize bounds rows per bulk insert when runtime.batch_size
// is unset.
const defaultBatchSize = 10000

// input is one resolved source: a name for logs plus an openable stream.
type input struct {
	name string
	src  datasource.Source
}

// newRepositoryFn is a test seam. In production it points to the storage
// factory; tests can swap in a fake repository.
var newRepositoryFn = func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	return storage.New(ctx, cfg)
}

// run executes the configured pipeline. The source section is expanded
// into concrete inputs first (a glob or list manifest may fan out to
// many); each input then goes through parse → transform → infer → insert.
// Inputs load concurrently up to runtime.workers and the first failure
// cancels the rest.
func run(ctx context.Context, p config.Pipeline) error {
	inputs, err := resolveInputs(p)
	if err != nil {
		return err
	}

	workers := p.Runtime.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, in := range inputs {
		g.Go(func() error {
			return loadOne(ctx, p, in)
		})
	}
	return g.Wait()
}

// resolveInputs expands the source section into the inputs for this run.
// The url and stdin kinds are always a single input; a file source may
// name many via a glob pattern or a list manifest.
func resolveInputs(p config.Pipeline) ([]input, error) {
	switch p.Source.Kind {
	case "stdin":
		return []input{{name: "stdin", src: datasource.Stdin{}}}, nil

	case "url":
		u := p.Source.URL.URL
		if u == "" {
			return nil, fmt.Errorf("source.url.url is empty")
		}
		return []input{{name: u, src: httpds.NewURL(nil, u)}}, nil

	case "file":
		if list := p.Source.File.List; list != "" {
			entries, err := file.ReadList(list)
			if err != nil {
				return nil, fmt.Errorf("read source list %s: %w", list, err)
			}
			if len(entries) == 0 {
				return nil, fmt.Errorf("source list %s names no inputs", list)
			}
			ins := make([]input, 0, len(entries))
			for _, e := range entries {
				ins = append(ins, input{name: e, src: sourceFor(e)})
			}
			return ins, nil
		}

		pattern := p.Source.File.Path
		if pattern == "" {
			return nil, fmt.Errorf("source.file.path is empty")
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad glob %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			if strings.ContainsAny(pattern, "*?[") {
				return nil, fmt.Errorf("no files match %q", pattern)
			}
			// Plain path: keep it so the open error names the missing file.
			matches = []string{pattern}
		}
		ins := make([]input, 0, len(matches))
		for _, m := range matches {
			ins = append(ins, input{name: m, src: file.NewLocal(m)})
		}
		return ins, nil

	default:
		return nil, fmt.Errorf("unsupported source.kind=%s", p.Source.Kind)
	}
}

// sourceFor maps one manifest entry to a source. Entries are URLs or
// local paths; a file:// prefix marks an explicit local path.
func sourceFor(entry string) datasource.Source {
	switch {
	case strings.HasPrefix(entry, "http://"), strings.HasPrefix(entry, "https://"):
		return httpds.NewURL(nil, entry)
	default:
		return file.NewLocal(strings.TrimPrefix(entry, "file://"))
	}
}

// loadOne runs the full load for a single input: parse it, apply the
// configured transforms, infer the destination table from the surviving
// records, then bulk-insert in batches.
func loadOne(ctx context.Context, p config.Pipeline, in input) error {
	job := p.Job
	if job == "" {
		job = "csvload"
	}
	runStart := time.Now()

	start := time.Now()
	recs, raw, err := parseInput(ctx, p, in)
	metrics.RecordStep(job, "parse", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("%s: %w", in.name, err)
	}
	metrics.RecordRow(job, "parsed", int64(len(recs)))

	chain, err := buildTransformers(p.Transform)
	if err != nil {
		return err
	}
	start = time.Now()
	out := chain.Apply(recs)
	metrics.RecordStep(job, "transform", nil, time.Since(start))
	dropped := len(recs) - len(out)
	metrics.RecordRow(job, "dropped", int64(dropped))

	if len(out) == 0 {
		log.Printf("%s: no records to load (raw rows=%d, dropped=%d)", in.name, raw, dropped)
		return nil
	}

	td, err := schema.Infer(p.Storage.DB.Table, out)
	if err != nil {
		return err
	}
	td, err = projectColumns(td, p.Storage.DB.Columns)
	if err != nil {
		return err
	}

	inserted, batches, err := insertAll(ctx, p, job, td, out)
	if err != nil {
		return fmt.Errorf("%s: %w", in.name, err)
	}

	log.Printf(
		"%s: raw_rows=%d parsed=%d dropped=%d inserted=%d batches=%d elapsed=%s",
		in.name, raw, len(recs), dropped, inserted, batches,
		time.Since(runStart).Truncate(time.Millisecond),
	)
	return nil
}

// parseInput opens the source and parses it with the configured parser.
// It returns the records plus the raw row count (header included).
func parseInput(ctx context.Context, p config.Pipeline, in input) ([]records.Record, int, error) {
	pr, err := buildParser(p.Parser)
	if err != nil {
		return nil, 0, err
	}

	rc, err := in.src.Open(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("source open: %w", err)
	}
	defer rc.Close()

	return pr.Parse(rc)
}

// buildParser maps parser configuration into a concrete parser implementation.
func buildParser(p config.Parser) (parser.Parser, error) {
	switch p.Kind {
	case "csv":
		return csvparser.NewParser(parserOptions(p.Options)), nil
	default:
		return nil, fmt.Errorf("unsupported parser.kind=%s", p.Kind)
	}
}

// parserOptions maps the config option bag onto the CSV parser's Options.
func parserOptions(opt config.Options) csvparser.Options {
	return csvparser.Options{
		HasHeader:        opt.Bool("has_header", true),
		Comma:            opt.Rune("comma", ','),
		TrimSpace:        opt.Bool("trim_space", false),
		HeaderMap:        opt.StringMap("header_map"),
		ScrubPattern:     opt.String("scrub_pattern", ""),
		ScrubReplacement: opt.String("scrub_replacement", ""),
	}
}

// buildTransformers constructs the transformer chain from configuration.
func buildTransformers(ts []config.Transform) (transformer.Chain, error) {
	c := transformer.Chain{}
	for _, t := range ts {
		switch t.Kind {
		case "fingerprint":
			c = append(c, builtin.Fingerprint{
				Field: t.Options.String("field", builtin.DefaultFingerprintField),
			})
		case "dedupe":
			c = append(c, builtin.DeDup{
				Keys:         t.Options.StringSlice("keys"),
				Policy:       t.Options.String("policy", "keep-last"),
				PreferFields: t.Options.StringSlice("prefer_fields"),
			})
		case "require":
			c = append(c, builtin.Require{
				Fields: t.Options.StringSlice("fields"),
			})
		default:
			return nil, fmt.Errorf("unsupported transformer.kind=%s", t.Kind)
		}
	}
	return c, nil
}

// projectColumns narrows the inferred definition to the configured column
// names, in their configured order. An empty projection keeps every
// inferred column. Naming a column the data does not carry is a
// configuration error rather than a silently NULL column.
func projectColumns(td schema.TableDef, names []string) (schema.TableDef, error) {
	if len(names) == 0 {
		return td, nil
	}
	byName := make(map[string]schema.ColumnDef, len(td.Columns))
	for _, c := range td.Columns {
		byName[c.Name] = c
	}
	cols := make([]schema.ColumnDef, 0, len(names))
	for _, n := range names {
		c, ok := byName[n]
		if !ok {
			return schema.TableDef{}, fmt.Errorf(
				"storage.db.columns: %q not present in input (inferred: %s)",
				n, strings.Join(td.Names(), ", "),
			)
		}
		cols = append(cols, c)
	}
	return schema.TableDef{FQN: td.FQN, Columns: cols}, nil
}

// insertAll opens the configured repository, optionally ensures the
// destination table exists, and copies the rows in batches.
func insertAll(ctx context.Context, p config.Pipeline, job string, td schema.TableDef, recs []records.Record) (int64, int, error) {
	repo, err := newRepositoryFn(ctx, storage.Config{
		Kind:    p.Storage.Kind,
		DSN:     p.Storage.DB.DSN,
		Table:   p.Storage.DB.Table,
		Columns: td.Names(),
	})
	if err != nil {
		return 0, 0, fmt.Errorf("init repo: %w", err)
	}
	defer repo.Close()

	if p.Storage.DB.AutoCreateTable {
		start := time.Now()
		err := storage.EnsureTable(ctx, p.Storage.Kind, repo, td)
		metrics.RecordStep(job, "ddl", err, time.Since(start))
		if err != nil {
			return 0, 0, fmt.Errorf("apply DDL: %w", err)
		}
	}

	batchSize := p.Runtime.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	columns := td.Names()
	rows := schema.Rows(td, recs)

	start := time.Now()
	var inserted int64
	batches := 0
	for from := 0; from < len(rows); from += batchSize {
		to := from + batchSize
		if to > len(rows) {
			to = len(rows)
		}
		n, err := repo.CopyFrom(ctx, columns, rows[from:to])
		if err != nil {
			metrics.RecordStep(job, "load", err, time.Since(start))
			return inserted, batches, fmt.Errorf("copy batch %d: %w", batches+1, err)
		}
		inserted += n
		batches++
	}
	metrics.RecordStep(job, "load", nil, time.Since(start))
	metrics.RecordRow(job, "inserted", inserted)
	metrics.RecordBatches(job, int64(batches))

	return inserted, batches, nil
}
