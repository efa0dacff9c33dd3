package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/lef237/ctj/internal/probe"
)

// main samples the head of a CSV input (local path or URL), prints the
// inferred per-column schema, and optionally emits a starter pipeline
// config for cmd/csvload.
func main() {
	var (
		target    string
		maxBytes  int
		delimiter string
		name      string
		job       string
		backend   string
		asJSON    bool
		save      bool
		insecure  bool
	)

	flag.StringVar(&target, "target", "", "CSV input to sample: local path, file:// or http(s):// URL (a bare argument works too)")
	flag.IntVar(&maxBytes, "max-bytes", probe.DefaultMaxBytes, "number of bytes to sample from the start of the input")
	flag.StringVar(&delimiter, "delimiter", ",", "CSV field delimiter (single character)")
	flag.StringVar(&name, "name", "dataset", "dataset name used in table, file and job names (normalized)")
	flag.StringVar(&job, "job", "", "job name for the generated config (default: normalized -name)")
	flag.StringVar(&backend, "backend", "postgres", "storage backend for the generated config: postgres|mysql|mssql|sqlite")
	flag.BoolVar(&asJSON, "json", false, "emit a starter pipeline config as JSON instead of the column summary")
	flag.BoolVar(&save, "save", false, "write the sampled bytes to [name].csv")
	flag.BoolVar(&insecure, "insecure", false, "skip TLS certificate verification for https targets")
	flag.Parse()

	if target == "" && flag.NArg() > 0 {
		target = flag.Arg(0)
	}
	if target == "" {
		fatalf("csvprobe: no target; pass -target or a bare path/URL argument")
	}

	opt := probe.Options{
		Target:           target,
		MaxBytes:         maxBytes,
		Delimiter:        probe.DecodeDelimiter(delimiter),
		Name:             name,
		Job:              job,
		Backend:          backend,
		SaveSample:       save,
		AllowInsecureTLS: insecure,
	}

	rep, err := probe.Probe(context.Background(), opt)
	if err != nil {
		fatalf("%v", err)
	}

	if !asJSON {
		os.Stdout.Write(rep.Summary())
		return
	}

	p := probe.BuildPipeline(opt, rep)
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		fatalf("encode config: %v", err)
	}
	fmt.Println(string(b))
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
