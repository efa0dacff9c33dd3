package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/lef237/ctj/internal/datasource"
	"github.com/lef237/ctj/internal/datasource/file"
	pcsv "github.com/lef237/ctj/internal/parser/csv"
)

// main is the entry point for the converter binary. It reads one CSV
// input (file or stdin), infers a scalar type for every field, and emits
// the table as a JSON array of objects on stdout or into a file.
func main() {
	var (
		input    string
		output   string
		pretty   bool
		noHeader bool
	)

	flag.StringVar(&input, "input", "", "input CSV path (default: stdin; a bare argument works too)")
	flag.StringVar(&output, "output", "", "output JSON path (default: stdout)")
	flag.BoolVar(&pretty, "pretty", false, "indent the JSON output")
	flag.BoolVar(&noHeader, "no-header", false, "treat the first row as data and synthesize column_<N> keys")
	flag.Parse()

	if input == "" && flag.NArg() > 0 {
		input = flag.Arg(0)
	}

	var src datasource.Source = datasource.Stdin{}
	if input != "" {
		src = file.NewLocal(input)
	}

	rc, err := src.Open(context.Background())
	if err != nil {
		fatalf("%v", err)
	}
	defer rc.Close()

	out, err := convert(rc, !noHeader, pretty)
	if err != nil {
		fatalf("%v", err)
	}

	if output == "" {
		fmt.Println(string(out))
		return
	}
	if err := os.WriteFile(output, out, 0o644); err != nil {
		fatalf("write %s: %v", output, err)
	}
	fmt.Printf("JSON output written to: %s\n", output)
}

// convert materializes the whole table from r and serializes it once.
// Nothing is emitted when parsing fails; a structural CSV error never
// yields a partial array.
func convert(r io.Reader, hasHeader, pretty bool) ([]byte, error) {
	recs, _, err := pcsv.NewParser(pcsv.Options{HasHeader: hasHeader}).Parse(r)
	if err != nil {
		return nil, err
	}
	if pretty {
		return json.MarshalIndent(recs, "", "  ")
	}
	return json.Marshal(recs)
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
