package config

import (
	"strings"
	"testing"
)

// hasIssue reports whether issues contains an Issue with the given severity,
// path, and a Message containing msgSubstr.
func hasIssue(t *testing.T, issues []Issue, sev IssueSeverity, path, msgSubstr string) bool {
	t.Helper()
	for _, iss := range issues {
		if iss.Severity == sev && iss.Path == path && strings.Contains(iss.Message, msgSubstr) {
			return true
		}
	}
	return false
}

/*
TestValidatePipeline_MissingJob verifies that a missing or empty Job field
produces a SeverityError with path "job".
*/
func TestValidatePipeline_MissingJob(t *testing.T) {
	p := Pipeline{
		Job: "", // missing/empty
		Source: Source{
			Kind: "file",
			File: SourceFile{Path: "input.csv"},
		},
		Parser: Parser{
			Kind:    "csv",
			Options: Options{},
		},
		Storage: Storage{
			Kind: "postgres",
			DB: DBConfig{
				DSN:   "postgres://user@localhost/db",
				Table: "public.t",
			},
		},
		// No transforms/runtime needed here; we only care about job.
	}

	issues := ValidatePipeline(p)

	if !hasIssue(t, issues, SeverityError, "job", "job must not be empty") {
		t.Fatalf("expected SeverityError for job; got issues: %+v", issues)
	}
}

/*
TestValidatePipeline_ValidMinimal verifies that a well-formed pipeline produces
no issues (errors or warnings). An empty transform chain is part of the valid
minimal shape: converting parsed records as-is is the common case.
*/
func TestValidatePipeline_ValidMinimal(t *testing.T) {
	p := Pipeline{
		Job: "test-job",
		Source: Source{
			Kind: "file",
			File: SourceFile{Path: "input.csv"},
		},
		Parser: Parser{
			Kind:    "csv",
			Options: Options{"has_header": true},
		},
		Storage: Storage{
			Kind: "sqlite",
			DB: DBConfig{
				DSN:             "file:out.db",
				Table:           "rows",
				AutoCreateTable: true,
			},
		},
		Runtime: RuntimeConfig{
			Workers:   1,
			BatchSize: 100,
		},
	}

	issues := ValidatePipeline(p)
	if len(issues) != 0 {
		t.Fatalf("expected no issues for valid pipeline; got: %+v", issues)
	}
}

/*
TestValidateSource_Cases exercises validateSource with missing kind, unknown
kind, and the kind-specific checks for file and url sources.
*/
func TestValidateSource_Cases(t *testing.T) {
	t.Run("missing_kind", func(t *testing.T) {
		s := Source{}
		issues := validateSource(s)
		if !hasIssue(t, issues, SeverityError, "source.kind", "must not be empty") {
			t.Fatalf("expected error for empty source.kind; got %+v", issues)
		}
	})

	t.Run("unknown_kind", func(t *testing.T) {
		s := Source{Kind: "weird"}
		issues := validateSource(s)
		if !hasIssue(t, issues, SeverityWarning, "source.kind", "unknown source kind") {
			t.Fatalf("expected warning for unknown source.kind; got %+v", issues)
		}
	})

	t.Run("file_missing_path_and_list", func(t *testing.T) {
		s := Source{Kind: "file", File: SourceFile{Path: "  "}}
		issues := validateSource(s)
		if !hasIssue(t, issues, SeverityError, "source.file.path", "non-empty path or list") {
			t.Fatalf("expected error for empty file.path; got %+v", issues)
		}
	})

	t.Run("file_path_and_list_both_set", func(t *testing.T) {
		s := Source{Kind: "file", File: SourceFile{Path: "data.csv", List: "inputs.txt"}}
		issues := validateSource(s)
		if !hasIssue(t, issues, SeverityWarning, "source.file", "list takes precedence") {
			t.Fatalf("expected warning for path+list; got %+v", issues)
		}
	})

	t.Run("file_ok", func(t *testing.T) {
		s := Source{Kind: "file", File: SourceFile{Path: "data.csv"}}
		issues := validateSource(s)
		if len(issues) != 0 {
			t.Fatalf("expected no issues; got %+v", issues)
		}
	})

	t.Run("url_missing_url", func(t *testing.T) {
		s := Source{Kind: "url"}
		issues := validateSource(s)
		if !hasIssue(t, issues, SeverityError, "source.url.url", "non-empty url") {
			t.Fatalf("expected error for empty url; got %+v", issues)
		}
	})

	t.Run("url_ok", func(t *testing.T) {
		s := Source{Kind: "url", URL: SourceURL{URL: "https://example.com/data.csv"}}
		issues := validateSource(s)
		if len(issues) != 0 {
			t.Fatalf("expected no issues; got %+v", issues)
		}
	})

	t.Run("stdin_ok", func(t *testing.T) {
		s := Source{Kind: "stdin"}
		issues := validateSource(s)
		if len(issues) != 0 {
			t.Fatalf("expected no issues; got %+v", issues)
		}
	})
}

/*
TestValidateParser_Cases exercises validateParser for empty kind, unknown kind,
and csv-specific option checks (scrub pattern compilation, delimiter length).
*/
func TestValidateParser_Cases(t *testing.T) {
	t.Run("missing_kind", func(t *testing.T) {
		p := Parser{}
		issues := validateParser(p)
		if !hasIssue(t, issues, SeverityError, "parser.kind", "must not be empty") {
			t.Fatalf("expected error for empty parser.kind; got %+v", issues)
		}
	})

	t.Run("unknown_kind", func(t *testing.T) {
		p := Parser{Kind: "weird"}
		issues := validateParser(p)
		if !hasIssue(t, issues, SeverityWarning, "parser.kind", "unknown parser kind") {
			t.Fatalf("expected warning for unknown parser.kind; got %+v", issues)
		}
	})

	t.Run("csv_bad_scrub_pattern", func(t *testing.T) {
		p := Parser{Kind: "csv", Options: Options{"scrub_pattern": "(["}}
		issues := validateParser(p)
		if !hasIssue(t, issues, SeverityError, "parser.options.scrub_pattern", "not a valid regular expression") {
			t.Fatalf("expected error for bad scrub_pattern; got %+v", issues)
		}
	})

	t.Run("csv_replacement_without_pattern", func(t *testing.T) {
		p := Parser{Kind: "csv", Options: Options{"scrub_replacement": "-"}}
		issues := validateParser(p)
		if !hasIssue(t, issues, SeverityWarning, "parser.options.scrub_replacement", "no effect") {
			t.Fatalf("expected warning for replacement without pattern; got %+v", issues)
		}
	})

	t.Run("csv_long_comma", func(t *testing.T) {
		p := Parser{Kind: "csv", Options: Options{"comma": ";;"}}
		issues := validateParser(p)
		if !hasIssue(t, issues, SeverityWarning, "parser.options.comma", "first rune") {
			t.Fatalf("expected warning for multi-character comma; got %+v", issues)
		}
	})

	t.Run("csv_multibyte_comma_ok", func(t *testing.T) {
		// One rune, several bytes. Must not warn.
		p := Parser{Kind: "csv", Options: Options{"comma": "ž"}}
		issues := validateParser(p)
		if len(issues) != 0 {
			t.Fatalf("expected no issues for single-rune comma; got %+v", issues)
		}
	})

	t.Run("csv_ok", func(t *testing.T) {
		p := Parser{Kind: "csv", Options: Options{
			"has_header":    true,
			"scrub_pattern": `\s+`,
			"comma":         ";",
		}}
		issues := validateParser(p)
		if len(issues) != 0 {
			t.Fatalf("expected no issues; got %+v", issues)
		}
	})
}

/*
TestValidateTransforms_Cases covers:
  - empty transform list (valid, no issues),
  - empty kind (error),
  - unknown kind (warning),
  - dedupe without keys (error),
  - dedupe with unknown policy (warning),
  - require without fields (error),
  - well-formed chain (no issues).
*/
func TestValidateTransforms_Cases(t *testing.T) {
	t.Run("no_transforms", func(t *testing.T) {
		issues := validateTransforms(nil)
		if len(issues) != 0 {
			t.Fatalf("expected no issues for empty transform list; got %+v", issues)
		}
	})

	t.Run("empty_kind", func(t *testing.T) {
		ts := []Transform{{Kind: " "}}
		issues := validateTransforms(ts)
		if !hasIssue(t, issues, SeverityError, "transform[0].kind", "must not be empty") {
			t.Fatalf("expected error for empty transform kind; got %+v", issues)
		}
	})

	t.Run("unknown_kind", func(t *testing.T) {
		ts := []Transform{{Kind: "foobar", Options: Options{}}}
		issues := validateTransforms(ts)
		if !hasIssue(t, issues, SeverityWarning, "transform[0].kind", "unknown transform kind") {
			t.Fatalf("expected warning for unknown transform kind; got %+v", issues)
		}
	})

	t.Run("dedupe_no_keys", func(t *testing.T) {
		ts := []Transform{{Kind: "dedupe", Options: Options{}}}
		issues := validateTransforms(ts)
		if !hasIssue(t, issues, SeverityError, "transform[0].options.keys", "at least one key") {
			t.Fatalf("expected error for dedupe without keys; got %+v", issues)
		}
	})

	t.Run("dedupe_unknown_policy", func(t *testing.T) {
		ts := []Transform{{Kind: "dedupe", Options: Options{
			"keys":   []any{"id"},
			"policy": "keep-shiniest",
		}}}
		issues := validateTransforms(ts)
		if !hasIssue(t, issues, SeverityWarning, "transform[0].options.policy", "unknown dedupe policy") {
			t.Fatalf("expected warning for unknown dedupe policy; got %+v", issues)
		}
	})

	t.Run("require_no_fields", func(t *testing.T) {
		ts := []Transform{{Kind: "require", Options: Options{}}}
		issues := validateTransforms(ts)
		if !hasIssue(t, issues, SeverityError, "transform[0].options.fields", "at least one field") {
			t.Fatalf("expected error for require without fields; got %+v", issues)
		}
	})

	t.Run("well_formed_chain", func(t *testing.T) {
		ts := []Transform{
			{Kind: "fingerprint", Options: Options{}},
			{Kind: "dedupe", Options: Options{"keys": []any{"id"}, "policy": "keep-first"}},
			{Kind: "require", Options: Options{"fields": []any{"id"}}},
		}
		issues := validateTransforms(ts)
		if len(issues) != 0 {
			t.Fatalf("expected no issues for well-formed chain; got %+v", issues)
		}
	})
}

/*
TestValidateStorage_Cases checks storage kind and the shared DB settings
(DSN, table, optional column projection).
*/
func TestValidateStorage_Cases(t *testing.T) {
	t.Run("missing_kind", func(t *testing.T) {
		s := Storage{}
		issues := validateStorage(s)
		if !hasIssue(t, issues, SeverityError, "storage.kind", "must not be empty") {
			t.Fatalf("expected error for empty storage.kind; got %+v", issues)
		}
	})

	t.Run("unknown_kind", func(t *testing.T) {
		s := Storage{Kind: "weird"}
		issues := validateStorage(s)
		if !hasIssue(t, issues, SeverityWarning, "storage.kind", "unknown storage kind") {
			t.Fatalf("expected warning for unknown storage.kind; got %+v", issues)
		}
	})

	t.Run("missing_dsn_and_table", func(t *testing.T) {
		s := Storage{
			Kind: "postgres",
			DB:   DBConfig{},
		}
		issues := validateStorage(s)
		if !hasIssue(t, issues, SeverityError, "storage.db.dsn", "must not be empty") {
			t.Fatalf("expected error for empty dsn; got %+v", issues)
		}
		if !hasIssue(t, issues, SeverityError, "storage.db.table", "must not be empty") {
			t.Fatalf("expected error for empty table; got %+v", issues)
		}
	})

	t.Run("no_columns_is_valid", func(t *testing.T) {
		// Columns is an optional projection; absent means load everything.
		s := Storage{
			Kind: "postgres",
			DB: DBConfig{
				DSN:             "postgres://x",
				Table:           "public.t",
				AutoCreateTable: true,
			},
		}
		issues := validateStorage(s)
		if len(issues) != 0 {
			t.Fatalf("expected no issues; got %+v", issues)
		}
	})

	t.Run("blank_column_name", func(t *testing.T) {
		s := Storage{
			Kind: "mysql",
			DB: DBConfig{
				DSN:     "user:pass@tcp(localhost:3306)/db",
				Table:   "t",
				Columns: []string{"id", "  "},
			},
		}
		issues := validateStorage(s)
		if !hasIssue(t, issues, SeverityError, "storage.db.columns[1]", "must not be empty") {
			t.Fatalf("expected error for blank column name; got %+v", issues)
		}
	})

	t.Run("valid_storage", func(t *testing.T) {
		s := Storage{
			Kind: "postgres",
			DB: DBConfig{
				DSN:             "postgres://x",
				Table:           "public.t",
				Columns:         []string{"id", "name"},
				AutoCreateTable: false,
			},
		}
		issues := validateStorage(s)
		if len(issues) != 0 {
			t.Fatalf("expected no issues; got %+v", issues)
		}
	})
}

/*
TestValidateRuntime_Cases checks RuntimeConfig boundaries: zeros select
defaults and are valid, negatives are errors.
*/
func TestValidateRuntime_Cases(t *testing.T) {
	t.Run("negatives", func(t *testing.T) {
		r := RuntimeConfig{
			Workers:   -1,
			BatchSize: -10,
		}
		issues := validateRuntime(r)

		if !hasIssue(t, issues, SeverityError, "runtime.workers", "must not be negative") {
			t.Fatalf("expected error for negative workers; got %+v", issues)
		}
		if !hasIssue(t, issues, SeverityError, "runtime.batch_size", "must not be negative") {
			t.Fatalf("expected error for negative batch_size; got %+v", issues)
		}
	})

	t.Run("zeros_are_defaults", func(t *testing.T) {
		r := RuntimeConfig{}
		issues := validateRuntime(r)
		if len(issues) != 0 {
			t.Fatalf("expected no issues for zero runtime config; got %+v", issues)
		}
	})

	t.Run("valid_runtime", func(t *testing.T) {
		r := RuntimeConfig{
			Workers:   2,
			BatchSize: 1000,
		}
		issues := validateRuntime(r)
		if len(issues) != 0 {
			t.Fatalf("expected no issues; got %+v", issues)
		}
	})
}
