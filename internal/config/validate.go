// Package config provides configuration models and helpers for load pipelines.
//
// This file adds a lightweight linter/validator for Pipeline values. It
// performs static checks over a decoded Pipeline and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"regexp"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "storage.kind",
// "transform[1].options.keys"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ValidatePipeline performs static validation / linting of a Pipeline.
//
// It does not mutate the pipeline. Instead it returns a slice of Issue values.
// Callers may decide whether to treat warnings as fatal or not.
//
// Example:
//
//	var p config.Pipeline
//	if err := json.NewDecoder(r).Decode(&p); err != nil { ... }
//	issues := config.ValidatePipeline(p)
//	for _, iss := range issues {
//	    fmt.Printf("%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
//	}
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	// Top-level pipeline checks.
	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateParser(p.Parser)...)
	issues = append(issues, validateTransforms(p.Transform)...)
	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateRuntime(p.Runtime)...)

	return issues
}

// validateSource validates Source configuration.
func validateSource(s Source) []Issue {
	var issues []Issue

	// Kind is required.
	if strings.TrimSpace(s.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.kind",
			Message:  "source.kind must not be empty",
		})
		return issues
	}

	// Known source kinds. Unknown kinds are warnings (for forward compatibility).
	known := map[string]struct{}{
		"file":  {},
		"url":   {},
		"stdin": {},
	}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "source.kind",
			Message:  fmt.Sprintf("unknown source kind %q; ensure a matching implementation exists", s.Kind),
		})
	}

	// Kind-specific checks.
	switch s.Kind {
	case "file":
		if strings.TrimSpace(s.File.Path) == "" && strings.TrimSpace(s.File.List) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.file.path",
				Message:  "file source requires a non-empty path or list",
			})
		}
		if strings.TrimSpace(s.File.Path) != "" && strings.TrimSpace(s.File.List) != "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "source.file",
				Message:  "both path and list are set; list takes precedence",
			})
		}
	case "url":
		if strings.TrimSpace(s.URL.URL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.url.url",
				Message:  "url source requires a non-empty url",
			})
		}
	}

	return issues
}

// validateParser validates parser configuration.
func validateParser(p Parser) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "parser.kind",
			Message:  "parser.kind must not be empty",
		})
		return issues
	}

	known := map[string]struct{}{
		"csv": {},
	}
	if _, ok := known[p.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "parser.kind",
			Message:  fmt.Sprintf("unknown parser kind %q; ensure a matching implementation exists", p.Kind),
		})
	}

	// Parser-specific sanity checks (kept intentionally light).
	switch p.Kind {
	case "csv":
		if pat := p.Options.String("scrub_pattern", ""); pat != "" {
			if _, err := regexp.Compile(pat); err != nil {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     "parser.options.scrub_pattern",
					Message:  fmt.Sprintf("scrub_pattern is not a valid regular expression: %v", err),
				})
			}
		} else if p.Options.String("scrub_replacement", "") != "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "parser.options.scrub_replacement",
				Message:  "scrub_replacement is set but scrub_pattern is empty; it will have no effect",
			})
		}
		if comma := p.Options.String("comma", ""); len([]rune(comma)) > 1 {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "parser.options.comma",
				Message:  fmt.Sprintf("comma %q is longer than one character; only the first rune is used", comma),
			})
		}
	}

	return issues
}

// validateTransforms validates the transform chain.
//
// An empty chain is valid: converting parsed records as-is is the common case,
// so no warning is emitted for it.
func validateTransforms(ts []Transform) []Issue {
	var issues []Issue

	knownKinds := map[string]struct{}{
		"fingerprint": {},
		"dedupe":      {},
		"require":     {},
	}

	for i, t := range ts {
		path := fmt.Sprintf("transform[%d].kind", i)
		if strings.TrimSpace(t.Kind) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path,
				Message:  "transform kind must not be empty",
			})
			continue
		}
		if _, ok := knownKinds[t.Kind]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     path,
				Message:  fmt.Sprintf("unknown transform kind %q; ensure a matching implementation exists", t.Kind),
			})
		}

		// Transform-specific checks.
		switch t.Kind {
		case "dedupe":
			if len(t.Options.StringSlice("keys")) == 0 {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     fmt.Sprintf("transform[%d].options.keys", i),
					Message:  "dedupe transform requires at least one key field",
				})
			}
			policy := strings.ToLower(strings.TrimSpace(t.Options.String("policy", "")))
			switch policy {
			case "", "keep-first", "keep-last", "most-complete":
			default:
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     fmt.Sprintf("transform[%d].options.policy", i),
					Message:  fmt.Sprintf("unknown dedupe policy %q; falling back to keep-last", policy),
				})
			}
		case "require":
			if len(t.Options.StringSlice("fields")) == 0 {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     fmt.Sprintf("transform[%d].options.fields", i),
					Message:  "require transform requires at least one field name",
				})
			}
		}
	}

	return issues
}

// validateStorage validates storage configuration and DB settings.
func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage.kind must not be empty",
		})
		return issues
	}

	known := map[string]struct{}{
		"postgres": {},
		"mysql":    {},
		"mssql":    {},
		"sqlite":   {},
	}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
		})
	}

	// DB-specific checks (shared across backends). Columns is optional: when
	// empty, every inferred column is loaded.
	db := s.DB
	if strings.TrimSpace(db.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.dsn",
			Message:  "storage.db.dsn must not be empty",
		})
	}
	if strings.TrimSpace(db.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.table",
			Message:  "storage.db.table must not be empty",
		})
	}
	for i, col := range db.Columns {
		if strings.TrimSpace(col) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("storage.db.columns[%d]", i),
				Message:  "column names must not be empty",
			})
		}
	}

	return issues
}

// validateRuntime validates RuntimeConfig for obvious misconfigurations.
// Zero values are valid (they select defaults); negatives are not.
func validateRuntime(r RuntimeConfig) []Issue {
	var issues []Issue

	if r.Workers < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.workers",
			Message:  "workers must not be negative",
		})
	}
	if r.BatchSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.batch_size",
			Message:  "batch_size must not be negative",
		})
	}

	return issues
}
