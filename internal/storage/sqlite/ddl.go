package sqlite

import (
	"fmt"
	"strings"

	"github.com/lef237/ctj/internal/classify"
	"github.com/lef237/ctj/internal/schema"
)

// createTableSQL renders a CREATE TABLE IF NOT EXISTS statement for the
// given definition using SQLite affinities. Booleans are stored as INTEGER
// 0/1, which is what the driver binds bool values to.
func createTableSQL(td schema.TableDef) (string, error) {
	fqn := strings.TrimSpace(td.FQN)
	if fqn == "" {
		return "", fmt.Errorf("sqlite ddl: table FQN must not be empty")
	}
	if len(td.Columns) == 0 {
		return "", fmt.Errorf("sqlite ddl: at least one column is required")
	}

	cols := make([]string, 0, len(td.Columns))
	for _, c := range td.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("sqlite ddl: column with empty name in table %s", fqn)
		}
		def := quoteIdent(name) + " " + sqlType(c.Kind)
		if !c.Nullable {
			def += " NOT NULL"
		}
		cols = append(cols, def)
	}

	stmt := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		quoteFQN(fqn),
		strings.Join(cols, ",\n  "),
	)
	return stmt, nil
}

// sqlType maps a scalar kind to a SQLite column affinity.
func sqlType(k classify.Kind) string {
	switch k {
	case classify.KindBoolean, classify.KindInteger:
		return "INTEGER"
	case classify.KindFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}
