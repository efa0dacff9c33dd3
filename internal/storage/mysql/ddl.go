package mysql

import (
	"fmt"
	"strings"

	"github.com/lef237/ctj/internal/classify"
	"github.com/lef237/ctj/internal/schema"
)

// createTableSQL renders a CREATE TABLE IF NOT EXISTS statement for the
// given definition using MySQL quoting and types.
func createTableSQL(td schema.TableDef) (string, error) {
	fqn := strings.TrimSpace(td.FQN)
	if fqn == "" {
		return "", fmt.Errorf("mysql ddl: table FQN must not be empty")
	}
	if len(td.Columns) == 0 {
		return "", fmt.Errorf("mysql ddl: at least one column is required")
	}

	cols := make([]string, 0, len(td.Columns))
	for _, c := range td.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("mysql ddl: column with empty name in table %s", fqn)
		}
		def := myIdent(name) + " " + sqlType(c.Kind)
		if !c.Nullable {
			def += " NOT NULL"
		}
		cols = append(cols, def)
	}

	stmt := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		myFQN(fqn),
		strings.Join(cols, ",\n  "),
	)
	return stmt, nil
}

// sqlType maps a scalar kind to the MySQL column type.
func sqlType(k classify.Kind) string {
	switch k {
	case classify.KindBoolean:
		return "TINYINT(1)"
	case classify.KindInteger:
		return "BIGINT"
	case classify.KindFloat:
		return "DOUBLE"
	default:
		return "TEXT"
	}
}
