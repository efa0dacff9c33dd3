package mssql

import (
	"fmt"
	"strings"

	"github.com/lef237/ctj/internal/classify"
	"github.com/lef237/ctj/internal/schema"
)

// createTableSQL renders a T-SQL script that creates the table if it does
// not already exist. T-SQL has no CREATE TABLE IF NOT EXISTS, so the
// statement is wrapped in an IF OBJECT_ID(...) IS NULL guard:
//
//	IF OBJECT_ID(N'[dbo].[people]', N'U') IS NULL
//	BEGIN
//	  CREATE TABLE [dbo].[people] (
//	    [col1] TYPE [NOT NULL],
//	    [col2] TYPE
//	  );
//	END;
func createTableSQL(td schema.TableDef) (string, error) {
	fqn := strings.TrimSpace(td.FQN)
	if fqn == "" {
		return "", fmt.Errorf("mssql ddl: table FQN must not be empty")
	}
	if len(td.Columns) == 0 {
		return "", fmt.Errorf("mssql ddl: at least one column is required")
	}

	cols := make([]string, 0, len(td.Columns))
	for _, c := range td.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("mssql ddl: column with empty name in table %s", fqn)
		}
		def := msIdent(name) + " " + sqlType(c.Kind)
		if !c.Nullable {
			def += " NOT NULL"
		}
		cols = append(cols, def)
	}

	fqnQuoted := msFQN(fqn)
	stmt := fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n  CREATE TABLE %s (\n    %s\n  );\nEND;",
		fqnQuoted,
		fqnQuoted,
		strings.Join(cols, ",\n    "),
	)
	return stmt, nil
}

// sqlType maps a scalar kind to the SQL Server column type.
func sqlType(k classify.Kind) string {
	switch k {
	case classify.KindBoolean:
		return "BIT"
	case classify.KindInteger:
		return "BIGINT"
	case classify.KindFloat:
		return "FLOAT(53)"
	default:
		return "NVARCHAR(MAX)"
	}
}
