// Package ddl provides MSSQL-specific helpers for generating CREATE TABLE
// statements from the generic ddl.TableDef model.
//
// The builder here:
//   - Uses SQL Server-style identifier quoting: [schema].[table], [col].
//   - Wraps CREATE TABLE in an IF OBJECT_ID(...) IS NULL guard since T-SQL
//     does not support CREATE TABLE IF NOT EXISTS.
//   - Guards each CREATE INDEX with a sys.indexes lookup.
//   - Renders PRIMARY KEY constraints as a separate clause.
package ddl

import (
	"fmt"
	"strings"

	gddl "dbimport/internal/ddl"
	"dbimport/internal/storage"
)

// BuildSchemaSQL returns T-SQL batches that create the table and its
// indexes if they do not already exist.
//
// The table batch has the form:
//
//	IF OBJECT_ID(N'[schema].[table]', N'U') IS NULL
//	BEGIN
//	  CREATE TABLE [schema].[table] (
//	    [col1] TYPE [NOT NULL] [DEFAULT expr],
//	    [col2] TYPE,
//	    PRIMARY KEY ([pk1], [pk2])
//	  );
//	END
func BuildSchemaSQL(t gddl.TableDef) ([]string, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, 1)
	for _, c := range t.Columns {
		var sb strings.Builder
		sb.WriteString(QuoteIdent(c.Name))
		sb.WriteByte(' ')
		sb.WriteString(MapType(c))
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(MapDefault(def))
		}
		cols = append(cols, sb.String())
		if c.PrimaryKey {
			pks = append(pks, QuoteIdent(c.Name))
		}
	}
	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	fqn := QuoteFQN(t.FQN)
	stmts := []string{fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n  CREATE TABLE %s (\n    %s\n  );\nEND",
		fqn, fqn, strings.Join(cols, ",\n    "),
	)}
	for _, ix := range t.Indexes {
		stmts = append(stmts, fmt.Sprintf(
			"IF NOT EXISTS (SELECT 1 FROM sys.indexes WHERE name = N'%s' AND object_id = OBJECT_ID(N'%s'))\n  CREATE INDEX %s ON %s (%s)",
			ix.Name, fqn, QuoteIdent(ix.Name), fqn,
			strings.Join(storage.QuoteAll(ix.Columns, QuoteIdent), ", "),
		))
	}
	return stmts, nil
}

// QuoteIdent quotes a single identifier segment for SQL Server using
// bracket syntax, escaping any closing brackets.
//
//	name      -> [name]
//	weird]id  -> [weird]]id]
func QuoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

// QuoteFQN quotes a possibly schema-qualified table name, e.g.:
//
//	"dbo.Users"   -> [dbo].[Users]
//	"Users"       -> [Users]
func QuoteFQN(fqn string) string { return storage.QuoteFQN(fqn, QuoteIdent) }
