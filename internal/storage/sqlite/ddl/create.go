// Package ddl provides SQLite-specific helpers for generating CREATE TABLE
// statements from the generic ddl.TableDef model.
//
// The builder here:
//   - Uses simple double-quoted identifiers: "table", "col".
//   - Emits CREATE TABLE IF NOT EXISTS and CREATE INDEX IF NOT EXISTS.
//   - Treats ColumnDef.Default as raw SQL.
//   - Renders the serial key inline, as SQLite requires for AUTOINCREMENT.
package ddl

import (
	"strings"

	gddl "dbimport/internal/ddl"
	"dbimport/internal/storage"
)

// QuoteIdent quotes a single identifier segment.
func QuoteIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// QuoteFQN quotes each dot-separated part of name.
func QuoteFQN(name string) string { return storage.QuoteFQN(name, QuoteIdent) }

// BuildSchemaSQL returns the statements that create t and its indexes.
//
// SQLite qualifies the index name rather than the indexed table, so for
// "main.tweets" the index statement reads
//
//	CREATE INDEX IF NOT EXISTS "main"."idx" ON "tweets" (...)
func BuildSchemaSQL(t gddl.TableDef) ([]string, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		var sb strings.Builder
		sb.WriteString(QuoteIdent(c.Name))
		sb.WriteByte(' ')
		sb.WriteString(MapType(c))
		if !c.Nullable && c.Type != gddl.Serial {
			sb.WriteString(" NOT NULL")
		}
		if c.Default != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(c.Default)
		}
		lines = append(lines, sb.String())
	}

	stmts := []string{
		"CREATE TABLE IF NOT EXISTS " + QuoteFQN(t.FQN) + " (\n  " + strings.Join(lines, ",\n  ") + "\n)",
	}

	schema, table := "", t.FQN
	if i := strings.LastIndexByte(t.FQN, '.'); i >= 0 {
		schema, table = t.FQN[:i], t.FQN[i+1:]
	}
	for _, ix := range t.Indexes {
		name := QuoteIdent(ix.Name)
		if schema != "" {
			name = QuoteIdent(schema) + "." + name
		}
		stmts = append(stmts, "CREATE INDEX IF NOT EXISTS "+name+" ON "+QuoteIdent(table)+" ("+
			strings.Join(storage.QuoteAll(ix.Columns, QuoteIdent), ", ")+")")
	}
	return stmts, nil
}
