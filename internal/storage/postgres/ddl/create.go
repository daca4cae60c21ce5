package ddl

import (
	"strings"

	gddl "dbimport/internal/ddl"
	"dbimport/internal/storage"
)

// QuoteIdent safely quotes a single identifier segment for Postgres.
func QuoteIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// QuoteFQN quotes a possibly schema-qualified name like "public.tweets" to
// "public"."tweets".
func QuoteFQN(name string) string { return storage.QuoteFQN(name, QuoteIdent) }

// BuildSchemaSQL returns CREATE TABLE IF NOT EXISTS for t followed by one
// CREATE INDEX IF NOT EXISTS per index. Index names are unqualified; Postgres
// places them in the table's schema.
//
// Primary-key columns are always rendered as NOT NULL.
func BuildSchemaSQL(t gddl.TableDef) ([]string, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	fqn := QuoteFQN(t.FQN)

	lines := make([]string, 0, len(t.Columns)+1)
	var pks []string
	for _, c := range t.Columns {
		var sb strings.Builder
		sb.WriteString(QuoteIdent(c.Name))
		sb.WriteByte(' ')
		sb.WriteString(MapType(c))
		if !c.Nullable || c.PrimaryKey {
			sb.WriteString(" NOT NULL")
		}
		if c.Default != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(c.Default)
		}
		lines = append(lines, sb.String())
		if c.PrimaryKey {
			pks = append(pks, QuoteIdent(c.Name))
		}
	}
	if len(pks) > 0 {
		lines = append(lines, "PRIMARY KEY ("+strings.Join(pks, ", ")+")")
	}

	stmts := []string{
		"CREATE TABLE IF NOT EXISTS " + fqn + " (\n  " + strings.Join(lines, ",\n  ") + "\n)",
	}
	for _, ix := range t.Indexes {
		stmts = append(stmts, "CREATE INDEX IF NOT EXISTS "+QuoteIdent(ix.Name)+" ON "+fqn+" ("+
			strings.Join(storage.QuoteAll(ix.Columns, QuoteIdent), ", ")+")")
	}
	return stmts, nil
}
