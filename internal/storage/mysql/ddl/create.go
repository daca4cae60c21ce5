// Package ddl provides MySQL-specific helpers for generating CREATE TABLE
// statements from the generic ddl.TableDef model.
//
// The builder here:
//   - Uses backtick quoting: `schema`.`table`, `col`.
//   - Emits CREATE TABLE IF NOT EXISTS with inline KEY clauses, so one
//     statement creates the table and its secondary indexes.
//   - Uses InnoDB and utf8mb4 so 4-byte code points round-trip.
package ddl

import (
	"strings"

	gddl "dbimport/internal/ddl"
	"dbimport/internal/storage"
)

// QuoteIdent quotes a single identifier segment with backticks.
func QuoteIdent(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }

// QuoteFQN quotes a possibly schema-qualified name: db.t -> `db`.`t`.
func QuoteFQN(name string) string { return storage.QuoteFQN(name, QuoteIdent) }

// BuildSchemaSQL returns the statements that create t if it does not exist.
// For MySQL this is a single statement.
func BuildSchemaSQL(t gddl.TableDef) ([]string, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(t.Columns)+len(t.Indexes)+1)
	var pks []string
	for _, c := range t.Columns {
		var sb strings.Builder
		sb.WriteString(QuoteIdent(c.Name))
		sb.WriteByte(' ')
		sb.WriteString(MapType(c))
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		if c.Type == gddl.Serial {
			sb.WriteString(" AUTO_INCREMENT")
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
	for _, ix := range t.Indexes {
		lines = append(lines, "KEY "+QuoteIdent(ix.Name)+" ("+
			strings.Join(storage.QuoteAll(ix.Columns, QuoteIdent), ", ")+")")
	}

	stmt := "CREATE TABLE IF NOT EXISTS " + QuoteFQN(t.FQN) + " (\n  " +
		strings.Join(lines, ",\n  ") +
		"\n) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"
	return []string{stmt}, nil
}
