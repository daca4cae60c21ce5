package ddl

import gddl "dbimport/internal/ddl"

// MapType maps a semantic column type into a SQLite column type.
//
// SQLite uses dynamic typing, so this mapping only picks the canonical
// affinities:
//   - integer-ish types -> INTEGER
//   - boolean          -> INTEGER (0/1)
//   - date/time        -> TEXT ("2006-01-02 15:04:05", UTC)
//   - strings          -> TEXT (length is enforced by the normalizer)
func MapType(c gddl.ColumnDef) string {
	switch c.Type {
	case gddl.Serial:
		return "INTEGER PRIMARY KEY AUTOINCREMENT"
	case gddl.Uint64, gddl.Int32, gddl.Bool:
		return "INTEGER"
	case gddl.Float:
		return "REAL"
	default:
		return "TEXT"
	}
}
