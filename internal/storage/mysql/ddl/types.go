// Package ddl contains MySQL-specific helpers for generating DDL.
package ddl

import (
	"fmt"

	gddl "dbimport/internal/ddl"
)

// MapType returns the MySQL column type for c.
//
//	Serial   -> BIGINT (AUTO_INCREMENT is added by the builder)
//	Uint64   -> BIGINT UNSIGNED
//	DateTime -> DATETIME
//	String   -> VARCHAR(n)   (table charset is utf8mb4)
//	Float    -> DOUBLE
//	Int32    -> INT
//	Bool     -> TINYINT(1)
func MapType(c gddl.ColumnDef) string {
	switch c.Type {
	case gddl.Serial:
		return "BIGINT"
	case gddl.Uint64:
		return "BIGINT UNSIGNED"
	case gddl.DateTime:
		return "DATETIME"
	case gddl.String:
		return fmt.Sprintf("VARCHAR(%d)", c.Size)
	case gddl.Float:
		return "DOUBLE"
	case gddl.Int32:
		return "INT"
	case gddl.Bool:
		return "TINYINT(1)"
	}
	return "TEXT"
}
