// Package ddl contains Postgres-specific helpers for generating DDL.
package ddl

import (
	"fmt"

	gddl "dbimport/internal/ddl"
)

// MapType maps a semantic column type to its Postgres SQL type.
//
//	Serial   -> BIGSERIAL
//	Uint64   -> BIGINT (ids above MaxInt64 are rejected before insert)
//	DateTime -> TIMESTAMP(0)
//	String   -> VARCHAR(n)
//	Float    -> DOUBLE PRECISION
//	Int32    -> INTEGER
//	Bool     -> BOOLEAN
func MapType(c gddl.ColumnDef) string {
	switch c.Type {
	case gddl.Serial:
		return "BIGSERIAL"
	case gddl.Uint64:
		return "BIGINT"
	case gddl.DateTime:
		return "TIMESTAMP(0)"
	case gddl.String:
		return fmt.Sprintf("VARCHAR(%d)", c.Size)
	case gddl.Float:
		return "DOUBLE PRECISION"
	case gddl.Int32:
		return "INTEGER"
	case gddl.Bool:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}
