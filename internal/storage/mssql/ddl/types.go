// Package ddl contains MSSQL-specific helpers for generating DDL.
package ddl

import (
	"fmt"
	"strings"

	gddl "dbimport/internal/ddl"
)

// MapType maps a semantic column type into a SQL Server column type.
//
//	Serial   -> BIGINT IDENTITY(1,1)
//	Uint64   -> BIGINT
//	DateTime -> DATETIME2(0)
//	String   -> NVARCHAR(n)
//	Float    -> FLOAT
//	Int32    -> INT
//	Bool     -> BIT
func MapType(c gddl.ColumnDef) string {
	switch c.Type {
	case gddl.Serial:
		return "BIGINT IDENTITY(1,1)"
	case gddl.Uint64:
		return "BIGINT"
	case gddl.DateTime:
		return "DATETIME2(0)"
	case gddl.String:
		return fmt.Sprintf("NVARCHAR(%d)", c.Size)
	case gddl.Float:
		return "FLOAT"
	case gddl.Int32:
		return "INT"
	case gddl.Bool:
		return "BIT"
	default:
		return "NVARCHAR(MAX)"
	}
}

// MapDefault rewrites boolean literals, which T-SQL lacks, to BIT values.
func MapDefault(expr string) string {
	switch strings.ToUpper(strings.TrimSpace(expr)) {
	case "FALSE":
		return "0"
	case "TRUE":
		return "1"
	default:
		return expr
	}
}
