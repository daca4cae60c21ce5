package ddl

// ColumnType is the semantic type of a column. Backends map each type to
// their own SQL type name at render time.
type ColumnType int

const (
	// Serial is an auto-incrementing surrogate key.
	Serial ColumnType = iota
	// Uint64 holds unsigned 64-bit ids.
	Uint64
	// DateTime is a timestamp with second precision.
	DateTime
	// String is a variable-length UTF-8 string of at most Size characters.
	String
	// Float is a floating-point number.
	Float
	// Int32 is a signed 32-bit integer.
	Int32
	// Bool is a boolean flag.
	Bool
)

// ColumnDef describes a single column in a table definition.
//
// Fields:
//   - Name: column name (unquoted; quoting happens at render time)
//   - Type: semantic type
//   - Size: maximum length for String columns
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is the primary key
//   - Default: raw default expression; Bool columns use FALSE or TRUE
type ColumnDef struct {
	Name       string
	Type       ColumnType
	Size       int
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// IndexDef is a secondary, non-unique index over one or more columns.
type IndexDef struct {
	Name    string
	Columns []string
}

// TableDef holds the table name (FQN, optionally "schema.table"), its
// ordered columns and its secondary indexes.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
	Indexes []IndexDef
}
