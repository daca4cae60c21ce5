// Package ddl defines a small, backend-agnostic model of the importer's
// table and the fixed tweet schema built from it.
//
// It does not render SQL. Backend packages (internal/storage/<kind>) map the
// semantic column types to their dialect and emit the CREATE statements.
package ddl

import (
	"fmt"
	"regexp"
	"strings"

	"dbimport/internal/record"
)

// identPattern accepts plain identifiers and one optional schema qualifier.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}(\.[A-Za-z_][A-Za-z0-9_]{0,63})?$`)

// ValidTableName reports whether name is safe to splice into DDL/DML after
// quoting: letters, digits and underscores, optionally schema-qualified.
func ValidTableName(name string) bool {
	return identPattern.MatchString(name)
}

// TweetTable returns the fixed definition of the tweet table named fqn.
//
// The primary key "id" is a surrogate; every other column is written by
// the importer in the order returned by InsertColumns.
func TweetTable(fqn string) TableDef {
	base := fqn
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		base = base[i+1:]
	}
	return TableDef{
		FQN: fqn,
		Columns: []ColumnDef{
			{Name: "id", Type: Serial, PrimaryKey: true},
			{Name: "record_id", Type: Uint64},
			{Name: "created_at", Type: DateTime},
			{Name: "text", Type: String, Size: record.MaxTextLen},
			{Name: "lat", Type: Float, Nullable: true},
			{Name: "lon", Type: Float, Nullable: true},
			{Name: "author_id", Type: Uint64},
			{Name: "author_handle", Type: String, Size: record.MaxHandleLen},
			{Name: "author_name", Type: String, Size: record.MaxNameLen},
			{Name: "author_location", Type: String, Size: record.MaxLocationLen, Nullable: true},
			{Name: "author_tz", Type: String, Size: record.MaxTimezoneLen, Nullable: true},
			{Name: "author_utc_offset", Type: Int32, Nullable: true},
			{Name: "author_geo_enabled", Type: Bool, Default: "FALSE"},
			{Name: "author_followers_count", Type: Int32, Nullable: true},
			{Name: "author_friends_count", Type: Int32, Nullable: true},
			{Name: "author_statuses_count", Type: Int32, Nullable: true},
			{Name: "reshared_from_id", Type: Uint64, Nullable: true},
		},
		Indexes: []IndexDef{
			{Name: "idx_" + base + "_author_id", Columns: []string{"author_id"}},
			{Name: "idx_" + base + "_created_at", Columns: []string{"created_at"}},
		},
	}
}

// InsertColumns returns the non-serial column names in table order.
func (t TableDef) InsertColumns() []string {
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.Type == Serial {
			continue
		}
		out = append(out, c.Name)
	}
	return out
}

// ColumnNames returns every column name in table order.
func (t TableDef) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Validate checks the definition is renderable.
func (t TableDef) Validate() error {
	if !ValidTableName(t.FQN) {
		return fmt.Errorf("ddl: invalid table name %q", t.FQN)
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("ddl: at least one column is required")
	}
	for _, c := range t.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("ddl: column with empty name in table %s", t.FQN)
		}
		if c.Type == String && c.Size <= 0 {
			return fmt.Errorf("ddl: string column %s needs a size", c.Name)
		}
	}
	return nil
}
