// Package storage contains the storage-agnostic contract between the ingest
// pipeline and the relational backends.
//
// Backends (mysql, postgres, sqlite, mssql) live in subpackages and register
// a Factory for their kind at init time. Callers import
// dbimport/internal/storage/all for the side effects and then open a
// Repository with New, without referring to any backend directly.
package storage

import (
	"context"
	"time"

	"dbimport/internal/record"
)

// Repository is the store writer used by the pipeline and the dashboard.
type Repository interface {
	// EnsureSchema creates the target table and its indexes if absent. It is
	// idempotent. Failures are *SchemaError.
	EnsureSchema(ctx context.Context) error

	// InsertBatch writes every record in one multi-row INSERT and returns the
	// number of rows written. Failures are *WriteError; nothing from a failed
	// batch is committed. A record the backend cannot represent is left out
	// and reported in a *RejectError returned with the count of the rest.
	InsertBatch(ctx context.Context, recs []record.Record) (int64, error)

	// Summary returns the row count and the latest rows by created_at.
	Summary(ctx context.Context, limit int) (Summary, error)

	// Close releases the connection.
	Close()
}

// Config is the backend-agnostic connection config handed to a Factory.
type Config struct {
	// Kind selects the backend: "mysql", "postgres", "sqlite" or "mssql".
	Kind string

	// DSN is the backend-specific connection string. Backends that support
	// discrete parameters build one when DSN is empty.
	DSN string

	Host     string
	Port     int
	User     string
	Password string
	Name     string

	// Table is the target table, optionally schema-qualified.
	Table string

	// ConnectTimeout bounds the initial ping.
	ConnectTimeout time.Duration
}

// StoredRecord is a record read back from the table.
type StoredRecord struct {
	ID int64
	record.Record
}

// Summary is the read-only view used by the dashboard.
type Summary struct {
	Count  int64
	Latest []StoredRecord
}
