// Package sqlite implements a SQLite-backed storage.Repository.
package sqlite

import "time"

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.:
	//   "file:tweets.db?_pragma=journal_mode(WAL)"
	//   "tweets.db" (interpreted by the driver)
	//   ":memory:"
	// When empty, Path is used.
	DSN string

	// Path is the database file, used when DSN is empty.
	Path string

	// Table is the target table name, e.g. "tweets". A "main." style schema
	// prefix is accepted.
	Table string

	ConnectTimeout time.Duration
}
