// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql and the pure-Go modernc.org/sqlite driver. Times are stored as
// UTC "2006-01-02 15:04:05" text so they sort lexically.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	gddl "dbimport/internal/ddl"
	"dbimport/internal/record"
	"dbimport/internal/storage"
	sqliteddl "dbimport/internal/storage/sqlite/ddl"
)

// ParamLimit is SQLITE_MAX_VARIABLE_NUMBER for SQLite 3.32 and later.
const ParamLimit = 32766

// createdAtIndex is the position of created_at in storage.Row.
const createdAtIndex = 1

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db        *sql.DB
	table     gddl.TableDef
	fqn       string
	cols      []string
	selectSQL string
}

// NewRepository opens a SQLite connection using the provided DSN and returns
// a Repository plus a Close function for cleanup.
//
// DSN is passed directly to database/sql; for example:
//
//	"file:tweets.db?_pragma=busy_timeout(5000)"
//	"tweets.db"
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		dsn = strings.TrimSpace(cfg.Path)
	}
	if dsn == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN or path must not be empty")
	}
	table := gddl.TweetTable(cfg.Table)
	if err := table.Validate(); err != nil {
		return nil, nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// SQLite allows one writer; ":memory:" databases are also per-connection.
	db.SetMaxOpenConns(1)

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = storage.DefaultConnectTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	return newRepo(db, table), func() { _ = db.Close() }, nil
}

func newRepo(db *sql.DB, table gddl.TableDef) *Repository {
	fqn := sqliteddl.QuoteFQN(table.FQN)
	return &Repository{
		db:    db,
		table: table,
		fqn:   fqn,
		cols:  storage.QuoteAll(table.InsertColumns(), sqliteddl.QuoteIdent),
		selectSQL: fmt.Sprintf("SELECT %s FROM %s ORDER BY %s DESC, %s DESC LIMIT ?",
			strings.Join(storage.QuoteAll(table.ColumnNames(), sqliteddl.QuoteIdent), ", "),
			fqn, sqliteddl.QuoteIdent("created_at"), sqliteddl.QuoteIdent("id")),
	}
}

// EnsureSchema implements storage.Repository.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	stmts, err := sqliteddl.BuildSchemaSQL(r.table)
	if err != nil {
		return &storage.SchemaError{Table: r.table.FQN, Err: err}
	}
	return storage.ExecSchema(ctx, r.db, r.table.FQN, stmts)
}

// InsertBatch implements storage.Repository.
func (r *Repository) InsertBatch(ctx context.Context, recs []record.Record) (int64, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	if len(recs)*len(r.cols) > ParamLimit {
		return 0, &storage.WriteError{Rows: len(recs), Err: fmt.Errorf("batch exceeds %d variables", ParamLimit)}
	}
	rows, rejected := storage.SignedRows(recs)
	if len(rows) == 0 {
		return 0, rejected
	}
	for _, row := range rows {
		row[createdAtIndex] = row[createdAtIndex].(time.Time).Format(time.DateTime)
	}
	query, err := storage.BuildInsert(r.fqn, r.cols, len(rows), storage.QuestionMark)
	if err != nil {
		return 0, &storage.WriteError{Rows: len(recs), Err: err}
	}
	n, err := storage.ExecInsert(ctx, r.db, query, storage.FlattenRows(rows), len(rows))
	if err != nil {
		return 0, err
	}
	return n, rejected
}

// Summary implements storage.Repository.
func (r *Repository) Summary(ctx context.Context, limit int) (storage.Summary, error) {
	return storage.QuerySummary(ctx, r.db, "SELECT COUNT(*) FROM "+r.fqn, r.selectSQL, limit)
}
