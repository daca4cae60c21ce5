// Package mssql implements a Microsoft SQL Server repository using the
// go-mssqldb bulk copy API. Each batch is bulk-copied into the target table
// inside one transaction, which sidesteps the 2100 parameter cap of a
// multi-row INSERT.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	gddl "dbimport/internal/ddl"
	"dbimport/internal/record"
	"dbimport/internal/storage"
	msddl "dbimport/internal/storage/mssql/ddl"
)

// DefaultPort is used when Config.Port is zero.
const DefaultPort = 1433

// Config holds MSSQL repository configuration.
type Config struct {
	DSN            string // sqlserver:// URL or ADO string; built from the fields below when empty
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	Table          string // e.g. "dbo.tweets"
	ConnectTimeout time.Duration
}

// Repository is an MSSQL-backed implementation of storage.Repository.
type Repository struct {
	db        *sql.DB
	table     gddl.TableDef
	fqn       string
	cols      []string
	selectSQL string
}

// BuildDSN returns cfg.DSN, or a sqlserver:// URL assembled from the discrete
// fields. The result is validated with msdsn.Parse.
func BuildDSN(cfg Config) (string, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		if cfg.Host == "" || cfg.Name == "" {
			return "", fmt.Errorf("mssql: host and database name are required without a DSN")
		}
		port := cfg.Port
		if port == 0 {
			port = DefaultPort
		}
		u := url.URL{
			Scheme:   "sqlserver",
			Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
			RawQuery: url.Values{"database": {cfg.Name}}.Encode(),
		}
		if cfg.User != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		}
		dsn = u.String()
	}
	// Validate DSN early to fail fast on obvious mistakes.
	if _, err := msdsn.Parse(dsn); err != nil {
		return "", fmt.Errorf("mssql dsn: %w", err)
	}
	return dsn, nil
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	table := gddl.TweetTable(cfg.Table)
	if err := table.Validate(); err != nil {
		return nil, nil, err
	}
	dsn, err := BuildDSN(cfg)
	if err != nil {
		return nil, nil, err
	}
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("sql.Open: %w", err)
	}
	db.SetMaxOpenConns(1)

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = storage.DefaultConnectTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	return newRepo(db, table), func() { _ = db.Close() }, nil
}

func newRepo(db *sql.DB, table gddl.TableDef) *Repository {
	fqn := msddl.QuoteFQN(table.FQN)
	return &Repository{
		db:    db,
		table: table,
		fqn:   fqn,
		cols:  table.InsertColumns(),
		selectSQL: fmt.Sprintf("SELECT TOP (@p1) %s FROM %s ORDER BY %s DESC",
			strings.Join(storage.QuoteAll(table.ColumnNames(), msddl.QuoteIdent), ", "),
			fqn, msddl.QuoteIdent("created_at")),
	}
}

// EnsureSchema implements storage.Repository.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	stmts, err := msddl.BuildSchemaSQL(r.table)
	if err != nil {
		return &storage.SchemaError{Table: r.table.FQN, Err: err}
	}
	return storage.ExecSchema(ctx, r.db, r.table.FQN, stmts)
}

// InsertBatch implements storage.Repository. The bulk copy runs in a
// transaction so a failed batch leaves no rows behind.
func (r *Repository) InsertBatch(ctx context.Context, recs []record.Record) (int64, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	rows, rejected := storage.SignedRows(recs)
	if len(rows) == 0 {
		return 0, rejected
	}
	n, err := r.copyIn(ctx, rows)
	if err != nil {
		return 0, &storage.WriteError{Rows: len(recs), Err: err}
	}
	return n, rejected
}

func (r *Repository) copyIn(ctx context.Context, rows [][]any) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	rollback := func() { _ = tx.Rollback() }

	stmt, err := tx.PrepareContext(ctx, mssql.CopyIn(r.fqn, mssql.BulkOptions{}, r.cols...))
	if err != nil {
		rollback()
		return 0, fmt.Errorf("prepare bulk: %w", err)
	}
	for i := range rows {
		if _, err := stmt.ExecContext(ctx, rows[i]...); err != nil {
			_ = stmt.Close()
			rollback()
			return 0, fmt.Errorf("bulk row %d: %w", i, err)
		}
	}
	res, err := stmt.ExecContext(ctx)
	if cerr := stmt.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		rollback()
		return 0, fmt.Errorf("bulk finalize: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		rollback()
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

// Summary implements storage.Repository.
func (r *Repository) Summary(ctx context.Context, limit int) (storage.Summary, error) {
	return storage.QuerySummary(ctx, r.db, "SELECT COUNT_BIG(*) FROM "+r.fqn, r.selectSQL, limit)
}
