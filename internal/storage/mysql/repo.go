// Package mysql implements a MySQL-backed storage.Repository using
// go-sql-driver/mysql. Batches are written with one multi-row INSERT; ids are
// stored as BIGINT UNSIGNED so the full uint64 range round-trips.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	gddl "dbimport/internal/ddl"
	"dbimport/internal/record"
	"dbimport/internal/storage"
	myddl "dbimport/internal/storage/mysql/ddl"
)

// ParamLimit is the maximum number of placeholders in one MySQL statement.
const ParamLimit = 65535

// DefaultPort is used when Config.Port is zero.
const DefaultPort = 3306

// Config holds MySQL repository configuration.
type Config struct {
	DSN            string // go-sql-driver DSN; built from the fields below when empty
	Host           string
	Port           int
	User           string
	Password       string
	Name           string // database name
	Table          string // target table, optionally "db.table"
	ConnectTimeout time.Duration
}

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db        *sql.DB
	table     gddl.TableDef
	fqn       string
	cols      []string
	selectSQL string
}

// DriverConfig turns cfg into a go-sql-driver config. Times are always parsed
// as UTC time.Time values; connections built from parts use utf8mb4.
func DriverConfig(cfg Config) (*mysql.Config, error) {
	var mc *mysql.Config
	if strings.TrimSpace(cfg.DSN) != "" {
		parsed, err := mysql.ParseDSN(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("mysql dsn: %w", err)
		}
		mc = parsed
	} else {
		if cfg.Host == "" || cfg.Name == "" {
			return nil, fmt.Errorf("mysql: host and database name are required without a DSN")
		}
		port := cfg.Port
		if port == 0 {
			port = DefaultPort
		}
		mc = mysql.NewConfig()
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(port))
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.DBName = cfg.Name
		mc.Collation = "utf8mb4_unicode_ci"
	}
	mc.ParseTime = true
	mc.Loc = time.UTC
	if cfg.ConnectTimeout > 0 && mc.Timeout == 0 {
		mc.Timeout = cfg.ConnectTimeout
	}
	return mc, nil
}

// NewRepository opens and pings a MySQL connection and returns a Repository
// plus a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	table := gddl.TweetTable(cfg.Table)
	if err := table.Validate(); err != nil {
		return nil, nil, err
	}

	mc, err := DriverConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)

	// One writer; the pipeline never issues concurrent statements.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, timeoutOr(cfg.ConnectTimeout))
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("mysql ping: %w", err)
	}

	r := newRepo(db, table)
	return r, func() { _ = db.Close() }, nil
}

func newRepo(db *sql.DB, table gddl.TableDef) *Repository {
	fqn := myddl.QuoteFQN(table.FQN)
	return &Repository{
		db:    db,
		table: table,
		fqn:   fqn,
		cols:  storage.QuoteAll(table.InsertColumns(), myddl.QuoteIdent),
		selectSQL: fmt.Sprintf("SELECT %s FROM %s ORDER BY %s DESC LIMIT ?",
			strings.Join(storage.QuoteAll(table.ColumnNames(), myddl.QuoteIdent), ", "),
			fqn, myddl.QuoteIdent("created_at")),
	}
}

// EnsureSchema implements storage.Repository.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	stmts, err := myddl.BuildSchemaSQL(r.table)
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
		return 0, &storage.WriteError{Rows: len(recs), Err: fmt.Errorf("batch exceeds %d placeholders", ParamLimit)}
	}
	rows := make([][]any, len(recs))
	for i, rec := range recs {
		rows[i] = storage.Row(rec)
	}
	query, err := storage.BuildInsert(r.fqn, r.cols, len(recs), storage.QuestionMark)
	if err != nil {
		return 0, &storage.WriteError{Rows: len(recs), Err: err}
	}
	return storage.ExecInsert(ctx, r.db, query, storage.FlattenRows(rows), len(recs))
}

// Summary implements storage.Repository.
func (r *Repository) Summary(ctx context.Context, limit int) (storage.Summary, error) {
	return storage.QuerySummary(ctx, r.db, "SELECT COUNT(*) FROM "+r.fqn, r.selectSQL, limit)
}

func timeoutOr(d time.Duration) time.Duration {
	if d <= 0 {
		return storage.DefaultConnectTimeout
	}
	return d
}
