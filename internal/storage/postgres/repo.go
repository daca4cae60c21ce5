// Package postgres implements a Postgres repository using pgx v5. Each batch
// is one multi-row INSERT with $n placeholders.
package postgres

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	gddl "dbimport/internal/ddl"
	"dbimport/internal/record"
	"dbimport/internal/storage"
	pgddl "dbimport/internal/storage/postgres/ddl"
)

// ParamLimit is the Postgres wire protocol limit on bind parameters.
const ParamLimit = 65535

// DefaultPort is used when Config.Port is zero.
const DefaultPort = 5432

// Config holds Postgres repository configuration.
type Config struct {
	DSN            string // connection string for pgxpool; built from the fields below when empty
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	Table          string // target table, e.g. "public.tweets"
	ConnectTimeout time.Duration
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool      *pgxpool.Pool
	table     gddl.TableDef
	fqn       string
	cols      []string
	selectSQL string
}

// BuildDSN returns cfg.DSN, or a postgres:// URL assembled from the discrete
// fields.
func BuildDSN(cfg Config) (string, error) {
	if dsn := strings.TrimSpace(cfg.DSN); dsn != "" {
		return dsn, nil
	}
	if cfg.Host == "" || cfg.Name == "" {
		return "", fmt.Errorf("postgres: host and database name are required without a DSN")
	}
	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		Path:   "/" + cfg.Name,
	}
	if cfg.User != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		} else {
			u.User = url.User(cfg.User)
		}
	}
	return u.String(), nil
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
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool config: %w", err)
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = storage.DefaultConnectTimeout
	}
	pcfg.ConnConfig.ConnectTimeout = timeout
	pcfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres ping: %w", err)
	}

	return newRepo(pool, table), func() { pool.Close() }, nil
}

func newRepo(pool *pgxpool.Pool, table gddl.TableDef) *Repository {
	fqn := pgddl.QuoteFQN(table.FQN)
	return &Repository{
		pool:  pool,
		table: table,
		fqn:   fqn,
		cols:  storage.QuoteAll(table.InsertColumns(), pgddl.QuoteIdent),
		selectSQL: fmt.Sprintf("SELECT %s FROM %s ORDER BY %s DESC LIMIT $1",
			strings.Join(storage.QuoteAll(table.ColumnNames(), pgddl.QuoteIdent), ", "),
			fqn, pgddl.QuoteIdent("created_at")),
	}
}

// EnsureSchema implements storage.Repository.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	stmts, err := pgddl.BuildSchemaSQL(r.table)
	if err != nil {
		return &storage.SchemaError{Table: r.table.FQN, Err: err}
	}
	for _, stmt := range stmts {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return &storage.SchemaError{Table: r.table.FQN, Err: err}
		}
	}
	return nil
}

// InsertBatch implements storage.Repository. Records with ids above MaxInt64
// are rejected with storage.ErrIDOutOfRange; the rest are written.
func (r *Repository) InsertBatch(ctx context.Context, recs []record.Record) (int64, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	if len(recs)*len(r.cols) > ParamLimit {
		return 0, &storage.WriteError{Rows: len(recs), Err: fmt.Errorf("batch exceeds %d bind parameters", ParamLimit)}
	}
	rows, rejected := storage.SignedRows(recs)
	if len(rows) == 0 {
		return 0, rejected
	}
	query, err := storage.BuildInsert(r.fqn, r.cols, len(rows), storage.Dollar)
	if err != nil {
		return 0, &storage.WriteError{Rows: len(recs), Err: err}
	}
	tag, err := r.pool.Exec(ctx, query, storage.FlattenRows(rows)...)
	if err != nil {
		return 0, &storage.WriteError{Rows: len(recs), Err: err}
	}
	return tag.RowsAffected(), rejected
}

// Summary implements storage.Repository.
func (r *Repository) Summary(ctx context.Context, limit int) (storage.Summary, error) {
	var s storage.Summary
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+r.fqn).Scan(&s.Count); err != nil {
		return storage.Summary{}, fmt.Errorf("postgres: count: %w", err)
	}
	rows, err := r.pool.Query(ctx, r.selectSQL, limit)
	if err != nil {
		return storage.Summary{}, fmt.Errorf("postgres: latest: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rec     storage.StoredRecord
			created any
		)
		if err := rows.Scan(storage.ScanDest(&rec, &created)...); err != nil {
			return storage.Summary{}, fmt.Errorf("postgres: scan: %w", err)
		}
		if rec.CreatedAt, err = storage.AsTime(created); err != nil {
			return storage.Summary{}, err
		}
		s.Latest = append(s.Latest, rec)
	}
	if err := rows.Err(); err != nil {
		return storage.Summary{}, fmt.Errorf("postgres: latest: %w", err)
	}
	return s, nil
}
