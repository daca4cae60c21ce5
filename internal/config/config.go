// Package config defines the static configuration of dbimport and loads it
// from a YAML file.
//
// Loading happens in three layers, later layers winning:
//
//  1. the YAML file (unknown sections are ignored);
//  2. DBIMPORT_DB_* environment variables, optionally seeded from a .env
//     file next to the config so credentials can stay out of the YAML;
//  3. defaults for anything still unset.
//
// Example:
//
//	db:
//	  kind: mysql
//	  host: 127.0.0.1
//	  name: twitter
//	  table: tweets
//	ingest:
//	  batch_size: 100
//	  report_every: 30s
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults applied by ApplyDefaults.
const (
	DefaultKind        = "mysql"
	DefaultBatchSize   = 100
	DefaultReportEvery = 30 * time.Second
	DefaultWarnRate    = 1.0
	DefaultWarnBurst   = 10
	DefaultJob         = "dbimport"
	DefaultWebPort     = 8080
	DefaultRecentLimit = 10

	// MaxBatchSize keeps a 16-column multi-row INSERT under every backend's
	// bind parameter limit (SQLite: 32766).
	MaxBatchSize = 2000
)

// Config is the top-level object decoded from the YAML file.
type Config struct {
	DB      DB      `yaml:"db"`
	Ingest  Ingest  `yaml:"ingest"`
	Log     Log     `yaml:"log"`
	Metrics Metrics `yaml:"metrics"`
	Web     Web     `yaml:"web"`
}

// DB selects the store backend and its connection target.
type DB struct {
	// Kind is "mysql", "postgres", "sqlite" or "mssql".
	Kind string `yaml:"kind"`

	// DSN is passed to the driver verbatim. When empty the backend builds one
	// from Host/Port/User/Password/Name. For sqlite, Name is the file path.
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`

	// Table is the target table, optionally schema-qualified.
	Table string `yaml:"table"`

	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// Ingest tunes the pipeline.
type Ingest struct {
	// Job labels metrics for this pipeline.
	Job string `yaml:"job"`

	BatchSize   int           `yaml:"batch_size"`
	ReportEvery time.Duration `yaml:"report_every"`

	// WarnRate and WarnBurst bound how many non-record-line warnings are
	// logged per second.
	WarnRate  float64 `yaml:"warn_rate"`
	WarnBurst int     `yaml:"warn_burst"`
}

// Log configures the process logger.
type Log struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Metrics selects an optional metrics backend.
type Metrics struct {
	Backend        string `yaml:"backend"` // none | prompush | datadog
	PushgatewayURL string `yaml:"pushgateway_url"`
	DatadogAddr    string `yaml:"datadog_addr"`
	Namespace      string `yaml:"namespace"`
}

// Web configures the read-only dashboard.
type Web struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	RecentLimit int    `yaml:"recent_limit"`
}

// Addr returns host:port for net/http.
func (w Web) Addr() string {
	return w.Host + ":" + strconv.Itoa(w.Port)
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Read loads path without validating it: the .env file next to path (if
// any), then YAML, environment overrides and defaults.
func Read(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	envFile := filepath.Join(filepath.Dir(path), ".env")
	// godotenv.Load never overrides variables already set in the process.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: %s: %w", envFile, err)
	}

	cfg, err := Parse(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	ApplyDefaults(cfg)
	return cfg, nil
}

// Load is Read followed by Validate. Error-severity issues are joined into
// the returned error; warnings are returned alongside a usable config.
func Load(path string) (*Config, []Issue, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, nil, err
	}
	issues := Validate(cfg)
	if err := Err(issues); err != nil {
		return nil, issues, err
	}
	return cfg, issues, nil
}

// Parse decodes YAML from r. An empty document yields a zero Config.
func Parse(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides DB connection fields from DBIMPORT_DB_* variables.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	str := map[string]*string{
		"DBIMPORT_DB_KIND":     &cfg.DB.Kind,
		"DBIMPORT_DB_DSN":      &cfg.DB.DSN,
		"DBIMPORT_DB_HOST":     &cfg.DB.Host,
		"DBIMPORT_DB_USER":     &cfg.DB.User,
		"DBIMPORT_DB_PASSWORD": &cfg.DB.Password,
		"DBIMPORT_DB_NAME":     &cfg.DB.Name,
		"DBIMPORT_DB_TABLE":    &cfg.DB.Table,
	}
	for key, dst := range str {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	if v, ok := lookup("DBIMPORT_DB_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DBIMPORT_DB_PORT: %w", err)
		}
		cfg.DB.Port = port
	}
	return nil
}

// ApplyDefaults fills unset fields. Explicit zero values that are invalid
// (e.g. a negative batch size) are left for Validate to report.
func ApplyDefaults(cfg *Config) {
	if cfg.DB.Kind == "" {
		cfg.DB.Kind = DefaultKind
	}
	if cfg.Ingest.Job == "" {
		cfg.Ingest.Job = DefaultJob
	}
	if cfg.Ingest.BatchSize == 0 {
		cfg.Ingest.BatchSize = DefaultBatchSize
	}
	if cfg.Ingest.ReportEvery == 0 {
		cfg.Ingest.ReportEvery = DefaultReportEvery
	}
	if cfg.Ingest.WarnRate == 0 {
		cfg.Ingest.WarnRate = DefaultWarnRate
	}
	if cfg.Ingest.WarnBurst == 0 {
		cfg.Ingest.WarnBurst = DefaultWarnBurst
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Metrics.Backend == "" {
		cfg.Metrics.Backend = "none"
	}
	if cfg.Web.Port == 0 {
		cfg.Web.Port = DefaultWebPort
	}
	if cfg.Web.RecentLimit == 0 {
		cfg.Web.RecentLimit = DefaultRecentLimit
	}
}
