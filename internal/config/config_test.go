package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// TestParse_Empty yields a zero config rather than an error.
func TestParse_Empty(t *testing.T) {
	t.Parallel()

	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Config{}, *cfg)
}

// TestParse_IgnoresUnknownSections keeps known sections and drops the rest.
func TestParse_IgnoresUnknownSections(t *testing.T) {
	t.Parallel()

	cfg, err := Parse(strings.NewReader(`
db:
  kind: sqlite
  name: ":memory:"
  table: tweets
tracking:
  terms: [golang, sql]
`))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DB.Kind)
	assert.Equal(t, "tweets", cfg.DB.Table)
}

// TestParse_Syntax reports malformed YAML.
func TestParse_Syntax(t *testing.T) {
	t.Parallel()

	_, err := Parse(strings.NewReader("db: [unterminated"))
	require.Error(t, err)
}

// TestApplyDefaults fills every unset field.
func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	var cfg Config
	ApplyDefaults(&cfg)

	assert.Equal(t, DefaultKind, cfg.DB.Kind)
	assert.Equal(t, DefaultJob, cfg.Ingest.Job)
	assert.Equal(t, DefaultBatchSize, cfg.Ingest.BatchSize)
	assert.Equal(t, DefaultReportEvery, cfg.Ingest.ReportEvery)
	assert.Equal(t, DefaultWarnRate, cfg.Ingest.WarnRate)
	assert.Equal(t, DefaultWarnBurst, cfg.Ingest.WarnBurst)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "none", cfg.Metrics.Backend)
	assert.Equal(t, DefaultWebPort, cfg.Web.Port)
	assert.Equal(t, DefaultRecentLimit, cfg.Web.RecentLimit)
	assert.Equal(t, ":8080", cfg.Web.Addr())
}

// TestApplyDefaults_KeepsExplicit leaves configured values alone.
func TestApplyDefaults_KeepsExplicit(t *testing.T) {
	t.Parallel()

	cfg := Config{Ingest: Ingest{BatchSize: 500, ReportEvery: time.Minute}}
	ApplyDefaults(&cfg)
	assert.Equal(t, 500, cfg.Ingest.BatchSize)
	assert.Equal(t, time.Minute, cfg.Ingest.ReportEvery)
}

// TestApplyEnv overrides DB fields from the lookup function.
func TestApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"DBIMPORT_DB_HOST":     "db.internal",
		"DBIMPORT_DB_PORT":     "3307",
		"DBIMPORT_DB_PASSWORD": "s3cret",
		"DBIMPORT_DB_TABLE":    "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Config{DB: DB{Host: "localhost", Table: "tweets"}}
	require.NoError(t, ApplyEnv(&cfg, lookup))
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 3307, cfg.DB.Port)
	assert.Equal(t, "s3cret", cfg.DB.Password)
	assert.Equal(t, "tweets", cfg.DB.Table, "empty variables do not clear values")
}

// TestApplyEnv_BadPort rejects a non-numeric port.
func TestApplyEnv_BadPort(t *testing.T) {
	t.Parallel()

	lookup := func(k string) (string, bool) {
		if k == "DBIMPORT_DB_PORT" {
			return "mysql", true
		}
		return "", false
	}
	err := ApplyEnv(&Config{}, lookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DBIMPORT_DB_PORT")
}

// TestLoad_File reads YAML and applies defaults.
func TestLoad_File(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
db:
  kind: sqlite
  name: tweets.db
  table: tweets
ingest:
  batch_size: 250
  report_every: 5s
`)
	cfg, issues, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, 250, cfg.Ingest.BatchSize)
	assert.Equal(t, 5*time.Second, cfg.Ingest.ReportEvery)
	assert.Equal(t, DefaultWarnBurst, cfg.Ingest.WarnBurst)
}

// TestLoad_Invalid returns the issues and a joined error.
func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
db:
  kind: oracle
  table: "tweets; drop"
ingest:
  batch_size: 5000
`)
	cfg, issues, err := Load(path)
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "db.kind")
	assert.Contains(t, err.Error(), "db.table")
	assert.Contains(t, err.Error(), "ingest.batch_size")
	assert.NotEmpty(t, issues)
}

// TestLoad_MissingFile wraps the os error.
func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestRead_DotEnv seeds the environment from a .env next to the config. It
// mutates the process environment and therefore does not run in parallel.
func TestRead_DotEnv(t *testing.T) {
	t.Setenv("DBIMPORT_DB_USER", "from-process")
	t.Cleanup(func() { _ = os.Unsetenv("DBIMPORT_DB_NAME") })

	path := writeConfig(t, `
db:
  kind: mysql
  host: 127.0.0.1
  table: tweets
`)
	dotenv := "DBIMPORT_DB_NAME=twitter\nDBIMPORT_DB_USER=from-dotenv\n"
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), ".env"), []byte(dotenv), 0o600))

	cfg, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "twitter", cfg.DB.Name)
	assert.Equal(t, "from-process", cfg.DB.User, "process variables win over .env")
}
