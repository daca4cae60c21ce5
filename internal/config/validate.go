package config

import (
	"errors"
	"fmt"
	"strings"

	"dbimport/internal/ddl"
	"dbimport/internal/logging"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Path is a dotted path into the config (e.g. "db.kind",
// "ingest.batch_size"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Err joins the error-severity issues, or returns nil when there are none.
func Err(issues []Issue) error {
	var errs []error
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			errs = append(errs, iss)
		}
	}
	return errors.Join(errs...)
}

// knownKinds are the storage backends shipped in internal/storage/all.
var knownKinds = []string{"mssql", "mysql", "postgres", "sqlite"}

// Validate performs static validation of cfg after defaults are applied. It
// does not mutate cfg.
func Validate(cfg *Config) []Issue {
	var issues []Issue
	issues = append(issues, validateDB(cfg.DB)...)
	issues = append(issues, validateIngest(cfg.Ingest)...)
	issues = append(issues, validateLog(cfg.Log)...)
	issues = append(issues, validateMetrics(cfg.Metrics)...)
	issues = append(issues, validateWeb(cfg.Web)...)
	return issues
}

func validateDB(db DB) []Issue {
	var issues []Issue

	known := false
	for _, k := range knownKinds {
		if db.Kind == k {
			known = true
			break
		}
	}
	if !known {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "db.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; expected one of %s", db.Kind, strings.Join(knownKinds, ", ")),
		})
	}

	switch {
	case strings.TrimSpace(db.Table) == "":
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "db.table",
			Message:  "db.table must not be empty",
		})
	case !ddl.ValidTableName(db.Table):
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "db.table",
			Message:  fmt.Sprintf("db.table %q must be letters, digits and underscores, optionally schema-qualified", db.Table),
		})
	}

	if strings.TrimSpace(db.DSN) == "" {
		if db.Kind == "sqlite" {
			if strings.TrimSpace(db.Name) == "" {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     "db.name",
					Message:  "sqlite needs db.dsn or db.name (the database file)",
				})
			}
		} else if strings.TrimSpace(db.Host) == "" || strings.TrimSpace(db.Name) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "db.dsn",
				Message:  "either db.dsn or both db.host and db.name are required",
			})
		}
	}

	if db.Port < 0 || db.Port > 65535 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "db.port",
			Message:  fmt.Sprintf("db.port=%d is out of range", db.Port),
		})
	}
	if db.ConnectTimeout < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "db.connect_timeout",
			Message:  "db.connect_timeout must not be negative",
		})
	}
	return issues
}

func validateIngest(in Ingest) []Issue {
	var issues []Issue

	if in.BatchSize < 1 || in.BatchSize > MaxBatchSize {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "ingest.batch_size",
			Message:  fmt.Sprintf("batch_size=%d must be within 1..%d", in.BatchSize, MaxBatchSize),
		})
	} else if in.BatchSize < 10 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "ingest.batch_size",
			Message:  fmt.Sprintf("batch_size=%d; very small batches cost one round trip each", in.BatchSize),
		})
	}
	if in.ReportEvery <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "ingest.report_every",
			Message:  "report_every must be positive",
		})
	}
	if in.WarnRate <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "ingest.warn_rate",
			Message:  "warn_rate must be positive",
		})
	}
	if in.WarnBurst < 1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "ingest.warn_burst",
			Message:  "warn_burst must be at least 1",
		})
	}
	return issues
}

func validateLog(l Log) []Issue {
	var issues []Issue
	if _, err := logging.ParseLevel(l.Level); err != nil {
		issues = append(issues, Issue{Severity: SeverityError, Path: "log.level", Message: err.Error()})
	}
	if _, err := logging.ParseFormat(l.Format); err != nil {
		issues = append(issues, Issue{Severity: SeverityError, Path: "log.format", Message: err.Error()})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue
	switch m.Backend {
	case "none":
	case "prompush":
		if strings.TrimSpace(m.PushgatewayURL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.pushgateway_url",
				Message:  "prompush backend requires pushgateway_url",
			})
		}
	case "datadog":
		if strings.TrimSpace(m.DatadogAddr) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.datadog_addr",
				Message:  "datadog backend requires datadog_addr",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q; expected none, prompush or datadog", m.Backend),
		})
	}
	return issues
}

func validateWeb(w Web) []Issue {
	var issues []Issue
	if w.Port < 1 || w.Port > 65535 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "web.port",
			Message:  fmt.Sprintf("web.port=%d is out of range", w.Port),
		})
	}
	if w.RecentLimit < 1 || w.RecentLimit > 1000 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "web.recent_limit",
			Message:  fmt.Sprintf("recent_limit=%d; expected 1..1000", w.RecentLimit),
		})
	}
	return issues
}
