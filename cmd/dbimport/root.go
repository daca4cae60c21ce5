package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"dbimport/internal/config"
	"dbimport/internal/logging"
	"dbimport/internal/storage"
)

// rootOptions holds global flags for all commands. Empty values defer to the
// config file.
type rootOptions struct {
	LogLevel  string
	LogFormat string
}

// newRepositoryFn opens the store. Tests replace it.
var newRepositoryFn = storage.New

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "dbimport",
		Short:         "Stream tweets from stdin into a database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := logging.ParseLevel(opts.LogLevel); err != nil {
				return fmt.Errorf("--log-level: %w", err)
			}
			if _, err := logging.ParseFormat(opts.LogFormat); err != nil {
				return fmt.Errorf("--log-format: %w", err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error); overrides log.level")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "log format (text|json); overrides log.format")

	cmd.AddCommand(newIngestCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newValidateCmd())

	return cmd
}

// newLogger builds the process logger from the config with flag overrides.
func (o *rootOptions) newLogger(w io.Writer, cfg config.Log) *slog.Logger {
	level, format := cfg.Level, cfg.Format
	if o.LogLevel != "" {
		level = o.LogLevel
	}
	if o.LogFormat != "" {
		format = o.LogFormat
	}
	return logging.New(w, level, format)
}

// loadConfig loads and validates path, logging warnings through logger once
// it exists. Errors are returned as-is for main to print.
func loadConfig(path string) (*config.Config, []config.Issue, error) {
	cfg, issues, err := config.Load(path)
	if err != nil {
		return nil, issues, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, issues, nil
}

func logWarnings(logger *slog.Logger, issues []config.Issue) {
	for _, iss := range issues {
		if iss.Severity == config.SeverityWarning {
			logger.Warn("config", "path", iss.Path, "msg", iss.Message)
		}
	}
}

func storageConfig(db config.DB) storage.Config {
	return storage.Config{
		Kind:           db.Kind,
		DSN:            db.DSN,
		Host:           db.Host,
		Port:           db.Port,
		User:           db.User,
		Password:       db.Password,
		Name:           db.Name,
		Table:          db.Table,
		ConnectTimeout: db.ConnectTimeout,
	}
}
