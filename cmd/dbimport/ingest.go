package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"dbimport/internal/pipeline"
)

func newIngestCmd(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <config.yaml>",
		Short: "Read tweets from stdin and write them to the configured table",
		Long: `Read newline-delimited tweet JSON from stdin, normalize each record and
insert them in batches into the configured table, creating it if needed.

Lines that are not JSON objects are skipped with a rate-limited warning;
records that fail validation are logged and skipped. A failed batch is
logged and dropped. On SIGINT or SIGTERM the current batch is flushed
before exiting; a second signal terminates immediately.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, rootOpts, args[0])
		},
	}
}

func runIngest(cmd *cobra.Command, rootOpts *rootOptions, cfgPath string) error {
	cfg, issues, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	logger := rootOpts.newLogger(cmd.ErrOrStderr(), cfg.Log)
	runID := uuid.NewString()
	logger = logger.With("run_id", runID)
	logWarnings(logger, issues)

	flushMetrics := setupMetrics(cfg.Metrics, cfg.Ingest.Job, runID, logger)
	defer flushMetrics()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := newRepositoryFn(ctx, storageConfig(cfg.DB))
	if err != nil {
		logger.Error("connect failed", "kind", cfg.DB.Kind, "err", err)
		return &reportedError{err}
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("schema setup failed", "table", cfg.DB.Table, "err", err)
		return &reportedError{err}
	}
	logger.Info("ingest started",
		"kind", cfg.DB.Kind,
		"table", cfg.DB.Table,
		"batch_size", cfg.Ingest.BatchSize,
		"report_every", cfg.Ingest.ReportEvery,
	)

	var in io.Reader = cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		in = prepareStdin(f, logger)
		if own, ok := in.(*os.File); ok && own != f {
			defer own.Close()
		}
	}
	done := make(chan struct{})
	defer close(done)
	go closeOnSignal(ctx, done, stop, in, logger)

	d := pipeline.NewDriver(repo, logger, pipeline.Options{
		Job:         cfg.Ingest.Job,
		BatchSize:   cfg.Ingest.BatchSize,
		ReportEvery: cfg.Ingest.ReportEvery,
		WarnRate:    cfg.Ingest.WarnRate,
		WarnBurst:   cfg.Ingest.WarnBurst,
	})
	if err := d.Run(ctx, in); err != nil {
		logger.Error("ingest aborted", "err", err)
		return &reportedError{err}
	}
	return nil
}

// closeOnSignal closes in once ctx is done so a read blocked on stdin
// returns and the driver can run its final flush. It also restores default
// signal handling, so a second signal kills the process. It returns without
// doing anything once done is closed.
func closeOnSignal(ctx context.Context, done <-chan struct{}, stop context.CancelFunc, in io.Reader, logger *slog.Logger) {
	select {
	case <-done:
		return
	case <-ctx.Done():
	}
	stop()
	logger.Info("shutting down; flushing current batch")
	if c, ok := in.(io.Closer); ok {
		_ = c.Close()
	}
}
