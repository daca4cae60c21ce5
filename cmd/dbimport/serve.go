package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"dbimport/internal/dashboard"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve <config.yaml>",
		Short: "Serve a read-only dashboard of the imported table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, rootOpts, args[0])
		},
	}
}

func runServe(cmd *cobra.Command, rootOpts *rootOptions, cfgPath string) error {
	cfg, issues, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	logger := rootOpts.newLogger(cmd.ErrOrStderr(), cfg.Log)
	logWarnings(logger, issues)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := newRepositoryFn(ctx, storageConfig(cfg.DB))
	if err != nil {
		logger.Error("connect failed", "kind", cfg.DB.Kind, "err", err)
		return &reportedError{err}
	}
	defer repo.Close()

	srv := dashboard.NewServer(dashboard.Config{
		Addr:        cfg.Web.Addr(),
		RecentLimit: cfg.Web.RecentLimit,
	}, repo, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		logger.Info("dashboard shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("dashboard failed", "err", err)
		return &reportedError{err}
	}
	return nil
}
