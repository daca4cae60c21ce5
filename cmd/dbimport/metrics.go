package main

import (
	"log/slog"

	"dbimport/internal/config"
	"dbimport/internal/metrics"
	"dbimport/internal/metrics/datadog"
	"dbimport/internal/metrics/prompush"
)

// setupMetrics installs the configured metrics backend and returns a flush
// function for shutdown. A backend that fails to initialize leaves metrics
// disabled; it never stops the run.
func setupMetrics(m config.Metrics, job, runID string, logger *slog.Logger) func() {
	var (
		b   metrics.Backend
		err error
	)
	switch m.Backend {
	case "prompush":
		b, err = prompush.NewBackend(prompush.Config{
			GatewayURL: m.PushgatewayURL,
			Job:        job,
			Instance:   runID,
		})
	case "datadog":
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       m.DatadogAddr,
			Namespace:  m.Namespace,
			GlobalTags: []string{"job:" + job, "run_id:" + runID},
		})
	default:
		logger.Debug("metrics: disabled", "backend", m.Backend)
		return func() {}
	}
	if err != nil {
		logger.Warn("metrics: backend init failed; using nop", "backend", m.Backend, "err", err)
		return func() {}
	}

	logger.Info("metrics: enabled", "backend", m.Backend, "job", job)
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			logger.Warn("metrics: flush error", "err", err)
		}
	}
}
