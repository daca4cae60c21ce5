// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// An ingest run is a batch-style process that may end before any scraper
// sees it, so metrics are pushed to a Pushgateway instead of exposed for
// scraping. Each run is its own Pushgateway group, keyed by job and instance
// (the run id).
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"dbimport/internal/metrics"
)

// DefaultJob is the Pushgateway job name used when Config.Job is empty.
const DefaultJob = "dbimport"

// Config holds Pushgateway backend configuration.
type Config struct {
	GatewayURL string // e.g. http://pushgateway:9091
	Job        string // Pushgateway "job" group
	Instance   string // optional "instance" grouping label, typically the run id
}

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string
	jobName    string
	instance   string
	reg        *prometheus.Registry

	stepCounter   *prometheus.CounterVec // dbimport_step_total
	stepDuration  *prometheus.SummaryVec // dbimport_step_duration_seconds
	recordCounter *prometheus.CounterVec // dbimport_records_total
	batchCounter  prometheus.Counter     // dbimport_batches_total
}

// NewBackend constructs a Prometheus Pushgateway backend.
func NewBackend(cfg Config) (*Backend, error) {
	if cfg.GatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if cfg.Job == "" {
		cfg.Job = DefaultJob
	}

	reg := prometheus.NewRegistry()

	// job is carried by the Pushgateway grouping key, so it is not a label.
	stepCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.StepTotal,
			Help: "Total number of pipeline step executions, partitioned by step and status.",
		},
		[]string{"step", "status"},
	)
	stepDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       metrics.StepDurationSeconds,
			Help:       "Duration of pipeline steps in seconds, partitioned by step and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step", "status"},
	)
	recordCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.RecordsTotal,
			Help: "Record-level counts per kind (read, skipped, decode_errors, normalize_errors, inserted, dropped).",
		},
		[]string{"kind"},
	)
	batchCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: metrics.BatchesTotal,
			Help: "Total number of batches written to the store.",
		},
	)

	for _, c := range []prometheus.Collector{stepCounter, stepDuration, recordCounter, batchCounter} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register collector: %w", err)
		}
	}

	return &Backend{
		gatewayURL:    cfg.GatewayURL,
		jobName:       cfg.Job,
		instance:      cfg.Instance,
		reg:           reg,
		stepCounter:   stepCounter,
		stepDuration:  stepDuration,
		recordCounter: recordCounter,
		batchCounter:  batchCounter,
	}, nil
}

// IncCounter implements metrics.Backend. Unknown metric names are ignored.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StepTotal:
		if b.stepCounter == nil {
			return
		}
		b.stepCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)

	case metrics.RecordsTotal:
		if b.recordCounter == nil {
			return
		}
		b.recordCounter.WithLabelValues(labels["kind"]).Add(delta)

	case metrics.BatchesTotal:
		if b.batchCounter == nil {
			return
		}
		b.batchCounter.Add(delta)
	}
}

// ObserveHistogram implements metrics.Backend.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != metrics.StepDurationSeconds || b.stepDuration == nil {
		return
	}
	b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway, replacing the
// previous push of the same group.
func (b *Backend) Flush() error {
	p := push.New(b.gatewayURL, b.jobName).Gatherer(b.reg)
	if b.instance != "" {
		p = p.Grouping("instance", b.instance)
	}
	return p.Push()
}
