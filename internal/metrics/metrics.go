// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from the ingest pipeline.
//
// The package exposes a narrow interface (Backend) focused on counters and
// timing data, and a global, pluggable backend that defaults to a no-op
// implementation so metrics are always safe to call even when no real backend
// is configured. Concrete metric systems live in subpackages (prompush,
// datadog) and are installed with SetBackend at startup.
package metrics

import "time"

// Metric names shared by every backend.
const (
	StepTotal           = "dbimport_step_total"
	StepDurationSeconds = "dbimport_step_duration_seconds"
	RecordsTotal        = "dbimport_records_total"
	BatchesTotal        = "dbimport_batches_total"
)

// Record kinds used with RecordRow.
const (
	KindRead            = "read"
	KindSkipped         = "skipped"
	KindDecodeErrors    = "decode_errors"
	KindNormalizeErrors = "normalize_errors"
	KindInserted        = "inserted"
	KindDropped         = "dropped"
)

// StepFlush labels one Buffer flush attempt.
const StepFlush = "flush"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
// It is not safe to call concurrently with the Record functions.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep measures latency and success/failure of one pipeline step.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDurationSeconds, d.Seconds(), lbls)
}

// RecordRow increments a record-level counter for the given job and kind.
// Non-positive deltas are ignored.
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RecordsTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordBatches increments the flushed-batch counter for the given job.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(BatchesTotal, float64(delta), Labels{
		"job": job,
	})
}
