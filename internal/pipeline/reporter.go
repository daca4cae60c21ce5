package pipeline

import (
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
)

// DefaultReportEvery is the reporting cadence used when none is configured.
const DefaultReportEvery = 30 * time.Second

// Reporter tracks the cumulative number of inserted records and logs it at
// most once per interval, or whenever a report is forced.
type Reporter struct {
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time

	total   int64
	last    time.Time // zero until the first report, so the first check fires
	reports int
}

// NewReporter returns a Reporter logging to logger. A non-positive interval
// falls back to DefaultReportEvery; a nil now uses time.Now.
func NewReporter(logger *slog.Logger, interval time.Duration, now func() time.Time) *Reporter {
	if interval <= 0 {
		interval = DefaultReportEvery
	}
	if now == nil {
		now = time.Now
	}
	return &Reporter{logger: logger, interval: interval, now: now}
}

// Add increases the cumulative count. Non-positive values are ignored.
func (r *Reporter) Add(n int64) {
	if n > 0 {
		r.total += n
	}
}

// Total is the cumulative count of inserted records.
func (r *Reporter) Total() int64 { return r.total }

// Reports is the number of reports emitted so far.
func (r *Reporter) Reports() int { return r.reports }

// Observe emits a report if force is set or the interval has elapsed since
// the previous report. It reports whether it emitted.
func (r *Reporter) Observe(force bool) bool {
	now := r.now()
	if !force && !r.last.IsZero() && now.Sub(r.last) < r.interval {
		return false
	}
	r.last = now
	r.reports++
	r.logger.Info("inserted records",
		"total", r.total,
		"total_fmt", humanize.Comma(r.total),
	)
	return true
}
