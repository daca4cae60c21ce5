package pipeline

import (
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/zeebo/xxh3"
	"golang.org/x/time/rate"
)

// Limits for non-record line warnings.
const (
	DefaultWarnRate  = 1.0
	DefaultWarnBurst = 10

	previewBytes = 120
)

// warnLimiter rate limits warnings about input lines that are not records.
// Each emitted warning carries a fingerprint and a short preview of the line
// rather than the line itself.
type warnLimiter struct {
	logger *slog.Logger
	lim    *rate.Limiter
	now    func() time.Time

	suppressed      int64 // since the last emitted warning
	totalSuppressed int64
}

func newWarnLimiter(logger *slog.Logger, perSecond float64, burst int, now func() time.Time) *warnLimiter {
	if perSecond <= 0 {
		perSecond = DefaultWarnRate
	}
	if burst < 1 {
		burst = DefaultWarnBurst
	}
	return &warnLimiter{
		logger: logger,
		lim:    rate.NewLimiter(rate.Limit(perSecond), burst),
		now:    now,
	}
}

// Warn logs line if the limiter allows it; otherwise the warning is counted
// and the count is attached to the next one that gets through.
func (w *warnLimiter) Warn(line []byte) bool {
	if !w.lim.AllowN(w.now(), 1) {
		w.suppressed++
		w.totalSuppressed++
		return false
	}
	attrs := []any{
		"fingerprint", fingerprint(line),
		"bytes", len(line),
		"preview", preview(line),
	}
	if w.suppressed > 0 {
		attrs = append(attrs, "suppressed", w.suppressed)
		w.suppressed = 0
	}
	w.logger.Warn("skipping non-record line", attrs...)
	return true
}

// TotalSuppressed is the number of warnings dropped over the limiter's life.
func (w *warnLimiter) TotalSuppressed() int64 { return w.totalSuppressed }

func fingerprint(line []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(line))
}

// preview returns at most previewBytes of line, cut on a rune boundary.
func preview(line []byte) string {
	if len(line) <= previewBytes {
		return string(line)
	}
	cut := previewBytes
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}
	return string(line[:cut]) + "..."
}
