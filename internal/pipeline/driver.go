package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"dbimport/internal/metrics"
	"dbimport/internal/record"
)

const readBufferSize = 64 << 10

// Options tunes a Driver. Zero values select the package defaults.
type Options struct {
	// Job labels metrics emitted by the pipeline.
	Job string

	BatchSize   int
	ReportEvery time.Duration

	WarnRate  float64
	WarnBurst int

	// Now is the clock used for report cadence and warning limits.
	Now func() time.Time
}

// Stats summarizes one Run.
type Stats struct {
	Lines           int64
	Skipped         int64
	DecodeErrors    int64
	NormalizeErrors int64
	Buffered        int64
	Inserted        int64
	Dropped         int64
	Suppressed      int64
}

// Driver reads lines, normalizes records and feeds them to a Buffer.
type Driver struct {
	logger *slog.Logger
	job    string

	buf  *Buffer
	rep  *Reporter
	warn *warnLimiter

	stats Stats
}

// NewDriver wires a Reporter, a Buffer over w and a warning limiter.
func NewDriver(w Writer, logger *slog.Logger, opts Options) *Driver {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger = logger.With("component", "pipeline")
	rep := NewReporter(logger, opts.ReportEvery, now)
	return &Driver{
		logger: logger,
		job:    opts.Job,
		buf:    NewBuffer(w, rep, logger, opts.Job, opts.BatchSize),
		rep:    rep,
		warn:   newWarnLimiter(logger, opts.WarnRate, opts.WarnBurst, now),
	}
}

// Run consumes r until end of stream, cancellation of ctx, or a read error.
//
// End of stream and cancellation both end with a final forced flush and
// report and a nil error. Cancellation is only noticed between lines, so a
// caller blocked in Read must also close r. A read error on a live context is
// returned after the final flush.
func (d *Driver) Run(ctx context.Context, r io.Reader) error {
	br := bufio.NewReaderSize(r, readBufferSize)
	for {
		line, err := br.ReadBytes('\n')
		// At end of stream an empty tail after the final newline is not a line.
		if err == nil || (errors.Is(err, io.EOF) && len(line) > 0) {
			d.handle(ctx, line)
		}
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return d.finish(ctx, "end of input", nil)
		case ctx.Err() != nil:
			return d.finish(ctx, "interrupted", nil)
		default:
			return d.finish(ctx, "read error", fmt.Errorf("pipeline: read input: %w", err))
		}
		if ctx.Err() != nil {
			return d.finish(ctx, "interrupted", nil)
		}
	}
}

// Stats returns counters for the run so far.
func (d *Driver) Stats() Stats {
	s := d.stats
	s.Inserted = d.rep.Total()
	s.Dropped = d.buf.Dropped()
	s.Suppressed = d.warn.TotalSuppressed()
	return s
}

func (d *Driver) handle(ctx context.Context, line []byte) {
	line = bytes.TrimSpace(line)
	d.stats.Lines++
	metrics.RecordRow(d.job, metrics.KindRead, 1)

	if len(line) == 0 || line[0] != '{' || line[len(line)-1] != '}' {
		d.stats.Skipped++
		metrics.RecordRow(d.job, metrics.KindSkipped, 1)
		d.warn.Warn(line)
		return
	}

	raw, err := record.Decode(line)
	if err != nil {
		d.stats.DecodeErrors++
		metrics.RecordRow(d.job, metrics.KindDecodeErrors, 1)
		d.logger.Error("skipping undecodable line",
			"fingerprint", fingerprint(line), "preview", preview(line), "err", err)
		return
	}

	rec, err := record.Normalize(raw)
	if err != nil {
		d.stats.NormalizeErrors++
		metrics.RecordRow(d.job, metrics.KindNormalizeErrors, 1)
		d.logger.Error("skipping invalid record",
			"field", fieldOf(err), "fingerprint", fingerprint(line), "err", err)
		return
	}

	d.stats.Buffered++
	d.buf.Append(ctx, rec)
}

func (d *Driver) finish(ctx context.Context, reason string, err error) error {
	pending := d.buf.Len()
	d.buf.Flush(context.WithoutCancel(ctx), true)

	s := d.Stats()
	d.logger.Info("finished",
		"reason", reason,
		"final_batch", pending,
		"lines", s.Lines,
		"inserted", s.Inserted,
		"dropped", s.Dropped,
		"skipped", s.Skipped,
		"decode_errors", s.DecodeErrors,
		"normalize_errors", s.NormalizeErrors,
		"suppressed_warnings", s.Suppressed,
	)
	return err
}

// fieldOf names the field behind a normalization error, if any.
func fieldOf(err error) string {
	var (
		missing *record.MissingFieldError
		invalid *record.InvalidFieldError
		date    *record.MalformedDateError
	)
	switch {
	case errors.As(err, &missing):
		return missing.Field
	case errors.As(err, &invalid):
		return invalid.Field
	case errors.As(err, &date):
		return "created_at"
	}
	return ""
}
