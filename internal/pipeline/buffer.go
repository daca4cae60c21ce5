package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dbimport/internal/metrics"
	"dbimport/internal/record"
	"dbimport/internal/storage"
)

// DefaultBatchSize is the flush threshold used when none is configured.
const DefaultBatchSize = 100

// Writer persists one batch of records in a single write. It is satisfied by
// storage.Repository.
type Writer interface {
	InsertBatch(ctx context.Context, recs []record.Record) (int64, error)
}

// Buffer accumulates records and flushes them through a Writer once the
// threshold is reached. It is not safe for concurrent use.
type Buffer struct {
	w         Writer
	rep       *Reporter
	logger    *slog.Logger
	job       string
	threshold int

	recs    []record.Record
	flushes int
	dropped int64
}

// NewBuffer returns a Buffer flushing every threshold records. A
// non-positive threshold falls back to DefaultBatchSize.
func NewBuffer(w Writer, rep *Reporter, logger *slog.Logger, job string, threshold int) *Buffer {
	if threshold <= 0 {
		threshold = DefaultBatchSize
	}
	return &Buffer{
		w:         w,
		rep:       rep,
		logger:    logger,
		job:       job,
		threshold: threshold,
		recs:      make([]record.Record, 0, threshold),
	}
}

// Append adds rec to the tail and flushes once the threshold is reached.
func (b *Buffer) Append(ctx context.Context, rec record.Record) {
	b.recs = append(b.recs, rec)
	if len(b.recs) >= b.threshold {
		b.Flush(ctx, false)
	}
}

// Flush writes the whole buffer in one call. The buffer is emptied whether
// the write succeeds or fails; a failed batch is logged and dropped. Records
// the store rejects on their own are dropped and the rest of the batch counts
// as written. A forced
// flush always ends with exactly one progress report, even when the buffer
// was empty.
//
// The write is detached from ctx cancellation: once started, a flush runs to
// completion or failure.
func (b *Buffer) Flush(ctx context.Context, force bool) {
	ok := false
	if n := len(b.recs); n > 0 {
		b.flushes++
		start := time.Now()
		inserted, err := b.w.InsertBatch(context.WithoutCancel(ctx), b.recs)
		var rejected *storage.RejectError
		if errors.As(err, &rejected) {
			b.dropped += int64(rejected.Rows)
			metrics.RecordRow(b.job, metrics.KindDropped, int64(rejected.Rows))
			b.logger.Warn("records rejected by store", "rows", rejected.Rows, "err", rejected.Err)
			err = nil
		}
		metrics.RecordStep(b.job, metrics.StepFlush, err, time.Since(start))

		if err != nil {
			b.dropped += int64(n)
			metrics.RecordRow(b.job, metrics.KindDropped, int64(n))
			b.logger.Error("batch write failed; dropping batch", "rows", n, "err", err)
		} else {
			ok = true
			b.rep.Add(inserted)
			metrics.RecordRow(b.job, metrics.KindInserted, inserted)
			metrics.RecordBatches(b.job, 1)
			b.logger.Debug("batch written", "rows", n, "inserted", inserted,
				"elapsed", time.Since(start).Truncate(time.Millisecond))
		}
		// Fresh slice: the writer may still reference the old one.
		b.recs = make([]record.Record, 0, b.threshold)
	}
	if ok || force {
		b.rep.Observe(force)
	}
}

// Len is the number of records waiting for the next flush.
func (b *Buffer) Len() int { return len(b.recs) }

// Flushes is the number of write attempts made so far.
func (b *Buffer) Flushes() int { return b.flushes }

// Dropped is the number of records discarded by failed writes or rejected
// by the store.
func (b *Buffer) Dropped() int64 { return b.dropped }
