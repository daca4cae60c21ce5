package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"dbimport/internal/record"
)

// fakeWriter records every batch it is given.
type fakeWriter struct {
	calls   [][]record.Record
	ctxErrs []error
	err     error
}

func (f *fakeWriter) InsertBatch(ctx context.Context, recs []record.Record) (int64, error) {
	f.calls = append(f.calls, append([]record.Record(nil), recs...))
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(recs)), nil
}

type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2014, 2, 19, 17, 42, 8, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// testLogger returns a JSON logger and the buffer it writes to.
func testLogger(t *testing.T) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

// countMsg counts log lines whose message is msg.
func countMsg(logs *bytes.Buffer, msg string) int {
	return strings.Count(logs.String(), fmt.Sprintf(`"msg":%q`, msg))
}

func rec(id uint64) record.Record {
	return record.Record{
		RecordID:     id,
		CreatedAt:    time.Date(2014, 2, 19, 17, 42, 8, 0, time.UTC),
		Text:         "hi",
		AuthorID:     7,
		AuthorHandle: "a",
		AuthorName:   "A",
	}
}

func tweetLine(id int) string {
	return fmt.Sprintf(`{"id":%d,"created_at":"Wed Feb 19 17:42:08 +0000 2014","text":"hi","user":{"id":2,"screen_name":"a","name":"A"}}`, id)
}
