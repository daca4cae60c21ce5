package storage

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"dbimport/internal/record"
)

// Row flattens rec into driver values in ddl.TweetTable insert-column order.
// Absent optional fields are nil. Ids are passed as uint64.
func Row(rec record.Record) []any {
	return []any{
		rec.RecordID,
		rec.CreatedAt.UTC(),
		rec.Text,
		deref(rec.Lat),
		deref(rec.Lon),
		rec.AuthorID,
		rec.AuthorHandle,
		rec.AuthorName,
		deref(rec.AuthorLocation),
		deref(rec.AuthorTimezone),
		deref(rec.AuthorUTCOffset),
		rec.AuthorGeoEnabled,
		deref(rec.AuthorFollowersCount),
		deref(rec.AuthorFriendsCount),
		deref(rec.AuthorStatusesCount),
		deref(rec.ResharedFromID),
	}
}

// SignedRow is Row for backends without unsigned integers: every uint64 id is
// converted to int64, failing with ErrIDOutOfRange when it does not fit.
func SignedRow(rec record.Record) ([]any, error) {
	row := Row(rec)
	for i, v := range row {
		u, ok := v.(uint64)
		if !ok {
			continue
		}
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("%w: %d", ErrIDOutOfRange, u)
		}
		row[i] = int64(u)
	}
	return row, nil
}

// SignedRows converts recs with SignedRow. Records that do not convert are
// left out of rows and reported in a *RejectError; the error is nil when
// every record converted.
func SignedRows(recs []record.Record) ([][]any, error) {
	rows := make([][]any, 0, len(recs))
	var errs []error
	for _, rec := range recs {
		row, err := SignedRow(rec)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", rec.RecordID, err))
			continue
		}
		rows = append(rows, row)
	}
	if len(errs) == 0 {
		return rows, nil
	}
	return rows, &RejectError{Rows: len(errs), Err: errors.Join(errs...)}
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// ScanDest returns scan destinations for a row selected with every column of
// ddl.TweetTable in table order. created_at is scanned into *created so
// callers can normalize driver-specific time representations with AsTime.
func ScanDest(s *StoredRecord, created *any) []any {
	r := &s.Record
	return []any{
		&s.ID,
		&r.RecordID,
		created,
		&r.Text,
		&r.Lat,
		&r.Lon,
		&r.AuthorID,
		&r.AuthorHandle,
		&r.AuthorName,
		&r.AuthorLocation,
		&r.AuthorTimezone,
		&r.AuthorUTCOffset,
		&r.AuthorGeoEnabled,
		&r.AuthorFollowersCount,
		&r.AuthorFriendsCount,
		&r.AuthorStatusesCount,
		&r.ResharedFromID,
	}
}

// timeLayouts covers the textual forms drivers use for DATETIME values.
var timeLayouts = []string{
	time.DateTime,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
}

// AsTime converts a scanned DATETIME value to UTC time.
func AsTime(v any) (time.Time, error) {
	var s string
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		s = t
	case []byte:
		s = string(t)
	default:
		return time.Time{}, fmt.Errorf("storage: unexpected datetime type %T", v)
	}
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("storage: unparsable datetime %q", s)
}
