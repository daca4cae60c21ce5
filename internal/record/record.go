// Package record turns raw tweet JSON into the fixed-shape Record stored by
// the importer.
//
// The package is pure: Decode and Normalize have no side effects and keep no
// state between calls, so callers can treat every line of input in isolation.
package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// Maximum lengths, in runes, of the string columns.
const (
	MaxTextLen     = 255
	MaxHandleLen   = 100
	MaxNameLen     = 100
	MaxLocationLen = 150
	MaxTimezoneLen = 150
)

// Raw is one decoded JSON object from the input stream. Numbers are kept as
// json.Number so 64-bit ids survive decoding without float rounding.
type Raw map[string]any

// Record is a validated, normalized tweet. Pointer fields are optional and
// nil when absent.
type Record struct {
	RecordID  uint64
	CreatedAt time.Time
	Text      string

	// Lat and Lon are either both set or both nil.
	Lat *float64
	Lon *float64

	AuthorID         uint64
	AuthorHandle     string
	AuthorName       string
	AuthorLocation   *string
	AuthorTimezone   *string
	AuthorUTCOffset  *int32
	AuthorGeoEnabled bool

	AuthorFollowersCount *int32
	AuthorFriendsCount   *int32
	AuthorStatusesCount  *int32

	ResharedFromID *uint64
}

// IsReshare reports whether the record re-publishes another record.
func (r Record) IsReshare() bool { return r.ResharedFromID != nil }

// Decode parses exactly one JSON object from line. Trailing data after the
// object is an error.
func Decode(line []byte) (Raw, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var raw Raw
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if raw == nil {
		return nil, errors.New("decode record: null object")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode record: trailing data after object")
	}
	return raw, nil
}
