package record

import (
	"net/mail"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CleanText decodes HTML entities, replaces ill-formed UTF-8, composes to
// NFC and truncates the result to at most maxLen runes. Code points outside
// the BMP are kept intact.
func CleanText(s string, maxLen int) string {
	s = html.UnescapeString(s)
	if out, _, err := transform.String(transform.Chain(runes.ReplaceIllFormed(), norm.NFC), s); err == nil {
		s = out
	}
	return truncateRunes(s, maxLen)
}

func truncateRunes(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// dateLayouts are tried in order before falling back to net/mail.
var dateLayouts = []string{
	time.RubyDate, // Twitter streaming API: "Wed Aug 27 13:08:45 +0000 2008"
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
}

// ParseDate parses an RFC-2822-style timestamp and returns it in UTC with
// second precision.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(time.Second), nil
		}
	}
	t, err := mail.ParseDate(s)
	if err != nil {
		return time.Time{}, &MalformedDateError{Value: s, Err: err}
	}
	return t.UTC().Truncate(time.Second), nil
}
