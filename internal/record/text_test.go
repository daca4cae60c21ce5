package record

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCleanText_Truncate clips by rune count and keeps 4-byte code points whole.
func TestCleanText_Truncate(t *testing.T) {
	t.Parallel()

	in := strings.Repeat("\U0001F525", 300)
	out := CleanText(in, MaxTextLen)
	assert.Equal(t, MaxTextLen, utf8.RuneCountInString(out))
	assert.True(t, utf8.ValidString(out))
}

// TestCleanText_IllFormed replaces invalid UTF-8 bytes.
func TestCleanText_IllFormed(t *testing.T) {
	t.Parallel()

	out := CleanText("ok\xffok", 10)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, "ok\uFFFDok", out)
}

// TestCleanText_Entities decodes named and numeric entities.
func TestCleanText_Entities(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `a & b "c" é`, CleanText("a &amp; b &quot;c&quot; &#233;", 100))
}

// TestParseDate covers the accepted layouts.
func TestParseDate(t *testing.T) {
	t.Parallel()

	want := time.Date(2014, 2, 19, 17, 42, 8, 0, time.UTC)
	for _, s := range []string{
		"Wed Feb 19 17:42:08 +0000 2014",
		"Wed, 19 Feb 2014 17:42:08 +0000",
		"Wed, 19 Feb 2014 19:42:08 +0200",
		"19 Feb 2014 17:42:08 +0000",
	} {
		got, err := ParseDate(s)
		require.NoError(t, err, s)
		assert.True(t, want.Equal(got), "%s: got %v", s, got)
		assert.Equal(t, time.UTC, got.Location())
	}

	_, err := ParseDate("")
	assert.Error(t, err)
}
