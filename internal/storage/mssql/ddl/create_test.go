package ddl

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	gddl "dbimport/internal/ddl"
)

// TestQuoteIdent verifies that QuoteIdent properly brackets SQL Server
// identifiers and escapes closing brackets.
func TestQuoteIdent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want string
	}{
		{"simple", "[simple]"},
		{"dbo", "[dbo]"},
		{"brack]et", "[brack]]et]"},
		{`weird]]name`, `[weird]]]]name]`},
	}
	for _, tc := range cases {
		if got := QuoteIdent(tc.in); got != tc.want {
			t.Fatalf("QuoteIdent(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

// TestQuoteFQN verifies that QuoteFQN correctly quotes schema-qualified names
// using bracketed identifier segments.
func TestQuoteFQN(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want string
	}{
		{"table", "[table]"},
		{"dbo.table", "[dbo].[table]"},
		{" dbo . table ", "[dbo].[table]"},
	}
	for _, tc := range cases {
		if got := QuoteFQN(tc.in); got != tc.want {
			t.Fatalf("QuoteFQN(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

// TestMapDefault rewrites boolean literals only.
func TestMapDefault(t *testing.T) {
	t.Parallel()

	require.Equal(t, "0", MapDefault("FALSE"))
	require.Equal(t, "1", MapDefault("true"))
	require.Equal(t, "SYSUTCDATETIME()", MapDefault("SYSUTCDATETIME()"))
}

// TestBuildSchemaSQL_Golden pins the rendered T-SQL for dbo.tweets.
func TestBuildSchemaSQL_Golden(t *testing.T) {
	stmts, err := BuildSchemaSQL(gddl.TweetTable("dbo.tweets"))
	require.NoError(t, err)
	require.Len(t, stmts, 3)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "tweets", []byte(strings.Join(stmts, ";\n")+";\n"))
}

// TestBuildSchemaSQL_Invalid rejects an empty table name.
func TestBuildSchemaSQL_Invalid(t *testing.T) {
	t.Parallel()

	_, err := BuildSchemaSQL(gddl.TweetTable(""))
	require.Error(t, err)
}
