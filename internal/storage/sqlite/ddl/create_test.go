package ddl

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	gddl "dbimport/internal/ddl"
)

// TestBuildSchemaSQL_Golden pins the rendered DDL for the tweet table.
func TestBuildSchemaSQL_Golden(t *testing.T) {
	stmts, err := BuildSchemaSQL(gddl.TweetTable("tweets"))
	require.NoError(t, err)
	require.Len(t, stmts, 3)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "tweets", []byte(strings.Join(stmts, ";\n")+";\n"))
}

// TestBuildSchemaSQL_SchemaQualifiedIndex moves the schema onto the index name.
func TestBuildSchemaSQL_SchemaQualifiedIndex(t *testing.T) {
	t.Parallel()

	stmts, err := BuildSchemaSQL(gddl.TweetTable("main.tweets"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stmts[0], `CREATE TABLE IF NOT EXISTS "main"."tweets" (`))
	require.Equal(t, `CREATE INDEX IF NOT EXISTS "main"."idx_tweets_author_id" ON "tweets" ("author_id")`, stmts[1])
}

// TestMapType covers the affinity mapping.
func TestMapType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		col  gddl.ColumnDef
		want string
	}{
		{"serial", gddl.ColumnDef{Type: gddl.Serial}, "INTEGER PRIMARY KEY AUTOINCREMENT"},
		{"uint64", gddl.ColumnDef{Type: gddl.Uint64}, "INTEGER"},
		{"bool", gddl.ColumnDef{Type: gddl.Bool}, "INTEGER"},
		{"float", gddl.ColumnDef{Type: gddl.Float}, "REAL"},
		{"datetime", gddl.ColumnDef{Type: gddl.DateTime}, "TEXT"},
		{"string", gddl.ColumnDef{Type: gddl.String, Size: 10}, "TEXT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, MapType(tt.col))
		})
	}
}
