//go:build integration

package mssql

import (
	"context"
	"os"
	"testing"
	"time"

	"dbimport/internal/record"
)

// getTestDSN reads the MSSQL_TEST_DSN environment variable.
// If it is empty, the caller should skip the test.
func getTestDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("MSSQL_TEST_DSN")
	if dsn == "" {
		t.Skip("MSSQL_TEST_DSN not set; skipping MSSQL integration tests")
	}
	return dsn
}

// TestRepositoryIntegration creates the table twice, bulk-copies a batch and
// reads it back through Summary.
func TestRepositoryIntegration(t *testing.T) {
	dsn := getTestDSN(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, closeFn, err := NewRepository(ctx, Config{DSN: dsn, Table: "dbo.dbimport_it"})
	if err != nil {
		t.Fatalf("NewRepository() error = %v, want nil", err)
	}
	defer closeFn()

	_, _ = repo.db.ExecContext(ctx, "IF OBJECT_ID(N'[dbo].[dbimport_it]', N'U') IS NOT NULL DROP TABLE [dbo].[dbimport_it]")
	for i := 0; i < 2; i++ {
		if err := repo.EnsureSchema(ctx); err != nil {
			t.Fatalf("EnsureSchema() #%d error = %v", i+1, err)
		}
	}

	base := time.Date(2014, 7, 1, 12, 0, 0, 0, time.UTC)
	recs := make([]record.Record, 250)
	for i := range recs {
		recs[i] = record.Record{
			RecordID:     uint64(i + 1),
			CreatedAt:    base.Add(time.Duration(i) * time.Second),
			Text:         "bulk",
			AuthorID:     7,
			AuthorHandle: "h",
			AuthorName:   "N",
		}
	}
	n, err := repo.InsertBatch(ctx, recs)
	if err != nil {
		t.Fatalf("InsertBatch() error = %v", err)
	}
	if n != int64(len(recs)) {
		t.Fatalf("InsertBatch() inserted = %d, want %d", n, len(recs))
	}

	sum, err := repo.Summary(ctx, 3)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if sum.Count != int64(len(recs)) || len(sum.Latest) != 3 {
		t.Fatalf("Summary() = count %d, %d latest; want %d, 3", sum.Count, len(sum.Latest), len(recs))
	}
	if sum.Latest[0].RecordID != 250 {
		t.Fatalf("latest record id = %d, want 250", sum.Latest[0].RecordID)
	}
}
