package mssql

import (
	"context"
	"testing"

	"dbimport/internal/storage"
)

// TestMSSQLStorageRegistrationUsesNewRepositoryHook verifies that the "mssql"
// storage backend registered in init() uses the newRepository hook and that
// the wrappedRepo correctly propagates configuration and close behavior.
func TestMSSQLStorageRegistrationUsesNewRepositoryHook(t *testing.T) {
	ctx := context.Background()

	// Save and restore global hook.
	origNewRepository := newRepository
	defer func() { newRepository = origNewRepository }()

	var (
		called   bool
		gotCfg   Config
		closed   bool
		fakeRepo = &Repository{}
	)

	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		called = true
		gotCfg = cfg
		return fakeRepo, func() { closed = true }, nil
	}

	cfg := storage.Config{
		Kind:  "mssql",
		Host:  "sql.internal",
		Port:  14330,
		User:  "sa",
		Name:  "twitter",
		Table: "dbo.tweets",
	}

	repo, err := storage.New(ctx, cfg)
	if err != nil {
		t.Fatalf("storage.New() error = %v, want nil", err)
	}
	if !called {
		t.Fatalf("newRepository hook was not called")
	}

	// Assert that we received the expected config from storage.Config.
	if gotCfg.Host != cfg.Host || gotCfg.Port != cfg.Port || gotCfg.User != cfg.User || gotCfg.Name != cfg.Name {
		t.Errorf("hook cfg = %+v, want fields from %+v", gotCfg, cfg)
	}
	if gotCfg.Table != cfg.Table {
		t.Errorf("hook cfg.Table = %q, want %q", gotCfg.Table, cfg.Table)
	}

	// Verify the dynamic type and that the wrapped Repository is exactly the
	// fakeRepo instance returned by our hook.
	w, ok := repo.(*wrappedRepo)
	if !ok {
		t.Fatalf("storage.New() type = %T, want *wrappedRepo", repo)
	}
	if w.Repository != fakeRepo {
		t.Fatalf("wrappedRepo.Repository = %p, want %p", w.Repository, fakeRepo)
	}

	// Close should invoke our closeFn.
	repo.Close()
	if !closed {
		t.Fatalf("wrappedRepo.Close() did not invoke closeFn")
	}
}

// TestBuildDSN verifies DSN assembly from discrete parts and validation of
// caller-supplied strings.
func TestBuildDSN(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		cfg     Config
		want    string
		wantErr bool
	}{
		{name: "explicit", cfg: Config{DSN: "sqlserver://example"}, want: "sqlserver://example"},
		{name: "parts", cfg: Config{Host: "db", User: "sa", Password: "pw", Name: "twitter"}, want: "sqlserver://sa:pw@db:1433?database=twitter"},
		{name: "custom port", cfg: Config{Host: "db", Port: 2000, Name: "tw"}, want: "sqlserver://db:2000?database=tw"},
		{name: "missing name", cfg: Config{Host: "db"}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := BuildDSN(tc.cfg)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("BuildDSN() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildDSN() error = %v", err)
			}
			if got != tc.want {
				t.Fatalf("BuildDSN() = %q, want %q", got, tc.want)
			}
		})
	}
}

// BenchmarkMSSQLStorageNew measures the overhead of constructing an MSSQL
// storage.Repository via storage.New using the newRepository hook. The hook
// is overridden to avoid real database connections.
func BenchmarkMSSQLStorageNew(b *testing.B) {
	ctx := context.Background()

	origNewRepository := newRepository
	defer func() { newRepository = origNewRepository }()

	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		// Fast fake: no DB, trivial close.
		return &Repository{}, func() {}, nil
	}

	cfg := storage.Config{Kind: "mssql", DSN: "sqlserver://example", Table: "dbo.tweets"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		repo, err := storage.New(ctx, cfg)
		if err != nil {
			b.Fatalf("storage.New() error = %v", err)
		}
		repo.Close()
	}
}
