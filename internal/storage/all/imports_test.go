package all

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dbimport/internal/storage"
)

// TestAllKindsRegistered verifies the blank imports register every backend.
func TestAllKindsRegistered(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"mssql", "mysql", "postgres", "sqlite"}, storage.Kinds())
}
