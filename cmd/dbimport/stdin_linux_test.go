//go:build linux

package main

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPrepareStdin_Pipe returns a separate file whose Close interrupts a
// blocked Read and leaves the original descriptor open.
func TestPrepareStdin_Pipe(t *testing.T) {
	t.Parallel()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = r.Close()
		_ = w.Close()
	})

	in := prepareStdin(r, slog.New(slog.NewTextHandler(io.Discard, nil)))
	own, ok := in.(*os.File)
	require.True(t, ok)
	require.NotSame(t, r, own)

	readErr := make(chan error, 1)
	go func() {
		_, err := own.Read(make([]byte, 16))
		readErr <- err
	}()
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, own.Close())

	select {
	case err := <-readErr:
		assert.True(t, errors.Is(err, os.ErrClosed), "got %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not interrupt the blocked Read")
	}

	_, err = w.WriteString("still open\n")
	require.NoError(t, err)
	line, err := bufio.NewReader(r).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "still open\n", line)
}

// TestPrepareStdin_RegularFile returns the file itself.
func TestPrepareStdin_RegularFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "input.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	in := prepareStdin(f, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Same(t, f, in)
}
