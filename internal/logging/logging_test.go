package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"DEBUG", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"ERROR", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
		} else {
			assert.NoError(t, err, tt.input)
		}
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseFormat("logfmt")
	assert.Error(t, err)
}

func TestNewJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, "info", "json")
	logger.Debug("hidden")
	logger.Info("test message", "key", "value")

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m), "output: %s", buf.String())
	assert.Equal(t, "test message", m["msg"])
	assert.Equal(t, "value", m["key"])
}

func TestNewTextDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, "debug", "text")
	logger.Debug("visible", "n", 1)

	out := buf.String()
	assert.True(t, strings.Contains(out, "msg=visible"), out)
	assert.Contains(t, out, "n=1")
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := New(&buf, "info", "text")

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	FromContext(ctx, base).Info("handled")
	assert.Contains(t, buf.String(), "request_id=req-42")

	buf.Reset()
	FromContext(context.Background(), base).Info("plain")
	assert.NotContains(t, buf.String(), "request_id")
}
