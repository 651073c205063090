package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taggedErr struct{}

func (taggedErr) Error() string { return "upstream down" }

func (taggedErr) LogAttrs() []slog.Attr {
	return []slog.Attr{slog.String("error_type", "NETWORK_ERROR")}
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestRequestContext_FlushesOnce(t *testing.T) {
	var buf bytes.Buffer
	rc := NewRequestContext(New(&buf, slog.LevelDebug), "req-1")

	rc.Set("source", "direct-fast")
	rc.Set("cache_status", "miss")
	rc.Set("cache_status", "hit")
	rc.Timing("fetch", 1500*time.Millisecond)

	assert.True(t, rc.Success())
	assert.False(t, rc.Success())
	assert.False(t, rc.Error(errors.New("late")))
	rc.Set("ignored", true)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	event := lines[0]
	assert.Equal(t, "request completed", event["message"])
	assert.Equal(t, "req-1", event["request_id"])
	assert.Equal(t, "hit", event["cache_status"])
	assert.Equal(t, float64(1500), event["fetch_ms"])
	assert.Equal(t, "success", event["outcome"])
	assert.NotContains(t, event, "ignored")
}

func TestRequestContext_ErrorCarriesClassification(t *testing.T) {
	var buf bytes.Buffer
	rc := NewRequestContext(New(&buf, slog.LevelDebug), "req-2")

	require.True(t, rc.Error(taggedErr{}))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "ERROR", lines[0]["level"])
	assert.Equal(t, "NETWORK_ERROR", lines[0]["error_type"])
	assert.Equal(t, "upstream down", lines[0]["error"])
	assert.Equal(t, "error", lines[0]["outcome"])
}

func TestRequestContext_Get(t *testing.T) {
	rc := NewRequestContext(New(&bytes.Buffer{}, slog.LevelInfo), "req-3")
	rc.Set("cache_status", "soft_miss")

	v, ok := rc.Get("cache_status")
	require.True(t, ok)
	assert.Equal(t, "soft_miss", v)

	_, ok = rc.Get("missing")
	assert.False(t, ok)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("whatever"))
}
