package logx

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
		"off":     100,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in).Level(), in)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", "text")
	logger.Info("should not print")
	logger.Warn("warn on")
	assert.NotContains(t, buf.String(), "should not print")
	assert.Contains(t, buf.String(), "warn on")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "info", "json").Info("hello", "k", "v")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "v", rec["k"])
}

func TestHelpersUseDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	slog.SetDefault(New(&buf, "debug", "text"))
	Debugf("d %d", 1)
	Infof("i %s", "x")
	Warnf("w")
	Errorf("e")
	for _, want := range []string{"d 1", "i x", "level=WARN", "level=ERROR"} {
		assert.Contains(t, buf.String(), want)
	}
}
