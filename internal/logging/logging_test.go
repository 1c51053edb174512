package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug":  slog.LevelDebug,
		"INFO":   slog.LevelInfo,
		" warn ": slog.LevelWarn,
		"error":  slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(JSONFormat, slog.LevelInfo, &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("frame presented", "width", 640)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "frame presented", rec["msg"])
	assert.EqualValues(t, 640, rec["width"])

	_, err = NewLogger("xml", slog.LevelInfo, &buf)
	assert.Error(t, err)
}

func TestPionLoggerFactory(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(TextFormat, slog.LevelInfo, &buf)
	require.NoError(t, err)

	f := &PionLoggerFactory{Logger: logger}
	l := f.NewLogger("ice")
	l.Tracef("candidate %d", 1)
	l.Warnf("gathering took %dms", 250)

	out := buf.String()
	assert.NotContains(t, out, "candidate")
	assert.Contains(t, out, "gathering took 250ms")
	assert.Contains(t, out, "pion-scope=ice")
}
