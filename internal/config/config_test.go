package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junsooki/AirView/internal/surface"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "airview.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestViewerDefaults(t *testing.T) {
	cfg, err := ParseViewerFlags("viewer", []string{"-sender", "s1"})
	require.NoError(t, err)

	assert.Equal(t, "s1", cfg.SenderID)
	assert.Equal(t, "fit", cfg.Gravity)
	assert.Equal(t, 60, cfg.FPS)
	assert.True(t, strings.HasPrefix(cfg.ViewerID, "viewer-"))
	assert.Empty(t, cfg.ICEServers)
}

func TestViewerFileThenFlags(t *testing.T) {
	path := writeFile(t, `
sender: from-file
gravity: fill
width: 800
iceServers:
  - stun:stun.example.org:3478
log:
  format: json
`)
	cfg, err := ParseViewerFlags("viewer", []string{"-config", path, "-width", "1024"})
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.SenderID)
	assert.Equal(t, "fill", cfg.Gravity)
	assert.Equal(t, 1024, cfg.Width)
	assert.Equal(t, 720, cfg.Height)
	assert.Equal(t, []string{"stun:stun.example.org:3478"}, cfg.ICEServers)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestViewerErrors(t *testing.T) {
	_, err := ParseViewerFlags("viewer", nil)
	assert.ErrorIs(t, err, ErrMissingSender)

	_, err = ParseViewerFlags("viewer", []string{"-sender", "s1", "-gravity", "zoom"})
	assert.ErrorIs(t, err, surface.ErrInvalidConfig)

	_, err = ParseViewerFlags("viewer", []string{"-sender", "s1", "-fps", "0"})
	assert.Error(t, err)

	_, err = ParseViewerFlags("viewer", []string{"-sender", "s1", "-fps", "2000000000"})
	assert.Error(t, err)

	_, err = ParseViewerFlags("viewer", []string{"-config", writeFile(t, "bogus: 1\n")})
	assert.Error(t, err)

	_, err = ParseViewerFlags("viewer", []string{"-config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSenderFlags(t *testing.T) {
	cfg, err := ParseSenderFlags("sender", []string{
		"-id", "cam", "-fps", "15", "-ice", "stun:a:3478, ,turn:b:3478",
	})
	require.NoError(t, err)

	assert.Equal(t, "cam", cfg.SenderID)
	assert.Equal(t, 15, cfg.FPS)
	assert.Equal(t, 1920, cfg.MaxWidth)
	assert.Equal(t, []string{"stun:a:3478", "turn:b:3478"}, cfg.ICEServers)

	_, err = ParseSenderFlags("sender", []string{"-fps", "0"})
	assert.Error(t, err)
}

func TestEmptyConfigFile(t *testing.T) {
	cfg, err := ParseSenderFlags("sender", []string{"--config=" + writeFile(t, "")})
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.FPS)
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "a.yaml", configPath([]string{"-config", "a.yaml"}))
	assert.Equal(t, "b.yaml", configPath([]string{"-v", "--config=b.yaml"}))
	assert.Equal(t, "", configPath([]string{"config", "c.yaml"}))
	assert.Equal(t, "", configPath([]string{"-config"}))
}
