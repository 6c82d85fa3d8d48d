package xdg

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withGOOS(t *testing.T, os string) {
	t.Helper()
	old := goos
	goos = os
	t.Cleanup(func() { goos = old })
}

func TestDataDir_Linux(t *testing.T) {
	withGOOS(t, "linux")

	t.Run("XDG_DATA_HOME set", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
		got, err := DataDir("legal-toolkit")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/tmp/xdg-data", "legal-toolkit"), got)
	})

	t.Run("fallback to home", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "")
		t.Setenv("HOME", "/home/alice")
		got, err := DataDir("legal-toolkit")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/home/alice", ".local", "share", "legal-toolkit"), got)
	})
}

func TestDataDir_Darwin(t *testing.T) {
	withGOOS(t, "darwin")
	t.Setenv("HOME", "/Users/alice")

	got, err := DataDir("legal-toolkit")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/Users/alice", "Library", "Application Support", "legal-toolkit"), got)
}

func TestDataDir_WindowsRequiresLocalAppData(t *testing.T) {
	withGOOS(t, "windows")
	t.Setenv("LOCALAPPDATA", "")

	_, err := DataDir("legal-toolkit")
	require.Error(t, err)

	t.Setenv("LOCALAPPDATA", `C:\Users\alice\AppData\Local`)
	got, err := DataDir("legal-toolkit")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(`C:\Users\alice\AppData\Local`, "legal-toolkit"), got)
}

func TestConfigAndLogsDir_Linux(t *testing.T) {
	withGOOS(t, "linux")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")

	cfg, err := ConfigDir("legal-toolkit")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg-config", "legal-toolkit"), cfg)

	logs, err := LogsDir("legal-toolkit")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg, "logs"), logs)
}
