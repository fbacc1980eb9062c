package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 10, cfg.Backups.Keep)
	assert.Equal(t, 6, cfg.Words.Threshold)
	assert.Equal(t, 50, cfg.Words.Top)
	assert.Equal(t, "chats.json", cfg.Classify.Input)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "db: /tmp/x.db\nbackups:\n  keep: 3\nwords:\n  top: 5\nclassify:\n  output: out.json\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.DB)
	assert.Equal(t, 3, cfg.Backups.Keep)
	assert.Equal(t, 6, cfg.Words.Threshold)
	assert.Equal(t, 5, cfg.Words.Top)
	assert.Equal(t, "chats.json", cfg.Classify.Input)
	assert.Equal(t, "out.json", cfg.Classify.Output)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backups: [1, 2"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Backups.Keep = 4

	require.NoError(t, Write(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestPrecedence(t *testing.T) {
	cfg := Config{DB: "from-file.db"}

	t.Setenv(EnvDB, "")
	assert.Equal(t, "from-file.db", cfg.DBPath(""))

	t.Setenv(EnvDB, "from-env.db")
	assert.Equal(t, "from-env.db", cfg.DBPath(""))
	assert.Equal(t, "from-flag.db", cfg.DBPath("from-flag.db"))

	t.Setenv(EnvConfig, "env.yaml")
	assert.Equal(t, "env.yaml", Path(""))
	assert.Equal(t, "flag.yaml", Path("flag.yaml"))
}
