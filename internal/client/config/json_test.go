package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"project_id":    "my-project",
		"poll_interval": "10s",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "my-project", cfg.ProjectID)
		assert.Equal(t, 10*time.Second, cfg.PollInterval)
	})

	t.Run("partial file leaves other fields unchanged", func(t *testing.T) {
		path := writeTempJSON(t, dir, "partial.json", map[string]any{
			"database_path": "elsewhere.db",
		})
		os.Args = []string{"testbin", "-c", path}

		cfg := &Config{ProjectID: "keep-me", PollInterval: 42 * time.Second}
		parseJson(cfg)

		assert.Equal(t, "keep-me", cfg.ProjectID)
		assert.Equal(t, 42*time.Second, cfg.PollInterval)
		assert.Equal(t, "elsewhere.db", cfg.DatabasePath)
	})

	t.Run("no config flag means no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{ProjectID: "defaults", PollInterval: 42 * time.Second}
		parseJson(cfg)

		assert.Equal(t, "defaults", cfg.ProjectID)
		assert.Equal(t, 42*time.Second, cfg.PollInterval)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
