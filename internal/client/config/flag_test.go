package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("overrides from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-p", "flag-project", "-d", "flag.db", "-i", "30"}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFlags(cfg)

		assert.Equal(t, "flag-project", cfg.ProjectID)
		assert.Equal(t, "flag.db", cfg.DatabasePath)
		assert.Equal(t, 30*time.Second, cfg.PollInterval)
	})

	t.Run("defaults survive when flags absent", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFlags(cfg)

		assert.Equal(t, "groupshare-dev", cfg.ProjectID)
		assert.Equal(t, 15*time.Second, cfg.PollInterval)
	})
}
