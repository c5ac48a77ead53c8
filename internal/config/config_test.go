package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, 1, cfg.Crawler.MaxDepth)
	require.Equal(t, []string{"/product/", "/p/"}, cfg.Crawler.ProductMarkers)
	require.Equal(t, 3, cfg.Scraper.MaxAttempts)
	require.Equal(t, "products", cfg.DB.Table)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, 15*time.Second, cfg.Timeout())

	minDelay, maxDelay := cfg.DelayRange()
	require.Equal(t, 300*time.Millisecond, minDelay)
	require.Equal(t, 800*time.Millisecond, maxDelay)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9090
crawler:
  seeds:
    - https://www.petsmart.com/dog/food/
    - https://www.petsmart.com/cat/toys/
  max_depth: 2
scraper:
  max_attempts: 5
http:
  user_agents:
    - test-agent/1.0
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Len(t, cfg.Crawler.Seeds, 2)
	require.Equal(t, 2, cfg.Crawler.MaxDepth)
	require.Equal(t, 5, cfg.Scraper.MaxAttempts)
	require.Equal(t, []string{"test-agent/1.0"}, cfg.HTTP.UserAgents)
}

func TestValidateRejectsBadValues(t *testing.T) {
	base, err := Load("")
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"zero depth", func(c *Config) { c.Crawler.MaxDepth = 0 }},
		{"relative seed", func(c *Config) { c.Crawler.Seeds = []string{"/dog/food/"} }},
		{"malformed seed", func(c *Config) { c.Crawler.Seeds = []string{"://bad"} }},
		{"inverted delay range", func(c *Config) { c.Crawler.DelayMinMs = 500; c.Crawler.DelayMaxMs = 100 }},
		{"zero attempts", func(c *Config) { c.Scraper.MaxAttempts = 0 }},
		{"zero timeout", func(c *Config) { c.HTTP.TimeoutSeconds = 0 }},
		{"zero workers", func(c *Config) { c.Pipeline.Workers = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
