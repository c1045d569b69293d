package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alsafar-partners/legal-web/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, ":8080", cfg.Server.Addr())
	require.False(t, cfg.Server.Secure())
	require.Empty(t, cfg.CMS.BaseURL)
	require.Equal(t, 8*time.Second, cfg.CMS.Timeout)
	require.Equal(t, 1, cfg.CMS.Attempts)
	require.Zero(t, cfg.CMS.CacheTTL)
	require.Equal(t, ":memory:", cfg.Subscribers.Path)
	require.Equal(t, "en", cfg.Content.DefaultLang)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "legalweb.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
cms:
  base_url: https://cms.example.com/
  timeout: 3s
  cache_ttl: 30s
log:
  level: debug
`), 0o600))

	t.Setenv("LEGALWEB_CMS_TIMEOUT", "5s")
	t.Setenv("LEGALWEB_SUBSCRIBERS_PATH", "/tmp/subscribers.db")

	cfg, err := config.Load(config.WithFile(file))
	require.NoError(t, err)
	require.Equal(t, "https://cms.example.com", cfg.CMS.BaseURL)
	require.Equal(t, 5*time.Second, cfg.CMS.Timeout)
	require.Equal(t, 30*time.Second, cfg.CMS.CacheTTL)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "/tmp/subscribers.db", cfg.Subscribers.Path)
}

func TestLoadMissingFileIsIgnored(t *testing.T) {
	_, err := config.Load(config.WithFile(filepath.Join(t.TempDir(), "absent.yaml")))
	require.NoError(t, err)
}

func TestLoadValidation(t *testing.T) {
	_, err := config.Load(config.WithOverrides(map[string]any{
		"server.port":          "http",
		"server.env":           "prod",
		"cms.base_url":         "cms.internal",
		"cms.attempts":         0,
		"content.default_lang": "fr",
		"log.level":            "loud",
	}))
	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr)
	require.ElementsMatch(t, []string{
		"server.port",
		"server.session_key",
		"cms.base_url",
		"cms.attempts",
		"content.default_lang",
		"log.level",
	}, verr.Fields())
}
