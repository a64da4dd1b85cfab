package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, "900s", cfg.JWT.AccessTTL)
	assert.Equal(t, "14d", cfg.JWT.RefreshTTL)
	assert.Equal(t, "strict", cfg.Cookie.SameSite)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 200, cfg.RateLimit.MaxRequests)
	assert.Equal(t, "memory", cfg.RateLimit.Store)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
server:
  port: "5000"
rate_limit:
  max_requests: 50
jwt:
  access_ttl: 10m
`), 0o644))

	t.Setenv("RATE_LIMIT_MAX", "7")
	t.Setenv("CORS_ORIGIN", "https://a.example.com, https://b.example.com")

	cfg, err := LoadConfig(file)
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "10m", cfg.JWT.AccessTTL)
	assert.Equal(t, 7, cfg.RateLimit.MaxRequests)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, file, cfg.ConfigFile)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateReleaseSecrets(t *testing.T) {
	long := "0123456789abcdef0123456789abcdef"
	cases := []struct {
		name    string
		access  string
		refresh string
		ok      bool
	}{
		{"short access", "short", long + "x", false},
		{"short refresh", long, "short", false},
		{"identical", long, long, false},
		{"strong", long, long + "x", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{Server: ServerConfig{Mode: "release"}, JWT: JWTConfig{AccessSecret: tc.access, RefreshSecret: tc.refresh}}
			if tc.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}

	dev := &Config{Server: ServerConfig{Mode: "debug"}, JWT: JWTConfig{AccessSecret: "a", RefreshSecret: "a"}}
	assert.NoError(t, dev.Validate())
}
