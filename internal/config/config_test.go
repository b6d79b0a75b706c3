package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "disk", cfg.Storage.Backend)
	assert.Equal(t, int64(50<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, "/uploads", cfg.Upload.PublicPrefix)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DEVFOLIO_DATABASE_DRIVER", "postgres")
	t.Setenv("DEVFOLIO_DATABASE_URL", "postgres://localhost/devfolio")
	t.Setenv("DEVFOLIO_UPLOAD_MAXBYTES", "1024")
	t.Setenv("DEVFOLIO_RATELIMIT_WINDOW", "30s")
	t.Setenv("DEVFOLIO_SERVER_CORSORIGINS", "http://a.test,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, int64(1024), cfg.Upload.MaxBytes)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())
	base, err := Load()
	require.NoError(t, err)

	cases := map[string]func(*Config){
		"unknown driver":        func(c *Config) { c.Database.Driver = "mysql" },
		"postgres without url":  func(c *Config) { c.Database.Driver = "postgres" },
		"s3 without bucket":     func(c *Config) { c.Storage.Backend = "s3" },
		"unknown backend":       func(c *Config) { c.Storage.Backend = "ftp" },
		"zero upload limit":     func(c *Config) { c.Upload.MaxBytes = 0 },
		"relative prefix":       func(c *Config) { c.Upload.PublicPrefix = "uploads" },
		"sendgrid without from": func(c *Config) { c.Mail.SendGridKey = "key" },
		"admin without secret":  func(c *Config) { c.Auth.AdminUsername = "admin" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
