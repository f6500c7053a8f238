package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, "database:\n  url: postgres://localhost/careers\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/careers", cfg.Database.URL)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "*", cfg.Server.CORSOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 24, cfg.Auth.JWTExpirationHours)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, "mastersolis.com", cfg.Admin.EmailDomain)
	assert.False(t, cfg.Admin.AllowRegistration)
	assert.Equal(t, int64(10<<20), cfg.Uploads.MaxResumeBytes)
	assert.Equal(t, 2*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "resumes", cfg.MinIO.Bucket)
}

func TestLoadFromFile_Values(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
  cors_origins: "https://a.example, https://b.example"
database:
  url: postgres://db/careers
  auto_migrate: true
redis:
  address: localhost:6379
  ttl: 30s
admin:
  allow_registration: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.True(t, cfg.Admin.AllowRegistration)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOriginList())
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	path := writeConfig(t, "database:\n  url: postgres://file/careers\n")
	t.Setenv("DATABASE_URL", "postgres://env/careers")
	t.Setenv("SERVER_PORT", "7001")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env/careers", cfg.Database.URL)
	assert.Equal(t, 7001, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		c := Config{Database: DatabaseConfig{URL: "postgres://x"}}
		applyDefaults(&c)
		return c
	}

	c := base()
	assert.NoError(t, c.Validate())

	c = base()
	c.Database.URL = ""
	assert.ErrorContains(t, c.Validate(), "database.url")

	c = base()
	c.Server.Port = 70000
	assert.ErrorContains(t, c.Validate(), "server.port")

	c = base()
	c.MinIO.Endpoint = "localhost:9000"
	assert.ErrorContains(t, c.Validate(), "minio")
}

func TestConfig_Builders(t *testing.T) {
	c := Config{Auth: AuthConfig{JWTSecret: "s", JWTExpirationHours: 2, BcryptCost: 11}}

	jwtCfg, err := c.JWT()
	require.NoError(t, err)
	assert.Equal(t, 2, jwtCfg.ExpirationHours)

	pw, err := c.Password()
	require.NoError(t, err)
	assert.Equal(t, 11, pw.BcryptCost)

	c.Auth.JWTSecret = ""
	_, err = c.JWT()
	assert.Error(t, err)
}

func TestCORSOriginList_Empty(t *testing.T) {
	c := Config{}
	assert.Equal(t, []string{"*"}, c.CORSOriginList())
}
