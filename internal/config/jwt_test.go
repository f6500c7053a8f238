package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig_DefaultExpiration(t *testing.T) {
	cfg, err := NewJWTConfig("test-secret-key", 0)
	require.NoError(t, err)
	assert.Equal(t, "test-secret-key", cfg.Secret)
	assert.Equal(t, 24, cfg.ExpirationHours, "should use default expiration of 24 hours")
	assert.Equal(t, 24*time.Hour, cfg.Expiration())
}

func TestNewJWTConfig_CustomExpiration(t *testing.T) {
	for _, hours := range []int{1, 12, 48} {
		cfg, err := NewJWTConfig("s", hours)
		require.NoError(t, err)
		assert.Equal(t, hours, cfg.ExpirationHours)
	}
}

func TestNewJWTConfig_MissingSecret(t *testing.T) {
	cfg, err := NewJWTConfig("", 24)
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "jwt_secret is required")
}

func TestNewJWTConfig_InvalidExpiration(t *testing.T) {
	cfg, err := NewJWTConfig("s", -3)
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "at least 1 hour")
}
