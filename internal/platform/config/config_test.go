package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestDefaults(t *testing.T) {
	cfg, err := fromViper(newTestViper(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, "hesabdari_token", cfg.AuthCookieName)
	assert.Equal(t, "0.01", cfg.BalanceTolerance.String())
	assert.False(t, cfg.ClosingAllowOptionalFailures)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestOverrides(t *testing.T) {
	cfg, err := fromViper(newTestViper(map[string]any{
		"STORAGE_DRIVER":                  "MEMORY",
		"JWT_SECRET":                      "s3cr3t",
		"JWT_EXPIRY_DURATION":             "15m",
		"BALANCE_TOLERANCE":               "0.001",
		"CLOSING_ALLOW_OPTIONAL_FAILURES": true,
		"CORS_ALLOWED_ORIGINS":            "https://a.example, https://b.example,",
	}))
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, "s3cr3t", cfg.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.JWTExpiryDuration)
	assert.Equal(t, "0.001", cfg.BalanceTolerance.String())
	assert.True(t, cfg.ClosingAllowOptionalFailures)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestInvalidValues(t *testing.T) {
	_, err := fromViper(newTestViper(map[string]any{"STORAGE_DRIVER": "sqlite"}))
	assert.Error(t, err)

	_, err = fromViper(newTestViper(map[string]any{"BALANCE_TOLERANCE": "-1"}))
	assert.Error(t, err)

	_, err = fromViper(newTestViper(map[string]any{"IS_PRODUCTION": true}))
	assert.Error(t, err, "production requires an explicit JWT secret")

	cfg, err := fromViper(newTestViper(map[string]any{"JWT_EXPIRY_DURATION": "soon"}))
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.JWTExpiryDuration)
}
