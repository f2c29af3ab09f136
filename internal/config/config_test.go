package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/comptroller-cli/pkg/comptroller"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, comptroller.DefaultBaseURL, cfg.Comptroller.BaseURL)
	assert.Equal(t, comptroller.DefaultUserAgent, cfg.Comptroller.UserAgent)
	assert.Equal(t, 1.0, cfg.Comptroller.RateLimitSecs)
	assert.Equal(t, 30.0, cfg.Comptroller.TimeoutSecs)
	assert.Zero(t, cfg.Comptroller.PageSize)
	assert.Zero(t, cfg.Comptroller.MaxPages)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CPA_COMPTROLLER_RATE_LIMIT_SECS", "0.25")
	t.Setenv("CPA_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.25, cfg.Comptroller.RateLimitSecs)
	assert.Equal(t, "debug", cfg.Log.Level)
}
