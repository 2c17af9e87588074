package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Load is a process-wide singleton, so defaults and env overrides are
// exercised in a single test.
func TestLoadDefaultsAndEnvOverrides(t *testing.T) {
	t.Setenv("TRACKWERK_AUTH_JWT_SECRET", "from-env")
	t.Setenv("TRACKWERK_DATABASE_DRIVER", "sqlite3")
	t.Setenv("TRACKWERK_SERVER_PORT", "9090")

	require.NoError(t, Load(t.TempDir()))
	cfg := Get()
	require.NotNil(t, cfg)

	assert.Equal(t, "trackwerk", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.False(t, cfg.App.IsProduction())
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "templates", cfg.Templates.Dir)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)

	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.GetServerAddr())
}
