package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ServerDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoad_ServerTimeoutsFromEnv(t *testing.T) {
	t.Setenv("SERVER_READ_TIMEOUT", "3s")
	t.Setenv("SERVER_WRITE_TIMEOUT", "4s")
	t.Setenv("SERVER_IDLE_TIMEOUT", "1m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 4*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, time.Minute, cfg.Server.IdleTimeout)
}

func TestLoad_BadTimeoutRejected(t *testing.T) {
	t.Setenv("SERVER_READ_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}
