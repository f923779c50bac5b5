package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskflow/taskflow-api/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "taskflow.db", cfg.Database.Path)
	assert.Equal(t, 4, cfg.Database.MaxOpenConns)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TASKFLOW_SERVER_PORT", "9090")
	t.Setenv("TASKFLOW_SERVER_LOG_LEVEL", "debug")
	t.Setenv("TASKFLOW_DATABASE_PATH", "/tmp/override.db")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "/tmp/override.db", cfg.Database.Path)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "TASKFLOW_SERVER_PORT", "70000"},
		{"unknown log level", "TASKFLOW_SERVER_LOG_LEVEL", "verbose"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			_, err := config.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validating config")
		})
	}
}
