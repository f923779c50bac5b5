package logger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskflow/taskflow-api/internal/config"
)

func TestSetupParsesLevels(t *testing.T) {
	tests := []struct {
		configured string
		want       slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tc := range tests {
		t.Run(tc.configured, func(t *testing.T) {
			log, err := Setup(config.ServerConfig{LogLevel: tc.configured})
			require.NoError(t, err)
			require.NotNil(t, log)

			assert.True(t, log.Enabled(context.Background(), tc.want))
			if tc.want > slog.LevelDebug {
				assert.False(t, log.Enabled(context.Background(), tc.want-4))
			}
		})
	}
}

func TestContextHelpers(t *testing.T) {
	base := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithLogger(context.Background(), base)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, base, got)

	assert.Same(t, base, FromContextOrDefault(ctx))
	assert.NotNil(t, FromContextOrDefault(context.Background()))
}
