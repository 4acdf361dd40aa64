package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prateek-0000/faculty-rnd-insights/internal/grants"
)

func TestHealthService_Health(t *testing.T) {
	ctx := context.Background()

	t.Run("healthy when every source loads", func(t *testing.T) {
		service := NewHealthService(newTestStore(t), "1.0.0", "2026-01-01", slog.Default())
		status := service.Health(ctx)

		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, "1.0.0", status.Version)
		assert.Equal(t, 3, status.Rows)
		require.Len(t, status.Sources, 2)
		assert.True(t, status.Sources[0].Available)
		assert.True(t, status.Sources[1].Available)
	})

	t.Run("degraded when one source is missing", func(t *testing.T) {
		dir := t.TempDir()
		sources := grants.DefaultSources()
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, sources[0].CSVName),
			[]byte("Title\nGrant A\n"), 0o644))

		service := NewHealthService(grants.NewStore(dir, sources, slog.Default()), "1.0.0", "", slog.Default())
		status := service.Health(ctx)

		assert.Equal(t, "degraded", status.Status)
		assert.Equal(t, 1, status.Rows)
	})

	t.Run("unavailable when nothing loads", func(t *testing.T) {
		service := NewHealthService(newEmptyStore(t), "1.0.0", "", slog.Default())
		status := service.Health(ctx)

		assert.Equal(t, "unavailable", status.Status)
		assert.Zero(t, status.Rows)
	})
}

func TestHealthService_Ready(t *testing.T) {
	ctx := context.Background()

	assert.True(t, NewHealthService(newTestStore(t), "1.0.0", "", slog.Default()).Ready(ctx))
	assert.False(t, NewHealthService(newEmptyStore(t), "1.0.0", "", slog.Default()).Ready(ctx))
}

func TestHealthService_Version(t *testing.T) {
	service := NewHealthService(newEmptyStore(t), "2.3.4", "", slog.Default())
	assert.Equal(t, "2.3.4", service.Version())
}
