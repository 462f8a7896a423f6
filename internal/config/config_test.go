package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := NewConfig()

		assert.EqualValues(t, 8190, cfg.HTTP.Port)
		assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
		assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
		assert.True(t, cfg.Analytics.RefreshEnabled)
		assert.Equal(t, "*/30 * * * *", cfg.Analytics.RefreshSchedule)
		assert.True(t, cfg.Tasks.Enabled)
		assert.Equal(t, 2, cfg.Tasks.Workers)
		assert.Equal(t, time.Minute, cfg.Tasks.RetryDelay)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("PORT", "9000")
		t.Setenv("DATABASE_PATH", "/tmp/catalog.db")
		t.Setenv("ANALYTICS_REFRESH_ENABLED", "false")

		cfg := NewConfig()
		assert.EqualValues(t, 9000, cfg.HTTP.Port)
		assert.Equal(t, "/tmp/catalog.db", cfg.Database.Path)
		assert.False(t, cfg.Analytics.RefreshEnabled)
	})
}
