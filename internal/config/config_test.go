package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "https://api.mapbox.com", cfg.Mapbox.BaseURL)
	assert.Equal(t, "v5", cfg.Mapbox.APIVersion)
	assert.Equal(t, 30, cfg.Mapbox.RequestTimeout)
	assert.Equal(t, 50, cfg.Mapbox.MaxBatchQueries)
	assert.False(t, cfg.Mapbox.Permanent)
	assert.Equal(t, "geocode-batch-workers", cfg.Worker.ConsumerGroup)
	assert.Equal(t, 5*time.Second, cfg.Worker.StreamReadTimeout)
	assert.Equal(t, 20, cfg.Worker.MaxBatchSize)
	assert.Equal(t, 50, cfg.Scheduler.BatchSize)
	assert.Equal(t, 50*time.Millisecond, cfg.Scheduler.Interval)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("API_HOST", "0.0.0.0")
	v.Set("API_PORT", 9000)
	v.Set("MAPBOX_ACCESS_TOKEN", "pk.test")
	v.Set("MAPBOX_BASE_URL", "http://localhost:8081/")
	v.Set("MAPBOX_PERMANENT", true)
	v.Set("MAPBOX_MAX_BATCH_QUERIES", 10)
	v.Set("REDIS_HOST", "redis")
	v.Set("REDIS_PORT", 6379)

	cfg := fromViper(v)

	assert.Equal(t, "0.0.0.0:9000", cfg.GetServerAddr())
	assert.Equal(t, "pk.test", cfg.Mapbox.AccessToken)
	assert.Equal(t, "http://localhost:8081", cfg.Mapbox.BaseURL)
	assert.True(t, cfg.Mapbox.Permanent)
	assert.Equal(t, 10, cfg.Mapbox.MaxBatchQueries)
	assert.Equal(t, 10, cfg.Scheduler.BatchSize)
	assert.Equal(t, "redis:6379", cfg.GetRedisAddr())
}
