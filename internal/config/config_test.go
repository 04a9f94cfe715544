package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "MAX_UPLOAD_BYTES", "INDEX_BACKEND", "QDRANT_PORT", "QDRANT_USE_TLS", "RATE_LIMIT_RPS", "INDEX_BREAKER_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, int64(20<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "qdrant", cfg.IndexBackend)
	assert.Equal(t, 6334, cfg.QdrantPort)
	assert.False(t, cfg.QdrantUseTLS)
	assert.Equal(t, "track_features_v1", cfg.QdrantCollection)
	assert.Equal(t, 10.0, cfg.RateLimitRPS)
	assert.Equal(t, 30*time.Second, cfg.IndexBreakerTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://tracks@db/tracks?sslmode=disable")
	t.Setenv("INDEX_BACKEND", "memory")
	t.Setenv("QDRANT_PORT", "7000")
	t.Setenv("QDRANT_USE_TLS", "true")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")
	t.Setenv("INDEX_BREAKER_TIMEOUT", "2m")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "postgres://tracks@db/tracks?sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, "memory", cfg.IndexBackend)
	assert.Equal(t, 7000, cfg.QdrantPort)
	assert.True(t, cfg.QdrantUseTLS)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
	assert.Equal(t, 10.0, cfg.RateLimitRPS)
	assert.Equal(t, 2*time.Minute, cfg.IndexBreakerTimeout)
}
