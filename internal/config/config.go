package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	GinMode   string
	JWTSecret string

	DBDriver    string // sqlite or postgres
	DBPath      string
	DatabaseURL string

	UploadDir      string
	MaxUploadBytes int64

	IndexBackend     string // qdrant or memory
	QdrantHost       string
	QdrantPort       int
	QdrantAPIKey     string
	QdrantUseTLS     bool
	QdrantCollection string

	IndexBreakerFailures int
	IndexBreakerTimeout  time.Duration

	LogLevel  string
	LogFormat string

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from the environment, after loading .env
// from the working directory when it exists
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:      getEnv("PORT", ":8080"),
		GinMode:   getEnv("GIN_MODE", "release"),
		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBPath:      getEnv("DB_PATH", "./data/tracks/tracks.db"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		UploadDir:      getEnv("UPLOAD_DIR", "./data/uploads"),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 20<<20),

		IndexBackend:     strings.ToLower(getEnv("INDEX_BACKEND", "qdrant")),
		QdrantHost:       getEnv("QDRANT_HOST", "localhost"),
		QdrantPort:       int(getEnvInt64("QDRANT_PORT", 6334)),
		QdrantAPIKey:     getEnv("QDRANT_API_KEY", ""),
		QdrantUseTLS:     getEnvBool("QDRANT_USE_TLS", false),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "track_features_v1"),

		IndexBreakerFailures: int(getEnvInt64("INDEX_BREAKER_FAILURES", 5)),
		IndexBreakerTimeout:  getEnvDuration("INDEX_BREAKER_TIMEOUT", 30*time.Second),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: int(getEnvInt64("RATE_LIMIT_BURST", 20)),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
