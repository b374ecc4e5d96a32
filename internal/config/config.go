package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config 应用配置
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string
	TokenTTL  time.Duration

	LogLevel  string
	LogFormat string

	// Risk grid
	CellSize         float64
	AggregateWorkers int

	// Nominatim geocoding
	GeocoderURL        string
	GeocoderCitySuffix string
	GeocoderUserAgent  string
	GeocoderTimeout    time.Duration
	GeocoderCacheSize  int

	// Shared geocode cache, disabled when RedisAddr is empty
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	GeocodeCacheTTL time.Duration

	SessionIdleTTL  time.Duration
	SearchRateLimit int // Address searches per client IP per minute
	ShutdownTimeout time.Duration
}

// Load 加载配置
// Values from a .env file in the working directory never override the real environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Port:               envOrDefault("PORT", ":8080"),
		DBPath:             envOrDefault("DB_PATH", "./data/ecorisk.db"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		LogFormat:          envOrDefault("LOG_FORMAT", "json"),
		GeocoderURL:        envOrDefault("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		GeocoderCitySuffix: envOrDefault("GEOCODER_CITY_SUFFIX", ", Санкт-Петербург"),
		GeocoderUserAgent:  envOrDefault("GEOCODER_USER_AGENT", "eco_risk_map"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
	}

	var err error
	if cfg.TokenTTL, err = parseDuration("SESSION_TOKEN_TTL", "168h", true); err != nil {
		return nil, err
	}
	if cfg.CellSize, err = parseFloat("CELL_SIZE", 0.0045); err != nil {
		return nil, err
	}
	if cfg.AggregateWorkers, err = parseInt("AGGREGATE_WORKERS", runtime.NumCPU()); err != nil {
		return nil, err
	}
	if cfg.GeocoderTimeout, err = parseDuration("GEOCODER_TIMEOUT", "5s", false); err != nil {
		return nil, err
	}
	if cfg.GeocoderCacheSize, err = parseInt("GEOCODER_CACHE_SIZE", 1000); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = parseInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.GeocodeCacheTTL, err = parseDuration("GEOCODE_CACHE_TTL", "24h", false); err != nil {
		return nil, err
	}
	if cfg.SessionIdleTTL, err = parseDuration("SESSION_IDLE_TTL", "30m", true); err != nil {
		return nil, err
	}
	if cfg.SearchRateLimit, err = parseInt("SEARCH_RATE_LIMIT", 30); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = parseDuration("SHUTDOWN_TIMEOUT", "10s", false); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if math.IsNaN(c.CellSize) || math.IsInf(c.CellSize, 0) || c.CellSize <= 0 {
		return errors.New("CELL_SIZE must be a positive finite number")
	}
	if c.AggregateWorkers < 1 {
		return errors.New("AGGREGATE_WORKERS must be at least 1")
	}
	if c.GeocoderCacheSize < 0 {
		return errors.New("GEOCODER_CACHE_SIZE must not be negative")
	}
	if c.SearchRateLimit < 1 {
		return errors.New("SEARCH_RATE_LIMIT must be at least 1")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

// parseDuration reads a positive duration; allowZero also accepts 0 to disable the feature
func parseDuration(key, fallback string, allowZero bool) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 || (d == 0 && !allowZero) {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
