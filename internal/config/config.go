// Package config loads marketpulse configuration from the environment.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Config holds application configuration
type Config struct {
	// Server
	Env     string
	Port    string
	LogFile string

	// Storage
	StoreDriver   string
	SQLitePath    string
	MongoURI      string
	MongoDatabase string

	// Provider
	PolygonAPIKey           string
	PolygonBaseURL          string
	RequestTimeout          time.Duration
	ProviderMinInterval     time.Duration
	BreakerFailureThreshold int
	BreakerCooldown         time.Duration

	// Ingestion
	BatchSize         int // 0 derives the size from the number of batches
	TotalBatches      int
	DelayBase         time.Duration
	DelayStep         time.Duration
	DelayMaxJitter    time.Duration
	RateLimitCooldown time.Duration
	MarketTimezone    string

	// Scheduler, disabled when empty
	ScheduleCron  string
	ScheduleForce bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := &Config{
		Env:     getEnv("ENV", "development"),
		Port:    getEnv("PORT", "8080"),
		LogFile: os.Getenv("LOG_FILE"),

		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
		SQLitePath:    getEnv("SQLITE_PATH", "marketpulse.db"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "marketpulse"),

		PolygonAPIKey:  os.Getenv("POLYGON_API_KEY"),
		PolygonBaseURL: getEnv("POLYGON_BASE_URL", "https://api.polygon.io"),

		MarketTimezone: getEnv("MARKET_TIMEZONE", "America/New_York"),
		ScheduleCron:   os.Getenv("SCHEDULE_CRON"),
	}

	switch cfg.StoreDriver {
	case DriverPostgres, DriverSQLite, DriverMongo:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q: must be postgres, sqlite, or mongo", cfg.StoreDriver)
	}

	durations := []struct {
		key  string
		def  time.Duration
		dst  *time.Duration
		zero bool // whether zero is an acceptable value
	}{
		{"REQUEST_TIMEOUT", 30 * time.Second, &cfg.RequestTimeout, false},
		{"PROVIDER_MIN_INTERVAL", 12 * time.Second, &cfg.ProviderMinInterval, true},
		{"BREAKER_COOLDOWN", time.Minute, &cfg.BreakerCooldown, false},
		{"DELAY_BASE", time.Second, &cfg.DelayBase, true},
		{"DELAY_STEP", 200 * time.Millisecond, &cfg.DelayStep, true},
		{"DELAY_MAX_JITTER", 500 * time.Millisecond, &cfg.DelayMaxJitter, true},
		{"RATE_LIMIT_COOLDOWN", time.Minute, &cfg.RateLimitCooldown, true},
	}
	for _, d := range durations {
		v, err := parseDuration(d.key, os.Getenv(d.key), d.def, d.zero)
		if err != nil {
			return nil, err
		}
		*d.dst = v
	}

	ints := []struct {
		key string
		def int
		min int
		dst *int
	}{
		{"BREAKER_FAILURE_THRESHOLD", 5, 1, &cfg.BreakerFailureThreshold},
		{"BATCH_SIZE", 0, 0, &cfg.BatchSize},
		{"TOTAL_BATCHES", 11, 1, &cfg.TotalBatches},
	}
	for _, i := range ints {
		v, err := parseInt(i.key, os.Getenv(i.key), i.def, i.min)
		if err != nil {
			return nil, err
		}
		*i.dst = v
	}

	force, err := parseBool(os.Getenv("SCHEDULE_FORCE_UPDATE"), false)
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULE_FORCE_UPDATE value: %w", err)
	}
	cfg.ScheduleForce = force

	if _, err := time.LoadLocation(cfg.MarketTimezone); err != nil {
		return nil, fmt.Errorf("invalid MARKET_TIMEZONE %q: %w", cfg.MarketTimezone, err)
	}

	return cfg, nil
}

// PostgresDSN returns the PostgreSQL connection string built from DB_* variables.
func PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "marketpulse"),
		getEnv("DB_PASSWORD", "marketpulse"),
		getEnv("DB_NAME", "marketpulse"),
		getEnv("DB_SSLMODE", "disable"),
	)
}

// PostgresURL returns the postgres:// URL form used by golang-migrate.
func PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("DB_USER", "marketpulse"),
		getEnv("DB_PASSWORD", "marketpulse"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "marketpulse"),
		getEnv("DB_SSLMODE", "disable"),
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(key, s string, def time.Duration, allowZero bool) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if d < 0 || (d == 0 && !allowZero) {
		return 0, fmt.Errorf("%s must be positive, got %v", key, d)
	}
	return d, nil
}

func parseInt(key, s string, def, minVal int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if n < minVal {
		return 0, fmt.Errorf("%s must be at least %d, got %d", key, minVal, n)
	}
	return n, nil
}

func parseBool(s string, defaultVal bool) (bool, error) {
	if s == "" {
		return defaultVal, nil
	}
	switch strings.ToLower(s) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("must be true, false, 1, or 0, got %q", s)
	}
}
