package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type Config struct {
	ServerPort string

	StoreDriver string
	SQLitePath  string
	StoreTable  string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
	RateLimit     int

	AuthSecret       string
	AuthPasswordHash string
	AuthTokenTTL     time.Duration

	RolloverInterval time.Duration
}

// Load reads the configuration from the environment, after an optional .env
// file in the working directory.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		ServerPort:       getEnv("PORT", "8080"),
		StoreDriver:      getEnv("STORE_DRIVER", DriverSQLite),
		SQLitePath:       getEnv("SQLITE_PATH", "kanso-streaks.db"),
		StoreTable:       getEnv("STORE_TABLE", "kv_store"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "kanso_user"),
		DBPassword:       getEnv("DB_PASSWORD", "secret"),
		DBName:           getEnv("DB_NAME", "kanso_db"),
		RedisHost:        getEnv("REDIS_HOST", ""),
		RedisPort:        getEnv("REDIS_PORT", "6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		AuthSecret:       getEnv("AUTH_SECRET", ""),
		AuthPasswordHash: getEnv("AUTH_PASSWORD_HASH", ""),
	}

	var err error
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = getEnvInt("RATE_LIMIT", 100); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getEnvDuration("CACHE_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.AuthTokenTTL, err = getEnvDuration("AUTH_TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RolloverInterval, err = getEnvDuration("ROLLOVER_INTERVAL", time.Minute); err != nil {
		return nil, err
	}

	switch cfg.StoreDriver {
	case DriverMemory, DriverSQLite, DriverPostgres:
	case DriverRedis:
		if !cfg.RedisEnabled() {
			return nil, fmt.Errorf("config: STORE_DRIVER %q requires REDIS_HOST", cfg.StoreDriver)
		}
	default:
		return nil, fmt.Errorf("config: unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}

func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// AuthEnabled reports whether the API requires an owner token.
func (c *Config) AuthEnabled() bool {
	return c.AuthSecret != "" && c.AuthPasswordHash != ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be a duration: %w", key, err)
	}
	return d, nil
}
