package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName          string
	AppVersion       string
	Environment      string
	HTTPAddr         string
	AuthCookieSecure bool

	OTLPEndpoint string

	AdminUsername string
	AdminPassword string

	SettingsFile string

	Cache     CacheConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig

	GoogleSheetsCredentialsFile string
	ImportMaxBytes              int64

	RemoteAutoMigrate bool
	SnowflakeNode     int64
}

type CacheConfig struct {
	Driver     string
	SQLitePath string
	RedisKey   string
}

// RedisConfig is shared by the redis cache driver and the rate limiter.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled       bool
	LoginRate     float64
	LoginBurst    int
	CommitLockTTL time.Duration
}

// UsesRedis reports whether any component needs a redis connection.
func (c Config) UsesRedis() bool {
	return c.Cache.Driver == CacheDriverRedis || c.RateLimit.Enabled
}

const (
	CacheDriverSQLite = "sqlite"
	CacheDriverRedis  = "redis"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	authCookieSecure := environment == "production"
	if !authCookieSecure {
		authCookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	return Config{
		AppName:          getenv("APP_SERVICE", "iomreport"),
		AppVersion:       getenv("APP_VERSION", "0.1.0"),
		Environment:      environment,
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		AuthCookieSecure: authCookieSecure,
		OTLPEndpoint:     getenv("OTLP_ENDPOINT", ""),
		AdminUsername:    strings.TrimSpace(getenv("ADMIN_USERNAME", "admin")),
		AdminPassword:    getenv("ADMIN_PASSWORD", "banglalink12345"),
		SettingsFile:     getenv("SETTINGS_FILE", "./data/settings.yaml"),
		Cache: CacheConfig{
			Driver:     normalizeCacheDriver(getenv("CACHE_DRIVER", CacheDriverSQLite)),
			SQLitePath: getenv("CACHE_SQLITE_PATH", "./data/cache.db"),
			RedisKey:   getenv("REDIS_CACHE_KEY", "iomreport:records"),
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(getenv("REDIS_ADDR", "localhost:6379")),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       int(getenvInt64("REDIS_DB", 0)),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getenvBool("RATE_LIMIT_ENABLED", false),
			LoginRate:     getenvFloat("RATE_LIMIT_LOGIN_RATE", 0.2),
			LoginBurst:    int(getenvInt64("RATE_LIMIT_LOGIN_BURST", 5)),
			CommitLockTTL: time.Duration(getenvInt64("COMMIT_LOCK_TTL_SECONDS", 600)) * time.Second,
		},
		GoogleSheetsCredentialsFile: strings.TrimSpace(getenv("GOOGLE_SHEETS_CREDENTIALS_FILE", "")),
		ImportMaxBytes:              getenvInt64("IMPORT_MAX_BYTES", 32<<20),
		RemoteAutoMigrate:           getenvBool("REMOTE_AUTO_MIGRATE", false),
		SnowflakeNode:               getenvInt64("SNOWFLAKE_NODE", 1),
	}
}

func normalizeCacheDriver(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case CacheDriverRedis:
		return CacheDriverRedis
	default:
		return CacheDriverSQLite
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
