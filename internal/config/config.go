package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment-based settings
type Config struct {
	Environment    string
	ServerAddress  string
	DatabaseURL    string
	MigrationsPath string
	JWTSecret      string
	LogLevel       string

	RedisAddress    string
	RedisUsername   string
	RedisPassword   string
	PreviewCacheTTL time.Duration

	MQTTBrokerURL string

	UseSpaces       bool
	SpacesEndpoint  string
	SpacesRegion    string
	SpacesBucket    string
	SpacesCDNURL    string
	SpacesAccessKey string
	SpacesSecretKey string
	UploadDir       string
}

// Development reports whether APP_ENV is "development".
func (c *Config) Development() bool { return c.Environment == "development" }

// Load reads configuration from environment variables. Values from a .env
// file in the working directory fill in anything not already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Environment:    get("APP_ENV", "production"),
		ServerAddress:  get("SERVER_ADDRESS", ":8080"),
		DatabaseURL:    getenv("DATABASE_URL"),
		MigrationsPath: get("MIGRATIONS_PATH", "./migrations"),
		JWTSecret:      getenv("JWT_SECRET"),
		LogLevel:       get("LOG_LEVEL", "info"),

		RedisAddress:  getenv("REDIS_ADDRESS"),
		RedisUsername: getenv("REDIS_USERNAME"),
		RedisPassword: getenv("REDIS_PASSWORD"),

		MQTTBrokerURL: getenv("MQTT_BROKER_URL"),

		SpacesEndpoint:  getenv("SPACES_ENDPOINT"),
		SpacesRegion:    getenv("SPACES_REGION"),
		SpacesBucket:    getenv("SPACES_BUCKET"),
		SpacesCDNURL:    getenv("SPACES_CDN_URL"),
		SpacesAccessKey: getenv("SPACES_ACCESS_KEY"),
		SpacesSecretKey: getenv("SPACES_SECRET_KEY"),
		UploadDir:       get("UPLOAD_DIR", "./uploads"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	ttl, err := time.ParseDuration(get("PREVIEW_CACHE_TTL", "5m"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("PREVIEW_CACHE_TTL must be a positive duration")
	}
	cfg.PreviewCacheTTL = ttl

	if v := getenv("USE_SPACES"); v != "" {
		cfg.UseSpaces, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("USE_SPACES must be a boolean: %w", err)
		}
	}
	if cfg.UseSpaces && (cfg.SpacesEndpoint == "" || cfg.SpacesBucket == "" || cfg.SpacesCDNURL == "") {
		return nil, fmt.Errorf("SPACES_ENDPOINT, SPACES_BUCKET and SPACES_CDN_URL are required when USE_SPACES is set")
	}
	return cfg, nil
}
