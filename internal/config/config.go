// Package config reads the dashboard's settings from the environment and an
// optional .env file. Variables already set in the environment win over the
// file, and the file wins over the defaults.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAPIURL      = "https://justcom-api-production.up.railway.app/api/v1"
	defaultHTTPTimeout = 30 * time.Second
	defaultRedisAddr   = "localhost:6379"
	defaultLogLevel    = "info"
)

// Session backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// LogOff disables logging.
const LogOff = "off"

// Config holds the runtime settings.
type Config struct {
	APIURL         string
	SessionBackend string
	SessionFile    string
	Redis          RedisConfig
	HTTPTimeout    time.Duration
	LogFile        string
	LogLevel       string
}

// RedisConfig configures the Redis session backend.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	Prefix     string
	SessionTTL time.Duration // zero keeps keys until logout
}

// Load reads dotenvPath if it exists and then the process environment.
// Pass an empty path to skip the file.
func Load(dotenvPath string) (*Config, error) {
	fileVals := map[string]string{}
	if dotenvPath != "" {
		vals, err := godotenv.Read(dotenvPath)
		switch {
		case err == nil:
			fileVals = vals
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("config.Load: read %s: %w", dotenvPath, err)
		}
	}

	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fileVals[key]
	}
	return fromLookup(lookup)
}

func fromLookup(lookup func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(lookup(key)); v != "" {
			return v
		}
		return def
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("config: get home dir: %w", err)
	}
	dataDir := filepath.Join(home, ".justcom")

	cfg := &Config{
		APIURL:         strings.TrimRight(get("JUSTCOM_API_URL", defaultAPIURL), "/"),
		SessionBackend: strings.ToLower(get("JUSTCOM_SESSION_BACKEND", BackendFile)),
		SessionFile:    get("JUSTCOM_SESSION_FILE", filepath.Join(dataDir, "session.json")),
		Redis: RedisConfig{
			Addr:     get("JUSTCOM_REDIS_ADDR", defaultRedisAddr),
			Password: lookup("JUSTCOM_REDIS_PASSWORD"),
			Prefix:   lookup("JUSTCOM_REDIS_PREFIX"),
		},
		LogFile:  get("JUSTCOM_LOG_FILE", filepath.Join(dataDir, "admin.log")),
		LogLevel: strings.ToLower(get("JUSTCOM_LOG_LEVEL", defaultLogLevel)),
	}

	if err := validateAPIURL(cfg.APIURL); err != nil {
		return nil, fmt.Errorf("config: JUSTCOM_API_URL: %w", err)
	}

	switch cfg.SessionBackend {
	case BackendFile, BackendRedis, BackendMemory:
	default:
		return nil, fmt.Errorf("config: JUSTCOM_SESSION_BACKEND must be file, redis or memory, got %q", cfg.SessionBackend)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", LogOff:
	default:
		return nil, fmt.Errorf("config: JUSTCOM_LOG_LEVEL must be debug, info, warn, error or off, got %q", cfg.LogLevel)
	}

	if cfg.HTTPTimeout, err = parseDuration(get("JUSTCOM_HTTP_TIMEOUT", ""), defaultHTTPTimeout); err != nil {
		return nil, fmt.Errorf("config: JUSTCOM_HTTP_TIMEOUT: %w", err)
	}
	if cfg.HTTPTimeout <= 0 {
		return nil, errors.New("config: JUSTCOM_HTTP_TIMEOUT must be positive")
	}
	if cfg.Redis.SessionTTL, err = parseDuration(get("JUSTCOM_SESSION_TTL", ""), 0); err != nil {
		return nil, fmt.Errorf("config: JUSTCOM_SESSION_TTL: %w", err)
	}
	if db := get("JUSTCOM_REDIS_DB", ""); db != "" {
		if cfg.Redis.DB, err = strconv.Atoi(db); err != nil || cfg.Redis.DB < 0 {
			return nil, fmt.Errorf("config: JUSTCOM_REDIS_DB must be a non-negative integer, got %q", db)
		}
	}
	return cfg, nil
}

// validateAPIURL checks that raw is an absolute http(s) URL.
func validateAPIURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("URL must include a host")
	}
	return nil
}

func parseDuration(raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	return time.ParseDuration(raw)
}
