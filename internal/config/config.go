package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// DefaultStorageKey is the name of the single slot holding the aggregate.
const DefaultStorageKey = "pathan_samaj_trust_data"

type Config struct {
	// HTTP Server
	Port            string
	ShutdownTimeout time.Duration

	// Persistence
	DataBackend  string
	DataDir      string
	SQLiteDBPath string
	StorageKey   string

	// AMQP change events (optional)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Logging
	LogLevel string

	// Rate limiting for mutating requests
	RateLimitPerMinute int
}

func Load() *Config {
	return &Config{
		Port:            envOr("PORT", "8081", identity),
		ShutdownTimeout: envOr("SHUTDOWN_TIMEOUT", 30*time.Second, time.ParseDuration),

		DataBackend:  envOr("DATA_BACKEND", "file", identity),
		DataDir:      envOr("DATA_DIR", "./data", identity),
		SQLiteDBPath: envOr("SQLITE_DB_PATH", "./data/trust.db", identity),
		StorageKey:   envOr("STORAGE_KEY", DefaultStorageKey, identity),

		AMQPURL:      envOr("AMQP_URL", "", identity),
		AMQPExchange: envOr("AMQP_EXCHANGE", "trust", identity),
		AMQPQueue:    envOr("AMQP_QUEUE", "trust_changes", identity),

		LogLevel: envOr("LOG_LEVEL", "info", identity),

		RateLimitPerMinute: envOr("RATE_LIMIT_PER_MINUTE", 60, strconv.Atoi),
	}
}

var validBackends = []string{"memory", "file", "sqlite"}

// Validate reports every problem at once rather than stopping at the
// first, so a broken .env can be fixed in one pass. It never touches the
// filesystem.
func (c *Config) Validate() error {
	var problems []string
	for _, check := range []func() []string{c.validateServer, c.validatePersistence, c.validateAMQP} {
		problems = append(problems, check()...)
	}
	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func (c *Config) validateServer() []string {
	var p []string
	if port, err := strconv.Atoi(c.Port); err != nil {
		p = append(p, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		p = append(p, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		p = append(p, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if c.RateLimitPerMinute < 1 {
		p = append(p, fmt.Sprintf("invalid rate limit %d: must be at least 1", c.RateLimitPerMinute))
	}
	if c.ShutdownTimeout < time.Second {
		p = append(p, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}
	return p
}

func (c *Config) validatePersistence() []string {
	var p []string
	if !slices.Contains(validBackends, c.DataBackend) {
		p = append(p, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}
	if strings.TrimSpace(c.StorageKey) == "" {
		p = append(p, "storage key cannot be empty")
	}

	switch c.DataBackend {
	case "file":
		if c.DataDir == "" {
			p = append(p, "data directory cannot be empty when using file backend")
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			p = append(p, "SQLite database path cannot be empty when using sqlite backend")
		} else if strings.HasSuffix(c.SQLiteDBPath, "/") {
			p = append(p, fmt.Sprintf("SQLite database path '%s' names a directory", c.SQLiteDBPath))
		}
	}
	return p
}

func (c *Config) validateAMQP() []string {
	if c.AMQPURL == "" {
		return nil
	}
	var p []string
	if u, err := url.Parse(c.AMQPURL); err != nil {
		p = append(p, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
	} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
		p = append(p, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
	}
	if c.AMQPExchange == "" {
		p = append(p, "AMQP exchange name cannot be empty when AMQP URL is provided")
	}
	if c.AMQPQueue == "" {
		p = append(p, "AMQP queue name cannot be empty when AMQP URL is provided")
	}
	return p
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// envOr returns the parsed value of key, or def when the variable is unset
// or does not parse.
func envOr[T any](key string, def T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

func identity(s string) (string, error) { return s, nil }
