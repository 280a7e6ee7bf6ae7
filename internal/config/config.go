package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/punchamoorthee/expensetracker/internal/store"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	DataBackend    store.Backend
	DBSource       string
	SQLiteDBPath   string
	MigrateOnStart bool

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// Load reads the configuration from the environment. Call Validate before use.
func Load() *Config {
	return &Config{
		Port:     getEnv("SERVER_PORT", "8080"),
		Env:      getEnv("ENVIRONMENT", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DataBackend:    store.Backend(getEnv("DATA_BACKEND", string(store.BackendMemory))),
		DBSource:       os.Getenv("DB_SOURCE"),
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/expenses.db"),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", true),

		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "expenses"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "expense_recorded"),
	}
}

// DSN is the connection string handed to the selected store backend.
func (c *Config) DSN() string {
	switch c.DataBackend {
	case store.BackendPostgres:
		return c.DBSource
	case store.BackendSQLite:
		return c.SQLiteDBPath
	default:
		return ""
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}

	switch c.DataBackend {
	case store.BackendMemory:
	case store.BackendPostgres:
		if c.DBSource == "" {
			errs = append(errs, "DB_SOURCE environment variable is required for the postgres backend")
		}
	case store.BackendSQLite:
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLITE_DB_PATH cannot be empty for the sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
			}
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of memory, postgres, sqlite", c.DataBackend))
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
