// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// AMQP. Eventing is optional: an empty URL disables publishing on the
	// server and is rejected by the worker, which cannot run without it.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Backup worker
	BackupDir        string
	SnapshotInterval time.Duration

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8081"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/spendlog.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "spendlog"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "note_changes"),

		BackupDir:        getEnv("BACKUP_DIR", "./backups"),
		SnapshotInterval: getEnvDuration("SNAPSHOT_INTERVAL", 10*time.Minute),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate returns an error describing every invalid setting.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.By(validatePort)),
		validation.Field(&c.SQLiteDBPath, validation.Required),
		validation.Field(&c.AMQPURL, validation.By(validateAMQPURL)),
		validation.Field(&c.AMQPExchange, validation.Required.When(c.AMQPURL != "").Error("required when AMQP URL is set")),
		validation.Field(&c.AMQPQueue, validation.Required.When(c.AMQPURL != "").Error("required when AMQP URL is set")),
		validation.Field(&c.BackupDir, validation.Required),
		validation.Field(&c.SnapshotInterval, validation.By(validateSnapshotInterval)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	)
}

func validatePort(value interface{}) error {
	s, _ := value.(string)
	port, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("must be between 1 and 65535")
	}
	return nil
}

func validateAMQPURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("must be a valid URL")
	}
	if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
		return fmt.Errorf("scheme must be amqp or amqps")
	}
	return nil
}

func validateSnapshotInterval(value interface{}) error {
	d, _ := value.(time.Duration)
	if d < time.Second {
		return fmt.Errorf("must be at least 1 second")
	}
	if d > 24*time.Hour {
		return fmt.Errorf("must be at most 24 hours")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
