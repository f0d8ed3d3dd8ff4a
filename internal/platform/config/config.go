package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	MaxBodyBytes       int64
	OutboxPollInterval time.Duration
	IdempotencyTTL     time.Duration

	EnableSwagger bool
	EnableMetrics bool
}

// UsePostgres reports whether the Postgres runtime is selected. An empty DSN
// keeps every resource in process memory.
func (c Config) UsePostgres() bool {
	return strings.TrimSpace(c.PostgresDSN) != ""
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "mental-maps-api"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "3000"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}

	maxBody, err := envInt("MAX_BODY_BYTES", 1<<20)
	if err != nil {
		return Config{}, err
	}
	pollMillis, err := envInt("OUTBOX_POLL_INTERVAL_MS", 2000)
	if err != nil {
		return Config{}, err
	}
	ttlHours, err := envInt("IDEMPOTENCY_TTL_HOURS", 24)
	if err != nil {
		return Config{}, err
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		MaxBodyBytes:       int64(maxBody),
		OutboxPollInterval: time.Duration(pollMillis) * time.Millisecond,
		IdempotencyTTL:     time.Duration(ttlHours) * time.Hour,

		EnableSwagger: envBool("ENABLE_SWAGGER", true),
		EnableMetrics: envBool("ENABLE_METRICS", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

// envInt rejects malformed or non-positive values instead of silently
// falling back, so a typo in deployment config fails at startup.
func envInt(name string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return value, nil
}
