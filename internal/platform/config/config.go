// Package config builds runtime configuration from the environment so main
// stays lean. Every variable carries the EDUVET_ prefix.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server needs at startup. Optional
// integrations (Postgres, Redis, Kafka, live registries) activate when their
// variable is set and fall back to in-memory or simulated implementations
// otherwise.
type Config struct {
	Addr     string
	LogLevel string

	// Registry credentials and endpoints. An empty API key or base URL
	// means the simulated adapter is used for that source.
	CompaniesHouseAPIKey string
	CompaniesHouseURL    string
	OfqualAPIKey         string
	OfqualURL            string
	UKRLPBaseURL         string
	OfstedBaseURL        string
	ESFABaseURL          string

	CacheTTL time.Duration

	PostgresURL  string
	Redis        RedisConfig
	KafkaBrokers []string
	KafkaTopic   string
}

// RedisConfig carries connection settings for the registry cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv reads configuration from environment variables.
func FromEnv() Config {
	return Config{
		Addr:     envOr("EDUVET_ADDR", ":8080"),
		LogLevel: envOr("EDUVET_LOG_LEVEL", "info"),

		CompaniesHouseAPIKey: os.Getenv("EDUVET_COMPANIES_HOUSE_API_KEY"),
		CompaniesHouseURL:    envOr("EDUVET_COMPANIES_HOUSE_URL", "https://api.company-information.service.gov.uk"),
		OfqualAPIKey:         os.Getenv("EDUVET_OFQUAL_API_KEY"),
		OfqualURL:            envOr("EDUVET_OFQUAL_URL", "https://register-api.ofqual.gov.uk"),
		UKRLPBaseURL:         os.Getenv("EDUVET_UKRLP_URL"),
		OfstedBaseURL:        os.Getenv("EDUVET_OFSTED_URL"),
		ESFABaseURL:          os.Getenv("EDUVET_ESFA_URL"),

		CacheTTL: envDuration("EDUVET_CACHE_TTL", time.Hour),

		PostgresURL: os.Getenv("EDUVET_POSTGRES_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("EDUVET_REDIS_URL"),
			PoolSize:     envInt("EDUVET_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("EDUVET_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("EDUVET_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("EDUVET_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("EDUVET_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		KafkaBrokers: envList("EDUVET_KAFKA_BROKERS"),
		KafkaTopic:   os.Getenv("EDUVET_KAFKA_TOPIC"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
