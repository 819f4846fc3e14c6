package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the process configuration, read once from the environment at startup.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Booking   BookingConfig
	Kafka     KafkaConfig
	Email     EmailConfig
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Port           string
	GinMode        string
	APIVersion     string
	APIPrefix      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
}

// DatabaseConfig points at the PostgreSQL store
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	DSN      string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis connection settings. When Enabled is false slot
// locks are taken in process and rules are read straight from the store.
type RedisConfig struct {
	Enabled      bool
	Addr         string
	Password     string
	DB           int
	RuleCacheTTL time.Duration
}

type JWTConfig struct {
	Secret string
}

// RateLimitConfig sets the per-window request budget of each route class
type RateLimitConfig struct {
	Enabled                 bool          `json:"enabled"`
	WindowDuration          time.Duration `json:"window_duration"`
	DefaultRequests         int           `json:"default_requests"`
	PublicRequests          int           `json:"public_requests"`
	BookingRequests         int           `json:"booking_requests"`
	BookingCriticalRequests int           `json:"booking_critical_requests"`
	OwnerRequests           int           `json:"owner_requests"`
	UserRequests            int           `json:"user_requests"`
	HealthRequests          int           `json:"health_requests"`
	WhitelistedIPs          []string      `json:"whitelisted_ips"`
}

// BookingConfig holds booking engine tunables
type BookingConfig struct {
	DefaultCurrency         string
	SlotLockTTL             time.Duration
	SlotLockWait            time.Duration
	MaxRangeDays            int
	CompletionSweepInterval time.Duration
}

// KafkaConfig configures the notification topic. Disabled means notices are
// delivered synchronously by the calling request.
type KafkaConfig struct {
	Enabled            bool
	Brokers            []string
	NotificationTopic  string
	ConsumerGroupID    string
	NumConsumerWorkers int
}

// EmailConfig is the outgoing SMTP account. An empty host turns delivery into logging.
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

// Load reads the configuration from the environment. Malformed values fall
// back to their defaults.
func Load() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:           env("PORT", "8080"),
			GinMode:        env("GIN_MODE", "debug"),
			APIVersion:     env("API_VERSION", "v1"),
			APIPrefix:      env("API_PREFIX", "/api"),
			ReadTimeout:    envParsed("READ_TIMEOUT", 15*time.Second, time.ParseDuration),
			WriteTimeout:   envParsed("WRITE_TIMEOUT", 15*time.Second, time.ParseDuration),
			IdleTimeout:    envParsed("IDLE_TIMEOUT", time.Minute, time.ParseDuration),
			MaxHeaderBytes: envParsed("MAX_HEADER_BYTES", 1<<20, strconv.Atoi),
		},
		Database: DatabaseConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "bookly_db"),
			User:     env("DB_USER", "bookly_user"),
			Password: env("DB_PASSWORD", "bookly_password"),
			SSLMode:  env("DB_SSLMODE", "disable"),

			MaxOpenConns:    envParsed("DB_MAX_OPEN_CONNS", 50, strconv.Atoi),
			MaxIdleConns:    envParsed("DB_MAX_IDLE_CONNS", 10, strconv.Atoi),
			ConnMaxLifetime: envParsed("DB_CONN_MAX_LIFETIME", time.Hour, time.ParseDuration),
		},
		Redis: RedisConfig{
			Enabled:      envParsed("REDIS_ENABLED", true, strconv.ParseBool),
			Addr:         env("REDIS_HOST", "localhost") + ":" + env("REDIS_PORT", "6379"),
			Password:     env("REDIS_PASSWORD", ""),
			DB:           envParsed("REDIS_DB", 0, strconv.Atoi),
			RuleCacheTTL: envParsed("RULE_CACHE_TTL", 10*time.Minute, time.ParseDuration),
		},
		JWT: JWTConfig{
			Secret: env("JWT_SECRET", "change-me-in-production"),
		},
		RateLimit: RateLimitConfig{
			Enabled:                 envParsed("RATE_LIMIT_ENABLED", true, strconv.ParseBool),
			WindowDuration:          envParsed("RATE_LIMIT_WINDOW_DURATION", time.Minute, time.ParseDuration),
			DefaultRequests:         envParsed("RATE_LIMIT_DEFAULT_REQUESTS", 60, strconv.Atoi),
			PublicRequests:          envParsed("RATE_LIMIT_PUBLIC_REQUESTS", 100, strconv.Atoi),
			BookingRequests:         envParsed("RATE_LIMIT_BOOKING_REQUESTS", 20, strconv.Atoi),
			BookingCriticalRequests: envParsed("RATE_LIMIT_BOOKING_CRITICAL_REQUESTS", 10, strconv.Atoi),
			OwnerRequests:           envParsed("RATE_LIMIT_OWNER_REQUESTS", 200, strconv.Atoi),
			UserRequests:            envParsed("RATE_LIMIT_USER_REQUESTS", 60, strconv.Atoi),
			HealthRequests:          envParsed("RATE_LIMIT_HEALTH_REQUESTS", 300, strconv.Atoi),
			WhitelistedIPs:          envList("RATE_LIMIT_WHITELISTED_IPS", nil),
		},
		Booking: BookingConfig{
			DefaultCurrency:         env("DEFAULT_CURRENCY", "USD"),
			SlotLockTTL:             envParsed("SLOT_LOCK_TTL", 5*time.Second, time.ParseDuration),
			SlotLockWait:            envParsed("SLOT_LOCK_WAIT", 3*time.Second, time.ParseDuration),
			MaxRangeDays:            envParsed("AVAILABILITY_MAX_RANGE_DAYS", 366, strconv.Atoi),
			CompletionSweepInterval: envParsed("COMPLETION_SWEEP_INTERVAL", 5*time.Minute, time.ParseDuration),
		},
		Kafka: KafkaConfig{
			Enabled:            envParsed("KAFKA_ENABLED", true, strconv.ParseBool),
			Brokers:            envList("KAFKA_BROKERS", []string{"localhost:9092"}),
			NotificationTopic:  env("NOTIFICATION_TOPIC", "bookly-notifications"),
			ConsumerGroupID:    env("CONSUMER_GROUP_ID", "bookly-notification-workers"),
			NumConsumerWorkers: envParsed("NUM_CONSUMER_WORKERS", 3, strconv.Atoi),
		},
		Email: EmailConfig{
			SMTPHost:     env("SMTP_HOST", ""),
			SMTPPort:     envParsed("SMTP_PORT", 587, strconv.Atoi),
			SMTPUsername: env("SMTP_USERNAME", ""),
			SMTPPassword: env("SMTP_PASSWORD", ""),
			FromEmail:    env("FROM_EMAIL", "noreply@bookly.app"),
			FromName:     env("SMTP_FROM_NAME", "Bookly"),
		},
	}

	db := cfg.Database
	cfg.Database.DSN = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		db.Host, db.Port, db.User, db.Password, db.Name, db.SSLMode)

	return cfg
}

func env(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// envParsed parses key with parse, keeping fallback when unset or malformed
func envParsed[T any](key string, fallback T, parse func(string) (T, error)) T {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := parse(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// envList splits a comma separated variable, dropping blank items
func envList(key string, fallback []string) []string {
	var items []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}

func (c *Config) IsDevelopment() bool {
	return c.Server.GinMode == "debug"
}

// GetServerAddress returns the listen address
func (c *Config) GetServerAddress() string {
	return ":" + c.Server.Port
}

// GetAPIBasePath returns the prefix every API route is mounted under, e.g. /api/v1
func (c *Config) GetAPIBasePath() string {
	return c.Server.APIPrefix + "/" + c.Server.APIVersion
}
