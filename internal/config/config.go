package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// MinSecretBytes is the minimum signing secret length (256 bits of key
// material for HS256).
const MinSecretBytes = 32

// DefaultTokenTTL is the lifetime of issued tokens unless overridden.
const DefaultTokenTTL = 2 * time.Hour

// Config holds application configuration. The signing secret is loaded once
// at startup and treated as immutable afterwards; it must never be logged.
type Config struct {
	DatabaseURL      string
	ServerPort       string
	FrontendURL      string
	SigningSecret    []byte
	TokenTTL         time.Duration
	BcryptCost       int
	EnableHSTS       bool
	RedisURL         string
	RabbitMQURL      string
	RabbitMQPrefetch int
	ServerDebugMode  bool
	WorkerDebugMode  bool
	OTELEnabled      bool
	OTELEndpoint     string
}

// fileConfig is the optional YAML file layout (AUTH_CONFIG_FILE). Environment
// variables always win over file values. The signing secret is deliberately
// not a file field.
type fileConfig struct {
	DatabaseURL string `yaml:"database_url"`
	ServerPort  string `yaml:"server_port"`
	FrontendURL string `yaml:"frontend_url"`
	TokenTTL    string `yaml:"token_ttl"`
	BcryptCost  int    `yaml:"bcrypt_cost"`
	RedisURL    string `yaml:"redis_url"`
	RabbitMQURL string `yaml:"rabbitmq_url"`
}

// Load loads configuration from the environment (and an optional YAML file)
// and validates it. A missing or weak signing secret is a fatal
// configuration error: the caller must refuse to start.
func Load() (*Config, error) {
	file, err := loadFile(os.Getenv("AUTH_CONFIG_FILE"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:      getEnv("DATABASE_URL", file.DatabaseURL),
		ServerPort:       getEnv("SERVER_PORT", fallback(file.ServerPort, "8080")),
		FrontendURL:      getEnv("FRONTEND_URL", fallback(file.FrontendURL, "http://localhost:3000")),
		SigningSecret:    []byte(os.Getenv("JWT_SECRET")),
		TokenTTL:         DefaultTokenTTL,
		BcryptCost:       getEnvInt("BCRYPT_COST", fallbackInt(file.BcryptCost, bcrypt.DefaultCost)),
		EnableHSTS:       getEnvBool("ENABLE_HSTS", false),
		RedisURL:         getEnv("REDIS_URL", fallback(file.RedisURL, "redis://localhost:6379/0")),
		RabbitMQURL:      getEnv("RABBITMQ_URL", file.RabbitMQURL),
		RabbitMQPrefetch: getEnvInt("RABBITMQ_PREFETCH", 1),
		ServerDebugMode:  getEnvBool("SERVER_DEBUG_MODE", false),
		WorkerDebugMode:  getEnvBool("WORKER_DEBUG_MODE", false),
		OTELEnabled:      getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if ttl := getEnv("TOKEN_TTL", file.TokenTTL); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("TOKEN_TTL is not a valid duration: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", d)
		}
		cfg.TokenTTL = d
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.RabbitMQURL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL is required (login audit events)")
	}
	if len(cfg.SigningSecret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if len(cfg.SigningSecret) < MinSecretBytes {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d bytes, got %d", MinSecretBytes, len(cfg.SigningSecret))
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cfg.BcryptCost)
	}

	return cfg, nil
}

func loadFile(path string) (*fileConfig, error) {
	fc := &fileConfig{}
	if path == "" {
		return fc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return fc, nil
}

func fallback(value, defaultValue string) string {
	if value != "" {
		return value
	}
	return defaultValue
}

func fallbackInt(value, defaultValue int) int {
	if value != 0 {
		return value
	}
	return defaultValue
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
