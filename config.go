package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/shopswift/storefront/database"
)

const dbSecretName = "storefront/DB_CREDENTIALS"

// Config holds all configuration for the storefront service.
type Config struct {
	Port           string
	Env            string
	RequestTimeout time.Duration
	RedisURL       string
	SessionTTL     time.Duration
	Postgres       database.PostgresConfig
	EventsBackend  string
	OrderSNSTopic  string
	KafkaBrokers   []string
	KafkaTopic     string
	CatalogPath    string
	JWTSecret      string
	AllowedOrigins []string
	SecureCookies  bool
	// TrustGatewayHeaders lets X-User-ID pick the shopper. Only safe when the
	// service is reachable solely through the API gateway.
	TrustGatewayHeaders bool
	AWSRegion           string
	AWSEndpoint         string
	AWSUseSecrets       bool
	CloudWatch          bool
	CloudWatchGroup     string
	MetricsNS           string
}

// SecretGetter is satisfied by awsclient.SecretsClient.
type SecretGetter interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// LoadConfig reads configuration from the environment, after loading a .env
// file when one exists.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	timeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		RequestTimeout: timeout,
		RedisURL:       os.Getenv("REDIS_URL"),
		SessionTTL:     sessionTTL,
		Postgres:       database.PostgresConfig{
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			TimeZone: getEnv("POSTGRES_TIMEZONE", "UTC"),
		},
		EventsBackend:       strings.ToLower(getEnv("ORDER_EVENTS_BACKEND", "none")),
		OrderSNSTopic:       os.Getenv("ORDER_SNS_TOPIC_ARN"),
		KafkaBrokers:        splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:          getEnv("KAFKA_TOPIC", "storefront.orders"),
		CatalogPath:         os.Getenv("CATALOG_PATH"),
		JWTSecret:           strings.TrimSpace(os.Getenv("JWT_SECRET")),
		AllowedOrigins:      splitList(os.Getenv("ALLOWED_ORIGINS")),
		SecureCookies:       os.Getenv("SECURE_COOKIES") == "true",
		TrustGatewayHeaders: os.Getenv("TRUST_GATEWAY_HEADERS") == "true",
		AWSRegion:           os.Getenv("AWS_REGION"),
		AWSEndpoint:         os.Getenv("AWS_ENDPOINT"),
		AWSUseSecrets:       os.Getenv("AWS_USE_SECRETS") == "true",
		CloudWatch:          os.Getenv("CLOUDWATCH_ENABLED") == "true",
		CloudWatchGroup:     getEnv("CLOUDWATCH_LOG_GROUP", "/storefront/api"),
		MetricsNS:           getEnv("CLOUDWATCH_NAMESPACE", "Storefront"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.EventsBackend {
	case "none":
	case "sns":
		if c.OrderSNSTopic == "" {
			return fmt.Errorf("ORDER_SNS_TOPIC_ARN is required when ORDER_EVENTS_BACKEND=sns")
		}
	case "kafka":
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required when ORDER_EVENTS_BACKEND=kafka")
		}
	default:
		return fmt.Errorf("unknown ORDER_EVENTS_BACKEND %q", c.EventsBackend)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// NeedsAWS reports whether any configured component talks to AWS.
func (c *Config) NeedsAWS() bool {
	return c.AWSUseSecrets || c.CloudWatch || c.EventsBackend == "sns"
}

// ApplySecrets overrides the Postgres credentials with the JSON secret
// stored in Secrets Manager. Missing keys keep their environment values.
func (c *Config) ApplySecrets(ctx context.Context, sm SecretGetter) error {
	raw, err := sm.GetSecret(ctx, dbSecretName)
	if err != nil {
		return err
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return fmt.Errorf("decode %s: %w", dbSecretName, err)
	}

	override := func(dst *string, key string) {
		if v, ok := m[key]; ok && v != "" {
			*dst = v
		}
	}
	override(&c.Postgres.User, "POSTGRES_USER")
	override(&c.Postgres.Password, "POSTGRES_PASSWORD")
	override(&c.Postgres.DBName, "POSTGRES_DB")
	override(&c.Postgres.Host, "POSTGRES_HOST")
	override(&c.Postgres.Port, "POSTGRES_PORT")
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
