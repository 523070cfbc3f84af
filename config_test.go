package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("TRUST_GATEWAY_HEADERS", "")
	t.Setenv("ORDER_EVENTS_BACKEND", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("REDIS_URL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "none", cfg.EventsBackend)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Empty(t, cfg.RedisURL)
	assert.False(t, cfg.NeedsAWS())
	assert.False(t, cfg.TrustGatewayHeaders, "X-User-ID is not trusted unless enabled")
}

func TestLoadConfig_TrustGatewayHeaders(t *testing.T) {
	t.Setenv("TRUST_GATEWAY_HEADERS", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.TrustGatewayHeaders)
}

func TestLoadConfig_Lists(t *testing.T) {
	t.Setenv("ORDER_EVENTS_BACKEND", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown backend": {"ORDER_EVENTS_BACKEND": "carrier-pigeon"},
		"sns without arn": {"ORDER_EVENTS_BACKEND": "sns", "ORDER_SNS_TOPIC_ARN": ""},
		"kafka no broker": {"ORDER_EVENTS_BACKEND": "kafka", "KAFKA_BROKERS": ""},
		"bad ttl":         {"SESSION_TTL": "forever"},
		"negative ttl":    {"SESSION_TTL": "-1h"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

type fakeSecrets struct {
	value string
	err   error
}

func (f fakeSecrets) GetSecret(context.Context, string) (string, error) {
	return f.value, f.err
}

func TestApplySecrets(t *testing.T) {
	cfg := &Config{}
	cfg.Postgres.User = "env-user"
	cfg.Postgres.Port = "5432"

	err := cfg.ApplySecrets(context.Background(), fakeSecrets{
		value: `{"POSTGRES_PASSWORD":"s3cret","POSTGRES_HOST":"db.internal","POSTGRES_USER":""}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "env-user", cfg.Postgres.User)
	assert.Equal(t, "s3cret", cfg.Postgres.Password)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, "5432", cfg.Postgres.Port)
}

func TestApplySecrets_Errors(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.ApplySecrets(context.Background(), fakeSecrets{err: errors.New("denied")}))
	assert.Error(t, cfg.ApplySecrets(context.Background(), fakeSecrets{value: "not json"}))
}
