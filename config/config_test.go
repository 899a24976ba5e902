package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATABASE_URL", "SECRET_KEY", "JWT_ALGORITHM", "ACCESS_TOKEN_EXPIRE_MINUTES",
		"BACKEND_CORS_ORIGINS", "TRUSTED_PROXIES", "KAFKA_BROKERS", "REDIS_ADDR", "COMMENT_AUTO_APPROVE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "sqlite://./eventify.db", cfg.DatabaseURL)
	assert.Equal(t, "HS256", cfg.JWTAlgorithm)
	assert.Equal(t, 1440*time.Minute, cfg.AccessTokenExpire)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.TrustedProxies)
	assert.True(t, cfg.CommentAutoApprove)
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.KafkaEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "30")
	t.Setenv("JWT_ALGORITHM", "hs512")
	t.Setenv("BACKEND_CORS_ORIGINS", `["https://eventify.app"]`)
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,192.168.1.5")
	t.Setenv("COMMENT_AUTO_APPROVE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.AccessTokenExpire)
	assert.Equal(t, "HS512", cfg.JWTAlgorithm)
	assert.Equal(t, []string{"https://eventify.app"}, cfg.CORSOrigins)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.5"}, cfg.TrustedProxies)
	assert.False(t, cfg.CommentAutoApprove)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"ACCESS_TOKEN_EXPIRE_MINUTES": "soon",
		"JWT_ALGORITHM":               "RS256",
		"SEED_ON_STARTUP":             "maybe",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
