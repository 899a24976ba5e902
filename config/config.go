package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const defaultSecretKey = "your-secret-key-here-change-in-production"

type Config struct {
	Port        string
	Environment string

	DatabaseURL string
	CORSOrigins []string

	// TrustedProxies lists proxy IPs or CIDRs whose forwarding headers are
	// honored. Empty means the socket address is the client IP.
	TrustedProxies []string

	// JWT
	JWTSecret         string
	JWTAlgorithm      string
	AccessTokenExpire time.Duration

	// Redis (optional; empty addr disables pub/sub and the shared limiter store)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Kafka (optional; empty brokers keeps activities in-process)
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	RateLimitPerMinute int64

	CommentAutoApprove bool
	SeedOnStartup      bool

	Logging LoggingConfig
}

// Load reads environment variables (and an optional .env file) and returns a Config object
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using environment variables")
	}

	expireMinutes, err := intEnv("ACCESS_TOKEN_EXPIRE_MINUTES", 1440)
	if err != nil {
		return nil, err
	}
	if expireMinutes <= 0 {
		return nil, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive, got %d", expireMinutes)
	}
	redisDB, err := intEnv("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	rateLimit, err := intEnv("RATE_LIMIT_PER_MINUTE", 100)
	if err != nil {
		return nil, err
	}
	autoApprove, err := boolEnv("COMMENT_AUTO_APPROVE", true)
	if err != nil {
		return nil, err
	}
	seed, err := boolEnv("SEED_ON_STARTUP", true)
	if err != nil {
		return nil, err
	}

	algorithm := strings.ToUpper(getEnv("JWT_ALGORITHM", "HS256"))
	switch algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return nil, fmt.Errorf("unsupported JWT_ALGORITHM %q", algorithm)
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8000"),
		Environment: getEnv("APP_ENV", "development"),

		DatabaseURL: getEnv("DATABASE_URL", "sqlite://./eventify.db"),
		CORSOrigins: parseList(getEnv("BACKEND_CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),

		TrustedProxies: parseList(os.Getenv("TRUSTED_PROXIES")),

		JWTSecret:         getEnv("SECRET_KEY", defaultSecretKey),
		JWTAlgorithm:      algorithm,
		AccessTokenExpire: time.Duration(expireMinutes) * time.Minute,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		KafkaBrokers: parseList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "eventify.activity"),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "eventify-notifications"),

		RateLimitPerMinute: int64(rateLimit),

		CommentAutoApprove: autoApprove,
		SeedOnStartup:      seed,

		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if cfg.IsProduction() && cfg.JWTSecret == defaultSecretKey {
		log.Warn().Msg("SECRET_KEY is not set; using the development signing key in production")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// parseList accepts either a comma separated list or a JSON array of strings.
func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var items []string
		if err := json.Unmarshal([]byte(raw), &items); err == nil {
			return items
		}
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
