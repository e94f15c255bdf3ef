package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tair/allergy-scan/pkg/database"
)

// State backends
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds the service configuration
type Config struct {
	HTTPPort    string
	GRPCPort    string
	Environment string
	LogLevel    string

	ServiceName     string
	ServiceVersion  string
	JaegerEndpoint  string
	TracingEnabled  bool
	TraceSampleRate float64

	StateBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Database      database.Config

	ProductAPIBaseURL string
	ProductAPITimeout time.Duration
	LookupMaxRetries  int
	LookupRetryDelay  time.Duration
	LookupCacheTTL    time.Duration
	BreakerThreshold  int
	BreakerCooldown   time.Duration

	KafkaBrokers []string
	KafkaGroupID string

	VocabularyFile string

	AssistantBaseURL string
	AssistantAPIKey  string
	AssistantModel   string
	ChatRateLimit    int
	ChatRateWindow   time.Duration

	AuthSecret         string
	AuthPassphraseHash string
	AuthTokenTTL       time.Duration
}

// IsDevelopment reports whether logs should be human readable
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real env vars win over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		GRPCPort:    getEnv("GRPC_PORT", "9090"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "debug"),

		ServiceName:     getEnv("OTEL_SERVICE_NAME", "allergyscan"),
		ServiceVersion:  getEnv("SERVICE_VERSION", "1.0.0"),
		JaegerEndpoint:  getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		TracingEnabled:  getEnvBool("TRACING_ENABLED", false),
		TraceSampleRate: getEnvFloat("TRACE_SAMPLE_RATE", 1.0),

		StateBackend:  strings.ToLower(getEnv("STATE_BACKEND", BackendMemory)),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		Database: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "allergyscan"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		ProductAPIBaseURL: getEnv("PRODUCT_API_BASE_URL", "https://world.openfoodfacts.org"),
		ProductAPITimeout: getEnvDuration("PRODUCT_API_TIMEOUT", 10*time.Second),
		LookupMaxRetries:  getEnvInt("LOOKUP_MAX_RETRIES", 2),
		LookupRetryDelay:  getEnvDuration("LOOKUP_RETRY_DELAY", time.Second),
		LookupCacheTTL:    getEnvDuration("LOOKUP_CACHE_TTL", 0),
		BreakerThreshold:  getEnvInt("LOOKUP_BREAKER_THRESHOLD", 0),
		BreakerCooldown:   getEnvDuration("LOOKUP_BREAKER_COOLDOWN", 30*time.Second),

		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "allergyscan-history"),

		VocabularyFile: getEnv("ALLERGEN_VOCABULARY_FILE", ""),

		AssistantBaseURL: getEnv("ASSISTANT_BASE_URL", "https://openrouter.ai/api/v1"),
		AssistantAPIKey:  getEnv("ASSISTANT_API_KEY", ""),
		AssistantModel:   getEnv("ASSISTANT_MODEL", "deepseek/deepseek-r1-distill-llama-70b"),
		ChatRateLimit:    getEnvInt("CHAT_RATE_LIMIT", 20),
		ChatRateWindow:   getEnvDuration("CHAT_RATE_WINDOW", time.Minute),

		AuthSecret:         getEnv("AUTH_SECRET", ""),
		AuthPassphraseHash: getEnv("AUTH_PASSPHRASE_HASH", ""),
		AuthTokenTTL:       getEnvDuration("AUTH_TOKEN_TTL", 24*time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
