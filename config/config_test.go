package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LOOKUP_MAX_RETRIES", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("CHAT_RATE_LIMIT", "")
	t.Setenv("CHAT_RATE_WINDOW", "")

	cfg := Load()
	if cfg.LookupMaxRetries != 2 {
		t.Errorf("LookupMaxRetries = %d, want 2", cfg.LookupMaxRetries)
	}
	if cfg.LookupRetryDelay != time.Second {
		t.Errorf("LookupRetryDelay = %v, want 1s", cfg.LookupRetryDelay)
	}
	if cfg.StateBackend != BackendMemory {
		t.Errorf("StateBackend = %q, want memory", cfg.StateBackend)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Errorf("KafkaBrokers = %v, want none", cfg.KafkaBrokers)
	}
	if cfg.ChatRateLimit != 20 || cfg.ChatRateWindow != time.Minute {
		t.Errorf("chat rate limit = %d per %v, want 20 per 1m", cfg.ChatRateLimit, cfg.ChatRateWindow)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LOOKUP_RETRY_DELAY", "250ms")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("STATE_BACKEND", "Redis")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()
	if cfg.LookupRetryDelay != 250*time.Millisecond {
		t.Errorf("LookupRetryDelay = %v", cfg.LookupRetryDelay)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Errorf("KafkaBrokers = %v", cfg.KafkaBrokers)
	}
	if cfg.StateBackend != BackendRedis {
		t.Errorf("StateBackend = %q", cfg.StateBackend)
	}
	if !cfg.TracingEnabled {
		t.Error("TracingEnabled = false")
	}
	if cfg.RedisDB != 0 {
		t.Errorf("RedisDB = %d, want fallback 0", cfg.RedisDB)
	}
}
