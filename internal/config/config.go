// Package config handles platform configuration
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dictaflow/platform/internal/session"
	"github.com/dictaflow/platform/internal/suggest"
)

type Config struct {
	HTTPAddr          string
	GeneratorProvider string // "openai", "anyllm", or "static"
	GeneratorModel    string
	GeneratorAPIKey   string
	GeneratorBaseURL  string
	AnyLLMBackend     string
	GenerateTimeout   time.Duration
	PauseDelay        time.Duration
	PrefetchDebounce  time.Duration
	CacheTTL          time.Duration
	MaxCacheSize      int
	MinWords          int
	MaxLatencyHistory int
	AutoHideDelay     time.Duration
}

func Load() *Config {
	return &Config{
		HTTPAddr:          getEnv("HTTP_ADDR", ":8000"),
		GeneratorProvider: getEnv("GENERATOR_PROVIDER", "static"),
		GeneratorModel:    getEnv("GENERATOR_MODEL", "gpt-4o-mini"),
		GeneratorAPIKey:   getEnv("GENERATOR_API_KEY", ""),
		GeneratorBaseURL:  getEnv("GENERATOR_BASE_URL", ""),
		AnyLLMBackend:     getEnv("ANYLLM_BACKEND", "ollama"),
		GenerateTimeout:   getEnvDurationMs("GENERATE_TIMEOUT_MS", 5*time.Second),
		PauseDelay:        session.ClampPauseDelay(getEnvDurationMs("PAUSE_DELAY_MS", session.DefaultPauseDelay)),
		PrefetchDebounce:  getEnvDurationMs("PREFETCH_DEBOUNCE_MS", session.DefaultPrefetchDebounce),
		CacheTTL:          getEnvDurationMs("CACHE_TTL_MS", suggest.DefaultTTL),
		MaxCacheSize:      getEnvInt("MAX_CACHE_SIZE", suggest.DefaultMaxSize),
		MinWords:          getEnvInt("MIN_WORDS_FOR_SUGGESTIONS", session.DefaultMinWords),
		MaxLatencyHistory: getEnvInt("MAX_LATENCY_HISTORY", suggest.DefaultLatencyHistory),
		AutoHideDelay:     getEnvDurationMs("AUTO_HIDE_DELAY_MS", session.DefaultAutoHide),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvDurationMs(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}
