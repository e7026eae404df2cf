// Package config loads service configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ServiceConfig holds process-level settings.
type ServiceConfig struct {
	Principal   string
	HTTPPort    string
	MetricsPort string
}

// LiveKitConfig holds credentials for the realtime media service.
// All three values are required for session provisioning.
type LiveKitConfig struct {
	URL          string
	APIKey       string
	APISecret    string
	EmptyTimeout time.Duration
}

// OpenAIConfig holds settings for the transcript scorer.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
}

// CatalogConfig holds the prompt catalogue source.
type CatalogConfig struct {
	Path string
}

// KafkaConfig holds event publisher settings.
type KafkaConfig struct {
	Enabled      bool
	Brokers      []string
	TopicSession string
	TopicScore   string
	Principal    string
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string
}

// Config is the full service configuration.
type Config struct {
	Service       ServiceConfig
	LiveKit       LiveKitConfig
	OpenAI        OpenAIConfig
	Catalog       CatalogConfig
	Kafka         KafkaConfig
	Observability ObservabilityConfig
}

// Load reads configuration from the environment, falling back to defaults.
func Load() *Config {
	principal := envOrDefault("SERVICE_PRINCIPAL", "svc-ai-interview")

	return &Config{
		Service: ServiceConfig{
			Principal:   principal,
			HTTPPort:    envOrDefault("HTTP_PORT", "8080"),
			MetricsPort: envOrDefault("METRICS_PORT", "9090"),
		},
		LiveKit: LiveKitConfig{
			URL:          os.Getenv("LIVEKIT_URL"),
			APIKey:       os.Getenv("LIVEKIT_API_KEY"),
			APISecret:    os.Getenv("LIVEKIT_API_SECRET"),
			EmptyTimeout: envOrDefaultDuration("LIVEKIT_EMPTY_TIMEOUT", 600*time.Second),
		},
		OpenAI: OpenAIConfig{
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			Model:       envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
			Temperature: float32(envOrDefaultFloat("OPENAI_TEMPERATURE", 0.2)),
			MaxTokens:   envOrDefaultInt("OPENAI_MAX_TOKENS", 400),
		},
		Catalog: CatalogConfig{
			Path: envOrDefault("PROMPT_CATALOGUE_PATH", "data/prompt_catalogue.json"),
		},
		Kafka: KafkaConfig{
			Enabled:      envOrDefaultBool("KAFKA_ENABLED", false),
			Brokers:      envOrDefaultSlice("KAFKA_BROKERS", nil),
			TopicSession: envOrDefault("KAFKA_TOPIC_SESSION", "interview.session.created"),
			TopicScore:   envOrDefault("KAFKA_TOPIC_SCORE", "interview.scored"),
			Principal:    envOrDefault("KAFKA_PRINCIPAL", principal),
		},
		Observability: ObservabilityConfig{
			LogLevel:  envOrDefault("LOG_LEVEL", "info"),
			LogFormat: envOrDefault("LOG_FORMAT", "json"),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.ToLower(v)); err == nil {
			return b
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envOrDefaultSlice(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}
