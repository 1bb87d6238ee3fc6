// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"stackify/internal/ai"
)

// DevJWTSecret is the signing secret used when JWT_SECRET is unset.
// Load refuses it in production.
const DevJWTSecret = "stackify-development-secret-change-me"

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// AI provider settings. AIProvider names the active one.
	AIProvider     string
	AITimeout      time.Duration
	AIMaxTokens    int
	OpenAIAPIKey   string
	OpenAIModel    string
	OpenAIBaseURL  string
	GeminiAPIKey   string
	GeminiModel    string
	GeminiBaseURL  string
	ClaudeAPIKey   string
	ClaudeModel    string
	ClaudeBaseURL  string
	MistralAPIKey  string
	MistralModel   string
	MistralBaseURL string

	// Bearer tokens
	JWTSecret string
	JWTTTL    time.Duration

	// Image search
	ImageSearchURL   string
	ImageWidth       int
	ImageHeight      int
	ImageFallbackURL string

	// Generation requests allowed per client IP per minute.
	RateLimitGenerate int

	// How long a regeneration may hold a site lock.
	SiteLockTTL time.Duration
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if a value cannot be
// parsed or if critical values are left at their defaults in production.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "stackify"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "stackify"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AIProvider:     envOrDefault("AI_PROVIDER", "gemini"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    envOrDefault("OPENAI_MODEL", "gpt-4o"),
		OpenAIBaseURL:  envOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    envOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL:  envOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		ClaudeAPIKey:   os.Getenv("CLAUDE_API_KEY"),
		ClaudeModel:    envOrDefault("CLAUDE_MODEL", "claude-sonnet-4-5"),
		ClaudeBaseURL:  envOrDefault("CLAUDE_BASE_URL", "https://api.anthropic.com"),
		MistralAPIKey:  os.Getenv("MISTRAL_API_KEY"),
		MistralModel:   envOrDefault("MISTRAL_MODEL", "mistral-large-latest"),
		MistralBaseURL: envOrDefault("MISTRAL_BASE_URL", "https://api.mistral.ai/v1"),

		JWTSecret: envOrDefault("JWT_SECRET", DevJWTSecret),

		ImageSearchURL:   envOrDefault("IMAGE_SEARCH_URL", "https://tse2.mm.bing.net/th"),
		ImageFallbackURL: envOrDefault("IMAGE_FALLBACK_URL", "https://placehold.co/1024x600?text=Error"),
	}

	var err error
	if cfg.AITimeout, err = envDuration("AI_TIMEOUT", 90*time.Second); err != nil {
		return nil, err
	}
	if cfg.AIMaxTokens, err = envInt("AI_MAX_TOKENS", 8192); err != nil {
		return nil, err
	}
	if cfg.JWTTTL, err = envDuration("JWT_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ImageWidth, err = envInt("IMAGE_WIDTH", 1024); err != nil {
		return nil, err
	}
	if cfg.ImageHeight, err = envInt("IMAGE_HEIGHT", 600); err != nil {
		return nil, err
	}
	if cfg.RateLimitGenerate, err = envInt("RATE_LIMIT_GENERATE", 10); err != nil {
		return nil, err
	}
	if cfg.SiteLockTTL, err = envDuration("SITE_LOCK_TTL", 30*time.Second); err != nil {
		return nil, err
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.JWTSecret == DevJWTSecret {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// AIProviders returns the per-provider settings for ai.NewRegistry.
// Providers without an API key are skipped by the registry.
func (c *Config) AIProviders() map[string]ai.ProviderConfig {
	provider := func(key, model, baseURL string) ai.ProviderConfig {
		return ai.ProviderConfig{
			APIKey:    key,
			Model:     model,
			BaseURL:   baseURL,
			MaxTokens: c.AIMaxTokens,
			Timeout:   c.AITimeout,
		}
	}
	return map[string]ai.ProviderConfig{
		"openai":  provider(c.OpenAIAPIKey, c.OpenAIModel, c.OpenAIBaseURL),
		"gemini":  provider(c.GeminiAPIKey, c.GeminiModel, c.GeminiBaseURL),
		"claude":  provider(c.ClaudeAPIKey, c.ClaudeModel, c.ClaudeBaseURL),
		"mistral": provider(c.MistralAPIKey, c.MistralModel, c.MistralBaseURL),
	}
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}
