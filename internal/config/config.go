package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	// Environment
	Environment string
	Port        string

	// Database
	DatabaseURL string

	// Vision API keys
	GeminiAPIKey string // Google Gemini API key
	OpenAIAPIKey string // OpenAI API key for GPT vision models

	// VisionProvider selects the analyzer: "gemini", "openai", or empty
	// for auto-selection (gemini preferred)
	VisionProvider string

	// Music provider API keys. A provider without a key still serves demo
	// results.
	SunoAPIKey       string
	BeatovenAPIKey   string
	ElevenLabsAPIKey string

	// Uploads
	UploadDir   string
	MaxFileSize int64 // bytes

	// Rate limiting
	RateLimitPerMinute int

	// Background workers
	WorkerCount     int
	WorkerQueueSize int

	// Observability
	SentryDSN         string // Sentry DSN for error tracking
	LangfusePublicKey string // Langfuse public key
	LangfuseSecretKey string // Langfuse secret key
	LangfuseHost      string // Langfuse host URL (cloud or self-hosted)
	LangfuseEnabled   bool   // Feature flag for Langfuse

	// Auth mode
	// - "none": No auth (self-hosted, local dev)
	// - "gateway": Trust X-User-* headers from an upstream gateway
	AuthMode string
}

func Load() *Config {
	return &Config{
		Environment:        getEnv("ENVIRONMENT", "development"),
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", "postgres://localhost:5432/drawtunes?sslmode=disable"),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		VisionProvider:     getEnv("VISION_PROVIDER", ""),
		SunoAPIKey:         getEnv("SUNO_API_KEY", ""),
		BeatovenAPIKey:     getEnv("BEATOVEN_API_KEY", ""),
		ElevenLabsAPIKey:   getEnv("ELEVENLABS_API_KEY", ""),
		UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
		MaxFileSize:        getEnvInt64("MAX_FILE_SIZE", 10<<20),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		WorkerCount:        getEnvInt("WORKER_COUNT", 4),
		WorkerQueueSize:    getEnvInt("WORKER_QUEUE_SIZE", 64),
		SentryDSN:          getEnv("SENTRY_DSN", ""),
		LangfusePublicKey:  getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey:  getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseHost:       getEnv("LANGFUSE_HOST", "https://cloud.langfuse.com"),
		LangfuseEnabled:    getEnv("LANGFUSE_ENABLED", "false") == "true",
		AuthMode:           getEnv("AUTH_MODE", "none"), // Default to no auth for self-hosted
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// IsGatewayMode returns true if running behind an auth gateway
func (c *Config) IsGatewayMode() bool {
	return c.AuthMode == "gateway"
}

// IsProduction returns true in the production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
