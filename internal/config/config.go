package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Groq completion
	GroqAPIKey  string
	GroqModel   string
	GroqBaseURL string

	// Upload limits
	MaxUploadBytes int64

	// Prompt assembly. The two limits are deliberately distinct: chat mode
	// reserves room for the greeting turn and replayed history.
	SummaryCharLimit    int
	ChatCharLimit       int
	MaxCompletionTokens int
	ChatTemperature     float32

	// PDF
	PDFFallbackPdftotext bool

	// Static frontend assets
	StaticDir string

	// LLM stats
	LLMStatsWindow time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "3000"),

		GroqAPIKey:  os.Getenv("GROQ_API_KEY"),
		GroqModel:   envOr("GROQ_MODEL", "llama-3.3-70b-versatile"),
		GroqBaseURL: envOr("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		SummaryCharLimit:    envInt("SUMMARY_CHAR_LIMIT", 15000),
		ChatCharLimit:       envInt("CHAT_CHAR_LIMIT", 14000),
		MaxCompletionTokens: envInt("MAX_COMPLETION_TOKENS", 800),
		ChatTemperature:     envFloat32("CHAT_TEMPERATURE", 0.7),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		StaticDir: envOr("STATIC_DIR", "public"),

		LLMStatsWindow: envDuration("LLM_STATS_WINDOW", 1*time.Hour),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.SummaryCharLimit <= 0 {
		cfg.SummaryCharLimit = 15000
	}
	if cfg.ChatCharLimit <= 0 {
		cfg.ChatCharLimit = 14000
	}
	if cfg.MaxCompletionTokens <= 0 {
		cfg.MaxCompletionTokens = 800
	}
	if cfg.LLMStatsWindow <= 0 {
		cfg.LLMStatsWindow = 1 * time.Hour
	}

	return cfg
}

// Validate checks structural sanity. GROQ_API_KEY is intentionally not
// required here: its absence surfaces as a failed completion at call time.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.GroqModel == "" {
		return fmt.Errorf("GROQ_MODEL must not be empty")
	}
	if c.GroqBaseURL == "" {
		return fmt.Errorf("GROQ_BASE_URL must not be empty")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat32(key string, fallback float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
