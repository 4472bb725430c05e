package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Catalog sources.
const (
	CatalogFile   = "file"
	CatalogSQLite = "sqlite"
)

// Composer kinds.
const (
	ComposerTemplate = "template"
	ComposerLLM      = "llm"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort   string
	LogLevel  string
	LogFormat string

	KnowledgeBasePath    string
	ReferenceCorpusPath  string
	ReferenceMarkdownDir string
	CatalogSource        string
	DBPath               string

	AutoSendThreshold  float64
	ReviewThreshold    float64
	AmbiguityGap       float64
	RetrievalDiversity float64
	ReferenceLimit     int
	ContextWindow      int

	Composer     string
	LLMBaseURL   string
	LLMModelName string
	LLMAPIKey    string

	// QdrantURL is empty when the vector mirror is disabled.
	QdrantURL        string
	QdrantCollection string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the rest.
// If a .env file exists in the current directory or a parent, it is loaded first.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		APIPort:              getEnv("API_PORT", "9000"),
		LogLevel:             strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:            strings.ToLower(getEnv("LOG_FORMAT", "text")),
		KnowledgeBasePath:    getEnv("KNOWLEDGE_BASE_PATH", "./data/knowledge_base.json"),
		ReferenceCorpusPath:  getEnv("REFERENCE_CORPUS_PATH", "./data/reference_corpus.json"),
		ReferenceMarkdownDir: getEnv("REFERENCE_MARKDOWN_DIR", ""),
		CatalogSource:        strings.ToLower(getEnv("CATALOG_SOURCE", CatalogFile)),
		DBPath:               getEnv("DB_PATH", "./data/email-advisor.db"),
		Composer:             strings.ToLower(getEnv("COMPOSER", ComposerTemplate)),
		LLMBaseURL:           getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMModelName:         getEnv("LLM_MODEL", "Llama-3.1-8B-Instruct"),
		LLMAPIKey:            getEnv("LLM_API_KEY", ""),
		QdrantURL:            getEnv("QDRANT_URL", ""),
		QdrantCollection:     getEnv("QDRANT_COLLECTION", "reference_documents"),
	}

	var err error
	if cfg.AutoSendThreshold, err = getUnitFloat("AUTO_SEND_THRESHOLD", 0.95); err != nil {
		return nil, err
	}
	if cfg.ReviewThreshold, err = getUnitFloat("REVIEW_THRESHOLD", 0.55); err != nil {
		return nil, err
	}
	if cfg.AmbiguityGap, err = getUnitFloat("AMBIGUITY_GAP", 0.08); err != nil {
		return nil, err
	}
	if cfg.RetrievalDiversity, err = getUnitFloat("RETRIEVAL_DIVERSITY", 0.7); err != nil {
		return nil, err
	}
	if cfg.ReferenceLimit, err = getNonNegativeInt("REFERENCE_LIMIT", 3); err != nil {
		return nil, err
	}
	if cfg.ContextWindow, err = getNonNegativeInt("CONTEXT_WINDOW", 48); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.CatalogSource == CatalogSQLite {
		// Create the database directory if it doesn't exist
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.AutoSendThreshold < c.ReviewThreshold {
		return fmt.Errorf("AUTO_SEND_THRESHOLD (%.2f) must be at least REVIEW_THRESHOLD (%.2f)", c.AutoSendThreshold, c.ReviewThreshold)
	}
	switch c.CatalogSource {
	case CatalogFile:
		if c.KnowledgeBasePath == "" {
			return fmt.Errorf("KNOWLEDGE_BASE_PATH is required")
		}
	case CatalogSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required when CATALOG_SOURCE is sqlite")
		}
	default:
		return fmt.Errorf("CATALOG_SOURCE must be %q or %q, got %q", CatalogFile, CatalogSQLite, c.CatalogSource)
	}
	switch c.Composer {
	case ComposerTemplate:
	case ComposerLLM:
		if c.LLMBaseURL == "" {
			return fmt.Errorf("LLM_BASE_URL is required when COMPOSER is llm")
		}
	default:
		return fmt.Errorf("COMPOSER must be %q or %q, got %q", ComposerTemplate, ComposerLLM, c.Composer)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

// VectorMirrorEnabled reports whether reference vectors are mirrored to Qdrant.
func (c *Config) VectorMirrorEnabled() bool {
	return c.QdrantURL != ""
}

// SlogLevel maps LogLevel onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// loadDotEnv loads .env from the working directory or the nearest parent
// that has one. Missing files are ignored.
func loadDotEnv() {
	wd, err := os.Getwd()
	if err != nil {
		_ = godotenv.Load()
		return
	}
	dir := wd
	for i := 0; i < 5; i++ { // Limit search depth
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return // Reached filesystem root
		}
		dir = parent
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getUnitFloat parses key as a float in [0, 1].
func getUnitFloat(key string, defaultValue float64) (float64, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	if math.IsNaN(v) || v < 0 || v > 1 {
		return 0, fmt.Errorf("%s must be between 0 and 1, got %s", key, raw)
	}
	return v, nil
}

func getNonNegativeInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return v, nil
}
