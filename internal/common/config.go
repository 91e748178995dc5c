package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all pipeline configuration
type Config struct {
	Extract ExtractConfig
	Segment SegmentConfig
	LLM     LLMConfig
	Workers int
}

// ExtractConfig holds document-extractor configuration
type ExtractConfig struct {
	MaxPages      int    // page ceiling before SizeLimit, default 200
	MinTextChars  int    // below this the document counts as unextractable
	VisionDPI     int    // rasterization DPI for vision mode
	PagesPerGroup int    // pages per vision call
	Pdftoppm      string // binary name or absolute path; if empty -> "pdftoppm"
}

// SegmentConfig holds segmenter/chunker configuration
type SegmentConfig struct {
	MaxSectionChars int // sections longer than this are chunked by page
	ChunkPages      int // pages per chunk
}

// LLMConfig holds extraction-client configuration
type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Extract: ExtractConfig{
			MaxPages:      getEnvAsInt("MAX_PDF_PAGES", 200),
			MinTextChars:  getEnvAsInt("MIN_TEXT_CHARS", 100),
			VisionDPI:     getEnvAsInt("VISION_DPI", 200),
			PagesPerGroup: getEnvAsInt("PAGES_PER_GROUP", 3),
			Pdftoppm:      getEnv("PDFTOPPM", "pdftoppm"),
		},
		Segment: SegmentConfig{
			MaxSectionChars: getEnvAsInt("MAX_SECTION_CHARS", 12000),
			ChunkPages:      getEnvAsInt("CHUNK_PAGES", 5),
		},
		LLM: LLMConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o"),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.1),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 90*time.Second),
		},
		Workers: getEnvAsInt("SECTION_WORKERS", 3),
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Extract.MaxPages <= 0 {
		return NewAppError("CONFIG_ERROR", "MAX_PDF_PAGES must be positive", ErrValidation)
	}
	if c.Extract.PagesPerGroup <= 0 {
		return NewAppError("CONFIG_ERROR", "PAGES_PER_GROUP must be positive", ErrValidation)
	}
	if c.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "SECTION_WORKERS must be positive", ErrValidation)
	}
	return nil
}
