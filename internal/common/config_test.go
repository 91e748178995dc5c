package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, 200, cfg.Extract.MaxPages)
	assert.Equal(t, "pdftoppm", cfg.Extract.Pdftoppm)
	assert.Equal(t, 12000, cfg.Segment.MaxSectionChars)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 3, cfg.Workers)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("MAX_PDF_PAGES", "50")
	t.Setenv("OPENAI_TIMEOUT", "30s")
	t.Setenv("SECTION_WORKERS", "8")
	t.Setenv("OPENAI_TEMPERATURE", "not-a-number")

	cfg := LoadConfig()
	assert.Equal(t, 50, cfg.Extract.MaxPages)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 8, cfg.Workers)
	// malformed values fall back to the default
	assert.Equal(t, float32(0.1), cfg.LLM.Temperature)
}

func TestConfigValidate(t *testing.T) {
	cfg := LoadConfig()
	require.NoError(t, cfg.Validate())

	cfg.Workers = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}
