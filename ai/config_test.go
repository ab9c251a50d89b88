package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, 768, cfg.Dimensions)
	assert.Equal(t, 20, cfg.ChunkSize)
	assert.Equal(t, 32000, cfg.MaxTextLength)
	require.NoError(t, cfg.Validate())
}

func TestNewConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithHost("https://api.openai.com"),
		WithToken("sk-test"),
		WithModel("text-embedding-3-small"),
		WithDimensions(1536),
		WithChunkSize(10),
		WithTimeout(30*time.Second),
	)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://api.openai.com/v1", cfg.Host, "Normalize should append /v1")
	assert.Equal(t, "sk-test", cfg.Token)
	assert.Equal(t, 1536, cfg.Dimensions)
}

func TestConfigNormalize(t *testing.T) {
	cfg := &Config{Host: "http://localhost:11434/"}
	cfg.Normalize()
	assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	assert.Equal(t, "none", cfg.Token, "empty token defaults for local services")

	already := &Config{Host: "http://localhost:11434/v1"}
	already.Normalize()
	assert.Equal(t, "http://localhost:11434/v1", already.Host)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing host", func(c *Config) { c.Host = "" }},
		{"missing model", func(c *Config) { c.Model = "" }},
		{"zero dimensions", func(c *Config) { c.Dimensions = 0 }},
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }},
		{"zero max length", func(c *Config) { c.MaxTextLength = 0 }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
