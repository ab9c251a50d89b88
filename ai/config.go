package ai

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for the embedding backend.
type Config struct {
	// Host is the base URL of the OpenAI-compatible embedding API.
	// Example: "https://api.openai.com/v1", "http://localhost:11434/v1"
	Host string

	// Token is the bearer token sent with embedding requests.
	// Local OpenAI-compatible services accept any non-empty value.
	Token string

	// Model is the embedding model identifier.
	// Example: "text-embedding-gecko", "nomic-embed-text"
	Model string

	// Dimensions is the expected width of returned vectors.
	// Default: 768
	Dimensions int

	// ChunkSize is the number of texts submitted per remote call when
	// embedding a batch. Chunks are issued concurrently.
	// Default: 20
	ChunkSize int

	// MaxTextLength is the character ceiling per text; longer inputs
	// are truncated before submission because the backend enforces a
	// length limit.
	// Default: 32000
	MaxTextLength int

	// Timeout bounds a single remote call. The default is generous
	// because a chunk of long abstracts can take a while.
	// Default: 3 minutes
	Timeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the embedding service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithToken sets the bearer token.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.Token = token
	}
}

// WithModel sets the embedding model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithDimensions sets the expected vector width.
func WithDimensions(dimensions int) ConfigOption {
	return func(c *Config) {
		c.Dimensions = dimensions
	}
}

// WithChunkSize sets the number of texts per remote batch call.
func WithChunkSize(size int) ConfigOption {
	return func(c *Config) {
		c.ChunkSize = size
	}
}

// WithTimeout sets the per-call network timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services.
func DefaultConfig() *Config {
	return &Config{
		Host:          "http://localhost:11434/v1",
		Token:         "none",
		Model:         "nomic-embed-text",
		Dimensions:    768,
		ChunkSize:     20,
		MaxTextLength: 32000,
		Timeout:       3 * time.Minute,
	}
}

// NewConfig creates a Config with default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in canonical form. The /v1
// suffix is required by OpenAI-compatible APIs and added when missing.
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/") + "/v1"
	}
	if c.Token == "" {
		c.Token = "none"
	}
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return errors.New("ai config: Host is required")
	}
	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.Dimensions <= 0 {
		return errors.New("ai config: Dimensions must be positive")
	}
	if c.ChunkSize <= 0 {
		return errors.New("ai config: ChunkSize must be positive")
	}
	if c.MaxTextLength <= 0 {
		return errors.New("ai config: MaxTextLength must be positive")
	}
	if c.Timeout <= 0 {
		return errors.New("ai config: Timeout must be positive")
	}
	return nil
}
