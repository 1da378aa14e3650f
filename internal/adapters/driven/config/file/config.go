// Package file loads engine configuration from a TOML file.
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/brightline-labs/campaigniq/internal/core/domain"
)

// DefaultConfigPath is the config location relative to the home directory.
const DefaultConfigPath = ".campaigniq/config.toml"

// Config is the engine configuration.
type Config struct {
	// DataDir holds the SQLite database. Empty means ~/.campaigniq/data.
	DataDir string `toml:"data_dir"`

	// Concurrency bounds the processing worker pool.
	Concurrency int `toml:"concurrency"`

	Chunking   ChunkingConfig   `toml:"chunking"`
	Embedding  EmbeddingConfig  `toml:"embedding"`
	Completion CompletionConfig `toml:"completion"`
}

// ChunkingConfig controls the text windowing.
type ChunkingConfig struct {
	Window  int `toml:"window"`
	Overlap int `toml:"overlap"`
}

// EmbeddingConfig configures the embedding service.
type EmbeddingConfig struct {
	APIKey            string  `toml:"api_key"`
	BaseURL           string  `toml:"base_url"`
	Model             string  `toml:"model"`
	MaxInputChars     int     `toml:"max_input_chars"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// CompletionConfig configures the completion service.
type CompletionConfig struct {
	APIKey          string `toml:"api_key"`
	BaseURL         string `toml:"base_url"`
	Model           string `toml:"model"`
	MaxContextChars int    `toml:"max_context_chars"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Concurrency: 4,
		Chunking: ChunkingConfig{
			Window:  1000,
			Overlap: 200,
		},
	}
}

// Load reads the config from path, or from the default location when path is
// empty. A missing file is not an error: defaults are returned, with API keys
// taken from the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, DefaultConfigPath)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		applyEnv(&cfg)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: parsing config %s: %w", domain.ErrInvalidConfiguration, path, err)
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv fills API keys from the environment when the file leaves them
// empty, so secrets can stay out of the config file.
func applyEnv(cfg *Config) {
	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Completion.APIKey == "" {
		cfg.Completion.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if c.Concurrency < 0 {
		return fmt.Errorf("%w: concurrency must not be negative", domain.ErrInvalidConfiguration)
	}
	if c.Chunking.Window <= 0 {
		return fmt.Errorf("%w: chunking window must be positive", domain.ErrInvalidConfiguration)
	}
	if c.Chunking.Overlap < 0 {
		return fmt.Errorf("%w: chunking overlap must not be negative", domain.ErrInvalidConfiguration)
	}
	if c.Chunking.Overlap >= c.Chunking.Window {
		return fmt.Errorf("%w: chunking overlap %d must be smaller than window %d", domain.ErrInvalidConfiguration, c.Chunking.Overlap, c.Chunking.Window)
	}
	if c.Embedding.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: embedding requests_per_second must not be negative", domain.ErrInvalidConfiguration)
	}
	return nil
}
