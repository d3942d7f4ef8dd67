package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"meta-compactor/internal/hash"
)

// DefaultPath is the config file looked up when no --config flag is given.
const DefaultPath = "meta-compactor.yaml"

type Config struct {
	Hash      string   `yaml:"hash"`
	BlockSize int      `yaml:"block_size"`
	Exclude   []string `yaml:"exclude"`
	LogLevel  string   `yaml:"log_level"`
	Workers   int      `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Hash:      string(hash.SHA256),
		BlockSize: hash.DefaultBlockSize,
		Exclude:   []string{},
		LogLevel:  "info",
		Workers:   0,
	}
}

// LoadConfig reads a YAML config. A missing file yields DefaultConfig; keys
// absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	// Initialize Exclude slice if nil (for "exclude:" with no items)
	if cfg.Exclude == nil {
		cfg.Exclude = []string{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := hash.ParseAlgorithm(c.Hash); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("invalid config: block_size must be positive, got %d", c.BlockSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid config: workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// Algorithm returns the configured digest. Validate must have passed.
func (c *Config) Algorithm() hash.Algorithm {
	algo, _ := hash.ParseAlgorithm(c.Hash)
	return algo
}
