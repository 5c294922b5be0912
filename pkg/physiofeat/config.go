package physiofeat

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/pelletier/go-toml/v2"

	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat/features"
	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat/storage"
)

type Config struct {
	DBPath   string
	Workers  int
	Features features.Config
	Logger   Logger
	Storage  Storage
}

type Option func(*Config)

func WithDBPath(path string) Option {
	return func(c *Config) {
		c.DBPath = path
	}
}

// WithWorkers bounds how many jobs ExtractBatch runs at once. Values below
// one fall back to the CPU count.
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

func WithFeatureConfig(fc features.Config) Option {
	return func(c *Config) {
		c.Features = fc
	}
}

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func WithStorage(storage Storage) Option {
	return func(c *Config) {
		c.Storage = storage
	}
}

func defaultConfig() *Config {
	return &Config{
		DBPath:   storage.DefaultDBFile,
		Workers:  runtime.NumCPU(),
		Features: features.DefaultConfig(),
	}
}

// LoadConfigFile reads a TOML extraction config. Keys absent from the file
// keep their default values; the result is validated.
func LoadConfigFile(path string) (features.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return features.Config{}, fmt.Errorf("reading config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig overlays TOML data on the default extraction config.
func ParseConfig(data []byte) (features.Config, error) {
	cfg := features.DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return features.Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return features.Config{}, err
	}
	return cfg, nil
}

// WriteConfig writes cfg as TOML.
func WriteConfig(w io.Writer, cfg features.Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}
