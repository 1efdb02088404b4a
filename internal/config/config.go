/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mikeb26/uqlt/internal"
)

// Config holds the application configuration
type Config struct {
	QuakeLive QuakeLiveConfig `yaml:"quakelive"`
	QLRanks   QLRanksConfig   `yaml:"qlranks"`
	Ping      PingConfig      `yaml:"ping"`
	Refresh   RefreshConfig   `yaml:"refresh"`
	Cache     CacheConfig     `yaml:"cache"`
	RatingsDB string          `yaml:"ratings_db"`
	// RatingsMaxAge is how long a saved rating is trusted by later runs.
	RatingsMaxAge time.Duration `yaml:"ratings_max_age"`
	FilterFile    string        `yaml:"filter_file"`
}

type QuakeLiveConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type QLRanksConfig struct {
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	BatchSize         int           `yaml:"batch_size"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	CacheMaxAge       time.Duration `yaml:"cache_max_age"`
}

type PingConfig struct {
	Timeout    time.Duration `yaml:"timeout"`
	Privileged bool          `yaml:"privileged"`
}

// RefreshConfig shapes each refresh cycle. Concurrency limits pings and
// rating batches together.
type RefreshConfig struct {
	Interval    time.Duration `yaml:"interval"`
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
}

// CacheConfig selects the backing store for cached QLRanks responses; an
// empty bucket keeps them in memory.
type CacheConfig struct {
	S3Bucket string `yaml:"s3_bucket"`
	Gzip     bool   `yaml:"gzip"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// LoadOrDefault is Load, except that a missing file yields Default().
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %v: %w", path, err)
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.QuakeLive.BaseURL == "" {
		cfg.QuakeLive.BaseURL = internal.QuakeLiveBaseURL
	}
	if cfg.QuakeLive.Timeout == 0 {
		cfg.QuakeLive.Timeout = 15 * time.Second
	}

	if cfg.QLRanks.BaseURL == "" {
		cfg.QLRanks.BaseURL = internal.QLRanksBaseURL
	}
	if cfg.QLRanks.Timeout == 0 {
		cfg.QLRanks.Timeout = 15 * time.Second
	}
	if cfg.QLRanks.BatchSize == 0 {
		cfg.QLRanks.BatchSize = 150
	}
	if cfg.QLRanks.RequestsPerSecond == 0 {
		cfg.QLRanks.RequestsPerSecond = 2
	}
	if cfg.QLRanks.Burst == 0 {
		cfg.QLRanks.Burst = 4
	}
	if cfg.QLRanks.CacheMaxAge == 0 {
		cfg.QLRanks.CacheMaxAge = time.Hour
	}

	if cfg.Ping.Timeout == 0 {
		cfg.Ping.Timeout = 2 * time.Second
	}

	if cfg.Refresh.Interval == 0 {
		cfg.Refresh.Interval = time.Minute
	}
	if cfg.Refresh.Concurrency == 0 {
		cfg.Refresh.Concurrency = 32
	}
	if cfg.Refresh.Timeout == 0 {
		cfg.Refresh.Timeout = 2 * time.Minute
	}

	if cfg.RatingsDB == "" {
		cfg.RatingsDB = internal.DefaultRatingsDB
	}
	if cfg.RatingsMaxAge == 0 {
		cfg.RatingsMaxAge = 24 * time.Hour
	}
	if cfg.FilterFile == "" {
		cfg.FilterFile = internal.DefaultFilterPath
	}
	// Cache.S3Bucket has no default: empty means an in-memory response cache
}

func (cfg *Config) validate() error {
	switch {
	case cfg.QLRanks.BatchSize < 1:
		return fmt.Errorf("qlranks.batch_size must be positive, got %d",
			cfg.QLRanks.BatchSize)
	case cfg.Refresh.Concurrency < 1:
		return fmt.Errorf("refresh.concurrency must be positive, got %d",
			cfg.Refresh.Concurrency)
	case cfg.Refresh.Interval < time.Second:
		return fmt.Errorf("refresh.interval must be at least 1s, got %v",
			cfg.Refresh.Interval)
	case cfg.RatingsMaxAge < 0:
		return fmt.Errorf("ratings_max_age must not be negative, got %v",
			cfg.RatingsMaxAge)
	}
	return nil
}
