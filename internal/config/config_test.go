/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikeb26/uqlt/internal"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "uqlt.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
qlranks:
  batch_size: 50
  cache_max_age: 10m
ping:
  privileged: true
cache:
  s3_bucket: my-bucket
  gzip: true
refresh:
  interval: 30s
  concurrency: 8
ratings_max_age: 6h
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.QLRanks.BatchSize != 50 || cfg.QLRanks.CacheMaxAge != 10*time.Minute {
		t.Errorf("qlranks overrides not applied: %+v", cfg.QLRanks)
	}
	if cfg.QLRanks.BaseURL != internal.QLRanksBaseURL {
		t.Errorf("qlranks.base_url default = %q", cfg.QLRanks.BaseURL)
	}
	if !cfg.Ping.Privileged || cfg.Ping.Timeout != 2*time.Second {
		t.Errorf("ping = %+v", cfg.Ping)
	}
	if cfg.Cache.S3Bucket != "my-bucket" || !cfg.Cache.Gzip {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Refresh.Interval != 30*time.Second || cfg.Refresh.Concurrency != 8 {
		t.Errorf("refresh = %+v", cfg.Refresh)
	}
	if cfg.Refresh.Timeout != 2*time.Minute {
		t.Errorf("refresh.timeout default = %v", cfg.Refresh.Timeout)
	}
	if cfg.RatingsMaxAge != 6*time.Hour {
		t.Errorf("ratings_max_age = %v", cfg.RatingsMaxAge)
	}
	if cfg.RatingsDB != internal.DefaultRatingsDB {
		t.Errorf("ratings_db default = %q", cfg.RatingsDB)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.QuakeLive.BaseURL != internal.QuakeLiveBaseURL {
		t.Errorf("quakelive.base_url = %q", cfg.QuakeLive.BaseURL)
	}
	if cfg.QLRanks.BatchSize != 150 {
		t.Errorf("qlranks.batch_size = %d", cfg.QLRanks.BatchSize)
	}
	if cfg.Cache.S3Bucket != "" {
		t.Errorf("no bucket should be configured by default")
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file error should wrap fs.ErrNotExist, got %v", err)
	}

	if _, err := Load(writeConfig(t, "qlranks: [not, a, map]\n")); err == nil {
		t.Errorf("expected a parse error")
	}
	if _, err := Load(writeConfig(t, "qlranks:\n  batch_size: -1\n")); err == nil {
		t.Errorf("expected a validation error for a negative batch size")
	}
	if _, err := Load(writeConfig(t, "refresh:\n  interval: 10ms\n")); err == nil {
		t.Errorf("expected a validation error for a tiny refresh interval")
	}
	if _, err := Load(writeConfig(t, "refresh:\n  concurrency: -2\n")); err == nil {
		t.Errorf("expected a validation error for negative concurrency")
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults, got %v", err)
	}
	if cfg.RatingsMaxAge != 24*time.Hour {
		t.Errorf("ratings_max_age default = %v", cfg.RatingsMaxAge)
	}

	if _, err := LoadOrDefault(writeConfig(t, "qlranks: [not, a, map]\n")); err == nil {
		t.Errorf("a malformed file must be reported, not replaced by defaults")
	}
}
