/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"log"

	"github.com/mikeb26/uqlt/browser"
	"github.com/mikeb26/uqlt/elo"
	"github.com/mikeb26/uqlt/internal"
	"github.com/mikeb26/uqlt/internal/config"
	"github.com/mikeb26/uqlt/ping"
	"github.com/mikeb26/uqlt/qlive"
	"github.com/mikeb26/uqlt/qlranks"
	"github.com/mikeb26/uqlt/ratingstore"
)

type app struct {
	cfg     *config.Config
	store   *ratingstore.Store
	ratings *qlranks.Client
	browser *browser.Browser
}

// loadConfig falls back to the defaults only when the file does not exist.
func loadConfig(path string) *config.Config {
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	return cfg
}

func newApp(ctx context.Context, configPath string,
	onState func(browser.State)) *app {

	cfg := loadConfig(configPath)

	store, err := ratingstore.New(cfg.RatingsDB)
	if err != nil {
		log.Fatalf("Error opening ratings database %v: %v", cfg.RatingsDB, err)
	}

	cache := elo.NewCache()
	saved, err := store.Load(ctx, cfg.RatingsMaxAge)
	if err != nil {
		log.Printf("uqlt: ignoring unreadable ratings snapshot: %v", err)
	} else {
		cache.Restore(saved)
	}

	filter, err := qlive.LoadFilter(cfg.FilterFile)
	if err != nil {
		log.Fatalf("Error loading filter %v: %v", cfg.FilterFile, err)
	}

	ratings := qlranks.NewClient(ctx, qlranks.Options{
		BaseURL:           cfg.QLRanks.BaseURL,
		RequestsPerSecond: cfg.QLRanks.RequestsPerSecond,
		Burst:             cfg.QLRanks.Burst,
		Cache: internal.CacheOptions{
			MaxAge:   cfg.QLRanks.CacheMaxAge,
			Timeout:  cfg.QLRanks.Timeout,
			S3Bucket: cfg.Cache.S3Bucket,
			Gzip:     cfg.Cache.Gzip,
		},
	})

	b := browser.New(browser.Options{
		Servers: qlive.NewClient(cfg.QuakeLive.BaseURL, cfg.QuakeLive.Timeout),
		Ratings: ratings,
		Pinger: &ping.ICMPPinger{
			Timeout:    cfg.Ping.Timeout,
			Privileged: cfg.Ping.Privileged,
		},
		Cache:       cache,
		Filter:      filter,
		BatchSize:   cfg.QLRanks.BatchSize,
		Concurrency: cfg.Refresh.Concurrency,
		Timeout:     cfg.Refresh.Timeout,
		OnState:     onState,
	})

	return &app{cfg: cfg, store: store, ratings: ratings, browser: b}
}

// saveRatings persists the ratings looked up by this process; restored ones
// keep the age they were loaded with.
func (a *app) saveRatings(ctx context.Context) {
	if err := a.store.Save(ctx, a.browser.Cache().Updates()); err != nil {
		log.Printf("uqlt: failed to save ratings snapshot: %v", err)
	}
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		log.Printf("uqlt: failed to close ratings database: %v", err)
	}
}

// exitf is replaced in tests.
var exitf = log.Fatalf

// fatalf closes the app before exiting, since log.Fatalf skips deferred
// calls.
func (a *app) fatalf(format string, args ...any) {
	a.close()
	exitf(format, args...)
}
