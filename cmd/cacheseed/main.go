/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/mikeb26/uqlt/browser"
	"github.com/mikeb26/uqlt/elo"
	"github.com/mikeb26/uqlt/internal"
	"github.com/mikeb26/uqlt/internal/config"
	"github.com/mikeb26/uqlt/qlive"
	"github.com/mikeb26/uqlt/qlranks"
	"github.com/mikeb26/uqlt/ratingstore"
)

// this program exists just to seed the qlranks response cache and the
// ratings snapshot for everyone currently on the server list

func main() {
	ctx := context.Background()

	configPath := flag.String("config", internal.DefaultConfigPath, "path to configuration file")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	filter, err := qlive.LoadFilter(cfg.FilterFile)
	if err != nil {
		log.Fatalf("Error loading filter: %v", err)
	}
	servers, err := qlive.NewClient(cfg.QuakeLive.BaseURL,
		cfg.QuakeLive.Timeout).FetchServers(ctx, filter)
	if err != nil {
		log.Fatalf("Error fetching servers: %v", err)
	}

	var names []string
	for _, srv := range servers {
		for _, p := range srv.Players {
			names = append(names, p.Name)
		}
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

	fetched, skipped := seed(ctx, ratings, names, cfg.QLRanks.BatchSize)
	if skipped > 0 {
		log.Printf("cacheseed: %v players were not seeded", skipped)
	}

	store, err := ratingstore.New(cfg.RatingsDB)
	if err != nil {
		log.Fatalf("Error opening ratings database: %v", err)
	}
	defer store.Close()

	if err := store.Save(ctx, fetched); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ratings: %v\n", err)
		return
	}
	fmt.Printf("saved %v ratings to %v\n", len(fetched), cfg.RatingsDB)
}

// seed looks up names batch by batch and returns the ratings it got plus the
// number of players in batches that failed. The limiter in source paces these
// so qlranks.com is not pegged.
func seed(ctx context.Context, source browser.RatingSource, names []string,
	batchSize int) (map[string]elo.Ratings, int) {

	fetched := make(map[string]elo.Ratings)
	skipped := 0
	for _, batch := range elo.Partition(nil, names, batchSize) {
		got, err := source.FetchRatings(ctx, batch)
		if err != nil {
			// best effort
			log.Printf("cacheseed: skipping batch of %v players: %v", len(batch), err)
			skipped += len(batch)
			continue
		}
		for _, name := range batch {
			fetched[elo.Key(name)] = got[elo.Key(name)]
		}
		fmt.Printf("seeded %v players\n", len(batch))
	}
	return fetched, skipped
}
