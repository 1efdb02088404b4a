/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/mikeb26/uqlt/browser"
	"github.com/mikeb26/uqlt/elo"
	"github.com/mikeb26/uqlt/internal"
	"github.com/mikeb26/uqlt/qlive"
)

//go:embed help.txt
var helpText string

var version = "dev"

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, args []string)

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":    handleHelp,
	"servers": handleServers,
	"watch":   handleWatch,
	"ratings": handleRatings,
	"filter":  handleFilter,
	"version": handleVersion,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt,
		syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	if handler, ok := commands[cmd]; ok {
		handler(ctx, os.Args[2:])
	} else {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Printf("%v", helpText)
}

func handleHelp(ctx context.Context, args []string) {
	usage()
}

func handleVersion(ctx context.Context, args []string) {
	fmt.Printf("uqlt %s\n", version)
}

func handleServers(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("servers", flag.ExitOnError)
	configPath := fs.String("config", internal.DefaultConfigPath, "path to configuration file")
	player := fs.String("player", "", "only show servers with a player whose name contains this")
	eloKind := fs.String("elo-kind", "both-teams-min", "elo search kind")
	eloValue := fs.String("elo", "", "elo threshold for --elo-kind")
	_ = fs.Parse(args)

	search := &browser.SearchState{}
	if err := applySearch(search, *player, *eloKind, *eloValue); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		fs.Usage()
		os.Exit(1)
	}

	a := newApp(ctx, *configPath, nil)
	defer a.close()

	st, err := a.browser.Refresh(ctx)
	if err != nil {
		a.fatalf("Error refreshing servers: %v", err)
	}
	a.saveRatings(ctx)

	writeServers(os.Stdout, search.Apply(st.Servers))
	fmt.Println(summary(st))
}

func handleWatch(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", internal.DefaultConfigPath, "path to configuration file")
	interval := fs.Duration("interval", 0, "time between refreshes (default from config)")
	player := fs.String("player", "", "only show servers with a player whose name contains this")
	eloKind := fs.String("elo-kind", "both-teams-min", "elo search kind")
	eloValue := fs.String("elo", "", "elo threshold for --elo-kind")
	_ = fs.Parse(args)

	search := &browser.SearchState{
		OnStatus: func(status string) {
			if status != "" {
				fmt.Printf("Filtering by %v\n", status)
			}
		},
	}
	if err := applySearch(search, *player, *eloKind, *eloValue); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		fs.Usage()
		os.Exit(1)
	}

	var a *app
	a = newApp(ctx, *configPath, func(st browser.State) {
		if st.Err == nil {
			a.saveRatings(ctx)
		}
		writeServers(os.Stdout, search.Apply(st.Servers))
		fmt.Println(summary(st))
		fmt.Println()
	})
	defer a.close()

	every := *interval
	if every <= 0 {
		every = a.cfg.Refresh.Interval
	}
	fmt.Printf("Refreshing every %v; press ctrl-c to stop\n", formatDuration(every))

	if err := a.browser.Run(ctx, every); err != nil && ctx.Err() == nil {
		a.fatalf("Error watching servers: %v", err)
	}
}

func handleRatings(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("ratings", flag.ExitOnError)
	configPath := fs.String("config", internal.DefaultConfigPath, "path to configuration file")
	_ = fs.Parse(args)

	names := fs.Args()
	if len(names) == 0 {
		fmt.Fprintln(os.Stderr, "Please provide at least one player name.")
		fs.Usage()
		os.Exit(1)
	}

	a := newApp(ctx, *configPath, nil)
	defer a.close()

	cache := a.browser.Cache()
	for _, batch := range elo.Partition(cache, names, a.cfg.QLRanks.BatchSize) {
		ratings, err := a.ratings.FetchRatings(ctx, batch)
		if err != nil {
			a.fatalf("Error fetching ratings: %v", err)
		}
		for _, name := range batch {
			cache.Update(name, ratings[elo.Key(name)])
		}
	}
	a.saveRatings(ctx)

	writeRatings(os.Stdout, cache, names)
}

func handleFilter(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	configPath := fs.String("config", internal.DefaultConfigPath, "path to configuration file")
	_ = fs.Parse(args)

	cfg := loadConfig(*configPath)
	rest := fs.Args()
	if len(rest) == 0 {
		rest = []string{"show"}
	}

	switch rest[0] {
	case "show":
		blob, err := qlive.LoadFilter(cfg.FilterFile)
		if err != nil {
			log.Fatalf("Error loading filter: %v", err)
		}
		f, err := qlive.DecodeFilter(blob)
		if err != nil {
			log.Fatalf("Error decoding filter: %v", err)
		}
		pretty, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			log.Fatalf("Error formatting filter: %v", err)
		}
		fmt.Printf("%s\n\n%s\n", blob, pretty)
	case "set":
		if len(rest) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: uqlt filter set <blob>")
			os.Exit(1)
		}
		if err := qlive.SaveFilter(cfg.FilterFile, rest[1]); err != nil {
			log.Fatalf("Error saving filter: %v", err)
		}
		fmt.Printf("Saved filter to %v\n", cfg.FilterFile)
	default:
		fmt.Fprintf(os.Stderr, "Unknown filter command: %s\n", rest[0])
		os.Exit(1)
	}
}

// applySearch activates at most one search mode; a name search wins over an
// elo threshold when both are given.
func applySearch(search *browser.SearchState, player string, eloKind string,
	eloValue string) error {

	if player != "" {
		search.SetPlayerName(player)
		return nil
	}
	if eloValue == "" {
		return nil
	}
	kind, err := browser.ParseEloKind(eloKind)
	if err != nil {
		return err
	}
	return search.SetElo(kind, eloValue)
}
