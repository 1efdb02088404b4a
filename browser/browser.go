/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package browser keeps an Elo-enriched view of the Quake Live server list:
// it fetches the servers, pings their hosts, looks up player ratings in
// bounded batches and publishes the merged result.
package browser

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/mikeb26/uqlt/elo"
	"github.com/mikeb26/uqlt/ping"
	"github.com/mikeb26/uqlt/qlive"
)

type ServerSource interface {
	FetchServers(ctx context.Context, filter string) ([]qlive.Server, error)
}

type RatingSource interface {
	FetchRatings(ctx context.Context, names []string) (map[string]elo.Ratings, error)
}

// DefaultConcurrency bounds the number of pings and rating lookups in flight.
const DefaultConcurrency = 32

// DefaultTimeout bounds a whole refresh.
const DefaultTimeout = 2 * time.Minute

type Options struct {
	Servers ServerSource
	Ratings RatingSource
	Pinger  ping.Pinger
	// Cache defaults to a fresh cache private to this Browser.
	Cache *elo.Cache

	Filter    string
	BatchSize int
	// Concurrency limits pings and rating batches together.
	Concurrency int
	// Timeout bounds a refresh independently of any caller's ctx.
	Timeout time.Duration

	// OnProgress and OnState are called synchronously from the refreshing
	// goroutine and must not call back into Refresh.
	OnProgress func(Progress)
	OnState    func(State)
}

// Progress counts the work still outstanding in a refresh. HostsPending
// counts distinct hosts left to ping, which may be fewer than the servers
// listed; PlayersPending counts names in rating batches still in flight.
type Progress struct {
	RefreshID      string
	HostsPending   int
	PlayersPending int
}

// State is the published outcome of the most recent refresh.
type State struct {
	RefreshID     string
	Servers       []qlive.Server
	Started       time.Time
	Finished      time.Time
	Err           error
	FailedBatches int
	FailedPings   int
}

type Browser struct {
	opts  Options
	cache *elo.Cache
	group singleflight.Group

	mu     sync.RWMutex
	filter string
	state  State
}

func New(opts Options) *Browser {
	if opts.BatchSize < 1 {
		opts.BatchSize = elo.DefaultBatchSize
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Filter == "" {
		opts.Filter = qlive.DefaultFilterBlob
	}
	cache := opts.Cache
	if cache == nil {
		cache = elo.NewCache()
	}

	return &Browser{
		opts:   opts,
		cache:  cache,
		filter: opts.Filter,
	}
}

func (b *Browser) Cache() *elo.Cache {
	return b.cache
}

// SetFilter changes the filter blob used by subsequent refreshes.
func (b *Browser) SetFilter(filter string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filter = filter
}

func (b *Browser) Filter() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.filter
}

// State returns the last published state.
func (b *Browser) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Refresh rebuilds the server list. Callers arriving while a refresh is in
// flight wait for it and share its result instead of starting another. A
// caller giving up stops waiting but does not cancel the shared refresh,
// which is bounded by Options.Timeout instead.
func (b *Browser) Refresh(ctx context.Context) (State, error) {
	ch := b.group.DoChan("refresh", func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx),
			b.opts.Timeout)
		defer cancel()

		st := b.refresh(rctx)
		return st, st.Err
	})

	select {
	case res := <-ch:
		return res.Val.(State), res.Err
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// Run refreshes immediately and then every interval until ctx is done.
func (b *Browser) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := b.Refresh(ctx); err != nil {
			log.Printf("browser.run: refresh failed: %v", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

type pingResult struct {
	host string
	rtt  time.Duration
	err  error
}

type batchResult struct {
	names   []string
	ratings map[string]elo.Ratings
	err     error
}

func (b *Browser) refresh(ctx context.Context) State {
	st := State{
		RefreshID: uuid.NewString(),
		Started:   time.Now(),
	}

	servers, err := b.opts.Servers.FetchServers(ctx, b.Filter())
	if err != nil && ctx.Err() != nil {
		// timed out: the last published list stays in place
		log.Printf("browser.refresh: %v: abandoned: %v", st.RefreshID, err)
		st.Servers = b.State().Servers
		st.Err = fmt.Errorf("refresh abandoned: %w", ctx.Err())
		st.Finished = time.Now()
		return st
	}
	if err != nil {
		log.Printf("browser.refresh: %v: failed to fetch servers: %v",
			st.RefreshID, err)
		st.Servers = []qlive.Server{}
		st.Err = fmt.Errorf("fetching servers: %w", err)
		return b.publish(st)
	}
	st.Servers = servers

	hosts, names := collect(servers)
	for _, n := range names {
		b.cache.SetDefault(n)
	}
	batches := elo.Partition(b.cache, names, b.opts.BatchSize)

	pings, results := b.fanOut(ctx, st.RefreshID, hosts, batches)

	if err := b.reduce(&st, pings, results); err != nil {
		log.Printf("browser.refresh: %v: %v", st.RefreshID, err)
		st.Err = err
	}

	return b.publish(st)
}

// collect lists the distinct hosts and the player names of servers, both in
// encounter order.
func collect(servers []qlive.Server) ([]string, []string) {
	seen := make(map[string]struct{})
	var hosts, names []string
	for i := range servers {
		h := ping.HostOnly(servers[i].HostAddress)
		if _, dup := seen[h]; h != "" && !dup {
			seen[h] = struct{}{}
			hosts = append(hosts, h)
		}
		for _, p := range servers[i].Players {
			names = append(names, p.Name)
		}
	}
	return hosts, names
}

// fanOut runs every ping and rating lookup concurrently. Each task owns one
// result slot and never fails the group, so one failure cannot cancel its
// siblings.
func (b *Browser) fanOut(ctx context.Context, refreshID string, hosts []string,
	batches [][]string) ([]pingResult, []batchResult) {

	pings := make([]pingResult, len(hosts))
	results := make([]batchResult, len(batches))

	prog := &progress{
		Progress: Progress{
			RefreshID:      refreshID,
			HostsPending:   len(hosts),
		},
		notify: b.opts.OnProgress,
	}
	for _, batch := range batches {
		prog.PlayersPending += len(batch)
	}
	prog.publish()

	var g errgroup.Group
	g.SetLimit(b.opts.Concurrency)

	for i, host := range hosts {
		g.Go(func() error {
			rtt, err := b.opts.Pinger.Ping(ctx, host)
			pings[i] = pingResult{host: host, rtt: rtt, err: err}
			prog.done(1, 0)
			return nil
		})
	}
	for i, batch := range batches {
		g.Go(func() error {
			ratings, err := b.opts.Ratings.FetchRatings(ctx, batch)
			results[i] = batchResult{names: batch, ratings: ratings, err: err}
			prog.done(0, len(batch))
			return nil
		})
	}
	_ = g.Wait()

	return pings, results
}

// reduce applies the fan-out results to the cache and to st.Servers.
func (b *Browser) reduce(st *State, pings []pingResult,
	results []batchResult) (err error) {

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("applying refresh results: %v", r)
		}
	}()

	for _, res := range results {
		if res.err != nil {
			st.FailedBatches++
			log.Printf("browser.refresh: %v: rating batch of %d failed: %v",
				st.RefreshID, len(res.names), res.err)
			continue
		}
		// names the service does not know are stored as unrated so they
		// are not asked for again every refresh
		for _, name := range res.names {
			b.cache.Update(name, res.ratings[elo.Key(name)])
		}
	}

	rtts := make(map[string]pingResult, len(pings))
	for _, p := range pings {
		rtts[p.host] = p
		if p.err != nil {
			st.FailedPings++
		}
	}

	for i := range st.Servers {
		srv := &st.Servers[i]
		if p, ok := rtts[ping.HostOnly(srv.HostAddress)]; ok {
			srv.Ping, srv.PingErr = p.rtt, p.err
		}
		for j := range srv.Players {
			pl := &srv.Players[j]
			pl.Ratings, pl.Rated = b.cache.Get(pl.Name)
		}
	}

	return nil
}

func (b *Browser) publish(st State) State {
	st.Finished = time.Now()

	b.mu.Lock()
	b.state = st
	b.mu.Unlock()

	if b.opts.OnState != nil {
		b.opts.OnState(st)
	}
	return st
}

type progress struct {
	Progress

	mu     sync.Mutex
	notify func(Progress)
}

func (p *progress) done(hosts int, players int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.HostsPending -= hosts
	p.PlayersPending -= players
	if p.notify != nil {
		p.notify(p.Progress)
	}
}

func (p *progress) publish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.notify != nil {
		p.notify(p.Progress)
	}
}
