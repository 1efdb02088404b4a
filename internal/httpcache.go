/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/mikeb26/uqlt/s3cache"
)

// CacheOptions selects the backing store and freshness of a cached client.
type CacheOptions struct {
	// MaxAge is the client-side TTL enforced on every cached response.
	MaxAge time.Duration
	// Timeout bounds each request, including reading the body. Zero means
	// no timeout.
	Timeout time.Duration
	// S3Bucket, when set, stores responses in S3 instead of memory.
	S3Bucket string
	// S3Prefix namespaces object keys within the bucket.
	S3Prefix string
	Gzip     bool

	// Transport is the underlying RoundTripper; nil uses
	// http.DefaultTransport.
	Transport http.RoundTripper
}

// NewCachedHttpClient returns an http.Client that caches responses via
// httpcache. If an S3 bucket is configured but cannot be initialized it falls
// back to an in-memory cache instead of no cache. It also enforces a
// client-side TTL by rewriting origin cache headers.
func NewCachedHttpClient(ctx context.Context, opts CacheOptions) *http.Client {
	hc := httpcache.NewTransport(newCache(ctx, opts))

	wrapped := opts.Transport
	if wrapped == nil {
		wrapped = http.DefaultTransport
	}
	maxAge := int(opts.MaxAge / time.Second)

	// we have to inject our own header overrides here in order to override
	// server responses that might indicate caching shouldn't be done
	hc.Transport = &HeaderOverrideTransport{
		wrappedRT: wrapped,
		Response: func(resp *http.Response) error {
			if resp.StatusCode != http.StatusOK {
				return nil
			}
			// Strip any cache-busting headers from origin
			resp.Header.Del("Pragma")
			resp.Header.Del("Expires")
			resp.Header.Del("Cache-Control")
			// Enforce the provided TTL
			resp.Header.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
			return nil
		},
	}

	return &http.Client{Transport: hc, Timeout: opts.Timeout}
}

func newCache(ctx context.Context, opts CacheOptions) httpcache.Cache {
	if opts.S3Bucket == "" {
		return httpcache.NewMemoryCache()
	}

	cache := s3cache.New(ctx, opts.S3Bucket, opts.Gzip, true)
	if opts.S3Prefix != "" {
		cache.Prefix = opts.S3Prefix
	}
	if err := cache.Init(); err != nil {
		log.Printf("httpcache: warning failed to init S3 cache: %v; falling back to memory cache", err)
		return httpcache.NewMemoryCache()
	}

	return cache
}

type HeaderOverrideTransport struct {
	Request  func(req *http.Request)
	Response func(resp *http.Response) error

	// Underlying RoundTripper (e.g. default transport or another decorator)
	wrappedRT http.RoundTripper
}

// RoundTrip applies Request and Response hooks around the underlying transport.
func (t *HeaderOverrideTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so we don’t stomp on the caller’s original
	req2 := req.Clone(req.Context())
	if t.Request != nil {
		t.Request(req2)
	}

	resp, err := t.wrappedRT.RoundTrip(req2)
	if err != nil {
		return nil, err
	}

	if t.Response != nil {
		if err := t.Response(resp); err != nil {
			resp.Body.Close()
			return nil, err
		}
	}
	return resp, nil
}
