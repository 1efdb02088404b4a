/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package qlranks

import (
	"context"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/mikeb26/uqlt/internal"
)

type Options struct {
	BaseURL string
	// RequestsPerSecond and Burst shape outbound lookups. Zero
	// RequestsPerSecond disables limiting.
	RequestsPerSecond float64
	Burst             int
	Cache             internal.CacheOptions
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

func NewClient(ctx context.Context, opts Options) *Client {
	ret := &Client{
		httpClient: internal.NewCachedHttpClient(ctx, opts.Cache),
		baseURL:    opts.BaseURL,
		limiter:    newLimiter(opts.RequestsPerSecond, opts.Burst),
	}
	if ret.baseURL == "" {
		ret.baseURL = internal.QLRanksBaseURL
	}

	return ret
}

// NewClientWithHTTP wires an existing http.Client, bypassing the response
// cache.
func NewClientWithHTTP(hc *http.Client, baseURL string,
	requestsPerSecond float64, burst int) *Client {

	return &Client{
		httpClient: hc,
		baseURL:    baseURL,
		limiter:    newLimiter(requestsPerSecond, burst),
	}
}

func newLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
