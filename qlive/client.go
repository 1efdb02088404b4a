/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package qlive talks to the Quake Live server browser API.
package qlive

import (
	"net/http"
	"strings"
	"time"

	"github.com/mikeb26/uqlt/internal"
)

// Client fetches live server state. Responses are never cached since the
// listing changes from one refresh to the next.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return NewClientWithHTTP(&http.Client{Timeout: timeout}, baseURL)
}

func NewClientWithHTTP(hc *http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = internal.QuakeLiveBaseURL
	}

	return &Client{
		httpClient: hc,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}
