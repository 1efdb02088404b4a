/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxErrBody bounds how much of an unexpected response we quote in an error.
const maxErrBody = 512

// NewGetRequest builds a GET request carrying our User-Agent and the given
// Accept header.
func NewGetRequest(ctx context.Context, url string,
	accept string) (*http.Request, error) {

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	return req, nil
}

// StatusError describes a non-200 response, quoting the start of its body.
func StatusError(what string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
	return fmt.Errorf("unexpected %v status %d: %s", what, resp.StatusCode,
		string(body))
}
