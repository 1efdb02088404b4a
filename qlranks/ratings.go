/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package qlranks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mikeb26/uqlt/elo"
	"github.com/mikeb26/uqlt/internal"
)

// apiRatingsResponse represents the JSON response from the api.aspx endpoint
type apiRatingsResponse struct {
	Players []apiPlayer `json:"players"`
}

type apiPlayer struct {
	Nick string  `json:"nick"`
	Duel apiMode `json:"duel"`
	TDM  apiMode `json:"tdm"`
	CA   apiMode `json:"ca"`
	FFA  apiMode `json:"ffa"`
	CTF  apiMode `json:"ctf"`
}

type apiMode struct {
	Elo  int `json:"elo"`
	Rank int `json:"rank"`
}

// FetchRatings looks up one batch of player names. The result is keyed by
// the lower-cased nick as returned by the service; names it does not know
// are simply absent.
func (client *Client) FetchRatings(ctx context.Context,
	names []string) (map[string]elo.Ratings, error) {

	if len(names) == 0 {
		return map[string]elo.Ratings{}, nil
	}

	if err := client.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rating request slot: %w", err)
	}

	req, err := internal.NewGetRequest(ctx, client.ratingsURL(names),
		"application/json")
	if err != nil {
		return nil, fmt.Errorf("creating rating request: %w", err)
	}

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing rating HTTP GET: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, internal.StatusError("rating", resp)
	}

	var data apiRatingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding rating JSON: %w", err)
	}

	ret := make(map[string]elo.Ratings, len(data.Players))
	for _, p := range data.Players {
		if p.Nick == "" {
			continue
		}
		ret[elo.Key(p.Nick)] = elo.Ratings{
			Duel: p.Duel.Elo,
			TDM:  p.TDM.Elo,
			CA:   p.CA.Elo,
			FFA:  p.FFA.Elo,
			CTF:  p.CTF.Elo,
		}
	}

	return ret, nil
}

// ratingsURL joins the escaped names with '+', the separator the service
// expects between nicks. Spaces inside a name are sent as %20 so they cannot
// be mistaken for the separator.
func (client *Client) ratingsURL(names []string) string {
	escaped := make([]string, len(names))
	for i, n := range names {
		escaped[i] = strings.ReplaceAll(url.QueryEscape(n), "+", "%20")
	}

	return fmt.Sprintf("%v/api.aspx?nick=%v", strings.TrimRight(client.baseURL, "/"),
		strings.Join(escaped, "+"))
}
