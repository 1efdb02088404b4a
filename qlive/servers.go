/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package qlive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mikeb26/uqlt/internal"
)

// maxBody bounds a browser API response.
const maxBody = 16 << 20

type apiServerID struct {
	PublicID int `json:"public_id"`
}

type apiServer struct {
	PublicID    int         `json:"public_id"`
	HostAddress string      `json:"host_address"`
	HostName    string      `json:"host_name"`
	GameType    int         `json:"game_type"`
	Map         string      `json:"map"`
	NumPlayers  int         `json:"num_players"`
	MaxClients  int         `json:"max_clients"`
	GameState   string      `json:"g_gamestate"`
	Round       int         `json:"round"`
	RedScore    int         `json:"g_redscore"`
	BlueScore   int         `json:"g_bluescore"`
	LocationID  int         `json:"location_id"`
	Players     []apiPlayer `json:"players"`
}

type apiPlayer struct {
	Name  string `json:"name"`
	Clan  string `json:"clan"`
	Team  int    `json:"team"`
	Score int    `json:"score"`
	Bot   int    `json:"bot"`
}

// FetchServers resolves filter (a base64 filter blob) to server ids and then
// fetches the full details of those servers.
func (client *Client) FetchServers(ctx context.Context,
	filter string) ([]Server, error) {

	ids, err := client.fetchServerIDs(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Server{}, nil
	}

	details, err := client.fetchServerDetails(ctx, ids)
	if err != nil {
		return nil, err
	}

	servers := make([]Server, 0, len(details))
	for i := range details {
		servers = append(servers, convertServer(&details[i]))
	}
	return servers, nil
}

func (client *Client) fetchServerIDs(ctx context.Context,
	filter string) ([]int, error) {

	q := url.Values{}
	q.Set("filter", filter)
	listURL := client.baseURL + "/browser/list?" + q.Encode()

	var list []apiServerID
	if err := client.getJSON(ctx, "server list", listURL, &list); err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(list))
	for _, s := range list {
		ids = append(ids, s.PublicID)
	}
	return ids, nil
}

func (client *Client) fetchServerDetails(ctx context.Context,
	ids []int) ([]apiServer, error) {

	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = strconv.Itoa(id)
	}
	detailsURL := client.baseURL + "/browser/details?ids=" +
		strings.Join(strIDs, ",")

	var details []apiServer
	if err := client.getJSON(ctx, "server details", detailsURL, &details); err != nil {
		return nil, err
	}
	return details, nil
}

// getJSON GETs reqURL and decodes its entity-encoded JSON body into out.
func (client *Client) getJSON(ctx context.Context, what string, reqURL string,
	out any) error {

	req, err := internal.NewGetRequest(ctx, reqURL, "")
	if err != nil {
		return fmt.Errorf("creating %v request: %w", what, err)
	}

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing %v HTTP GET: %w", what, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return internal.StatusError(what, resp)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("reading %v body: %w", what, err)
	}
	decoded, err := decodeBody(body)
	if err != nil {
		return fmt.Errorf("decoding %v body: %w", what, err)
	}
	if err := json.Unmarshal(decoded, out); err != nil {
		return fmt.Errorf("parsing %v JSON: %w", what, err)
	}
	return nil
}

// decodeBody undoes the HTML treatment the browser API gives its JSON: the
// payload is served as text/html with entities escaped, and sometimes
// wrapped in a document.
func decodeBody(body []byte) ([]byte, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '<' {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		return []byte(strings.TrimSpace(doc.Text())), nil
	}

	return []byte(html.UnescapeString(string(body))), nil
}

func convertServer(s *apiServer) Server {
	srv := Server{
		PublicID:    s.PublicID,
		HostAddress: s.HostAddress,
		HostName:    s.HostName,
		GameType:    GameType(s.GameType),
		Map:         s.Map,
		NumPlayers:  s.NumPlayers,
		MaxClients:  s.MaxClients,
		GameState:   s.GameState,
		Round:       s.Round,
		RedScore:    s.RedScore,
		BlueScore:   s.BlueScore,
		LocationID:  s.LocationID,
		Players:     make([]Player, 0, len(s.Players)),
	}
	for _, p := range s.Players {
		srv.Players = append(srv.Players, Player{
			Name:  p.Name,
			Clan:  p.Clan,
			Team:  Team(p.Team),
			Score: p.Score,
			Bot:   p.Bot != 0,
		})
	}
	if srv.NumPlayers == 0 {
		srv.NumPlayers = len(srv.Players)
	}
	return srv
}
