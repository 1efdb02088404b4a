/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package qlive

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Filter is the server browser search structure. The browser API takes it
// base64 encoded as an opaque blob.
type Filter struct {
	Filters   FilterCriteria `json:"filters"`
	ArenaType string         `json:"arena_type"`
	Players   []string       `json:"players"`
	GameTypes []int          `json:"game_types"`
	IG        int            `json:"ig"`
}

type FilterCriteria struct {
	Group          string `json:"group"`
	GameType       string `json:"game_type"`
	Arena          string `json:"arena"`
	State          string `json:"state"`
	Difficulty     string `json:"difficulty"`
	Location       string `json:"location"`
	Private        int    `json:"private"`
	PremiumOnly    int    `json:"premium_only"`
	Ranked         string `json:"ranked"`
	InvitationOnly int    `json:"invitation_only"`
}

// Encode returns the blob form of f.
func (f Filter) Encode() (string, error) {
	raw, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("encoding filter: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeFilter parses a blob back into a Filter.
func DecodeFilter(blob string) (Filter, error) {
	var f Filter
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return f, fmt.Errorf("decoding filter blob: %w", err)
	}
	if err := json.Unmarshal(raw, &f); err != nil {
		return f, fmt.Errorf("parsing filter JSON: %w", err)
	}
	return f, nil
}

// DefaultFilter lists every public server of the common game types in all
// locations.
var DefaultFilter = Filter{
	Filters: FilterCriteria{
		Group:      "any",
		GameType:   "any",
		Arena:      "any",
		State:      "any",
		Difficulty: "any",
		Location:   "ALL",
		Ranked:     "any",
	},
	Players: []string{},
	GameTypes: []int{
		int(GameTypeCTF), int(GameTypeCA), int(GameTypeTDM), int(GameTypeFFA),
		int(GameTypeDuel), int(GameTypeFreezeTag), int(GameTypeDomination),
		int(GameTypeAttackDefend), int(GameTypeHarvester), int(GameTypeOneFlag),
	},
}

// DefaultFilterBlob is used when no filter has been saved yet.
var DefaultFilterBlob = mustEncode(DefaultFilter)

func mustEncode(f Filter) string {
	blob, err := f.Encode()
	if err != nil {
		panic(fmt.Sprintf("BUG: default filter does not encode: %v", err))
	}
	return blob
}

type filterFile struct {
	Filter string `json:"filter"`
}

// LoadFilter reads the last applied filter blob from path. A missing file
// yields DefaultFilterBlob.
func LoadFilter(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultFilterBlob, nil
	}
	if err != nil {
		return "", fmt.Errorf("reading filter file: %w", err)
	}

	var ff filterFile
	if err := json.Unmarshal(data, &ff); err != nil {
		return "", fmt.Errorf("parsing filter file: %w", err)
	}
	if ff.Filter == "" {
		return DefaultFilterBlob, nil
	}
	return ff.Filter, nil
}

// SaveFilter records blob as the last applied filter.
func SaveFilter(path string, blob string) error {
	if _, err := DecodeFilter(blob); err != nil {
		return err
	}

	outbuf := new(bytes.Buffer)
	enc := json.NewEncoder(outbuf)
	enc.SetIndent("", "\t")
	if err := enc.Encode(filterFile{Filter: blob}); err != nil {
		return fmt.Errorf("encoding filter file: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, outbuf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing filter file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("replacing filter file: %w", err)
	}
	return nil
}
