/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package elo holds QLRanks player ratings: the per-mode rating tuple, a
// concurrency-safe rating cache and the batcher that decides which names
// still need to be looked up.
package elo

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Ratings is one player's Elo in each rated game mode. A zero field means
// the ranking service has no rating for that mode.
type Ratings struct {
	Duel int
	TDM  int
	CA   int
	FFA  int
	CTF  int
}

// IsZero reports whether no mode carries a rating.
func (r Ratings) IsZero() bool {
	return r == Ratings{}
}

// Key returns the case-insensitive identity of a player name.
func Key(name string) string {
	// a Caser is stateful, so never share one between goroutines
	return cases.Lower(language.Und).String(name)
}
