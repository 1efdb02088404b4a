/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package qlive

import (
	"testing"

	"github.com/mikeb26/uqlt/elo"
)

func rated(name string, team Team, r elo.Ratings) Player {
	return Player{Name: name, Team: team, Ratings: r, Rated: true}
}

func TestTeamAverage(t *testing.T) {
	s := Server{
		GameType: GameTypeCA,
		Players: []Player{
			rated("r1", TeamRed, elo.Ratings{CA: 1000}),
			rated("r2", TeamRed, elo.Ratings{CA: 2000}),
			rated("r3", TeamRed, elo.Ratings{}),          // unrated in ca
			{Name: "r4", Team: TeamRed},                  // never fetched
			rated("b1", TeamBlue, elo.Ratings{CA: 1500}),
			rated("x", TeamNone, elo.Ratings{CA: 9000}),  // team 0 on a team server
			rated("s", TeamSpectator, elo.Ratings{CA: 9000}),
		},
	}

	if avg, n := s.TeamAverage(TeamRed); avg != 1500 || n != 2 {
		t.Errorf("red average = %d over %d; want 1500 over 2", avg, n)
	}
	if avg, n := s.TeamAverage(TeamBlue); avg != 1500 || n != 1 {
		t.Errorf("blue average = %d over %d; want 1500 over 1", avg, n)
	}
}

func TestTeamAverageNonTeamGame(t *testing.T) {
	s := Server{
		GameType: GameTypeDuel,
		Players:  []Player{rated("a", TeamRed, elo.Ratings{Duel: 1500})},
	}
	if _, n := s.TeamAverage(TeamRed); n != 0 {
		t.Errorf("duel servers have no team averages")
	}
	if avg, n := s.Average(); avg != 1500 || n != 1 {
		t.Errorf("Average = %d over %d", avg, n)
	}
}

func TestGameTypeRating(t *testing.T) {
	r := elo.Ratings{Duel: 1, TDM: 2, CA: 3, FFA: 4, CTF: 5}
	cases := []struct {
		gt   GameType
		want int
		ok   bool
	}{
		{GameTypeDuel, 1, true},
		{GameTypeTDM, 2, true},
		{GameTypeCA, 3, true},
		{GameTypeFFA, 4, true},
		{GameTypeCTF, 5, true},
		{GameTypeFreezeTag, 0, false},
		{GameType(42), 0, false},
	}
	for _, c := range cases {
		got, ok := c.gt.Rating(r)
		if got != c.want || ok != c.ok {
			t.Errorf("%v.Rating = %d,%v; want %d,%v", c.gt, got, ok, c.want, c.ok)
		}
	}
	if GameType(42).String() != "?" || GameTypeCTF.String() != "ctf" {
		t.Errorf("unexpected game type names")
	}
}
