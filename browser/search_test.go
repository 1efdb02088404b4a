/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package browser

import (
	"testing"

	"github.com/mikeb26/uqlt/elo"
	"github.com/mikeb26/uqlt/qlive"
)

func rated(name string, team qlive.Team, r elo.Ratings) qlive.Player {
	return qlive.Player{Name: name, Team: team, Ratings: r, Rated: true}
}

func caServer(red, blue []int) qlive.Server {
	srv := qlive.Server{GameType: qlive.GameTypeCA}
	for _, r := range red {
		srv.Players = append(srv.Players, rated("r", qlive.TeamRed, elo.Ratings{CA: r}))
	}
	for _, b := range blue {
		srv.Players = append(srv.Players, rated("b", qlive.TeamBlue, elo.Ratings{CA: b}))
	}
	return srv
}

func TestNameSearch(t *testing.T) {
	srv := qlive.Server{Players: []qlive.Player{{Name: "Rapha"}, {Name: "cypher"}}}
	empty := qlive.Server{}

	tests := []struct {
		term string
		srv  qlive.Server
		want bool
	}{
		{"x", srv, true},
		{"x", empty, true},
		{"ra", srv, true},
		{"RAPH", srv, true},
		{"pHe", srv, true},
		{"zz", srv, false},
		{"ra", empty, false},
	}

	for _, tc := range tests {
		if got := (NameSearch{Term: tc.term}).Match(&tc.srv); got != tc.want {
			t.Errorf("NameSearch(%q) over %v players = %v; want %v", tc.term,
				len(tc.srv.Players), got, tc.want)
		}
	}
}

func TestBothTeamsMin(t *testing.T) {
	search := EloSearch{Kind: BothTeamsMin, Threshold: 1500}

	tests := []struct {
		name string
		srv  qlive.Server
		want bool
	}{
		{"both above", caServer([]int{1600, 1500}, []int{1500}), true},
		{"blue below", caServer([]int{1600}, []int{1400, 1500}), false},
		{"no blue players", caServer([]int{1600}, nil), false},
		{"unrated blue", caServer([]int{1600}, []int{0}), false},
	}

	for _, tc := range tests {
		if got := search.Match(&tc.srv); got != tc.want {
			t.Errorf("%v: got %v; want %v", tc.name, got, tc.want)
		}
	}

	// team-0 players do not count toward either side
	srv := caServer([]int{1600}, []int{1600})
	srv.Players = append(srv.Players, rated("n", qlive.TeamNone, elo.Ratings{CA: 100}))
	if !search.Match(&srv) {
		t.Errorf("team 0 player should not drag down a team average")
	}
}

func TestOneTeamAndMax(t *testing.T) {
	srv := caServer([]int{1800}, []int{1200})

	tests := []struct {
		search EloSearch
		want   bool
	}{
		{EloSearch{OneTeamMin, 1700}, true},
		{EloSearch{OneTeamMin, 1900}, false},
		{EloSearch{OneTeamMax, 1300}, true},
		{EloSearch{OneTeamMax, 1100}, false},
		{EloSearch{BothTeamsMax, 1800}, true},
		{EloSearch{BothTeamsMax, 1500}, false},
		{EloSearch{DuelMin, 0}, false},
	}

	for _, tc := range tests {
		if got := tc.search.Match(&srv); got != tc.want {
			t.Errorf("%v: got %v; want %v", tc.search, got, tc.want)
		}
	}

	// team searches never match non-team modes
	ffa := qlive.Server{GameType: qlive.GameTypeFFA, Players: []qlive.Player{
		rated("a", qlive.TeamRed, elo.Ratings{FFA: 2000}),
	}}
	if (EloSearch{OneTeamMin, 0}).Match(&ffa) {
		t.Errorf("team search matched an ffa server")
	}
}

func TestDuelSearch(t *testing.T) {
	srv := qlive.Server{GameType: qlive.GameTypeDuel, Players: []qlive.Player{
		rated("alice", qlive.TeamNone, elo.Ratings{Duel: 1200}),
		rated("bob", qlive.TeamNone, elo.Ratings{Duel: 1500}),
		rated("spec", qlive.TeamSpectator, elo.Ratings{Duel: 2500}),
		{Name: "unknown"},
	}}

	tests := []struct {
		search EloSearch
		want   bool
	}{
		{EloSearch{DuelMin, 1400}, true},
		{EloSearch{DuelMin, 1600}, false},
		{EloSearch{DuelMax, 1300}, true},
		{EloSearch{DuelMax, 1100}, false},
	}

	for _, tc := range tests {
		if got := tc.search.Match(&srv); got != tc.want {
			t.Errorf("%v: got %v; want %v", tc.search, got, tc.want)
		}
	}

	ca := caServer([]int{2000}, []int{2000})
	if (EloSearch{DuelMin, 0}).Match(&ca) {
		t.Errorf("duel search matched a ca server")
	}
}

func TestFilterLeavesInputIntact(t *testing.T) {
	servers := []qlive.Server{
		caServer([]int{1600}, []int{1600}),
		caServer([]int{1000}, []int{1000}),
	}

	got := Filter(servers, EloSearch{BothTeamsMin, 1500})
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if len(servers) != 2 {
		t.Errorf("input collection was modified")
	}
	if n := len(Filter(servers, nil)); n != 2 {
		t.Errorf("nil search should match everything, got %d", n)
	}
}

func TestSearchStateModes(t *testing.T) {
	var statuses []string
	ss := &SearchState{OnStatus: func(s string) { statuses = append(statuses, s) }}

	if _, ok := ss.Current().(Idle); !ok {
		t.Fatalf("zero SearchState should be idle, got %v", ss.Current())
	}

	ss.SetPlayerName("rapha")
	if err := ss.SetElo(BothTeamsMin, "1500"); err != nil {
		t.Fatalf("SetElo: %v", err)
	}
	es, ok := ss.Current().(EloSearch)
	if !ok || es.Threshold != 1500 || es.Kind != BothTeamsMin {
		t.Fatalf("elo search should replace the name search, got %v", ss.Current())
	}

	ss.SetPlayerName("cypher")
	if _, ok := ss.Current().(NameSearch); !ok {
		t.Fatalf("name search should replace the elo search, got %v", ss.Current())
	}

	if err := ss.SetElo(DuelMin, " "); err != nil {
		t.Fatalf("SetElo with empty value: %v", err)
	}
	if _, ok := ss.Current().(Idle); !ok {
		t.Errorf("empty elo value should clear the search, got %v", ss.Current())
	}

	if err := ss.SetElo(DuelMin, "abc"); err == nil {
		t.Errorf("expected an error for a non-numeric threshold")
	}
	if err := ss.SetElo(EloKind(99), "10"); err == nil {
		t.Errorf("expected an error for an unknown kind")
	}

	want := []string{`player "rapha"`, "both-teams-min 1500", `player "cypher"`, ""}
	if len(statuses) != len(want) {
		t.Fatalf("statuses = %q; want %q", statuses, want)
	}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("status[%d] = %q; want %q", i, statuses[i], want[i])
		}
	}
}

func TestParseEloKind(t *testing.T) {
	for i, name := range eloKindNames {
		k, err := ParseEloKind(name)
		if err != nil || k != EloKind(i) {
			t.Errorf("ParseEloKind(%q) = %v, %v", name, k, err)
		}
	}
	if k, err := ParseEloKind("One-Team-Max"); err != nil || k != OneTeamMax {
		t.Errorf("ParseEloKind should ignore case, got %v, %v", k, err)
	}
	if _, err := ParseEloKind("median"); err == nil {
		t.Errorf("expected an error for an unknown kind")
	}
}
