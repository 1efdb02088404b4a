/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package browser

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/mikeb26/uqlt/elo"
	"github.com/mikeb26/uqlt/qlive"
)

// MinNameTermLen is the shortest player name fragment that filters anything.
const MinNameTermLen = 2

// Search is one of Idle, NameSearch or EloSearch.
type Search interface {
	Match(s *qlive.Server) bool
	fmt.Stringer
	isSearch()
}

type Idle struct{}

func (Idle) Match(*qlive.Server) bool { return true }
func (Idle) String() string            { return "idle" }
func (Idle) isSearch()                 {}

// NameSearch matches servers with a player whose name contains Term,
// ignoring case.
type NameSearch struct {
	Term string
}

func (n NameSearch) Match(s *qlive.Server) bool {
	if utf8.RuneCountInString(n.Term) < MinNameTermLen {
		return true
	}
	term := elo.Key(n.Term)
	for i := range s.Players {
		if strings.Contains(elo.Key(s.Players[i].Name), term) {
			return true
		}
	}
	return false
}

func (n NameSearch) String() string { return fmt.Sprintf("player %q", n.Term) }
func (NameSearch) isSearch()        {}

type EloKind int

const (
	DuelMin EloKind = iota
	DuelMax
	OneTeamMin
	OneTeamMax
	BothTeamsMin
	BothTeamsMax
)

var eloKindNames = []string{
	DuelMin:      "duel-min",
	DuelMax:      "duel-max",
	OneTeamMin:   "one-team-min",
	OneTeamMax:   "one-team-max",
	BothTeamsMin: "both-teams-min",
	BothTeamsMax: "both-teams-max",
}

func (k EloKind) String() string {
	if k < 0 || int(k) >= len(eloKindNames) {
		return "?"
	}
	return eloKindNames[k]
}

func (k EloKind) isMin() bool {
	return k == DuelMin || k == OneTeamMin || k == BothTeamsMin
}

// ParseEloKind maps a kind name such as "both-teams-min" to its EloKind.
func ParseEloKind(s string) (EloKind, error) {
	for i, name := range eloKindNames {
		if strings.EqualFold(s, name) {
			return EloKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown elo search kind %q (want one of %v)", s,
		strings.Join(eloKindNames, ", "))
}

// EloSearch matches servers whose ratings clear Threshold. Min kinds test
// rating >= Threshold, max kinds rating <= Threshold.
type EloSearch struct {
	Kind      EloKind
	Threshold int
}

func (e EloSearch) satisfies(rating int) bool {
	if e.Kind.isMin() {
		return rating >= e.Threshold
	}
	return rating <= e.Threshold
}

func (e EloSearch) Match(s *qlive.Server) bool {
	switch e.Kind {
	case DuelMin, DuelMax:
		if s.GameType != qlive.GameTypeDuel {
			return false
		}
		for i := range s.Players {
			p := &s.Players[i]
			if p.Team == qlive.TeamSpectator {
				continue
			}
			if r, ok := s.Rating(p); ok && e.satisfies(r) {
				return true
			}
		}
		return false
	case OneTeamMin, OneTeamMax, BothTeamsMin, BothTeamsMax:
		if !s.GameType.IsRatedTeamGame() {
			return false
		}
		red, nRed := s.TeamAverage(qlive.TeamRed)
		blue, nBlue := s.TeamAverage(qlive.TeamBlue)
		redOK := nRed > 0 && e.satisfies(red)
		blueOK := nBlue > 0 && e.satisfies(blue)
		if e.Kind == OneTeamMin || e.Kind == OneTeamMax {
			return redOK || blueOK
		}
		return redOK && blueOK
	default:
		return false
	}
}

func (e EloSearch) String() string {
	return fmt.Sprintf("%v %d", e.Kind, e.Threshold)
}
func (EloSearch) isSearch() {}

// Filter returns the servers matching search, leaving servers untouched.
func Filter(servers []qlive.Server, search Search) []qlive.Server {
	if search == nil {
		search = Idle{}
	}
	out := make([]qlive.Server, 0, len(servers))
	for i := range servers {
		if search.Match(&servers[i]) {
			out = append(out, servers[i])
		}
	}
	return out
}

// SearchState holds the active search. Setting either mode replaces the
// other; clearing it returns to Idle and reports an empty status.
type SearchState struct {
	mu     sync.RWMutex
	search Search

	// OnStatus receives a description of the active search, or "" when the
	// search is cleared.
	OnStatus func(status string)
}

func (ss *SearchState) Current() Search {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	if ss.search == nil {
		return Idle{}
	}
	return ss.search
}

func (ss *SearchState) SetPlayerName(term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		ss.Clear()
		return
	}
	ss.set(NameSearch{Term: term})
}

// SetElo activates an Elo search from user input. An empty value clears the
// search.
func (ss *SearchState) SetElo(kind EloKind, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		ss.Clear()
		return nil
	}
	threshold, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid elo threshold %q: %w", value, err)
	}
	if kind < DuelMin || kind > BothTeamsMax {
		return fmt.Errorf("invalid elo search kind %d", kind)
	}
	ss.set(EloSearch{Kind: kind, Threshold: threshold})
	return nil
}

func (ss *SearchState) Clear() {
	ss.mu.Lock()
	ss.search = Idle{}
	ss.mu.Unlock()

	if ss.OnStatus != nil {
		ss.OnStatus("")
	}
}

func (ss *SearchState) set(s Search) {
	ss.mu.Lock()
	ss.search = s
	ss.mu.Unlock()

	if ss.OnStatus != nil {
		ss.OnStatus(s.String())
	}
}

// Apply filters servers with the active search.
func (ss *SearchState) Apply(servers []qlive.Server) []qlive.Server {
	return Filter(servers, ss.Current())
}
