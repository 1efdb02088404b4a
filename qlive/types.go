/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package qlive

import (
	"time"

	"github.com/mikeb26/uqlt/elo"
)

type GameType int

const (
	GameTypeFFA GameType = iota
	GameTypeDuel
	GameTypeRace
	GameTypeTDM
	GameTypeCA
	GameTypeCTF
	GameTypeOneFlag
	GameTypeOverload
	GameTypeHarvester
	GameTypeFreezeTag
	GameTypeDomination
	GameTypeAttackDefend
	GameTypeRedRover
)

var gameTypeNames = map[GameType]string{
	GameTypeFFA:          "ffa",
	GameTypeDuel:         "duel",
	GameTypeRace:         "race",
	GameTypeTDM:          "tdm",
	GameTypeCA:           "ca",
	GameTypeCTF:          "ctf",
	GameTypeOneFlag:      "1fctf",
	GameTypeOverload:     "ob",
	GameTypeHarvester:    "har",
	GameTypeFreezeTag:    "ft",
	GameTypeDomination:   "dom",
	GameTypeAttackDefend: "ad",
	GameTypeRedRover:     "rr",
}

func (g GameType) String() string {
	if s, ok := gameTypeNames[g]; ok {
		return s
	}
	return "?"
}

// Rating picks the rating QLRanks keeps for this game type.
func (g GameType) Rating(r elo.Ratings) (int, bool) {
	switch g {
	case GameTypeDuel:
		return r.Duel, true
	case GameTypeTDM:
		return r.TDM, true
	case GameTypeCA:
		return r.CA, true
	case GameTypeFFA:
		return r.FFA, true
	case GameTypeCTF:
		return r.CTF, true
	default:
		return 0, false
	}
}

// IsRatedTeamGame reports whether team averages are meaningful.
func (g GameType) IsRatedTeamGame() bool {
	return g == GameTypeTDM || g == GameTypeCA || g == GameTypeCTF
}

type Team int

const (
	TeamNone Team = iota
	TeamRed
	TeamBlue
	TeamSpectator
)

// Player is one client on a server. Ratings are projected from the rating
// cache during a refresh; Rated is false until the player's ratings have
// been fetched.
type Player struct {
	Name    string
	Clan    string
	Team    Team
	Score   int
	Bot     bool
	Ratings elo.Ratings
	Rated   bool
}

// Server is one game server as listed by the browser API. Ping and PingErr
// are filled in by a refresh.
type Server struct {
	PublicID    int
	HostAddress string
	HostName    string
	GameType    GameType
	Map         string
	NumPlayers  int
	MaxClients  int
	GameState   string
	Round       int
	RedScore    int
	BlueScore   int
	LocationID  int
	Players     []Player

	Ping    time.Duration
	PingErr error
}

// Rating returns p's rating for this server's game type when it is known
// and non-zero.
func (s *Server) Rating(p *Player) (int, bool) {
	if !p.Rated {
		return 0, false
	}
	r, ok := s.GameType.Rating(p.Ratings)
	if !ok || r <= 0 {
		return 0, false
	}
	return r, true
}

// TeamAverage averages the known ratings of the players on team. Players
// reporting team 0 on team servers are not counted. n is the number of
// players averaged; avg is meaningless when n is 0.
func (s *Server) TeamAverage(team Team) (avg int, n int) {
	if !s.GameType.IsRatedTeamGame() {
		return 0, 0
	}
	sum := 0
	for i := range s.Players {
		p := &s.Players[i]
		if p.Team != team {
			continue
		}
		r, ok := s.Rating(p)
		if !ok {
			continue
		}
		sum += r
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return sum / n, n
}

// Average averages the known ratings of every non-spectator.
func (s *Server) Average() (avg int, n int) {
	sum := 0
	for i := range s.Players {
		p := &s.Players[i]
		if p.Team == TeamSpectator {
			continue
		}
		r, ok := s.Rating(p)
		if !ok {
			continue
		}
		sum += r
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return sum / n, n
}
