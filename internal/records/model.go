package records

import (
	"fmt"
	"strings"
	"time"
)

// Kind distinguishes player-level rows from team-level rows.
type Kind string

const (
	KindPlayer Kind = "players"
	KindTeam   Kind = "teams"
)

// Venue indicators as they appear in the tabular inputs.
const (
	VenueHome    = "H"
	VenueAway    = "A"
	VenueNeutral = "N"
)

// GameRecord is one immutable row per (entity, game): who played whom, when,
// where, and the full set of raw per-category statistics for that game.
type GameRecord struct {
	Kind     Kind               `json:"kind"`
	EntityID string             `json:"entity_id"`
	Name     string             `json:"name"`
	Team     string             `json:"team"`
	Opponent string             `json:"opponent"`
	Venue    string             `json:"venue"`
	Date     time.Time          `json:"date"`
	Season   int                `json:"season"`
	Stats    map[string]float64 `json:"stats"`
}

// GameCode is the canonical join key across team- and player-level files,
// derived deterministically from the home code, away code, and date with
// zero-padded fixed-width team codes. Neutral-site games order the codes
// lexicographically so both sides derive the same key.
func GameCode(home, away string, date time.Time) string {
	return padCode(home) + padCode(away) + date.Format("20060102")
}

// Code returns the record's game code based on its venue indicator.
func (r GameRecord) Code() string {
	switch r.Venue {
	case VenueHome:
		return GameCode(r.Team, r.Opponent, r.Date)
	case VenueAway:
		return GameCode(r.Opponent, r.Team, r.Date)
	default:
		if r.Team < r.Opponent {
			return GameCode(r.Team, r.Opponent, r.Date)
		}
		return GameCode(r.Opponent, r.Team, r.Date)
	}
}

// DateKey encodes the game date as a YYYYMMDD integer. Season-boundary
// detection works in this space.
func (r GameRecord) DateKey() int {
	return DateKey(r.Date)
}

// DateKey converts a date to its YYYYMMDD integer encoding.
func DateKey(date time.Time) int {
	return date.Year()*10000 + int(date.Month())*100 + date.Day()
}

func padCode(code string) string {
	if len(code) >= 4 {
		return code
	}
	return strings.Repeat("0", 4-len(code)) + code
}

// Season bundles the bulk read-ahead for one season: every team row and every
// player row, unsorted. The replay driver orders them.
type Season struct {
	Season  int          `json:"season"`
	Players []GameRecord `json:"players"`
	Teams   []GameRecord `json:"teams"`
}

func (s Season) String() string {
	return fmt.Sprintf("season %d: %d team rows, %d player rows", s.Season, len(s.Teams), len(s.Players))
}
