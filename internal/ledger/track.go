package ledger

import (
	"time"
)

// Track is one entity's append-only rating time series for a single category.
// The four parallel slices stay aligned: Ratings, Dates, and Opponents are
// always the same length, one longer than GamesPlayed, and Last always equals
// the final element of Ratings.
type Track struct {
	Ratings   []int       `json:"ratings"`
	Dates     []time.Time `json:"dates"`
	Opponents []string    `json:"opponents"`

	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	Last        int `json:"last"`
	GamesPlayed int `json:"games_played"`
}

func newTrack(seed int) *Track {
	return &Track{
		Ratings:   []int{seed},
		Dates:     []time.Time{{}}, // placeholder until the first game backfills it
		Opponents: []string{""},
		Last:      seed,
	}
}

// Append records a new rating after a game. The first append backfills the
// synthetic pre-season anchor date to the day before the first game.
func (t *Track) Append(rating int, date time.Time, opponent string, won bool) {
	if t.GamesPlayed == 0 {
		t.Dates[0] = date.AddDate(0, 0, -1)
	}
	t.Ratings = append(t.Ratings, rating)
	t.Dates = append(t.Dates, date)
	t.Opponents = append(t.Opponents, opponent)
	t.Last = rating
	t.GamesPlayed++
	if won {
		t.Wins++
	} else {
		t.Losses++
	}
}

// appendRegressed adds a season-boundary regression point. It keeps the
// parallel-slice invariant (so GamesPlayed advances) but records no win or
// loss, since no game was played.
func (t *Track) appendRegressed(rating int, date time.Time) {
	t.Ratings = append(t.Ratings, rating)
	t.Dates = append(t.Dates, date)
	t.Opponents = append(t.Opponents, "")
	t.Last = rating
	t.GamesPlayed++
}

// setCurrent overwrites the most recent rating in place. Used by
// season-boundary regression when the league is configured to mutate rather
// than append.
func (t *Track) setCurrent(rating int) {
	t.Ratings[len(t.Ratings)-1] = rating
	t.Last = rating
}
