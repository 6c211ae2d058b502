package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestTrackInvariants(t *testing.T) {
	l := New("rushers", 1200)
	track := l.GetOrCreate("smith-01", "rush_yards")

	require.Equal(t, []int{1200}, track.Ratings)
	require.Equal(t, 1200, track.Last)
	require.Zero(t, track.GamesPlayed)

	track.Append(1210, day(2019, 9, 8), "0312", true)
	track.Append(1198, day(2019, 9, 15), "0007", false)

	assert.Len(t, track.Ratings, track.GamesPlayed+1)
	assert.Len(t, track.Dates, len(track.Ratings))
	assert.Len(t, track.Opponents, len(track.Ratings))
	assert.Equal(t, track.Ratings[len(track.Ratings)-1], track.Last)
	assert.Equal(t, 1, track.Wins)
	assert.Equal(t, 1, track.Losses)

	// first append backfills the anchor date to the eve of the first game
	assert.Equal(t, day(2019, 9, 7), track.Dates[0])
}

func TestGetOrCreateIsStable(t *testing.T) {
	l := New("receivers", 1200)
	a := l.GetOrCreate("moss-84", "receptions")
	a.Append(1225, day(2019, 9, 8), "0100", true)
	b := l.GetOrCreate("moss-84", "receptions")
	assert.Same(t, a, b)
	assert.Equal(t, 1225, b.Last)
}

func TestEliteSeed(t *testing.T) {
	l := New("passers", 1200, WithElite([]string{"brady-12"}, 1300))
	assert.Equal(t, 1300, l.GetOrCreate("brady-12", "pass_yards").Last)
	assert.Equal(t, 1200, l.GetOrCreate("journeyman-08", "pass_yards").Last)
}

func TestLookupMissFails(t *testing.T) {
	l := New("teams", 1200)
	l.GetOrCreate("0312", "team_rush_offense")

	_, err := l.Lookup("0312", "team_rush_offense")
	assert.NoError(t, err)

	_, err = l.Lookup("0007", "team_rush_offense")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before initialization")
}

// The mean must be computed over everyone before anyone is mutated, otherwise
// the last entity regresses toward an already-shifted mean.
func TestRegressToMeanTwoPass(t *testing.T) {
	l := New("teams", 1200)
	for id, rating := range map[string]int{"a": 1000, "b": 1200, "c": 1400} {
		track := l.GetOrCreate(id, "team_rush_offense")
		track.Append(rating, day(2019, 12, 1), "x", rating > 1200)
	}

	l.RegressToMean("team_rush_offense", 0.75, false, day(2020, 9, 1))

	// mean is 1200 regardless of iteration order
	assert.Equal(t, 1050, l.Tracks("a")["team_rush_offense"].Last)
	assert.Equal(t, 1200, l.Tracks("b")["team_rush_offense"].Last)
	assert.Equal(t, 1350, l.Tracks("c")["team_rush_offense"].Last)
}

func TestRegressToMeanBlend(t *testing.T) {
	l := New("teams", 1200)
	hi := l.GetOrCreate("hi", "team_pass_offense")
	hi.Append(1400, day(2019, 12, 1), "lo", true)
	lo := l.GetOrCreate("lo", "team_pass_offense")
	lo.Append(900, day(2019, 12, 1), "hi", false)

	l.RegressToMean("team_pass_offense", 0.75, false, day(2020, 9, 1))

	// mean 1150: 0.75*1400 + 0.25*1150 = 1337.5, rounded half away from zero
	assert.Equal(t, 1338, hi.Last)
	assert.Equal(t, 1088, lo.Last) // 0.75*900 + 0.25*1150 = 1037.5 -> 1038
}

func TestRegressSkipsUnplayedTracks(t *testing.T) {
	l := New("rushers", 1200)
	played := l.GetOrCreate("vet", "rush_yards")
	played.Append(1300, day(2019, 12, 1), "x", true)
	fresh := l.GetOrCreate("rookie", "rush_yards") // seeded, never played

	l.RegressToMean("rush_yards", 0.75, false, day(2020, 9, 1))

	// rookie neither contributes to the mean nor gets regressed; the vet is
	// the whole mean, so blending toward it is a no-op
	assert.Equal(t, 1200, fresh.Last)
	assert.Equal(t, 1300, played.Last)
}

func TestRegressAppendMode(t *testing.T) {
	l := New("rushers", 1200)
	a := l.GetOrCreate("a", "rush_yards")
	a.Append(1400, day(2019, 12, 1), "x", true)
	b := l.GetOrCreate("b", "rush_yards")
	b.Append(900, day(2019, 12, 1), "y", false)

	boundary := day(2020, 9, 6)
	l.RegressToMean("rush_yards", 0.75, true, boundary)

	require.Len(t, a.Ratings, 3)
	assert.Equal(t, 1400, a.Ratings[1])
	assert.Equal(t, 1338, a.Ratings[2])
	assert.Equal(t, boundary, a.Dates[2])
	assert.Len(t, a.Ratings, a.GamesPlayed+1)
	assert.Equal(t, 1, a.Wins+a.Losses) // no synthetic win or loss recorded
}

func TestComposite(t *testing.T) {
	l := New("rushers", 1200)
	l.GetOrCreate("a", "rush_yards").Append(1300, day(2019, 9, 8), "x", true)
	l.GetOrCreate("a", "rush_touchdowns").Append(1100, day(2019, 9, 8), "x", false)

	avg, ok := l.Composite("a", nil)
	require.True(t, ok)
	assert.InDelta(t, 1200, avg, 1e-9)

	weighted, ok := l.Composite("a", map[string]float64{"rush_yards": 3, "rush_touchdowns": 1})
	require.True(t, ok)
	assert.InDelta(t, 1250, weighted, 1e-9)

	_, ok = l.Composite("nobody", nil)
	assert.False(t, ok)
}
