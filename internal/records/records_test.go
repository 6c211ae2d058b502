package records

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestGameCodePadding(t *testing.T) {
	date := time.Date(2019, 10, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "0007031220191005", GameCode("7", "312", date))
	assert.Equal(t, "1234000920191005", GameCode("1234", "9", date))
}

func TestCodeVenueOrientation(t *testing.T) {
	date := time.Date(2019, 10, 5, 0, 0, 0, 0, time.UTC)

	home := GameRecord{Team: "312", Opponent: "7", Venue: VenueHome, Date: date}
	away := GameRecord{Team: "7", Opponent: "312", Venue: VenueAway, Date: date}
	assert.Equal(t, home.Code(), away.Code(), "both sides of one game derive one key")
	assert.Equal(t, "0312000720191005", home.Code())

	// neutral site: lexicographic on the raw codes, same from either side
	na := GameRecord{Team: "312", Opponent: "7", Venue: VenueNeutral, Date: date}
	nb := GameRecord{Team: "7", Opponent: "312", Venue: VenueNeutral, Date: date}
	assert.Equal(t, na.Code(), nb.Code())
}

func TestDateKey(t *testing.T) {
	r := GameRecord{Date: time.Date(2020, 9, 6, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, 20200906, r.DateKey())
	assert.Equal(t, 20191201, DateKey(time.Date(2019, 12, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParseSkipsBadRows(t *testing.T) {
	input := strings.Join([]string{
		"Date,Entity,Name,Team,Opponent,Venue,RushAtt,RushYard",
		"20190908,smith-01,A. Smith,312,7,H,18,96",
		"20190908,jones-02,B. Jones,312,,H,4,21",        // missing opponent
		"20190908,davis-03,C. Davis,7,312,A,twelve,55",  // non-numeric stat
		"20190915,smith-01,A. Smith,312,9,A,20,",        // empty stat cell is fine
	}, "\n")

	loader := NewLoader(nil, nil, "pro", quietLogger())
	recs, err := loader.Parse(strings.NewReader(input), KindPlayer, 2019)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	first := recs[0]
	assert.Equal(t, "smith-01", first.EntityID)
	assert.Equal(t, KindPlayer, first.Kind)
	assert.Equal(t, 2019, first.Season)
	assert.Equal(t, 96.0, first.Stats["RushYard"])
	assert.Equal(t, time.Date(2019, 9, 8, 0, 0, 0, 0, time.UTC), first.Date)

	second := recs[1]
	assert.Equal(t, 20.0, second.Stats["RushAtt"])
	_, present := second.Stats["RushYard"]
	assert.False(t, present, "empty cells are omitted, not zeroed")
}

func TestParseRejectsBadHeader(t *testing.T) {
	loader := NewLoader(nil, nil, "pro", quietLogger())

	_, err := loader.Parse(strings.NewReader("Date,Entity,Name\n"), KindTeam, 2019)
	assert.Error(t, err)

	_, err = loader.Parse(strings.NewReader("Date,Player,Name,Team,Opponent,Venue\n"), KindTeam, 2019)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Entity"`)
}

type stubSource struct {
	payloads map[Kind]string
}

func (s stubSource) Open(_ context.Context, kind Kind, _ int) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.payloads[kind])), nil
}

func TestLoadSeason(t *testing.T) {
	src := stubSource{payloads: map[Kind]string{
		KindTeam: "Date,Entity,Name,Team,Opponent,Venue,RushYard\n" +
			"20190908,312,Bears,312,7,H,150\n" +
			"20190908,7,Lions,7,312,A,92\n",
		KindPlayer: "Date,Entity,Name,Team,Opponent,Venue,RushAtt,RushYard\n" +
			"20190908,smith-01,A. Smith,312,7,H,18,96\n",
	}}

	loader := NewLoader(src, nil, "pro", quietLogger())
	season, err := loader.LoadSeason(context.Background(), 2019)
	require.NoError(t, err)
	assert.Equal(t, 2019, season.Season)
	assert.Len(t, season.Teams, 2)
	assert.Len(t, season.Players, 1)
	assert.Equal(t, season.Teams[0].Code(), season.Teams[1].Code())
}
