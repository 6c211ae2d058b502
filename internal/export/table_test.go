package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridiron-analytics/gridrank/internal/ledger"
)

func sampleLedger() *ledger.Ledger {
	l := ledger.New("teams", 1200)
	date := time.Date(2019, 9, 8, 0, 0, 0, 0, time.UTC)

	a := l.GetOrCreate("0312", "team_rush_offense")
	a.Append(1210, date, "0007", true)
	a.Append(1222, date.AddDate(0, 0, 7), "0009", true)

	b := l.GetOrCreate("0007", "team_rush_offense")
	b.Append(1190, date, "0312", false)

	l.GetOrCreate("0009", "team_pass_offense").Append(1205, date, "0312", true)
	return l
}

func TestSummariesSortedByRating(t *testing.T) {
	rows, err := Summaries(sampleLedger(), "team_rush_offense", SortSpec{Column: "rating", Descending: true})
	require.NoError(t, err)
	require.Len(t, rows, 2) // entities without the category are left out

	assert.Equal(t, "0312", rows[0].EntityID)
	assert.Equal(t, 1222, rows[0].Rating)
	assert.Equal(t, 2, rows[0].GamesPlayed)
	assert.Equal(t, 2, rows[0].Wins)
	assert.Equal(t, "0007", rows[1].EntityID)
	assert.Equal(t, 1, rows[1].Losses)
}

func TestSummariesDefaultOrderIsEntity(t *testing.T) {
	rows, err := Summaries(sampleLedger(), "team_rush_offense", SortSpec{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "0007", rows[0].EntityID)
	assert.Equal(t, "0312", rows[1].EntityID)
}

func TestValidColumn(t *testing.T) {
	for _, col := range []string{"", "entity", "rating", "games", "wins", "losses", "composite"} {
		assert.True(t, ValidColumn(col), col)
	}
	assert.False(t, ValidColumn("swagger"))
}

func TestSummariesUnknownColumn(t *testing.T) {
	_, err := Summaries(sampleLedger(), "team_rush_offense", SortSpec{Column: "swagger"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sort column")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, sampleLedger(), "team_rush_offense", SortSpec{Column: "rating", Descending: true})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Entity,Rating,Games,Wins,Losses,Composite", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0312,1222,2,2,0,"))
	assert.True(t, strings.HasPrefix(lines[2], "0007,1190,1,0,1,"))
}

func TestWritePositionGroupJSON(t *testing.T) {
	meta := map[string]PlayerMeta{
		"0312": {Name: "Chicago", Position: "TEAM", CrossRefID: "chi"},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePositionGroupJSON(&buf, sampleLedger(), meta))

	var entries []PositionGroupEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 3)

	// ordered by entity ID; metadata joined where present
	assert.Equal(t, "0007", entries[0].EntityID)
	assert.Nil(t, entries[0].Meta)

	chicago := entries[1]
	require.Equal(t, "0312", chicago.EntityID)
	require.NotNil(t, chicago.Meta)
	assert.Equal(t, "Chicago", chicago.Meta.Name)
	assert.Equal(t, 1222, chicago.Ratings["team_rush_offense"])
	assert.Equal(t, 2, chicago.Games)
}

func TestLoadPlayerMeta(t *testing.T) {
	input := `{"smith-01": {"name": "A. Smith", "team": "CHI", "position": "RB", "xref_id": "sm01"}}`
	meta, err := LoadPlayerMeta(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, meta, 1)
	assert.Equal(t, "RB", meta["smith-01"].Position)

	_, err = LoadPlayerMeta(strings.NewReader("not json"))
	assert.Error(t, err)
}
