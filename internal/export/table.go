package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/gridiron-analytics/gridrank/internal/ledger"
)

// SortSpec orders an exported table by a caller-supplied column.
type SortSpec struct {
	Column     string
	Descending bool
}

// SummaryRow is one exported line per entity for one category.
type SummaryRow struct {
	EntityID    string  `json:"entity_id"`
	Rating      int     `json:"rating"`
	GamesPlayed int     `json:"games_played"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Composite   float64 `json:"composite"`
}

// Summaries collects every entity's summary for one category of a ledger,
// ordered by the sort spec.
func Summaries(l *ledger.Ledger, categoryKey string, spec SortSpec) ([]SummaryRow, error) {
	var rows []SummaryRow
	for _, entityID := range l.Entities() {
		track, ok := l.Tracks(entityID)[categoryKey]
		if !ok {
			continue
		}
		composite, _ := l.Composite(entityID, nil)
		rows = append(rows, SummaryRow{
			EntityID:    entityID,
			Rating:      track.Last,
			GamesPlayed: track.GamesPlayed,
			Wins:        track.Wins,
			Losses:      track.Losses,
			Composite:   composite,
		})
	}

	less, err := comparator(spec.Column)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if spec.Descending {
			i, j = j, i
		}
		return less(rows[i], rows[j])
	})
	return rows, nil
}

// ValidColumn reports whether a sort column name is recognized, for
// fatal-at-startup configuration checks.
func ValidColumn(column string) bool {
	_, err := comparator(column)
	return err == nil
}

func comparator(column string) (func(a, b SummaryRow) bool, error) {
	switch column {
	case "", "entity":
		return func(a, b SummaryRow) bool { return a.EntityID < b.EntityID }, nil
	case "rating":
		return func(a, b SummaryRow) bool { return a.Rating < b.Rating }, nil
	case "games":
		return func(a, b SummaryRow) bool { return a.GamesPlayed < b.GamesPlayed }, nil
	case "wins":
		return func(a, b SummaryRow) bool { return a.Wins < b.Wins }, nil
	case "losses":
		return func(a, b SummaryRow) bool { return a.Losses < b.Losses }, nil
	case "composite":
		return func(a, b SummaryRow) bool { return a.Composite < b.Composite }, nil
	}
	return nil, fmt.Errorf("unknown sort column %q", column)
}

// WriteCSV writes one category's summary table.
func WriteCSV(w io.Writer, l *ledger.Ledger, categoryKey string, spec SortSpec) error {
	rows, err := Summaries(l, categoryKey, spec)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Entity", "Rating", "Games", "Wins", "Losses", "Composite"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.EntityID,
			strconv.Itoa(row.Rating),
			strconv.Itoa(row.GamesPlayed),
			strconv.Itoa(row.Wins),
			strconv.Itoa(row.Losses),
			strconv.FormatFloat(row.Composite, 'f', 1, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
