package records

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Source produces the raw per-season CSV for one record kind.
type Source interface {
	Open(ctx context.Context, kind Kind, season int) (io.ReadCloser, error)
}

// FileSource reads season CSVs from a local data directory laid out as
// <dir>/<league>/<kind>_<season>.csv.
type FileSource struct {
	Dir    string
	League string
}

func (s FileSource) Open(_ context.Context, kind Kind, season int) (io.ReadCloser, error) {
	path := filepath.Join(s.Dir, s.League, fmt.Sprintf("%s_%d.csv", kind, season))
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open season file: %w", err)
	}
	return f, nil
}

// Loader performs the bulk read-ahead of one season's game records before the
// replay enters its date loop. Parsed seasons are cached when a cache is
// configured, so repeated replays skip the CSV parse.
type Loader struct {
	source Source
	cache  *Cache
	league string
	logger *logrus.Logger
}

// NewLoader builds a loader over a source. cache may be nil.
func NewLoader(source Source, cache *Cache, league string, logger *logrus.Logger) *Loader {
	return &Loader{source: source, cache: cache, league: league, logger: logger}
}

// LoadSeason returns every team and player row for a season.
func (l *Loader) LoadSeason(ctx context.Context, season int) (*Season, error) {
	if l.cache != nil {
		var cached Season
		if err := l.cache.GetSeason(ctx, l.league, season, &cached); err == nil {
			l.logger.WithFields(logrus.Fields{
				"league": l.league,
				"season": season,
			}).Debug("Season records served from cache")
			return &cached, nil
		}
	}

	teams, err := l.loadKind(ctx, KindTeam, season)
	if err != nil {
		return nil, err
	}
	players, err := l.loadKind(ctx, KindPlayer, season)
	if err != nil {
		return nil, err
	}

	loaded := &Season{Season: season, Players: players, Teams: teams}
	l.logger.WithFields(logrus.Fields{
		"league":      l.league,
		"season":      season,
		"team_rows":   len(teams),
		"player_rows": len(players),
	}).Info("Loaded season records")

	if l.cache != nil {
		if err := l.cache.SetSeason(ctx, l.league, season, loaded); err != nil {
			l.logger.WithError(err).Warn("Failed to cache season records")
		}
	}
	return loaded, nil
}

func (l *Loader) loadKind(ctx context.Context, kind Kind, season int) ([]GameRecord, error) {
	rc, err := l.source.Open(ctx, kind, season)
	if err != nil {
		return nil, fmt.Errorf("load %s %d: %w", kind, season, err)
	}
	defer rc.Close()
	return l.Parse(rc, kind, season)
}

// Fixed leading columns; everything after them is a raw statistic keyed by
// its header name.
var leadColumns = []string{"Date", "Entity", "Name", "Team", "Opponent", "Venue"}

// Parse reads one season CSV. Rows missing team association are dropped with
// a warning; non-numeric stat fields drop the row the same way. Both are
// data-quality problems, never fatal.
func (l *Loader) Parse(r io.Reader, kind Kind, season int) ([]GameRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", kind, err)
	}
	if len(header) < len(leadColumns) {
		return nil, fmt.Errorf("%s %d: header has %d columns, want at least %d", kind, season, len(header), len(leadColumns))
	}
	for i, want := range leadColumns {
		if header[i] != want {
			return nil, fmt.Errorf("%s %d: column %d is %q, want %q", kind, season, i, header[i], want)
		}
	}
	statNames := header[len(leadColumns):]

	var out []GameRecord
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			l.logger.WithError(err).WithField("line", line).Warn("Skipping malformed CSV row")
			continue
		}

		rec, perr := l.parseRow(row, statNames, kind, season)
		if perr != nil {
			l.logger.WithError(perr).WithFields(logrus.Fields{
				"line":   line,
				"season": season,
				"kind":   string(kind),
			}).Warn("Skipping unusable game record")
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (l *Loader) parseRow(row []string, statNames []string, kind Kind, season int) (*GameRecord, error) {
	if len(row) != len(leadColumns)+len(statNames) {
		return nil, fmt.Errorf("row has %d fields, want %d", len(row), len(leadColumns)+len(statNames))
	}

	date, err := time.ParseInLocation("20060102", row[0], time.UTC)
	if err != nil {
		return nil, fmt.Errorf("bad date %q: %w", row[0], err)
	}
	if row[1] == "" || row[3] == "" || row[4] == "" {
		return nil, fmt.Errorf("missing entity/team/opponent linkage")
	}

	stats := make(map[string]float64, len(statNames))
	for i, name := range statNames {
		raw := row[len(leadColumns)+i]
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("non-numeric %s %q: %w", name, raw, err)
		}
		stats[name] = v
	}

	return &GameRecord{
		Kind:     kind,
		EntityID: row[1],
		Name:     row[2],
		Team:     row[3],
		Opponent: row[4],
		Venue:    row[5],
		Date:     date,
		Season:   season,
		Stats:    stats,
	}, nil
}
