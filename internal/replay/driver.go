package replay

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gridiron-analytics/gridrank/internal/category"
	"github.com/gridiron-analytics/gridrank/internal/elo"
	"github.com/gridiron-analytics/gridrank/internal/fantasy"
	"github.com/gridiron-analytics/gridrank/internal/ledger"
	"github.com/gridiron-analytics/gridrank/internal/records"
)

// Options tunes one replay run. Values come from league configuration.
type Options struct {
	League             string
	InitialRating      int
	EliteInitialRating int
	ElitePlayers       []string
	PlayerK            float64
	TeamK              float64
	ScaleMargin        bool
	RegressionBlend    float64
	// RegressionAppends selects whether season-boundary regression appends a
	// new time-series point or overwrites the current one. College replays
	// historically overwrite; fantasy replays append.
	RegressionAppends bool
	// SeasonGap is the YYYYMMDD-space jump between consecutive game dates
	// that signals a new season began.
	SeasonGap int
}

// SeasonLoader is the bulk read-ahead performed before each season's date
// loop. No I/O happens inside the loop itself.
type SeasonLoader interface {
	LoadSeason(ctx context.Context, season int) (*records.Season, error)
}

// Driver walks a league's game history in strict chronological order,
// updating every rating track after every game. Each date runs in phases:
// season-boundary check, track initialization, player evaluation, team
// evaluation, advance. Player results are judged against opponent team
// ratings as they stood before the date; team tracks mutate only in the team
// phase.
type Driver struct {
	opts   Options
	loader SeasonLoader
	logger *logrus.Entry

	cats  []category.Definition
	pairs []category.Pair

	players map[category.Group]*ledger.Ledger
	teams   *ledger.Ledger

	projector *fantasy.Projector
	errors    *fantasy.ErrorTracker

	prevDateKey int
}

// New builds a driver for a league. The category table is validated up front;
// an incomplete table aborts before any replay begins.
func New(loader SeasonLoader, opts Options, logger *logrus.Entry) (*Driver, error) {
	if err := category.Validate(opts.League); err != nil {
		return nil, fmt.Errorf("category table: %w", err)
	}
	if opts.RegressionBlend <= 0 || opts.RegressionBlend > 1 {
		return nil, fmt.Errorf("regression blend %v outside (0, 1]", opts.RegressionBlend)
	}
	if opts.PlayerK <= 0 || opts.TeamK <= 0 {
		return nil, fmt.Errorf("k-factors must be positive (player %v, team %v)", opts.PlayerK, opts.TeamK)
	}
	if opts.SeasonGap <= 0 {
		return nil, fmt.Errorf("season gap must be positive, got %d", opts.SeasonGap)
	}

	cats, err := category.Catalog(opts.League)
	if err != nil {
		return nil, err
	}
	pairs, err := category.TeamPairs(opts.League)
	if err != nil {
		return nil, err
	}

	elite := ledger.WithElite(opts.ElitePlayers, opts.EliteInitialRating)
	players := map[category.Group]*ledger.Ledger{
		category.GroupRushing:   ledger.New(string(category.GroupRushing), opts.InitialRating, elite),
		category.GroupReceiving: ledger.New(string(category.GroupReceiving), opts.InitialRating, elite),
		category.GroupPassing:   ledger.New(string(category.GroupPassing), opts.InitialRating, elite),
		category.GroupDefense:   ledger.New(string(category.GroupDefense), opts.InitialRating, elite),
	}

	return &Driver{
		opts:      opts,
		loader:    loader,
		logger:    logger,
		cats:      cats,
		pairs:     pairs,
		players:   players,
		teams:     ledger.New(string(category.GroupTeam), opts.InitialRating),
		projector: fantasy.NewProjector(cats),
		errors:    fantasy.NewErrorTracker(),
	}, nil
}

// RunBaseline replays seasons with player tracking disabled, purely to seed
// team offense/defense ratings and avoid a cold start when player tracking
// begins.
func (d *Driver) RunBaseline(ctx context.Context, seasons []int) error {
	return d.run(ctx, seasons, false)
}

// Run replays seasons with full player and team tracking.
func (d *Driver) Run(ctx context.Context, seasons []int) error {
	return d.run(ctx, seasons, true)
}

func (d *Driver) run(ctx context.Context, seasons []int, trackPlayers bool) error {
	for _, season := range seasons {
		loaded, err := d.loader.LoadSeason(ctx, season)
		if err != nil {
			return fmt.Errorf("season %d: %w", season, err)
		}
		if err := d.replaySeason(loaded, trackPlayers); err != nil {
			return fmt.Errorf("season %d: %w", season, err)
		}
	}
	return nil
}

// dateBatch is every record for one calendar date.
type dateBatch struct {
	date    time.Time
	players []records.GameRecord
	teams   []records.GameRecord
}

func (d *Driver) replaySeason(season *records.Season, trackPlayers bool) error {
	batches := groupByDate(season)

	for _, batch := range batches {
		dateKey := records.DateKey(batch.date)

		// Phase 1: season-boundary check.
		if d.prevDateKey != 0 && dateKey-d.prevDateKey > d.opts.SeasonGap {
			d.regressAll(batch.date)
		}

		// Phase 2: track initialization. Every participant on this date gets
		// a track in every category it will need, before any lookup resolves.
		d.initTracks(batch, trackPlayers)

		// Phase 3: player evaluation against pre-date team ratings.
		if trackPlayers {
			for i := range batch.players {
				if err := d.evaluatePlayer(&batch.players[i]); err != nil {
					d.dumpState(batch.date)
					return err
				}
			}
		}

		// Phase 4: team evaluation, strictly after all player evaluation.
		if err := d.evaluateTeams(batch); err != nil {
			d.dumpState(batch.date)
			return err
		}

		// Phase 5: advance.
		d.prevDateKey = dateKey
	}
	return nil
}

func groupByDate(season *records.Season) []dateBatch {
	byKey := make(map[int]*dateBatch)
	add := func(rec records.GameRecord, team bool) {
		key := rec.DateKey()
		batch, ok := byKey[key]
		if !ok {
			batch = &dateBatch{date: rec.Date}
			byKey[key] = batch
		}
		if team {
			batch.teams = append(batch.teams, rec)
		} else {
			batch.players = append(batch.players, rec)
		}
	}
	for _, rec := range season.Teams {
		add(rec, true)
	}
	for _, rec := range season.Players {
		add(rec, false)
	}

	keys := make([]int, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Ints(keys)

	out := make([]dateBatch, 0, len(keys))
	for _, key := range keys {
		out = append(out, *byKey[key])
	}
	return out
}

func (d *Driver) regressAll(boundary time.Time) {
	d.logger.WithField("date", boundary.Format("2006-01-02")).Info("Season boundary: regressing ratings toward the mean")

	for _, pair := range d.pairs {
		d.teams.RegressToMean(pair.Offense.Key, d.opts.RegressionBlend, d.opts.RegressionAppends, boundary)
		d.teams.RegressToMean(pair.Defense.Key, d.opts.RegressionBlend, d.opts.RegressionAppends, boundary)
	}
	for _, cat := range d.cats {
		d.players[cat.Group].RegressToMean(cat.Key, d.opts.RegressionBlend, d.opts.RegressionAppends, boundary)
	}
}

func (d *Driver) initTracks(batch dateBatch, trackPlayers bool) {
	for _, rec := range batch.teams {
		for _, pair := range d.pairs {
			d.teams.GetOrCreate(rec.Team, pair.Offense.Key)
			d.teams.GetOrCreate(rec.Team, pair.Defense.Key)
			d.teams.GetOrCreate(rec.Opponent, pair.Offense.Key)
			d.teams.GetOrCreate(rec.Opponent, pair.Defense.Key)
		}
	}
	if !trackPlayers {
		return
	}
	for _, rec := range batch.players {
		// Opposing team tracks must exist even when the opponent has no team
		// row on this date (dropped row upstream).
		for _, pair := range d.pairs {
			d.teams.GetOrCreate(rec.Opponent, pair.Offense.Key)
			d.teams.GetOrCreate(rec.Opponent, pair.Defense.Key)
		}
		for _, cat := range d.cats {
			if cat.Qualify(rec.Stats) {
				d.players[cat.Group].GetOrCreate(rec.EntityID, cat.Key)
			}
		}
	}
}

func (d *Driver) evaluatePlayer(rec *records.GameRecord) error {
	for _, cat := range d.cats {
		if !cat.Qualify(rec.Stats) {
			continue
		}

		oppTrack, err := d.teams.Lookup(rec.Opponent, cat.OppTrack)
		if err != nil {
			return fmt.Errorf("player %s %s: %w", rec.EntityID, cat.Key, err)
		}
		track := d.players[cat.Group].GetOrCreate(rec.EntityID, cat.Key)

		v := cat.Stat(rec.Stats)
		won, pointDiff := cat.Evaluate(v)

		// Record the pre-game prediction error before the rating moves.
		predicted := fantasy.Predict(cat, track.Last-oppTrack.Last)
		d.errors.Observe(cat.Key, predicted, v)

		next := elo.Update(track.Last, oppTrack.Last, pointDiff, won, d.opts.ScaleMargin, d.opts.PlayerK)
		track.Append(next, rec.Date, rec.Opponent, won)
	}
	return nil
}

func (d *Driver) evaluateTeams(batch dateBatch) error {
	byCode := make(map[string][]records.GameRecord)
	for _, rec := range batch.teams {
		byCode[rec.Code()] = append(byCode[rec.Code()], rec)
	}

	codes := make([]string, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		game := byCode[code]
		if len(game) != 2 {
			d.logger.WithFields(logrus.Fields{
				"game_code": code,
				"rows":      len(game),
			}).Warn("Skipping game without both team rows")
			continue
		}
		for _, pair := range d.pairs {
			if err := d.updatePair(pair, &game[0], &game[1]); err != nil {
				return err
			}
			if err := d.updatePair(pair, &game[1], &game[0]); err != nil {
				return err
			}
		}
	}
	return nil
}

// updatePair scores off's offensive stat against def's defensive track and
// applies the symmetric dual update, so the exchange is exactly zero-sum.
func (d *Driver) updatePair(pair category.Pair, off, def *records.GameRecord) error {
	offTrack, err := d.teams.Lookup(off.Team, pair.Offense.Key)
	if err != nil {
		return fmt.Errorf("team %s %s: %w", off.Team, pair.Offense.Key, err)
	}
	defTrack, err := d.teams.Lookup(def.Team, pair.Defense.Key)
	if err != nil {
		return fmt.Errorf("team %s %s: %w", def.Team, pair.Defense.Key, err)
	}

	v := pair.Offense.Stat(off.Stats)
	won, pointDiff := pair.Offense.Evaluate(v)

	newOff, newDef := elo.UpdateBoth(offTrack.Last, defTrack.Last, pointDiff, won, d.opts.ScaleMargin, d.opts.TeamK)
	offTrack.Append(newOff, off.Date, def.Team, won)
	defTrack.Append(newDef, off.Date, off.Team, !won)
	return nil
}

// dumpState logs a ledger summary before an abort on an ordering-precondition
// violation.
func (d *Driver) dumpState(date time.Time) {
	fields := logrus.Fields{
		"date":  date.Format("2006-01-02"),
		"teams": d.teams.Len(),
	}
	for group, l := range d.players {
		fields[string(group)] = l.Len()
	}
	d.logger.WithFields(fields).Error("Replay aborted; ledger state at failure")
}

// Ledgers returns every ledger keyed by category-group name, for export.
func (d *Driver) Ledgers() map[string]*ledger.Ledger {
	out := map[string]*ledger.Ledger{
		string(category.GroupTeam): d.teams,
	}
	for group, l := range d.players {
		out[string(group)] = l
	}
	return out
}

// Teams returns the team ledger.
func (d *Driver) Teams() *ledger.Ledger { return d.teams }

// Players returns the player ledger for a group.
func (d *Driver) Players(group category.Group) *ledger.Ledger { return d.players[group] }

// Projector returns the run's fantasy projector.
func (d *Driver) Projector() *fantasy.Projector { return d.projector }

// Errors returns the accumulated prediction-error tracker.
func (d *Driver) Errors() *fantasy.ErrorTracker { return d.errors }
