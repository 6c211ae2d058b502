package ledger

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Ledger owns every Track for one category-group (all rushers, all teams,
// ...). Tracks are created lazily the first time an entity shows up in a game
// record and are never deleted. The ledger is mutated only by the replay
// driver; nothing else holds a reference to its tracks.
type Ledger struct {
	name      string
	seed      int
	eliteSeed int
	elite     map[string]bool

	// entity -> category key -> track
	tracks map[string]map[string]*Track
}

// Option configures a Ledger at construction.
type Option func(*Ledger)

// WithElite boosts the creation seed for an allow-list of entities. The boost
// applies only when a track is first created, never retroactively.
func WithElite(ids []string, seed int) Option {
	return func(l *Ledger) {
		for _, id := range ids {
			l.elite[id] = true
		}
		l.eliteSeed = seed
	}
}

// New returns an empty ledger whose tracks seed at the given initial rating.
func New(name string, seed int, opts ...Option) *Ledger {
	l := &Ledger{
		name:   name,
		seed:   seed,
		elite:  make(map[string]bool),
		tracks: make(map[string]map[string]*Track),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name returns the category-group name ("rushers", "teams", ...).
func (l *Ledger) Name() string { return l.name }

// GetOrCreate returns the entity's track for a category, creating and seeding
// it on first appearance.
func (l *Ledger) GetOrCreate(entityID, categoryKey string) *Track {
	byCat, ok := l.tracks[entityID]
	if !ok {
		byCat = make(map[string]*Track)
		l.tracks[entityID] = byCat
	}
	track, ok := byCat[categoryKey]
	if !ok {
		seed := l.seed
		if l.elite[entityID] {
			seed = l.eliteSeed
		}
		track = newTrack(seed)
		byCat[categoryKey] = track
	}
	return track
}

// Lookup returns an existing track. A miss means the replay driver asked for
// an opponent before initializing that date's participants, which is an
// ordering bug, not recoverable data trouble; callers are expected to abort.
func (l *Ledger) Lookup(entityID, categoryKey string) (*Track, error) {
	if track, ok := l.tracks[entityID][categoryKey]; ok {
		return track, nil
	}
	return nil, fmt.Errorf(
		"ledger %s: no track for entity %q category %q (%d entities tracked): opponent looked up before initialization",
		l.name, entityID, categoryKey, len(l.tracks),
	)
}

// Entities returns all tracked entity IDs in stable sorted order.
func (l *Ledger) Entities() []string {
	ids := make([]string, 0, len(l.tracks))
	for id := range l.tracks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Tracks returns the entity's tracks keyed by category, or nil if unknown.
func (l *Ledger) Tracks(entityID string) map[string]*Track {
	return l.tracks[entityID]
}

// Categories returns every category key present in the ledger, sorted.
func (l *Ledger) Categories() []string {
	seen := make(map[string]bool)
	for _, byCat := range l.tracks {
		for key := range byCat {
			seen[key] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of tracked entities.
func (l *Ledger) Len() int { return len(l.tracks) }

// RegressToMean pulls every entity's current rating in a category partway
// back toward the cross-entity mean at a season boundary. The mean is taken
// over entities that have actually played, and it is computed for everyone
// before anyone is mutated: a single-pass version would regress later
// entities toward an already-partially-regressed mean.
func (l *Ledger) RegressToMean(categoryKey string, blend float64, appendEntry bool, boundary time.Time) {
	var sum float64
	var n int
	for _, byCat := range l.tracks {
		if track, ok := byCat[categoryKey]; ok && track.GamesPlayed > 0 {
			sum += float64(track.Last)
			n++
		}
	}
	if n == 0 {
		return
	}
	mean := sum / float64(n)

	for _, byCat := range l.tracks {
		track, ok := byCat[categoryKey]
		if !ok || len(track.Ratings) <= 1 {
			continue
		}
		regressed := int(math.Round(blend*float64(track.Last) + (1-blend)*mean))
		if appendEntry {
			track.appendRegressed(regressed, boundary)
		} else {
			track.setCurrent(regressed)
		}
	}
}

// Composite computes a weighted average of an entity's current category
// ratings. Derived on demand for exports and leaderboards; never replayed.
func (l *Ledger) Composite(entityID string, weights map[string]float64) (float64, bool) {
	byCat := l.tracks[entityID]
	if len(byCat) == 0 {
		return 0, false
	}
	var sum, wsum float64
	for key, track := range byCat {
		w := 1.0
		if weights != nil {
			if ww, ok := weights[key]; ok {
				w = ww
			}
		}
		sum += float64(track.Last) * w
		wsum += w
	}
	if wsum == 0 {
		return 0, false
	}
	return sum / wsum, true
}
