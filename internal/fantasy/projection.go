package fantasy

import (
	"math"
	"sort"

	"github.com/gridiron-analytics/gridrank/internal/category"
)

// Predict maps a rating differential (entity rating minus the opposing track
// rating) to a predicted raw statistic through the category's fixed affine
// map, clamped at the category floor so counts never go negative. For contain
// categories the diff is inverted first: a stronger entity projects fewer
// interceptions, not more.
func Predict(def category.Definition, ratingDiff int) float64 {
	diff := float64(ratingDiff)
	if def.Compare == category.LessThan {
		diff = -diff
	}
	v := def.Drawline + diff/def.Divisor
	if v < def.Floor {
		v = def.Floor
	}
	return v
}

// System identifies a fantasy scoring platform.
type System string

const (
	SystemStandard   System = "standard"
	SystemPPR        System = "ppr"
	SystemHalfPPR    System = "half_ppr"
	SystemDraftKings System = "draftkings"
)

// Systems lists every supported scoring system.
func Systems() []System {
	return []System{SystemStandard, SystemPPR, SystemHalfPPR, SystemDraftKings}
}

// StatLine holds the predicted (or observed) quantities a scoring formula
// consumes.
type StatLine struct {
	RushYards     float64
	RushTDs       float64
	Receptions    float64
	RecYards      float64
	RecTDs        float64
	PassYards     float64
	PassTDs       float64
	Interceptions float64
}

// Score applies a platform's fixed linear scoring formula. DraftKings adds
// flat bonuses at the 100-yard rushing/receiving and 300-yard passing marks.
func Score(sys System, s StatLine) float64 {
	pts := 0.1*s.RushYards + 6*s.RushTDs +
		0.1*s.RecYards + 6*s.RecTDs +
		0.04*s.PassYards + 4*s.PassTDs - 1*s.Interceptions

	switch sys {
	case SystemPPR:
		pts += s.Receptions
	case SystemHalfPPR:
		pts += 0.5 * s.Receptions
	case SystemDraftKings:
		pts += s.Receptions
		if s.RushYards >= 100 {
			pts += 3
		}
		if s.RecYards >= 100 {
			pts += 3
		}
		if s.PassYards >= 300 {
			pts += 3
		}
	}
	return pts
}

// ErrorTracker accumulates per-category squared prediction error during a
// replay. Diagnostic only; it never feeds back into the ratings.
type ErrorTracker struct {
	sumSq  map[string]float64
	counts map[string]int
}

// NewErrorTracker returns an empty tracker.
func NewErrorTracker() *ErrorTracker {
	return &ErrorTracker{
		sumSq:  make(map[string]float64),
		counts: make(map[string]int),
	}
}

// Observe records one prediction against the observed value.
func (t *ErrorTracker) Observe(categoryKey string, predicted, actual float64) {
	diff := predicted - actual
	t.sumSq[categoryKey] += diff * diff
	t.counts[categoryKey]++
}

// RMSE returns the root-mean-square error for a category, and whether any
// observations exist.
func (t *ErrorTracker) RMSE(categoryKey string) (float64, bool) {
	n := t.counts[categoryKey]
	if n == 0 {
		return 0, false
	}
	return math.Sqrt(t.sumSq[categoryKey] / float64(n)), true
}

// Count returns the number of observations for a category.
func (t *ErrorTracker) Count(categoryKey string) int {
	return t.counts[categoryKey]
}

// Report returns every category's RMSE keyed by category, with keys sorted
// for stable logging.
func (t *ErrorTracker) Report() []CategoryError {
	keys := make([]string, 0, len(t.counts))
	for key := range t.counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]CategoryError, 0, len(keys))
	for _, key := range keys {
		rmse, _ := t.RMSE(key)
		out = append(out, CategoryError{Category: key, RMSE: rmse, Samples: t.counts[key]})
	}
	return out
}

// CategoryError is one row of the end-of-replay model-quality report.
type CategoryError struct {
	Category string  `json:"category"`
	RMSE     float64 `json:"rmse"`
	Samples  int     `json:"samples"`
}
