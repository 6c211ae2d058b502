package fantasy

import (
	"github.com/gridiron-analytics/gridrank/internal/category"
)

// lineCategories maps the category keys a scoring formula consumes onto
// StatLine fields.
var lineCategories = map[string]func(*StatLine, float64){
	"rush_yards":           func(l *StatLine, v float64) { l.RushYards = v },
	"rush_touchdowns":      func(l *StatLine, v float64) { l.RushTDs = v },
	"receptions":           func(l *StatLine, v float64) { l.Receptions = v },
	"receiving_yards":      func(l *StatLine, v float64) { l.RecYards = v },
	"receiving_touchdowns": func(l *StatLine, v float64) { l.RecTDs = v },
	"pass_yards":           func(l *StatLine, v float64) { l.PassYards = v },
	"pass_touchdowns":      func(l *StatLine, v float64) { l.PassTDs = v },
	"interceptions_thrown": func(l *StatLine, v float64) { l.Interceptions = v },
}

// Projector turns current ratings into predicted stat lines and fantasy
// scores using the league's category table.
type Projector struct {
	defs map[string]category.Definition
}

// NewProjector indexes the category table by key.
func NewProjector(defs []category.Definition) *Projector {
	byKey := make(map[string]category.Definition, len(defs))
	for _, d := range defs {
		byKey[d.Key] = d
	}
	return &Projector{defs: byKey}
}

// PredictCategory projects one category from an entity rating and the
// opposing track rating. The second return is false for unknown categories.
func (p *Projector) PredictCategory(key string, myRating, oppRating int) (float64, bool) {
	def, ok := p.defs[key]
	if !ok {
		return 0, false
	}
	return Predict(def, myRating-oppRating), true
}

// Line assembles a predicted stat line. ratings holds the entity's current
// rating per category; oppRatings holds the opposing team's rating for each
// category's opponent track, keyed by the same category key. Categories
// absent from either map are left at zero.
func (p *Projector) Line(ratings, oppRatings map[string]int) StatLine {
	var line StatLine
	for key, set := range lineCategories {
		my, ok := ratings[key]
		if !ok {
			continue
		}
		opp, ok := oppRatings[key]
		if !ok {
			continue
		}
		if v, ok := p.PredictCategory(key, my, opp); ok {
			set(&line, v)
		}
	}
	return line
}

// Scores applies every scoring system to a stat line.
func (p *Projector) Scores(line StatLine) map[System]float64 {
	out := make(map[System]float64, len(Systems()))
	for _, sys := range Systems() {
		out[sys] = Score(sys, line)
	}
	return out
}
