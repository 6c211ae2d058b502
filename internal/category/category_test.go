package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findDef(t *testing.T, league, key string) Definition {
	t.Helper()
	defs, err := Catalog(league)
	require.NoError(t, err)
	for _, d := range defs {
		if d.Key == key {
			return d
		}
	}
	t.Fatalf("category %q not in %s catalog", key, league)
	return Definition{}
}

func TestValidateAllLeagues(t *testing.T) {
	for _, league := range []string{LeagueCollege, LeaguePro, LeagueFantasy} {
		assert.NoError(t, Validate(league), league)
	}
	assert.Error(t, Validate("xfl"))
}

// A receiver with zero targets produces yards-per-target of 0, which scores
// as a clean loss against any positive drawline rather than an error.
func TestZeroDenominatorRatios(t *testing.T) {
	def := findDef(t, LeaguePro, "yards_per_target")
	stats := map[string]float64{StatTarget: 0, StatRec: 0, StatRecYard: 0}

	v := def.Stat(stats)
	assert.Zero(t, v)

	won, pointDiff := def.Evaluate(v)
	assert.False(t, won)
	assert.Equal(t, def.Drawline*def.Factor, pointDiff)
}

func TestEvaluateGreaterThan(t *testing.T) {
	def := findDef(t, LeaguePro, "rush_yards")
	require.Equal(t, 45.0, def.Drawline)

	won, pointDiff := def.Evaluate(50)
	assert.True(t, won)
	assert.InDelta(t, 5.0, pointDiff, 1e-9)

	won, _ = def.Evaluate(45) // exactly on the line is a loss
	assert.False(t, won)

	won, pointDiff = def.Evaluate(20)
	assert.False(t, won)
	assert.InDelta(t, 25.0, pointDiff, 1e-9)
}

// Interceptions thrown is a contain category: fewer than the line wins.
func TestEvaluateLessThan(t *testing.T) {
	def := findDef(t, LeaguePro, "interceptions_thrown")

	won, _ := def.Evaluate(0)
	assert.True(t, won)
	won, _ = def.Evaluate(1)
	assert.False(t, won)
	won, _ = def.Evaluate(3)
	assert.False(t, won)
}

// Discrete counts win at the line, not past it.
func TestEvaluateAtLeast(t *testing.T) {
	def := findDef(t, LeaguePro, "sacks")

	won, _ := def.Evaluate(1)
	assert.True(t, won)
	won, _ = def.Evaluate(0)
	assert.False(t, won)
	won, _ = def.Evaluate(2.5)
	assert.True(t, won)
}

func TestCollegeDrawlineOverrides(t *testing.T) {
	pro := findDef(t, LeaguePro, "rush_yards")
	college := findDef(t, LeagueCollege, "rush_yards")
	assert.Equal(t, 45.0, pro.Drawline)
	assert.Equal(t, 50.0, college.Drawline)

	pairs, err := TeamPairs(LeagueCollege)
	require.NoError(t, err)
	for _, p := range pairs {
		if p.Offense.Key == TeamScoreOffense {
			assert.Equal(t, 28.0, p.Offense.Drawline)
			assert.Equal(t, 28.0, p.Defense.Drawline, "defense mirrors the offense line")
		}
	}
}

func TestEveryPlayerCategoryHasOpponentTrack(t *testing.T) {
	defs, err := Catalog(LeaguePro)
	require.NoError(t, err)
	pairs, err := TeamPairs(LeaguePro)
	require.NoError(t, err)

	teamKeys := make(map[string]bool)
	for _, p := range pairs {
		teamKeys[p.Offense.Key] = true
		teamKeys[p.Defense.Key] = true
	}
	for _, d := range defs {
		assert.True(t, teamKeys[d.OppTrack], "category %s points at unknown team track %q", d.Key, d.OppTrack)
	}
}

func TestQualification(t *testing.T) {
	rush := findDef(t, LeaguePro, "rush_yards")
	assert.True(t, rush.Qualify(map[string]float64{StatRushAtt: 1}))
	assert.False(t, rush.Qualify(map[string]float64{StatRushAtt: 0, StatTarget: 8}))

	defense := findDef(t, LeaguePro, "tackles")
	assert.True(t, defense.Qualify(map[string]float64{StatSack: 1}))
	assert.False(t, defense.Qualify(map[string]float64{}))
}
