package category

import (
	"fmt"
)

// Team category keys. Offense/defense tracks come in pairs that are updated
// together with a shared zero-sum delta.
const (
	TeamRushOffense  = "team_rush_offense"
	TeamRushDefense  = "team_rush_defense"
	TeamPassOffense  = "team_pass_offense"
	TeamPassDefense  = "team_pass_defense"
	TeamScoreOffense = "team_score_offense"
	TeamScoreDefense = "team_score_defense"
	TeamTDOffense    = "team_td_offense"
	TeamTDDefense    = "team_td_defense"
)

// Pair couples a team offense track with the opposing defense track it trades
// rating points with. Drawline, factor, and comparison live on the offense
// side; the defense result is the inverse.
type Pair struct {
	Offense Definition
	Defense Definition
}

// Leagues understood by the catalog.
const (
	LeagueCollege = "college"
	LeaguePro     = "pro"
	LeagueFantasy = "fantasy"
)

// drawlineOverrides adjusts selected drawlines per league. College offenses
// run more plays and score more, so the team-level lines sit higher. The
// numbers are tuned constants carried over from historical replays, not
// derived from a principled rule.
var drawlineOverrides = map[string]map[string]float64{
	LeagueCollege: {
		"rush_yards":     50,
		"pass_yards":     240,
		TeamRushOffense:  160,
		TeamPassOffense:  235,
		TeamScoreOffense: 28,
	},
}

func defenseQualify(stats map[string]float64) bool {
	return stats[StatTackleSolo]+stats[StatTackleForLoss]+stats[StatSack]+
		stats[StatDefInt]+stats[StatPassDefended]+stats[StatForcedFumble] > 0
}

// playerCatalog is the base category table. Factors and divisors are opaque
// per-category tuning; see the drawline override table for league variation.
func playerCatalog() []Definition {
	return []Definition{
		// Rushing: qualification is at least one carry.
		{
			Key: "rush_yards", Group: GroupRushing, Drawline: 45, Factor: 1.0,
			Divisor: 4, OppTrack: TeamRushDefense,
			Stat: field(StatRushYard), Qualify: atLeastOne(StatRushAtt),
		},
		{
			Key: "rush_yards_per_carry", Group: GroupRushing, Drawline: 4.0, Factor: 12,
			Divisor: 60, OppTrack: TeamRushDefense,
			Stat: func(s map[string]float64) float64 {
				return ratio(s[StatRushYard], s[StatRushAtt])
			},
			Qualify: atLeastOne(StatRushAtt),
		},
		{
			Key: "scrimmage_yards", Group: GroupRushing, Drawline: 60, Factor: 0.8,
			Divisor: 3.5, OppTrack: TeamRushDefense,
			Stat: func(s map[string]float64) float64 {
				return s[StatRushYard] + s[StatRecYard]
			},
			Qualify: atLeastOne(StatRushAtt),
		},
		{
			Key: "rush_touchdowns", Group: GroupRushing, Drawline: 1, Factor: 30,
			Divisor: 300, Compare: AtLeast, OppTrack: TeamRushDefense,
			Stat: field(StatRushTD), Qualify: atLeastOne(StatRushAtt),
		},

		// Receiving: qualification is at least one target.
		{
			Key: "receptions", Group: GroupReceiving, Drawline: 3, Factor: 8,
			Divisor: 100, OppTrack: TeamPassDefense,
			Stat: field(StatRec), Qualify: atLeastOne(StatTarget),
		},
		{
			Key: "receiving_yards", Group: GroupReceiving, Drawline: 40, Factor: 1.0,
			Divisor: 4.5, OppTrack: TeamPassDefense,
			Stat: field(StatRecYard), Qualify: atLeastOne(StatTarget),
		},
		{
			Key: "yards_per_catch", Group: GroupReceiving, Drawline: 10, Factor: 4,
			Divisor: 40, OppTrack: TeamPassDefense,
			Stat: func(s map[string]float64) float64 {
				return ratio(s[StatRecYard], s[StatRec])
			},
			Qualify: atLeastOne(StatTarget),
		},
		{
			Key: "yards_per_target", Group: GroupReceiving, Drawline: 7, Factor: 5,
			Divisor: 50, OppTrack: TeamPassDefense,
			Stat: func(s map[string]float64) float64 {
				return ratio(s[StatRecYard], s[StatTarget])
			},
			Qualify: atLeastOne(StatTarget),
		},
		{
			Key: "target_share", Group: GroupReceiving, Drawline: 0.15, Factor: 200,
			Divisor: 2000, OppTrack: TeamPassDefense,
			Stat: func(s map[string]float64) float64 {
				return ratio(s[StatTarget], s[StatTeamPassAtt])
			},
			Qualify: atLeastOne(StatTarget),
		},
		{
			Key: "receiving_touchdowns", Group: GroupReceiving, Drawline: 1, Factor: 30,
			Divisor: 300, Compare: AtLeast, OppTrack: TeamPassDefense,
			Stat: field(StatRecTD), Qualify: atLeastOne(StatTarget),
		},

		// Passing: qualification is at least one attempt.
		{
			Key: "pass_yards", Group: GroupPassing, Drawline: 220, Factor: 0.5,
			Divisor: 1.2, OppTrack: TeamPassDefense,
			Stat: field(StatPassYard), Qualify: atLeastOne(StatPassAtt),
		},
		{
			Key: "yards_per_attempt", Group: GroupPassing, Drawline: 7.0, Factor: 8,
			Divisor: 40, OppTrack: TeamPassDefense,
			Stat: func(s map[string]float64) float64 {
				return ratio(s[StatPassYard], s[StatPassAtt])
			},
			Qualify: atLeastOne(StatPassAtt),
		},
		{
			Key: "yards_per_completion", Group: GroupPassing, Drawline: 11.0, Factor: 5,
			Divisor: 40, OppTrack: TeamPassDefense,
			Stat: func(s map[string]float64) float64 {
				return ratio(s[StatPassYard], s[StatPassComp])
			},
			Qualify: atLeastOne(StatPassAtt),
		},
		{
			Key: "completion_pct", Group: GroupPassing, Drawline: 60, Factor: 2,
			Divisor: 10, OppTrack: TeamPassDefense,
			Stat: func(s map[string]float64) float64 {
				return ratio(s[StatPassComp], s[StatPassAtt]) * 100
			},
			Qualify: atLeastOne(StatPassAtt),
		},
		{
			Key: "pass_touchdowns", Group: GroupPassing, Drawline: 2, Factor: 15,
			Divisor: 150, Compare: AtLeast, OppTrack: TeamPassDefense,
			Stat: field(StatPassTD), Qualify: atLeastOne(StatPassAtt),
		},
		{
			// Win by throwing fewer interceptions than the line.
			Key: "interceptions_thrown", Group: GroupPassing, Drawline: 1, Factor: 20,
			Divisor: 400, Compare: LessThan, OppTrack: TeamPassDefense,
			Stat: field(StatPassInt), Qualify: atLeastOne(StatPassAtt),
		},

		// Defense: qualification is any recorded defensive production. Run
		// defenders are judged against the opposing rush offense, pass
		// rushers and coverage against the opposing pass offense.
		{
			Key: "tackles", Group: GroupDefense, Drawline: 4, Factor: 5,
			Divisor: 60, OppTrack: TeamRushOffense,
			Stat: field(StatTackleSolo), Qualify: defenseQualify,
		},
		{
			Key: "tackles_for_loss", Group: GroupDefense, Drawline: 1, Factor: 20,
			Divisor: 250, Compare: AtLeast, OppTrack: TeamRushOffense,
			Stat: field(StatTackleForLoss), Qualify: defenseQualify,
		},
		{
			Key: "sacks", Group: GroupDefense, Drawline: 1, Factor: 25,
			Divisor: 250, Compare: AtLeast, OppTrack: TeamPassOffense,
			Stat: field(StatSack), Qualify: defenseQualify,
		},
		{
			Key: "interceptions", Group: GroupDefense, Drawline: 1, Factor: 30,
			Divisor: 300, Compare: AtLeast, OppTrack: TeamPassOffense,
			Stat: field(StatDefInt), Qualify: defenseQualify,
		},
		{
			Key: "passes_defended", Group: GroupDefense, Drawline: 1, Factor: 15,
			Divisor: 250, Compare: AtLeast, OppTrack: TeamPassOffense,
			Stat: field(StatPassDefended), Qualify: defenseQualify,
		},
		{
			Key: "forced_fumbles", Group: GroupDefense, Drawline: 1, Factor: 25,
			Divisor: 300, Compare: AtLeast, OppTrack: TeamRushOffense,
			Stat: field(StatForcedFumble), Qualify: defenseQualify,
		},
	}
}

func teamCatalog() []Pair {
	pair := func(offKey, defKey string, drawline, factor float64, cmp Comparison, stat string) Pair {
		return Pair{
			Offense: Definition{
				Key: offKey, Group: GroupTeam, Drawline: drawline, Factor: factor,
				Compare: cmp, Stat: field(stat),
			},
			Defense: Definition{
				Key: defKey, Group: GroupTeam, Drawline: drawline, Factor: factor,
				Compare: cmp, Stat: field(stat),
			},
		}
	}
	return []Pair{
		pair(TeamRushOffense, TeamRushDefense, 150, 0.35, GreaterThan, StatRushYard),
		pair(TeamPassOffense, TeamPassDefense, 220, 0.3, GreaterThan, StatPassYard),
		pair(TeamScoreOffense, TeamScoreDefense, 24, 2.2, GreaterThan, StatPoint),
		pair(TeamTDOffense, TeamTDDefense, 3, 8, AtLeast, StatTD),
	}
}

// Catalog returns the player category table for a league with league-specific
// drawline overrides applied.
func Catalog(league string) ([]Definition, error) {
	if err := checkLeague(league); err != nil {
		return nil, err
	}
	defs := playerCatalog()
	overrides := drawlineOverrides[league]
	for i := range defs {
		if dl, ok := overrides[defs[i].Key]; ok {
			defs[i].Drawline = dl
		}
	}
	return defs, nil
}

// TeamPairs returns the team offense/defense pair table for a league.
func TeamPairs(league string) ([]Pair, error) {
	if err := checkLeague(league); err != nil {
		return nil, err
	}
	pairs := teamCatalog()
	overrides := drawlineOverrides[league]
	for i := range pairs {
		if dl, ok := overrides[pairs[i].Offense.Key]; ok {
			pairs[i].Offense.Drawline = dl
			pairs[i].Defense.Drawline = dl
		}
	}
	return pairs, nil
}

func checkLeague(league string) error {
	switch league {
	case LeagueCollege, LeaguePro, LeagueFantasy:
		return nil
	}
	return fmt.Errorf("unknown league %q", league)
}

// Validate checks that every category definition is complete. A missing or
// nonsensical threshold is a startup-time configuration error; the replay
// must not begin with a partial table.
func Validate(league string) error {
	defs, err := Catalog(league)
	if err != nil {
		return err
	}
	pairs, err := TeamPairs(league)
	if err != nil {
		return err
	}

	teamKeys := make(map[string]bool, len(pairs)*2)
	for _, p := range pairs {
		for _, d := range []Definition{p.Offense, p.Defense} {
			if d.Key == "" || d.Stat == nil {
				return fmt.Errorf("team category %q: incomplete definition", d.Key)
			}
			if d.Drawline < 0 || d.Factor <= 0 {
				return fmt.Errorf("team category %q: invalid drawline/factor", d.Key)
			}
			teamKeys[d.Key] = true
		}
	}

	for _, d := range defs {
		if d.Key == "" || d.Stat == nil || d.Qualify == nil {
			return fmt.Errorf("category %q: incomplete definition", d.Key)
		}
		if d.Drawline < 0 || d.Factor <= 0 || d.Divisor <= 0 {
			return fmt.Errorf("category %q: invalid drawline/factor/divisor", d.Key)
		}
		if !teamKeys[d.OppTrack] {
			return fmt.Errorf("category %q: opponent track %q is not a team category", d.Key, d.OppTrack)
		}
	}
	return nil
}
