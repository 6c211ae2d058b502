package category

import (
	"math"
)

// Comparison selects how a raw statistic is scored against the drawline.
type Comparison int

const (
	// GreaterThan wins when the observed value exceeds the drawline.
	GreaterThan Comparison = iota
	// LessThan wins when the observed value stays under the drawline
	// ("contain" categories such as interceptions thrown or points allowed).
	LessThan
	// AtLeast wins when a discrete non-negative count reaches the drawline
	// (sacks, takeaways, touchdowns).
	AtLeast
)

// Group names a ledger of related tracks. The string doubles as the ledger
// name in exports and the API.
type Group string

const (
	GroupRushing   Group = "rushers"
	GroupReceiving Group = "receivers"
	GroupPassing   Group = "passers"
	GroupDefense   Group = "defenders"
	GroupTeam      Group = "teams"
)

// Stat field names as they appear in game-record columns.
const (
	StatRushAtt       = "RushAtt"
	StatRushYard      = "RushYard"
	StatRushTD        = "RushTD"
	StatRec           = "Rec"
	StatRecYard       = "RecYard"
	StatRecTD         = "RecTD"
	StatTarget        = "Target"
	StatTeamPassAtt   = "TeamPassAtt"
	StatPassAtt       = "PassAtt"
	StatPassComp      = "PassComp"
	StatPassYard      = "PassYard"
	StatPassTD        = "PassTD"
	StatPassInt       = "PassInt"
	StatTackleSolo    = "TackleSolo"
	StatTackleForLoss = "TackleForLoss"
	StatSack          = "Sack"
	StatDefInt        = "DefInt"
	StatPassDefended  = "PassDefended"
	StatForcedFumble  = "ForcedFumble"
	StatPoint         = "Point"
	StatTD            = "TD"
)

// Definition is the static configuration for one rating category: which
// statistic it reads, the drawline separating a win from a loss, how the
// point differential is scaled, and which opposing team track the result is
// judged against.
type Definition struct {
	Key      string
	Group    Group
	Drawline float64
	Factor   float64 // point-differential multiplier fed to margin scaling
	Divisor  float64 // rating-diff divisor for fantasy projection
	Floor    float64 // projection floor clamp
	Compare  Comparison
	OppTrack string // opposing team category key, empty for team categories

	Stat    func(stats map[string]float64) float64
	Qualify func(stats map[string]float64) bool
}

// Evaluate converts a raw observed value into a win/loss against the drawline
// and the scaled absolute point differential used for margin scaling.
func (d Definition) Evaluate(v float64) (won bool, pointDiff float64) {
	switch d.Compare {
	case LessThan:
		won = v < d.Drawline
	case AtLeast:
		won = v >= d.Drawline
	default:
		won = v > d.Drawline
	}
	return won, math.Abs(v-d.Drawline) * d.Factor
}

// ratio divides n by d, defining the zero-denominator case as 0 so that a
// receiver with no targets scores a clean loss instead of an error.
func ratio(n, d float64) float64 {
	if d == 0 {
		return 0
	}
	return n / d
}

func field(name string) func(map[string]float64) float64 {
	return func(stats map[string]float64) float64 { return stats[name] }
}

func atLeastOne(name string) func(map[string]float64) bool {
	return func(stats map[string]float64) bool { return stats[name] >= 1 }
}
