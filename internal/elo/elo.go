package elo

import (
	"math"
)

// Expect returns the logistic win expectation of a rating over b rating.
// A 400-point advantage corresponds to 10:1 expected odds.
func Expect(a, b int) float64 {
	return 1.0 / (1.0 + math.Pow(10, float64(b-a)/400.0))
}

// MarginFactor scales the effective K by how lopsided the performance was.
// Blowouts grow the factor logarithmically; a large pre-existing rating gap
// dampens it so an already-dominant side gets less credit for winning big.
// pointDiff must be non-negative; ln(0+1) = 0 is the legitimate floor.
func MarginFactor(pointDiff, ratingGap float64) float64 {
	return math.Log(pointDiff+1.0) * (2.2 / (math.Abs(ratingGap)*0.001 + 2.2))
}

// delta computes the rounded rating change for the side described by won.
// The gap fed to the margin factor is taken from the winner's perspective.
func delta(myRating, oppRating int, pointDiff float64, won bool, scaleMargin bool, k float64) int {
	effectiveK := k
	if scaleMargin {
		gap := float64(myRating - oppRating)
		if !won {
			gap = float64(oppRating - myRating)
		}
		effectiveK *= MarginFactor(pointDiff, gap)
	}

	outcome := 0.0
	if won {
		outcome = 1.0
	}

	return int(math.Round(effectiveK * (outcome - Expect(myRating, oppRating))))
}

// Update returns the new rating for one side of a result. pointDiff is the
// absolute performance differential already scaled by the category factor.
func Update(myRating, oppRating int, pointDiff float64, won bool, scaleMargin bool, k float64) int {
	return myRating + delta(myRating, oppRating, pointDiff, won, scaleMargin, k)
}

// UpdateBoth returns new ratings for both sides of a result using the same
// point differential and effective K with inverted outcomes. The shared
// rounded delta keeps the exchange exactly zero-sum, which is the offense/
// defense dual-update pattern used for team ratings.
func UpdateBoth(myRating, oppRating int, pointDiff float64, won bool, scaleMargin bool, k float64) (int, int) {
	d := delta(myRating, oppRating, pointDiff, won, scaleMargin, k)
	return myRating + d, oppRating - d
}
