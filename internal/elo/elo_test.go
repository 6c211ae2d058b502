package elo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpectEqualRatings(t *testing.T) {
	assert.InDelta(t, 0.5, Expect(1300, 1300), 1e-9)
	// 400 points of advantage means 10:1 odds.
	assert.InDelta(t, 10.0/11.0, Expect(1600, 1200), 1e-9)
	assert.InDelta(t, 1.0/11.0, Expect(1200, 1600), 1e-9)
}

// With margin scaling off the primitive reduces to plain logistic Elo.
func TestUpdateReducesToPlainElo(t *testing.T) {
	cases := []struct {
		myRating, oppRating int
		k                   float64
	}{
		{1300, 1300, 20},
		{1400, 1200, 24},
		{1100, 1500, 32},
	}
	for _, tc := range cases {
		expected := tc.k * (1 - Expect(tc.myRating, tc.oppRating))
		got := Update(tc.myRating, tc.oppRating, 0, true, false, tc.k)
		assert.InDelta(t, expected, float64(got-tc.myRating), 0.5,
			"win delta should match K*(1-E) up to rounding")

		expectedLoss := tc.k * (0 - Expect(tc.myRating, tc.oppRating))
		gotLoss := Update(tc.myRating, tc.oppRating, 0, false, false, tc.k)
		assert.InDelta(t, expectedLoss, float64(gotLoss-tc.myRating), 0.5)
	}
}

// Evenly matched entities trade exactly half the K-factor.
func TestUpdateEvenMatch(t *testing.T) {
	assert.Equal(t, 1310, Update(1300, 1300, 0, true, false, 20))
	assert.Equal(t, 1290, Update(1300, 1300, 0, false, false, 20))
}

func TestUpdateBothZeroSum(t *testing.T) {
	cases := []struct {
		name                string
		myRating, oppRating int
		pointDiff           float64
		won, scale          bool
		k                   float64
	}{
		{"unscaled even", 1200, 1200, 0, true, false, 25},
		{"unscaled mismatched", 1350, 1180, 0, false, false, 20},
		{"scaled blowout", 1200, 1200, 50, true, true, 25},
		{"scaled favorite wins big", 1400, 1150, 80, true, true, 25},
		{"scaled upset", 1100, 1450, 30, true, true, 32},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			newMine, newOpp := UpdateBoth(tc.myRating, tc.oppRating, tc.pointDiff, tc.won, tc.scale, tc.k)
			myDelta := newMine - tc.myRating
			oppDelta := newOpp - tc.oppRating
			assert.Equal(t, 0, myDelta+oppDelta, "dual update must be exactly zero-sum")
			if tc.won && tc.pointDiff > 0 {
				assert.Greater(t, myDelta, 0)
				assert.Less(t, oppDelta, 0)
			}
		})
	}
}

func TestMarginFactorMonotonicInPointDiff(t *testing.T) {
	for _, gap := range []float64{0, 100, -250} {
		prev := MarginFactor(0, gap)
		for pd := 5.0; pd <= 100; pd += 5 {
			next := MarginFactor(pd, gap)
			assert.Greater(t, next, prev, "factor must grow with point diff at gap %v", gap)
			prev = next
		}
	}
}

func TestMarginFactorDampenedByRatingGap(t *testing.T) {
	for _, pd := range []float64{5, 25, 75} {
		prev := MarginFactor(pd, 0)
		for gap := 50.0; gap <= 800; gap += 50 {
			next := MarginFactor(pd, gap)
			assert.Less(t, next, prev, "factor must shrink as |gap| grows at point diff %v", pd)
			// Sign of the gap is irrelevant, only magnitude.
			assert.InDelta(t, next, MarginFactor(pd, -gap), 1e-12)
			prev = next
		}
	}
}

func TestMarginFactorZeroPointDiff(t *testing.T) {
	assert.Zero(t, MarginFactor(0, 0))
	assert.Zero(t, MarginFactor(0, 500))
}

func TestMarginFactorClosedForm(t *testing.T) {
	want := math.Log(21) * (2.2 / (150*0.001 + 2.2))
	assert.InDelta(t, want, MarginFactor(20, 150), 1e-12)
}
