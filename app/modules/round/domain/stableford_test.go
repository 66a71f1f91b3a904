package rounddomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreHole(t *testing.T) {
	tests := []struct {
		name     string
		gross    int
		par      int
		hcp      int
		want     HoleResult
	}{
		{"albatross", 2, 5, 0, HoleResult{Points: PointsEagleOrBest, Net: 2}},
		{"eagle", 3, 5, 0, HoleResult{Points: PointsEagleOrBest, Net: 3}},
		{"birdie", 3, 4, 0, HoleResult{Points: PointsBirdie, Net: 3}},
		{"par", 4, 4, 0, HoleResult{Points: PointsPar, Net: 4}},
		{"bogey", 5, 4, 0, HoleResult{Points: PointsBogey, Net: 5}},
		{"double bogey", 6, 4, 0, HoleResult{Points: PointsNone, Net: 6}},
		{"net par with a stroke", 5, 4, 1, HoleResult{Points: PointsPar, Net: 4}},
		{"net birdie with two strokes", 5, 4, 2, HoleResult{Points: PointsBirdie, Net: 3}},
		{"not played", 0, 4, 1, HoleResult{}},
		{"net clamps at zero", 1, 3, 3, HoleResult{Points: PointsEagleOrBest, Net: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreHole(tt.gross, tt.par, tt.hcp))
		})
	}
}

func TestScoreHole_PointsNonIncreasing(t *testing.T) {
	for par := 3; par <= 6; par++ {
		for hcp := 0; hcp <= 3; hcp++ {
			prev := ScoreHole(1, par, hcp).Points
			for gross := 2; gross <= MaxStrokes; gross++ {
				pts := ScoreHole(gross, par, hcp).Points
				assert.LessOrEqual(t, pts, prev, "par %d hcp %d gross %d", par, hcp, gross)
				prev = pts
			}
		}
	}
}

func TestNetDiffIsUnclamped(t *testing.T) {
	assert.Equal(t, -2, NetDiff(1, 3))
}

func TestEffectiveGross(t *testing.T) {
	assert.Equal(t, 5, EffectiveGross(MustStrokes(5), 4, 1))
	assert.Equal(t, 7, EffectiveGross(PickedUp(), 4, 1))
	assert.Equal(t, 0, EffectiveGross(Unset(), 4, 1))
	assert.Equal(t, PointsNone, ScoreHole(EffectiveGross(PickedUp(), 5, 2), 5, 2).Points)
}
