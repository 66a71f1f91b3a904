package rounddomain

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
)

func TestStrokesForHole(t *testing.T) {
	tests := []struct {
		name        string
		handicap    int
		strokeIndex int
		totalHoles  int
		want        int
	}{
		{"scratch", 0, 1, 18, 0},
		{"hardest hole receives extra", 20, 1, 18, 2},
		{"second hardest receives extra", 20, 2, 18, 2},
		{"third hardest gets base only", 20, 3, 18, 1},
		{"easiest hole with low handicap", 5, 18, 18, 0},
		{"hardest hole with low handicap", 5, 5, 18, 1},
		{"exactly one per hole", 18, 18, 18, 1},
		{"nine hole course", 12, 3, 9, 2},
		{"missing stroke index", 20, 0, 18, 0},
		{"zero holes", 20, 1, 0, 0},
		{"negative handicap clamps", -3, 1, 18, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StrokesForHole(tt.handicap, tt.strokeIndex, tt.totalHoles))
		})
	}
}

func TestStrokesForHole_SumEqualsHandicap(t *testing.T) {
	faker := gofakeit.New(42)

	for i := 0; i < 200; i++ {
		handicap := faker.IntRange(0, 54)
		holes := faker.IntRange(1, 27)

		total := 0
		for si := 1; si <= holes; si++ {
			total += StrokesForHole(handicap, si, holes)
		}
		assert.Equal(t, handicap, total, "handicap %d over %d holes", handicap, holes)
	}
}
