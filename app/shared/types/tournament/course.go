package tournamenttypes

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Hole is one hole of a course.
type Hole struct {
	Number      int `json:"number"`
	Par         int `json:"par"`
	StrokeIndex int `json:"stroke_index"`
}

// Course is an ordered set of holes.
type Course struct {
	ID           uuid.UUID
	TournamentID uuid.UUID
	Name         string
	Holes        []Hole
}

var (
	// ErrEmptyCourse is returned when a course has no holes.
	ErrEmptyCourse = errors.New("course has no holes")
	// ErrInvalidCourse is wrapped by every course validation failure.
	ErrInvalidCourse = errors.New("invalid course")
)

// HoleCount returns the number of holes on the course.
func (c Course) HoleCount() int {
	return len(c.Holes)
}

// Hole returns the hole with the given number.
func (c Course) Hole(number int) (Hole, bool) {
	if number >= 1 && number <= len(c.Holes) && c.Holes[number-1].Number == number {
		return c.Holes[number-1], true
	}
	for _, h := range c.Holes {
		if h.Number == number {
			return h, true
		}
	}
	return Hole{}, false
}

// Validate checks hole numbering, par range and that stroke indices form a
// permutation of 1..N.
func (c Course) Validate() error {
	n := len(c.Holes)
	if n == 0 {
		return ErrEmptyCourse
	}

	holes := slices.Clone(c.Holes)
	slices.SortFunc(holes, func(a, b Hole) int { return a.Number - b.Number })

	seenIndex := make(map[int]int, n)
	for i, h := range holes {
		if h.Number != i+1 {
			return fmt.Errorf("%w: hole numbers must run 1..%d, found %d at position %d", ErrInvalidCourse, n, h.Number, i+1)
		}
		if h.Par < 3 || h.Par > 6 {
			return fmt.Errorf("%w: hole %d par %d outside 3..6", ErrInvalidCourse, h.Number, h.Par)
		}
		if h.StrokeIndex < 1 || h.StrokeIndex > n {
			return fmt.Errorf("%w: hole %d stroke index %d outside 1..%d", ErrInvalidCourse, h.Number, h.StrokeIndex, n)
		}
		if other, dup := seenIndex[h.StrokeIndex]; dup {
			return fmt.Errorf("%w: stroke index %d used by holes %d and %d", ErrInvalidCourse, h.StrokeIndex, other, h.Number)
		}
		seenIndex[h.StrokeIndex] = h.Number
	}
	return nil
}
