package rounddomain

// StrokesForHole returns the handicap strokes a player receives on a hole.
//
// The allowance is spread evenly across the course, and the remainder goes to
// the hardest holes: every hole gets handicapIndex/totalHoles strokes and holes
// with a stroke index up to handicapIndex%totalHoles get one more. A missing
// stroke index (0) grants nothing.
func StrokesForHole(handicapIndex, strokeIndex, totalHoles int) int {
	if strokeIndex <= 0 || totalHoles <= 0 {
		return 0
	}
	if handicapIndex < 0 {
		handicapIndex = 0
	}

	base := handicapIndex / totalHoles
	extra := handicapIndex % totalHoles
	if strokeIndex <= extra {
		return base + 1
	}
	return base
}
