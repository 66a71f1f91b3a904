package rounddomain

// Points is a Stableford point value for one hole.
type Points int

const (
	PointsNone        Points = 0
	PointsBogey       Points = 1
	PointsPar         Points = 2
	PointsBirdie      Points = 3
	PointsEagleOrBest Points = 4
)

// pickUpOverPar is the net over-par score assigned to a picked-up hole.
const pickUpOverPar = 2

// HoleResult is the scored outcome of a single hole.
type HoleResult struct {
	Points Points
	// Net is gross minus handicap strokes, floored at zero for display.
	Net int
}

// ScoreHole scores gross strokes against par after handicap strokes.
// A gross of 0 means the hole was not played and scores nothing.
func ScoreHole(gross, par, handicapStrokes int) HoleResult {
	if gross <= 0 {
		return HoleResult{}
	}

	diff := NetDiff(gross, handicapStrokes) - par

	var pts Points
	switch {
	case diff <= -2:
		pts = PointsEagleOrBest
	case diff == -1:
		pts = PointsBirdie
	case diff == 0:
		pts = PointsPar
	case diff == 1:
		pts = PointsBogey
	default:
		pts = PointsNone
	}

	return HoleResult{Points: pts, Net: max(0, gross-handicapStrokes)}
}

// NetDiff is gross minus handicap strokes without the display floor.
// Cumulative net totals sum this value.
func NetDiff(gross, handicapStrokes int) int {
	return gross - handicapStrokes
}

// EffectiveGross returns the gross used for totals. A picked-up hole counts as
// net double bogey, which always scores zero Stableford points. An unset hole
// counts as 0.
func EffectiveGross(s HoleStrokes, par, handicapStrokes int) int {
	if n, ok := s.Count(); ok {
		return n
	}
	if s.IsPickedUp() {
		return par + pickUpOverPar + handicapStrokes
	}
	return 0
}
