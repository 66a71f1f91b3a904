package rounddomain

import (
	"cmp"
	"slices"
)

// AchievementKind names an in-round accomplishment.
type AchievementKind string

const (
	AchievementHoleInOne    AchievementKind = "hole-in-one"
	AchievementEagle        AchievementKind = "eagle"
	AchievementBirdie       AchievementKind = "birdie"
	AchievementParStreak    AchievementKind = "par-streak"
	AchievementBirdieStreak AchievementKind = "birdie-streak"
)

const (
	streakWindow    = 5
	minParStreak    = 3
	minBirdieStreak = 2
)

// HolePlay is the input to achievement detection for one hole.
type HolePlay struct {
	Hole    int
	Strokes HoleStrokes
	Par     int
}

// Achievement is emitted for the hole just saved. Streak is the run length for
// streak kinds and zero otherwise.
type Achievement struct {
	Kind    AchievementKind `json:"kind"`
	Hole    int             `json:"hole"`
	Strokes int             `json:"strokes"`
	Par     int             `json:"par"`
	Streak  int             `json:"streak,omitempty"`
}

// DetectAchievements evaluates latest against the holes before it. Only gross
// strokes matter; handicap plays no part. Streaks count contiguous holes ending
// at latest within the last five holes.
func DetectAchievements(latest HolePlay, prior []HolePlay) []Achievement {
	strokes, ok := latest.Strokes.Count()
	if !ok || latest.Par <= 0 {
		return nil
	}

	var out []Achievement
	diff := strokes - latest.Par
	base := Achievement{Hole: latest.Hole, Strokes: strokes, Par: latest.Par}

	switch {
	case strokes == 1:
		out = append(out, withKind(base, AchievementHoleInOne, 0))
	case diff <= -2:
		out = append(out, withKind(base, AchievementEagle, 0))
	case diff == -1:
		out = append(out, withKind(base, AchievementBirdie, 0))
	}

	switch diff {
	case 0:
		if run := runLength(latest, prior, 0); run >= minParStreak {
			out = append(out, withKind(base, AchievementParStreak, run))
		}
	case -1:
		if run := runLength(latest, prior, -1); run >= minBirdieStreak {
			out = append(out, withKind(base, AchievementBirdieStreak, run))
		}
	}

	return out
}

func withKind(a Achievement, kind AchievementKind, streak int) Achievement {
	a.Kind = kind
	a.Streak = streak
	return a
}

// runLength counts consecutive holes scoring exactly want relative to par,
// walking back from latest. A gap in hole numbers ends the run.
func runLength(latest HolePlay, prior []HolePlay, want int) int {
	earlier := make([]HolePlay, 0, len(prior))
	for _, p := range prior {
		if p.Hole < latest.Hole {
			earlier = append(earlier, p)
		}
	}
	slices.SortFunc(earlier, func(a, b HolePlay) int { return cmp.Compare(b.Hole, a.Hole) })

	run := 1
	expect := latest.Hole - 1
	for _, p := range earlier {
		if run == streakWindow || p.Hole != expect {
			break
		}
		n, ok := p.Strokes.Count()
		if !ok || p.Par <= 0 || n-p.Par != want {
			break
		}
		run++
		expect--
	}
	return run
}
