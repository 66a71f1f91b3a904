package rounddomain

import (
	"maps"
	"slices"
)

// ReferenceCard is an independently kept card for the same round, keyed by hole
// number. A nil card means no reference exists.
type ReferenceCard map[int]int

// Discrepancy is one hole where the official card and the reference disagree.
type Discrepancy struct {
	Hole      int `json:"hole"`
	Official  int `json:"official"`
	Reference int `json:"reference"`
}

// DetectDiscrepancies compares the official holes with ref. Only holes present
// on both cards are compared. A picked-up official hole compares as 0, and
// reference values below 1 are treated as absent.
func DetectDiscrepancies(holes []HoleScore, ref ReferenceCard) []Discrepancy {
	if ref == nil {
		return nil
	}

	official := make(map[int]int, len(holes))
	for _, h := range holes {
		if !h.Strokes.Played() {
			continue
		}
		n, _ := h.Strokes.Count()
		official[h.Hole] = n
	}

	var out []Discrepancy
	for _, hole := range slices.Sorted(maps.Keys(ref)) {
		refStrokes := ref[hole]
		if refStrokes < 1 {
			continue
		}
		got, ok := official[hole]
		if !ok || got == refStrokes {
			continue
		}
		out = append(out, Discrepancy{Hole: hole, Official: got, Reference: refStrokes})
	}
	return out
}
