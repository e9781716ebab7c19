package geometry

import (
	"math"
	"sort"
)

// Detection is one candidate box in center form with its score and class.
type Detection struct {
	CX         float64 `json:"cx"`
	CY         float64 `json:"cy"`
	W          float64 `json:"w"`
	H          float64 `json:"h"`
	Confidence float64 `json:"confidence"`
	Label      int     `json:"label"`
}

// Area returns W×H.
func (d Detection) Area() float64 {
	return d.W * d.H
}

// IntersectionArea returns the overlap area of the two boxes, zero when they
// are disjoint.
func (d Detection) IntersectionArea(o Detection) float64 {
	x1 := math.Max(d.CX-d.W/2, o.CX-o.W/2)
	y1 := math.Max(d.CY-d.H/2, o.CY-o.H/2)
	x2 := math.Min(d.CX+d.W/2, o.CX+o.W/2)
	y2 := math.Min(d.CY+d.H/2, o.CY+o.H/2)
	return math.Max(0, x2-x1) * math.Max(0, y2-y1)
}

// SuppressNonMax removes overlapping detections, keeping the most confident.
//
// Candidates are visited in descending confidence order (a stable sort, so
// ties keep input order). A candidate is dropped when its intersection with
// any already kept box, divided by the candidate's own area, exceeds
// threshold. The returned slice is in kept order; dets is not modified.
//
// A zero-area candidate produces a NaN ratio, which never exceeds the
// threshold, so such candidates are always kept.
//
// Applying SuppressNonMax to its own output returns it unchanged.
func SuppressNonMax(dets []Detection, threshold float64) []Detection {
	order := make([]Detection, len(dets))
	copy(order, dets)
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Confidence > order[j].Confidence
	})

	kept := make([]Detection, 0, len(order))
	for _, cand := range order {
		area := cand.Area()
		suppressed := false
		for _, k := range kept {
			if cand.IntersectionArea(k)/area > threshold {
				suppressed = true
				break
			}
		}
		if !suppressed {
			kept = append(kept, cand)
		}
	}
	return kept
}
