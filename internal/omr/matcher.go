package omr

import (
	"fmt"
	"math"

	"github.com/ironsheep/omr-tools/internal/geometry"
)

// AssignmentMatcher pairs expected bubble positions with detected circles.
type AssignmentMatcher struct{}

// NewAssignmentMatcher returns a matcher.
func NewAssignmentMatcher() *AssignmentMatcher {
	return &AssignmentMatcher{}
}

// Match assigns detected circle centers to expected choices so that the
// summed Euclidean distance is minimal.
//
// Expected positions are flattened slot-major, choice-minor. Exactly
// min(expected, detected) pairs are formed; every matched choice takes its
// circle's center and every other choice gets a nil position. Choices that
// already have a nil position are treated as absent. slots is not modified.
//
// There is no distance cap: with fewer circles than bubbles the nearest
// circles are still used.
//
// Returns a NotFound error when bubbles are expected but no circles were
// detected, and a GeometryError when any distance is NaN or infinite.
func (m *AssignmentMatcher) Match(slots []ExpectedSlot, circles []geometry.Point) ([]ExpectedSlot, error) {
	out := make([]ExpectedSlot, len(slots))
	type ref struct{ slot, choice int }
	var refs []ref
	var expected []geometry.Point
	for si, s := range slots {
		out[si] = s.clone()
		for ci, c := range s.Choices {
			out[si].Choices[ci].Position = nil
			if c.Position == nil {
				continue
			}
			refs = append(refs, ref{si, ci})
			expected = append(expected, *c.Position)
		}
	}

	if len(expected) == 0 {
		return out, nil
	}
	if len(circles) == 0 {
		return nil, NewNotFoundError("match", "no circles detected")
	}

	cost := make([][]float64, len(expected))
	for i, e := range expected {
		cost[i] = make([]float64, len(circles))
		for j, c := range circles {
			d := e.Distance(c)
			if math.IsNaN(d) || math.IsInf(d, 0) {
				return nil, NewGeometryError("match",
					fmt.Sprintf("non-finite distance between expected %v and circle %v", e, c))
			}
			cost[i][j] = d
		}
	}

	for i, j := range assignRectangular(cost) {
		if j < 0 {
			continue
		}
		p := circles[j]
		r := refs[i]
		out[r.slot].Choices[r.choice].Position = &p
	}
	return out, nil
}

// assignRectangular solves the min-cost assignment for an n×m matrix and
// returns, per row, the assigned column or -1.
func assignRectangular(cost [][]float64) []int {
	n := len(cost)
	if n == 0 {
		return nil
	}
	m := len(cost[0])
	if n <= m {
		return hungarian(cost)
	}

	t := make([][]float64, m)
	for j := range t {
		t[j] = make([]float64, n)
		for i := 0; i < n; i++ {
			t[j][i] = cost[i][j]
		}
	}
	cols := hungarian(t)
	rows := make([]int, n)
	for i := range rows {
		rows[i] = -1
	}
	for j, i := range cols {
		if i >= 0 {
			rows[i] = j
		}
	}
	return rows
}

// hungarian solves the assignment problem for an n×m cost matrix with
// n <= m using shortest augmenting paths with potentials. It returns, for
// each row, the assigned column.
func hungarian(cost [][]float64) []int {
	n := len(cost)
	if n == 0 {
		return nil
	}
	m := len(cost[0])
	if m < n {
		return nil
	}

	u := make([]float64, n+1)
	v := make([]float64, m+1)
	p := make([]int, m+1)
	way := make([]int, m+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, m+1)
		used := make([]bool, m+1)
		for j := 0; j <= m; j++ {
			minv[j] = math.Inf(1)
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= m; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
			if j0 == 0 {
				break
			}
		}
	}

	assign := make([]int, n)
	for i := range assign {
		assign[i] = -1
	}
	for j := 1; j <= m; j++ {
		if p[j] > 0 {
			assign[p[j]-1] = j - 1
		}
	}
	return assign
}
