package geometry

import "math"

// Point is a 2D coordinate in pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Centroid returns the arithmetic mean of pts. It returns the zero point for
// an empty slice.
func Centroid(pts []Point) Point {
	if len(pts) == 0 {
		return Point{}
	}
	var sx, sy float64
	for _, p := range pts {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(pts))
	return Point{X: sx / n, Y: sy / n}
}

// collinear reports whether a, b and c lie on one line. tol bounds the
// triangle height relative to its longest side.
func collinear(a, b, c Point, tol float64) bool {
	cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	side := math.Max(a.Distance(b), math.Max(b.Distance(c), a.Distance(c)))
	if side == 0 {
		return true
	}
	return math.Abs(cross) <= tol*side*side
}

// hasCollinearTriple reports whether any three points of pts are collinear.
func hasCollinearTriple(pts []Point, tol float64) bool {
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			for k := j + 1; k < len(pts); k++ {
				if collinear(pts[i], pts[j], pts[k], tol) {
					return true
				}
			}
		}
	}
	return false
}
