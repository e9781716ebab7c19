package geometry

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerate is returned when a point configuration does not determine a
// unique projective transform.
var ErrDegenerate = errors.New("degenerate point configuration")

// collinearTol is the relative triangle height below which three points are
// treated as lying on one line.
const collinearTol = 1e-6

// maxExhaustiveSubsets caps exhaustive minimal-subset search; larger inputs
// fall back to random sampling.
const (
	maxExhaustiveSubsets = 2000
	randomIterations     = 2000
)

// Homography is a 3×3 projective transform stored row-major and scaled so
// that the bottom-right element is 1 when possible.
type Homography [9]float64

// Identity returns the identity transform.
func Identity() Homography {
	return Homography{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Apply maps p through the transform. Points sent to infinity come back with
// infinite or NaN coordinates.
func (h Homography) Apply(p Point) Point {
	w := h[6]*p.X + h[7]*p.Y + h[8]
	return Point{
		X: (h[0]*p.X + h[1]*p.Y + h[2]) / w,
		Y: (h[3]*p.X + h[4]*p.Y + h[5]) / w,
	}
}

// Inverse returns the inverse transform, or ErrDegenerate when h is
// singular.
func (h Homography) Inverse() (Homography, error) {
	m := mat.NewDense(3, 3, h[:])
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return Homography{}, fmt.Errorf("invert homography: %w", ErrDegenerate)
	}
	var out Homography
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r*3+c] = inv.At(r, c)
		}
	}
	return out.normalized(), nil
}

// Mul returns the composition h∘o, which applies o first.
func (h Homography) Mul(o Homography) Homography {
	a := mat.NewDense(3, 3, h[:])
	b := mat.NewDense(3, 3, o[:])
	var c mat.Dense
	c.Mul(a, b)
	var out Homography
	for r := 0; r < 3; r++ {
		for col := 0; col < 3; col++ {
			out[r*3+col] = c.At(r, col)
		}
	}
	return out.normalized()
}

func (h Homography) normalized() Homography {
	if math.Abs(h[8]) < 1e-12 {
		return h
	}
	s := h[8]
	for i := range h {
		h[i] /= s
	}
	return h
}

func (h Homography) finite() bool {
	for _, v := range h {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// EstimateHomography computes the projective transform mapping each src
// point onto the matching dst point.
//
// With exactly four pairs the result is exact. With more pairs it is the
// algebraic least-squares fit. Points are conditioned by Hartley
// normalization before the SVD solve.
//
// Returns ErrDegenerate when fewer than four pairs are given, when a
// four-point set has three collinear points on either side, or when the
// solve produces a singular or non-finite matrix.
func EstimateHomography(src, dst []Point) (Homography, error) {
	if len(src) != len(dst) {
		return Homography{}, fmt.Errorf("homography: %d source points but %d destination points", len(src), len(dst))
	}
	if len(src) < 4 {
		return Homography{}, fmt.Errorf("homography needs 4 point pairs, got %d: %w", len(src), ErrDegenerate)
	}
	if len(src) == 4 && (hasCollinearTriple(src, collinearTol) || hasCollinearTriple(dst, collinearTol)) {
		return Homography{}, fmt.Errorf("homography: collinear points: %w", ErrDegenerate)
	}

	ts, ns := conditioning(src)
	td, nd := conditioning(dst)

	// Pad to at least 9 rows so the full SVD always exposes the null vector
	// as the last right singular vector.
	rows := 2 * len(src)
	if rows < 9 {
		rows = 9
	}
	a := mat.NewDense(rows, 9, nil)
	for i := range ns {
		x, y := ns[i].X, ns[i].Y
		u, v := nd[i].X, nd[i].Y
		a.SetRow(2*i, []float64{-x, -y, -1, 0, 0, 0, u * x, u * y, u})
		a.SetRow(2*i+1, []float64{0, 0, 0, -x, -y, -1, v * x, v * y, v})
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDFull); !ok {
		return Homography{}, fmt.Errorf("homography: svd did not converge: %w", ErrDegenerate)
	}
	var v mat.Dense
	svd.VTo(&v)

	var hn Homography
	for i := 0; i < 9; i++ {
		hn[i] = v.At(i, 8)
	}

	tdInv, err := td.Inverse()
	if err != nil {
		return Homography{}, err
	}
	h := tdInv.Mul(hn).Mul(ts)
	if !h.finite() || math.Abs(h[8]) < 1e-12 {
		return Homography{}, fmt.Errorf("homography: singular solution: %w", ErrDegenerate)
	}
	if _, err := h.Inverse(); err != nil {
		return Homography{}, err
	}
	return h, nil
}

// RobustResult is the outcome of a consensus homography search.
type RobustResult struct {
	H Homography
	// Inliers flags, per input pair, whether its reprojection error is
	// within the threshold under H.
	Inliers []bool
	// InlierCount is the number of true entries in Inliers.
	InlierCount int
}

// EstimateHomographyRobust fits a homography that tolerates outlier pairs.
//
// Every four-pair subset is tried (random subsets for large inputs). Each
// candidate is scored by the number of pairs whose reprojection error is
// below threshold pixels, ties broken by the lower summed error. The winning
// model is refit on its inliers.
//
// Returns ErrDegenerate when fewer than four pairs are given or when no
// non-degenerate minimal subset exists.
func EstimateHomographyRobust(src, dst []Point, threshold float64) (*RobustResult, error) {
	n := len(src)
	if n != len(dst) {
		return nil, fmt.Errorf("homography: %d source points but %d destination points", n, len(dst))
	}
	if n < 4 {
		return nil, fmt.Errorf("homography needs 4 point pairs, got %d: %w", n, ErrDegenerate)
	}

	var (
		best      Homography
		bestCount = -1
		bestErr   = math.Inf(1)
	)
	try := func(idx [4]int) {
		s := []Point{src[idx[0]], src[idx[1]], src[idx[2]], src[idx[3]]}
		d := []Point{dst[idx[0]], dst[idx[1]], dst[idx[2]], dst[idx[3]]}
		h, err := EstimateHomography(s, d)
		if err != nil {
			return
		}
		count, total := scoreModel(h, src, dst, threshold)
		if count > bestCount || (count == bestCount && total < bestErr) {
			best, bestCount, bestErr = h, count, total
		}
	}

	if binomial4(n) <= maxExhaustiveSubsets {
		for a := 0; a < n; a++ {
			for b := a + 1; b < n; b++ {
				for c := b + 1; c < n; c++ {
					for d := c + 1; d < n; d++ {
						try([4]int{a, b, c, d})
					}
				}
			}
		}
	} else {
		rng := rand.New(rand.NewPCG(uint64(n), 0x5eed))
		for it := 0; it < randomIterations; it++ {
			perm := rng.Perm(n)
			try([4]int{perm[0], perm[1], perm[2], perm[3]})
		}
	}

	if bestCount < 0 {
		return nil, fmt.Errorf("homography: no usable 4-point subset: %w", ErrDegenerate)
	}

	inliers := make([]bool, n)
	var is, id []Point
	for i := range src {
		if reprojectionError(best, src[i], dst[i]) <= threshold {
			inliers[i] = true
			is = append(is, src[i])
			id = append(id, dst[i])
		}
	}
	if len(is) > 4 {
		if refit, err := EstimateHomography(is, id); err == nil {
			if c, _ := scoreModel(refit, src, dst, threshold); c >= bestCount {
				best = refit
				for i := range src {
					inliers[i] = reprojectionError(best, src[i], dst[i]) <= threshold
				}
			}
		}
	}

	count := 0
	for _, in := range inliers {
		if in {
			count++
		}
	}
	return &RobustResult{H: best, Inliers: inliers, InlierCount: count}, nil
}

func scoreModel(h Homography, src, dst []Point, threshold float64) (int, float64) {
	count := 0
	total := 0.0
	for i := range src {
		e := reprojectionError(h, src[i], dst[i])
		if e <= threshold {
			count++
			total += e
		}
	}
	return count, total
}

func reprojectionError(h Homography, s, d Point) float64 {
	e := h.Apply(s).Distance(d)
	if math.IsNaN(e) {
		return math.Inf(1)
	}
	return e
}

func binomial4(n int) int {
	if n < 4 {
		return 0
	}
	return n * (n - 1) * (n - 2) * (n - 3) / 24
}

// conditioning returns the similarity that moves pts to zero mean and mean
// distance √2 from the origin, along with the transformed points.
func conditioning(pts []Point) (Homography, []Point) {
	c := Centroid(pts)
	mean := 0.0
	for _, p := range pts {
		mean += p.Distance(c)
	}
	mean /= float64(len(pts))
	s := 1.0
	if mean > 0 {
		s = math.Sqrt2 / mean
	}
	t := Homography{s, 0, -s * c.X, 0, s, -s * c.Y, 0, 0, 1}
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = Point{X: s * (p.X - c.X), Y: s * (p.Y - c.Y)}
	}
	return t, out
}
