package geometry

import (
	"errors"
	"testing"
)

func TestEstimateHomography_Exact(t *testing.T) {
	want := Homography{1.1, 0.05, 30, -0.02, 0.95, 12, 1e-5, -2e-5, 1}
	src := []Point{Pt(0, 0), Pt(1000, 0), Pt(1000, 1400), Pt(0, 1400)}
	dst := make([]Point, len(src))
	for i, p := range src {
		dst[i] = want.Apply(p)
	}

	h, err := EstimateHomography(src, dst)
	if err != nil {
		t.Fatalf("EstimateHomography failed: %v", err)
	}

	for _, p := range []Point{Pt(500, 700), Pt(10, 1300), Pt(999, 1)} {
		got := h.Apply(p)
		exp := want.Apply(p)
		if got.Distance(exp) > 1e-6 {
			t.Errorf("Apply(%v): got %v, want %v", p, got, exp)
		}
	}
}

func TestEstimateHomography_Collinear(t *testing.T) {
	src := []Point{Pt(0, 0), Pt(10, 10), Pt(20, 20), Pt(0, 30)}
	dst := []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}

	_, err := EstimateHomography(src, dst)
	if !errors.Is(err, ErrDegenerate) {
		t.Errorf("expected ErrDegenerate, got %v", err)
	}
}

func TestEstimateHomography_TooFewPoints(t *testing.T) {
	_, err := EstimateHomography([]Point{Pt(0, 0), Pt(1, 0), Pt(0, 1)}, []Point{Pt(0, 0), Pt(1, 0), Pt(0, 1)})
	if !errors.Is(err, ErrDegenerate) {
		t.Errorf("expected ErrDegenerate, got %v", err)
	}
}

func TestHomography_Inverse(t *testing.T) {
	h := Homography{2, 0.1, 5, 0.05, 1.5, -3, 1e-4, 0, 1}
	inv, err := h.Inverse()
	if err != nil {
		t.Fatalf("Inverse failed: %v", err)
	}
	p := Pt(123, 456)
	if got := inv.Apply(h.Apply(p)); got.Distance(p) > 1e-9 {
		t.Errorf("round trip: got %v, want %v", got, p)
	}

	if _, err := (Homography{}).Inverse(); !errors.Is(err, ErrDegenerate) {
		t.Errorf("zero matrix should be singular, got %v", err)
	}
}

func TestEstimateHomographyRobust_RejectsOutlier(t *testing.T) {
	want := Homography{1.02, 0.01, 4, -0.01, 0.98, -6, 0, 0, 1}
	src := []Point{Pt(70, 390), Pt(2310, 390), Pt(70, 3290), Pt(2310, 3290), Pt(1190, 1840), Pt(1190, 390)}
	dst := make([]Point, len(src))
	for i, p := range src {
		dst[i] = want.Apply(p)
	}
	dst[5] = Pt(dst[5].X+40, dst[5].Y-25)

	res, err := EstimateHomographyRobust(src, dst, 5.0)
	if err != nil {
		t.Fatalf("EstimateHomographyRobust failed: %v", err)
	}
	if res.InlierCount != 5 {
		t.Errorf("InlierCount: got %d, want 5", res.InlierCount)
	}
	if res.Inliers[5] {
		t.Error("perturbed pair should be an outlier")
	}
	p := Pt(600, 2000)
	if got := res.H.Apply(p); got.Distance(want.Apply(p)) > 1e-3 {
		t.Errorf("Apply(%v): got %v, want %v", p, got, want.Apply(p))
	}
}

func TestEstimateHomographyRobust_AllDegenerate(t *testing.T) {
	line := []Point{Pt(0, 0), Pt(1, 1), Pt(2, 2), Pt(3, 3), Pt(4, 4)}
	_, err := EstimateHomographyRobust(line, line, 5.0)
	if !errors.Is(err, ErrDegenerate) {
		t.Errorf("expected ErrDegenerate, got %v", err)
	}
}
