package detection

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
)

// createTestImage creates a solid gray test image
func createTestImage(width, height int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// drawDisc fills a disc of the given radius with v
func drawDisc(img *image.Gray, cx, cy, radius int, v uint8) {
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				img.SetGray(x, y, color.Gray{Y: v})
			}
		}
	}
}

func testParams() CircleParams {
	p := DefaultCircleParams()
	p.Param2 = 15
	return p
}

func TestHoughFinder_FindsDiscs(t *testing.T) {
	img := createTestImage(240, 120, 255)
	drawDisc(img, 60, 60, 20, 0)
	drawDisc(img, 170, 60, 20, 0)

	circles, err := NewHoughFinder().FindCircles(img, testParams())
	if err != nil {
		t.Fatalf("FindCircles failed: %v", err)
	}
	if len(circles) != 2 {
		t.Fatalf("expected 2 circles, got %d: %+v", len(circles), circles)
	}

	for _, want := range [][2]float64{{60, 60}, {170, 60}} {
		found := false
		for _, c := range circles {
			if math.Hypot(c.Center.X-want[0], c.Center.Y-want[1]) <= 3 {
				found = true
				if math.Abs(c.Radius-20) > 3 {
					t.Errorf("radius at %v: got %v, want ~20", want, c.Radius)
				}
			}
		}
		if !found {
			t.Errorf("no circle near %v in %+v", want, circles)
		}
	}
}

func TestHoughFinder_BlankImage(t *testing.T) {
	circles, err := NewHoughFinder().FindCircles(createTestImage(80, 80, 255), DefaultCircleParams())
	if err != nil {
		t.Fatalf("FindCircles failed: %v", err)
	}
	if len(circles) != 0 {
		t.Errorf("expected no circles, got %+v", circles)
	}
}

func TestHoughFinder_MinDist(t *testing.T) {
	img := createTestImage(200, 100, 255)
	drawDisc(img, 60, 50, 20, 0)
	drawDisc(img, 110, 50, 20, 0)

	p := testParams()
	p.MinDist = 80
	circles, err := NewHoughFinder().FindCircles(img, p)
	if err != nil {
		t.Fatalf("FindCircles failed: %v", err)
	}
	if len(circles) != 1 {
		t.Errorf("discs 50px apart with MinDist 80 should yield one circle, got %d", len(circles))
	}
}

func TestCircleParams_Validate(t *testing.T) {
	if err := DefaultCircleParams().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}

	bad := []CircleParams{
		{DP: 0, Param1: 50, Param2: 30, MinRadius: 5, MaxRadius: 50},
		{DP: 1, Param1: 50, Param2: 30, MinRadius: 60, MaxRadius: 50},
		{DP: 1, Param1: 0, Param2: 30, MinRadius: 5, MaxRadius: 50},
		{DP: 1, Param1: 50, Param2: 30},
	}
	for i, p := range bad {
		if err := p.Validate(); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("case %d: expected ErrInvalidParams, got %v", i, err)
		}
	}

	if _, err := NewHoughFinder().FindCircles(createTestImage(4, 4, 0), bad[0]); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("FindCircles should reject bad params, got %v", err)
	}
}
