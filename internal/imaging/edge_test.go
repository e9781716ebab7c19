package imaging

import (
	"image"
	"testing"
)

func TestCanny_VerticalStep(t *testing.T) {
	gray := createTwoToneGray(20, 10, 0, 255)

	m := Canny(gray, 50, 100)
	if m.Width != 20 || m.Height != 10 {
		t.Fatalf("dimensions: got %dx%d", m.Width, m.Height)
	}

	found := false
	for x := 8; x <= 11; x++ {
		if m.At(x, 5) {
			found = true
		}
	}
	if !found {
		t.Error("expected an edge at the step")
	}
	if m.At(2, 5) || m.At(17, 5) {
		t.Error("flat regions should not be edges")
	}
	if m.DX[5*20+10] <= 0 {
		t.Errorf("dark to light step should have positive DX, got %v", m.DX[5*20+10])
	}
}

func TestCanny_Flat(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range gray.Pix {
		gray.Pix[i] = 90
	}
	m := Canny(gray, 50, 100)
	for i, e := range m.Edge {
		if e {
			t.Fatalf("unexpected edge at %d", i)
		}
	}
	if m.At(-1, 0) || m.At(0, 8) {
		t.Error("out-of-range lookups must be false")
	}
}

func TestClamp(t *testing.T) {
	if clamp(-1, 0, 5) != 0 || clamp(7, 0, 5) != 5 || clamp(3, 0, 5) != 3 {
		t.Error("clamp out of range")
	}
}
