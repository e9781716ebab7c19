package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/omr-tools/internal/geometry"
)

func TestDrawRing(t *testing.T) {
	img := createTestImage(80, 80, color.White)
	green := color.RGBA{34, 197, 94, 255}

	DrawRing(img, geometry.Pt(40, 40), 27.5, 7, green)

	if img.RGBAAt(40, 40) != (color.RGBA{255, 255, 255, 255}) {
		t.Error("ring center should stay untouched")
	}
	if img.RGBAAt(40+25, 40) != green {
		t.Errorf("stroke pixel: got %v", img.RGBAAt(65, 40))
	}
	if img.RGBAAt(40+19, 40) != (color.RGBA{255, 255, 255, 255}) {
		t.Error("pixel inside the stroke should stay untouched")
	}
}

func TestDrawDot(t *testing.T) {
	img := createTestImage(40, 40, color.White)
	fill := color.RGBA{225, 29, 72, 255}
	black := color.RGBA{0, 0, 0, 255}

	DrawDot(img, geometry.Pt(20, 20), 12.5, fill, black, 3)

	if img.RGBAAt(20, 20) != fill {
		t.Errorf("center: got %v", img.RGBAAt(20, 20))
	}
	if img.RGBAAt(20+11, 20) != black {
		t.Errorf("outline: got %v", img.RGBAAt(31, 20))
	}
}

func TestDrawDot_ClipsAtBorder(t *testing.T) {
	img := createTestImage(10, 10, color.White)
	DrawDot(img, geometry.Pt(0, 0), 12.5, color.RGBA{255, 0, 0, 255}, color.RGBA{0, 0, 0, 255}, 3)
	if img.RGBAAt(0, 0).G != 0 {
		t.Error("corner pixel should be painted")
	}
}

func TestGrayToRGBA(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.SetGray(1, 0, color.Gray{Y: 200})
	out := GrayToRGBA(gray)
	if out.RGBAAt(1, 0) != (color.RGBA{200, 200, 200, 255}) {
		t.Errorf("got %v", out.RGBAAt(1, 0))
	}
}
