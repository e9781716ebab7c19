package omr

import (
	"image"
	"image/color"
	"sync"

	"github.com/ironsheep/omr-tools/internal/detection"
	"github.com/ironsheep/omr-tools/internal/geometry"
)

// createTestImage creates a solid color test image
func createTestImage(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
)

// fillDisc paints a solid disc
func fillDisc(img *image.RGBA, c geometry.Point, radius float64, col color.RGBA) {
	for y := int(c.Y - radius); y <= int(c.Y+radius); y++ {
		for x := int(c.X - radius); x <= int(c.X+radius); x++ {
			dx, dy := float64(x)-c.X, float64(y)-c.Y
			if dx*dx+dy*dy <= radius*radius {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// strokeCircle paints a thin circle outline
func strokeCircle(img *image.RGBA, c geometry.Point, radius, width float64, col color.RGBA) {
	for y := int(c.Y - radius - 1); y <= int(c.Y+radius+1); y++ {
		for x := int(c.X - radius - 1); x <= int(c.X+radius+1); x++ {
			d := geometry.Pt(float64(x), float64(y)).Distance(c)
			if d <= radius && d >= radius-width {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// squareAround returns the corners of a side×side square centered on p
func squareAround(p geometry.Point, side float64) [4]geometry.Point {
	h := side / 2
	return [4]geometry.Point{
		{X: p.X - h, Y: p.Y - h},
		{X: p.X + h, Y: p.Y - h},
		{X: p.X + h, Y: p.Y + h},
		{X: p.X - h, Y: p.Y + h},
	}
}

// scriptedMarkers returns one canned marker list per call, repeating the
// last list once the script runs out.
type scriptedMarkers struct {
	mu    sync.Mutex
	calls int
	lists [][]RawMarker
	err   error
}

func (s *scriptedMarkers) DetectMarkers(*image.Gray) ([]RawMarker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	i := s.calls
	if i >= len(s.lists) {
		i = len(s.lists) - 1
	}
	s.calls++
	return s.lists[i], nil
}

// markersAt builds raw markers for ids at positions mapped through h
func markersAt(ids []int, h geometry.Homography) []RawMarker {
	out := make([]RawMarker, 0, len(ids))
	for _, id := range ids {
		out = append(out, RawMarker{ID: id, Corners: squareAround(h.Apply(DestinationMarkers[id]), 40)})
	}
	return out
}

type fixedCode struct {
	text string
	err  error
}

func (f fixedCode) ReadCode(image.Image) (string, error) {
	return f.text, f.err
}

type fixedCircles struct {
	circles []detection.Circle
	err     error
}

func (f fixedCircles) FindCircles(*image.Gray, detection.CircleParams) ([]detection.Circle, error) {
	return f.circles, f.err
}

func intPtr(v int) *int {
	return &v
}
