package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/ironsheep/omr-tools/internal/geometry"
)

// GrayToRGBA expands a single-channel image onto an opaque RGBA canvas.
func GrayToRGBA(gray *image.Gray) *image.RGBA {
	b := gray.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := gray.Pix[gray.PixOffset(b.Min.X, b.Min.Y+y):]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < b.Dx(); x++ {
			v := src[x]
			dst[x*4] = v
			dst[x*4+1] = v
			dst[x*4+2] = v
			dst[x*4+3] = 255
		}
	}
	return out
}

// DrawRing paints a hollow circle of the given outer radius whose stroke
// extends inward by width pixels. A pixel is painted when the distance from
// its center to c lies in [radius−width, radius].
func DrawRing(img *image.RGBA, c geometry.Point, radius, width float64, col color.RGBA) {
	inner := radius - width
	paintDisc(img, c, radius, func(d float64) (color.RGBA, bool) {
		return col, d >= inner
	})
}

// DrawDot paints a filled circle with an outline drawn inside its radius.
func DrawDot(img *image.RGBA, c geometry.Point, radius float64, fill, outline color.RGBA, outlineWidth float64) {
	edge := radius - outlineWidth
	paintDisc(img, c, radius, func(d float64) (color.RGBA, bool) {
		if d > edge {
			return outline, true
		}
		return fill, true
	})
}

// paintDisc visits every pixel within radius of c, clipped to img, and sets
// it to the colour chosen by pick for that distance.
func paintDisc(img *image.RGBA, c geometry.Point, radius float64, pick func(d float64) (color.RGBA, bool)) {
	bounds := img.Bounds()
	x0 := int(math.Floor(c.X - radius))
	x1 := int(math.Ceil(c.X + radius))
	y0 := int(math.Floor(c.Y - radius))
	y1 := int(math.Ceil(c.Y + radius))

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
				continue
			}
			d := math.Hypot(float64(x)-c.X, float64(y)-c.Y)
			if d > radius {
				continue
			}
			if col, ok := pick(d); ok {
				img.SetRGBA(x, y, col)
			}
		}
	}
}
