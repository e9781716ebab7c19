package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/adjust"
)

// Grayscale converts img to 8-bit luminance using the fixed-point BT.601
// weights OpenCV applies in its RGB to gray conversion.
//
// *image.Gray inputs are copied unchanged.
func Grayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	if g, ok := img.(*image.Gray); ok {
		for y := 0; y < bounds.Dy(); y++ {
			src := g.Pix[g.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			copy(out.Pix[y*out.Stride:y*out.Stride+bounds.Dx()], src[:bounds.Dx()])
		}
		return out
	}

	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < bounds.Dy(); y++ {
			src := rgba.Pix[rgba.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			for x := 0; x < bounds.Dx(); x++ {
				p := src[x*4 : x*4+4]
				if p[3] != 255 {
					out.Pix[y*out.Stride+x] = grayValue(rgba.At(bounds.Min.X+x, bounds.Min.Y+y))
					continue
				}
				out.Pix[y*out.Stride+x] = luma(p[0], p[1], p[2])
			}
		}
		return out
	}

	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			out.Pix[y*out.Stride+x] = grayValue(img.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return out
}

// grayValue applies Y = (4899·R + 9617·G + 1868·B + 8192) >> 14 to the
// 8-bit non-premultiplied channels of c.
func grayValue(c color.Color) uint8 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return luma(n.R, n.G, n.B)
}

func luma(r, g, b uint8) uint8 {
	return uint8((uint32(r)*4899 + uint32(g)*9617 + uint32(b)*1868 + 8192) >> 14)
}

// ContrastStretch multiplies every pixel by alpha, rounding half to even and
// saturating to [0,255].
//
// This is the linear stretch applied before fiducial and QR detection so
// that faint print reaches the detectors' binarization thresholds.
func ContrastStretch(gray *image.Gray, alpha float64) *image.Gray {
	var lut [256]uint8
	for v := range lut {
		lut[v] = saturate(math.RoundToEven(alpha * float64(v)))
	}

	stretched := adjust.Apply(gray, func(c color.RGBA) color.RGBA {
		v := lut[c.R]
		return color.RGBA{R: v, G: v, B: v, A: 255}
	})

	b := stretched.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.Pix[y*out.Stride+x] = stretched.Pix[stretched.PixOffset(b.Min.X+x, b.Min.Y+y)]
		}
	}
	return out
}

func saturate(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
