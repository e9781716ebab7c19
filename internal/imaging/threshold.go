package imaging

import (
	"image"
	"math"
)

// flt32Epsilon is the single-precision machine epsilon OpenCV uses to skip
// empty classes during the Otsu search.
const flt32Epsilon = 1.1920928955078125e-07

// Histogram counts the pixels of each intensity in gray.
func Histogram(gray *image.Gray) [256]int {
	var h [256]int
	b := gray.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := gray.Pix[gray.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			h[row[x]]++
		}
	}
	return h
}

// OtsuLevel returns the threshold that maximizes the between-class variance
// of gray's histogram.
//
// # Algorithm
//
// The search walks intensities 0..255 keeping running class weight q1 and
// class mean mu1. Levels where either class weight is within float32 epsilon
// of 0 or 1 are skipped. The first level with the strictly largest
// between-class variance q1·q2·(mu1−mu2)² wins, so a single-valued image
// yields 0.
func OtsuLevel(gray *image.Gray) uint8 {
	hist := Histogram(gray)
	total := 0
	for _, c := range hist {
		total += c
	}
	if total == 0 {
		return 0
	}

	scale := 1.0 / float64(total)
	mu := 0.0
	for i, c := range hist {
		mu += float64(i) * float64(c)
	}
	mu *= scale

	var q1, mu1, maxSigma float64
	level := 0
	for i, c := range hist {
		p := float64(c) * scale
		mu1 *= q1
		q1 += p
		q2 := 1 - q1

		if math.Min(q1, q2) < flt32Epsilon || math.Max(q1, q2) > 1-flt32Epsilon {
			continue
		}

		mu1 = (mu1 + float64(i)*p) / q1
		mu2 := (mu - q1*mu1) / q2
		sigma := q1 * q2 * (mu1 - mu2) * (mu1 - mu2)
		if sigma > maxSigma {
			maxSigma = sigma
			level = i
		}
	}
	return uint8(level)
}

// Binarize returns a new image with 255 where gray exceeds level and 0
// elsewhere.
func Binarize(gray *image.Gray, level uint8) *image.Gray {
	b := gray.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := gray.Pix[gray.PixOffset(b.Min.X, b.Min.Y+y):]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < b.Dx(); x++ {
			if src[x] > level {
				dst[x] = 255
			}
		}
	}
	return out
}

// OtsuBinarize is Binarize(gray, OtsuLevel(gray)).
func OtsuBinarize(gray *image.Gray) *image.Gray {
	return Binarize(gray, OtsuLevel(gray))
}

// WhiteRatio returns the fraction of pixels equal to 255 inside r, clipped
// to the bounds of bin. ok is false when the clipped region is empty.
func WhiteRatio(bin *image.Gray, r image.Rectangle) (ratio float64, ok bool) {
	r = r.Intersect(bin.Bounds())
	if r.Empty() {
		return 0, false
	}
	white := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := bin.Pix[bin.PixOffset(r.Min.X, y):]
		for x := 0; x < r.Dx(); x++ {
			if row[x] == 255 {
				white++
			}
		}
	}
	return float64(white) / float64(r.Dx()*r.Dy()), true
}
