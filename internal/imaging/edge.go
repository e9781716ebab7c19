package imaging

import (
	"image"
	"math"
)

// EdgeMap is the output of Canny: a thinned edge mask together with the
// Sobel derivatives it was computed from.
//
// All slices are row-major with Width×Height entries.
type EdgeMap struct {
	Width  int
	Height int

	// Edge marks pixels that survived non-maximum suppression and hysteresis.
	Edge []bool

	// DX and DY are the 3×3 Sobel derivatives on the 0..255 intensity scale.
	DX []float64
	DY []float64
}

// At reports whether (x, y) is an edge pixel. Out-of-range coordinates are
// never edges.
func (m *EdgeMap) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Edge[y*m.Width+x]
}

// Canny performs Canny edge detection on a grayscale image.
//
// Parameters:
//   - gray: Source image. It is not blurred here; callers smooth first.
//   - thresholdLow: Gradient magnitude (L1, 0..255 scale per derivative) below
//     which pixels are discarded.
//   - thresholdHigh: Magnitude above which pixels are always edges.
//
// # Algorithm
//
//  1. Gradient computation: Sobel operators for X and Y gradients,
//     magnitude = |Gx| + |Gy|
//  2. Non-maximum suppression: keep only local maxima along the gradient
//     direction, quantized to four orientations
//  3. Hysteresis: strong pixels are kept; weak pixels are kept only when an
//     8-neighbour is strong
//
// The circle finder uses thresholdHigh = param1 and thresholdLow = param1/2,
// which is how OpenCV's Hough gradient method drives its internal Canny.
func Canny(gray *image.Gray, thresholdLow, thresholdHigh float64) *EdgeMap {
	b := gray.Bounds()
	width, height := b.Dx(), b.Dy()
	n := width * height

	m := &EdgeMap{
		Width:  width,
		Height: height,
		Edge:   make([]bool, n),
		DX:     make([]float64, n),
		DY:     make([]float64, n),
	}
	if width == 0 || height == 0 {
		return m
	}

	pix := func(x, y int) float64 {
		x = clamp(x, 0, width-1)
		y = clamp(y, 0, height-1)
		return float64(gray.Pix[gray.PixOffset(b.Min.X+x, b.Min.Y+y)])
	}

	magnitude := make([]float64, n)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gx := -pix(x-1, y-1) + pix(x+1, y-1) - 2*pix(x-1, y) + 2*pix(x+1, y) - pix(x-1, y+1) + pix(x+1, y+1)
			gy := -pix(x-1, y-1) - 2*pix(x, y-1) - pix(x+1, y-1) + pix(x-1, y+1) + 2*pix(x, y+1) + pix(x+1, y+1)
			i := y*width + x
			m.DX[i] = gx
			m.DY[i] = gy
			magnitude[i] = math.Abs(gx) + math.Abs(gy)
		}
	}

	// Non-maximum suppression
	suppressed := make([]float64, n)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			mag := magnitude[i]
			if mag <= thresholdLow {
				continue
			}

			angle := math.Atan2(m.DY[i], m.DX[i])
			var n1, n2 float64
			if (angle >= -math.Pi/8 && angle < math.Pi/8) || (angle >= 7*math.Pi/8 || angle < -7*math.Pi/8) {
				n1 = magnitude[i-1]
				n2 = magnitude[i+1]
			} else if (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8) {
				n1 = magnitude[i-width-1]
				n2 = magnitude[i+width+1]
			} else if (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8) {
				n1 = magnitude[i-width]
				n2 = magnitude[i+width]
			} else {
				n1 = magnitude[i-width+1]
				n2 = magnitude[i+width-1]
			}

			if mag >= n1 && mag > n2 {
				suppressed[i] = mag
			}
		}
	}

	// Double threshold and edge tracking by hysteresis
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			val := suppressed[i]
			if val > thresholdHigh {
				m.Edge[i] = true
			} else if val > thresholdLow {
				hasStrongNeighbor := false
				for ky := -1; ky <= 1 && !hasStrongNeighbor; ky++ {
					for kx := -1; kx <= 1 && !hasStrongNeighbor; kx++ {
						py := clamp(y+ky, 0, height-1)
						px := clamp(x+kx, 0, width-1)
						if suppressed[py*width+px] > thresholdHigh {
							hasStrongNeighbor = true
						}
					}
				}
				m.Edge[i] = hasStrongNeighbor
			}
		}
	}

	return m
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
