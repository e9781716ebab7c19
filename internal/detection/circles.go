package detection

import (
	"errors"
	"image"
	"math"
	"sort"

	"github.com/anthonynsimon/bild/blur"

	"github.com/ironsheep/omr-tools/internal/geometry"
	"github.com/ironsheep/omr-tools/internal/imaging"
)

// ErrInvalidParams is returned when CircleParams cannot drive a search.
var ErrInvalidParams = errors.New("invalid circle detection parameters")

// Circle represents a detected circular shape.
type Circle struct {
	// Center is the detected center point of the circle.
	Center geometry.Point `json:"center"`

	// Radius is the detected radius in pixels.
	Radius float64 `json:"radius"`

	// Votes is the accumulator count at Center. Higher means a more complete
	// circumference.
	Votes int `json:"votes"`
}

// CircleParams configures a Hough circle search.
type CircleParams struct {
	// BlurKernel is the side of the square Gaussian kernel applied first.
	// Zero or one disables smoothing.
	BlurKernel int `json:"blur_kernel"`

	// DP is the inverse accumulator resolution. 1 votes at full resolution.
	DP float64 `json:"dp"`

	// MinDist is the minimum distance between accepted centers.
	MinDist float64 `json:"min_dist"`

	// Param1 is the high Canny threshold. The low threshold is half of it.
	Param1 float64 `json:"param1"`

	// Param2 is the accumulator threshold a center must exceed.
	Param2 float64 `json:"param2"`

	// MinRadius and MaxRadius bound the searched radii in pixels.
	MinRadius int `json:"min_radius"`
	MaxRadius int `json:"max_radius"`
}

// DefaultCircleParams returns the parameters the bubble scanner is tuned
// for on a 2380×3368 canonical sheet.
func DefaultCircleParams() CircleParams {
	return CircleParams{
		BlurKernel: 5,
		DP:         1,
		MinDist:    50,
		Param1:     50,
		Param2:     30,
		MinRadius:  5,
		MaxRadius:  50,
	}
}

// Validate reports whether p can drive a search.
func (p CircleParams) Validate() error {
	switch {
	case p.DP <= 0:
		return errors.Join(ErrInvalidParams, errors.New("dp must be positive"))
	case p.MinRadius < 0 || p.MaxRadius < p.MinRadius:
		return errors.Join(ErrInvalidParams, errors.New("radius range must satisfy 0 <= min <= max"))
	case p.MaxRadius == 0:
		return errors.Join(ErrInvalidParams, errors.New("max radius must be positive"))
	case p.Param1 <= 0 || p.Param2 <= 0:
		return errors.Join(ErrInvalidParams, errors.New("thresholds must be positive"))
	}
	return nil
}

// CircleFinder locates circles in a grayscale image.
type CircleFinder interface {
	FindCircles(gray *image.Gray, params CircleParams) ([]Circle, error)
}

// HoughFinder is a pure-Go CircleFinder.
type HoughFinder struct{}

// NewHoughFinder returns the native circle finder.
func NewHoughFinder() *HoughFinder {
	return &HoughFinder{}
}

// FindCircles runs the Hough gradient transform on gray.
//
// Parameters:
//   - gray: Source image. It is not modified.
//   - params: Search configuration, see [CircleParams].
//
// Returns:
//   - []Circle: Detected circles, strongest accumulator peak first.
//   - error: ErrInvalidParams when params fail validation.
func (f *HoughFinder) FindCircles(gray *image.Gray, params CircleParams) ([]Circle, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	src := gray
	if params.BlurKernel > 1 {
		src = smooth(gray, params.BlurKernel)
	}

	edges := imaging.Canny(src, params.Param1/2, params.Param1)
	width, height := edges.Width, edges.Height
	if width == 0 || height == 0 {
		return nil, nil
	}

	accW := int(math.Ceil(float64(width) / params.DP))
	accH := int(math.Ceil(float64(height) / params.DP))
	acc := make([]int32, accW*accH)

	var points []geometry.Point
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if !edges.Edge[i] {
				continue
			}
			dx, dy := edges.DX[i], edges.DY[i]
			mag := math.Hypot(dx, dy)
			if mag == 0 {
				continue
			}
			points = append(points, geometry.Pt(float64(x), float64(y)))

			ux, uy := dx/mag, dy/mag
			for _, sign := range [2]float64{1, -1} {
				for r := params.MinRadius; r <= params.MaxRadius; r++ {
					cx := (float64(x) + sign*float64(r)*ux) / params.DP
					cy := (float64(y) + sign*float64(r)*uy) / params.DP
					ix, iy := int(cx), int(cy)
					if cx < 0 || cy < 0 || ix >= accW || iy >= accH {
						break
					}
					acc[iy*accW+ix]++
				}
			}
		}
	}

	peaks := findPeaks(acc, accW, accH, params.Param2)
	buckets := newPointGrid(points, float64(params.MaxRadius)+1)

	circles := make([]Circle, 0)
	minDist2 := params.MinDist * params.MinDist
	for _, pk := range peaks {
		center := geometry.Pt((float64(pk.x)+0.5)*params.DP, (float64(pk.y)+0.5)*params.DP)

		tooClose := false
		for _, c := range circles {
			dx, dy := c.Center.X-center.X, c.Center.Y-center.Y
			if dx*dx+dy*dy < minDist2 {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}

		radius, ok := estimateRadius(buckets, center, params.MinRadius, params.MaxRadius)
		if !ok {
			continue
		}
		circles = append(circles, Circle{Center: center, Radius: radius, Votes: pk.votes})
	}

	return circles, nil
}

type peak struct {
	x, y  int
	votes int
}

// findPeaks returns accumulator cells above threshold that are local maxima
// over their 4-neighbourhood, strongest first. Ties between equal
// neighbours go to the upper-left cell.
func findPeaks(acc []int32, w, h int, threshold float64) []peak {
	var peaks []peak
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			v := acc[i]
			if float64(v) <= threshold {
				continue
			}
			if v > acc[i-1] && v >= acc[i+1] && v > acc[i-w] && v >= acc[i+w] {
				peaks = append(peaks, peak{x: x, y: y, votes: int(v)})
			}
		}
	}
	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].votes > peaks[j].votes
	})
	return peaks
}

// estimateRadius picks the integer radius in [minR, maxR] supported by the
// most edge pixels around center.
func estimateRadius(g *pointGrid, center geometry.Point, minR, maxR int) (float64, bool) {
	counts := make([]int, maxR+2)
	g.visit(center, float64(maxR)+0.5, func(p geometry.Point) {
		r := int(math.Round(p.Distance(center)))
		if r >= minR && r <= maxR {
			counts[r]++
		}
	})

	best, bestCount := 0, 0
	for r := minR; r <= maxR; r++ {
		if counts[r] > bestCount {
			best, bestCount = r, counts[r]
		}
	}
	if bestCount == 0 {
		return 0, false
	}
	return float64(best), true
}

// smooth applies a Gaussian blur whose sigma follows OpenCV's default for a
// kernel of the given size.
func smooth(gray *image.Gray, kernel int) *image.Gray {
	sigma := 0.3*((float64(kernel)-1)*0.5-1) + 0.8
	blurred := blur.Gaussian(gray, sigma)

	b := blurred.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.Pix[y*out.Stride+x] = blurred.Pix[blurred.PixOffset(b.Min.X+x, b.Min.Y+y)]
		}
	}
	return out
}

// pointGrid buckets points into square cells for radius queries.
type pointGrid struct {
	cell  float64
	cells map[[2]int][]geometry.Point
}

func newPointGrid(points []geometry.Point, cell float64) *pointGrid {
	g := &pointGrid{cell: cell, cells: make(map[[2]int][]geometry.Point)}
	for _, p := range points {
		k := [2]int{int(p.X / cell), int(p.Y / cell)}
		g.cells[k] = append(g.cells[k], p)
	}
	return g
}

func (g *pointGrid) visit(center geometry.Point, radius float64, fn func(geometry.Point)) {
	x0 := int(math.Floor((center.X - radius) / g.cell))
	x1 := int(math.Floor((center.X + radius) / g.cell))
	y0 := int(math.Floor((center.Y - radius) / g.cell))
	y1 := int(math.Floor((center.Y + radius) / g.cell))
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			for _, p := range g.cells[[2]int{cx, cy}] {
				fn(p)
			}
		}
	}
}
