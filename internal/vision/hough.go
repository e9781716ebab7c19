//go:build cgo

package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ironsheep/omr-tools/internal/detection"
	"github.com/ironsheep/omr-tools/internal/geometry"
)

// CircleFinder runs OpenCV's Hough gradient circle transform.
type CircleFinder struct{}

// NewCircleFinder returns the OpenCV circle finder.
func NewCircleFinder() (*CircleFinder, error) {
	return &CircleFinder{}, nil
}

// FindCircles blurs gray with a Gaussian kernel of params.BlurKernel and
// passes the remaining params straight to HoughCircles.
func (f *CircleFinder) FindCircles(gray *image.Gray, params detection.CircleParams) ([]detection.Circle, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	src, err := gocv.ImageGrayToMatGray(gray)
	if err != nil {
		return nil, fmt.Errorf("convert image to mat: %w", err)
	}
	defer src.Close()

	blurred := gocv.NewMat()
	defer blurred.Close()
	if params.BlurKernel > 1 {
		k := params.BlurKernel | 1
		gocv.GaussianBlur(src, &blurred, image.Point{X: k, Y: k}, 0, 0, gocv.BorderDefault)
	} else {
		src.CopyTo(&blurred)
	}

	circles := gocv.NewMat()
	defer circles.Close()

	gocv.HoughCirclesWithParams(blurred, &circles, gocv.HoughGradient,
		params.DP, params.MinDist,
		params.Param1, params.Param2,
		params.MinRadius, params.MaxRadius)

	if circles.Empty() || circles.Cols() == 0 {
		return nil, nil
	}

	out := make([]detection.Circle, circles.Cols())
	for i := 0; i < circles.Cols(); i++ {
		out[i] = detection.Circle{
			Center: geometry.Pt(
				float64(circles.GetFloatAt(0, i*3)),
				float64(circles.GetFloatAt(0, i*3+1)),
			),
			Radius: float64(circles.GetFloatAt(0, i*3+2)),
		}
	}
	return out, nil
}
