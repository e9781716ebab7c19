package imaging

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrEmptyRegion is returned when a crop rectangle does not overlap the
// image.
var ErrEmptyRegion = errors.New("crop region does not intersect image")

// CropRegion extracts the part of img inside r, clipped to the image bounds.
// The result is re-based so its top-left pixel is (0,0).
func CropRegion(img image.Image, r image.Rectangle) (*image.NRGBA, error) {
	bounds := img.Bounds()
	clipped := r.Intersect(bounds)
	if clipped.Empty() {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d): %w",
			r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y, ErrEmptyRegion)
	}
	return imaging.Crop(img, clipped), nil
}

// Window returns the square of side size whose top-left corner is
// (int(cx − size/2), int(cy − size/2)). Go's int conversion truncates toward
// zero, matching how the scanner was calibrated.
func Window(cx, cy float64, size int) image.Rectangle {
	half := float64(size) / 2
	left := int(cx - half)
	top := int(cy - half)
	return image.Rect(left, top, left+size, top+size)
}
