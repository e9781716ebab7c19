//go:build !cgo

package vision

import (
	"image"

	"github.com/ironsheep/omr-tools/internal/detection"
	"github.com/ironsheep/omr-tools/internal/omr"
)

// ArucoSource is unavailable without cgo.
type ArucoSource struct{}

// NewArucoSource always fails without cgo.
func NewArucoSource() (*ArucoSource, error) {
	return nil, ErrUnavailable
}

// DetectMarkers always fails without cgo.
func (s *ArucoSource) DetectMarkers(*image.Gray) ([]omr.RawMarker, error) {
	return nil, ErrUnavailable
}

// CircleFinder is unavailable without cgo.
type CircleFinder struct{}

// NewCircleFinder always fails without cgo.
func NewCircleFinder() (*CircleFinder, error) {
	return nil, ErrUnavailable
}

// FindCircles always fails without cgo.
func (f *CircleFinder) FindCircles(*image.Gray, detection.CircleParams) ([]detection.Circle, error) {
	return nil, ErrUnavailable
}
