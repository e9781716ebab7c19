//go:build cgo

package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ironsheep/omr-tools/internal/geometry"
	"github.com/ironsheep/omr-tools/internal/omr"
)

// ArucoSource detects markers from the DICT_4X4_100 ArUco dictionary.
type ArucoSource struct{}

// NewArucoSource returns a marker source for the sheet's fiducials.
func NewArucoSource() (*ArucoSource, error) {
	return &ArucoSource{}, nil
}

// DetectMarkers runs the ArUco detector with default parameters and returns
// every decoded marker with its four corners in detector order.
func (s *ArucoSource) DetectMarkers(gray *image.Gray) ([]omr.RawMarker, error) {
	mat, err := gocv.ImageGrayToMatGray(gray)
	if err != nil {
		return nil, fmt.Errorf("convert image to mat: %w", err)
	}
	defer mat.Close()

	dict := gocv.GetPredefinedDictionary(gocv.ArucoDict4x4_100)
	params := gocv.NewArucoDetectorParameters()
	detector := gocv.NewArucoDetectorWithParams(dict, params)
	defer detector.Close()

	corners, ids, _ := detector.DetectMarkers(mat)

	markers := make([]omr.RawMarker, 0, len(ids))
	for i, id := range ids {
		if i >= len(corners) || len(corners[i]) != 4 {
			continue
		}
		var m omr.RawMarker
		m.ID = id
		for k, c := range corners[i] {
			m.Corners[k] = geometry.Pt(float64(c.X), float64(c.Y))
		}
		markers = append(markers, m)
	}
	return markers, nil
}
