package omr

import (
	"fmt"
	"image"
	"sort"

	"github.com/ironsheep/omr-tools/internal/geometry"
	"github.com/ironsheep/omr-tools/internal/imaging"
)

// RawMarker is a fiducial as reported by a detector: its id and the four
// corners of its square.
type RawMarker struct {
	ID      int
	Corners [4]geometry.Point
}

// MarkerSource finds fiducial markers in a contrast-stretched grayscale
// image.
type MarkerSource interface {
	DetectMarkers(gray *image.Gray) ([]RawMarker, error)
}

// MarkerDetector reduces raw fiducials to id-sorted centroids.
type MarkerDetector struct {
	source MarkerSource
	gain   float64
}

// NewMarkerDetector creates a detector over source.
func NewMarkerDetector(source MarkerSource) *MarkerDetector {
	return &MarkerDetector{source: source, gain: ContrastGain}
}

// Detect locates the fiducial markers in img.
//
// The image is converted to grayscale and contrast-stretched before
// detection. Each marker's position is the mean of its four corners, and the
// result is sorted by ascending id.
//
// Returns a NotFound error when no markers are found, and an
// InsufficientCorners error when requireCorners is set and any of the four
// corner ids is missing.
func (d *MarkerDetector) Detect(img image.Image, requireCorners bool) ([]Marker, error) {
	gray := imaging.ContrastStretch(imaging.Grayscale(img), d.gain)

	raw, err := d.source.DetectMarkers(gray)
	if err != nil {
		return nil, fmt.Errorf("detect markers: %w", err)
	}
	if len(raw) == 0 {
		return nil, NewNotFoundError("markers", "no fiducial markers detected")
	}

	markers := make([]Marker, 0, len(raw))
	for _, r := range raw {
		markers = append(markers, Marker{ID: r.ID, Position: geometry.Centroid(r.Corners[:])})
	}
	sort.SliceStable(markers, func(i, j int) bool {
		return markers[i].ID < markers[j].ID
	})

	if requireCorners {
		present := markerIndex(markers)
		missing := 0
		for _, id := range CornerIDs {
			if _, ok := present[id]; !ok {
				missing++
			}
		}
		if missing > 0 {
			return nil, NewInsufficientCornersError("markers",
				fmt.Sprintf("%d of %d corner markers missing", missing, len(CornerIDs)))
		}
	}

	return markers, nil
}

// markerIndex maps id to position. When an id repeats, the first occurrence
// wins.
func markerIndex(markers []Marker) map[int]geometry.Point {
	idx := make(map[int]geometry.Point, len(markers))
	for _, m := range markers {
		if _, ok := idx[m.ID]; !ok {
			idx[m.ID] = m.Position
		}
	}
	return idx
}
