package omr

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/omr-tools/internal/geometry"
	"github.com/ironsheep/omr-tools/internal/imaging"
)

// reprojectionThreshold is the inlier distance, in canonical pixels, for
// the fine alignment.
const reprojectionThreshold = 5.0

// PerspectiveAligner warps a photographed sheet into the canonical frame.
type PerspectiveAligner struct {
	detector *MarkerDetector
}

// NewPerspectiveAligner creates an aligner that uses detector for the fine
// stage.
func NewPerspectiveAligner(detector *MarkerDetector) *PerspectiveAligner {
	return &PerspectiveAligner{detector: detector}
}

// Align produces the CanonicalWidth×CanonicalHeight sheet image.
//
// # Stages
//
//  1. Coarse: the four corner markers are mapped exactly onto the inset
//     rectangle from CoarseCorners and img is warped.
//  2. Fine: markers are re-detected on the coarse image. The interior ids
//     found there are paired with DestinationMarkers, a robust homography is
//     estimated with a 5px inlier threshold, and the coarse image is warped
//     again.
//
// Returns an AlignmentFailure error when a stage has fewer than four
// correspondences, when the points are degenerate, or when the fine stage
// finds no markers at all.
func (a *PerspectiveAligner) Align(img image.Image, markers []Marker) (*image.RGBA, error) {
	coarse, err := a.coarse(img, markers)
	if err != nil {
		return nil, err
	}

	refined, err := a.detector.Detect(coarse, false)
	if err != nil {
		if IsKind(err, KindNotFound) {
			return nil, NewAlignmentError("align", "no markers on coarse sheet", err)
		}
		return nil, err
	}

	present := markerIndex(refined)
	var src, dst []geometry.Point
	for _, id := range InteriorIDs {
		p, ok := present[id]
		if !ok {
			continue
		}
		d, ok := DestinationMarkers[id]
		if !ok {
			continue
		}
		src = append(src, p)
		dst = append(dst, d)
	}
	if len(src) < 4 {
		return nil, NewAlignmentError("align",
			fmt.Sprintf("fine stage has %d correspondences, need 4", len(src)), nil)
	}

	res, err := geometry.EstimateHomographyRobust(src, dst, reprojectionThreshold)
	if err != nil {
		return nil, alignmentCause(err)
	}

	out, err := imaging.WarpPerspective(coarse, res.H, CanonicalWidth, CanonicalHeight)
	if err != nil {
		return nil, alignmentCause(err)
	}
	return out, nil
}

func (a *PerspectiveAligner) coarse(img image.Image, markers []Marker) (*image.RGBA, error) {
	present := markerIndex(markers)
	corners := CoarseCorners()

	var src, dst []geometry.Point
	for i, id := range CornerIDs {
		if p, ok := present[id]; ok {
			src = append(src, p)
			dst = append(dst, corners[i])
		}
	}
	if len(src) < 4 {
		return nil, NewAlignmentError("align",
			fmt.Sprintf("coarse stage has %d corner markers, need 4", len(src)), nil)
	}

	h, err := geometry.EstimateHomography(src, dst)
	if err != nil {
		return nil, alignmentCause(err)
	}
	out, err := imaging.WarpPerspective(img, h, CanonicalWidth, CanonicalHeight)
	if err != nil {
		return nil, alignmentCause(err)
	}
	return out, nil
}

func alignmentCause(err error) error {
	if errors.Is(err, geometry.ErrDegenerate) {
		return NewAlignmentError("align", "degenerate marker configuration", err)
	}
	return NewAlignmentError("align", "homography estimation failed", err)
}
