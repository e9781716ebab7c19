package omr

import (
	"image"

	"github.com/ironsheep/omr-tools/internal/geometry"
)

// Canonical sheet geometry. Every downstream coordinate is expressed in this
// frame.
const (
	CanonicalWidth  = 2380
	CanonicalHeight = 3368
)

// Coarse alignment insets: corner markers land this far from each edge.
const (
	coarseInsetLeft  = 70
	coarseInsetRight = 74
)

// Fiducial ids.
var (
	// CornerIDs are the sheet corner markers in top-left, top-right,
	// bottom-right, bottom-left order.
	CornerIDs = [4]int{1, 2, 11, 9}

	// InteriorIDs are the markers used to refine the coarse alignment.
	InteriorIDs = []int{3, 5, 7, 9, 11}
)

// DestinationMarkers maps a marker id to its centroid on the canonical
// sheet.
var DestinationMarkers = map[int]geometry.Point{
	1:  {X: 69.5, Y: 69.5},
	2:  {X: 2309.5, Y: 69.5},
	3:  {X: 69.5, Y: 389.5},
	4:  {X: 1189.5, Y: 389.5},
	5:  {X: 2309.5, Y: 389.5},
	6:  {X: 69.5, Y: 1839.5},
	7:  {X: 1189.5, Y: 1839.5},
	8:  {X: 2309.5, Y: 1839.5},
	9:  {X: 69.5, Y: 3289.5},
	10: {X: 1189.5, Y: 3289.5},
	11: {X: 2309.5, Y: 3289.5},
}

// CoarseCorners returns the stage-one destination for the corner markers in
// CornerIDs order.
func CoarseCorners() [4]geometry.Point {
	w, h := float64(CanonicalWidth), float64(CanonicalHeight)
	return [4]geometry.Point{
		{X: coarseInsetLeft, Y: coarseInsetLeft},
		{X: w - coarseInsetRight, Y: coarseInsetLeft},
		{X: w - coarseInsetRight, Y: h - coarseInsetRight},
		{X: coarseInsetLeft, Y: h - coarseInsetRight},
	}
}

// Answer area. Detected circles outside it are ignored.
const (
	boundaryMinX = 70
	boundaryMaxX = 2306
	boundaryMinY = 390.5
	boundaryMaxY = 3294
)

// InBoundary reports whether p lies inside the answer area, edges included.
func InBoundary(p geometry.Point) bool {
	return p.X >= boundaryMinX && p.X <= boundaryMaxX && p.Y >= boundaryMinY && p.Y <= boundaryMaxY
}

// QR code window, anchored to the top-right corner of the canonical sheet.
const (
	qrSize        = 380
	qrRightMargin = 105
	qrTop         = 55
)

// QRRegion returns the crop rectangle of the metadata code on a sheet of
// the given width.
func QRRegion(width int) image.Rectangle {
	left := width - qrRightMargin - qrSize
	return image.Rect(left, qrTop, left+qrSize, qrTop+qrSize)
}

// ContrastGain is the linear stretch applied before marker and QR detection.
const ContrastGain = 1.5

// Marker is a detected fiducial.
type Marker struct {
	ID       int            `json:"id"`
	Position geometry.Point `json:"position"`
}

// SheetMetadata describes the answer block printed on a sheet.
type SheetMetadata struct {
	ScaleName   string `json:"scale"`
	OptionCount int    `json:"option"`
	ChoiceStart int    `json:"start"`
	ChoiceCount int    `json:"count"`
	ChoiceTotal int    `json:"total"`
}

// Choice is one bubble of a question. Position is nil until matched to a
// detected circle.
type Choice struct {
	Value    int             `json:"value"`
	Position *geometry.Point `json:"position"`
}

// ExpectedSlot is a question and its bubbles.
type ExpectedSlot struct {
	QuestionIndex int      `json:"question_index"`
	Choices       []Choice `json:"choices"`
}

// clone returns a deep copy of s.
func (s ExpectedSlot) clone() ExpectedSlot {
	out := ExpectedSlot{QuestionIndex: s.QuestionIndex, Choices: make([]Choice, len(s.Choices))}
	for i, c := range s.Choices {
		out.Choices[i] = Choice{Value: c.Value}
		if c.Position != nil {
			p := *c.Position
			out.Choices[i].Position = &p
		}
	}
	return out
}

// ClassificationResult is the marked value of one question, nil when no
// bubble is clearly marked.
type ClassificationResult struct {
	QuestionIndex int  `json:"question_index"`
	Value         *int `json:"value"`
}
