package inference

import (
	"fmt"

	"github.com/ironsheep/omr-tools/internal/geometry"
	"github.com/ironsheep/omr-tools/internal/imaging"
)

// InvalidLabel is reported for label indices with no configured name.
const InvalidLabel = "Invalid label"

// DefaultLabels maps the detector's class indices to names.
func DefaultLabels() map[int]string {
	return map[int]string{0: "jewellery", 1: "face"}
}

// Object is one post-processed detection.
type Object struct {
	// Box is center x, center y, width, height as fractions of the source
	// image size.
	Box        [4]float64 `json:"box"`
	Confidence float64    `json:"confidence"`
	Category   string     `json:"category"`
}

// Postprocessor turns raw prediction rows into objects.
type Postprocessor struct {
	Confidence float64
	IoU        float64
	Labels     map[int]string
	Layout     Layout
}

// Process scores, filters and suppresses pred, then maps the surviving
// boxes from letterboxed canvas pixels back onto the source image described
// by src and lb.
//
// A row's confidence is its highest label score and its label is the index
// of that score (the first on ties). Rows scoring at or below p.Confidence
// are discarded.
func (p *Postprocessor) Process(pred [][]float64, src geometry.Dimensions, lb *imaging.LetterboxResult) ([]Object, error) {
	rows, err := p.Layout.rows(pred)
	if err != nil {
		return nil, err
	}
	if src.Width <= 0 || src.Height <= 0 {
		return nil, fmt.Errorf("source %vx%v: %w", src.Width, src.Height, geometry.ErrInvalidDimensions)
	}

	dets := make([]geometry.Detection, 0, len(rows))
	for _, r := range rows {
		label, conf := argmax(r[4:])
		if !(conf > p.Confidence) {
			continue
		}
		dets = append(dets, geometry.Detection{
			CX: r[0], CY: r[1], W: r[2], H: r[3],
			Confidence: conf,
			Label:      label,
		})
	}

	kept := geometry.SuppressNonMax(dets, p.IoU)

	objects := make([]Object, 0, len(kept))
	for _, d := range kept {
		box := unletterbox(d, lb)
		objects = append(objects, Object{
			Box:        geometry.Convert(box, src, geometry.CCWH, false, geometry.CCWH, true),
			Confidence: d.Confidence,
			Category:   p.labelName(d.Label),
		})
	}
	return objects, nil
}

func (p *Postprocessor) labelName(i int) string {
	if name, ok := p.Labels[i]; ok {
		return name
	}
	return InvalidLabel
}

// unletterbox maps a canvas-space box back to source pixels.
func unletterbox(d geometry.Detection, lb *imaging.LetterboxResult) [4]float64 {
	if lb == nil || lb.Scale == 0 {
		return [4]float64{d.CX, d.CY, d.W, d.H}
	}
	return [4]float64{
		(d.CX - float64(lb.OffsetX)) / lb.Scale,
		(d.CY - float64(lb.OffsetY)) / lb.Scale,
		d.W / lb.Scale,
		d.H / lb.Scale,
	}
}

func argmax(scores []float64) (int, float64) {
	best, bestScore := 0, scores[0]
	for i, s := range scores[1:] {
		if s > bestScore {
			best, bestScore = i+1, s
		}
	}
	return best, bestScore
}
