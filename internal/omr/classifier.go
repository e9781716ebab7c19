package omr

import (
	"image"

	"github.com/ironsheep/omr-tools/internal/imaging"
)

// Classifier defaults.
const (
	DefaultMargin = 0.12
	windowSize    = 48
)

// BubbleClassifier decides which bubble of each question is filled.
type BubbleClassifier struct {
	margin float64
}

// NewBubbleClassifier creates a classifier. A non-positive margin selects
// DefaultMargin.
func NewBubbleClassifier(margin float64) *BubbleClassifier {
	if margin <= 0 {
		margin = DefaultMargin
	}
	return &BubbleClassifier{margin: margin}
}

// Classify scores every matched bubble by the fraction of white pixels in a
// 48×48 window around it on the Otsu-binarized sheet. A filled bubble is
// dark, so the lowest ratio is the candidate answer. It is accepted only
// when the next-lowest ratio exceeds it by at least the margin; otherwise
// the question's value is nil.
//
// Questions with fewer than two scorable bubbles are nil. A bubble is
// scorable when its position is set and its window overlaps the image.
func (c *BubbleClassifier) Classify(canonical image.Image, slots []ExpectedSlot) []ClassificationResult {
	bin := imaging.OtsuBinarize(imaging.Grayscale(canonical))
	return c.classifyBinary(bin, slots)
}

func (c *BubbleClassifier) classifyBinary(bin *image.Gray, slots []ExpectedSlot) []ClassificationResult {
	results := make([]ClassificationResult, 0, len(slots))
	for _, s := range slots {
		var values []int
		var ratios []float64
		for _, ch := range s.Choices {
			if ch.Position == nil {
				continue
			}
			ratio, ok := imaging.WhiteRatio(bin, imaging.Window(ch.Position.X, ch.Position.Y, windowSize))
			if !ok {
				continue
			}
			values = append(values, ch.Value)
			ratios = append(ratios, ratio)
		}

		res := ClassificationResult{QuestionIndex: s.QuestionIndex}
		if idx, ok := selectMarked(ratios, c.margin); ok {
			v := values[idx]
			res.Value = &v
		}
		results = append(results, res)
	}
	return results
}

// selectMarked returns the index of the first minimum of ratios when the
// smallest of the remaining ratios exceeds it by at least margin.
func selectMarked(ratios []float64, margin float64) (int, bool) {
	if len(ratios) < 2 {
		return 0, false
	}

	minIdx := 0
	for i, r := range ratios {
		if r < ratios[minIdx] {
			minIdx = i
		}
	}

	second := -1
	for i, r := range ratios {
		if i == minIdx {
			continue
		}
		if second < 0 || r < ratios[second] {
			second = i
		}
	}

	if ratios[second]-ratios[minIdx] >= margin {
		return minIdx, true
	}
	return 0, false
}
