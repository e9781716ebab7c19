package omr

import (
	"image"
	"testing"

	"github.com/ironsheep/omr-tools/internal/geometry"
)

func TestSelectMarked(t *testing.T) {
	tests := []struct {
		name    string
		ratios  []float64
		wantIdx int
		wantOK  bool
	}{
		{"clear mark", []float64{0.10, 0.40, 0.42}, 0, true},
		{"too close", []float64{0.30, 0.33}, 0, false},
		{"exact margin", []float64{0.50, 0.25, 0.375}, 1, true},
		{"first of tied minima", []float64{0.2, 0.9, 0.2}, 0, false},
		{"single bubble", []float64{0.1}, 0, false},
		{"none", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := selectMarked(tt.ratios, DefaultMargin)
			if ok != tt.wantOK || (ok && idx != tt.wantIdx) {
				t.Errorf("got (%d, %v), want (%d, %v)", idx, ok, tt.wantIdx, tt.wantOK)
			}
		})
	}
}

func TestClassify_FilledBubble(t *testing.T) {
	img := createTestImage(400, 200, white)
	centers := []geometry.Point{geometry.Pt(80, 100), geometry.Pt(200, 100), geometry.Pt(320, 100)}
	for _, c := range centers {
		strokeCircle(img, c, 20, 2, black)
	}
	fillDisc(img, centers[1], 20, black)

	slots := slotsAt(centers...)
	results := NewBubbleClassifier(0).Classify(img, slots)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Value == nil || *results[0].Value != 1 {
		t.Errorf("expected value 1, got %v", results[0].Value)
	}
}

func TestClassify_NilCases(t *testing.T) {
	img := createTestImage(400, 200, white)
	centers := []geometry.Point{geometry.Pt(80, 100), geometry.Pt(200, 100)}
	for _, c := range centers {
		fillDisc(img, c, 20, black)
	}

	// Both filled: no margin.
	res := NewBubbleClassifier(0).Classify(img, slotsAt(centers...))
	if res[0].Value != nil {
		t.Errorf("two filled bubbles should be ambiguous, got %d", *res[0].Value)
	}

	// Only one positioned choice.
	slots := slotsAt(centers...)
	slots[0].Choices[1].Position = nil
	res = NewBubbleClassifier(0).Classify(img, slots)
	if res[0].Value != nil {
		t.Error("single scorable choice should be nil")
	}

	// Window entirely off the sheet is not scorable.
	slots = slotsAt(centers[0], geometry.Pt(-500, -500))
	res = NewBubbleClassifier(0).Classify(img, slots)
	if res[0].Value != nil {
		t.Error("off-sheet choice should not be scored")
	}
}

func TestClassify_ValuesFollowScorableChoices(t *testing.T) {
	bin := image.NewGray(image.Rect(0, 0, 300, 100))
	for i := range bin.Pix {
		bin.Pix[i] = 255
	}
	// Darken the window around x=250.
	for y := 26; y < 74; y++ {
		for x := 226; x < 274; x++ {
			bin.Pix[y*bin.Stride+x] = 0
		}
	}

	slots := []ExpectedSlot{{QuestionIndex: 7, Choices: []Choice{
		{Value: 4, Position: nil},
		{Value: 3, Position: &geometry.Point{X: 50, Y: 50}},
		{Value: 2, Position: &geometry.Point{X: 150, Y: 50}},
		{Value: 1, Position: &geometry.Point{X: 250, Y: 50}},
	}}}

	res := NewBubbleClassifier(0).classifyBinary(bin, slots)
	if res[0].QuestionIndex != 7 || res[0].Value == nil || *res[0].Value != 1 {
		t.Errorf("got %+v", res[0])
	}
}
