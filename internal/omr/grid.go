package omr

import (
	"iter"

	"github.com/ironsheep/omr-tools/internal/geometry"
)

// Layout constants in base units. Coordinates are multiplied by gridFactor
// to reach canonical pixels.
const (
	gridFactor       = 4
	gridUnit         = 15
	gridStartX       = 55
	gridStartY       = 100
	gridColumnStride = 110
	gridColumnSize   = 40
	gridGroupSize    = 5
)

// Grid generates the expected bubble positions for a block of questions.
type Grid struct {
	OptionCount int
	ChoiceStart int
	ChoiceCount int
}

// GridFromMetadata returns the grid described by m.
func GridFromMetadata(m SheetMetadata) Grid {
	return Grid{OptionCount: m.OptionCount, ChoiceStart: m.ChoiceStart, ChoiceCount: m.ChoiceCount}
}

// choiceValues returns the values of the bubbles in a question, left to
// right. Unsupported option counts have no bubbles.
func choiceValues(optionCount int) []int {
	switch optionCount {
	case 2:
		return []int{1, 0}
	case 5:
		return []int{0, 1, 2, 3, 4}
	}
	return nil
}

// Slots yields exactly ChoiceCount slots, for questions ChoiceStart through
// ChoiceStart+ChoiceCount−1, each with its choices at canonical positions.
//
// # Layout
//
// Questions run down columns of 40, in groups of 5 separated by an extra
// gap. Position state starts at (55, 100) base units for the first yielded
// question and advances per question using its zero-based absolute index i:
//
//   - i a non-zero multiple of 40: next column (x += 110, y = 100)
//   - else i a non-zero multiple of 5: group gap (y += 15)
//   - then y += 15
//
// Choice k sits at ((x + 15k)·4, y·4).
//
// The sequence is lazy and restartable: each range starts from scratch and
// yields identical slots.
func (g Grid) Slots() iter.Seq[ExpectedSlot] {
	return func(yield func(ExpectedSlot) bool) {
		values := choiceValues(g.OptionCount)
		x, y := gridStartX, gridStartY

		for q := g.ChoiceStart; q < g.ChoiceStart+g.ChoiceCount; q++ {
			i := q - 1
			if i != 0 && i%gridColumnSize == 0 {
				x += gridColumnStride
				y = gridStartY
			} else if i != 0 && i%gridGroupSize == 0 {
				y += gridUnit
			}
			y += gridUnit

			slot := ExpectedSlot{QuestionIndex: q, Choices: make([]Choice, len(values))}
			for k, v := range values {
				p := gridPoint(x+k*gridUnit, y)
				slot.Choices[k] = Choice{Value: v, Position: &p}
			}
			if !yield(slot) {
				return
			}
		}
	}
}

func gridPoint(x, y int) geometry.Point {
	return geometry.Pt(float64(x*gridFactor), float64(y*gridFactor))
}

// Collect materializes Slots.
func (g Grid) Collect() []ExpectedSlot {
	out := make([]ExpectedSlot, 0, max(g.ChoiceCount, 0))
	for s := range g.Slots() {
		out = append(out, s)
	}
	return out
}
