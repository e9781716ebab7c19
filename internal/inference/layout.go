package inference

import (
	"fmt"
	"strings"
)

// Layout describes how the prediction tensor is ordered.
type Layout int

const (
	// BoxMajor rows are boxes: [nBox][cx, cy, w, h, score0, score1, ...].
	BoxMajor Layout = iota

	// AttrMajor rows are attributes: [4+nLabels][nBox]. YOLO exports
	// emit this transposed layout.
	AttrMajor
)

func (l Layout) String() string {
	switch l {
	case BoxMajor:
		return "box"
	case AttrMajor:
		return "attr"
	}
	return fmt.Sprintf("Layout(%d)", int(l))
}

// ParseLayout accepts "box" or "attr" (case-insensitive).
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "box", "":
		return BoxMajor, nil
	case "attr":
		return AttrMajor, nil
	}
	return 0, fmt.Errorf("unknown prediction layout %q (want box or attr)", s)
}

// rows returns the predictions in box-major order. Ragged input is an error.
func (l Layout) rows(pred [][]float64) ([][]float64, error) {
	if len(pred) == 0 {
		return nil, nil
	}
	width := len(pred[0])
	for i, r := range pred {
		if len(r) != width {
			return nil, fmt.Errorf("prediction row %d has %d values, want %d", i, len(r), width)
		}
	}

	if l == BoxMajor {
		if width < 5 {
			return nil, fmt.Errorf("prediction rows have %d values, need at least 5", width)
		}
		return pred, nil
	}

	if len(pred) < 5 {
		return nil, fmt.Errorf("prediction has %d attributes, need at least 5", len(pred))
	}
	out := make([][]float64, width)
	for b := range out {
		row := make([]float64, len(pred))
		for a := range pred {
			row[a] = pred[a][b]
		}
		out[b] = row
	}
	return out, nil
}
