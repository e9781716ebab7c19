package omr

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/omr-tools/internal/imaging"
)

// Overlay styling.
const (
	ringRadius     = 27.5
	ringStroke     = 7
	dotRadius      = 12.5
	dotOutline     = 3
	DefaultPreview = 720
	jpegQuality    = 90
)

// alignmentHex is the ring colour around every matched bubble.
const alignmentHex = "#22c55e"

// responsePaletteHex colours the dot drawn on a recognized answer.
var responsePaletteHex = [5]string{"#e11d48", "#c026d3", "#9333ea", "#4f46e5", "#60a5fa"}

// HighlightRenderer draws the recognition overlay on a canonical sheet.
type HighlightRenderer struct {
	height    int
	alignment color.RGBA
	palette   [5]color.RGBA
	outline   color.RGBA
}

// NewHighlightRenderer creates a renderer whose output is height pixels
// tall. A non-positive height selects DefaultPreview.
func NewHighlightRenderer(height int) (*HighlightRenderer, error) {
	if height <= 0 {
		height = DefaultPreview
	}
	r := &HighlightRenderer{height: height, outline: color.RGBA{A: 255}}

	var err error
	if r.alignment, err = hexRGBA(alignmentHex); err != nil {
		return nil, err
	}
	for i, h := range responsePaletteHex {
		if r.palette[i], err = hexRGBA(h); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func hexRGBA(h string) (color.RGBA, error) {
	c, err := colorful.Hex(h)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid palette colour %q: %w", h, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// paletteIndex returns the palette entry for a recognized value. Two-option
// sheets use the ends of the palette (value 1 → 0, value 0 → 4); five-option
// sheets use the value directly.
func paletteIndex(optionCount, value int) (int, bool) {
	var idx int
	switch optionCount {
	case 2:
		idx = (1 - value) * 4
	case 5:
		idx = value
	default:
		return 0, false
	}
	if idx < 0 || idx >= len(responsePaletteHex) {
		return 0, false
	}
	return idx, true
}

// Render paints the overlay and returns it as a JPEG data URI.
//
// The sheet is Otsu-binarized onto an RGB canvas. Every matched bubble gets
// a green ring; every recognized answer gets a palette-coloured dot with a
// black outline on the bubble whose value was recognized. The canvas is
// scaled to the configured height before encoding.
func (r *HighlightRenderer) Render(canonical image.Image, optionCount int, slots []ExpectedSlot, results []ClassificationResult) (string, error) {
	canvas := imaging.GrayToRGBA(imaging.OtsuBinarize(imaging.Grayscale(canonical)))

	for _, s := range slots {
		for _, ch := range s.Choices {
			if ch.Position != nil {
				imaging.DrawRing(canvas, *ch.Position, ringRadius, ringStroke, r.alignment)
			}
		}
	}

	byQuestion := make(map[int]ExpectedSlot, len(slots))
	for _, s := range slots {
		byQuestion[s.QuestionIndex] = s
	}
	for _, res := range results {
		if res.Value == nil {
			continue
		}
		idx, ok := paletteIndex(optionCount, *res.Value)
		if !ok {
			continue
		}
		for _, ch := range byQuestion[res.QuestionIndex].Choices {
			if ch.Value == *res.Value && ch.Position != nil {
				imaging.DrawDot(canvas, *ch.Position, dotRadius, r.palette[idx], r.outline, dotOutline)
				break
			}
		}
	}

	uri, err := imaging.EncodeJPEGDataURI(imaging.ResizeToHeight(canvas, r.height), jpegQuality)
	if err != nil {
		return "", fmt.Errorf("render highlights: %w", err)
	}
	return uri, nil
}
