package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ResizeToHeight scales img to the given height, keeping the aspect ratio.
// The new width is int(height / srcHeight × srcWidth).
func ResizeToHeight(img image.Image, height int) *image.NRGBA {
	b := img.Bounds()
	width := int(float64(height) / float64(b.Dy()) * float64(b.Dx()))
	if width < 1 {
		width = 1
	}
	return imaging.Resize(img, width, height, imaging.Linear)
}

// EncodeJPEGDataURI encodes img as JPEG and wraps it in a
// "data:image/jpeg;base64," URI.
func EncodeJPEGDataURI(img image.Image, quality int) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return "", fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// LetterboxResult describes how an image was fitted into a square canvas.
type LetterboxResult struct {
	// Image is the size×size canvas.
	Image *image.NRGBA

	// Scale is canvas pixels per source pixel.
	Scale float64

	// OffsetX and OffsetY are the padding, in canvas pixels, before the
	// fitted image on each axis.
	OffsetX int
	OffsetY int
}

// Letterbox fits img inside a size×size canvas filled with bg, preserving
// the aspect ratio and centering it. The long side spans the canvas.
func Letterbox(img image.Image, size int, bg color.Color) *LetterboxResult {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	newW, newH := size, size
	if w > h {
		newH = int(float64(size) * float64(h) / float64(w))
	} else if h > w {
		newW = int(float64(size) * float64(w) / float64(h))
	}
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	resized := imaging.Resize(img, newW, newH, imaging.Linear)
	offX := (size - newW) / 2
	offY := (size - newH) / 2

	canvas := imaging.New(size, size, bg)
	canvas = imaging.Paste(canvas, resized, image.Pt(offX, offY))

	scale := float64(size) / float64(w)
	if h > w {
		scale = float64(size) / float64(h)
	}
	return &LetterboxResult{Image: canvas, Scale: scale, OffsetX: offX, OffsetY: offY}
}
