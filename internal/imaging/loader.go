package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"strings"
)

// ErrNotDataURI is returned by DecodeDataURI when the input lacks the
// "data:<mime>;base64," prefix.
var ErrNotDataURI = errors.New("not a base64 data URI")

// Decode reads a PNG, JPEG or GIF image from r.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Load opens and decodes the image at path.
//
// Parameters:
//   - path: Absolute or relative file path to the image. Supported formats are
//     PNG, JPEG, and GIF.
//
// Returns:
//   - image.Image: The decoded image. The concrete type depends on the image format
//     and color model (e.g., *image.RGBA, *image.NRGBA, *image.YCbCr).
//   - error: Non-nil if the file cannot be opened or decoded.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// DecodeDataURI decodes an image carried in a "data:image/...;base64,..." URI.
//
// A bare base64 payload without the "data:" header is also accepted, since
// upload clients commonly strip it.
func DecodeDataURI(uri string) (image.Image, error) {
	payload := strings.TrimSpace(uri)
	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 || !strings.HasSuffix(payload[:comma], ";base64") {
			return nil, ErrNotDataURI
		}
		payload = payload[comma+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 payload: %w", err)
	}
	return Decode(bytes.NewReader(raw))
}

// LoadSource decodes src as a data URI when it starts with "data:", and as a
// file path otherwise.
func LoadSource(src string) (image.Image, error) {
	if strings.HasPrefix(src, "data:") {
		return DecodeDataURI(src)
	}
	return Load(src)
}
