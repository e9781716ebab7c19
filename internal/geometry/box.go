package geometry

import (
	"errors"
	"fmt"
)

// BoxFormat names the layout of a bounding box's four coordinates.
type BoxFormat int

const (
	// CCWH is center x, center y, width, height.
	CCWH BoxFormat = iota
	// XYWH is top-left x, top-left y, width, height.
	XYWH
	// XYXY is top-left x, top-left y, bottom-right x, bottom-right y.
	XYXY
)

// ErrInvalidDimensions is returned when a conversion needs to scale by a
// non-positive image dimension.
var ErrInvalidDimensions = errors.New("image dimensions must be positive")

// String returns the lower-case format name.
func (f BoxFormat) String() string {
	switch f {
	case CCWH:
		return "ccwh"
	case XYWH:
		return "xywh"
	case XYXY:
		return "xyxy"
	}
	return fmt.Sprintf("BoxFormat(%d)", int(f))
}

// MarshalText encodes the format by name.
func (f BoxFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText accepts the names ParseBoxFormat accepts.
func (f *BoxFormat) UnmarshalText(b []byte) error {
	v, err := ParseBoxFormat(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// ParseBoxFormat accepts the names produced by String, case-sensitively.
func ParseBoxFormat(s string) (BoxFormat, error) {
	switch s {
	case "ccwh":
		return CCWH, nil
	case "xywh":
		return XYWH, nil
	case "xyxy":
		return XYXY, nil
	}
	return 0, fmt.Errorf("unknown box format %q", s)
}

// Dimensions is an image size as (width, height).
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Box is a bounding box together with its format and normalization flag.
type Box struct {
	Coords     [4]float64 `json:"coords"`
	Format     BoxFormat  `json:"format"`
	Normalized bool       `json:"normalized"`
}

// Valid reports whether the box has non-negative extent.
func (b Box) Valid() bool {
	switch b.Format {
	case XYXY:
		return b.Coords[2] >= b.Coords[0] && b.Coords[3] >= b.Coords[1]
	default:
		return b.Coords[2] >= 0 && b.Coords[3] >= 0
	}
}

// Convert returns b expressed in format to, normalized or absolute as
// requested. b is not modified.
func (b Box) Convert(dim Dimensions, to BoxFormat, toNormalized bool) Box {
	return Box{
		Coords:     Convert(b.Coords, dim, b.Format, b.Normalized, to, toNormalized),
		Format:     to,
		Normalized: toNormalized,
	}
}

// Convert transforms box coordinates between formats and between
// normalized and absolute space.
//
// Parameters:
//   - coords: The four box values in format from.
//   - dim: Image (width, height) used to scale normalized values.
//   - from, fromNormalized: How coords are currently expressed.
//   - to, toNormalized: The requested representation.
//
// The conversion denormalizes first, moves through the center form, then
// normalizes last, so any pair of representations round-trips up to
// floating point error. The result is undefined when a dimension needed for
// scaling is zero; use [ConvertChecked] when dim comes from untrusted input.
func Convert(coords [4]float64, dim Dimensions, from BoxFormat, fromNormalized bool, to BoxFormat, toNormalized bool) [4]float64 {
	c := coords
	if fromNormalized {
		c = [4]float64{c[0] * dim.Width, c[1] * dim.Height, c[2] * dim.Width, c[3] * dim.Height}
	}

	cx, cy, w, h := toCenter(c, from)
	out := fromCenter(cx, cy, w, h, to)

	if toNormalized {
		out = [4]float64{out[0] / dim.Width, out[1] / dim.Height, out[2] / dim.Width, out[3] / dim.Height}
	}
	return out
}

// ConvertChecked is Convert with a guard against non-positive dimensions
// whenever either side is normalized.
func ConvertChecked(coords [4]float64, dim Dimensions, from BoxFormat, fromNormalized bool, to BoxFormat, toNormalized bool) ([4]float64, error) {
	if (fromNormalized || toNormalized) && (dim.Width <= 0 || dim.Height <= 0) {
		return [4]float64{}, fmt.Errorf("convert %s to %s with %gx%g: %w", from, to, dim.Width, dim.Height, ErrInvalidDimensions)
	}
	return Convert(coords, dim, from, fromNormalized, to, toNormalized), nil
}

func toCenter(c [4]float64, f BoxFormat) (cx, cy, w, h float64) {
	switch f {
	case XYWH:
		return c[0] + c[2]/2, c[1] + c[3]/2, c[2], c[3]
	case XYXY:
		w, h = c[2]-c[0], c[3]-c[1]
		return c[0] + w/2, c[1] + h/2, w, h
	default:
		return c[0], c[1], c[2], c[3]
	}
}

func fromCenter(cx, cy, w, h float64, f BoxFormat) [4]float64 {
	switch f {
	case XYWH:
		return [4]float64{cx - w/2, cy - h/2, w, h}
	case XYXY:
		return [4]float64{cx - w/2, cy - h/2, cx + w/2, cy + h/2}
	default:
		return [4]float64{cx, cy, w, h}
	}
}
