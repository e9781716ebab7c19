package omr

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/go-playground/validator/v10"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/ironsheep/omr-tools/internal/imaging"
)

// CodeReader decodes the text of a 2D code in img.
type CodeReader interface {
	ReadCode(img image.Image) (string, error)
}

// QRReader is a CodeReader for QR codes.
type QRReader struct {
	hints map[gozxing.DecodeHintType]interface{}
}

// NewQRReader returns a QR reader that searches exhaustively.
func NewQRReader() *QRReader {
	return &QRReader{
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

// ReadCode returns the payload of the QR code in img.
func (r *QRReader) ReadCode(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("binarize code region: %w", err)
	}
	res, err := qrcode.NewQRCodeReader().Decode(bmp, r.hints)
	if err != nil {
		return "", err
	}
	return res.GetText(), nil
}

// metadataPayload is the JSON carried by the sheet's QR code. Pointer fields
// let validation tell a missing key from a zero value.
type metadataPayload struct {
	Scale  *string `json:"scale" validate:"required"`
	Option *int    `json:"option" validate:"required,oneof=2 5"`
	Start  *int    `json:"start" validate:"required,min=1"`
	Count  *int    `json:"count" validate:"required,min=0"`
	Total  *int    `json:"total" validate:"required,min=0"`
}

// MetadataDecoder reads SheetMetadata from the QR code on a canonical sheet.
type MetadataDecoder struct {
	reader   CodeReader
	validate *validator.Validate
	gain     float64
}

// NewMetadataDecoder creates a decoder that reads codes with reader.
func NewMetadataDecoder(reader CodeReader) *MetadataDecoder {
	return &MetadataDecoder{
		reader:   reader,
		validate: validator.New(),
		gain:     ContrastGain,
	}
}

// Decode crops the QR window (see QRRegion), stretches its contrast, reads
// the code and parses its JSON payload.
//
// Returns a CodeNotFound error when no code can be read and a
// MalformedMetadata error when the payload is not valid JSON or violates
// the schema: all of scale, option, start, count and total must be present,
// option must be 2 or 5, start at least 1, count and total non-negative.
func (d *MetadataDecoder) Decode(canonical image.Image) (SheetMetadata, error) {
	region, err := imaging.CropRegion(canonical, QRRegion(canonical.Bounds().Dx()).Add(canonical.Bounds().Min))
	if err != nil {
		return SheetMetadata{}, NewCodeNotFoundError("metadata", "code window outside sheet", err)
	}
	gray := imaging.ContrastStretch(imaging.Grayscale(region), d.gain)

	text, err := d.reader.ReadCode(gray)
	if err != nil {
		return SheetMetadata{}, NewCodeNotFoundError("metadata", "no code decoded", err)
	}
	return d.Parse(text)
}

// Parse validates a raw payload string.
func (d *MetadataDecoder) Parse(text string) (SheetMetadata, error) {
	var p metadataPayload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return SheetMetadata{}, NewMalformedMetadataError("metadata", "payload is not valid JSON", err)
	}
	if err := d.validate.Struct(p); err != nil {
		return SheetMetadata{}, NewMalformedMetadataError("metadata", "payload failed validation", err)
	}
	return SheetMetadata{
		ScaleName:   *p.Scale,
		OptionCount: *p.Option,
		ChoiceStart: *p.Start,
		ChoiceCount: *p.Count,
		ChoiceTotal: *p.Total,
	}, nil
}
