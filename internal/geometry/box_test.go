package geometry

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func coordsEqual(t *testing.T, got, want [4]float64, eps float64) {
	t.Helper()
	for i := range got {
		if !almostEqual(got[i], want[i], eps) {
			t.Fatalf("coords: got %v, want %v", got, want)
		}
	}
}

func TestConvert_KnownValues(t *testing.T) {
	dim := Dimensions{Width: 200, Height: 100}

	tests := []struct {
		name     string
		in       [4]float64
		from     BoxFormat
		fromNorm bool
		to       BoxFormat
		toNorm   bool
		want     [4]float64
	}{
		{"xyxy to ccwh", [4]float64{10, 20, 30, 60}, XYXY, false, CCWH, false, [4]float64{20, 40, 20, 40}},
		{"ccwh to xywh", [4]float64{20, 40, 20, 40}, CCWH, false, XYWH, false, [4]float64{10, 20, 20, 40}},
		{"xywh to xyxy", [4]float64{10, 20, 20, 40}, XYWH, false, XYXY, false, [4]float64{10, 20, 30, 60}},
		{"absolute to normalized", [4]float64{100, 50, 20, 10}, CCWH, false, CCWH, true, [4]float64{0.5, 0.5, 0.1, 0.1}},
		{"normalized xyxy to absolute ccwh", [4]float64{0, 0, 0.5, 1}, XYXY, true, CCWH, false, [4]float64{50, 50, 100, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Convert(tt.in, dim, tt.from, tt.fromNorm, tt.to, tt.toNorm)
			coordsEqual(t, got, tt.want, 1e-9)
		})
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	dim := Dimensions{Width: 640, Height: 480}
	boxes := [][4]float64{
		{12.5, 40, 100, 80},
		{0, 0, 640, 480},
		{320, 240, 0, 0},
	}
	formats := []BoxFormat{CCWH, XYWH, XYXY}

	for _, b := range boxes {
		for _, f := range formats {
			for _, g := range formats {
				for _, norm := range []bool{false, true} {
					there := Convert(b, dim, f, false, g, norm)
					back := Convert(there, dim, g, norm, f, false)
					coordsEqual(t, back, b, 1e-9)
				}
			}
		}
	}
}

func TestBox_ConvertDoesNotMutate(t *testing.T) {
	b := Box{Coords: [4]float64{1, 2, 3, 4}, Format: XYWH}
	out := b.Convert(Dimensions{Width: 10, Height: 10}, XYXY, true)

	if b.Coords != [4]float64{1, 2, 3, 4} || b.Format != XYWH || b.Normalized {
		t.Errorf("input box changed: %+v", b)
	}
	if out.Format != XYXY || !out.Normalized {
		t.Errorf("output metadata: got %+v", out)
	}
	if !out.Valid() {
		t.Errorf("converted box should be valid: %+v", out)
	}
}

func TestConvertChecked_ZeroDimensions(t *testing.T) {
	_, err := ConvertChecked([4]float64{1, 1, 1, 1}, Dimensions{}, CCWH, true, XYXY, false)
	if err == nil {
		t.Fatal("expected error for zero dimensions")
	}

	// Absolute to absolute never scales, so zero dims are fine.
	if _, err := ConvertChecked([4]float64{1, 1, 1, 1}, Dimensions{}, CCWH, false, XYXY, false); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseBoxFormat(t *testing.T) {
	for _, f := range []BoxFormat{CCWH, XYWH, XYXY} {
		got, err := ParseBoxFormat(f.String())
		if err != nil || got != f {
			t.Errorf("ParseBoxFormat(%q) = %v, %v", f.String(), got, err)
		}
	}
	if _, err := ParseBoxFormat("cxcywh"); err == nil {
		t.Error("expected error for unknown format")
	}
}
