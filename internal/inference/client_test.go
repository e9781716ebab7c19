package inference

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"
)

// createTestImage creates a solid-color RGBA image
func createTestImage(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	opts := DefaultOptions()
	opts.BaseURL = url
	c, err := NewClient(opts, nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestClient_Detect(t *testing.T) {
	var gotPath string
	var gotShape [3]int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var req predictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if len(req.Instances) == 1 && len(req.Instances[0]) > 0 {
			gotShape = [3]int{len(req.Instances), len(req.Instances[0]), len(req.Instances[0][0])}
		}
		json.NewEncoder(w).Encode(map[string]any{
			"predictions": [][][]float64{{
				{320, 320, 64, 64, 0.2, 0.95},
				{50, 50, 10, 10, 0.1, 0.1},
			}},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	objects, err := c.Detect(context.Background(), createTestImage(320, 160, color.RGBA{10, 20, 30, 255}))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	if gotPath != "/v1/models/detector:predict" {
		t.Errorf("path: got %q", gotPath)
	}
	if gotShape != [3]int{1, InputSize, InputSize} {
		t.Errorf("instance shape: got %v", gotShape)
	}
	if len(objects) != 1 {
		t.Fatalf("expected 1 object, got %d", len(objects))
	}
	o := objects[0]
	if o.Category != "face" {
		t.Errorf("category: got %q", o.Category)
	}
	// 320×160 is scaled ×2 with 160px top padding; the canvas center maps
	// to the image center.
	want := [4]float64{0.5, 0.5, 0.1, 0.2}
	if !approxBox(o.Box, want, 1e-9) {
		t.Errorf("box: got %v, want %v", o.Box, want)
	}
}

func TestClient_LetterboxPadsWhite(t *testing.T) {
	var corner [3]float32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req predictRequest
		json.NewDecoder(r.Body).Decode(&req)
		corner = req.Instances[0][0][0]
		w.Write([]byte(`{"predictions": [[]]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.Detect(context.Background(), createTestImage(64, 32, color.RGBA{0, 0, 0, 255})); err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if corner != [3]float32{255, 255, 255} {
		t.Errorf("padding pixel: got %v, want white", corner)
	}
}

func TestClient_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/models/broken:predict":
			http.Error(w, "model not loaded", http.StatusServiceUnavailable)
		default:
			w.Write([]byte(`{"predictions": []}`))
		}
	}))
	defer srv.Close()

	img := createTestImage(8, 8, color.RGBA{255, 255, 255, 255})

	c := newTestClient(t, srv.URL)
	if _, err := c.Detect(context.Background(), img); !errors.Is(err, ErrNoPredictions) {
		t.Errorf("expected ErrNoPredictions, got %v", err)
	}

	opts := DefaultOptions()
	opts.BaseURL = srv.URL
	opts.Model = "broken"
	broken, err := NewClient(opts, nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if _, err := broken.Detect(context.Background(), img); err == nil {
		t.Error("expected error for non-200 status")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Detect(ctx, img); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient(DefaultOptions(), nil); err == nil {
		t.Error("expected error without base URL")
	}

	opts := DefaultOptions()
	opts.BaseURL = "http://serving:8501/"
	opts.Confidence = 1.5
	if _, err := NewClient(opts, nil); err == nil {
		t.Error("expected error for confidence above 1")
	}

	opts.Confidence = 0.25
	c, err := NewClient(opts, nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if c.Endpoint() != "http://serving:8501/v1/models/detector:predict" {
		t.Errorf("endpoint: got %q", c.Endpoint())
	}
}
