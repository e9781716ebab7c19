package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/omr-tools/internal/geometry"
	"github.com/ironsheep/omr-tools/internal/imaging"
)

// InputSize is the model's square input edge in pixels.
const InputSize = 640

// ErrNoPredictions is returned when the service answers without a
// predictions tensor.
var ErrNoPredictions = errors.New("response has no predictions")

// Options configure a Client.
type Options struct {
	BaseURL    string         `validate:"required,url"`
	Model      string         `validate:"required"`
	Timeout    time.Duration  `validate:"gte=0"`
	Confidence float64        `validate:"gte=0,lte=1"`
	IoU        float64        `validate:"gte=0,lte=1"`
	Labels     map[int]string `validate:"-"`
	Layout     Layout         `validate:"-"`
}

// DefaultOptions returns options for the "detector" model with the standard
// thresholds. BaseURL still has to be set.
func DefaultOptions() Options {
	return Options{
		Model:      "detector",
		Timeout:    30 * time.Second,
		Confidence: 0.25,
		IoU:        0.5,
		Labels:     DefaultLabels(),
		Layout:     BoxMajor,
	}
}

// Client calls the model's predict endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	post     Postprocessor
	log      logrus.FieldLogger
}

// NewClient validates opts and returns a client. A nil logger discards
// log output.
func NewClient(opts Options, log logrus.FieldLogger) (*Client, error) {
	if err := validator.New().Struct(opts); err != nil {
		return nil, fmt.Errorf("invalid inference options: %w", err)
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	labels := opts.Labels
	if labels == nil {
		labels = DefaultLabels()
	}
	return &Client{
		endpoint: fmt.Sprintf("%s/v1/models/%s:predict", strings.TrimRight(opts.BaseURL, "/"), opts.Model),
		http:     &http.Client{Timeout: opts.Timeout},
		post: Postprocessor{
			Confidence: opts.Confidence,
			IoU:        opts.IoU,
			Labels:     labels,
			Layout:     opts.Layout,
		},
		log: log,
	}, nil
}

// Endpoint returns the predict URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

type predictRequest struct {
	Instances [][][][3]float32 `json:"instances"`
}

type predictResponse struct {
	Predictions [][][]float64 `json:"predictions"`
}

// Detect runs the model on img and returns the post-processed objects.
func (c *Client) Detect(ctx context.Context, img image.Image) ([]Object, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("empty image: %w", geometry.ErrInvalidDimensions)
	}

	lb := imaging.Letterbox(img, InputSize, color.White)
	body, err := json.Marshal(predictRequest{Instances: [][][][3]float32{tensor(lb.Image)}})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	start := time.Now()
	pred, err := c.predict(ctx, body)
	if err != nil {
		return nil, err
	}

	objects, err := c.post.Process(pred, geometry.Dimensions{Width: float64(b.Dx()), Height: float64(b.Dy())}, lb)
	if err != nil {
		return nil, fmt.Errorf("postprocess predictions: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"endpoint":    c.endpoint,
		"raw_boxes":   len(pred),
		"objects":     len(objects),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("detection complete")
	return objects, nil
}

func (c *Client) predict(ctx context.Context, body []byte) ([][]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("predict failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(out.Predictions) == 0 {
		return nil, ErrNoPredictions
	}
	return out.Predictions[0], nil
}

// tensor converts img into an [H][W][RGB] array of 0..255 values.
func tensor(img *image.NRGBA) [][][3]float32 {
	b := img.Bounds()
	out := make([][][3]float32, b.Dy())
	for y := 0; y < b.Dy(); y++ {
		row := make([][3]float32, b.Dx())
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		for x := range row {
			p := img.Pix[off+x*4 : off+x*4+3]
			row[x] = [3]float32{float32(p[0]), float32(p[1]), float32(p[2])}
		}
		out[y] = row
	}
	return out
}
