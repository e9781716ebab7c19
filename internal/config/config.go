package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ironsheep/omr-tools/internal/detection"
	"github.com/ironsheep/omr-tools/internal/inference"
	"github.com/ironsheep/omr-tools/internal/omr"
)

// Raw is the sheet layout used when the pipeline runs without reading the
// QR code.
type Raw struct {
	Scale  string `toml:"scale"`
	Option int    `toml:"option"`
	Start  int    `toml:"start"`
	Count  int    `toml:"count"`
}

// Circles tunes the circle finder.
type Circles struct {
	BlurKernel int     `toml:"blur_kernel"`
	DP         float64 `toml:"dp"`
	MinDist    float64 `toml:"min_dist"`
	Param1     float64 `toml:"param1"`
	Param2     float64 `toml:"param2"`
	MinRadius  int     `toml:"min_radius"`
	MaxRadius  int     `toml:"max_radius"`
}

// Pipeline configures the sheet scanner.
type Pipeline struct {
	Mode            string  `toml:"mode"`
	CircleFinder    string  `toml:"circle_finder"` // opencv or native
	Margin          float64 `toml:"margin"`
	HighlightHeight int     `toml:"highlight_height"`
	Highlights      bool    `toml:"highlights"`
	TimeoutSeconds  int     `toml:"timeout_seconds"`
	Raw             Raw     `toml:"raw"`
	Circles         Circles `toml:"circles"`
}

// Inference configures the object-detection client.
type Inference struct {
	URL            string            `toml:"url"`
	Model          string            `toml:"model"`
	TimeoutSeconds int               `toml:"timeout_seconds"`
	Confidence     float64           `toml:"confidence"`
	IoU            float64           `toml:"iou"`
	Layout         string            `toml:"layout"`
	Labels         map[string]string `toml:"labels"`
}

// Logging configures log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // json or text
}

// Metrics configures the Prometheus textfile export.
type Metrics struct {
	Textfile string `toml:"textfile"`
}

// Config is the complete omr-scan configuration.
type Config struct {
	Pipeline  Pipeline  `toml:"pipeline"`
	Inference Inference `toml:"inference"`
	Logging   Logging   `toml:"logging"`
	Metrics   Metrics   `toml:"metrics"`
}

// Load reads path (or the first default location that exists), applies
// environment overrides, then normalizes and validates the result. It
// returns the resolved path and whether a file was read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolvePath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := toml.NewDecoder(file).DisallowUnknownFields().Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, "", false, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func resolvePath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file %s does not exist", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	candidates := []string{"omr-scan.toml", "~/.config/omr-scan/config.toml"}
	for _, c := range candidates {
		p, err := expandPath(c)
		if err != nil {
			return "", false, err
		}
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true, nil
		}
	}
	return "", false, nil
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}

// PipelineMode returns the parsed pipeline mode.
func (c *Config) PipelineMode() omr.Mode {
	m, _ := omr.ParseMode(c.Pipeline.Mode)
	return m
}

// RawMetadata returns the configured sheet layout for raw mode.
func (c *Config) RawMetadata() omr.SheetMetadata {
	r := c.Pipeline.Raw
	return omr.SheetMetadata{
		ScaleName:   r.Scale,
		OptionCount: r.Option,
		ChoiceStart: r.Start,
		ChoiceCount: r.Count,
		ChoiceTotal: r.Count,
	}
}

// CircleParams returns the circle finder parameters.
func (c *Config) CircleParams() detection.CircleParams {
	p := c.Pipeline.Circles
	return detection.CircleParams{
		BlurKernel: p.BlurKernel,
		DP:         p.DP,
		MinDist:    p.MinDist,
		Param1:     p.Param1,
		Param2:     p.Param2,
		MinRadius:  p.MinRadius,
		MaxRadius:  p.MaxRadius,
	}
}

// Timeout returns the per-scan deadline, zero for none.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Pipeline.TimeoutSeconds) * time.Second
}

// InferenceOptions returns options for inference.NewClient.
func (c *Config) InferenceOptions() (inference.Options, error) {
	layout, err := inference.ParseLayout(c.Inference.Layout)
	if err != nil {
		return inference.Options{}, err
	}
	labels, err := c.labelMap()
	if err != nil {
		return inference.Options{}, err
	}
	return inference.Options{
		BaseURL:    c.Inference.URL,
		Model:      c.Inference.Model,
		Timeout:    time.Duration(c.Inference.TimeoutSeconds) * time.Second,
		Confidence: c.Inference.Confidence,
		IoU:        c.Inference.IoU,
		Labels:     labels,
		Layout:     layout,
	}, nil
}
