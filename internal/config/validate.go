package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/omr-tools/internal/inference"
	"github.com/ironsheep/omr-tools/internal/omr"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateInference(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePipeline() error {
	p := c.Pipeline
	mode, err := omr.ParseMode(p.Mode)
	if err != nil {
		return fmt.Errorf("pipeline.mode: %w", err)
	}
	switch p.CircleFinder {
	case "opencv", "native":
	default:
		return fmt.Errorf("pipeline.circle_finder must be opencv or native, got %q", p.CircleFinder)
	}
	if p.Margin < 0 || p.Margin > 1 {
		return errors.New("pipeline.margin must be between 0 and 1")
	}
	if p.HighlightHeight < 1 {
		return errors.New("pipeline.highlight_height must be positive")
	}
	if p.TimeoutSeconds < 0 {
		return errors.New("pipeline.timeout_seconds must not be negative")
	}
	if err := c.CircleParams().Validate(); err != nil {
		return fmt.Errorf("pipeline.circles: %w", err)
	}

	if mode == omr.ModeRaw {
		if p.Raw.Option != 2 && p.Raw.Option != 5 {
			return fmt.Errorf("pipeline.raw.option must be 2 or 5, got %d", p.Raw.Option)
		}
		if p.Raw.Start < 1 {
			return errors.New("pipeline.raw.start must be at least 1")
		}
		if p.Raw.Count < 0 {
			return errors.New("pipeline.raw.count must not be negative")
		}
	}
	return nil
}

func (c *Config) validateInference() error {
	in := c.Inference
	if in.TimeoutSeconds < 0 {
		return errors.New("inference.timeout_seconds must not be negative")
	}
	if in.Confidence < 0 || in.Confidence > 1 {
		return errors.New("inference.confidence must be between 0 and 1")
	}
	if in.IoU < 0 || in.IoU > 1 {
		return errors.New("inference.iou must be between 0 and 1")
	}
	if _, err := inference.ParseLayout(in.Layout); err != nil {
		return fmt.Errorf("inference.layout: %w", err)
	}
	if _, err := c.labelMap(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format)
	}
	return nil
}

// labelMap converts the TOML label table, whose keys are strings, to class
// indices.
func (c *Config) labelMap() (map[int]string, error) {
	out := make(map[int]string, len(c.Inference.Labels))
	for k, v := range c.Inference.Labels {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 {
			return nil, fmt.Errorf("inference.labels: key %q is not a class index", k)
		}
		out[i] = v
	}
	return out, nil
}
