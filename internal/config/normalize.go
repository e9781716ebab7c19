package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// applyEnv overlays OMR_* environment variables.
func (c *Config) applyEnv() error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := os.LookupEnv(key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}
	float := func(key string, dst *float64) error {
		v, ok := os.LookupEnv(key)
		if !ok {
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = f
		return nil
	}

	str("OMR_MODE", &c.Pipeline.Mode)
	str("OMR_CIRCLE_FINDER", &c.Pipeline.CircleFinder)
	str("OMR_INFERENCE_URL", &c.Inference.URL)
	str("OMR_INFERENCE_MODEL", &c.Inference.Model)
	str("OMR_LOG_LEVEL", &c.Logging.Level)
	str("OMR_LOG_FORMAT", &c.Logging.Format)
	str("OMR_METRICS_TEXTFILE", &c.Metrics.Textfile)

	if err := float("OMR_MARGIN", &c.Pipeline.Margin); err != nil {
		return err
	}
	if err := num("OMR_HIGHLIGHT_HEIGHT", &c.Pipeline.HighlightHeight); err != nil {
		return err
	}
	if err := num("OMR_TIMEOUT_SECONDS", &c.Pipeline.TimeoutSeconds); err != nil {
		return err
	}
	if v, ok := os.LookupEnv("OMR_HIGHLIGHTS"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("OMR_HIGHLIGHTS: %w", err)
		}
		c.Pipeline.Highlights = b
	}
	return nil
}

func (c *Config) normalize() {
	defaults := Default()

	c.Pipeline.Mode = strings.ToLower(strings.TrimSpace(c.Pipeline.Mode))
	if c.Pipeline.Mode == "" {
		c.Pipeline.Mode = defaults.Pipeline.Mode
	}
	c.Pipeline.CircleFinder = strings.ToLower(strings.TrimSpace(c.Pipeline.CircleFinder))
	if c.Pipeline.CircleFinder == "" {
		c.Pipeline.CircleFinder = defaults.Pipeline.CircleFinder
	}
	if c.Pipeline.HighlightHeight == 0 {
		c.Pipeline.HighlightHeight = defaults.Pipeline.HighlightHeight
	}
	c.Pipeline.Raw.Scale = strings.TrimSpace(c.Pipeline.Raw.Scale)

	c.Inference.URL = strings.TrimRight(strings.TrimSpace(c.Inference.URL), "/")
	c.Inference.Model = strings.TrimSpace(c.Inference.Model)
	if c.Inference.Model == "" {
		c.Inference.Model = defaults.Inference.Model
	}
	c.Inference.Layout = strings.ToLower(strings.TrimSpace(c.Inference.Layout))
	if c.Inference.Layout == "" {
		c.Inference.Layout = defaults.Inference.Layout
	}
	if len(c.Inference.Labels) == 0 {
		c.Inference.Labels = defaults.Inference.Labels
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaults.Logging.Format
	}
	c.Metrics.Textfile = strings.TrimSpace(c.Metrics.Textfile)
}
