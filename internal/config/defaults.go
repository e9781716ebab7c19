package config

import (
	"strconv"

	"github.com/ironsheep/omr-tools/internal/detection"
	"github.com/ironsheep/omr-tools/internal/inference"
	"github.com/ironsheep/omr-tools/internal/omr"
)

// Default returns the built-in configuration.
func Default() Config {
	circles := detection.DefaultCircleParams()
	labels := make(map[string]string)
	for i, name := range inference.DefaultLabels() {
		labels[strconv.Itoa(i)] = name
	}

	return Config{
		Pipeline: Pipeline{
			Mode:            string(omr.ModeMetadata),
			CircleFinder:    "opencv",
			Margin:          omr.DefaultMargin,
			HighlightHeight: omr.DefaultPreview,
			Highlights:      true,
			TimeoutSeconds:  60,
			Raw: Raw{
				Scale:  "likert",
				Option: 5,
				Start:  1,
				Count:  40,
			},
			Circles: Circles{
				BlurKernel: circles.BlurKernel,
				DP:         circles.DP,
				MinDist:    circles.MinDist,
				Param1:     circles.Param1,
				Param2:     circles.Param2,
				MinRadius:  circles.MinRadius,
				MaxRadius:  circles.MaxRadius,
			},
		},
		Inference: Inference{
			Model:          "detector",
			TimeoutSeconds: 30,
			Confidence:     0.25,
			IoU:            0.5,
			Layout:         "box",
			Labels:         labels,
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
	}
}
