package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ironsheep/omr-tools/internal/config"
	"github.com/ironsheep/omr-tools/internal/inference"
	"github.com/ironsheep/omr-tools/internal/omr"
)

// isolate runs the test from an empty working directory with an empty HOME
// so no stray config file is picked up.
func isolate(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "omr-scan.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists || resolved != "" {
		t.Fatalf("expected no config file, got %q", resolved)
	}
	if cfg.PipelineMode() != omr.ModeMetadata {
		t.Fatalf("unexpected mode: %q", cfg.Pipeline.Mode)
	}
	if cfg.Pipeline.Margin != omr.DefaultMargin {
		t.Fatalf("unexpected margin: %v", cfg.Pipeline.Margin)
	}
	if cfg.Pipeline.HighlightHeight != 720 {
		t.Fatalf("unexpected highlight height: %d", cfg.Pipeline.HighlightHeight)
	}
	if cfg.Timeout() != time.Minute {
		t.Fatalf("unexpected timeout: %v", cfg.Timeout())
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging: %+v", cfg.Logging)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[pipeline]
mode = "RAW"
circle_finder = "native"
margin = 0.2

[pipeline.raw]
scale = "yes-no"
option = 2
start = 41
count = 20

[inference]
url = "http://serving:8501/"
layout = "attr"

[inference.labels]
0 = "ring"
3 = "necklace"

[logging]
level = "warn"
`)
	t.Setenv("OMR_LOG_FORMAT", "text")
	t.Setenv("OMR_MARGIN", "0.15")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected %q to be read, got %q (exists=%v)", path, resolved, exists)
	}
	if cfg.PipelineMode() != omr.ModeRaw {
		t.Fatalf("mode should be normalized to raw, got %q", cfg.Pipeline.Mode)
	}
	if cfg.Pipeline.Margin != 0.15 {
		t.Fatalf("env should override margin, got %v", cfg.Pipeline.Margin)
	}
	if cfg.Logging.Format != "text" || cfg.Logging.Level != "warn" {
		t.Fatalf("unexpected logging: %+v", cfg.Logging)
	}

	meta := cfg.RawMetadata()
	if meta.OptionCount != 2 || meta.ChoiceStart != 41 || meta.ChoiceCount != 20 || meta.ScaleName != "yes-no" {
		t.Fatalf("unexpected raw metadata: %+v", meta)
	}

	opts, err := cfg.InferenceOptions()
	if err != nil {
		t.Fatalf("InferenceOptions returned error: %v", err)
	}
	if opts.BaseURL != "http://serving:8501" {
		t.Fatalf("url should be trimmed, got %q", opts.BaseURL)
	}
	if opts.Layout != inference.AttrMajor {
		t.Fatalf("unexpected layout: %v", opts.Layout)
	}
	if opts.Labels[3] != "necklace" || opts.Labels[0] != "ring" {
		t.Fatalf("unexpected labels: %v", opts.Labels)
	}
	if opts.Timeout != 30*time.Second {
		t.Fatalf("unexpected inference timeout: %v", opts.Timeout)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"mode", "[pipeline]\nmode = \"fast\"\n", "pipeline.mode"},
		{"finder", "[pipeline]\ncircle_finder = \"gpu\"\n", "pipeline.circle_finder"},
		{"margin", "[pipeline]\nmargin = 1.5\n", "pipeline.margin"},
		{"raw option", "[pipeline]\nmode = \"raw\"\n[pipeline.raw]\noption = 3\n", "pipeline.raw.option"},
		{"circles", "[pipeline.circles]\nmin_radius = 60\n", "pipeline.circles"},
		{"confidence", "[inference]\nconfidence = -0.1\n", "inference.confidence"},
		{"layout", "[inference]\nlayout = \"rows\"\n", "inference.layout"},
		{"labels", "[inference.labels]\nface = \"1\"\n", "inference.labels"},
		{"level", "[logging]\nlevel = \"loud\"\n", "logging.level"},
		{"format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"unknown key", "[pipeline]\nspeed = 3\n", "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := config.Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadRejectsBadEnv(t *testing.T) {
	isolate(t)
	t.Setenv("OMR_HIGHLIGHTS", "maybe")

	if _, _, _, err := config.Load(""); err == nil {
		t.Fatal("expected error for non-boolean OMR_HIGHLIGHTS")
	}
}
