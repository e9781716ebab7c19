package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ironsheep/omr-tools/internal/omr"
)

var _ omr.Observer = (*Recorder)(nil)

func TestRecorder_Gathers(t *testing.T) {
	r := NewRecorder()
	r.ObserveStage(omr.StageAlign, 20*time.Millisecond)
	r.ObserveStage(omr.StageAlign, 30*time.Millisecond)
	r.ObserveOutcome("ok")
	r.ObserveOutcome(string(omr.KindNotFound))

	families, err := r.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	found := map[string]bool{}
	for _, mf := range families {
		found[mf.GetName()] = true
		if mf.GetName() == "omr_stage_duration_seconds" {
			h := mf.GetMetric()[0].GetHistogram()
			if h.GetSampleCount() != 2 {
				t.Errorf("sample count: got %d, want 2", h.GetSampleCount())
			}
		}
		if mf.GetName() == "omr_scans_total" && len(mf.GetMetric()) != 2 {
			t.Errorf("expected 2 outcome series, got %d", len(mf.GetMetric()))
		}
	}
	if !found["omr_stage_duration_seconds"] || !found["omr_scans_total"] {
		t.Errorf("missing families: %v", found)
	}
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveOutcome("ok")

	path := filepath.Join(t.TempDir(), "omr.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), `omr_scans_total{outcome="ok"} 1`) {
		t.Errorf("unexpected textfile contents:\n%s", data)
	}
}
