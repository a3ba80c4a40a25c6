package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReportWriteRead(t *testing.T) {
	r := &Report{
		Version: "1.0",
		Options: Options{Thresholds: 10, ThresholdPolicy: "adaptive", ActivationPolicy: "flood", SmoothingSigma: 3, MaxDim: 640},
		Pages: []Page{
			{Index: 0, Input: "cat.png", Output: "cat_saliency.png", Width: 640, Height: 480, Scale: 0.5, BooleanMaps: 27, Peak: Point{X: 300, Y: 200}, PeakValue: 255, Mean: 31.5},
			{Index: 1, Input: "dog.png", Error: "decode failed"},
		},
	}

	path := filepath.Join(t.TempDir(), "report.yaml")
	if err := Write(r, path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "boolean_maps: 27") {
		t.Errorf("expected snake_case keys, got:\n%s", data)
	}
	if strings.Contains(string(data), "build:") {
		t.Errorf("empty build should be omitted:\n%s", data)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got.Pages) != 2 || got.Pages[0].Peak != r.Pages[0].Peak || got.Pages[1].Error != "decode failed" {
		t.Errorf("report changed on disk: %+v", got)
	}
}

func TestReadMissing(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("expected error")
	}
}
