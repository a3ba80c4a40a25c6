package report

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Report describes one run of the tool
type Report struct {
	Version string  `yaml:"version"`
	Build   string  `yaml:"build,omitempty"`
	Options Options `yaml:"options"`
	Pages   []Page  `yaml:"pages"`
	TotalMs int64   `yaml:"total_ms"`
}

// Options records the saliency settings that produced the report
type Options struct {
	Thresholds       int     `yaml:"thresholds"`
	ThresholdPolicy  string  `yaml:"threshold_policy"`
	ActivationPolicy string  `yaml:"activation_policy"`
	SmoothingSigma   float64 `yaml:"smoothing_sigma"`
	MaxDim           int     `yaml:"max_dim"`
}

// Page is the outcome for a single image or PDF page
type Page struct {
	Index  int    `yaml:"index"`
	Input  string `yaml:"input"`
	Output string `yaml:"output,omitempty"`

	// Size reported by the source before rendering: pixels for images, points for PDF pages
	SourceWidth  float64 `yaml:"source_width"`
	SourceHeight float64 `yaml:"source_height"`

	Width       int     `yaml:"width"`  // Analyzed width, after downscaling
	Height      int     `yaml:"height"` // Analyzed height, after downscaling
	Scale       float64 `yaml:"scale"`  // 1.0 = original size
	BooleanMaps int     `yaml:"boolean_maps"`
	Peak        Point   `yaml:"peak"`
	PeakValue   uint8   `yaml:"peak_value"`
	Mean        float64 `yaml:"mean"`
	ElapsedMs   int64   `yaml:"elapsed_ms"`
	Error       string  `yaml:"error,omitempty"`
}

type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Write writes a report to a YAML file
func Write(r *Report, path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Read reads a report from a YAML file
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, err
	}

	return &r, nil
}
