package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/saliency/internal/analyzer"
)

type Config struct {
	InputPath        string  `yaml:"input"`
	OutputPath       string  `yaml:"output"`
	ThresholdCount   int     `yaml:"thresholds"`
	ThresholdPolicy  string  `yaml:"threshold_policy"`
	ActivationPolicy string  `yaml:"activation_policy"`
	SmoothingSigma   float64 `yaml:"smoothing_sigma"`
	MaxDim           int     `yaml:"max_dim"` // 0 disables downscaling
	Workers          int     `yaml:"workers"`
	DPI              int     `yaml:"dpi"`
	Pages            []int   `yaml:"pages"` // 1-based PDF pages, empty means all
	ReportPath       string  `yaml:"report"`
	LogLevel         string  `yaml:"log_level"`
	LogFormat        string  `yaml:"log_format"`
	ShowStats        bool    `yaml:"stats"`
	BuildVersion     string  `yaml:"-"`
}

// Default returns the configuration used when neither a file nor flags override it.
func Default() *Config {
	opts := analyzer.DefaultOptions()
	return &Config{
		ThresholdCount:   opts.ThresholdCount,
		ThresholdPolicy:  string(opts.ThresholdPolicy),
		ActivationPolicy: string(opts.ActivationPolicy),
		SmoothingSigma:   opts.SmoothingSigma,
		MaxDim:           640,
		Workers:          1,
		DPI:              150,
		LogLevel:         "info",
		LogFormat:        "console",
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	return LoadOver(path, Default())
}

// LoadOver reads a YAML file on top of base. Keys missing from the file keep
// the values of base; base itself is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	cfg := *base
	cfg.Pages = append([]int(nil), base.Pages...)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return &cfg, nil
}

// Options converts the saliency part of the configuration.
func (c *Config) Options() (analyzer.Options, error) {
	tp, err := analyzer.ParseThresholdPolicy(c.ThresholdPolicy)
	if err != nil {
		return analyzer.Options{}, err
	}
	ap, err := analyzer.ParseActivationPolicy(c.ActivationPolicy)
	if err != nil {
		return analyzer.Options{}, err
	}

	opts := analyzer.Options{
		ThresholdCount:   c.ThresholdCount,
		ThresholdPolicy:  tp,
		ActivationPolicy: ap,
		SmoothingSigma:   c.SmoothingSigma,
		Workers:          c.Workers,
	}
	return opts, opts.Validate()
}

// Validate checks the whole configuration before any file is touched.
func (c *Config) Validate() error {
	if _, err := c.Options(); err != nil {
		return err
	}
	if c.MaxDim < 0 {
		return fmt.Errorf("max_dim must be >= 0, got %d", c.MaxDim)
	}
	if c.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", c.DPI)
	}
	for _, p := range c.Pages {
		if p < 1 {
			return fmt.Errorf("pages are 1-based, got %d", p)
		}
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}
