package analyzer

import (
	"fmt"
	"strings"
)

// ThresholdPolicy selects the interval swept by the threshold generator.
type ThresholdPolicy string

const (
	// ThresholdFixed sweeps the unit interval [0, 1).
	ThresholdFixed ThresholdPolicy = "fixed"
	// ThresholdAdaptive sweeps [min, max) of each prepared channel.
	ThresholdAdaptive ThresholdPolicy = "adaptive"
)

// ActivationPolicy selects how a boolean map is reduced to an activation.
type ActivationPolicy string

const (
	// ActivationFloodFill clears every true region touching the border.
	ActivationFloodFill ActivationPolicy = "flood"
	// ActivationFillHoles keeps the map and fills its enclosed false regions.
	ActivationFillHoles ActivationPolicy = "fill-holes"
)

// Options configures a saliency computation.
type Options struct {
	ThresholdCount   int              // Threshold levels per channel; N-1 of them are used
	ThresholdPolicy  ThresholdPolicy  // fixed or adaptive
	ActivationPolicy ActivationPolicy // flood or fill-holes
	SmoothingSigma   float64          // Gaussian sigma, 0 disables smoothing
	Workers          int              // Parallel activation workers, 0 means 1
}

// DefaultOptions returns the reference configuration.
func DefaultOptions() Options {
	return Options{
		ThresholdCount:   10,
		ThresholdPolicy:  ThresholdAdaptive,
		ActivationPolicy: ActivationFloodFill,
		SmoothingSigma:   3.0,
		Workers:          1,
	}
}

// Validate reports configuration errors wrapped in ErrInvalidConfiguration.
func (o Options) Validate() error {
	if o.ThresholdCount < 2 {
		return fmt.Errorf("%w: threshold count %d < 2", ErrInvalidConfiguration, o.ThresholdCount)
	}
	if o.SmoothingSigma < 0 {
		return fmt.Errorf("%w: smoothing sigma %g < 0", ErrInvalidConfiguration, o.SmoothingSigma)
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: workers %d < 0", ErrInvalidConfiguration, o.Workers)
	}
	if _, err := ParseThresholdPolicy(string(o.ThresholdPolicy)); err != nil {
		return err
	}
	if _, err := NewActivator(o.ActivationPolicy); err != nil {
		return err
	}
	return nil
}

// ParseThresholdPolicy accepts "fixed" or "adaptive"; empty selects adaptive.
func ParseThresholdPolicy(s string) (ThresholdPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "adaptive", "":
		return ThresholdAdaptive, nil
	case "fixed":
		return ThresholdFixed, nil
	default:
		return "", fmt.Errorf("%w: unknown threshold policy %q", ErrInvalidConfiguration, s)
	}
}

// ParseActivationPolicy accepts "flood" or "fill-holes"; empty selects flood.
func ParseActivationPolicy(s string) (ActivationPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flood", "":
		return ActivationFloodFill, nil
	case "fill-holes":
		return ActivationFillHoles, nil
	default:
		return "", fmt.Errorf("%w: unknown activation policy %q", ErrInvalidConfiguration, s)
	}
}
