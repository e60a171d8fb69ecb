package segmentation

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is wrapped by Params.Validate failures
var ErrInvalidParams = errors.New("invalid segmentation parameters")

// Params holds the fixed thresholds of the segmentation engine
type Params struct {
	MinDuration       int64   `json:"minDurationMs" mapstructure:"min_duration_ms"`         // ms a cluster must span to count as an activity
	MaxRadius         float64 `json:"maxRadiusM" mapstructure:"max_radius_m"`               // meters, bounds the cluster diameter
	MinInterval       int64   `json:"minIntervalMs" mapstructure:"min_interval_ms"`         // ms gap below which two activities merge
	AccuracyThreshold float64 `json:"accuracyThreshold" mapstructure:"accuracy_threshold"` // fixes at or above are noisy; <= 0 disables
}

// DefaultParams returns the thresholds used for the travel diary study
func DefaultParams() Params {
	return Params{
		MinDuration:       180000, // 3 minutes
		MaxRadius:         50,     // meters
		MinInterval:       60000,  // 1 minute
		AccuracyThreshold: 0,      // noise handling off
	}
}

// Validate checks that the thresholds describe a usable segmentation.
// Segment itself never validates.
func (p Params) Validate() error {
	if p.MinDuration < 0 {
		return fmt.Errorf("%w: min duration must not be negative, got %d", ErrInvalidParams, p.MinDuration)
	}
	if p.MaxRadius <= 0 {
		return fmt.Errorf("%w: max radius must be positive, got %g", ErrInvalidParams, p.MaxRadius)
	}
	if p.MinInterval < 0 {
		return fmt.Errorf("%w: min interval must not be negative, got %d", ErrInvalidParams, p.MinInterval)
	}
	if p.AccuracyThreshold < 0 {
		return fmt.Errorf("%w: accuracy threshold must not be negative, got %g", ErrInvalidParams, p.AccuracyThreshold)
	}
	return nil
}

// noisy reports whether a fix with the given accuracy radius is excluded from clusters
func (p Params) noisy(accuracy float64) bool {
	return p.AccuracyThreshold > 0 && accuracy >= p.AccuracyThreshold
}
