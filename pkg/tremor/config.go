// Package tremor implements the offline tremor-classification pipeline:
// condition raw inertial samples, band-pass filter into clinical tremor
// bands, estimate the power spectrum, and classify the tremor type from
// the per-band power ratio.
package tremor

import (
	"fmt"

	"github.com/tremorlab/tremor-analyzer/pkg/sensor"
	"github.com/tremorlab/tremor-analyzer/pkg/tremor/analyzers"
)

// AxisMode selects which analysis channel is derived from the tri-axial
// recording
type AxisMode string

const (
	AxisModeX         AxisMode = "x"
	AxisModeY         AxisMode = "y"
	AxisModeZ         AxisMode = "z"
	AxisModeMagnitude AxisMode = "magnitude"
	AxisModeDominant  AxisMode = "dominant"
)

// ParseAxisMode validates a CLI/config axis selection
func ParseAxisMode(s string) (AxisMode, error) {
	switch AxisMode(s) {
	case AxisModeX, AxisModeY, AxisModeZ, AxisModeMagnitude, AxisModeDominant:
		return AxisMode(s), nil
	}
	return "", fmt.Errorf("unknown axis mode %q (want x, y, z, magnitude or dominant)", s)
}

// Band is a named clinical frequency interval. The Rest and Essential
// bands may overlap at the boundary; the clinical literature disagrees on
// the exact edges and the overlap is intentional.
type Band struct {
	Name   string  `json:"name" mapstructure:"name"`
	LowHz  float64 `json:"low_hz" mapstructure:"low_hz"`
	HighHz float64 `json:"high_hz" mapstructure:"high_hz"`
}

// Config carries every tunable of one analysis run. All fields have
// defaults; the pipeline holds no state beyond this struct and owns no
// globals.
type Config struct {
	// SampleRate is the nominal rate; when AutoSampleRate is set the
	// effective rate is computed from the recording timestamps instead
	// (recorders drift between 98 and 100 Hz).
	SampleRate     float64 `json:"sample_rate"`
	AutoSampleRate bool    `json:"auto_sample_rate"`

	Sensor sensor.SensorKind `json:"sensor"`
	Axis   AxisMode          `json:"axis"`

	FilterOrder int `json:"filter_order"`

	RestBand      Band `json:"rest_band"`
	EssentialBand Band `json:"essential_band"`

	// Dominant-frequency search range; always sub-Nyquist, never
	// includes DC.
	SearchLowHz  float64 `json:"search_low_hz"`
	SearchHighHz float64 `json:"search_high_hz"`

	// Welch estimator parameters
	WindowSeconds float64 `json:"window_seconds"`
	Overlap       float64 `json:"overlap"`

	// Classification thresholds
	PowerThreshold      float64 `json:"power_threshold"`
	ClassificationRatio float64 `json:"classification_ratio"`

	Stability analyzers.StabilityConfig `json:"-"`
}

// DefaultConfig returns the clinical defaults: 100 Hz nominal rate with
// timestamp-derived override, order-4 Butterworth filters, Rest 3-6 Hz,
// Essential 6-12 Hz, 4 s Welch windows at 50% overlap.
func DefaultConfig() Config {
	return Config{
		SampleRate:          100.0,
		AutoSampleRate:      true,
		Sensor:              sensor.SensorAccel,
		Axis:                AxisModeY,
		FilterOrder:         4,
		RestBand:            Band{Name: "Rest", LowHz: 3.0, HighHz: 6.0},
		EssentialBand:       Band{Name: "Essential", LowHz: 6.0, HighHz: 12.0},
		SearchLowHz:         2.0,
		SearchHighHz:        15.0,
		WindowSeconds:       4.0,
		Overlap:             0.5,
		PowerThreshold:      0.01,
		ClassificationRatio: 2.0,
		Stability:           analyzers.DefaultStabilityConfig(),
	}
}

// CombinedBand spans the union of the two clinical bands; it drives the
// main filtered signal and the dominant-frequency search path.
func (c *Config) CombinedBand() Band {
	return Band{
		Name:   "Combined",
		LowHz:  c.RestBand.LowHz,
		HighHz: c.EssentialBand.HighHz,
	}
}

// Validate checks the configuration against the given sampling rate
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive")
	}
	if c.FilterOrder < 1 {
		return fmt.Errorf("filter order must be >= 1")
	}
	nyquist := c.SampleRate / 2
	for _, b := range []Band{c.RestBand, c.EssentialBand} {
		if b.LowHz <= 0 || b.LowHz >= b.HighHz || b.HighHz >= nyquist {
			return fmt.Errorf("band %s [%.2f, %.2f] Hz invalid for Nyquist %.2f Hz",
				b.Name, b.LowHz, b.HighHz, nyquist)
		}
	}
	if c.SearchLowHz <= 0 || c.SearchLowHz >= c.SearchHighHz || c.SearchHighHz >= nyquist {
		return fmt.Errorf("search range [%.2f, %.2f] Hz invalid for Nyquist %.2f Hz",
			c.SearchLowHz, c.SearchHighHz, nyquist)
	}
	if c.WindowSeconds <= 0 {
		return fmt.Errorf("welch window must be positive")
	}
	if c.Overlap < 0 || c.Overlap >= 1 {
		return fmt.Errorf("overlap must be in [0, 1)")
	}
	if c.PowerThreshold < 0 {
		return fmt.Errorf("power threshold cannot be negative")
	}
	if c.ClassificationRatio <= 1 {
		return fmt.Errorf("classification ratio must be > 1")
	}
	if _, err := ParseAxisMode(string(c.Axis)); err != nil {
		return err
	}
	return nil
}
