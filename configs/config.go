// Package configs holds the viper-backed application configuration and
// its defaults.
package configs

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/tremorlab/tremor-analyzer/pkg/sensor"
	"github.com/tremorlab/tremor-analyzer/pkg/tremor"
	"github.com/tremorlab/tremor-analyzer/pkg/tremor/analyzers"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose"`
	LogLevel     string `mapstructure:"log_level"`
	OutputFormat string `mapstructure:"output_format"`
	DataDir      string `mapstructure:"data_dir"`

	// Sensor input settings
	Sensor SensorConfig `mapstructure:"sensor"`

	// Signal processing settings
	Signal SignalConfig `mapstructure:"signal"`

	// Clinical band settings
	Bands BandsConfig `mapstructure:"bands"`

	// Classification thresholds
	Classify ClassifyConfig `mapstructure:"classify"`

	// Recording quality thresholds
	Quality QualityConfig `mapstructure:"quality"`

	// Batch execution settings
	Batch BatchConfig `mapstructure:"batch"`
}

// SensorConfig selects the input channel
type SensorConfig struct {
	Kind           string  `mapstructure:"kind"` // accel or gyro
	Axis           string  `mapstructure:"axis"` // x, y, z, magnitude, dominant
	SampleRate     float64 `mapstructure:"sample_rate"`
	AutoSampleRate bool    `mapstructure:"auto_sample_rate"`
}

// SignalConfig contains filtering and spectral estimation settings
type SignalConfig struct {
	FilterOrder   int     `mapstructure:"filter_order"`
	WindowSeconds float64 `mapstructure:"window_seconds"`
	Overlap       float64 `mapstructure:"overlap"`
	SearchLowHz   float64 `mapstructure:"search_low_hz"`
	SearchHighHz  float64 `mapstructure:"search_high_hz"`
}

// BandsConfig contains the clinical band edges
type BandsConfig struct {
	RestLowHz       float64 `mapstructure:"rest_low_hz"`
	RestHighHz      float64 `mapstructure:"rest_high_hz"`
	EssentialLowHz  float64 `mapstructure:"essential_low_hz"`
	EssentialHighHz float64 `mapstructure:"essential_high_hz"`
}

// ClassifyConfig contains classification thresholds
type ClassifyConfig struct {
	PowerThreshold float64 `mapstructure:"power_threshold"`
	RatioThreshold float64 `mapstructure:"ratio_threshold"`
}

// QualityConfig contains recording quality thresholds
type QualityConfig struct {
	NominalRate     float64 `mapstructure:"nominal_rate"`
	LargeGapMS      float64 `mapstructure:"large_gap_ms"`
	FrozenRun       int     `mapstructure:"frozen_run"`
	MinCompleteness float64 `mapstructure:"min_completeness"`
}

// BatchConfig contains batch execution settings
type BatchConfig struct {
	MaxConcurrency int  `mapstructure:"max_concurrency"`
	FailFast       bool `mapstructure:"fail_fast"`
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := &Config{}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if config.Sensor.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive")
	}

	if config.Signal.FilterOrder < 1 {
		return fmt.Errorf("filter order must be at least 1")
	}

	if config.Signal.Overlap < 0 || config.Signal.Overlap >= 1 {
		return fmt.Errorf("overlap must be between 0 and 1")
	}

	if config.Bands.RestLowHz >= config.Bands.RestHighHz {
		return fmt.Errorf("rest band edges are inverted")
	}

	if config.Bands.EssentialLowHz >= config.Bands.EssentialHighHz {
		return fmt.Errorf("essential band edges are inverted")
	}

	if config.Classify.RatioThreshold <= 1 {
		return fmt.Errorf("ratio threshold must be greater than 1")
	}

	if config.Batch.MaxConcurrency < 1 {
		return fmt.Errorf("max concurrency must be at least 1")
	}

	return nil
}

// PipelineConfig converts the application configuration into the pipeline
// configuration consumed by the analyzer.
func (c *Config) PipelineConfig() (tremor.Config, error) {
	axis, err := tremor.ParseAxisMode(c.Sensor.Axis)
	if err != nil {
		return tremor.Config{}, err
	}

	kind := sensor.SensorKind(c.Sensor.Kind)
	if kind != sensor.SensorAccel && kind != sensor.SensorGyro {
		return tremor.Config{}, fmt.Errorf("unknown sensor kind %q (want accel or gyro)", c.Sensor.Kind)
	}

	cfg := tremor.DefaultConfig()
	cfg.SampleRate = c.Sensor.SampleRate
	cfg.AutoSampleRate = c.Sensor.AutoSampleRate
	cfg.Sensor = kind
	cfg.Axis = axis
	cfg.FilterOrder = c.Signal.FilterOrder
	cfg.RestBand = tremor.Band{Name: "Rest", LowHz: c.Bands.RestLowHz, HighHz: c.Bands.RestHighHz}
	cfg.EssentialBand = tremor.Band{Name: "Essential", LowHz: c.Bands.EssentialLowHz, HighHz: c.Bands.EssentialHighHz}
	cfg.SearchLowHz = c.Signal.SearchLowHz
	cfg.SearchHighHz = c.Signal.SearchHighHz
	cfg.WindowSeconds = c.Signal.WindowSeconds
	cfg.Overlap = c.Signal.Overlap
	cfg.PowerThreshold = c.Classify.PowerThreshold
	cfg.ClassificationRatio = c.Classify.RatioThreshold
	cfg.Stability = analyzers.DefaultStabilityConfig()
	cfg.Stability.SearchLowHz = c.Signal.SearchLowHz
	cfg.Stability.SearchHighHz = c.Signal.SearchHighHz

	return cfg, cfg.Validate()
}

// QualityThresholds converts the quality section into the sensor package
// thresholds, keeping package defaults for unset values.
func (c *Config) QualityThresholds() sensor.QualityConfig {
	qc := sensor.DefaultQualityConfig()
	if c.Quality.NominalRate > 0 {
		qc.NominalRate = c.Quality.NominalRate
	}
	if c.Quality.LargeGapMS > 0 {
		qc.LargeGapMS = c.Quality.LargeGapMS
	}
	if c.Quality.FrozenRun > 0 {
		qc.FrozenRun = c.Quality.FrozenRun
	}
	if c.Quality.MinCompleteness > 0 {
		qc.MinCompleteness = c.Quality.MinCompleteness
	}
	return qc
}
