package configs

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// SetDefaults sets default configuration values for all components
func SetDefaults(v *viper.Viper) {
	// Sensor defaults
	if !v.IsSet("sensor.kind") {
		v.Set("sensor.kind", "accel")
	}
	if !v.IsSet("sensor.axis") {
		v.Set("sensor.axis", "y")
	}
	if !v.IsSet("sensor.sample_rate") {
		v.Set("sensor.sample_rate", 100.0)
	}
	if !v.IsSet("sensor.auto_sample_rate") {
		v.Set("sensor.auto_sample_rate", true)
	}

	// Signal processing defaults
	if !v.IsSet("signal.filter_order") {
		v.Set("signal.filter_order", 4)
	}
	if !v.IsSet("signal.window_seconds") {
		v.Set("signal.window_seconds", 4.0)
	}
	if !v.IsSet("signal.overlap") {
		v.Set("signal.overlap", 0.5)
	}
	if !v.IsSet("signal.search_low_hz") {
		v.Set("signal.search_low_hz", 2.0)
	}
	if !v.IsSet("signal.search_high_hz") {
		v.Set("signal.search_high_hz", 15.0)
	}

	// Clinical band defaults
	if !v.IsSet("bands.rest_low_hz") {
		v.Set("bands.rest_low_hz", 3.0)
	}
	if !v.IsSet("bands.rest_high_hz") {
		v.Set("bands.rest_high_hz", 6.0)
	}
	if !v.IsSet("bands.essential_low_hz") {
		v.Set("bands.essential_low_hz", 6.0)
	}
	if !v.IsSet("bands.essential_high_hz") {
		v.Set("bands.essential_high_hz", 12.0)
	}

	// Classification defaults
	if !v.IsSet("classify.power_threshold") {
		v.Set("classify.power_threshold", 0.01)
	}
	if !v.IsSet("classify.ratio_threshold") {
		v.Set("classify.ratio_threshold", 2.0)
	}

	// Quality thresholds
	if !v.IsSet("quality.nominal_rate") {
		v.Set("quality.nominal_rate", 100.0)
	}
	if !v.IsSet("quality.large_gap_ms") {
		v.Set("quality.large_gap_ms", 50.0)
	}
	if !v.IsSet("quality.frozen_run") {
		v.Set("quality.frozen_run", 15)
	}
	if !v.IsSet("quality.min_completeness") {
		v.Set("quality.min_completeness", 0.95)
	}

	// Batch defaults
	if !v.IsSet("batch.max_concurrency") {
		v.Set("batch.max_concurrency", 4)
	}
	if !v.IsSet("batch.fail_fast") {
		v.Set("batch.fail_fast", false)
	}

	// Application defaults
	if !v.IsSet("verbose") {
		v.Set("verbose", false)
	}
	if !v.IsSet("log_level") {
		v.Set("log_level", "info")
	}
	if !v.IsSet("output_format") {
		v.Set("output_format", "table")
	}
	if !v.IsSet("data_dir") {
		home, _ := os.UserHomeDir()
		v.Set("data_dir", filepath.Join(home, ".local", "share", "tremor-analyzer"))
	}
}

// GetDefaultConfig returns a Config struct with all default values set
func GetDefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		Verbose:      false,
		LogLevel:     "info",
		OutputFormat: "table",
		DataDir:      filepath.Join(home, ".local", "share", "tremor-analyzer"),
		Sensor:       GetDefaultSensorConfig(),
		Signal:       GetDefaultSignalConfig(),
		Bands:        GetDefaultBandsConfig(),
		Classify:     GetDefaultClassifyConfig(),
		Quality:      GetDefaultQualityConfig(),
		Batch:        GetDefaultBatchConfig(),
	}
}

// GetDefaultSensorConfig returns default sensor input settings
func GetDefaultSensorConfig() SensorConfig {
	return SensorConfig{
		Kind:           "accel",
		Axis:           "y",
		SampleRate:     100.0,
		AutoSampleRate: true,
	}
}

// GetDefaultSignalConfig returns default signal processing settings
func GetDefaultSignalConfig() SignalConfig {
	return SignalConfig{
		FilterOrder:   4,
		WindowSeconds: 4.0,
		Overlap:       0.5,
		SearchLowHz:   2.0,
		SearchHighHz:  15.0,
	}
}

// GetDefaultBandsConfig returns the clinical band edges
func GetDefaultBandsConfig() BandsConfig {
	return BandsConfig{
		RestLowHz:       3.0,
		RestHighHz:      6.0,
		EssentialLowHz:  6.0,
		EssentialHighHz: 12.0,
	}
}

// GetDefaultClassifyConfig returns default classification thresholds
func GetDefaultClassifyConfig() ClassifyConfig {
	return ClassifyConfig{
		PowerThreshold: 0.01,
		RatioThreshold: 2.0,
	}
}

// GetDefaultQualityConfig returns default recording quality thresholds
func GetDefaultQualityConfig() QualityConfig {
	return QualityConfig{
		NominalRate:     100.0,
		LargeGapMS:      50.0,
		FrozenRun:       15,
		MinCompleteness: 0.95,
	}
}

// GetDefaultBatchConfig returns default batch execution settings
func GetDefaultBatchConfig() BatchConfig {
	return BatchConfig{
		MaxConcurrency: 4,
		FailFast:       false,
	}
}
