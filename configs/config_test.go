package configs

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tremorlab/tremor-analyzer/pkg/sensor"
	"github.com/tremorlab/tremor-analyzer/pkg/tremor"
)

func TestSetDefaultsPopulatesViper(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	assert.Equal(t, "accel", v.GetString("sensor.kind"))
	assert.Equal(t, "y", v.GetString("sensor.axis"))
	assert.Equal(t, 100.0, v.GetFloat64("sensor.sample_rate"))
	assert.Equal(t, 4, v.GetInt("signal.filter_order"))
	assert.Equal(t, 3.0, v.GetFloat64("bands.rest_low_hz"))
	assert.Equal(t, 12.0, v.GetFloat64("bands.essential_high_hz"))
	assert.Equal(t, "table", v.GetString("output_format"))
}

func TestSetDefaultsRespectsExistingValues(t *testing.T) {
	v := viper.New()
	v.Set("sensor.axis", "dominant")
	SetDefaults(v)

	assert.Equal(t, "dominant", v.GetString("sensor.axis"))
}

func TestGetDefaultConfigValidates(t *testing.T) {
	cfg := GetDefaultConfig()
	require.NoError(t, ValidateConfig(cfg))
}

func TestValidateConfigRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero sample rate", func(c *Config) { c.Sensor.SampleRate = 0 }},
		{"zero filter order", func(c *Config) { c.Signal.FilterOrder = 0 }},
		{"full overlap", func(c *Config) { c.Signal.Overlap = 1 }},
		{"inverted rest band", func(c *Config) { c.Bands.RestLowHz = 7 }},
		{"inverted essential band", func(c *Config) { c.Bands.EssentialHighHz = 5 }},
		{"ratio at one", func(c *Config) { c.Classify.RatioThreshold = 1 }},
		{"zero concurrency", func(c *Config) { c.Batch.MaxConcurrency = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, ValidateConfig(cfg))
		})
	}
}

func TestPipelineConfig(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Sensor.Kind = "gyro"
	cfg.Sensor.Axis = "dominant"
	cfg.Bands.RestHighHz = 7

	pc, err := cfg.PipelineConfig()
	require.NoError(t, err)

	assert.Equal(t, sensor.SensorGyro, pc.Sensor)
	assert.Equal(t, tremor.AxisModeDominant, pc.Axis)
	assert.Equal(t, 7.0, pc.RestBand.HighHz)
	assert.Equal(t, tremor.Band{Name: "Combined", LowHz: 3, HighHz: 12}, pc.CombinedBand())
}

func TestPipelineConfigRejectsUnknownSensor(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Sensor.Kind = "barometer"
	_, err := cfg.PipelineConfig()
	require.Error(t, err)

	cfg = GetDefaultConfig()
	cfg.Sensor.Axis = "diagonal"
	_, err = cfg.PipelineConfig()
	require.Error(t, err)
}

func TestQualityThresholds(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Quality.LargeGapMS = 80

	qc := cfg.QualityThresholds()
	assert.Equal(t, 80.0, qc.LargeGapMS)
	assert.Equal(t, 100.0, qc.NominalRate)
	assert.Equal(t, 15, qc.FrozenRun)
}
