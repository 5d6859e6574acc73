package tremor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/tremorlab/tremor-analyzer/pkg/sensor"
)

// PipelineTestSuite runs the full pipeline over synthetic recordings
type PipelineTestSuite struct {
	suite.Suite
	analyzer *Analyzer
}

func (s *PipelineTestSuite) SetupSuite() {
	analyzer, err := NewAnalyzer(DefaultConfig())
	s.Require().NoError(err)
	s.analyzer = analyzer
}

// makeRecording builds a 100 Hz recording with the given generator on the
// accelerometer Y axis.
func makeRecording(seconds float64, gen func(t float64) float64) *sensor.Recording {
	n := int(seconds * 100)
	rec := &sensor.Recording{}
	for i := 0; i < n; i++ {
		t := float64(i) / 100
		rec.Samples = append(rec.Samples, sensor.Sample{
			TimestampMS: int64(i * 10),
			Accel:       [3]float64{0.1, 9.81 + gen(t), 0.2},
		})
	}
	return rec
}

func tone(freq, amplitude float64) func(float64) float64 {
	return func(t float64) float64 {
		return amplitude * math.Sin(2*math.Pi*freq*t)
	}
}

func (s *PipelineTestSuite) TestRestTremorRoundTrip() {
	rec := makeRecording(20, tone(5, 2))

	result, err := s.analyzer.Analyze(rec)
	s.Require().NoError(err)

	m := result.Metrics
	s.Equal(LabelRest, m.Classification.Label)
	s.InDelta(5.0, m.DominantFreqHz, 0.3)
	s.Greater(m.Rest.PSDPower, m.Essential.PSDPower)
	s.Greater(m.Classification.Ratio, 2.0)
	s.Equal("Y", m.Axis)
	s.InDelta(100.0, m.SampleRate, 0.5)

	// Gravity is removed before filtering.
	s.Less(m.RMSRaw, 3.0)

	// Envelope of a steady tone tracks its amplitude.
	s.InDelta(2.0, m.EnvelopeMean, 0.4)

	s.Require().NotNil(m.Stability)
	s.InDelta(5.0, m.Stability.MeanHz, 0.5)
}

func (s *PipelineTestSuite) TestEssentialTremorRoundTrip() {
	rec := makeRecording(20, tone(9, 2))

	result, err := s.analyzer.Analyze(rec)
	s.Require().NoError(err)

	m := result.Metrics
	s.Equal(LabelEssential, m.Classification.Label)
	s.InDelta(9.0, m.DominantFreqHz, 0.3)
	s.Less(m.Classification.Ratio, 0.5)
}

func (s *PipelineTestSuite) TestMixedTremor() {
	rec := makeRecording(20, func(t float64) float64 {
		return 2*math.Sin(2*math.Pi*4.5*t) + 2*math.Sin(2*math.Pi*8*t)
	})

	result, err := s.analyzer.Analyze(rec)
	s.Require().NoError(err)

	s.Equal(LabelMixed, result.Metrics.Classification.Label)
}

func (s *PipelineTestSuite) TestQuiescentRecording() {
	rec := makeRecording(20, func(float64) float64 { return 0 })

	result, err := s.analyzer.Analyze(rec)
	s.Require().NoError(err)

	m := result.Metrics
	s.Equal(LabelNoTremor, m.Classification.Label)
	s.Equal("N/A", m.Classification.Confidence)
}

func (s *PipelineTestSuite) TestResultSeriesShapes() {
	rec := makeRecording(20, tone(5, 2))

	result, err := s.analyzer.Analyze(rec)
	s.Require().NoError(err)

	n := rec.Len()
	s.Len(result.Conditioned, n)
	s.Len(result.Filtered, n)
	s.Len(result.Residual, n)
	s.Len(result.Envelope, n)
	s.NotNil(result.RawSpectrum)
	s.NotNil(result.FilteredSpectrum)
	s.NotNil(result.ResidualSpectrum)

	// Residual is exactly the out-of-band remainder.
	for i := 0; i < n; i += 97 {
		s.InDelta(result.Conditioned[i], result.Filtered[i]+result.Residual[i], 1e-9)
	}
}

func (s *PipelineTestSuite) TestEmptyRecording() {
	_, err := s.analyzer.Analyze(&sensor.Recording{})
	s.Require().Error(err)
	s.True(sensor.IsInsufficientData(err))

	_, err = s.analyzer.Analyze(nil)
	s.Require().Error(err)
}

func (s *PipelineTestSuite) TestGyroRequestedButMissing() {
	cfg := DefaultConfig()
	cfg.Sensor = sensor.SensorGyro
	analyzer, err := NewAnalyzer(cfg)
	s.Require().NoError(err)

	_, err = analyzer.Analyze(makeRecording(20, tone(5, 2)))
	s.Require().Error(err)
	s.True(sensor.IsInsufficientData(err))
}

func (s *PipelineTestSuite) TestDominantAxisMode() {
	cfg := DefaultConfig()
	cfg.Axis = AxisModeDominant
	analyzer, err := NewAnalyzer(cfg)
	s.Require().NoError(err)

	result, err := analyzer.Analyze(makeRecording(20, tone(5, 2)))
	s.Require().NoError(err)
	s.Equal("Y (dominant)", result.Metrics.Axis)
	s.Equal(LabelRest, result.Metrics.Classification.Label)
}

func (s *PipelineTestSuite) TestMagnitudeAxisMode() {
	cfg := DefaultConfig()
	cfg.Axis = AxisModeMagnitude
	analyzer, err := NewAnalyzer(cfg)
	s.Require().NoError(err)

	result, err := analyzer.Analyze(makeRecording(20, tone(5, 2)))
	s.Require().NoError(err)
	s.Equal("magnitude", result.Metrics.Axis)
}

func (s *PipelineTestSuite) TestEffectiveRateOverridesNominal() {
	// Timestamps at 12 ms spacing mean the recorder ran at ~83.3 Hz.
	rec := &sensor.Recording{}
	for i := 0; i < 1500; i++ {
		t := float64(i) * 0.012
		rec.Samples = append(rec.Samples, sensor.Sample{
			TimestampMS: int64(i * 12),
			Accel:       [3]float64{0, 2 * math.Sin(2*math.Pi*5*t), 0},
		})
	}

	result, err := s.analyzer.Analyze(rec)
	s.Require().NoError(err)
	s.InDelta(83.3, result.Metrics.SampleRate, 0.2)
	s.InDelta(5.0, result.Metrics.DominantFreqHz, 0.3)
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineTestSuite))
}

func TestNewAnalyzerRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FilterOrder = 0
	_, err := NewAnalyzer(cfg)
	require.Error(t, err)

	cfg = DefaultConfig()
	cfg.RestBand.LowHz = 8
	_, err = NewAnalyzer(cfg)
	require.Error(t, err)
}

func TestParseAxisMode(t *testing.T) {
	for _, valid := range []string{"x", "y", "z", "magnitude", "dominant"} {
		mode, err := ParseAxisMode(valid)
		require.NoError(t, err)
		assert.Equal(t, AxisMode(valid), mode)
	}

	_, err := ParseAxisMode("w")
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative sample rate", func(c *Config) { c.SampleRate = -1 }},
		{"zero filter order", func(c *Config) { c.FilterOrder = 0 }},
		{"band above nyquist", func(c *Config) { c.EssentialBand.HighHz = 60 }},
		{"inverted search range", func(c *Config) { c.SearchLowHz = 20 }},
		{"overlap of one", func(c *Config) { c.Overlap = 1 }},
		{"ratio at one", func(c *Config) { c.ClassificationRatio = 1 }},
		{"bad axis", func(c *Config) { c.Axis = "diagonal" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultConfig()
			tc.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
