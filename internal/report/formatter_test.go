package report

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tremorlab/tremor-analyzer/pkg/tremor"
)

func sampleMetrics() *tremor.Metrics {
	return &tremor.Metrics{
		Source:     "session1.csv",
		Sensor:     "accel",
		Axis:       "Y",
		SampleRate: 99.87,
		Duration:   20,
		Samples:    2000,
		Rest: tremor.BandMetrics{
			Band:     tremor.Band{Name: "Rest", LowHz: 3, HighHz: 6},
			RMS:      1.2,
			PSDPower: 14.5,
		},
		Essential: tremor.BandMetrics{
			Band:     tremor.Band{Name: "Essential", LowHz: 6, HighHz: 12},
			RMS:      0.2,
			PSDPower: 1.1,
		},
		DominantFreqHz: 5.02,
		PeakPower:      8.4,
		Classification: tremor.Classification{
			Label:      tremor.LabelRest,
			Confidence: "High (ratio: 13.18)",
			Ratio:      13.18,
		},
	}
}

func TestNewFormatterSelection(t *testing.T) {
	assert.IsType(t, &JSONFormatter{}, NewFormatter("json"))
	assert.IsType(t, &YAMLFormatter{}, NewFormatter("yaml"))
	assert.IsType(t, &CSVFormatter{}, NewFormatter("csv"))
	assert.IsType(t, &TableFormatter{}, NewFormatter("table"))
	assert.IsType(t, &JSONFormatter{}, NewFormatter("bogus"))
}

func TestJSONFormatterRoundTrips(t *testing.T) {
	data, err := (&JSONFormatter{}).Format([]*tremor.Metrics{sampleMetrics()})
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "session1.csv", decoded[0]["source"])

	classification := decoded[0]["classification"].(map[string]any)
	assert.Equal(t, tremor.LabelRest, classification["label"])
}

func TestYAMLFormatter(t *testing.T) {
	data, err := (&YAMLFormatter{}).Format([]*tremor.Metrics{sampleMetrics()})
	require.NoError(t, err)
	assert.Contains(t, string(data), "session1.csv")
	assert.Contains(t, string(data), "Rest Tremor (Parkinsonian)")
}

func TestCSVFormatter(t *testing.T) {
	data, err := (&CSVFormatter{}).Format([]*tremor.Metrics{sampleMetrics(), sampleMetrics()})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "source,sensor,axis"))
	assert.Contains(t, lines[1], "session1.csv")
	assert.Contains(t, lines[1], "Rest Tremor (Parkinsonian)")
}

func TestTableFormatter(t *testing.T) {
	data, err := (&TableFormatter{}).Format([]*tremor.Metrics{sampleMetrics()})
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "session1.csv")
	assert.Contains(t, out, "Rest band (3.0-6.0 Hz)")
	assert.Contains(t, out, tremor.LabelRest)
	assert.NotContains(t, out, "Summary")
}

func TestTableFormatterSummary(t *testing.T) {
	m1 := sampleMetrics()
	m2 := sampleMetrics()
	m2.Classification.Label = tremor.LabelMixed

	data, err := (&TableFormatter{}).Format([]*tremor.Metrics{m1, m2})
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "Summary (2 recordings)")
	assert.Contains(t, out, tremor.LabelMixed)
}

func TestSanitizeReplacesNonFinite(t *testing.T) {
	m := sampleMetrics()
	m.PeakPower = math.NaN()
	m.Classification.Ratio = math.Inf(1)

	clean := Sanitize(m)
	assert.Equal(t, 0.0, clean.PeakPower)
	assert.Equal(t, 0.0, clean.Classification.Ratio)

	// Original left untouched.
	assert.True(t, math.IsNaN(m.PeakPower))

	_, err := (&JSONFormatter{}).Format([]*tremor.Metrics{clean})
	assert.NoError(t, err)
}

func TestJoinErrors(t *testing.T) {
	assert.Equal(t, "", JoinErrors(nil))

	out := JoinErrors(map[string]error{
		"b.csv": fmt.Errorf("bad rows"),
		"a.csv": fmt.Errorf("too short"),
	})
	assert.Equal(t, "a.csv: too short; b.csv: bad rows", out)
}
