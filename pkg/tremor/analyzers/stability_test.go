package analyzers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStabilityStableTone(t *testing.T) {
	cfg := DefaultStabilityConfig()
	result := Stability(sine(5, 100, 20, 2), 100, cfg)

	require.Greater(t, result.Segments, 10)
	assert.InDelta(t, 5.0, result.MeanHz, 0.5)
	assert.Less(t, result.StdHz, 0.5)
}

func TestStabilitySilenceYieldsNoSegments(t *testing.T) {
	cfg := DefaultStabilityConfig()
	result := Stability(make([]float64, 2000), 100, cfg)

	assert.Equal(t, 0, result.Segments)
	assert.Empty(t, result.SegmentFrequencies)
	assert.Equal(t, 0.0, result.MeanHz)
}

func TestStabilityShortSignal(t *testing.T) {
	cfg := DefaultStabilityConfig()
	result := Stability(sine(5, 100, 0.5, 2), 100, cfg)

	assert.Equal(t, 0, result.Segments)
}

func TestStabilityWeakPeaksFiltered(t *testing.T) {
	cfg := DefaultStabilityConfig()
	cfg.MinPeakPower = 1e6

	result := Stability(sine(5, 100, 20, 2), 100, cfg)
	assert.Equal(t, 0, result.Segments)
}
