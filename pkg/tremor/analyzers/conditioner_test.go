package analyzers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tremorlab/tremor-analyzer/pkg/sensor"
)

func TestDetrendRemovesBias(t *testing.T) {
	signal := make([]float64, 500)
	for i := range signal {
		signal[i] = 9.81 + math.Sin(2*math.Pi*5*float64(i)/100)
	}

	out, err := Detrend(signal)
	require.NoError(t, err)
	require.Len(t, out, len(signal))

	mean := 0.0
	for _, v := range out {
		mean += v
	}
	mean /= float64(len(out))
	assert.InDelta(t, 0.0, mean, 1e-9)

	// Oscillation survives, only the offset moves.
	assert.InDelta(t, signal[0]-9.81, out[0], 1e-6)
}

func TestDetrendIdempotent(t *testing.T) {
	signal := []float64{1.5, -0.5, 2.5, 0.5}

	once, err := Detrend(signal)
	require.NoError(t, err)
	twice, err := Detrend(once)
	require.NoError(t, err)

	for i := range once {
		assert.InDelta(t, once[i], twice[i], 1e-12)
	}
}

func TestDetrendEmpty(t *testing.T) {
	_, err := Detrend(nil)
	require.Error(t, err)
	assert.True(t, sensor.IsInsufficientData(err))
}

func TestDetrendDoesNotModifyInput(t *testing.T) {
	signal := []float64{1, 2, 3}
	_, err := Detrend(signal)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, signal)
}

func TestMagnitude(t *testing.T) {
	x := []float64{3, 0}
	y := []float64{4, 0}
	z := []float64{0, 2}

	out, err := Magnitude(x, y, z)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, out[0], 1e-12)
	assert.InDelta(t, 2.0, out[1], 1e-12)
}

func TestMagnitudeLengthMismatch(t *testing.T) {
	_, err := Magnitude([]float64{1, 2}, []float64{1}, []float64{1, 2})
	require.Error(t, err)
	assert.True(t, sensor.IsInsufficientData(err))
}

func TestDominantAxis(t *testing.T) {
	x := []float64{0.1, -0.1, 0.1}
	y := []float64{2.0, -2.0, 2.0}
	z := []float64{0.5, -0.5, 0.5}

	axis, signal, err := DominantAxis(x, y, z)
	require.NoError(t, err)
	assert.Equal(t, sensor.AxisY, axis)
	assert.Equal(t, y, signal)
}

func TestDominantAxisTieBreak(t *testing.T) {
	// Equal energy on all axes resolves to X.
	v := []float64{1, -1, 1}

	axis, _, err := DominantAxis(v, v, v)
	require.NoError(t, err)
	assert.Equal(t, sensor.AxisX, axis)
}

func TestDominantAxisReturnsCopy(t *testing.T) {
	y := []float64{2, -2}
	_, signal, err := DominantAxis([]float64{0, 0}, y, []float64{0, 0})
	require.NoError(t, err)

	signal[0] = 99
	assert.Equal(t, 2.0, y[0])
}

func TestRMS(t *testing.T) {
	assert.Equal(t, 0.0, RMS(nil))
	assert.InDelta(t, 2.0, RMS([]float64{2, -2, 2, -2}), 1e-12)

	// RMS of a full-cycle sine is amplitude/sqrt(2).
	signal := make([]float64, 1000)
	for i := range signal {
		signal[i] = 3 * math.Sin(2*math.Pi*10*float64(i)/1000)
	}
	assert.InDelta(t, 3/math.Sqrt2, RMS(signal), 0.01)
}
