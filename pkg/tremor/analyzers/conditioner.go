// Package analyzers provides the signal-processing stages of the tremor
// pipeline: bias removal, Butterworth band-pass filtering with zero-phase
// application, Welch spectral estimation, Hilbert envelope extraction and
// per-segment frequency stability analysis.
package analyzers

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/tremorlab/tremor-analyzer/pkg/sensor"
)

// Detrend removes the DC component (gravity on an accelerometer, static
// offset on a gyroscope) by subtracting the arithmetic mean over the whole
// recording. This is an accepted approximation, not a high-pass filter:
// slow drift within the recording is left uncorrected.
func Detrend(signal []float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, sensor.NewAnalysisError("conditioner", sensor.ErrCodeInsufficientData,
			"empty signal", nil)
	}

	mean := stat.Mean(signal, nil)
	out := make([]float64, len(signal))
	for i, v := range signal {
		out[i] = v - mean
	}
	return out, nil
}

// Magnitude reduces three detrended axes to a rotation-invariant scalar
// resultant. Direction is discarded; used when the sensor orientation
// relative to the tremor axis is unknown.
func Magnitude(x, y, z []float64) ([]float64, error) {
	if len(x) == 0 || len(x) != len(y) || len(x) != len(z) {
		return nil, sensor.NewAnalysisError("conditioner", sensor.ErrCodeInsufficientData,
			"axes must be non-empty and equal length", nil)
	}

	out := make([]float64, len(x))
	for i := range x {
		out[i] = math.Sqrt(x[i]*x[i] + y[i]*y[i] + z[i]*z[i])
	}
	return out, nil
}

// DominantAxis picks the axis carrying the most energy (sum of squares of
// the detrended channel). Exact ties resolve to the first axis in X, Y, Z
// order.
func DominantAxis(x, y, z []float64) (sensor.Axis, []float64, error) {
	if len(x) == 0 || len(x) != len(y) || len(x) != len(z) {
		return sensor.AxisX, nil, sensor.NewAnalysisError("conditioner", sensor.ErrCodeInsufficientData,
			"axes must be non-empty and equal length", nil)
	}

	best := sensor.AxisX
	bestEnergy := energy(x)
	channels := [3][]float64{x, y, z}

	for _, a := range []sensor.Axis{sensor.AxisY, sensor.AxisZ} {
		if e := energy(channels[a]); e > bestEnergy {
			best = a
			bestEnergy = e
		}
	}

	out := make([]float64, len(channels[best]))
	copy(out, channels[best])
	return best, out, nil
}

func energy(signal []float64) float64 {
	sum := 0.0
	for _, v := range signal {
		sum += v * v
	}
	return sum
}

// RMS computes the root-mean-square amplitude of a signal
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	return math.Sqrt(energy(signal) / float64(len(signal)))
}
