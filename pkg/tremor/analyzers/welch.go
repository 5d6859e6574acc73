package analyzers

import (
	"fmt"

	"github.com/mjibson/go-dsp/spectral"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/floats"

	"github.com/tremorlab/tremor-analyzer/pkg/logging"
	"github.com/tremorlab/tremor-analyzer/pkg/sensor"
)

// SpectralEstimate holds a one-sided power spectral density: frequency
// bins from DC to Nyquist and the density per bin (power/Hz).
type SpectralEstimate struct {
	Frequencies []float64 `json:"frequencies_hz"`
	Power       []float64 `json:"power_density"`
}

// Resolution returns the frequency spacing between bins
func (e *SpectralEstimate) Resolution() float64 {
	if len(e.Frequencies) < 2 {
		return 0
	}
	return e.Frequencies[1] - e.Frequencies[0]
}

// SpectralEstimator computes smoothed power spectral densities with
// Welch's method: overlapping Hann-tapered segments, averaged
// periodograms.
type SpectralEstimator struct {
	sampleRate    float64
	windowSeconds float64
	overlap       float64
	logger        logging.Logger
}

// NewSpectralEstimator creates a Welch estimator. windowSeconds sets the
// nominal segment length (shrunk to the signal when shorter) and overlap
// is the segment overlap fraction.
func NewSpectralEstimator(sampleRate, windowSeconds, overlap float64) *SpectralEstimator {
	return &SpectralEstimator{
		sampleRate:    sampleRate,
		windowSeconds: windowSeconds,
		overlap:       overlap,
		logger: logging.WithFields(logging.Fields{
			"component":   "spectral_estimator",
			"sample_rate": sampleRate,
		}),
	}
}

// Estimate computes the PSD of a signal. The segment length is
// min(len(signal), sampleRate*windowSeconds), matching the behavior of
// the recording-rig analyzers: short signals degrade resolution instead
// of failing, only a degenerate signal is rejected.
func (se *SpectralEstimator) Estimate(signal []float64) (*SpectralEstimate, error) {
	if len(signal) < 2 {
		return nil, sensor.NewAnalysisError("spectral", sensor.ErrCodeInsufficientData,
			fmt.Sprintf("signal of %d samples too short for spectral estimation", len(signal)), nil)
	}

	nperseg := int(se.sampleRate * se.windowSeconds)
	if nperseg > len(signal) {
		nperseg = len(signal)
	}
	if nperseg%2 == 1 {
		nperseg--
	}
	if nperseg < 2 {
		nperseg = 2
	}
	noverlap := int(float64(nperseg) * se.overlap)

	se.logger.Debug("Computing Welch PSD", logging.Fields{
		"signal_length": len(signal),
		"nperseg":       nperseg,
		"noverlap":      noverlap,
	})

	pxx, freqs := spectral.Pwelch(signal, se.sampleRate, &spectral.PwelchOptions{
		NFFT:     nperseg,
		Noverlap: noverlap,
		Window:   window.Hann,
	})

	return &SpectralEstimate{Frequencies: freqs, Power: pxx}, nil
}

// DominantFrequency finds the strongest bin within [lowHz, highHz]. The
// first bin achieving the maximum wins on exact ties. An empty mask
// yields (0, 0), meaning "undetermined", never an error: callers must not
// read a zero as a literal 0 Hz tremor.
func (e *SpectralEstimate) DominantFrequency(lowHz, highHz float64) (freq, power float64) {
	bestIdx := -1
	for i, f := range e.Frequencies {
		if f < lowHz || f > highHz {
			continue
		}
		if bestIdx < 0 || e.Power[i] > power {
			bestIdx = i
			power = e.Power[i]
		}
	}
	if bestIdx < 0 {
		return 0, 0
	}
	return e.Frequencies[bestIdx], power
}

// BandPower sums the density bins inside [lowHz, highHz]. This is the
// unnormalized sum convention used throughout the classifier; it is a
// relative quantity comparable between signals processed identically,
// not a calibrated physical power.
func (e *SpectralEstimate) BandPower(lowHz, highHz float64) float64 {
	masked := make([]float64, 0, len(e.Power))
	for i, f := range e.Frequencies {
		if f >= lowHz && f <= highHz {
			masked = append(masked, e.Power[i])
		}
	}
	return floats.Sum(masked)
}
