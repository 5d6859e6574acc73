package analyzers

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/tremorlab/tremor-analyzer/pkg/sensor"
)

// Envelope computes the instantaneous amplitude envelope of a signal as
// the magnitude of its analytic signal (Hilbert transform via FFT). The
// input is expected to be band-limited already; the envelope of the
// band-passed tremor signal tracks tremor intensity over time.
func Envelope(signal []float64) ([]float64, error) {
	n := len(signal)
	if n == 0 {
		return nil, sensor.NewAnalysisError("envelope", sensor.ErrCodeInsufficientData,
			"empty signal", nil)
	}
	if n == 1 {
		return []float64{abs(signal[0])}, nil
	}

	spectrum := fft.FFTReal(signal)

	// Analytic-signal spectrum: keep DC (and Nyquist for even lengths),
	// double the positive frequencies, zero the negative half.
	half := n / 2
	for i := 1; i < half; i++ {
		spectrum[i] *= 2
	}
	if n%2 == 1 {
		spectrum[half] *= 2
	}
	for i := half + 1; i < n; i++ {
		spectrum[i] = 0
	}

	analytic := fft.IFFT(spectrum)
	out := make([]float64, n)
	for i, v := range analytic {
		out[i] = cmplx.Abs(v)
	}
	return out, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
