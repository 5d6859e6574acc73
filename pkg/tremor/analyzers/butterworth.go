package analyzers

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/tremorlab/tremor-analyzer/pkg/sensor"
)

// DesignBandpass designs a Butterworth band-pass filter with the given
// order and corner frequencies. The design goes through the classic path:
// analog low-pass prototype, low-pass to band-pass transform, bilinear
// transform with frequency prewarping. The returned filter carries
// normalized transfer-function coefficients of length 2*order+1.
//
// Corner frequencies must satisfy 0 < low < high < sampleRate/2.
func DesignBandpass(order int, lowHz, highHz, sampleRate float64) (*IIRFilter, error) {
	if order < 1 {
		return nil, sensor.NewAnalysisError("filter_design", sensor.ErrCodeInvalidBand,
			fmt.Sprintf("filter order must be >= 1, got %d", order), nil)
	}
	nyquist := sampleRate / 2
	if sampleRate <= 0 || lowHz <= 0 || lowHz >= highHz || highHz >= nyquist {
		return nil, sensor.NewAnalysisError("filter_design", sensor.ErrCodeInvalidBand,
			fmt.Sprintf("band [%.2f, %.2f] Hz invalid for Nyquist %.2f Hz", lowHz, highHz, nyquist), nil)
	}

	// Prewarp the corner frequencies onto the analog axis.
	fs2 := 2 * sampleRate
	w1 := fs2 * math.Tan(math.Pi*lowHz/sampleRate)
	w2 := fs2 * math.Tan(math.Pi*highHz/sampleRate)
	bw := w2 - w1
	w0 := math.Sqrt(w1 * w2)

	// Analog low-pass prototype poles on the left unit semicircle.
	proto := make([]complex128, order)
	for k := 0; k < order; k++ {
		theta := math.Pi * float64(2*k+order+1) / float64(2*order)
		proto[k] = cmplx.Exp(complex(0, theta))
	}

	// Low-pass to band-pass: each prototype pole splits into two, the
	// prototype's zeros at infinity land at the origin.
	poles := make([]complex128, 0, 2*order)
	for _, p := range proto {
		s := p * complex(bw/2, 0)
		d := cmplx.Sqrt(s*s - complex(w0*w0, 0))
		poles = append(poles, s+d, s-d)
	}
	gain := math.Pow(bw, float64(order))

	// Bilinear transform. Analog zeros at the origin map to z=+1; the
	// order zeros at infinity map to z=-1.
	fsc := complex(fs2, 0)
	zPoles := make([]complex128, len(poles))
	denom := complex(1, 0)
	for i, p := range poles {
		zPoles[i] = (fsc + p) / (fsc - p)
		denom *= fsc - p
	}
	kDigital := gain * real(cmplx.Pow(fsc, complex(float64(order), 0))/denom)

	zZeros := make([]complex128, 0, 2*order)
	for i := 0; i < order; i++ {
		zZeros = append(zZeros, complex(1, 0))
	}
	for i := 0; i < order; i++ {
		zZeros = append(zZeros, complex(-1, 0))
	}

	b := realPoly(zZeros)
	a := realPoly(zPoles)
	for i := range b {
		b[i] *= kDigital
	}

	return &IIRFilter{
		B:          b,
		A:          a,
		Order:      order,
		LowHz:      lowHz,
		HighHz:     highHz,
		SampleRate: sampleRate,
	}, nil
}

// realPoly expands a set of roots into monic polynomial coefficients.
// Roots arrive in conjugate pairs so the imaginary parts cancel.
func realPoly(roots []complex128) []float64 {
	coeffs := []complex128{1}
	for _, r := range roots {
		next := make([]complex128, len(coeffs)+1)
		for i, c := range coeffs {
			next[i] += c
			next[i+1] -= c * r
		}
		coeffs = next
	}

	out := make([]float64, len(coeffs))
	for i, c := range coeffs {
		out[i] = real(c)
	}
	return out
}
