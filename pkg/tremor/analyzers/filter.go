package analyzers

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/tremorlab/tremor-analyzer/pkg/sensor"
)

// IIRFilter is a digital filter in transfer-function form with normalized
// coefficients (A[0] == 1). Filters are immutable once designed; every
// application allocates fresh state so a single instance is safe to share.
type IIRFilter struct {
	B []float64
	A []float64

	Order      int
	LowHz      float64
	HighHz     float64
	SampleRate float64
}

// Name returns a short band label like "3.0-6.0 Hz"
func (f *IIRFilter) Name() string {
	return fmt.Sprintf("%.1f-%.1f Hz", f.LowHz, f.HighHz)
}

// FiltFilt applies the filter forward then backward so the output has no
// phase delay relative to the input. Later stages read timing off the
// envelope, so group delay has to cancel exactly. The ends are stabilized
// with an odd extension of three filter lengths and steady-state initial
// conditions, following Gustafsson's forward-backward scheme. The
// effective attenuation is twice the single-pass design.
func (f *IIRFilter) FiltFilt(signal []float64) ([]float64, error) {
	edge := 3 * (len(f.A) - 1)
	if len(signal) <= edge {
		return nil, sensor.NewAnalysisError("filter", sensor.ErrCodeInsufficientData,
			fmt.Sprintf("signal of %d samples too short for order-%d zero-phase filtering (needs > %d)",
				len(signal), f.Order, edge), nil)
	}

	// Odd extension around both ends.
	ext := make([]float64, 0, len(signal)+2*edge)
	for i := edge; i >= 1; i-- {
		ext = append(ext, 2*signal[0]-signal[i])
	}
	ext = append(ext, signal...)
	last := len(signal) - 1
	for i := 1; i <= edge; i++ {
		ext = append(ext, 2*signal[last]-signal[last-i])
	}

	zi := f.steadyState()
	state := make([]float64, len(zi))

	// Forward pass
	for i := range zi {
		state[i] = zi[i] * ext[0]
	}
	y := f.apply(ext, state)

	// Backward pass
	reverse(y)
	for i := range zi {
		state[i] = zi[i] * y[0]
	}
	y = f.apply(y, state)
	reverse(y)

	return y[edge : edge+len(signal)], nil
}

// apply runs the direct-form II transposed difference equation over x,
// starting from the given delay-line state.
func (f *IIRFilter) apply(x []float64, state []float64) []float64 {
	n := len(f.A) - 1
	w := make([]float64, n)
	copy(w, state)

	y := make([]float64, len(x))
	for idx, xv := range x {
		yv := w[0] + f.B[0]*xv
		for i := 0; i < n-1; i++ {
			w[i] = w[i+1] + f.B[i+1]*xv - f.A[i+1]*yv
		}
		w[n-1] = f.B[n]*xv - f.A[n]*yv
		y[idx] = yv
	}
	return y
}

// steadyState computes initial delay-line values that hold the filter at
// its step response, so the extension does not ring at the ends.
func (f *IIRFilter) steadyState() []float64 {
	n := len(f.A) - 1

	sumB, sumA := 0.0, 0.0
	for _, b := range f.B {
		sumB += b
	}
	for _, a := range f.A {
		sumA += a
	}
	kdc := sumB / sumA

	zi := make([]float64, n)
	acc := 0.0
	for i := n - 1; i >= 0; i-- {
		acc += f.B[i+1] - kdc*f.A[i+1]
		zi[i] = acc
	}
	return zi
}

// Response evaluates the complex frequency response at the given
// frequencies in Hz (single pass; FiltFilt squares the magnitude).
func (f *IIRFilter) Response(freqsHz []float64) []complex128 {
	out := make([]complex128, len(freqsHz))
	for i, fr := range freqsHz {
		w := 2 * math.Pi * fr / f.SampleRate
		z := cmplx.Exp(complex(0, -w))
		out[i] = polyEval(f.B, z) / polyEval(f.A, z)
	}
	return out
}

// MagnitudeDB returns the single-pass magnitude response in decibels
func (f *IIRFilter) MagnitudeDB(freqsHz []float64) []float64 {
	h := f.Response(freqsHz)
	out := make([]float64, len(h))
	for i, v := range h {
		out[i] = 20 * math.Log10(cmplx.Abs(v)+1e-12)
	}
	return out
}

// polyEval evaluates sum(c[i] * z^i) by Horner's rule
func polyEval(coeffs []float64, z complex128) complex128 {
	acc := complex(0, 0)
	for i := len(coeffs) - 1; i >= 0; i-- {
		acc = acc*z + complex(coeffs[i], 0)
	}
	return acc
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
