package tremor

import (
	"github.com/tremorlab/tremor-analyzer/pkg/tremor/analyzers"
)

// BandMetrics summarizes one clinical band of a single analysis channel
type BandMetrics struct {
	Band      Band    `json:"band"`
	RMS       float64 `json:"rms"`
	PSDPower  float64 `json:"psd_power"`
	PeakHz    float64 `json:"peak_hz"`
	PeakPower float64 `json:"peak_power"`
}

// Classification is the verdict of the rest-vs-essential decision rule
type Classification struct {
	Label      string  `json:"label"`
	Confidence string  `json:"confidence"`
	Ratio      float64 `json:"ratio"`
}

// Metrics holds every scalar the pipeline derives from one channel
type Metrics struct {
	Source     string  `json:"source,omitempty"`
	Sensor     string  `json:"sensor"`
	Axis       string  `json:"axis"`
	SampleRate float64 `json:"sample_rate_hz"`
	Duration   float64 `json:"duration_s"`
	Samples    int     `json:"samples"`

	RMSRaw      float64 `json:"rms_raw"`
	RMSFiltered float64 `json:"rms_filtered"`

	Rest      BandMetrics `json:"rest"`
	Essential BandMetrics `json:"essential"`

	// Dominant peak over the configured search range of the raw spectrum
	DominantFreqHz float64 `json:"dominant_freq_hz"`
	PeakPower      float64 `json:"peak_power"`

	EnvelopePeak float64 `json:"envelope_peak"`
	EnvelopeMean float64 `json:"envelope_mean"`

	Stability *analyzers.StabilityResult `json:"stability,omitempty"`

	Classification Classification `json:"classification"`
}

// Result bundles the metrics with the intermediate series so callers can
// render spectra and time traces without re-running the pipeline.
type Result struct {
	Metrics *Metrics `json:"metrics"`

	Conditioned []float64 `json:"-"`
	Filtered    []float64 `json:"-"`
	Residual    []float64 `json:"-"`
	Envelope    []float64 `json:"-"`

	RawSpectrum      *analyzers.SpectralEstimate `json:"raw_spectrum,omitempty"`
	FilteredSpectrum *analyzers.SpectralEstimate `json:"filtered_spectrum,omitempty"`
	ResidualSpectrum *analyzers.SpectralEstimate `json:"residual_spectrum,omitempty"`
}
