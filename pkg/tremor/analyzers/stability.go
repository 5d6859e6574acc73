package analyzers

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// StabilityConfig tunes the segment-wise frequency tracking
type StabilityConfig struct {
	SegmentSeconds float64 // analysis window per segment
	StepSeconds    float64 // hop between segments
	MinPeakPower   float64 // segments with weaker peaks are ignored
	SearchLowHz    float64
	SearchHighHz   float64
}

// DefaultStabilityConfig returns the segmentation used by the stability
// histogram of the original analyzers: 1 s windows, 0.5 s step.
func DefaultStabilityConfig() StabilityConfig {
	return StabilityConfig{
		SegmentSeconds: 1.0,
		StepSeconds:    0.5,
		MinPeakPower:   0.1,
		SearchLowHz:    2.0,
		SearchHighHz:   15.0,
	}
}

// StabilityResult describes how steady the tremor frequency is over the
// recording: the dominant frequency of each short segment plus summary
// statistics. A small spread indicates a stationary tremor.
type StabilityResult struct {
	SegmentFrequencies []float64 `json:"segment_frequencies_hz"`
	MeanHz             float64   `json:"mean_hz"`
	StdHz              float64   `json:"std_hz"`
	Segments           int       `json:"segments"`
}

// Stability tracks the dominant frequency across sliding segments of the
// band-passed signal. Segments whose spectral peak falls below the power
// floor are treated as tremor-free and excluded.
func Stability(signal []float64, sampleRate float64, cfg StabilityConfig) *StabilityResult {
	result := &StabilityResult{}

	winSize := int(sampleRate * cfg.SegmentSeconds)
	step := int(sampleRate * cfg.StepSeconds)
	if winSize < 4 || step < 1 || len(signal) < winSize {
		return result
	}

	estimator := NewSpectralEstimator(sampleRate, cfg.SegmentSeconds, 0.5)

	for start := 0; start+winSize <= len(signal); start += step {
		est, err := estimator.Estimate(signal[start : start+winSize])
		if err != nil {
			continue
		}
		freq, power := est.DominantFrequency(cfg.SearchLowHz, cfg.SearchHighHz)
		if freq > 0 && power > cfg.MinPeakPower {
			result.SegmentFrequencies = append(result.SegmentFrequencies, freq)
		}
	}

	result.Segments = len(result.SegmentFrequencies)
	if result.Segments > 0 {
		result.MeanHz = stat.Mean(result.SegmentFrequencies, nil)
	}
	if result.Segments > 1 {
		result.StdHz = math.Sqrt(stat.Variance(result.SegmentFrequencies, nil))
	}
	return result
}
