package sensor

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/tremorlab/tremor-analyzer/pkg/logging"
)

// Suitability verdicts for tremor frequency analysis
const (
	SuitabilityExcellent = "EXCELLENT"
	SuitabilityGood      = "GOOD"
	SuitabilityFair      = "FAIR"
)

// QualityConfig tunes the recording quality assessment
type QualityConfig struct {
	NominalRate    float64 // expected sampling rate, Hz
	LargeGapMS     float64 // gap length considered disruptive
	FrozenRun      int     // identical consecutive samples flagged as a frozen sensor
	MaxTremorHz    float64 // highest clinical band edge the data must cover
	NyquistMargin  float64 // safety factor over the Nyquist criterion
	MinJitterCV    float64 // timing jitter (std/mean) above which FFT analysis degrades
	MinCompleteness float64 // fraction of expected samples that must be present
}

// DefaultQualityConfig returns the assessment thresholds used by the
// recording rig validation scripts
func DefaultQualityConfig() QualityConfig {
	return QualityConfig{
		NominalRate:    100.0,
		LargeGapMS:     50.0,
		FrozenRun:      15,
		MaxTremorHz:    12.0,
		NyquistMargin:  1.5,
		MinJitterCV:    0.5,
		MinCompleteness: 0.95,
	}
}

// TimingStats summarizes inter-sample interval behavior
type TimingStats struct {
	MeanIntervalMS   float64 `json:"mean_interval_ms"`
	StdIntervalMS    float64 `json:"std_interval_ms"`
	MedianIntervalMS float64 `json:"median_interval_ms"`
	MaxIntervalMS    float64 `json:"max_interval_ms"`
	JitterCV         float64 `json:"jitter_cv"`
}

// AxisStats summarizes per-axis signal variability
type AxisStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// QualityReport is the result of assessing one recording
type QualityReport struct {
	Source          string  `json:"source,omitempty"`
	SampleCount     int     `json:"sample_count"`
	SkippedRows     int     `json:"skipped_rows"`
	DurationSeconds float64 `json:"duration_seconds"`
	EffectiveRate   float64 `json:"effective_rate_hz"`
	NyquistHz       float64 `json:"nyquist_hz"`

	Timing TimingStats `json:"timing"`

	LargeGaps    int     `json:"large_gaps"`
	LargeGapPct  float64 `json:"large_gap_pct"`
	LargestGapMS float64 `json:"largest_gap_ms"`
	Completeness float64 `json:"completeness_pct"`
	FrozenRuns   int     `json:"frozen_runs"`

	AccelStats map[string]AxisStats `json:"accel_stats"`
	GyroStats  map[string]AxisStats `json:"gyro_stats,omitempty"`

	FrequencyResolution float64 `json:"frequency_resolution_hz"`

	Strengths   []string `json:"strengths"`
	Concerns    []string `json:"concerns"`
	Suitability string   `json:"suitability"`
}

// AssessQuality evaluates whether a recording is suitable for tremor
// frequency analysis: timing regularity, completeness, sensor liveness
// and Nyquist coverage of the clinical bands.
func AssessQuality(rec *Recording, cfg QualityConfig) (*QualityReport, error) {
	if rec == nil || rec.Len() < 2 {
		return nil, NewAnalysisError("quality", ErrCodeInsufficientData,
			"recording needs at least 2 samples for assessment", nil)
	}

	logger := logging.WithFields(logging.Fields{
		"component": "quality",
		"samples":   rec.Len(),
	})
	logger.Debug("Assessing recording quality")

	report := &QualityReport{
		Source:          rec.Source,
		SampleCount:     rec.Len(),
		SkippedRows:     rec.SkippedRows,
		DurationSeconds: rec.DurationSeconds(),
		EffectiveRate:   rec.EffectiveRate(),
		AccelStats:      map[string]AxisStats{},
	}
	report.NyquistHz = report.EffectiveRate / 2
	if report.DurationSeconds > 0 {
		report.FrequencyResolution = 1.0 / report.DurationSeconds
	}

	intervals := rec.Intervals()
	report.Timing = timingStats(intervals)

	for _, dt := range intervals {
		if dt > cfg.LargeGapMS {
			report.LargeGaps++
			if dt > report.LargestGapMS {
				report.LargestGapMS = dt
			}
		}
	}
	report.LargeGapPct = 100 * float64(report.LargeGaps) / float64(len(intervals))

	expected := report.DurationSeconds * cfg.NominalRate
	if expected > 0 {
		report.Completeness = 100 * float64(report.SampleCount) / expected
	}

	report.FrozenRuns = countFrozenRuns(rec, cfg.FrozenRun)

	for _, a := range []Axis{AxisX, AxisY, AxisZ} {
		report.AccelStats[a.String()] = axisStats(rec.AccelAxis(a))
	}
	if rec.HasGyro {
		report.GyroStats = map[string]AxisStats{}
		for _, a := range []Axis{AxisX, AxisY, AxisZ} {
			report.GyroStats[a.String()] = axisStats(rec.GyroAxis(a))
		}
	}

	assess(report, cfg)

	logger.Info("Quality assessment completed", logging.Fields{
		"suitability":    report.Suitability,
		"effective_rate": report.EffectiveRate,
		"completeness":   report.Completeness,
	})

	return report, nil
}

func timingStats(intervals []float64) TimingStats {
	if len(intervals) == 0 {
		return TimingStats{}
	}
	mean, std := stat.MeanStdDev(intervals, nil)
	if len(intervals) == 1 {
		std = 0
	}

	sorted := append([]float64(nil), intervals...)
	sort.Float64s(sorted)

	ts := TimingStats{
		MeanIntervalMS:   mean,
		StdIntervalMS:    std,
		MedianIntervalMS: sorted[len(sorted)/2],
		MaxIntervalMS:    sorted[len(sorted)-1],
	}
	if mean > 0 {
		ts.JitterCV = std / mean
	}
	return ts
}

func axisStats(values []float64) AxisStats {
	if len(values) == 0 {
		return AxisStats{}
	}
	mean, std := stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		std = 0
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return AxisStats{Mean: mean, Std: std, Min: min, Max: max}
}

// countFrozenRuns counts samples whose accelerometer reading has been
// byte-identical for the previous run-length samples, which indicates a
// hung sensor rather than a still subject.
func countFrozenRuns(rec *Recording, runLen int) int {
	if runLen < 2 || rec.Len() <= runLen {
		return 0
	}
	frozen := 0
	run := 1
	for i := 1; i < rec.Len(); i++ {
		if rec.Samples[i].Accel == rec.Samples[i-1].Accel {
			run++
			if run > runLen {
				frozen++
			}
		} else {
			run = 1
		}
	}
	return frozen
}

func assess(report *QualityReport, cfg QualityConfig) {
	requiredRate := cfg.MaxTremorHz * 2 * cfg.NyquistMargin

	if report.EffectiveRate >= requiredRate {
		report.Strengths = append(report.Strengths, fmt.Sprintf(
			"sampling rate (%.1f Hz) covers tremor bands up to %.0f Hz with margin",
			report.EffectiveRate, cfg.MaxTremorHz))
	} else {
		report.Concerns = append(report.Concerns, fmt.Sprintf(
			"sampling rate (%.1f Hz) below %.0f Hz required for %.0f Hz tremor content",
			report.EffectiveRate, requiredRate, cfg.MaxTremorHz))
	}

	if report.Timing.JitterCV < cfg.MinJitterCV {
		report.Strengths = append(report.Strengths, fmt.Sprintf(
			"low timing jitter (%.1f%%)", report.Timing.JitterCV*100))
	} else {
		report.Concerns = append(report.Concerns, fmt.Sprintf(
			"high timing jitter (%.1f%%) may distort the spectrum", report.Timing.JitterCV*100))
	}

	if report.Completeness >= cfg.MinCompleteness*100 {
		report.Strengths = append(report.Strengths, fmt.Sprintf(
			"completeness %.1f%%", report.Completeness))
	} else {
		report.Concerns = append(report.Concerns, fmt.Sprintf(
			"only %.1f%% of expected samples present", report.Completeness))
	}

	if report.LargeGapPct < 1 {
		report.Strengths = append(report.Strengths, fmt.Sprintf(
			"few large timing gaps (%.2f%%)", report.LargeGapPct))
	} else {
		report.Concerns = append(report.Concerns, fmt.Sprintf(
			"%.2f%% of intervals exceed %.0f ms; consider interpolation", report.LargeGapPct, cfg.LargeGapMS))
	}

	if report.FrozenRuns == 0 {
		report.Strengths = append(report.Strengths, "no sensor freezes detected")
	} else {
		report.Concerns = append(report.Concerns, fmt.Sprintf(
			"%d frozen samples; sensor may have stalled", report.FrozenRuns))
	}

	if report.DurationSeconds >= 60 {
		report.Strengths = append(report.Strengths, fmt.Sprintf(
			"long recording (%.0f s) gives reliable spectral estimates", report.DurationSeconds))
	}

	lively := false
	for _, s := range report.AccelStats {
		if s.Std > 0.01 {
			lively = true
			break
		}
	}
	if lively {
		report.Strengths = append(report.Strengths, "signal variability present on accelerometer")
	} else {
		report.Concerns = append(report.Concerns, "very low signal variability; check sensor response")
	}

	switch {
	case len(report.Concerns) == 0:
		report.Suitability = SuitabilityExcellent
	case len(report.Concerns) <= 2:
		report.Suitability = SuitabilityGood
	default:
		report.Suitability = SuitabilityFair
	}
}
