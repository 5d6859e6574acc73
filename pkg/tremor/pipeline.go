package tremor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/tremorlab/tremor-analyzer/pkg/logging"
	"github.com/tremorlab/tremor-analyzer/pkg/sensor"
	"github.com/tremorlab/tremor-analyzer/pkg/tremor/analyzers"
)

// Analyzer runs the full pipeline over a recording: channel selection,
// detrending, zero-phase band-pass filtering, spectral estimation and
// classification. An Analyzer is stateless between calls and safe for
// concurrent use.
type Analyzer struct {
	config Config
	logger logging.Logger
}

// NewAnalyzer validates the configuration and returns a ready analyzer
func NewAnalyzer(config Config) (*Analyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analyzer config: %w", err)
	}
	return &Analyzer{
		config: config,
		logger: logging.WithFields(logging.Fields{"component": "analyzer"}),
	}, nil
}

// Config returns a copy of the analyzer configuration
func (a *Analyzer) Config() Config {
	return a.config
}

// Analyze processes one recording end to end. The recording is not
// modified; every derived series in the result is freshly allocated.
func (a *Analyzer) Analyze(rec *sensor.Recording) (*Result, error) {
	if rec == nil || rec.Len() == 0 {
		return nil, sensor.NewAnalysisError("pipeline", sensor.ErrCodeInsufficientData,
			"empty recording", nil)
	}
	if a.config.Sensor == sensor.SensorGyro && !rec.HasGyro {
		return nil, sensor.NewAnalysisError("pipeline", sensor.ErrCodeInsufficientData,
			"gyroscope channel requested but recording has no gyro columns", nil)
	}

	fs := a.resolveSampleRate(rec)

	cfg := a.config
	cfg.SampleRate = fs
	if err := cfg.Validate(); err != nil {
		return nil, sensor.NewAnalysisError("pipeline", sensor.ErrCodeInvalidBand,
			fmt.Sprintf("config invalid at effective rate %.2f Hz", fs), err)
	}

	axisLabel, clean, err := a.selectChannel(rec)
	if err != nil {
		return nil, err
	}

	a.logger.Info("Analyzing recording", logging.Fields{
		"source":      rec.Source,
		"samples":     rec.Len(),
		"sample_rate": fs,
		"sensor":      string(cfg.Sensor),
		"axis":        axisLabel,
	})

	combined := cfg.CombinedBand()
	combinedFilter, err := analyzers.DesignBandpass(cfg.FilterOrder, combined.LowHz, combined.HighHz, fs)
	if err != nil {
		return nil, err
	}
	restFilter, err := analyzers.DesignBandpass(cfg.FilterOrder, cfg.RestBand.LowHz, cfg.RestBand.HighHz, fs)
	if err != nil {
		return nil, err
	}
	essentialFilter, err := analyzers.DesignBandpass(cfg.FilterOrder, cfg.EssentialBand.LowHz, cfg.EssentialBand.HighHz, fs)
	if err != nil {
		return nil, err
	}

	filtered, err := combinedFilter.FiltFilt(clean)
	if err != nil {
		return nil, err
	}
	restSignal, err := restFilter.FiltFilt(clean)
	if err != nil {
		return nil, err
	}
	essentialSignal, err := essentialFilter.FiltFilt(clean)
	if err != nil {
		return nil, err
	}

	// Out-of-band remainder; a large residual flags motion artifacts or
	// sensor noise outside the tremor range.
	residual := make([]float64, len(clean))
	floats.SubTo(residual, clean, filtered)

	estimator := analyzers.NewSpectralEstimator(fs, cfg.WindowSeconds, cfg.Overlap)
	rawSpec, err := estimator.Estimate(clean)
	if err != nil {
		return nil, err
	}
	filteredSpec, err := estimator.Estimate(filtered)
	if err != nil {
		return nil, err
	}
	residualSpec, err := estimator.Estimate(residual)
	if err != nil {
		return nil, err
	}

	envelope, err := analyzers.Envelope(filtered)
	if err != nil {
		return nil, err
	}

	stability := analyzers.Stability(filtered, fs, cfg.Stability)

	powerRest := rawSpec.BandPower(cfg.RestBand.LowHz, cfg.RestBand.HighHz)
	powerEssential := rawSpec.BandPower(cfg.EssentialBand.LowHz, cfg.EssentialBand.HighHz)
	dominantHz, peakPower := rawSpec.DominantFrequency(cfg.SearchLowHz, cfg.SearchHighHz)

	restPeakHz, restPeak := rawSpec.DominantFrequency(cfg.RestBand.LowHz, cfg.RestBand.HighHz)
	essPeakHz, essPeak := rawSpec.DominantFrequency(cfg.EssentialBand.LowHz, cfg.EssentialBand.HighHz)

	classification := Classify(powerRest, powerEssential, cfg.PowerThreshold, cfg.ClassificationRatio)

	metrics := &Metrics{
		Source:      rec.Source,
		Sensor:      string(cfg.Sensor),
		Axis:        axisLabel,
		SampleRate:  fs,
		Duration:    rec.DurationSeconds(),
		Samples:     rec.Len(),
		RMSRaw:      analyzers.RMS(clean),
		RMSFiltered: analyzers.RMS(filtered),
		Rest: BandMetrics{
			Band:      cfg.RestBand,
			RMS:       analyzers.RMS(restSignal),
			PSDPower:  powerRest,
			PeakHz:    restPeakHz,
			PeakPower: restPeak,
		},
		Essential: BandMetrics{
			Band:      cfg.EssentialBand,
			RMS:       analyzers.RMS(essentialSignal),
			PSDPower:  powerEssential,
			PeakHz:    essPeakHz,
			PeakPower: essPeak,
		},
		DominantFreqHz: dominantHz,
		PeakPower:      peakPower,
		EnvelopePeak:   floats.Max(envelope),
		EnvelopeMean:   stat.Mean(envelope, nil),
		Stability:      stability,
		Classification: classification,
	}

	a.logger.Info("Classification complete", logging.Fields{
		"source":          rec.Source,
		"label":           classification.Label,
		"ratio":           classification.Ratio,
		"dominant_hz":     dominantHz,
		"power_rest":      powerRest,
		"power_essential": powerEssential,
	})

	return &Result{
		Metrics:          metrics,
		Conditioned:      clean,
		Filtered:         filtered,
		Residual:         residual,
		Envelope:         envelope,
		RawSpectrum:      rawSpec,
		FilteredSpectrum: filteredSpec,
		ResidualSpectrum: residualSpec,
	}, nil
}

// resolveSampleRate prefers the timestamp-derived rate when enabled and
// well defined, falling back to the configured nominal rate.
func (a *Analyzer) resolveSampleRate(rec *sensor.Recording) float64 {
	if !a.config.AutoSampleRate {
		return a.config.SampleRate
	}
	eff := rec.EffectiveRate()
	if eff <= 0 {
		return a.config.SampleRate
	}
	return eff
}

// selectChannel extracts and detrends the analysis channel per the
// configured axis mode. Returns a display label alongside the series.
func (a *Analyzer) selectChannel(rec *sensor.Recording) (string, []float64, error) {
	x, y, z := rec.Axes(a.config.Sensor)

	switch a.config.Axis {
	case AxisModeX, AxisModeY, AxisModeZ:
		axis := map[AxisMode]sensor.Axis{
			AxisModeX: sensor.AxisX,
			AxisModeY: sensor.AxisY,
			AxisModeZ: sensor.AxisZ,
		}[a.config.Axis]
		raw := [3][]float64{x, y, z}[axis]
		clean, err := analyzers.Detrend(raw)
		return axis.String(), clean, err

	case AxisModeMagnitude:
		dx, err := analyzers.Detrend(x)
		if err != nil {
			return "", nil, err
		}
		dy, err := analyzers.Detrend(y)
		if err != nil {
			return "", nil, err
		}
		dz, err := analyzers.Detrend(z)
		if err != nil {
			return "", nil, err
		}
		mag, err := analyzers.Magnitude(dx, dy, dz)
		return "magnitude", mag, err

	case AxisModeDominant:
		dx, err := analyzers.Detrend(x)
		if err != nil {
			return "", nil, err
		}
		dy, err := analyzers.Detrend(y)
		if err != nil {
			return "", nil, err
		}
		dz, err := analyzers.Detrend(z)
		if err != nil {
			return "", nil, err
		}
		axis, clean, err := analyzers.DominantAxis(dx, dy, dz)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("%s (dominant)", axis), clean, nil
	}

	return "", nil, fmt.Errorf("unknown axis mode %q", a.config.Axis)
}
