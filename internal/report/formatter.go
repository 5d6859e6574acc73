// Package report renders analysis results for humans and machines. The
// table formatter targets terminals; json, yaml and csv target downstream
// tooling.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/tremorlab/tremor-analyzer/pkg/tremor"
)

// Formatter renders a set of analysis metrics into bytes
type Formatter interface {
	Format(results []*tremor.Metrics) ([]byte, error)
}

// NewFormatter maps an output-format name to its formatter. Unknown names
// fall back to JSON.
func NewFormatter(format string) Formatter {
	switch format {
	case "yaml":
		return &YAMLFormatter{}
	case "csv":
		return &CSVFormatter{}
	case "table":
		return &TableFormatter{}
	case "json":
		return &JSONFormatter{}
	default:
		return &JSONFormatter{}
	}
}

// JSONFormatter emits indented JSON
type JSONFormatter struct{}

func (f *JSONFormatter) Format(results []*tremor.Metrics) ([]byte, error) {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode results as JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// YAMLFormatter emits a YAML document
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(results []*tremor.Metrics) ([]byte, error) {
	data, err := yaml.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("failed to encode results as YAML: %w", err)
	}
	return data, nil
}

// CSVFormatter emits one row per recording with a fixed header. Series
// data is omitted; CSV carries scalars only.
type CSVFormatter struct{}

var csvHeader = []string{
	"source", "sensor", "axis", "sample_rate_hz", "duration_s", "samples",
	"dominant_freq_hz", "peak_power",
	"rest_power", "essential_power", "ratio",
	"rest_rms", "essential_rms",
	"classification", "confidence",
}

func (f *CSVFormatter) Format(results []*tremor.Metrics) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, m := range results {
		row := []string{
			m.Source,
			m.Sensor,
			m.Axis,
			fmt.Sprintf("%.3f", m.SampleRate),
			fmt.Sprintf("%.2f", m.Duration),
			fmt.Sprintf("%d", m.Samples),
			fmt.Sprintf("%.3f", m.DominantFreqHz),
			fmt.Sprintf("%.6f", m.PeakPower),
			fmt.Sprintf("%.6f", m.Rest.PSDPower),
			fmt.Sprintf("%.6f", m.Essential.PSDPower),
			fmt.Sprintf("%.4f", m.Classification.Ratio),
			fmt.Sprintf("%.6f", m.Rest.RMS),
			fmt.Sprintf("%.6f", m.Essential.RMS),
			m.Classification.Label,
			m.Classification.Confidence,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TableFormatter renders a readable per-recording report followed by an
// aggregate summary when more than one recording is present.
type TableFormatter struct{}

func (f *TableFormatter) Format(results []*tremor.Metrics) ([]byte, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)

	for i, m := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		f.writeRecording(w, m)
	}

	if len(results) > 1 {
		fmt.Fprintln(w)
		f.writeSummary(w, results)
	}

	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (f *TableFormatter) writeRecording(w *tabwriter.Writer, m *tremor.Metrics) {
	if m.Source != "" {
		fmt.Fprintf(w, "Recording:\t%s\n", m.Source)
	}
	fmt.Fprintf(w, "Channel:\t%s %s\n", m.Sensor, m.Axis)
	fmt.Fprintf(w, "Samples:\t%d (%.1f s @ %.2f Hz)\n", m.Samples, m.Duration, m.SampleRate)
	fmt.Fprintf(w, "Dominant frequency:\t%.2f Hz (power %.4f)\n", m.DominantFreqHz, m.PeakPower)
	fmt.Fprintf(w, "%s band (%.1f-%.1f Hz):\tpower %.4f, RMS %.4f\n",
		m.Rest.Band.Name, m.Rest.Band.LowHz, m.Rest.Band.HighHz, m.Rest.PSDPower, m.Rest.RMS)
	fmt.Fprintf(w, "%s band (%.1f-%.1f Hz):\tpower %.4f, RMS %.4f\n",
		m.Essential.Band.Name, m.Essential.Band.LowHz, m.Essential.Band.HighHz,
		m.Essential.PSDPower, m.Essential.RMS)
	if m.Stability != nil && m.Stability.Segments > 0 {
		fmt.Fprintf(w, "Frequency stability:\t%.2f ± %.2f Hz over %d segments\n",
			m.Stability.MeanHz, m.Stability.StdHz, m.Stability.Segments)
	}
	fmt.Fprintf(w, "Classification:\t%s\n", m.Classification.Label)
	fmt.Fprintf(w, "Confidence:\t%s\n", m.Classification.Confidence)
}

func (f *TableFormatter) writeSummary(w *tabwriter.Writer, results []*tremor.Metrics) {
	counts := make(map[string]int)
	for _, m := range results {
		counts[m.Classification.Label]++
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	fmt.Fprintf(w, "Summary (%d recordings):\n", len(results))
	for _, label := range labels {
		fmt.Fprintf(w, "  %s:\t%d\n", label, counts[label])
	}
}

// FormatQuality renders a recording quality report as a table; other
// formats marshal the report struct directly.
func FormatQuality(format string, data any) ([]byte, error) {
	switch format {
	case "yaml":
		return yaml.Marshal(data)
	default:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	}
}

// Sanitize replaces NaN and infinite floats so JSON encoding cannot fail
// on degenerate spectra.
func Sanitize(m *tremor.Metrics) *tremor.Metrics {
	clean := *m
	for _, v := range []*float64{
		&clean.RMSRaw, &clean.RMSFiltered,
		&clean.DominantFreqHz, &clean.PeakPower,
		&clean.EnvelopePeak, &clean.EnvelopeMean,
		&clean.Rest.RMS, &clean.Rest.PSDPower, &clean.Rest.PeakHz, &clean.Rest.PeakPower,
		&clean.Essential.RMS, &clean.Essential.PSDPower, &clean.Essential.PeakHz, &clean.Essential.PeakPower,
		&clean.Classification.Ratio,
	} {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = 0
		}
	}
	return &clean
}

// JoinErrors renders per-file errors for batch summaries
func JoinErrors(errs map[string]error) string {
	if len(errs) == 0 {
		return ""
	}
	files := make([]string, 0, len(errs))
	for f := range errs {
		files = append(files, f)
	}
	sort.Strings(files)

	parts := make([]string, 0, len(files))
	for _, f := range files {
		parts = append(parts, fmt.Sprintf("%s: %v", f, errs[f]))
	}
	return strings.Join(parts, "; ")
}
