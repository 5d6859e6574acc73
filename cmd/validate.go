package cmd

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tremorlab/tremor-analyzer/configs"
	"github.com/tremorlab/tremor-analyzer/internal/report"
	"github.com/tremorlab/tremor-analyzer/pkg/sensor"
)

var validateOutputFile string

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [flags] recording.csv [more.csv...]",
	Short: "Assess recording quality without classifying",
	Long: `Check whether recordings are suitable for tremor frequency analysis.

The assessment covers sampling rate and Nyquist coverage of the clinical
bands, timing jitter, gaps, completeness against the nominal rate and
frozen-sensor detection. No filtering or classification is performed.

Examples:
  # Validate a recording before a study run
  tremor-analyzer validate session1.csv

  # Machine-readable report
  tremor-analyzer validate -o json session1.csv session2.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateOutputFile, "output-file", "",
		"write the report to file instead of stdout")
}

func runValidate(cmd *cobra.Command, args []string) error {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return err
	}
	thresholds := appConfig.QualityThresholds()

	var reports []*sensor.QualityReport
	for _, path := range args {
		rec, err := sensor.LoadCSV(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		rpt, err := sensor.AssessQuality(rec, thresholds)
		if err != nil {
			return fmt.Errorf("failed to assess %s: %w", path, err)
		}
		reports = append(reports, rpt)
	}

	var data []byte
	switch outputFormat {
	case "json", "yaml":
		data, err = formatQualityReports(outputFormat, reports)
	default:
		data, err = qualityTable(reports)
	}
	if err != nil {
		return fmt.Errorf("failed to format quality reports: %w", err)
	}

	return writeOutput(data, validateOutputFile)
}

func formatQualityReports(format string, reports []*sensor.QualityReport) ([]byte, error) {
	if len(reports) == 1 {
		return report.FormatQuality(format, reports[0])
	}
	return report.FormatQuality(format, reports)
}

func qualityTable(reports []*sensor.QualityReport) ([]byte, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)

	for i, rpt := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if rpt.Source != "" {
			fmt.Fprintf(w, "Recording:\t%s\n", rpt.Source)
		}
		fmt.Fprintf(w, "Samples:\t%d (%d rows skipped)\n", rpt.SampleCount, rpt.SkippedRows)
		fmt.Fprintf(w, "Duration:\t%.1f s\n", rpt.DurationSeconds)
		fmt.Fprintf(w, "Effective rate:\t%.2f Hz (Nyquist %.1f Hz)\n", rpt.EffectiveRate, rpt.NyquistHz)
		fmt.Fprintf(w, "Timing:\tmean %.2f ms, jitter %.1f%%, max gap %.0f ms\n",
			rpt.Timing.MeanIntervalMS, rpt.Timing.JitterCV*100, rpt.LargestGapMS)
		fmt.Fprintf(w, "Completeness:\t%.1f%%\n", rpt.Completeness)
		fmt.Fprintf(w, "Frequency resolution:\t%.3f Hz\n", rpt.FrequencyResolution)

		for _, s := range rpt.Strengths {
			fmt.Fprintf(w, "  +\t%s\n", s)
		}
		for _, c := range rpt.Concerns {
			fmt.Fprintf(w, "  -\t%s\n", c)
		}
		fmt.Fprintf(w, "Suitability:\t%s\n", rpt.Suitability)
	}

	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
