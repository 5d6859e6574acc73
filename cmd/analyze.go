package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tremorlab/tremor-analyzer/configs"
	"github.com/tremorlab/tremor-analyzer/internal/analysis"
	"github.com/tremorlab/tremor-analyzer/internal/report"
	"github.com/tremorlab/tremor-analyzer/pkg/logging"
	"github.com/tremorlab/tremor-analyzer/pkg/tremor"
)

var (
	// Analyze command flags
	analyzeAxis       string
	analyzeSensor     string
	analyzeSampleRate float64
	analyzeNoAutoRate bool
	analyzeOrder      int
	analyzeRestBand   []float64
	analyzeEssBand    []float64
	analyzeOutputFile string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] recording.csv [more.csv...]",
	Short: "Classify tremor in one or more recordings",
	Long: `Run the full tremor analysis pipeline on CSV recordings.

Each recording is detrended, band-pass filtered into the clinical tremor
bands, spectrally analyzed and classified as rest tremor, essential
tremor, mixed tremor or no significant tremor.

Examples:
  # Analyze a single recording with defaults
  tremor-analyzer analyze session1.csv

  # Use the dominant accelerometer axis and JSON output
  tremor-analyzer analyze --axis dominant -o json session1.csv

  # Analyze the gyroscope channel with custom band edges
  tremor-analyzer analyze --sensor gyro --rest-band 3,7 session1.csv

  # Force the nominal sampling rate instead of the timestamp-derived one
  tremor-analyzer analyze --no-auto-rate --sample-rate 104 session1.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeAxis, "axis", "y",
		"analysis channel (x, y, z, magnitude, dominant)")
	analyzeCmd.Flags().StringVar(&analyzeSensor, "sensor", "accel",
		"sensor channel (accel, gyro)")
	analyzeCmd.Flags().Float64Var(&analyzeSampleRate, "sample-rate", 100.0,
		"nominal sampling rate in Hz")
	analyzeCmd.Flags().BoolVar(&analyzeNoAutoRate, "no-auto-rate", false,
		"disable the timestamp-derived sampling rate")
	analyzeCmd.Flags().IntVar(&analyzeOrder, "order", 4,
		"Butterworth filter order")
	analyzeCmd.Flags().Float64SliceVar(&analyzeRestBand, "rest-band", []float64{3, 6},
		"rest tremor band edges in Hz (low,high)")
	analyzeCmd.Flags().Float64SliceVar(&analyzeEssBand, "essential-band", []float64{6, 12},
		"essential tremor band edges in Hz (low,high)")
	analyzeCmd.Flags().StringVar(&analyzeOutputFile, "output-file", "",
		"write results to file instead of stdout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := analyzeConfig(cmd)
	if err != nil {
		return err
	}

	analyzer, err := tremor.NewAnalyzer(cfg)
	if err != nil {
		return err
	}

	orchestrator := analysis.NewOrchestrator(analyzer, 1, logging.Default())

	var results []*tremor.Metrics
	for _, path := range args {
		result, err := orchestrator.AnalyzeFile(path)
		if err != nil {
			return fmt.Errorf("failed to analyze %s: %w", path, err)
		}
		results = append(results, report.Sanitize(result.Metrics))
	}

	formatter := report.NewFormatter(outputFormat)
	data, err := formatter.Format(results)
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}

	return writeOutput(data, analyzeOutputFile)
}

// analyzeConfig merges the config file with analyze command flags; flags
// win when explicitly set.
func analyzeConfig(cmd *cobra.Command) (tremor.Config, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return tremor.Config{}, err
	}

	if cmd.Flags().Changed("axis") {
		appConfig.Sensor.Axis = analyzeAxis
	}
	if cmd.Flags().Changed("sensor") {
		appConfig.Sensor.Kind = analyzeSensor
	}
	if cmd.Flags().Changed("sample-rate") {
		appConfig.Sensor.SampleRate = analyzeSampleRate
	}
	if analyzeNoAutoRate {
		appConfig.Sensor.AutoSampleRate = false
	}
	if cmd.Flags().Changed("order") {
		appConfig.Signal.FilterOrder = analyzeOrder
	}
	if cmd.Flags().Changed("rest-band") {
		if len(analyzeRestBand) != 2 {
			return tremor.Config{}, fmt.Errorf("--rest-band needs exactly two values, got %d", len(analyzeRestBand))
		}
		appConfig.Bands.RestLowHz = analyzeRestBand[0]
		appConfig.Bands.RestHighHz = analyzeRestBand[1]
	}
	if cmd.Flags().Changed("essential-band") {
		if len(analyzeEssBand) != 2 {
			return tremor.Config{}, fmt.Errorf("--essential-band needs exactly two values, got %d", len(analyzeEssBand))
		}
		appConfig.Bands.EssentialLowHz = analyzeEssBand[0]
		appConfig.Bands.EssentialHighHz = analyzeEssBand[1]
	}

	return appConfig.PipelineConfig()
}
